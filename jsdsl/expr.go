// Package jsdsl provides an immutable, composable representation of generated
// JavaScript expressions and statements.  Each Expr carries the precedence of
// its topmost operator, the ordered initialization statements that must run
// before its value is valid, and the external symbols its code depends on.
// Combinators never mutate their operands; rendering is a pure function of
// the value.
package jsdsl

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is a fragment of generated JavaScript representing a value.
type Expr struct {
	text     string
	prec     int
	stmts    []*Statement
	requires []string
	cheap    bool
}

// JS returns the expression text, without its initialization statements.
func (e Expr) JS() string { return e.text }

// InitStmts returns the statements that must execute before the expression's
// value is valid, in order.
func (e Expr) InitStmts() []*Statement { return e.stmts }

// Requires returns the external symbols this expression's code depends on.
func (e Expr) Requires() []string { return e.requires }

// Pure reports whether the expression is representable without any
// initialization statements.
func (e Expr) Pure() bool { return len(e.stmts) == 0 }

// Cheap reports whether the expression is trivial enough to re-evaluate
// instead of storing in a temporary (bare identifiers and small literals).
func (e Expr) Cheap() bool { return e.cheap }

// WithInitStmt returns a copy of e with stmt prepended to its init list.
func (e Expr) WithInitStmt(stmt *Statement) Expr {
	e.stmts = mergeStmts([]*Statement{stmt}, e.stmts)
	return e
}

// WithInitStmts returns a copy of e with stmts prepended to its init list.
func (e Expr) WithInitStmts(stmts []*Statement) Expr {
	if len(stmts) == 0 {
		return e
	}
	e.stmts = mergeStmts(stmts, e.stmts)
	return e
}

// WithRequires returns a copy of e depending on the given external symbols.
func (e Expr) WithRequires(symbols ...string) Expr {
	e.requires = mergeRequires(e.requires, symbols)
	return e
}

// inContext returns the rendered text of e as an operand requiring at least
// the given precedence, adding parens when e binds less tightly.
func (e Expr) inContext(minPrec int) string {
	if e.prec < minPrec {
		return "(" + e.text + ")"
	}
	return e.text
}

// Leaves ----------

// ID returns an identifier expression.
func ID(name string) Expr {
	return Expr{text: name, prec: maxPrec, cheap: true}
}

// Symbol returns a dotted identifier that requires the given external symbol
// to be available (e.g. a soy runtime function).
func Symbol(name string, requires ...string) Expr {
	return Expr{text: name, prec: maxPrec, cheap: true, requires: requires}
}

// Raw wraps already-rendered JavaScript with the stated precedence.  Use
// Group for text whose precedence cannot be trusted.
func Raw(text string, prec int) Expr {
	return Expr{text: text, prec: prec}
}

// Null, True, False, Undefined are the JS literal expressions.
func Null() Expr      { return ID("null") }
func True() Expr      { return ID("true") }
func False() Expr     { return ID("false") }
func Undefined() Expr { return ID("undefined") }

// EmptyString is the literal ''.
func EmptyString() Expr {
	return Expr{text: "''", prec: maxPrec, cheap: true}
}

// Integer returns a JS number literal for the given integer.
func Integer(v int64) Expr {
	return Expr{text: strconv.FormatInt(v, 10), prec: maxPrec, cheap: true}
}

// Number returns a JS number literal for the given float.
func Number(v float64) Expr {
	return Expr{text: strconv.FormatFloat(v, 'g', -1, 64), prec: maxPrec, cheap: true}
}

// StringLit returns a single-quoted JS string literal.  Non-ASCII code points
// are escaped to \uXXXX form since the output encoding of the generated file
// is not guaranteed.
func StringLit(s string) Expr {
	return Expr{text: quoteString(s), prec: maxPrec, cheap: len(s) < 20}
}

func quoteString(s string) string {
	var q = make([]rune, 1, len(s)+10)
	q[0] = '\''
	for _, ch := range s {
		switch ch {
		case '\\':
			q = append(q, '\\', '\\')
		case '\'':
			q = append(q, '\\', '\'')
		case '\n':
			q = append(q, '\\', 'n')
		case '\r':
			q = append(q, '\\', 'r')
		case '\t':
			q = append(q, '\\', 't')
		case '\b':
			q = append(q, '\\', 'b')
		case '\f':
			q = append(q, '\\', 'f')
		default:
			if ch < 0x20 || ch > 0x7e {
				q = append(q, []rune(fmt.Sprintf("\\u%04x", ch))...)
			} else {
				q = append(q, ch)
			}
		}
	}
	return string(append(q, '\''))
}

// Combinators ----------

// Group wraps e in parens unconditionally.  Used for plugin-produced text
// whose stated precedence cannot be trusted.
func Group(e Expr) Expr {
	return Expr{
		text:     "(" + e.text + ")",
		prec:     maxPrec,
		stmts:    e.stmts,
		requires: e.requires,
	}
}

// Binary returns the binary operation l op r, parenthesizing either operand
// if it binds less tightly than the operator requires.  Initialization
// statements concatenate in operand order.
func Binary(op string, l, r Expr) Expr {
	info, ok := binaryOps[op]
	if !ok {
		panic("jsdsl: unknown binary operator " + op)
	}
	var lmin, rmin = info.prec, info.prec + 1
	if info.assoc == assocRight {
		lmin, rmin = info.prec+1, info.prec
	}
	return Expr{
		text:     l.inContext(lmin) + " " + op + " " + r.inContext(rmin),
		prec:     info.prec,
		stmts:    mergeStmts(l.stmts, r.stmts),
		requires: mergeRequires(l.requires, r.requires),
	}
}

// Not returns !arg.
func Not(arg Expr) Expr {
	return unary("!", arg)
}

// Neg returns -arg.
func Neg(arg Expr) Expr {
	return unary("-", arg)
}

// TypeOf returns typeof arg.
func TypeOf(arg Expr) Expr {
	return unary("typeof ", arg)
}

func unary(op string, arg Expr) Expr {
	return Expr{
		text:     op + arg.inContext(precUnary),
		prec:     precUnary,
		stmts:    arg.stmts,
		requires: arg.requires,
	}
}

// Ternary returns cond ? then : els.  This is the pure-expression form; use
// Generator.Conditional when a branch may carry initialization statements.
func Ternary(cond, then, els Expr) Expr {
	return Expr{
		text: cond.inContext(precConditional+1) + " ? " +
			then.inContext(precConditional+1) + " : " +
			els.inContext(precConditional),
		prec:     precConditional,
		stmts:    mergeStmts(cond.stmts, then.stmts, els.stmts),
		requires: mergeRequires(cond.requires, then.requires, els.requires),
	}
}

// Dot returns base.name.
func Dot(base Expr, name string) Expr {
	return Expr{
		text:     base.inContext(precCall) + "." + name,
		prec:     precCall,
		stmts:    base.stmts,
		requires: base.requires,
		cheap:    base.cheap,
	}
}

// Bracket returns base[key].
func Bracket(base Expr, key Expr) Expr {
	return Expr{
		text:     base.inContext(precCall) + "[" + key.text + "]",
		prec:     precCall,
		stmts:    mergeStmts(base.stmts, key.stmts),
		requires: mergeRequires(base.requires, key.requires),
		cheap:    base.cheap && key.cheap,
	}
}

// Call returns fn(args...).
func Call(fn Expr, args ...Expr) Expr {
	var (
		texts    = make([]string, len(args))
		stmts    = [][]*Statement{fn.stmts}
		requires = [][]string{fn.requires}
	)
	for i, arg := range args {
		texts[i] = arg.text
		stmts = append(stmts, arg.stmts)
		requires = append(requires, arg.requires)
	}
	return Expr{
		text:     fn.inContext(precCall) + "(" + strings.Join(texts, ", ") + ")",
		prec:     precCall,
		stmts:    mergeStmts(stmts...),
		requires: mergeRequires(requires...),
	}
}

// New returns new ctor(args...).
func New(ctor Expr, args ...Expr) Expr {
	var called = Call(ctor, args...)
	called.text = "new " + called.text
	return called
}

// Array returns the array literal [elems...].
func Array(elems ...Expr) Expr {
	var (
		texts    = make([]string, len(elems))
		stmts    = make([][]*Statement, len(elems))
		requires = make([][]string, len(elems))
	)
	for i, e := range elems {
		texts[i] = e.text
		stmts[i] = e.stmts
		requires[i] = e.requires
	}
	return Expr{
		text:     "[" + strings.Join(texts, ", ") + "]",
		prec:     maxPrec,
		stmts:    mergeStmts(stmts...),
		requires: mergeRequires(requires...),
	}
}

// Object returns the object literal {keys[0]: vals[0], ...} with keys emitted
// verbatim.  Keys and vals are parallel slices; order is preserved.
func Object(keys []string, vals []Expr) Expr {
	if len(keys) != len(vals) {
		panic("jsdsl: mismatched object literal keys and values")
	}
	var (
		texts    = make([]string, len(keys))
		stmts    = make([][]*Statement, len(keys))
		requires = make([][]string, len(keys))
	)
	for i, k := range keys {
		texts[i] = k + ": " + vals[i].text
		stmts[i] = vals[i].stmts
		requires[i] = vals[i].requires
	}
	return Expr{
		text:     "{" + strings.Join(texts, ", ") + "}",
		prec:     maxPrec,
		stmts:    mergeStmts(stmts...),
		requires: mergeRequires(requires...),
	}
}

// EqualsNull returns e == null.
func EqualsNull(e Expr) Expr {
	return Binary("==", e, Null())
}

// Statement constructors ----------

// VarDecl returns the statement "var name = rhs;".  The rhs's own
// initialization statements precede the declaration.
func VarDecl(name string, rhs Expr) *Statement {
	return declStmt(name, rhs, "var ")
}

// Assign returns the statement "lhs = rhs;".
func Assign(lhs string, rhs Expr) *Statement {
	return declStmt(lhs, rhs, "")
}

func declStmt(name string, rhs Expr, keyword string) *Statement {
	var lines []string
	for _, s := range rhs.stmts {
		lines = append(lines, s.lines...)
	}
	lines = append(lines, keyword+name+" = "+rhs.text+";")
	return &Statement{lines: lines}
}

// ExprStmt returns e rendered as a standalone statement, init statements
// first.
func ExprStmt(e Expr) *Statement {
	var lines []string
	for _, s := range e.stmts {
		lines = append(lines, s.lines...)
	}
	lines = append(lines, e.text+";")
	return &Statement{lines: lines}
}
