package jsdsl

import "strconv"

// reservedWords are JS keywords that generated names must avoid.
var reservedWords = []string{
	"break", "case", "catch", "class", "const", "continue", "debugger", "default", "delete", "do",
	"else", "enum", "export", "extends", "false", "finally", "for", "function", "if",
	"implements", "import", "in", "instanceof", "interface", "let", "null", "new", "package",
	"private", "protected", "public", "return", "static", "super", "switch", "this", "throw",
	"true", "try", "typeof", "var", "void", "while", "with", "yield",
}

var reservedWordSet map[string]struct{}

func init() {
	reservedWordSet = make(map[string]struct{}, len(reservedWords))
	for _, word := range reservedWords {
		reservedWordSet[word] = struct{}{}
	}
}

// Generator produces collision-free synthetic names within one compilation
// unit and builds the statement-lifting forms (declarations, conditionals,
// short-circuit operators) that need temporaries.  It must not be shared
// across compilation units; each unit owns its own counter so output is
// reproducible.
type Generator struct {
	n        int
	reserved map[string]struct{} // nil means just the JS keywords
}

// NewGenerator returns a Generator whose names avoid JS keywords.
func NewGenerator() *Generator {
	return &Generator{}
}

// Reserve marks names as taken (e.g. declared locals), so generated names
// never collide with them.
func (g *Generator) Reserve(names ...string) {
	if g.reserved == nil {
		g.reserved = make(map[string]struct{}, len(reservedWordSet)+len(names))
		for k := range reservedWordSet {
			g.reserved[k] = struct{}{}
		}
	}
	for _, name := range names {
		g.reserved[name] = struct{}{}
	}
}

func (g *Generator) taken(name string) bool {
	if g.reserved != nil {
		_, ok := g.reserved[name]
		return ok
	}
	_, ok := reservedWordSet[name]
	return ok
}

// Name returns a fresh name with the given prefix.  Names within one
// Generator are unique and strictly increasing.
func (g *Generator) Name(prefix string) string {
	for {
		g.n++
		var name = prefix + strconv.Itoa(g.n)
		if !g.taken(name) {
			return name
		}
	}
}

// Declare hoists rhs into a "var tmpN = rhs;" initialization statement and
// returns a cheap reference to the temporary.  The rhs's own initialization
// statements run first, inside the generated statement.
func (g *Generator) Declare(rhs Expr) Expr {
	var name = g.Name("$tmp")
	var ref = ID(name)
	ref.stmts = []*Statement{VarDecl(name, rhs)}
	ref.requires = rhs.requires
	return ref
}

// Conditional returns an expression equivalent to cond ? then : els.  When
// both branches are pure it renders the ternary directly; otherwise it lifts
// the conditional into an if/else over a fresh temporary so each branch's
// statements execute only when that branch is taken.
func (g *Generator) Conditional(cond, then, els Expr) Expr {
	if pureGiven(then, cond.stmts) && pureGiven(els, cond.stmts) {
		return Ternary(cond, then, els)
	}
	var name = g.Name("$tmp")
	var lines []string
	var emitted = make(map[*Statement]struct{})
	for _, s := range cond.stmts {
		lines = append(lines, s.lines...)
		emitted[s] = struct{}{}
	}
	lines = append(lines, "var "+name+";")
	lines = append(lines, "if ("+cond.text+") {")
	lines = appendBranch(lines, name, then, emitted)
	lines = append(lines, "} else {")
	lines = appendBranch(lines, name, els, emitted)
	lines = append(lines, "}")

	var ref = ID(name)
	ref.stmts = []*Statement{{lines: lines}}
	ref.requires = mergeRequires(cond.requires, then.requires, els.requires)
	return ref
}

// And returns l && r, allocating a temporary when r carries initialization
// statements that must only run if l is truthy.
func (g *Generator) And(l, r Expr) Expr {
	return g.shortCircuit(l, r, "&&", false)
}

// Or returns l || r, allocating a temporary when r carries initialization
// statements that must only run if l is falsy.
func (g *Generator) Or(l, r Expr) Expr {
	return g.shortCircuit(l, r, "||", true)
}

func (g *Generator) shortCircuit(l, r Expr, op string, negate bool) Expr {
	if pureGiven(r, l.stmts) {
		return Binary(op, l, r)
	}
	var name = g.Name("$tmp")
	var lines []string
	var emitted = make(map[*Statement]struct{})
	for _, s := range l.stmts {
		lines = append(lines, s.lines...)
		emitted[s] = struct{}{}
	}
	lines = append(lines, "var "+name+" = "+l.text+";")
	var test = name
	if negate {
		test = "!" + name
	}
	lines = append(lines, "if ("+test+") {")
	lines = appendBranch(lines, name, r, emitted)
	lines = append(lines, "}")

	var ref = ID(name)
	ref.stmts = []*Statement{{lines: lines}}
	ref.requires = mergeRequires(l.requires, r.requires)
	return ref
}

// pureGiven reports whether e carries no initialization statements beyond
// those in prior.  A branch whose statements are all shared with the
// condition needs no lifting; they run before the test either way.
func pureGiven(e Expr, prior []*Statement) bool {
	if e.Pure() {
		return true
	}
	var seen = make(map[*Statement]struct{}, len(prior))
	for _, s := range prior {
		seen[s] = struct{}{}
	}
	for _, s := range e.stmts {
		if _, ok := seen[s]; !ok {
			return false
		}
	}
	return true
}

// appendBranch emits a branch's statements and assignment.  Statements
// already emitted ahead of the conditional (shared with the test expression)
// are skipped; each branch checks independently since only one branch runs.
func appendBranch(lines []string, name string, e Expr, emitted map[*Statement]struct{}) []string {
	for _, s := range e.stmts {
		if _, ok := emitted[s]; ok {
			continue
		}
		lines = append(lines, s.indented()...)
	}
	return append(lines, "  "+name+" = "+e.text+";")
}
