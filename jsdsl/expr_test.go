package jsdsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinaryPrecedence(t *testing.T) {
	var a, b, c = ID("a"), ID("b"), ID("c")
	var tests = []struct {
		expr Expr
		want string
	}{
		// higher-precedence operands never need parens
		{Binary("+", Binary("*", a, b), c), "a * b + c"},
		{Binary("+", a, Binary("*", b, c)), "a + b * c"},

		// lower-precedence operands do
		{Binary("*", Binary("+", a, b), c), "(a + b) * c"},
		{Binary("*", c, Binary("+", a, b)), "c * (a + b)"},

		// left-associative operators parenthesize a same-precedence right operand
		{Binary("-", Binary("-", a, b), c), "a - b - c"},
		{Binary("-", a, Binary("-", b, c)), "a - (b - c)"},
		{Binary("/", a, Binary("*", b, c)), "a / (b * c)"},

		{Binary("==", Binary("+", a, b), c), "a + b == c"},
		{Binary("&&", Binary("==", a, b), Binary("!=", b, c)), "a == b && b != c"},
		{Binary("||", Binary("&&", a, b), c), "a && b || c"},
		{Binary("&&", a, Binary("||", b, c)), "a && (b || c)"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, test.expr.JS())
	}
}

func TestUnaryAndTernary(t *testing.T) {
	var a, b, c, d, e = ID("a"), ID("b"), ID("c"), ID("d"), ID("e")
	var tests = []struct {
		expr Expr
		want string
	}{
		{Not(a), "!a"},
		{Not(Binary("==", a, b)), "!(a == b)"},
		{Neg(Binary("-", a, b)), "-(a - b)"},
		{TypeOf(a), "typeof a"},

		{Ternary(a, b, c), "a ? b : c"},
		// ?: is right-associative: a nested else needs no parens, a nested
		// condition or then-branch does
		{Ternary(a, b, Ternary(c, d, e)), "a ? b : c ? d : e"},
		{Ternary(a, Ternary(b, c, d), e), "a ? (b ? c : d) : e"},
		{Ternary(Ternary(a, b, c), d, e), "(a ? b : c) ? d : e"},
		{Ternary(Binary("==", a, b), c, d), "a == b ? c : d"},

		{Dot(Binary("+", a, b), "length"), "(a + b).length"},
		{Bracket(a, Binary("+", b, c)), "a[b + c]"},
		{Call(Ternary(a, b, c), d), "(a ? b : c)(d)"},
		{New(ID("Foo"), a, b), "new Foo(a, b)"},
		{Dot(New(ID("Foo")), "bar"), "new Foo().bar"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, test.expr.JS())
	}
}

func TestLiterals(t *testing.T) {
	assert.Equal(t, "null", Null().JS())
	assert.Equal(t, "true", True().JS())
	assert.Equal(t, "false", False().JS())
	assert.Equal(t, "undefined", Undefined().JS())
	assert.Equal(t, "''", EmptyString().JS())
	assert.Equal(t, "-42", Integer(-42).JS())
	assert.Equal(t, "2.5", Number(2.5).JS())
	assert.Equal(t, "[a, b]", Array(ID("a"), ID("b")).JS())
	assert.Equal(t, "[]", Array().JS())
	assert.Equal(t, "{x: 1, 'y z': 2}",
		Object([]string{"x", "'y z'"}, []Expr{Integer(1), Integer(2)}).JS())
	assert.Equal(t, "{}", Object(nil, nil).JS())
}

func TestQuoteString(t *testing.T) {
	var tests = []struct{ in, want string }{
		{"", "''"},
		{"hello", "'hello'"},
		{"don't", "'don\\'t'"},
		{`back\slash`, `'back\\slash'`},
		{"line1\nline2", `'line1\nline2'`},
		{"tab\there", `'tab\there'`},
		{"\r\b\f", `'\r\b\f'`},
		// non-ASCII escapes to \uXXXX since the output encoding is not known
		{"héllo", `'h\u00e9llo'`},
		{"snow☃man", `'snow\u2603man'`},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, StringLit(test.in).JS())
	}
}

func TestCheapness(t *testing.T) {
	assert.True(t, ID("a").Cheap())
	assert.True(t, Integer(1).Cheap())
	assert.True(t, StringLit("short").Cheap())
	assert.False(t, StringLit("a string over twenty characters long").Cheap())
	assert.True(t, Dot(ID("opt_data"), "name").Cheap())
	assert.True(t, Bracket(ID("a"), Integer(0)).Cheap())
	assert.False(t, Call(ID("f")).Cheap())
	assert.False(t, Binary("+", ID("a"), ID("b")).Cheap())
	assert.False(t, Bracket(ID("a"), Call(ID("f"))).Cheap())
}

func TestInitStmtOrderAndDedup(t *testing.T) {
	var (
		s1 = Stmt("var a = f();")
		s2 = Stmt("var b = g();")
		l  = ID("a").WithInitStmt(s1)
		r  = ID("b").WithInitStmts([]*Statement{s1, s2})
	)
	var sum = Binary("+", l, r)
	assert.Equal(t, "a + b", sum.JS())
	assert.False(t, sum.Pure())

	// s1 is shared by both operands and must appear once, before s2.
	var stmts = sum.InitStmts()
	assert.Len(t, stmts, 2)
	assert.Same(t, s1, stmts[0])
	assert.Same(t, s2, stmts[1])

	// dedup is referential: an identical but distinct statement is kept
	var s1copy = Stmt("var a = f();")
	var both = Binary("+", ID("a").WithInitStmt(s1), ID("a").WithInitStmt(s1copy))
	assert.Len(t, both.InitStmts(), 2)
}

func TestInitStmtsAreImmutable(t *testing.T) {
	var s1 = Stmt("var a = f();")
	var base = ID("a")
	var withStmt = base.WithInitStmt(s1)
	assert.True(t, base.Pure(), "WithInitStmt must not mutate its receiver")
	assert.False(t, withStmt.Pure())
}

func TestRequires(t *testing.T) {
	var e = Call(Symbol("soy.$$escapeHtml", "soy"), ID("a"))
	assert.Equal(t, []string{"soy"}, e.Requires())

	var merged = Binary("+",
		Call(Symbol("soy.$$escapeHtml", "soy"), ID("a")),
		Call(Symbol("goog.getMsg", "goog"), ID("b")).WithRequires("soy"))
	assert.Equal(t, []string{"soy", "goog"}, merged.Requires())
}

func TestVarDecl(t *testing.T) {
	var inner = Stmt("var x = f();")
	var rhs = Binary("+", ID("x").WithInitStmt(inner), Integer(1))
	var decl = VarDecl("y", rhs)
	assert.Equal(t, []string{"var x = f();", "var y = x + 1;"}, decl.Lines())

	var stmt = ExprStmt(Call(ID("g"), ID("y")))
	assert.Equal(t, []string{"g(y);"}, stmt.Lines())
}
