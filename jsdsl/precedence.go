package jsdsl

// JavaScript operator precedence levels, low to high.  Leaves use maxPrec so
// they are never parenthesized.
const (
	precAssign      = 1 // =, += (lower than any soy operator)
	precConditional = 2 // ?:
	precOr          = 3 // ||
	precAnd         = 4 // &&
	precEquality    = 8 // ==, !=, ===, !==
	precRelational  = 9 // <, >, <=, >=, instanceof, in

	precAdditive       = 10 // +, -
	precMultiplicative = 11 // *, /, %
	precUnary          = 12 // !, unary -, typeof
	precCall           = 13 // call, dot access, bracket access, new

	maxPrec = 100
)

type associativity int

const (
	assocLeft associativity = iota
	assocRight
)

type opInfo struct {
	prec  int
	assoc associativity
}

// binaryOps maps a JS binary operator to its precedence and associativity.
var binaryOps = map[string]opInfo{
	"=":          {precAssign, assocRight},
	"+=":         {precAssign, assocRight},
	"||":         {precOr, assocLeft},
	"&&":         {precAnd, assocLeft},
	"==":         {precEquality, assocLeft},
	"!=":         {precEquality, assocLeft},
	"===":        {precEquality, assocLeft},
	"!==":        {precEquality, assocLeft},
	"<":          {precRelational, assocLeft},
	">":          {precRelational, assocLeft},
	"<=":         {precRelational, assocLeft},
	">=":         {precRelational, assocLeft},
	"instanceof": {precRelational, assocLeft},
	"in":         {precRelational, assocLeft},
	"+":          {precAdditive, assocLeft},
	"-":          {precAdditive, assocLeft},
	"*":          {precMultiplicative, assocLeft},
	"/":          {precMultiplicative, assocLeft},
	"%":          {precMultiplicative, assocLeft},
}

// Precedence returns the precedence level of the given binary operator.  It
// panics on unknown operators; the operator table is fixed at compile time, so
// an unknown operator is a bug in the caller, not user error.
func Precedence(op string) int {
	info, ok := binaryOps[op]
	if !ok {
		panic("jsdsl: unknown binary operator " + op)
	}
	return info.prec
}
