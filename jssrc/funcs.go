package jssrc

import "github.com/gosoy/soyjs/jsdsl"

// Func represents a soy function that may be invoked within a template.
// Apply builds the call's expression from already-translated arguments; any
// symbols in Requires are propagated to the file's goog.require list.
type Func struct {
	Apply           func(g *jsdsl.Generator, args []jsdsl.Expr) jsdsl.Expr
	ValidArgLengths []int
	Requires        []string
}

// DefaultFuncs contains the builtin soy functions.
// Callers may add their own functions to a copy of this map via Options.
var DefaultFuncs = map[string]Func{
	"isNonnull":     {funcIsNonnull, []int{1}, nil},
	"length":        {funcLength, []int{1}, nil},
	"keys":          {builtinFunc("soy.$$getMapKeys"), []int{1}, []string{"soy"}},
	"augmentMap":    {builtinFunc("soy.$$augmentMap"), []int{2}, []string{"soy"}},
	"round":         {funcRound, []int{1, 2}, nil},
	"floor":         {mathFunc("floor"), []int{1}, nil},
	"ceiling":       {mathFunc("ceil"), []int{1}, nil},
	"min":           {mathFunc("min"), []int{2}, nil},
	"max":           {mathFunc("max"), []int{2}, nil},
	"randomInt":     {funcRandomInt, []int{1}, nil},
	"strContains":   {funcStrContains, []int{2}, nil},
	"hasData":       {funcHasData, []int{0}, nil},
	"bidiGlobalDir": {funcBidiGlobalDir, []int{0}, nil},
	"bidiDirAttr":   {funcBidiDirAttr, []int{1}, []string{"soy"}},
	"bidiStartEdge": {funcBidiStartEdge, []int{0}, nil},
	"bidiEndEdge":   {funcBidiEndEdge, []int{0}, nil},
}

// builtinFunc returns a function that calls a soy runtime function.
func builtinFunc(name string) func(g *jsdsl.Generator, args []jsdsl.Expr) jsdsl.Expr {
	return func(g *jsdsl.Generator, args []jsdsl.Expr) jsdsl.Expr {
		return jsdsl.Call(jsdsl.Symbol(name), args...)
	}
}

// mathFunc returns a function that calls the named Math method.
func mathFunc(name string) func(g *jsdsl.Generator, args []jsdsl.Expr) jsdsl.Expr {
	return func(g *jsdsl.Generator, args []jsdsl.Expr) jsdsl.Expr {
		return jsdsl.Call(jsdsl.Dot(jsdsl.ID("Math"), name), args...)
	}
}

func funcIsNonnull(g *jsdsl.Generator, args []jsdsl.Expr) jsdsl.Expr {
	return jsdsl.Binary("!=", args[0], jsdsl.Null())
}

func funcLength(g *jsdsl.Generator, args []jsdsl.Expr) jsdsl.Expr {
	return jsdsl.Dot(args[0], "length")
}

func funcRound(g *jsdsl.Generator, args []jsdsl.Expr) jsdsl.Expr {
	if len(args) == 1 {
		return jsdsl.Call(jsdsl.Dot(jsdsl.ID("Math"), "round"), args[0])
	}
	// round(x, digits): scale, round, unscale.  The scale factor is computed
	// twice rather than held in a temporary to match the long-standing output.
	var scale = jsdsl.Call(jsdsl.Dot(jsdsl.ID("Math"), "pow"), jsdsl.Integer(10), args[1])
	var scaled = jsdsl.Call(jsdsl.Dot(jsdsl.ID("Math"), "round"), jsdsl.Binary("*", args[0], scale))
	return jsdsl.Binary("/", scaled, scale)
}

func funcRandomInt(g *jsdsl.Generator, args []jsdsl.Expr) jsdsl.Expr {
	var random = jsdsl.Call(jsdsl.Dot(jsdsl.ID("Math"), "random"))
	return jsdsl.Call(jsdsl.Dot(jsdsl.ID("Math"), "floor"), jsdsl.Binary("*", random, args[0]))
}

func funcStrContains(g *jsdsl.Generator, args []jsdsl.Expr) jsdsl.Expr {
	return jsdsl.Binary("!=", jsdsl.Call(jsdsl.Dot(args[0], "indexOf"), args[1]), jsdsl.Integer(-1))
}

func funcHasData(g *jsdsl.Generator, args []jsdsl.Expr) jsdsl.Expr {
	return jsdsl.True()
}

func funcBidiGlobalDir(g *jsdsl.Generator, args []jsdsl.Expr) jsdsl.Expr {
	return jsdsl.Integer(1)
}

func funcBidiDirAttr(g *jsdsl.Generator, args []jsdsl.Expr) jsdsl.Expr {
	return jsdsl.Call(jsdsl.Symbol("soy.$$bidiDirAttr"), jsdsl.Integer(0), args[0])
}

func funcBidiStartEdge(g *jsdsl.Generator, args []jsdsl.Expr) jsdsl.Expr {
	return jsdsl.StringLit("left")
}

func funcBidiEndEdge(g *jsdsl.Generator, args []jsdsl.Expr) jsdsl.Expr {
	return jsdsl.StringLit("right")
}
