package jssrc

import (
	"github.com/gosoy/soyjs/ast"
	"github.com/gosoy/soyjs/jsdsl"
)

// outputVar accumulates one block's rendered output.  Two strategies:
// appending (string concatenation, the default) and a lazy buffer object for
// html blocks that can receive structured sanitized content inline.  In both,
// consecutive compile-time-constant parts coalesce into one literal and the
// variable's declaration is deferred to the first append.
type outputVar struct {
	name     string
	lazy     bool
	declared bool
	pending  string // coalesced static text awaiting the next flush
	hasText  bool
}

func newOutputVar(name string, lazy bool) *outputVar {
	return &outputVar{name: name, lazy: lazy}
}

// useLazyBuffer reports whether the block should use the lazy-buffer strategy:
// an html-kind block containing an html-kind call or a print of
// sanitized-content-typed value.
func useLazyBuffer(kind string, block ast.Node) bool {
	if kind != "html" {
		return false
	}
	var found bool
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		switch n := n.(type) {
		case *ast.CallNode:
			if n.Kind == "html" {
				found = true
			}
			return
		case *ast.PrintNode:
			if tn, ok := n.Arg.(ast.TypedNode); ok && tn.Type().Sanitized() {
				found = true
			}
			return
		case *ast.LetContentNode:
			// nested content blocks choose their own strategy
			return
		}
		if parent, ok := n.(ast.ParentNode); ok {
			for _, child := range parent.Children() {
				if child != nil {
					walk(child)
				}
			}
		}
	}
	walk(block)
	return found
}

// text adds compile-time-constant output.
func (o *outputVar) text(s *state, text string) {
	o.pending += text
	o.hasText = true
}

// add appends a dynamic expression, flushing any coalesced text first.  The
// first append concatenates onto the empty string so a numeric value cannot
// turn the later += appends into arithmetic.
func (o *outputVar) add(s *state, e jsdsl.Expr) {
	o.flushText(s)
	if !o.declared && !o.lazy {
		e = jsdsl.Binary("+", jsdsl.EmptyString(), e)
	}
	s.flushInit(e)
	o.appendRaw(s, e.JS())
}

// flushText emits the coalesced static text, if any.
func (o *outputVar) flushText(s *state) {
	if !o.hasText {
		return
	}
	var text = o.pending
	o.pending, o.hasText = "", false
	if text == "" {
		return
	}
	o.appendRaw(s, jsdsl.StringLit(text).JS())
}

func (o *outputVar) appendRaw(s *state, js string) {
	switch {
	case !o.declared && o.lazy:
		o.declared = true
		s.jsln("var ", o.name, " = new soy.$$OutputBuffer();")
		s.require("soy")
		s.jsln(o.name, ".append(", js, ");")
	case !o.declared:
		o.declared = true
		s.jsln("var ", o.name, " = ", js, ";")
	case o.lazy:
		s.jsln(o.name, ".append(", js, ");")
	default:
		s.jsln(o.name, " += ", js, ";")
	}
}

// value returns the expression for the block's accumulated output.  A block
// that produced zero appends never declared its variable and yields ''.
func (o *outputVar) value(s *state) string {
	return o.valueExpr(s).JS()
}

func (o *outputVar) valueExpr(s *state) jsdsl.Expr {
	o.flushText(s)
	if !o.declared {
		return jsdsl.EmptyString()
	}
	if o.lazy {
		return jsdsl.Call(jsdsl.Dot(jsdsl.ID(o.name), "toString"))
	}
	return jsdsl.ID(o.name)
}

// declare forces the variable into existence, for blocks with conditional
// appends that read the variable afterward.
func (o *outputVar) declare(s *state) {
	o.flushText(s)
	if o.declared {
		return
	}
	o.declared = true
	if o.lazy {
		s.jsln("var ", o.name, " = new soy.$$OutputBuffer();")
		s.require("soy")
	} else {
		s.jsln("var ", o.name, " = '';")
	}
}

