package jssrc

import (
	"github.com/gosoy/soyjs/ast"
	"github.com/gosoy/soyjs/jsdsl"
)

// expr translates an expression node to a JS fragment.  Recoverable problems
// are recorded on the diagnostics collector and yield errExpr so translation
// of sibling expressions continues.
func (s *state) expr(node ast.Node) jsdsl.Expr {
	s.at(node)
	switch node := node.(type) {

	// Literals ----------
	case *ast.NullNode:
		return jsdsl.Null()
	case *ast.BoolNode:
		if node.True {
			return jsdsl.True()
		}
		return jsdsl.False()
	case *ast.IntNode:
		return jsdsl.Integer(node.Value)
	case *ast.FloatNode:
		return jsdsl.Number(node.Value)
	case *ast.StringNode:
		return jsdsl.StringLit(node.Value)
	case *ast.GlobalNode:
		if node.Value == nil {
			s.diagf(node, "global %q is not bound to a value", node.Name)
			return errExpr()
		}
		return s.expr(node.Value)

	// Collections ----------
	case *ast.ListLiteralNode:
		var items = make([]jsdsl.Expr, len(node.Items))
		for i, item := range node.Items {
			items[i] = s.expr(item)
		}
		return jsdsl.Array(items...)
	case *ast.MapLiteralNode:
		return s.mapLiteral(node)

	case *ast.FunctionNode:
		return s.function(node)
	case *ast.DataRefNode:
		return s.dataRef(node)

	// Arithmetic operators ----------
	case *ast.NegateNode:
		return jsdsl.Neg(s.expr(node.Arg))
	case *ast.MulNode:
		return s.binary("*", &node.BinaryOpNode)
	case *ast.DivNode:
		return s.binary("/", &node.BinaryOpNode)
	case *ast.ModNode:
		return s.binary("%", &node.BinaryOpNode)
	case *ast.AddNode:
		return s.binary("+", &node.BinaryOpNode)
	case *ast.SubNode:
		return s.binary("-", &node.BinaryOpNode)

	// Comparisons ----------
	case *ast.EqNode:
		return s.binary("==", &node.BinaryOpNode)
	case *ast.NotEqNode:
		return s.binary("!=", &node.BinaryOpNode)
	case *ast.LtNode:
		return s.binary("<", &node.BinaryOpNode)
	case *ast.LteNode:
		return s.binary("<=", &node.BinaryOpNode)
	case *ast.GtNode:
		return s.binary(">", &node.BinaryOpNode)
	case *ast.GteNode:
		return s.binary(">=", &node.BinaryOpNode)

	// Boolean operators ----------
	case *ast.NotNode:
		return jsdsl.Not(s.expr(node.Arg))
	case *ast.AndNode:
		return s.gen.And(s.expr(node.Arg1), s.expr(node.Arg2))
	case *ast.OrNode:
		return s.gen.Or(s.expr(node.Arg1), s.expr(node.Arg2))
	case *ast.ElvisNode:
		return s.elvis(node)
	case *ast.TernNode:
		return s.gen.Conditional(s.expr(node.Arg1), s.expr(node.Arg2), s.expr(node.Arg3))
	}
	s.errorf("unknown expression node (%T): %v", node, node)
	panic("unreachable")
}

// errExpr is the placeholder result returned after a diagnostic, so sibling
// translation keeps collecting further problems in the same pass.
func errExpr() jsdsl.Expr {
	return jsdsl.Null()
}

func (s *state) binary(op string, node *ast.BinaryOpNode) jsdsl.Expr {
	return jsdsl.Binary(op, s.expr(node.Arg1), s.expr(node.Arg2))
}

// elvis translates $a ?: $b with single evaluation of $a: the left operand is
// hoisted to a temporary unless it is already cheap, and the same reference is
// used in both the null check and the non-null branch.  Chained elvises
// recurse through the right operand, so each level reuses one temporary slot.
func (s *state) elvis(node *ast.ElvisNode) jsdsl.Expr {
	var left = s.expr(node.Arg1)
	if !left.Cheap() {
		left = s.gen.Declare(left)
	}
	return s.gen.Conditional(jsdsl.Binary("!=", left, jsdsl.Null()), left, s.expr(node.Arg2))
}

func (s *state) mapLiteral(node *ast.MapLiteralNode) jsdsl.Expr {
	var (
		keys = make([]string, len(node.Keys))
		vals = make([]jsdsl.Expr, len(node.Keys))
	)
	for i, k := range node.Keys {
		if !isIdent(k) {
			if s.options.StrictMapKeys {
				s.diagf(node, "map key %q is not an identifier", k)
			}
			keys[i] = jsdsl.StringLit(k).JS()
		} else {
			keys[i] = k
		}
		vals[i] = s.expr(node.Values[i])
	}
	return jsdsl.Object(keys, vals)
}

func isIdent(s string) bool {
	for i, ch := range s {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_', ch == '$':
		case ch >= '0' && ch <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return len(s) > 0
}

func (s *state) function(node *ast.FunctionNode) jsdsl.Expr {
	// Loop and plural introspection builtins resolve against enclosing scope.
	switch node.Name {
	case "isFirst":
		return jsdsl.Binary("==", jsdsl.ID(s.scope.loopindex()), jsdsl.Integer(0))
	case "isLast":
		var last = jsdsl.Binary("-", jsdsl.ID(s.scope.looplimit()), jsdsl.Integer(1))
		return jsdsl.Binary("==", jsdsl.ID(s.scope.loopindex()), last)
	case "index":
		return jsdsl.ID(s.scope.loopindex())
	case "remainder":
		return s.remainder(node)
	}

	var fn, ok = s.options.Funcs[node.Name]
	if !ok {
		s.diagf(node, "unknown function %q", node.Name)
		return errExpr()
	}
	var validArity = false
	for _, n := range fn.ValidArgLengths {
		if n == len(node.Args) {
			validArity = true
		}
	}
	if !validArity {
		s.diagf(node, "function %q called with %d args, want one of %v",
			node.Name, len(node.Args), fn.ValidArgLengths)
		return errExpr()
	}
	var args = make([]jsdsl.Expr, len(node.Args))
	for i, arg := range node.Args {
		args[i] = s.expr(arg)
	}
	s.require(fn.Requires...)
	var result = fn.Apply(s.gen, args)
	if _, builtin := DefaultFuncs[node.Name]; !builtin {
		// caller-registered functions may render text whose stated precedence
		// cannot be trusted
		result = jsdsl.Group(result)
	}
	return result
}

// remainder compiles remainder(X) inside a plural branch to the selector
// value minus the plural offset.  Mismatches are diagnosed during message
// validation; this re-checks so direct codegen entry points fail the same way.
func (s *state) remainder(node *ast.FunctionNode) jsdsl.Expr {
	switch {
	case len(node.Args) != 1:
		s.diagf(node, "remainder() takes exactly one argument")
		return errExpr()
	case s.plural == nil:
		s.diagf(node, "remainder() is only allowed inside a plural case")
		return errExpr()
	case node.Args[0].String() != s.plural.valueStr:
		s.diagf(node, "remainder() must be called on the plural variable %s", s.plural.valueStr)
		return errExpr()
	case s.plural.offset == 0:
		s.diagf(node, "remainder() requires the plural to declare an offset")
		return errExpr()
	}
	return jsdsl.Binary("-", s.plural.value, jsdsl.Integer(int64(s.plural.offset)))
}
