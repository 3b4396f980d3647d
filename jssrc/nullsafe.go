package jssrc

import (
	"github.com/gosoy/soyjs/ast"
	"github.com/gosoy/soyjs/jsdsl"
)

// dataRef translates a data reference and its access chain.  Null-safe steps
// are collapsed by the accumulator below into the minimal set of guards, each
// evaluating its prefix exactly once.
func (s *state) dataRef(node *ast.DataRefNode) jsdsl.Expr {
	var acc = nullSafeAccumulator{s: s, cur: s.dataRefBase(node)}
	for _, access := range node.Access {
		switch access := access.(type) {
		case *ast.DataRefKeyNode:
			acc.step(access.NullSafe, func(prefix jsdsl.Expr) jsdsl.Expr {
				return jsdsl.Dot(prefix, access.Key)
			})
		case *ast.DataRefIndexNode:
			acc.step(access.NullSafe, func(prefix jsdsl.Expr) jsdsl.Expr {
				return jsdsl.Bracket(prefix, jsdsl.Integer(int64(access.Index)))
			})
		case *ast.DataRefExprNode:
			// The key is translated in the enclosing scope, outside any guard.
			var key = s.expr(access.Arg)
			acc.step(access.NullSafe, func(prefix jsdsl.Expr) jsdsl.Expr {
				return jsdsl.Bracket(prefix, key)
			})
		case *ast.DataRefCallNode:
			// Arguments are translated in the enclosing scope; only the
			// receiver chain is subject to null guarding.
			var args = make([]jsdsl.Expr, len(access.Args))
			for i, arg := range access.Args {
				args[i] = s.expr(arg)
			}
			acc.step(access.NullSafe, func(prefix jsdsl.Expr) jsdsl.Expr {
				return jsdsl.Call(jsdsl.Dot(prefix, access.Name), args...)
			})
		default:
			s.errorf("unknown data ref access node (%T): %v", access, access)
		}
	}
	return acc.cur
}

// dataRefBase resolves the base variable: injected data, a local or loop
// variable in scope, or a template parameter on opt_data.
func (s *state) dataRefBase(node *ast.DataRefNode) jsdsl.Expr {
	if node.Key == "ij" {
		return jsdsl.ID("opt_ijData")
	}
	if genVarName := s.scope.lookup(node.Key); genVarName != "" {
		return jsdsl.ID(genVarName)
	}
	return jsdsl.Dot(jsdsl.ID("opt_data"), node.Key)
}

// nullSafeAccumulator folds an access chain over a growing prefix expression.
// A plain step extends the prefix directly.  A null-safe step hoists the
// prefix to a temporary when it is not cheap, then binds a fresh temporary to
// "prefix == null ? null : prefix<suffix>", so every guard tests only the
// immediately preceding computed prefix and each prefix is evaluated once no
// matter how many downstream steps are null-safe.
type nullSafeAccumulator struct {
	s   *state
	cur jsdsl.Expr
}

func (a *nullSafeAccumulator) step(nullSafe bool, apply func(jsdsl.Expr) jsdsl.Expr) {
	if !nullSafe {
		a.cur = apply(a.cur)
		return
	}
	if !a.cur.Cheap() {
		a.cur = a.s.gen.Declare(a.cur)
	}
	a.cur = a.s.gen.Declare(jsdsl.Ternary(jsdsl.EqualsNull(a.cur), jsdsl.Null(), apply(a.cur)))
}
