package soymsg

import (
	"strconv"

	"github.com/gosoy/soyjs/ast"
	"github.com/gosoy/soyjs/errortypes"
)

// SetPlaceholdersAndID generates and sets placeholder names for all children
// nodes, and generates and sets the message ID.
func SetPlaceholdersAndID(n *ast.MsgNode) {
	setPlaceholderNames(n)
	n.ID = calcID(n)
}

// Validate checks the message's plural/select structure and any remainder()
// calls, recording problems on the given collector.  Validation continues
// past the first problem so that one pass reports as many as possible.
func Validate(col *errortypes.Collector, file string, n *ast.MsgNode) {
	validateParts(col, file, n.Body, nil)
}

func validateParts(col *errortypes.Collector, file string, parts []ast.Node, plural *ast.MsgPluralNode) {
	for _, part := range parts {
		switch part := part.(type) {
		case *ast.MsgPlaceholderNode:
			validateRemainders(col, file, part.Body, plural)
		case *ast.MsgPluralNode:
			if plural != nil {
				col.Errorf(file, int(part.Position()), "plural cannot be nested inside plural")
			}
			for _, c := range part.Cases {
				validateParts(col, file, c.Body, part)
			}
			validateParts(col, file, part.Default, part)
		case *ast.MsgSelectNode:
			if plural != nil {
				col.Errorf(file, int(part.Position()), "select cannot be nested inside plural")
			}
			for _, c := range part.Cases {
				validateParts(col, file, c.Body, plural)
			}
			validateParts(col, file, part.Default, plural)
		}
	}
}

// validateRemainders walks an expression tree for remainder() calls, which are
// only meaningful for the selector variable of an enclosing plural that has a
// nonzero offset.
func validateRemainders(col *errortypes.Collector, file string, node ast.Node, plural *ast.MsgPluralNode) {
	if fn, ok := node.(*ast.FunctionNode); ok && fn.Name == "remainder" {
		switch {
		case len(fn.Args) != 1:
			col.Errorf(file, int(fn.Position()), "remainder() takes exactly one argument")
		case plural == nil:
			col.Errorf(file, int(fn.Position()), "remainder() is only allowed inside a plural case")
		case fn.Args[0].String() != plural.Value.String():
			col.Errorf(file, int(fn.Position()),
				"remainder() must be called on the plural variable %s", plural.Value)
		case plural.Offset == 0:
			col.Errorf(file, int(fn.Position()), "remainder() requires the plural to declare an offset")
		}
	}
	if parent, ok := node.(ast.ParentNode); ok {
		for _, child := range parent.Children() {
			if child != nil {
				validateRemainders(col, file, child, plural)
			}
		}
	}
}

// ExtractMsgVariables replaces every message in the template body with a
// definition/reference pair: the definition carries the message and a
// generated variable name, and the reference stands where the message
// appeared.  Definitions can then be hoisted by MoveMsgDefsEarlier so the
// generated goog.getMsg assignments precede the code that interpolates them.
func ExtractMsgVariables(t *ast.TemplateNode) {
	var seen = make(map[string]int)
	extractInNode(t.Body, seen)
}

func extractInNode(node ast.Node, seen map[string]int) {
	switch node := node.(type) {
	case *ast.ListNode:
		var out = node.Nodes[:0:0]
		for _, child := range node.Nodes {
			if msg, ok := child.(*ast.MsgNode); ok {
				var def = &ast.MsgDefNode{Pos: msg.Pos, Var: msgVarName(msg, seen), Msg: msg}
				out = append(out, def, &ast.MsgRefNode{Pos: msg.Pos, Var: def.Var, Def: def})
				continue
			}
			extractInNode(child, seen)
			out = append(out, child)
		}
		node.Nodes = out
	case *ast.IfNode:
		for _, cond := range node.Conds {
			extractInNode(cond.Body, seen)
		}
	case *ast.SwitchNode:
		for _, c := range node.Cases {
			extractInNode(c.Body, seen)
		}
	case *ast.ForNode:
		extractInNode(node.Body, seen)
		if node.IfEmpty != nil {
			extractInNode(node.IfEmpty, seen)
		}
	case *ast.LetContentNode:
		extractInNode(node.Body, seen)
	case *ast.CallNode:
		for _, p := range node.Params {
			if p, ok := p.(*ast.CallParamContentNode); ok {
				extractInNode(p.Content, seen)
			}
		}
	case *ast.LogNode:
		extractInNode(node.Body, seen)
	}
}

// msgVarName names the JS variable holding a message definition.  The
// _EXTERNAL_ form tells the Closure Compiler the message is translated
// outside the JS compilation.
func msgVarName(msg *ast.MsgNode, seen map[string]int) string {
	var name = "MSG_EXTERNAL_" + strconv.FormatUint(msg.ID, 10)
	seen[name]++
	if n := seen[name]; n > 1 {
		name += "_" + strconv.Itoa(n)
	}
	return name
}

// MoveMsgDefsEarlier hoists message definitions toward the start of their
// enclosing block.  A definition may move past any sibling except a {let}
// that binds a variable the message references; moving past unrelated
// statements lets the goog.getMsg assignments cluster at the top of the
// generated function.  A definition that does not read the loop variable
// also moves out of the loop body, into the enclosing block ahead of the
// loop.  Definitions inside if and switch branches stay within their branch.
func MoveMsgDefsEarlier(t *ast.TemplateNode) {
	hoistInNode(t.Body)
}

func hoistInNode(node ast.Node) {
	switch node := node.(type) {
	case *ast.ListNode:
		hoistInList(node)
	case *ast.IfNode:
		for _, cond := range node.Conds {
			hoistInNode(cond.Body)
		}
	case *ast.SwitchNode:
		for _, c := range node.Cases {
			hoistInNode(c.Body)
		}
	case *ast.ForNode:
		hoistInNode(node.Body)
		if node.IfEmpty != nil {
			hoistInNode(node.IfEmpty)
		}
	case *ast.LetContentNode:
		hoistInNode(node.Body)
	case *ast.CallNode:
		for _, p := range node.Params {
			if p, ok := p.(*ast.CallParamContentNode); ok {
				hoistInNode(p.Content)
			}
		}
	case *ast.LogNode:
		hoistInNode(node.Body)
	}
}

// hoistInList first hoists within each child block, lifting loop-invariant
// definitions out of loop bodies, then moves each definition in the list as
// early as its dependencies allow.
func hoistInList(list *ast.ListNode) {
	var out = list.Nodes[:0:0]
	for _, child := range list.Nodes {
		hoistInNode(child)
		if loop, ok := child.(*ast.ForNode); ok {
			out = append(out, liftLoopInvariantDefs(loop)...)
		}
		out = append(out, child)
	}
	list.Nodes = out
	for i, child := range list.Nodes {
		if def, ok := child.(*ast.MsgDefNode); ok {
			hoistDef(list.Nodes, i, def)
		}
	}
}

// liftLoopInvariantDefs removes the message definitions clustered at the top
// of a loop body when they do not read the loop variable.  Such definitions
// evaluate to the same string on every iteration and belong ahead of the
// loop.  The references stay in place.
func liftLoopInvariantDefs(loop *ast.ForNode) []ast.Node {
	var body, ok = loop.Body.(*ast.ListNode)
	if !ok {
		return nil
	}
	var lifted []ast.Node
	var kept = body.Nodes[:0:0]
	var i = 0
	for ; i < len(body.Nodes); i++ {
		var def, ok = body.Nodes[i].(*ast.MsgDefNode)
		if !ok {
			break
		}
		if referencedVars(def.Msg)[loop.Var] {
			kept = append(kept, def)
		} else {
			lifted = append(lifted, def)
		}
	}
	body.Nodes = append(kept, body.Nodes[i:]...)
	return lifted
}

func hoistDef(nodes []ast.Node, i int, def *ast.MsgDefNode) {
	var refs = referencedVars(def.Msg)
	var j = i
	for j > 0 && movableAcross(nodes[j-1], refs) {
		nodes[j] = nodes[j-1]
		j--
	}
	nodes[j] = def
}

func movableAcross(n ast.Node, refs map[string]bool) bool {
	switch n := n.(type) {
	case *ast.LetValueNode:
		return !refs[n.Name]
	case *ast.LetContentNode:
		return !refs[n.Name]
	case *ast.MsgDefNode:
		// keep definition order stable
		return false
	}
	return true
}

// referencedVars returns the names of all data variables the message reads.
func referencedVars(n ast.Node) map[string]bool {
	var refs = make(map[string]bool)
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		if ref, ok := n.(*ast.DataRefNode); ok {
			refs[ref.Key] = true
		}
		if parent, ok := n.(ast.ParentNode); ok {
			for _, child := range parent.Children() {
				if child != nil {
					walk(child)
				}
			}
		}
	}
	walk(n)
	return refs
}
