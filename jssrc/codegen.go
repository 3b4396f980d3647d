package jssrc

import (
	"fmt"
	"io"

	"github.com/gosoy/soyjs/ast"
	"github.com/gosoy/soyjs/errortypes"
	"github.com/gosoy/soyjs/jsdsl"
)

// state is the code generator for one compilation unit (one template, or one
// file when templates are compiled serially).  It owns its name generator and
// scope; nothing in it is shared across concurrently compiled templates.
type state struct {
	wr           io.Writer
	filename     string
	node         ast.Node // current node, for errors
	indentLevels int
	namespace    string
	autoescape   string
	options      *Options
	gen          *jsdsl.Generator
	scope        scope
	diags        *errortypes.Collector
	out          *outputVar
	requires     []string
	reqSeen      map[string]bool
	plural       *pluralContext
	msgSeen      map[uint64]int
}

// pluralContext carries the selector of the innermost plural part, for
// compiling remainder() in its case bodies.
type pluralContext struct {
	value    jsdsl.Expr
	valueStr string // source form of the selector, for mismatch diagnostics
	offset   int
}

func newState(wr io.Writer, filename string, opts *Options, diags *errortypes.Collector) *state {
	var gen = jsdsl.NewGenerator()
	gen.Reserve("opt_data", "opt_ijData")
	var s = &state{
		wr:       wr,
		filename: filename,
		options:  opts,
		gen:      gen,
		scope:    newScope(gen),
		diags:    diags,
		reqSeen:  make(map[string]bool),
	}
	s.scope.push()
	return s
}

// at marks the state to be on node n, for error reporting.
func (s *state) at(node ast.Node) {
	s.node = node
}

// errorf formats the error and terminates processing.  It is reserved for
// internal invariant violations; user-level problems go through diagf.
func (s *state) errorf(format string, args ...interface{}) {
	panic(fmt.Sprintf(format, args...))
}

// diagf records a user-level error diagnostic at the given node.
func (s *state) diagf(node ast.Node, format string, args ...interface{}) {
	s.diags.Errorf(s.filename, int(node.Position()), format, args...)
}

// errRecover is the handler that turns panics into returns from the top
// level of Write.
func errRecover(errp *error) {
	e := recover()
	if e != nil {
		*errp = fmt.Errorf("%v", e)
	}
}

// require records an external symbol for the file's goog.require list.
func (s *state) require(symbols ...string) {
	for _, sym := range symbols {
		if !s.reqSeen[sym] {
			s.reqSeen[sym] = true
			s.requires = append(s.requires, sym)
		}
	}
}

// flushInit emits an expression's initialization statements at the current
// indentation, in order, and records its required symbols.  After flushing,
// the expression's text is valid to embed in a statement.
func (s *state) flushInit(e jsdsl.Expr) {
	var indent = ""
	for i := 0; i < s.indentLevels; i++ {
		indent += "  "
	}
	for _, stmt := range e.InitStmts() {
		stmt.WriteTo(s.wr, indent)
	}
	s.require(e.Requires()...)
}

// walk recursively goes through each node, generating statements and appends
// onto the current output variable.
func (s *state) walk(node ast.Node) {
	s.at(node)
	switch node := node.(type) {
	case *ast.ListNode:
		for _, child := range node.Nodes {
			s.walk(child)
		}

	// Output nodes ----------
	case *ast.RawTextNode:
		s.out.text(s, string(node.Text))
	case *ast.PrintNode:
		s.visitPrint(node)

	// Messages ----------
	case *ast.MsgNode:
		s.visitInlineMsg(node)
	case *ast.MsgDefNode:
		s.visitMsgDef(node)
	case *ast.MsgRefNode:
		s.visitMsgRef(node)

	case *ast.DebuggerNode:
		s.jsln("debugger;")
	case *ast.LogNode:
		s.visitLog(node)

	// Control flow ----------
	case *ast.IfNode:
		s.visitIf(node)
	case *ast.ForNode:
		s.visitFor(node)
	case *ast.SwitchNode:
		s.visitSwitch(node)

	case *ast.CallNode:
		s.visitCall(node)
	case *ast.LetValueNode:
		var name = s.scope.makevar(node.Name)
		var val = s.expr(node.Expr)
		s.flushInit(val)
		s.jsln("var ", name, " = ", val.JS(), ";")
	case *ast.LetContentNode:
		s.visitLetContent(node)

	default:
		s.errorf("unknown node (%T): %v", node, node)
	}
}

func (s *state) visitTemplate(node *ast.TemplateNode) {
	var oldAutoescape = s.autoescape
	if node.Autoescape != "" {
		s.autoescape = node.Autoescape
	}
	s.jsln("")
	s.jsln(node.Name, " = function(opt_data, opt_ijData) {")
	s.indentLevels++
	s.out = newOutputVar(s.gen.Name("output"), useLazyBuffer(node.Kind, node.Body))
	s.walk(node.Body)
	s.jsln("return ", s.out.value(s), ";")
	s.indentLevels--
	s.jsln("};")
	s.autoescape = oldAutoescape
}

func (s *state) visitPrint(node *ast.PrintNode) {
	var escape = s.autoescape != "off"
	var explicitEscape = false
	var directives []*ast.PrintDirectiveNode
	for _, dir := range node.Directives {
		var directive, ok = s.options.Directives[dir.Name]
		if !ok {
			s.diagf(dir, "print directive %q not found", dir.Name)
			continue
		}
		if directive.CancelAutoescape {
			escape = false
		}
		switch dir.Name {
		case "id", "noAutoescape":
			// marker directives, no output transformation
		case "escapeHtml":
			explicitEscape = true
			fallthrough
		default:
			directives = append(directives, dir)
		}
	}
	// A print of already-sanitized content is not re-escaped.
	if tn, ok := node.Arg.(ast.TypedNode); ok && tn.Type().Sanitized() {
		escape = false
	}

	var val = s.expr(node.Arg)
	for _, dir := range directives {
		val = s.applyDirective(dir, val)
	}
	if escape && !explicitEscape {
		val = s.applyDirective(&ast.PrintDirectiveNode{Name: "escapeHtml"}, val)
	}
	s.out.add(s, val)
}

// applyDirective wraps the value in the directive's JS function; listed
// directives apply innermost first.
func (s *state) applyDirective(dir *ast.PrintDirectiveNode, val jsdsl.Expr) jsdsl.Expr {
	var directive = s.options.Directives[dir.Name]
	var args = []jsdsl.Expr{val}
	for _, arg := range dir.Args {
		args = append(args, s.expr(arg))
	}
	// soy specifies truncate adds ellipsis by default, so we have to pass
	// doAddEllipsis = true to soy.$$truncate
	if dir.Name == "truncate" && len(dir.Args) == 1 {
		args = append(args, jsdsl.True())
	}
	s.require(directive.Requires...)
	return jsdsl.Call(jsdsl.Symbol(directive.Name), args...)
}

func (s *state) visitLog(node *ast.LogNode) {
	var oldOut = s.out
	s.out = newOutputVar(s.gen.Name("logmsg"), false)
	s.walk(node.Body)
	s.jsln("console.log(", s.out.value(s), ");")
	s.out = oldOut
}

func (s *state) visitLetContent(node *ast.LetContentNode) {
	var name = s.scope.makevar(node.Name)
	var oldOut = s.out
	s.out = newOutputVar(name, useLazyBuffer(node.Kind, node.Body))
	s.out.declare(s)
	s.walk(node.Body)
	if s.out.lazy {
		var value = s.out.value(s)
		s.out = oldOut
		// rebind so later references see a string
		s.jsln(name, " = ", value, ";")
		return
	}
	s.out.flushText(s)
	s.out = oldOut
}

// visitIf emits an if/else-if chain.  A branch condition that lifted
// statements cannot sit in an "else if" header, so the rest of the chain
// nests inside the else block, after the lifted statements run.
func (s *state) visitIf(node *ast.IfNode) {
	s.out.declare(s)
	var nested = 0
	for i, branch := range node.Conds {
		switch {
		case i == 0:
			var cond = s.expr(branch.Cond)
			s.flushInit(cond)
			s.jsln("if (", cond.JS(), ") {")
		case branch.Cond == nil:
			s.jsln("} else {")
		default:
			var cond = s.expr(branch.Cond)
			if cond.Pure() {
				s.jsln("} else if (", cond.JS(), ") {")
			} else {
				s.jsln("} else {")
				s.indentLevels++
				nested++
				s.flushInit(cond)
				s.jsln("if (", cond.JS(), ") {")
			}
		}
		s.indentLevels++
		s.walk(branch.Body)
		s.out.flushText(s)
		s.indentLevels--
	}
	s.jsln("}")
	for ; nested > 0; nested-- {
		s.indentLevels--
		s.jsln("}")
	}
}

func (s *state) visitFor(node *ast.ForNode) {
	if _, isForeach := node.List.(*ast.DataRefNode); isForeach {
		s.visitForeach(node)
	} else {
		s.visitForRange(node)
	}
}

func (s *state) visitForRange(node *ast.ForNode) {
	var rangeNode, ok = node.List.(*ast.FunctionNode)
	if !ok || rangeNode.Name != "range" {
		s.errorf("for loop over non-range, non-list: %v", node.List)
	}
	var (
		increment ast.Node = &ast.IntNode{Value: 1}
		init      ast.Node = &ast.IntNode{Value: 0}
		limit     ast.Node
	)
	switch len(rangeNode.Args) {
	case 3:
		increment = rangeNode.Args[2]
		fallthrough
	case 2:
		init = rangeNode.Args[0]
		limit = rangeNode.Args[1]
	case 1:
		limit = rangeNode.Args[0]
	default:
		s.diagf(rangeNode, "range() takes 1 to 3 arguments, got %d", len(rangeNode.Args))
		return
	}

	s.out.declare(s)
	var varIndex, varLimit = s.scope.pushForRange(node.Var)
	defer s.scope.pop()
	var limitExpr = s.expr(limit)
	s.flushInit(limitExpr)
	s.jsln("var ", varLimit, " = ", limitExpr.JS(), ";")
	var initExpr, incExpr = s.expr(init), s.expr(increment)
	s.flushInit(initExpr)
	s.flushInit(incExpr)
	s.jsln("for (var ", varIndex, " = ", initExpr.JS(), "; ",
		varIndex, " < ", varLimit, "; ", varIndex, " += ", incExpr.JS(), ") {")
	s.indentLevels++
	s.walk(node.Body)
	s.out.flushText(s)
	s.indentLevels--
	s.jsln("}")
}

func (s *state) visitForeach(node *ast.ForNode) {
	s.out.declare(s)
	var itemData, itemList, itemListLen, itemIndex = s.scope.pushForEach(node.Var)
	defer s.scope.pop()
	var list = s.expr(node.List)
	s.flushInit(list)
	s.jsln("var ", itemList, " = ", list.JS(), ";")
	s.jsln("var ", itemListLen, " = ", itemList, ".length;")
	if node.IfEmpty != nil {
		s.jsln("if (", itemListLen, " > 0) {")
		s.indentLevels++
	}
	s.jsln("for (var ", itemIndex, " = 0; ", itemIndex, " < ", itemListLen, "; ", itemIndex, "++) {")
	s.indentLevels++
	s.jsln("var ", itemData, " = ", itemList, "[", itemIndex, "];")
	s.walk(node.Body)
	s.out.flushText(s)
	s.indentLevels--
	s.jsln("}")
	if node.IfEmpty != nil {
		s.indentLevels--
		s.jsln("} else {")
		s.indentLevels++
		s.walk(node.IfEmpty)
		s.out.flushText(s)
		s.indentLevels--
		s.jsln("}")
	}
}

// visitSwitch evaluates the switch value once, coercing objects to strings so
// equality matches soy semantics rather than JS identity.
func (s *state) visitSwitch(node *ast.SwitchNode) {
	s.out.declare(s)
	var val = s.expr(node.Value)
	var ref = s.gen.Declare(val)
	s.flushInit(ref)
	s.jsln("switch ((", ref.JS(), " instanceof Object) ? ", ref.JS(), ".toString() : ", ref.JS(), ") {")
	s.indentLevels++
	for _, switchCase := range node.Cases {
		for _, caseValue := range switchCase.Values {
			var cv = s.expr(caseValue)
			s.flushInit(cv)
			s.jsln("case ", cv.JS(), ":")
		}
		if len(switchCase.Values) == 0 {
			s.jsln("default:")
		}
		s.indentLevels++
		s.walk(switchCase.Body)
		s.out.flushText(s)
		s.jsln("break;")
		s.indentLevels--
	}
	s.indentLevels--
	s.jsln("}")
}

func (s *state) visitCall(node *ast.CallNode) {
	var data jsdsl.Expr
	switch {
	case node.Data != nil:
		data = s.expr(node.Data)
	case node.AllData:
		data = jsdsl.ID("opt_data")
	default:
		data = jsdsl.Object(nil, nil)
	}

	if len(node.Params) > 0 {
		var keys []string
		var vals []jsdsl.Expr
		for _, param := range node.Params {
			switch param := param.(type) {
			case *ast.CallParamValueNode:
				keys = append(keys, param.Key)
				vals = append(vals, s.expr(param.Value))
			case *ast.CallParamContentNode:
				var name = s.gen.Name("param")
				var oldOut = s.out
				s.out = newOutputVar(name, useLazyBuffer(param.Kind, param.Content))
				s.out.declare(s)
				s.walk(param.Content)
				keys = append(keys, param.Key)
				vals = append(vals, s.out.valueExpr(s))
				s.out = oldOut
			default:
				s.errorf("unknown call param node (%T)", param)
			}
		}
		s.require("soy")
		data = jsdsl.Call(jsdsl.Symbol("soy.$$augmentMap"), data, jsdsl.Object(keys, vals))
	}

	s.out.add(s, jsdsl.Call(jsdsl.ID(node.Name), data, jsdsl.ID("opt_ijData")))
}

func (s *state) js(args ...string) {
	for _, arg := range args {
		io.WriteString(s.wr, arg)
	}
}

func (s *state) indent() {
	for i := 0; i < s.indentLevels; i++ {
		io.WriteString(s.wr, "  ")
	}
}

func (s *state) jsln(args ...string) {
	s.indent()
	for _, arg := range args {
		io.WriteString(s.wr, arg)
	}
	io.WriteString(s.wr, "\n")
}
