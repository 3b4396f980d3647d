package jssrc

import (
	"strconv"

	"github.com/gosoy/soyjs/ast"
	"github.com/gosoy/soyjs/jsdsl"
	"github.com/gosoy/soyjs/soymsg"
)

// visitInlineMsg compiles a message that was not split by the extraction
// pass: it is prepared and validated in place, then emitted as an adjacent
// definition/reference pair.  A message with structural errors produces
// diagnostics and no output.
func (s *state) visitInlineMsg(msg *ast.MsgNode) {
	if msg.ID == 0 {
		soymsg.SetPlaceholdersAndID(msg)
		var before = len(s.diags.Diagnostics())
		soymsg.Validate(s.diags, s.filename, msg)
		if len(s.diags.Diagnostics()) > before {
			return
		}
	}
	var def = &ast.MsgDefNode{Pos: msg.Pos, Var: s.msgVarName(msg), Msg: msg}
	s.visitMsgDef(def)
	s.visitMsgRef(&ast.MsgRefNode{Pos: msg.Pos, Var: def.Var, Def: def})
}

func (s *state) msgVarName(msg *ast.MsgNode) string {
	if s.msgSeen == nil {
		s.msgSeen = make(map[uint64]int)
	}
	s.msgSeen[msg.ID]++
	var name = "MSG_EXTERNAL_" + strconv.FormatUint(msg.ID, 10)
	if n := s.msgSeen[msg.ID]; n > 1 {
		name += "_" + strconv.Itoa(n)
	}
	return name
}

// visitMsgDef emits the translatable definition.  Plain messages pass their
// placeholder substitutions to goog.getMsg directly; plural/select messages
// define only the ICU string, and the reference site formats it.
func (s *state) visitMsgDef(def *ast.MsgDefNode) {
	var msg = def.Msg
	if msg.Desc != "" {
		s.jsln("/** @desc ", msg.Desc, " */")
	}
	if hasPlrsel(msg.Body) {
		s.jsln("var ", def.Var, " = goog.getMsg(", jsdsl.StringLit(msg.PlaceholderString()).JS(), ");")
		return
	}

	var text = ""
	var entries = newIcuEntries()
	for _, part := range msg.Body {
		switch part := part.(type) {
		case *ast.RawTextNode:
			text += string(part.Text)
		case *ast.MsgPlaceholderNode:
			var key = soymsg.ToLowerCamel(part.Name)
			text += "{$" + key + "}"
			entries.add(key, func() jsdsl.Expr { return s.placeholderExpr(part.Body) })
		default:
			s.errorf("unexpected message part (%T)", part)
		}
	}
	if t, ok := s.translation(msg); ok {
		text = t
	}
	if entries.empty() {
		s.jsln("var ", def.Var, " = goog.getMsg(", jsdsl.StringLit(text).JS(), ");")
		return
	}
	var subst = entries.object()
	s.flushInit(subst)
	s.jsln("var ", def.Var, " = goog.getMsg(")
	s.indentLevels += 2
	s.jsln(jsdsl.StringLit(text).JS(), ",")
	s.jsln(subst.JS(), ");")
	s.indentLevels -= 2
}

// translation renders the options bundle's version of the message in
// goog.getMsg form.  Plural and select translations are not substituted
// here; only raw text and placeholder parts have a direct rendering.
func (s *state) translation(msg *ast.MsgNode) (string, bool) {
	if s.options.Messages == nil {
		return "", false
	}
	var tm = s.options.Messages.Message(msg.ID)
	if tm == nil {
		return "", false
	}
	var text = ""
	for _, part := range tm.Parts {
		switch part := part.(type) {
		case soymsg.RawTextPart:
			text += part.Text
		case soymsg.PlaceholderPart:
			text += "{$" + soymsg.ToLowerCamel(part.Name) + "}"
		default:
			return "", false
		}
	}
	return text, true
}

// visitMsgRef appends the message value where the message appeared.
func (s *state) visitMsgRef(ref *ast.MsgRefNode) {
	var msg = ref.Def.Msg
	if !hasPlrsel(msg.Body) {
		s.out.add(s, jsdsl.ID(ref.Var))
		return
	}

	// Plural/select substitutions are evaluated at the reference, where the
	// case selectors are in scope.
	var entries = newIcuEntries()
	s.collectIcuEntries(msg.Body, entries)
	var format = jsdsl.Call(
		jsdsl.Dot(jsdsl.New(jsdsl.Symbol("goog.i18n.MessageFormat", "goog.i18n.MessageFormat"), jsdsl.ID(ref.Var)), "formatIgnoringPound"),
		entries.object())
	s.out.add(s, format)
}

// collectIcuEntries gathers the substitution map for a plural/select message:
// every selector and placeholder, keyed by its canonical name.  Case bodies
// under a plural carry that plural's selector as context so remainder()
// compiles against it.
func (s *state) collectIcuEntries(parts []ast.Node, entries *icuEntries) {
	for _, part := range parts {
		switch part := part.(type) {
		case *ast.RawTextNode:
		case *ast.MsgPlaceholderNode:
			entries.add(part.Name, func() jsdsl.Expr { return s.placeholderExpr(part.Body) })
		case *ast.MsgPluralNode:
			var value = s.expr(part.Value)
			if !value.Cheap() {
				value = s.gen.Declare(value)
			}
			entries.add(part.Name, func() jsdsl.Expr { return value })
			var oldPlural = s.plural
			s.plural = &pluralContext{value: value, valueStr: part.Value.String(), offset: part.Offset}
			for _, c := range part.Cases {
				s.collectIcuEntries(c.Body, entries)
			}
			s.collectIcuEntries(part.Default, entries)
			s.plural = oldPlural
		case *ast.MsgSelectNode:
			entries.add(part.Name, func() jsdsl.Expr { return s.expr(part.Value) })
			for _, c := range part.Cases {
				s.collectIcuEntries(c.Body, entries)
			}
			s.collectIcuEntries(part.Default, entries)
		default:
			s.errorf("unexpected message part (%T)", part)
		}
	}
}

// placeholderExpr translates the content standing in a placeholder slot.
func (s *state) placeholderExpr(body ast.Node) jsdsl.Expr {
	switch body := body.(type) {
	case *ast.PrintNode:
		var val = s.expr(body.Arg)
		for _, dir := range body.Directives {
			if directive, ok := s.options.Directives[dir.Name]; ok && directive.Name != "" {
				val = s.applyDirective(dir, val)
			}
		}
		return val
	case *ast.RawTextNode:
		return jsdsl.StringLit(string(body.Text))
	}
	// arbitrary content renders into its own accumulator ahead of the message
	var name = s.gen.Name("ph")
	var oldOut = s.out
	s.out = newOutputVar(name, false)
	s.out.declare(s)
	s.walk(body)
	var val = s.out.valueExpr(s)
	s.out = oldOut
	return val
}

func hasPlrsel(parts []ast.Node) bool {
	for _, part := range parts {
		switch part.(type) {
		case *ast.MsgPluralNode, *ast.MsgSelectNode:
			return true
		}
	}
	return false
}

// icuEntries is an insertion-ordered substitution map builder.  Equal names
// (equal content shares a placeholder) are added once.
type icuEntries struct {
	keys []string
	vals []jsdsl.Expr
	seen map[string]bool
}

func newIcuEntries() *icuEntries {
	return &icuEntries{seen: make(map[string]bool)}
}

func (e *icuEntries) add(name string, val func() jsdsl.Expr) {
	if e.seen[name] {
		return
	}
	e.seen[name] = true
	e.keys = append(e.keys, name)
	e.vals = append(e.vals, val())
}

func (e *icuEntries) empty() bool { return len(e.keys) == 0 }

func (e *icuEntries) object() jsdsl.Expr {
	var quoted = make([]string, len(e.keys))
	for i, k := range e.keys {
		quoted[i] = jsdsl.StringLit(k).JS()
	}
	return jsdsl.Object(quoted, e.vals)
}
