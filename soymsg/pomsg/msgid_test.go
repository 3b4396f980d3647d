package pomsg

import (
	"testing"

	"github.com/gosoy/soyjs/ast"
	"github.com/gosoy/soyjs/soymsg"
)

func TestValidate(t *testing.T) {
	var tests = []struct {
		msg       *ast.MsgNode
		validates bool
	}{
		{msg(), true},
		{msg(text("hello world")), true},
		{msg(plural([]ast.Node{text("one")}, text("other"))), true},

		// a plural must have exactly {case 1} and {default}
		{msg(&ast.MsgPluralNode{
			VarName: "n", Value: dataref("n"),
			Default: []ast.Node{text("other")},
		}), false},
		{msg(&ast.MsgPluralNode{
			VarName: "n", Value: dataref("n"),
			Cases:   []*ast.MsgPluralCaseNode{{Value: 2, Body: []ast.Node{text("two")}}},
			Default: []ast.Node{text("other")},
		}), false},

		// a plural must be the sole child
		{msg(text("lead-in "), plural([]ast.Node{text("one")}, text("other"))), false},
	}

	for _, test := range tests {
		var err = Validate(test.msg)
		switch {
		case test.validates && err != nil:
			t.Errorf("should validate, but got %v: %v", err, test.msg)
		case !test.validates && err == nil:
			t.Errorf("should fail, but didn't: %v", test.msg)
		}
	}
}

func TestMsgId(t *testing.T) {
	var tests = []struct {
		msg         *ast.MsgNode
		msgid       string
		msgidPlural string
	}{
		{msg(), "", ""},
		{msg(text("hello world")), "hello world", ""},
		{msg(text("Hello "), placeholder(dataref("name")), text("!")), "Hello {NAME}!", ""},
		{msg(plural([]ast.Node{text("one")}, text("other"))), "one", "other"},

		// function content has no derivable name and renders as {XXX}
		{msg(plural(
			[]ast.Node{text("one")},
			placeholder(&ast.FunctionNode{Name: "length", Args: []ast.Node{dataref("users")}}),
			text(" users"))),
			"one", "{XXX} users"},
	}

	for _, test := range tests {
		var (
			msgid       = Msgid(test.msg)
			msgidPlural = MsgidPlural(test.msg)
		)
		if msgid != test.msgid {
			t.Errorf("(actual) %v != %v (expected)", msgid, test.msgid)
		}
		if msgidPlural != test.msgidPlural {
			t.Errorf("(actual) %v != %v (expected)", msgidPlural, test.msgidPlural)
		}
	}
}

func msg(body ...ast.Node) *ast.MsgNode {
	var msgnode = &ast.MsgNode{Desc: "d", Body: body}
	soymsg.SetPlaceholdersAndID(msgnode)
	return msgnode
}

func plural(one []ast.Node, other ...ast.Node) *ast.MsgPluralNode {
	return &ast.MsgPluralNode{
		VarName: "n", Value: dataref("n"),
		Cases:   []*ast.MsgPluralCaseNode{{Value: 1, Body: one}},
		Default: other,
	}
}

func placeholder(expr ast.Node) *ast.MsgPlaceholderNode {
	return &ast.MsgPlaceholderNode{Body: &ast.PrintNode{Arg: expr}}
}

func dataref(key string) *ast.DataRefNode {
	return &ast.DataRefNode{Key: key}
}

func text(s string) *ast.RawTextNode {
	return &ast.RawTextNode{Text: []byte(s)}
}
