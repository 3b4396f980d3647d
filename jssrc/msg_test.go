package jssrc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/andreyvit/diff"

	"github.com/gosoy/soyjs/ast"
	"github.com/gosoy/soyjs/soymsg"
)

func TestMsgExec(t *testing.T) {
	var file = simpleFile(&ast.MsgNode{
		Desc: "greeting",
		Body: []ast.Node{
			rawtext("Hello "),
			&ast.MsgPlaceholderNode{Body: printNode(ref("name"))},
			rawtext("!"),
		},
	})
	var js = compileSoyFile(t, file, Options{})
	if !strings.Contains(js, "/** @desc greeting */") {
		t.Errorf("missing desc comment:\n%v", numberLines(js))
	}
	if !strings.Contains(js, "var MSG_EXTERNAL_") || !strings.Contains(js, "goog.getMsg(") {
		t.Errorf("missing message definition:\n%v", numberLines(js))
	}
	if !strings.Contains(js, "'Hello {$name}!'") {
		t.Errorf("placeholder should render as {$name}:\n%v", numberLines(js))
	}

	var output, _ = render(t, file, Options{}, "var data = {name: 'Rob'};", "test.main(data, null)")
	if output != "Hello Rob!" {
		t.Errorf("got %q, want Hello Rob!", output)
	}
}

// Message definitions hoist past unrelated statements so the goog.getMsg
// assignments cluster at the top of the generated function.
func TestMsgDefHoisting(t *testing.T) {
	var file = simpleFile(
		&ast.LetValueNode{Name: "y", Expr: intLit(1)},
		&ast.MsgNode{Desc: "d", Body: []ast.Node{rawtext("Hi")}},
		printNode(ref("y")),
	)
	var js = compileSoyFile(t, file, Options{})
	var defAt = strings.Index(js, "goog.getMsg(")
	var letAt = strings.Index(js, "var y2 = 1;")
	if defAt == -1 || letAt == -1 || defAt > letAt {
		t.Errorf("message definition should precede the unrelated let:\n%v", numberLines(js))
	}
}

// A let binding a variable the message reads blocks hoisting past it.
func TestMsgDefHoistBlocked(t *testing.T) {
	var file = simpleFile(
		&ast.LetValueNode{Name: "who", Expr: strLit("World")},
		&ast.MsgNode{Desc: "d", Body: []ast.Node{
			rawtext("Hi "),
			&ast.MsgPlaceholderNode{Body: printNode(ref("who"))},
		}},
	)
	var js = compileSoyFile(t, file, Options{})
	var defAt = strings.Index(js, "goog.getMsg(")
	var letAt = strings.Index(js, "var who2 = 'World';")
	if defAt == -1 || letAt == -1 || letAt > defAt {
		t.Errorf("message definition must stay after the let it depends on:\n%v", numberLines(js))
	}
	var output, _ = render(t, file, Options{}, "", "test.main({}, null)")
	if output != "Hi World" {
		t.Errorf("got %q, want Hi World", output)
	}
}

// Two messages with equal content share an ID; the second variable gets a
// numeric suffix to stay unique within the function.
func TestMsgDuplicateVarNames(t *testing.T) {
	var file = simpleFile(
		&ast.MsgNode{Desc: "d", Body: []ast.Node{rawtext("Same")}},
		&ast.MsgNode{Desc: "d", Body: []ast.Node{rawtext("Same")}},
	)
	var js = compileSoyFile(t, file, Options{})
	if !strings.Contains(js, "_2 = goog.getMsg(") {
		t.Errorf("second definition should get a suffixed variable:\n%v", numberLines(js))
	}
}

// Two identical messages compiled inline get the same suffixed variable names
// the extraction pass would generate.
func TestInlineMsgDuplicateVarNames(t *testing.T) {
	var mkMsg = func() *ast.MsgNode {
		return &ast.MsgNode{Desc: "d", Body: []ast.Node{rawtext("Same")}}
	}
	var file = simpleFile(
		&ast.LetValueNode{Name: "y", Expr: intLit(1)},
		&ast.IfNode{Conds: []*ast.IfCondNode{
			{Cond: &ast.BoolNode{True: true}, Body: mkMsg()},
			{Cond: nil, Body: mkMsg()},
		}},
	)
	var js = compileSoyFile(t, file, Options{})
	if !strings.Contains(js, "_2 = goog.getMsg(") {
		t.Errorf("second definition should get a _2 suffix:\n%v", numberLines(js))
	}
	var output, _ = render(t, file, Options{}, "", "test.main({}, null)")
	if output != "Same" {
		t.Errorf("got %q, want Same", output)
	}
}

// staticBundle is an in-memory message bundle for translation tests.
type staticBundle map[uint64]soymsg.Message

func (b staticBundle) Locale() string { return "zz" }
func (b staticBundle) Message(id uint64) *soymsg.Message {
	if m, ok := b[id]; ok {
		return &m
	}
	return nil
}
func (b staticBundle) PluralCase(n int) int { return 0 }

func TestMsgTranslation(t *testing.T) {
	var greeting = func(id uint64) *ast.MsgNode {
		return &ast.MsgNode{
			ID:   id,
			Desc: "greeting",
			Body: []ast.Node{
				rawtext("Hello "),
				&ast.MsgPlaceholderNode{Name: "NAME", Body: printNode(ref("name"))},
				rawtext("!"),
			},
		}
	}
	var opts = Options{Messages: staticBundle{
		42: soymsg.NewMessage(42, "zHello z{NAME}!"),
	}}

	var output, _ = render(t, simpleFile(greeting(42)), opts,
		"var data = {name: 'Rob'};", "test.main(data, null)")
	if output != "zHello zRob!" {
		t.Errorf("got %q, want zHello zRob!", output)
	}

	// a message missing from the bundle keeps the source text
	output, _ = render(t, simpleFile(greeting(43)), opts,
		"var data = {name: 'Rob'};", "test.main(data, null)")
	if output != "Hello Rob!" {
		t.Errorf("got %q, want Hello Rob!", output)
	}
}

func TestMsgRemainder(t *testing.T) {
	var file = simpleFile(&ast.MsgNode{
		Desc: "email count",
		Body: []ast.Node{&ast.MsgPluralNode{
			VarName: "n", Value: ref("n"), Offset: 1,
			Cases: []*ast.MsgPluralCaseNode{
				{Value: 1, Body: []ast.Node{rawtext("one email")}},
			},
			Default: []ast.Node{
				&ast.MsgPlaceholderNode{Body: printNode(&ast.FunctionNode{
					Name: "remainder", Args: []ast.Node{ref("n")}})},
				rawtext(" more emails"),
			},
		}},
	})
	var js = compileSoyFile(t, file, Options{})
	if !strings.Contains(js, "opt_data.n - 1") {
		t.Errorf("remainder should compile to selector minus offset:\n%v", numberLines(js))
	}
	if !strings.Contains(js, "formatIgnoringPound(") {
		t.Errorf("plural reference should format through MessageFormat:\n%v", numberLines(js))
	}
}

func TestMsgValidationDiagnostics(t *testing.T) {
	var pluralOver = func(varName string, body ...ast.Node) *ast.MsgPluralNode {
		return &ast.MsgPluralNode{
			VarName: varName, Value: ref(varName),
			Cases:   []*ast.MsgPluralCaseNode{{Value: 1, Body: []ast.Node{rawtext("one")}}},
			Default: body,
		}
	}

	var tests = []struct {
		name     string
		msg      *ast.MsgNode
		count    int
		contains string
	}{
		{"plural in plural",
			&ast.MsgNode{Desc: "d", Body: []ast.Node{
				pluralOver("n", pluralOver("m", rawtext("x")))}},
			1, "plural cannot be nested inside plural"},
		{"select in plural",
			&ast.MsgNode{Desc: "d", Body: []ast.Node{
				pluralOver("n", &ast.MsgSelectNode{
					VarName: "g", Value: ref("g"),
					Default: []ast.Node{rawtext("x")}})}},
			1, "select cannot be nested inside plural"},
		{"remainder on wrong variable",
			&ast.MsgNode{Desc: "d", Body: []ast.Node{&ast.MsgPluralNode{
				VarName: "n", Value: ref("n"), Offset: 1,
				Cases: []*ast.MsgPluralCaseNode{{Value: 1, Body: []ast.Node{rawtext("one")}}},
				Default: []ast.Node{&ast.MsgPlaceholderNode{Body: printNode(
					&ast.FunctionNode{Name: "remainder", Args: []ast.Node{ref("m")}})}},
			}}},
			1, "remainder() must be called on the plural variable $n"},
		{"remainder without offset",
			&ast.MsgNode{Desc: "d", Body: []ast.Node{
				pluralOver("n", &ast.MsgPlaceholderNode{Body: printNode(
					&ast.FunctionNode{Name: "remainder", Args: []ast.Node{ref("n")}})})}},
			1, "remainder() requires the plural to declare an offset"},
		{"remainder outside plural",
			&ast.MsgNode{Desc: "d", Body: []ast.Node{
				&ast.MsgPlaceholderNode{Body: printNode(
					&ast.FunctionNode{Name: "remainder", Args: []ast.Node{ref("n")}})}}},
			1, "remainder() is only allowed inside a plural case"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			var err = Write(&buf, simpleFile(test.msg), Options{})
			if err == nil {
				t.Fatalf("expected compile error, got output:\n%v", buf.String())
			}
			if got := errCount(err); got != test.count {
				t.Errorf("want exactly %d diagnostic, got %d: %v", test.count, got, err)
			}
			if !strings.Contains(err.Error(), test.contains) {
				t.Errorf("error %q does not mention %q", err, test.contains)
			}
		})
	}
}

// TestMsgGolden pins the full generated output for plural and select
// messages.  IDs and placeholder names are preassigned so the expectation is
// stable.
func TestMsgGolden(t *testing.T) {
	var plural = tmpl("test.plural", &ast.MsgNode{
		ID:   42,
		Desc: "n items",
		Body: []ast.Node{&ast.MsgPluralNode{
			VarName: "n", Name: "NUM_N", Value: ref("n"), Offset: 1,
			Cases: []*ast.MsgPluralCaseNode{
				{Value: 1, Body: []ast.Node{rawtext("one item")}},
			},
			Default: []ast.Node{rawtext("some items")},
		}},
	})
	var gender = tmpl("test.gender", &ast.MsgNode{
		ID:   99,
		Desc: "pronoun",
		Body: []ast.Node{&ast.MsgSelectNode{
			VarName: "gender", Name: "GENDER", Value: ref("gender"),
			Cases: []*ast.MsgSelectCaseNode{
				{Value: "female", Body: []ast.Node{rawtext("her")}},
			},
			Default: []ast.Node{rawtext("their")},
		}},
	})
	var file = &ast.SoyFileNode{Name: "msgs.soy", Body: []ast.Node{
		&ast.NamespaceNode{Name: "test", Autoescape: "off"},
		plural,
		gender,
	}}

	var expected = strings.Join([]string{
		"// This file was automatically generated from msgs.soy.",
		"// Please don't edit this file by hand.",
		"",
		"if (typeof test == 'undefined') { var test = {}; }",
		"goog.require('goog.i18n.MessageFormat');",
		"",
		"",
		"test.plural = function(opt_data, opt_ijData) {",
		"  /** @desc n items */",
		"  var MSG_EXTERNAL_42 = goog.getMsg('{NUM_N,plural,offset:1,=1{one item}other{some items}}');",
		"  var output1 = '' + new goog.i18n.MessageFormat(MSG_EXTERNAL_42).formatIgnoringPound({'NUM_N': opt_data.n});",
		"  return output1;",
		"};",
		"",
		"test.gender = function(opt_data, opt_ijData) {",
		"  /** @desc pronoun */",
		"  var MSG_EXTERNAL_99 = goog.getMsg('{GENDER,select,female{her}other{their}}');",
		"  var output1 = '' + new goog.i18n.MessageFormat(MSG_EXTERNAL_99).formatIgnoringPound({'GENDER': opt_data.gender});",
		"  return output1;",
		"};",
		"",
	}, "\n")

	var actual = compileSoyFile(t, file, Options{})
	if actual != expected {
		t.Errorf("output differs:\n%v", diff.LineDiff(expected, actual))
	}
}

// An invalid message sitting outside a statement list takes the inline path
// and must still produce exactly one diagnostic.
func TestInlineMsgDiagnostics(t *testing.T) {
	var nested = &ast.MsgNode{Desc: "d", Body: []ast.Node{&ast.MsgPluralNode{
		VarName: "n", Value: ref("n"),
		Cases: []*ast.MsgPluralCaseNode{{Value: 1, Body: []ast.Node{
			&ast.MsgPluralNode{
				VarName: "m", Value: ref("m"),
				Cases:   []*ast.MsgPluralCaseNode{{Value: 1, Body: []ast.Node{rawtext("x")}}},
				Default: []ast.Node{rawtext("y")},
			},
		}}},
		Default: []ast.Node{rawtext("z")},
	}}}
	var file = simpleFile(&ast.IfNode{Conds: []*ast.IfCondNode{
		{Cond: &ast.BoolNode{True: true}, Body: nested},
	}})

	var err = Write(&bytes.Buffer{}, file, Options{})
	if err == nil {
		t.Fatal("expected compile error")
	}
	if got := errCount(err); got != 1 {
		t.Errorf("want exactly 1 diagnostic, got %d: %v", got, err)
	}
}
