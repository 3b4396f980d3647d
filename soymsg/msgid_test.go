package soymsg

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gosoy/soyjs/ast"
)

func TestCalcMsgID(t *testing.T) {
	// test data taken from closure-templates/examples/examples_extract.xlf
	var tests = []struct {
		msg *ast.MsgNode
		id  uint64
	}{
		{msg("noun", "The word 'Archive' used as a noun, i.e. an information store.", text("Archive")),
			7224011416745566687},
		{msg("verb", "The word 'Archive' used as a verb, i.e. to store information.", text("Archive")),
			4826315192146469447},
		{msg("", "", text("A trip was taken.")),
			3329840836245051515},
	}

	for _, test := range tests {
		assert.Equal(t, test.id, calcID(test.msg))
	}
}

func TestMsgIDInvariants(t *testing.T) {
	var base = msg("", "description one", text("Hello "), namedPh("NAME"), text("!"))

	// the description does not affect the ID
	assert.Equal(t, calcID(base),
		calcID(msg("", "a different description", text("Hello "), namedPh("NAME"), text("!"))))

	// text, placeholder names, and meaning all do
	assert.NotEqual(t, calcID(base),
		calcID(msg("", "", text("Goodbye "), namedPh("NAME"), text("!"))))
	assert.NotEqual(t, calcID(base),
		calcID(msg("", "", text("Hello "), namedPh("USER"), text("!"))))
	assert.NotEqual(t, calcID(base),
		calcID(msg("greeting", "", text("Hello "), namedPh("NAME"), text("!"))))

	// the top bit is always clear
	assert.Zero(t, calcID(base)&(1<<63))
}

// A change inside any plural or select branch must change the ID.
func TestMsgIDCoversBranches(t *testing.T) {
	var plural = func(caseText, defaultText string, offset int) *ast.MsgNode {
		return msg("", "", &ast.MsgPluralNode{
			Name: "NUM_N", Offset: offset,
			Cases:   []*ast.MsgPluralCaseNode{{Value: 1, Body: []ast.Node{text(caseText)}}},
			Default: []ast.Node{text(defaultText)},
		})
	}
	var base = calcID(plural("one", "many", 0))
	assert.NotEqual(t, base, calcID(plural("ONE", "many", 0)))
	assert.NotEqual(t, base, calcID(plural("one", "MANY", 0)))
	assert.NotEqual(t, base, calcID(plural("one", "many", 1)))

	var sel = func(caseText string) *ast.MsgNode {
		return msg("", "", &ast.MsgSelectNode{
			Name:    "GENDER",
			Cases:   []*ast.MsgSelectCaseNode{{Value: "female", Body: []ast.Node{text(caseText)}}},
			Default: []ast.Node{text("their")},
		})
	}
	assert.NotEqual(t, calcID(sel("her")), calcID(sel("his")))
}

func msg(meaning, desc string, body ...ast.Node) *ast.MsgNode {
	return &ast.MsgNode{Meaning: meaning, Desc: desc, Body: body}
}

func namedPh(name string) *ast.MsgPlaceholderNode {
	return &ast.MsgPlaceholderNode{Name: name, Body: text(name)}
}
