package soymsg

import (
	"fmt"
	"io"

	"github.com/robfig/gettext/po"

	"github.com/gosoy/soyjs/ast"
	"github.com/gosoy/soyjs/template"
)

// Extract collects every message in the registry into a PO template file.
// Messages must already have placeholders and IDs set.  Plural and select
// messages contribute their full ICU form as the msgid, which keeps one
// catalog entry per message regardless of branch count.
func Extract(reg *template.Registry) *po.File {
	var e = extractor{&po.File{}, make(map[uint64]bool)}
	for _, t := range reg.Templates {
		e.extract(t.Node)
	}
	return e.file
}

// WritePOT extracts the registry's messages and writes them in PO format.
func WritePOT(reg *template.Registry, w io.Writer) error {
	_, err := Extract(reg).WriteTo(w)
	return err
}

type extractor struct {
	file *po.File
	seen map[uint64]bool
}

func (e extractor) extract(node ast.Node) {
	switch node := node.(type) {
	case *ast.MsgNode:
		if e.seen[node.ID] {
			return
		}
		e.seen[node.ID] = true
		e.file.Messages = append(e.file.Messages, po.Message{
			Comment: po.Comment{
				ExtractedComments: []string{node.Desc},
				References:        []string{fmt.Sprintf("id=%d", node.ID)},
			},
			Ctxt: node.Meaning,
			Id:   node.PlaceholderString(),
		})
	default:
		if parent, ok := node.(ast.ParentNode); ok {
			for _, child := range parent.Children() {
				if child != nil {
					e.extract(child)
				}
			}
		}
	}
}
