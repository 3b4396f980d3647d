// Package template provides a registry of soy files and templates in
// declaration order.
package template

import (
	"fmt"

	"github.com/gosoy/soyjs/ast"
)

// Registry holds the soy files and templates of one compilation.  Files and
// templates keep their declaration order; generated output preserves it.
type Registry struct {
	SoyFiles  []*ast.SoyFileNode
	Templates []Template
}

// Template is a template definition together with its enclosing file's
// namespace.
type Template struct {
	Namespace string
	Node      *ast.TemplateNode
}

// Name returns the template's fully qualified name.
func (t Template) Name() string {
	return t.Node.Name
}

// ParamNames returns the declared parameter names in declaration order.
func (t Template) ParamNames() []string {
	var names []string
	for _, p := range t.Node.Params {
		names = append(names, p.Name)
	}
	return names
}

// Add adds the given soy file to the registry.  Every file must begin with a
// {namespace} declaration, and template names must be unique across files.
func (r *Registry) Add(soyfile *ast.SoyFileNode) error {
	var ns string
	for _, node := range soyfile.Body {
		if nsNode, ok := node.(*ast.NamespaceNode); ok {
			ns = nsNode.Name
			break
		}
	}
	if ns == "" {
		return fmt.Errorf("file %q has no namespace declaration", soyfile.Name)
	}

	r.SoyFiles = append(r.SoyFiles, soyfile)
	for _, node := range soyfile.Body {
		var tn, ok = node.(*ast.TemplateNode)
		if !ok {
			continue
		}
		if existing := r.Template(tn.Name); existing != nil {
			return fmt.Errorf("template %q is defined more than once", tn.Name)
		}
		r.Templates = append(r.Templates, Template{Namespace: ns, Node: tn})
	}
	return nil
}

// Template returns the template with the given fully qualified name, or nil.
func (r *Registry) Template(name string) *Template {
	for i := range r.Templates {
		if r.Templates[i].Node.Name == name {
			return &r.Templates[i]
		}
	}
	return nil
}
