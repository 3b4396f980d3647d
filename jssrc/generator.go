// Package jssrc generates JavaScript from a validated soy template AST.
// The generated code requires lib/soyutils.js to already have been loaded.
package jssrc

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/gosoy/soyjs/ast"
	"github.com/gosoy/soyjs/errortypes"
	"github.com/gosoy/soyjs/soymsg"
	"github.com/gosoy/soyjs/template"
)

// Options for js source generation.
type Options struct {
	// Funcs are the soy functions available to templates.  Nil means
	// DefaultFuncs.
	Funcs map[string]Func

	// Directives are the print directives available to templates.  Nil means
	// PrintDirectives.
	Directives map[string]PrintDirective

	// StrictMapKeys makes a non-identifier map-literal key a compile error,
	// matching the stricter downstream compiler policy.
	StrictMapKeys bool

	// Messages supplies translated messages.  When set, a message definition
	// emits the bundle's text for its ID instead of the source text; messages
	// missing from the bundle keep the source.
	Messages soymsg.Bundle
}

func (o *Options) normalize() {
	if o.Funcs == nil {
		o.Funcs = DefaultFuncs
	}
	if o.Directives == nil {
		o.Directives = PrintDirectives
	}
}

// Write generates javascript for the given soy file.  Templates are compiled
// on separate goroutines, each with its own name generator; the results are
// reassembled in declaration order.  On any compile error the full diagnostics
// list is returned and nothing is written to out.
func Write(out io.Writer, file *ast.SoyFileNode, opts Options) (err error) {
	defer errRecover(&err)
	opts.normalize()

	var ns *ast.NamespaceNode
	var templates []*ast.TemplateNode
	for _, node := range file.Body {
		switch node := node.(type) {
		case *ast.NamespaceNode:
			ns = node
		case *ast.TemplateNode:
			templates = append(templates, node)
		}
	}
	if ns == nil {
		return errors.New("soy file has no namespace declaration")
	}

	var results = make([]compileResult, len(templates))
	var wg sync.WaitGroup
	for i, t := range templates {
		wg.Add(1)
		go func(i int, t *ast.TemplateNode) {
			defer wg.Done()
			results[i] = compileTemplate(file.Name, ns, t, &opts)
		}(i, t)
	}
	wg.Wait()

	var master errortypes.Collector
	for _, r := range results {
		for _, d := range r.diags.Diagnostics() {
			if d.Severity == errortypes.SeverityError {
				master.Errorf(d.File, d.Pos, "%s", d.Message)
			} else {
				master.Warningf(d.File, d.Pos, "%s", d.Message)
			}
		}
	}
	if master.HasErrors() {
		return diagError(file, &master)
	}

	var buf bytes.Buffer
	writeFileHeader(&buf, file.Name)
	writeNamespaceScaffolding(&buf, ns.Name)
	writeRequires(&buf, results)
	for _, r := range results {
		buf.Write(r.js)
	}
	_, err = out.Write(buf.Bytes())
	return err
}

type compileResult struct {
	js       []byte
	requires []string
	diags    *errortypes.Collector
}

// compileTemplate generates one template function.  It owns all mutable
// state for the compilation: name generator, scope, and diagnostics.  The
// message passes run first so definitions are split out and hoisted before
// statement generation sees them.
func compileTemplate(filename string, ns *ast.NamespaceNode, t *ast.TemplateNode, opts *Options) compileResult {
	var diags = new(errortypes.Collector)
	prepareMessages(diags, filename, t)
	if diags.HasErrors() {
		// codegen would re-report expression problems the validator found
		return compileResult{diags: diags}
	}

	var buf bytes.Buffer
	var s = newState(&buf, filename, opts, diags)
	s.namespace = ns.Name
	s.autoescape = ns.Autoescape
	s.visitTemplate(t)

	if diags.HasErrors() {
		// a failed template contributes diagnostics and no output
		return compileResult{diags: diags}
	}
	return compileResult{js: buf.Bytes(), requires: s.requires, diags: diags}
}

// prepareMessages assigns placeholder names and IDs, validates plural/select
// structure, and splits messages into hoisted definition/reference pairs.
func prepareMessages(diags *errortypes.Collector, filename string, t *ast.TemplateNode) {
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		if msg, ok := n.(*ast.MsgNode); ok {
			if msg.ID == 0 {
				soymsg.SetPlaceholdersAndID(msg)
			}
			soymsg.Validate(diags, filename, msg)
		}
		if parent, ok := n.(ast.ParentNode); ok {
			for _, child := range parent.Children() {
				if child != nil {
					walk(child)
				}
			}
		}
	}
	walk(t.Body)
	if diags.HasErrors() {
		return
	}
	soymsg.ExtractMsgVariables(t)
	soymsg.MoveMsgDefsEarlier(t)
}

func writeFileHeader(buf *bytes.Buffer, filename string) {
	buf.WriteString("// This file was automatically generated from " + filename + ".\n")
	buf.WriteString("// Please don't edit this file by hand.\n\n")
}

// diagError converts collected diagnostics into the returned error.  The
// position of the first error is exposed through errortypes.ErrFilePos so
// callers can report file, line, and column.
func diagError(file *ast.SoyFileNode, col *errortypes.Collector) error {
	for _, d := range col.Diagnostics() {
		if d.Severity != errortypes.SeverityError {
			continue
		}
		var line, column = linecol(file.Text, d.Pos)
		return errortypes.NewErrFilePosf(d.File, line, column, "%s", col.Err())
	}
	return col.Err()
}

// linecol converts a byte offset into 1-based line and column numbers.
func linecol(text string, pos int) (int, int) {
	if pos > len(text) {
		pos = len(text)
	}
	var line, col = 1, 1
	for _, ch := range text[:pos] {
		if ch == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// writeNamespaceScaffolding declares each dot segment of the namespace that
// is not already defined.  Only the first segment can be declared with var;
// the rest are property assignments.
func writeNamespaceScaffolding(buf *bytes.Buffer, namespace string) {
	var i = 0
	for i < len(namespace) {
		var next = strings.Index(namespace[i+1:], ".")
		if next == -1 {
			i = len(namespace)
		} else {
			i += 1 + next
		}
		var decl = ""
		if !strings.Contains(namespace[:i], ".") {
			decl = "var "
		}
		buf.WriteString("if (typeof " + namespace[:i] + " == 'undefined') { " + decl + namespace[:i] + " = {}; }\n")
	}
}

// writeRequires emits the deduplicated goog.require list, in the insertion
// order of the templates that needed each symbol.
func writeRequires(buf *bytes.Buffer, results []compileResult) {
	var seen = make(map[string]bool)
	var wrote = false
	for _, r := range results {
		for _, sym := range r.requires {
			if seen[sym] {
				continue
			}
			seen[sym] = true
			buf.WriteString("goog.require('" + sym + "');\n")
			wrote = true
		}
	}
	if wrote {
		buf.WriteString("\n")
	}
}

// Generator provides an interface to a template registry capable of generating
// javascript to execute the embodied templates.
type Generator struct {
	registry *template.Registry
}

// NewGenerator returns a new javascript generator capable of producing
// javascript for the templates contained in the given registry.
func NewGenerator(registry *template.Registry) *Generator {
	return &Generator{registry}
}

var ErrNotFound = errors.New("file not found")

// WriteFile generates javascript corresponding to the soy file of the given name.
func (gen *Generator) WriteFile(out io.Writer, filename string) error {
	return gen.WriteFileOpts(out, filename, Options{})
}

// WriteFileOpts is WriteFile with explicit options.
func (gen *Generator) WriteFileOpts(out io.Writer, filename string, opts Options) error {
	for _, soyfile := range gen.registry.SoyFiles {
		if soyfile.Name == filename {
			return Write(out, soyfile, opts)
		}
	}
	return ErrNotFound
}
