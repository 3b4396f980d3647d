// Package soytype describes the resolved semantic types that the upstream
// type checker attaches to expression nodes.
package soytype

import "strings"

// Kind enumerates the semantic type kinds.
type Kind int

const (
	Unknown Kind = iota
	Null
	Bool
	Int
	Float
	String
	List
	Map
	Record

	// Sanitized content kinds.
	HTML
	JS
	CSS
	URI
	Attributes
)

// Type is a resolved semantic type. The zero value is the unknown type.
type Type struct {
	Kind     Kind
	Nullable bool

	// Elem is the element type for List and the value type for Map.
	Elem *Type

	// Fields holds the field types for Record, keyed by field name.
	Fields map[string]*Type
}

// Sanitized reports whether values of this type carry a content kind that the
// runtime must not re-escape.
func (t Type) Sanitized() bool {
	switch t.Kind {
	case HTML, JS, CSS, URI, Attributes:
		return true
	}
	return false
}

// Stringlike reports whether values of this type render with plain string
// concatenation.
func (t Type) Stringlike() bool {
	return t.Kind == String || t.Kind == Int || t.Kind == Float || t.Kind == Bool
}

var kindNames = map[Kind]string{
	Unknown:    "?",
	Null:       "null",
	Bool:       "bool",
	Int:        "int",
	Float:      "float",
	String:     "string",
	List:       "list",
	Map:        "map",
	Record:     "record",
	HTML:       "html",
	JS:         "js",
	CSS:        "css",
	URI:        "uri",
	Attributes: "attributes",
}

func (t Type) String() string {
	var b strings.Builder
	b.WriteString(kindNames[t.Kind])
	switch t.Kind {
	case List:
		b.WriteString("<")
		b.WriteString(elemString(t.Elem))
		b.WriteString(">")
	case Map:
		b.WriteString("<string,")
		b.WriteString(elemString(t.Elem))
		b.WriteString(">")
	}
	if t.Nullable {
		b.WriteString("|null")
	}
	return b.String()
}

func elemString(t *Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

// Of returns a non-nullable type of the given kind.
func Of(k Kind) Type { return Type{Kind: k} }

// NullableOf returns a nullable type of the given kind.
func NullableOf(k Kind) Type { return Type{Kind: k, Nullable: true} }

// ListOf returns a list type with the given element type.
func ListOf(elem Type) Type { return Type{Kind: List, Elem: &elem} }

// MapOf returns a map type with the given value type.
func MapOf(val Type) Type { return Type{Kind: Map, Elem: &val} }
