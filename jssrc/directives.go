package jssrc

// PrintDirective represents a transformation applied when printing a value.
type PrintDirective struct {
	Name             string // JS function applied to the value; empty for markers
	CancelAutoescape bool
	Requires         []string
}

// PrintDirectives are the builtin print directives.
// Callers may add their own print directives to a copy of this map via Options.
var PrintDirectives = map[string]PrintDirective{
	"insertWordBreaks":  {"soy.$$insertWordBreaks", true, []string{"soy"}},
	"changeNewlineToBr": {"soy.$$changeNewlineToBr", true, []string{"soy"}},
	"truncate":          {"soy.$$truncate", false, []string{"soy"}},
	"id":                {"", true, nil}, // marker only, cancels autoescape
	"noAutoescape":      {"", true, nil}, // marker only, cancels autoescape
	"escapeHtml":        {"soy.$$escapeHtml", true, []string{"soy"}},
	"escapeUri":         {"soy.$$escapeUri", true, []string{"soy"}},
	"escapeJsString":    {"soy.$$escapeJsString", true, []string{"soy"}},
	"bidiSpanWrap":      {"soy.$$bidiSpanWrap", false, []string{"soy"}},
	"bidiUnicodeWrap":   {"soy.$$bidiUnicodeWrap", false, []string{"soy"}},
	"json":              {"JSON.stringify", true, nil},
}
