package soymsg

import (
	"regexp"
	"strings"

	"github.com/gosoy/soyjs/ast"
)

// setPlaceholderNames assigns canonical placeholder names to all placeholder
// and plural/select parts of the given message.  Names follow the legacy
// Soy-v1 convention and are assigned deterministically in visitation order:
// the first occurrence of a base name is unsuffixed; a later occurrence of
// the same base name falls back to the long-form name derived from the full
// expression path, and a numeric suffix only when that collides too.
func setPlaceholderNames(n *ast.MsgNode) {
	var (
		taken = make(map[string]ast.Node)
		// equal content shares one placeholder; keyed by source form
		byContent = make(map[string]string)
	)

	var assign func(parts []ast.Node)
	assign = func(parts []ast.Node) {
		for _, part := range parts {
			switch part := part.(type) {
			case *ast.MsgPlaceholderNode:
				var content = part.Body.String()
				if name, ok := byContent[content]; ok {
					part.Name = name
					continue
				}
				part.Name = claimName(taken, part, basePlaceholderName(part.Body), longPlaceholderName(part.Body))
				byContent[content] = part.Name
			case *ast.MsgPluralNode:
				part.Name = claimName(taken, part, "NUM_"+selectorBaseName(part.Value), "NUM_"+longExprName(part.Value))
				assignCasesPlural(part, assign)
			case *ast.MsgSelectNode:
				part.Name = claimName(taken, part, selectorBaseName(part.Value), longExprName(part.Value))
				assignCasesSelect(part, assign)
			}
		}
	}
	assign(n.Body)
}

func assignCasesPlural(n *ast.MsgPluralNode, assign func([]ast.Node)) {
	for _, c := range n.Cases {
		assign(c.Body)
	}
	assign(n.Default)
}

func assignCasesSelect(n *ast.MsgSelectNode, assign func([]ast.Node)) {
	for _, c := range n.Cases {
		assign(c.Body)
	}
	assign(n.Default)
}

// claimName reserves a unique placeholder name, trying the base name, then
// the long-form name, then numeric suffixes in first-seen order.
func claimName(taken map[string]ast.Node, node ast.Node, base, long string) string {
	if _, ok := taken[base]; !ok {
		taken[base] = node
		return base
	}
	if long != base {
		if _, ok := taken[long]; !ok {
			taken[long] = node
			return long
		}
	}
	for i := 1; ; i++ {
		var name = base + "_" + itoa(i)
		if _, ok := taken[name]; !ok {
			taken[name] = node
			return name
		}
	}
}

func itoa(i int) string {
	// small values only; avoids strconv import collision noise in callers
	if i < 10 {
		return string(rune('0' + i))
	}
	return itoa(i/10) + itoa(i%10)
}

// basePlaceholderName derives the canonical name for the content standing in
// a placeholder slot.
func basePlaceholderName(node ast.Node) string {
	switch part := node.(type) {
	case *ast.PrintNode:
		return basePlaceholderNameFromExpr(part.Arg)
	case *ast.RawTextNode:
		return "XXX"
	}
	return "XXX"
}

func basePlaceholderNameFromExpr(expr ast.Node) string {
	switch expr := expr.(type) {
	case *ast.GlobalNode:
		var name = expr.Name
		if i := strings.LastIndex(name, "."); i != -1 {
			name = name[i+1:]
		}
		return ToUpperUnderscore(name)
	case *ast.DataRefNode:
		if len(expr.Access) == 0 {
			return ToUpperUnderscore(expr.Key)
		}
		var lastChild = expr.Access[len(expr.Access)-1]
		if lastChild, ok := lastChild.(*ast.DataRefKeyNode); ok {
			return ToUpperUnderscore(lastChild.Key)
		}
	}
	return "XXX"
}

// longPlaceholderName derives the long-form, expression-derived name used
// when base names collide: the full dotted path rather than its last segment.
func longPlaceholderName(node ast.Node) string {
	if part, ok := node.(*ast.PrintNode); ok {
		return longExprName(part.Arg)
	}
	return "XXX"
}

func longExprName(expr ast.Node) string {
	switch expr := expr.(type) {
	case *ast.GlobalNode:
		return ToUpperUnderscore(strings.ReplaceAll(expr.Name, ".", "_"))
	case *ast.DataRefNode:
		var name = expr.Key
		for _, access := range expr.Access {
			if key, ok := access.(*ast.DataRefKeyNode); ok {
				name += "_" + key.Key
			}
		}
		return ToUpperUnderscore(name)
	}
	return "XXX"
}

// selectorBaseName names a plural/select selector from its keyed expression.
func selectorBaseName(expr ast.Node) string {
	var name = basePlaceholderNameFromExpr(expr)
	if name == "XXX" {
		return "VAR"
	}
	return name
}

var (
	leadingOrTrailing_ = regexp.MustCompile("^_+|_+$")
	consecutive_       = regexp.MustCompile("__+")
	wordBoundary1      = regexp.MustCompile("([a-zA-Z])([A-Z][a-z])") // <letter>_<upper><lower>
	wordBoundary2      = regexp.MustCompile("([a-zA-Z])([0-9])")      // <letter>_<digit>
	wordBoundary3      = regexp.MustCompile("([0-9])([a-zA-Z])")      // <digit>_<letter>
)

// ToUpperUnderscore converts an identifier to the UPPER_SNAKE_CASE form used
// for extraction keys.  This reproduces the legacy Soy-v1 rules bit-exactly:
// leading and trailing underscore runs are stripped, then word boundaries
// become single underscores.
func ToUpperUnderscore(ident string) string {
	ident = leadingOrTrailing_.ReplaceAllString(ident, "")
	ident = consecutive_.ReplaceAllString(ident, "_")
	ident = wordBoundary1.ReplaceAllString(ident, "${1}_${2}")
	ident = wordBoundary2.ReplaceAllString(ident, "${1}_${2}")
	ident = wordBoundary3.ReplaceAllString(ident, "${1}_${2}")
	return strings.ToUpper(ident)
}

// ToLowerCamel converts a canonical UPPER_SNAKE_CASE placeholder name to the
// lowerCamelCase form used in message text and goog.getMsg substitution maps.
func ToLowerCamel(name string) string {
	var segs = strings.Split(name, "_")
	var b strings.Builder
	for i, seg := range segs {
		if seg == "" {
			continue
		}
		seg = strings.ToLower(seg)
		if i > 0 {
			seg = strings.ToUpper(seg[:1]) + seg[1:]
		}
		b.WriteString(seg)
	}
	return b.String()
}
