package jsdsl

import (
	"io"
	"strings"
)

// Statement is an immutable, fully formatted run of one or more JavaScript
// statements.  Statements are compared by identity when deduplicating
// initialization lists, so the same *Statement threaded through several
// expressions is emitted once.
type Statement struct {
	lines []string
}

// Stmt creates a statement from the given text.  Multi-line text is split so
// each line indents correctly when emitted.
func Stmt(text string) *Statement {
	return &Statement{lines: strings.Split(text, "\n")}
}

// Lines returns the statement's lines.  Callers must not modify the result.
func (s *Statement) Lines() []string {
	return s.lines
}

// WriteTo writes the statement to w with each line prefixed by indent.
func (s *Statement) WriteTo(w io.Writer, indent string) {
	for _, line := range s.lines {
		io.WriteString(w, indent)
		io.WriteString(w, line)
		io.WriteString(w, "\n")
	}
}

// indented returns the statement's lines, each prefixed by two spaces, for
// embedding in a block statement.
func (s *Statement) indented() []string {
	var out = make([]string, len(s.lines))
	for i, line := range s.lines {
		out[i] = "  " + line
	}
	return out
}

// mergeStmts concatenates statement lists in operand order, dropping
// referentially identical duplicates.
func mergeStmts(lists ...[]*Statement) []*Statement {
	var n int
	for _, l := range lists {
		n += len(l)
	}
	if n == 0 {
		return nil
	}
	var (
		out  = make([]*Statement, 0, n)
		seen = make(map[*Statement]struct{}, n)
	)
	for _, l := range lists {
		for _, s := range l {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// mergeRequires concatenates required-symbol lists, deduplicated in insertion
// order.
func mergeRequires(lists ...[]string) []string {
	var n int
	for _, l := range lists {
		n += len(l)
	}
	if n == 0 {
		return nil
	}
	var (
		out  = make([]string, 0, n)
		seen = make(map[string]struct{}, n)
	)
	for _, l := range lists {
		for _, r := range l {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}
