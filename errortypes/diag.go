package errortypes

import (
	"fmt"
	"strings"
)

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a single compile problem with its source location.
type Diagnostic struct {
	Severity Severity
	File     string
	Pos      int // byte offset in the file's source text
	Message  string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d: %s: %s", d.File, d.Pos, d.Severity, d.Message)
}

// Collector accumulates diagnostics across a compilation.  Recoverable
// problems are appended here and generation continues with a placeholder
// value, so that one pass reports as many problems as possible.
type Collector struct {
	diags []Diagnostic
}

// Errorf records an error diagnostic.
func (c *Collector) Errorf(file string, pos int, format string, args ...interface{}) {
	c.diags = append(c.diags, Diagnostic{
		Severity: SeverityError,
		File:     file,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Warningf records a warning diagnostic.
func (c *Collector) Warningf(file string, pos int, format string, args ...interface{}) {
	c.diags = append(c.diags, Diagnostic{
		Severity: SeverityWarning,
		File:     file,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Diagnostics returns all recorded diagnostics in the order they were added.
func (c *Collector) Diagnostics() []Diagnostic {
	return c.diags
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (c *Collector) HasErrors() bool {
	for _, d := range c.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Err returns an error summarizing all error diagnostics, or nil.
func (c *Collector) Err() error {
	if !c.HasErrors() {
		return nil
	}
	var msgs []string
	for _, d := range c.diags {
		if d.Severity == SeverityError {
			msgs = append(msgs, d.Error())
		}
	}
	return fmt.Errorf("%s", strings.Join(msgs, "\n"))
}
