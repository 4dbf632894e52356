// Package diagnostics defines the error taxonomy reported for calculator input.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Diagnostic code constants.
const (
	EEmpty            = "E_EMPTY"
	EParse            = "E_PARSE"
	EMalformedLiteral = "E_MALFORMED_LITERAL"
	EDivZero          = "E_DIV_ZERO"
	EDomain           = "E_DOMAIN"
	EUndefined        = "E_UNDEFINED"
	EName             = "E_NAME"
)

// Span locates a diagnostic within a single input line.
// Columns are 1-based and count code points; EndCol is exclusive.
type Span struct {
	StartCol int `json:"startCol"`
	EndCol   int `json:"endCol"`
}

// Diagnostic describes why a line of input did not evaluate.
type Diagnostic struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Span    *Span  `json:"span,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// MakeDiag creates a new Diagnostic.
func MakeDiag(code, message string, span *Span, hint string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: message,
		Span:    span,
		Hint:    hint,
	}
}

// At returns a span covering the code points [start, end) of the input,
// where start and end are 0-based offsets.
func At(start, end int) *Span {
	if end <= start {
		end = start + 1
	}
	return &Span{StartCol: start + 1, EndCol: end + 1}
}

// FormatDiagnostic formats a single diagnostic for display.
// When pretty is false the diagnostic is rendered as JSON.
func FormatDiagnostic(d Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(d)
		return string(b)
	}
	loc := "<input>"
	if d.Span != nil {
		loc = fmt.Sprintf("<input>:%d", d.Span.StartCol)
	}
	out := fmt.Sprintf("error[%s]: %s\n  --> %s", d.Code, d.Message, loc)
	if d.Hint != "" {
		out += fmt.Sprintf("\n  hint: %s", d.Hint)
	}
	return out
}

// FormatDiagnostics formats a slice of diagnostics for display.
func FormatDiagnostics(diags []Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(diags)
		return string(b)
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, true)
	}
	return strings.Join(parts, "\n\n")
}

// Caret renders the input line with a marker under the diagnostic span,
// for terminal output.
func Caret(input string, d Diagnostic) string {
	if d.Span == nil {
		return input
	}
	runes := []rune(input)
	start := d.Span.StartCol - 1
	if start < 0 {
		start = 0
	}
	if start > len(runes) {
		start = len(runes)
	}
	width := d.Span.EndCol - d.Span.StartCol
	if width < 1 {
		width = 1
	}
	return input + "\n" + strings.Repeat(" ", start) + strings.Repeat("^", width)
}
