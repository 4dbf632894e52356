// Package formatter renders session state for display: the status line,
// the variable table and the history listing.
package formatter

import (
	"strings"
	"text/tabwriter"

	"github.com/lifers/kalkucilik/pkg/env"
	"github.com/lifers/kalkucilik/pkg/evaluator"
	"github.com/lifers/kalkucilik/pkg/runtime"
)

// InvalidText is shown in place of a result that did not evaluate.
const InvalidText = "Invalid expression"

// Status renders the status line for a result: the value, or InvalidText
// when there is none.
func Status(res evaluator.Result) string {
	if res.Kind == evaluator.Invalid || res.Text == "" {
		return InvalidText
	}
	return res.Text
}

// Line renders a result on one line. Assignments show the name they bind.
func Line(res evaluator.Result) string {
	if res.Kind == evaluator.Assignment && res.Text != "" {
		return res.Name + " = " + res.Text
	}
	return Status(res)
}

// Variables renders bindings as a two-column Variable/Value table.
func Variables(bindings []env.Binding) string {
	if len(bindings) == 0 {
		return "(no variables)\n"
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	w.Write([]byte("Variable\tValue\n"))
	for _, bind := range bindings {
		w.Write([]byte(bind.Name + "\t" + bind.Value + "\n"))
	}
	w.Flush()
	return b.String()
}

// History renders entries oldest first: the input, its result and a blank
// separator line.
func History(entries []runtime.Entry) string {
	if len(entries) == 0 {
		return "(no history)\n"
	}
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Input)
		b.WriteByte('\n')
		b.WriteString(Status(e.Result))
		b.WriteString("\n\n")
	}
	return b.String()
}
