// Package evaluator is the entry point of the calculator: it classifies one
// line of input as an assignment, an expression or invalid, and computes its
// value without touching the environment.
package evaluator

import (
	"errors"

	"github.com/lifers/kalkucilik/pkg/diagnostics"
	"github.com/lifers/kalkucilik/pkg/parser"
)

// Result is the outcome of evaluating one line.
// Name is set only for assignments; Text is empty for invalid input.
type Result struct {
	Name string `json:"name,omitempty"`
	Text string `json:"text"`
	Kind Kind   `json:"kind"`
}

// Valid reports whether the input evaluated.
func (r Result) Valid() bool {
	return r.Kind != Invalid
}

// Evaluate tries text as an assignment, then as an expression, reading
// variables from vars. vars is never modified: an assignment result only
// proposes a binding for the caller to commit.
func Evaluate(text string, vars parser.Vars) Result {
	res, _ := Explain(text, vars)
	return res
}

// Explain is like Evaluate but also returns, for invalid input, the
// diagnostic of whichever attempt got furthest into the text.
func Explain(text string, vars parser.Vars) (Result, *diagnostics.Diagnostic) {
	if text == "" {
		d := diagnostics.MakeDiag(diagnostics.EEmpty, "empty input", nil, "")
		return Result{Kind: Invalid}, &d
	}

	name, val, assignErr := parser.ParseAssignment(text, vars)
	if assignErr == nil {
		return Result{Name: name, Text: val.String(), Kind: Assignment}, nil
	}

	val, exprErr := parser.ParseExpression(text, vars)
	if exprErr == nil {
		return Result{Text: val.String(), Kind: Expression}, nil
	}

	d := furthest(assignErr, exprErr)
	return Result{Kind: Invalid}, &d
}

// furthest picks the diagnostic of the attempt that progressed further.
// Ties go to the expression attempt.
func furthest(assignErr, exprErr error) diagnostics.Diagnostic {
	var a, e *parser.Error
	okA := errors.As(assignErr, &a)
	okE := errors.As(exprErr, &e)
	switch {
	case okA && okE:
		if a.Offset() > e.Offset() {
			return a.Diag
		}
		return e.Diag
	case okE:
		return e.Diag
	case okA:
		return a.Diag
	}
	return diagnostics.MakeDiag(diagnostics.EParse, exprErr.Error(), nil, "")
}
