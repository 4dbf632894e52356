package diagnostics_test

import (
	"strings"
	"testing"

	"github.com/lifers/kalkucilik/pkg/diagnostics"
)

func TestMakeDiag(t *testing.T) {
	span := diagnostics.At(0, 4)
	d := diagnostics.MakeDiag(diagnostics.EParse, "unexpected 'x'", span, "check syntax")

	if d.Code != diagnostics.EParse {
		t.Errorf("got Code = %q, want %q", d.Code, diagnostics.EParse)
	}
	if d.Message != "unexpected 'x'" {
		t.Errorf("got Message = %q, want %q", d.Message, "unexpected 'x'")
	}
	if d.Span.StartCol != 1 || d.Span.EndCol != 5 {
		t.Errorf("got span %+v, want cols 1..5", *d.Span)
	}
}

func TestAtWidensEmptySpan(t *testing.T) {
	span := diagnostics.At(3, 3)
	if span.StartCol != 4 || span.EndCol != 5 {
		t.Errorf("got span %+v, want cols 4..5", *span)
	}
}

func TestFormatDiagnosticPretty(t *testing.T) {
	d := diagnostics.MakeDiag(diagnostics.EUndefined, "undefined variable 'y'", diagnostics.At(4, 5), "assign it first with 'let y = ...'")

	out := diagnostics.FormatDiagnostic(d, true)
	if !strings.Contains(out, "error[E_UNDEFINED]") {
		t.Errorf("expected error code in output, got: %s", out)
	}
	if !strings.Contains(out, "<input>:5") {
		t.Errorf("expected location in output, got: %s", out)
	}
	if !strings.Contains(out, "hint:") {
		t.Errorf("expected hint in output, got: %s", out)
	}
}

func TestFormatDiagnosticJSON(t *testing.T) {
	d := diagnostics.MakeDiag(diagnostics.EDivZero, "division by zero", nil, "")
	out := diagnostics.FormatDiagnostic(d, false)
	if !strings.Contains(out, `"code":"E_DIV_ZERO"`) {
		t.Errorf("expected JSON code in output, got: %s", out)
	}
	if strings.Contains(out, "span") {
		t.Errorf("expected span to be omitted, got: %s", out)
	}
}

func TestFormatDiagnosticsPrettyJoins(t *testing.T) {
	diags := []diagnostics.Diagnostic{
		diagnostics.MakeDiag(diagnostics.EParse, "first", nil, ""),
		diagnostics.MakeDiag(diagnostics.EDomain, "second", nil, ""),
	}
	out := diagnostics.FormatDiagnostics(diags, true)
	if strings.Count(out, "error[") != 2 {
		t.Errorf("expected two diagnostics, got: %s", out)
	}
	if !strings.Contains(out, "\n\n") {
		t.Errorf("expected blank line between diagnostics, got: %s", out)
	}
}

func TestCaret(t *testing.T) {
	d := diagnostics.MakeDiag(diagnostics.EParse, "unexpected 'foo'", diagnostics.At(6, 9), "")
	got := diagnostics.Caret("2 + 3 foo", d)
	want := "2 + 3 foo\n      ^^^"
	if got != want {
		t.Errorf("Caret() = %q, want %q", got, want)
	}
}
