package repl_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/lifers/kalkucilik/internal/repl"
	"github.com/lifers/kalkucilik/pkg/runtime"
)

// run feeds input to a fresh REPL and returns everything it printed.
func run(t *testing.T, input string) (string, *runtime.Session) {
	t.Helper()
	s := runtime.New()
	var out bytes.Buffer
	r := repl.New(s, strings.NewReader(input), &out, repl.WithPrompt(""), repl.WithColor(false))
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String(), s
}

func TestCommitLines(t *testing.T) {
	out, s := run(t, "let x = 5 + 3\nx * 2\n1/0\n\n")
	want := "x = 8\n16\nInvalid expression\n\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
	if len(s.History()) != 2 {
		t.Errorf("History() has %d entries, want 2", len(s.History()))
	}
}

func TestPreviewDoesNotCommit(t *testing.T) {
	out, s := run(t, ":preview let y = 2\n")
	if !strings.Contains(out, "y = 2  (not committed)") {
		t.Errorf("output = %q", out)
	}
	if len(s.Variables()) != 0 {
		t.Errorf("preview bound %v", s.Variables())
	}
}

func TestExplain(t *testing.T) {
	out, _ := run(t, ":explain 2 + 3 foo\n")
	for _, want := range []string{"error[E_PARSE]: unexpected 'f'", "2 + 3 foo\n      ^"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestVarsAndHistory(t *testing.T) {
	out, _ := run(t, "let b = 2\nlet a = 1\n:vars\n:history\n")
	if !strings.Contains(out, "Variable  Value\na         1\nb         2\n") {
		t.Errorf("vars table missing:\n%s", out)
	}
	if !strings.Contains(out, "let b = 2\n2\n\nlet a = 1\n1\n\n") {
		t.Errorf("history missing:\n%s", out)
	}
}

func TestClearAndReset(t *testing.T) {
	_, s := run(t, "let a = 1\n:clear\n:reset\n")
	if len(s.History()) != 0 || len(s.Variables()) != 0 {
		t.Errorf("history %v, vars %v", s.History(), s.Variables())
	}
}

func TestQuitStopsReading(t *testing.T) {
	out, s := run(t, "1\n:quit\nlet z = 3\n")
	if out != "1\n" {
		t.Errorf("output = %q", out)
	}
	if _, ok := s.Lookup("z"); ok {
		t.Error("line after :quit was evaluated")
	}
}

func TestHelpAndUnknown(t *testing.T) {
	out, _ := run(t, ":help\n:help diag\n:help zzz\n:bogus\n")
	for _, want := range []string{"quick reference", "E_DIV_ZERO", "unknown help topic", "unknown command :bogus"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := repl.New(runtime.New(), strings.NewReader("1\n"), &bytes.Buffer{})
	if err := r.Run(ctx); err != context.Canceled {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}

func TestCancelWhileWaitingForInput(t *testing.T) {
	in, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	r := repl.New(runtime.New(), in, &bytes.Buffer{})
	errc := make(chan error, 1)
	go func() {
		errc <- r.Run(ctx)
	}()

	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel while blocked on input")
	}
}

func TestUnset(t *testing.T) {
	out, s := run(t, "let a = 1\nlet b = 2\n:unset a\n:unset a\n:unset\n")
	for _, want := range []string{"a unset", "a is not set", "usage: :unset NAME"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if _, ok := s.Lookup("a"); ok {
		t.Error("a still bound")
	}
	if got, _ := s.Lookup("b"); got != "2" {
		t.Errorf("b = %q, want 2", got)
	}
}

func TestPrompt(t *testing.T) {
	var out bytes.Buffer
	r := repl.New(runtime.New(), strings.NewReader("2^10\n"), &out, repl.WithPrompt("kalk> "), repl.WithColor(false))
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if out.String() != "kalk> 1024\nkalk> \n" {
		t.Errorf("output = %q", out.String())
	}
}
