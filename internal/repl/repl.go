// Package repl implements the interactive line-oriented calculator host.
// Every submitted line is a commit; meta commands start with ':'.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/lifers/kalkucilik/pkg/diagnostics"
	"github.com/lifers/kalkucilik/pkg/evaluator"
	"github.com/lifers/kalkucilik/pkg/formatter"
	"github.com/lifers/kalkucilik/pkg/help"
	"github.com/lifers/kalkucilik/pkg/runtime"
)

// REPL reads lines from in and writes results to out.
type REPL struct {
	session *runtime.Session
	in      io.Reader
	out     io.Writer
	prompt  string

	value *color.Color
	bad   *color.Color
	dim   *color.Color
}

// Option is a functional option for configuring the REPL.
type Option func(*REPL)

// WithPrompt sets the prompt printed before each line.
func WithPrompt(p string) Option {
	return func(r *REPL) {
		r.prompt = p
	}
}

// WithColor turns colored output on or off.
func WithColor(on bool) Option {
	return func(r *REPL) {
		for _, c := range []*color.Color{r.value, r.bad, r.dim} {
			if on {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// New creates a REPL bound to session.
func New(session *runtime.Session, in io.Reader, out io.Writer, opts ...Option) *REPL {
	r := &REPL{
		session: session,
		in:      in,
		out:     out,
		prompt:  "> ",
		value:   color.New(color.FgGreen),
		bad:     color.New(color.FgRed, color.Bold),
		dim:     color.New(color.Faint),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads and handles lines until end of input, ":quit" or ctx is done.
// Input is read on a separate goroutine so cancellation does not wait for
// the next line; that goroutine stays blocked in Read until input arrives.
func (r *REPL) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		sc := bufio.NewScanner(r.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-stop:
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(r.out, r.prompt)
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			return ctx.Err()
		case err := <-readErr:
			fmt.Fprintln(r.out)
			return err
		case line := <-lines:
			if quit := r.Handle(line); quit {
				return nil
			}
		}
	}
}

// Handle processes one line and reports whether the REPL should stop.
func (r *REPL) Handle(line string) bool {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return false
	}
	if cmd, arg, ok := meta(line); ok {
		return r.command(cmd, arg)
	}

	res, err := r.session.Commit(line)
	if err != nil {
		r.bad.Fprintln(r.out, formatter.Status(res))
		return false
	}
	r.value.Fprintln(r.out, formatter.Line(res))
	return false
}

// meta splits ":cmd rest" into its parts.
func meta(line string) (string, string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ":") {
		return "", "", false
	}
	cmd, arg, _ := strings.Cut(trimmed[1:], " ")
	return strings.ToLower(cmd), strings.TrimSpace(arg), true
}

func (r *REPL) command(cmd, arg string) bool {
	switch cmd {
	case "q", "quit", "exit":
		return true
	case "p", "preview":
		res := r.session.Preview(arg)
		if res.Kind == evaluator.Invalid {
			r.bad.Fprintln(r.out, formatter.Status(res))
		} else {
			r.dim.Fprintln(r.out, formatter.Line(res)+"  (not committed)")
		}
	case "e", "explain":
		r.explain(arg)
	case "v", "vars":
		fmt.Fprint(r.out, formatter.Variables(r.session.Variables()))
	case "h", "history":
		fmt.Fprint(r.out, formatter.History(r.session.History()))
	case "clear":
		r.session.ClearHistory()
		r.dim.Fprintln(r.out, "history cleared")
	case "unset":
		if arg == "" {
			r.bad.Fprintln(r.out, "usage: :unset NAME")
		} else if r.session.Unset(arg) {
			r.dim.Fprintf(r.out, "%s unset\n", arg)
		} else {
			r.bad.Fprintf(r.out, "%s is not set\n", arg)
		}
	case "reset":
		r.session.ClearVariables()
		r.dim.Fprintln(r.out, "variables cleared")
	case "help", "?":
		r.help(arg)
	default:
		r.bad.Fprintf(r.out, "unknown command :%s (try :help commands)\n", cmd)
	}
	return false
}

func (r *REPL) explain(text string) {
	res, d := r.session.Explain(text)
	if d == nil {
		r.value.Fprintln(r.out, formatter.Line(res))
		return
	}
	r.bad.Fprintln(r.out, diagnostics.FormatDiagnostic(*d, true))
	if d.Span != nil {
		r.dim.Fprintln(r.out, diagnostics.Caret(text, *d))
	}
}

func (r *REPL) help(topic string) {
	if topic == "" {
		fmt.Fprint(r.out, help.QUICKREF)
		return
	}
	_, content, err := help.MatchTopic(topic)
	if err != nil {
		r.bad.Fprintln(r.out, err)
		return
	}
	fmt.Fprint(r.out, content)
}
