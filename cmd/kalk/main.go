// Command kalk is the Kalkucilik calculator CLI.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"

	"github.com/lifers/kalkucilik/internal/config"
	"github.com/lifers/kalkucilik/internal/mcp"
	"github.com/lifers/kalkucilik/internal/repl"
	"github.com/lifers/kalkucilik/pkg/diagnostics"
	"github.com/lifers/kalkucilik/pkg/formatter"
	"github.com/lifers/kalkucilik/pkg/help"
	"github.com/lifers/kalkucilik/pkg/runtime"
)

const (
	exitOK      = 0
	exitUsage   = 1
	exitInvalid = 2
	exitFailure = 4
)

func main() {
	log.SetPrefix("[kalk] ")
	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run dispatches args (without the program name) to a subcommand.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %s\n", err)
		return exitUsage
	}
	if cfg.NoColor {
		color.NoColor = true
	}

	if len(args) == 0 {
		args = []string{"repl"}
	}
	switch args[0] {
	case "repl":
		return cmdRepl(ctx, cfg, args, stdin, stdout, stderr)
	case "eval":
		return cmdEval(cfg, args, stdin, stdout, stderr)
	case "check":
		return cmdCheck(cfg, args, stdin, stdout, stderr)
	case "help", "--help", "-h":
		return cmdHelp(args[1:], stdout, stderr)
	case "version", "--version":
		fmt.Fprintln(stdout, help.About)
		return exitOK
	case "mcp":
		return cmdMCP(ctx, cfg, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		fmt.Fprintln(stderr, "commands: repl, eval, check, help, version, mcp")
		return exitUsage
	}
}

func cmdRepl(ctx context.Context, cfg config.Config, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, optind, err := getopt.Getopts(args, "np:")
	if err != nil {
		fmt.Fprintf(stderr, "%s\nusage: kalk repl [-n] [-p PROMPT]\n", err)
		return exitUsage
	}
	if optind != len(args) {
		fmt.Fprintln(stderr, "usage: kalk repl [-n] [-p PROMPT]")
		return exitUsage
	}

	prompt := cfg.Prompt
	colored := !color.NoColor
	for _, opt := range opts {
		switch opt.Option {
		case 'n':
			colored = false
		case 'p':
			prompt = opt.Value
		}
	}

	session := runtime.New(cfg.SessionOptions()...)
	r := repl.New(session, stdin, stdout, repl.WithPrompt(prompt), repl.WithColor(colored))
	if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "repl: %s\n", err)
		return exitFailure
	}
	return exitOK
}

// cmdEval commits each line in order against one session and prints the
// results. It stops at the first invalid line unless -x is given.
func cmdEval(cfg config.Config, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, optind, err := getopt.Getopts(args, "x")
	if err != nil {
		fmt.Fprintf(stderr, "%s\nusage: kalk eval [-x] LINE...\n", err)
		return exitUsage
	}
	keepGoing := false
	for _, opt := range opts {
		if opt.Option == 'x' {
			keepGoing = true
		}
	}
	lines, err := inputLines(args[optind:], stdin)
	if err != nil {
		fmt.Fprintf(stderr, "error reading stdin: %s\n", err)
		return exitFailure
	}

	session := runtime.New(cfg.SessionOptions()...)
	code := exitOK
	for _, line := range lines {
		res, err := session.Commit(line)
		if err == nil {
			fmt.Fprintln(stdout, formatter.Line(res))
			continue
		}
		var derr *runtime.DiagnosticError
		if !errors.As(err, &derr) {
			fmt.Fprintln(stderr, err)
			return exitFailure
		}
		fmt.Fprintln(stdout, formatter.Status(res))
		fmt.Fprintln(stderr, diagnostics.FormatDiagnostics(derr.Diagnostics, true))
		code = exitInvalid
		if !keepGoing {
			break
		}
	}
	return code
}

// cmdCheck reports the diagnostics of each line. Valid lines are committed
// so later lines can read their variables. Output is JSON unless -p asks
// for the pretty form.
func cmdCheck(cfg config.Config, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, optind, err := getopt.Getopts(args, "p")
	if err != nil {
		fmt.Fprintf(stderr, "%s\nusage: kalk check [-p] LINE...\n", err)
		return exitUsage
	}
	pretty := false
	for _, opt := range opts {
		if opt.Option == 'p' {
			pretty = true
		}
	}
	lines, err := inputLines(args[optind:], stdin)
	if err != nil {
		fmt.Fprintf(stderr, "error reading stdin: %s\n", err)
		return exitFailure
	}

	session := runtime.New(cfg.SessionOptions()...)
	var all []diagnostics.Diagnostic
	for _, line := range lines {
		diags, err := checkLine(session, line)
		if err != nil {
			fmt.Fprintf(stderr, "check %q: %s\n", line, err)
			return exitFailure
		}
		if len(diags) == 0 {
			continue
		}
		all = append(all, diags...)
		if pretty {
			fmt.Fprintln(stderr, diagnostics.FormatDiagnostics(diags, true))
			for _, d := range diags {
				if d.Span != nil {
					fmt.Fprintln(stderr, diagnostics.Caret(line, d))
				}
			}
		}
	}

	if len(all) > 0 {
		if !pretty {
			fmt.Fprintln(stderr, diagnostics.FormatDiagnostics(all, false))
		}
		return exitInvalid
	}
	if pretty {
		fmt.Fprintln(stdout, "No errors found.")
	} else {
		fmt.Fprintln(stdout, "[]")
	}
	return exitOK
}

// checkLine commits line and returns its diagnostics. An error means the
// session failed for a reason other than the line being invalid.
func checkLine(session *runtime.Session, line string) ([]diagnostics.Diagnostic, error) {
	_, err := session.Commit(line)
	if err == nil {
		return nil, nil
	}
	var derr *runtime.DiagnosticError
	if errors.As(err, &derr) {
		return derr.Diagnostics, nil
	}
	return nil, err
}

func cmdHelp(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stdout, help.QUICKREF)
		return exitOK
	}
	_, content, err := help.MatchTopic(strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(stderr, "%s\nAvailable topics: %s\n", err, strings.Join(help.TopicList, ", "))
		return exitUsage
	}
	fmt.Fprint(stdout, content)
	return exitOK
}

func cmdMCP(ctx context.Context, cfg config.Config, stderr io.Writer) int {
	log.SetOutput(stderr)
	srv := mcp.New(cfg.SessionOptions()...)
	if err := srv.Run(ctx); err != nil {
		log.Printf("failed to serve MCP: %v", err)
		return exitFailure
	}
	return exitOK
}

// inputLines returns args, or the lines of stdin when args is empty or "-".
func inputLines(args []string, stdin io.Reader) ([]string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return args, nil
	}
	var lines []string
	sc := bufio.NewScanner(stdin)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}
