// Package help holds the calculator's reference text.
package help

import (
	"fmt"
	"strings"

	"github.com/lifers/kalkucilik/pkg/stdlib"
)

// Program identity, shown by "kalk version" and the MCP server info.
const (
	Name     = "Kalkucilik"
	Version  = "1.0"
	Codename = "Halifax"
)

// About is the one-paragraph program description.
var About = fmt.Sprintf("%s\nVersion %s %q\nA tiny calculator with 100-digit decimal arithmetic and variables.", Name, Version, Codename)

// QUICKREF is the short overview printed by "kalk help" with no topic.
var QUICKREF = `Kalkucilik v` + Version + ` - quick reference

  2 + 3 * 4          expression        -> 14
  let x = 5 + 3      assignment        -> x = 8
  x ^ 2 / sqrt(x)    variables, calls

Operators   + - * / ^  (^ groups left: 2^3^2 = 64), unary + and -
Functions   sqrt cbrt ln sin cos tan abs   (radians)
Constants   pi e   (100 significant digits)
Numbers     12  3.25  1.5e-3  1e0.5

Topics: ` + strings.Join(TopicList, ", ") + `
Run "kalk help <topic>" for details.
`

// TopicList is the ordered list of help topics.
var TopicList = []string{
	"operators",
	"functions",
	"constants",
	"variables",
	"notation",
	"commands",
	"diagnostics",
}

// Topics maps each topic name to its text.
var Topics = map[string]string{
	"operators": `Operators, loosest first:

  +  Addition          -  Subtraction
  *  Multiplication    /  Division
  ^  Exponentiation

Operators of equal precedence group from the left, including ^:
2^3^2 is (2^3)^2 = 64. A single leading + or - binds tighter than ^,
so -2^2 is 4. Anything raised to 0 is 1, including 0^0. Division by
zero and 0 raised to a negative power are errors.
`,
	"functions": FunctionIndex(),
	"constants": constantsText(),
	"variables": variablesText(),
	"notation": `Number notation:

  42   3.25   007        plain decimals, no leading sign
  1.5e3  2e-3  1e+2      power-of-ten suffix, written without spaces
  1e0.5                  the suffix may be fractional: 10^0.5

Results carry 100 significant digits. Trailing zeros are dropped and
very large or very small magnitudes are shown as d.ddde+N.
`,
	"commands": `Commands:

  kalk [repl] [-n] [-p PROMPT]  interactive session, every line is committed
  kalk eval [-x] LINE...        commit each line in order and print the result;
                                -x keeps going after an invalid line
  kalk check [-p] LINE...       report why lines are invalid (JSON, or pretty)
  kalk help [TOPIC]             this text
  kalk version                  name and version
  kalk mcp                      serve the calculator over MCP on stdio

With no LINE, eval and check read lines from standard input.

Environment: KALK_HISTORY_LIMIT, KALK_PROMPT, KALK_NO_COLOR, KALK_FOLD_WIDTH.

REPL meta commands:
  :preview LINE   evaluate without committing
  :explain LINE   show why LINE is invalid
  :vars           list variables
  :history        list committed lines
  :clear          forget the history
  :unset NAME     forget one variable
  :reset          forget every variable
  :help [TOPIC]   show help
  :quit           leave
`,
	"diagnostics": `Diagnostic codes:

  E_EMPTY              nothing to evaluate
  E_PARSE              the input does not match the grammar
  E_MALFORMED_LITERAL  a number could not be read
  E_DIV_ZERO           division by zero
  E_DOMAIN             argument outside a function's domain, or overflow
  E_UNDEFINED          variable has no value
  E_NAME               variable name is not made of letters
`,
}

func variablesText() string {
	return `Variable assignment:

  let name = expression

Names are one or more ASCII letters (no digits or underscores). The
expression is evaluated against the current variables, so
"let x = x + 1" works once x exists. An assignment is only stored
when the line is submitted; a preview shows the value without
storing it. Reading a variable that was never assigned makes the
line invalid.

Reserved words: ` + strings.Join(stdlib.Default().Keywords(), ", ") + `.
A variable that starts with a constant's name cannot be read back.
`
}

// FunctionIndex lists the built-in functions.
func FunctionIndex() string {
	var b strings.Builder
	b.WriteString("Functions (radians for trigonometry):\n\n")
	fns := stdlib.Default().Functions()
	for _, fn := range fns {
		fmt.Fprintf(&b, "  %-8s %s\n", fn.Name+"(x)", fn.Doc)
	}
	fmt.Fprintf(&b, "\nTotal: %d functions\n", len(fns))
	return b.String()
}

func constantsText() string {
	var b strings.Builder
	b.WriteString("Constants:\n\n")
	for _, c := range stdlib.Default().Constants() {
		fmt.Fprintf(&b, "  %-3s %s\n      %s\n", c.Name, c.Value, c.Doc)
	}
	return b.String()
}

// Builtin describes the function or constant called name.
func Builtin(name string) (string, bool) {
	reg := stdlib.Default()
	if fn := reg.Get(name); fn != nil {
		return fmt.Sprintf("%s(x)  %s\n", fn.Name, fn.Doc), true
	}
	if c := reg.Constant(name); c != nil {
		return fmt.Sprintf("%s  %s\n  = %s\n", c.Name, c.Doc, c.Value), true
	}
	return "", false
}

// MatchTopic resolves a topic name or an unambiguous prefix of one. A name
// that matches no topic may also be a function or constant.
func MatchTopic(query string) (string, string, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if content, ok := Topics[query]; ok {
		return query, content, nil
	}
	if query == "" {
		return "", "", fmt.Errorf("empty help topic")
	}

	var matches []string
	for _, name := range TopicList {
		if strings.HasPrefix(name, query) {
			matches = append(matches, name)
		}
	}
	switch len(matches) {
	case 0:
		if content, ok := Builtin(query); ok {
			return query, content, nil
		}
		return "", "", fmt.Errorf("unknown help topic %q (topics: %s)", query, strings.Join(TopicList, ", "))
	case 1:
		return matches[0], Topics[matches[0]], nil
	default:
		return "", "", fmt.Errorf("ambiguous help topic %q: %s", query, strings.Join(matches, ", "))
	}
}
