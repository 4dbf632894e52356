// Package parser implements the calculator grammar. Parsing and evaluation
// happen in one pass: every production yields a decimal value, and no
// syntax tree is built.
//
// Grammar, in order of precedence:
//
//	assignment := "let" identifier "=" expression
//	expression := term (("+" | "-") term)*
//	term       := power (("*" | "/") power)*
//	power      := factor ("^" factor)*
//	factor     := primary | "+" primary | "-" primary
//	primary    := number [suffix] | constant | "(" expression ")"
//	            | function "(" expression ")" | identifier
//	number     := digit+ ["." digit+]
//	suffix     := "e" ["+" | "-"] number
//	identifier := letter+
//
// Whitespace may appear between any two symbols except inside a number or
// between a number and its suffix. Alternatives are ordered: the first one
// that matches wins and is never revisited.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lifers/kalkucilik/pkg/decimal"
	"github.com/lifers/kalkucilik/pkg/diagnostics"
	"github.com/lifers/kalkucilik/pkg/lexer"
	"github.com/lifers/kalkucilik/pkg/stdlib"
)

// Vars is the read-only view of variable bindings the grammar consults.
type Vars interface {
	Get(name string) (decimal.Decimal, bool)
}

// Error is returned when the input does not parse or does not evaluate.
type Error struct {
	Diag diagnostics.Diagnostic
}

func (e *Error) Error() string {
	return e.Diag.Message
}

// Offset returns the 0-based code point offset the error points at.
func (e *Error) Offset() int {
	if e.Diag.Span == nil {
		return 0
	}
	return e.Diag.Span.StartCol - 1
}

var ten = decimal.FromInt64(10)

type parser struct {
	s    *lexer.Scanner
	vars Vars
	reg  *stdlib.Registry

	// furthest soft failure seen so far
	farPos  int
	farDiag diagnostics.Diagnostic
}

func newParser(src string, vars Vars) *parser {
	return &parser{
		s:      lexer.NewScanner(src),
		vars:   vars,
		reg:    stdlib.Default(),
		farPos: -1,
	}
}

// ParseAssignment parses src as "let name = expression" and evaluates the
// expression against vars. vars is never modified.
func ParseAssignment(src string, vars Vars) (string, decimal.Decimal, error) {
	p := newParser(src, vars)
	name, val, err := p.parseAssignment()
	if err != nil {
		return "", decimal.Decimal{}, err
	}
	if err := p.expectEnd(); err != nil {
		return "", decimal.Decimal{}, err
	}
	return name, val, nil
}

// ParseExpression parses and evaluates src as an expression against vars.
func ParseExpression(src string, vars Vars) (decimal.Decimal, error) {
	p := newParser(src, vars)
	start := p.pos()
	val, ok, err := p.parseExpression()
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !ok {
		return decimal.Decimal{}, p.expected(start, "expected an expression")
	}
	if err := p.expectEnd(); err != nil {
		return decimal.Decimal{}, err
	}
	return val, nil
}

func (p *parser) pos() int {
	return p.s.Pos()
}

// note records a soft failure. Only the failure furthest into the input is kept.
func (p *parser) note(start, end int, code, msg, hint string) {
	if start > p.farPos {
		p.farPos = start
		p.farDiag = diagnostics.MakeDiag(code, msg, diagnostics.At(start, end), hint)
	}
}

// expected builds a hard parse error at pos, unless a soft failure further
// into the input explains the problem better.
func (p *parser) expected(pos int, msg string) *Error {
	if p.farPos >= pos {
		return &Error{Diag: p.farDiag}
	}
	return &Error{Diag: diagnostics.MakeDiag(diagnostics.EParse, msg, diagnostics.At(pos, pos+1), "")}
}

// fail turns an arithmetic error into a hard error covering [start, end).
func (p *parser) fail(start, end int, err error) *Error {
	code := diagnostics.EDomain
	switch {
	case errors.Is(err, decimal.ErrDivisionByZero):
		code = diagnostics.EDivZero
	case errors.Is(err, decimal.ErrMalformedLiteral):
		code = diagnostics.EMalformedLiteral
	}
	return &Error{Diag: diagnostics.MakeDiag(code, err.Error(), diagnostics.At(start, end), "")}
}

func (p *parser) expectEnd() error {
	p.s.SkipSpace()
	if p.s.AtEnd() {
		return nil
	}
	pos := p.pos()
	return p.expected(pos, fmt.Sprintf("unexpected '%s'", string(p.s.Peek())))
}

// parseAssignment parses "let" identifier "=" expression. Once "let" has
// matched, every remaining part is mandatory.
func (p *parser) parseAssignment() (string, decimal.Decimal, error) {
	p.s.SkipSpace()
	start := p.pos()
	if !p.s.Literal("let") {
		return "", decimal.Decimal{}, p.expected(start, "expected 'let'")
	}

	// identifier
	p.s.SkipSpace()
	at := p.pos()
	name, ok := p.parseIdentifier()
	if !ok {
		return "", decimal.Decimal{}, p.expected(at, "expected a variable name after 'let'")
	}

	if err := p.checkNameEnd(name); err != nil {
		return "", decimal.Decimal{}, err
	}

	// '='
	p.s.SkipSpace()
	at = p.pos()
	if !p.s.Literal("=") {
		return "", decimal.Decimal{}, p.expected(at, "expected '=' after variable name")
	}

	// expression
	p.s.SkipSpace()
	at = p.pos()
	val, ok, err := p.parseExpression()
	if err != nil {
		return "", decimal.Decimal{}, err
	}
	if !ok {
		return "", decimal.Decimal{}, p.expected(at, "expected an expression after '='")
	}
	return name, val, nil
}

// parseExpression parses term (("+" | "-") term)*.
// It returns ok=false without consuming input when no term matches.
func (p *parser) parseExpression() (decimal.Decimal, bool, error) {
	start := p.pos()
	acc, ok, err := p.parseTerm()
	if err != nil || !ok {
		return acc, ok, err
	}
	for {
		mark := p.pos()
		var op func(decimal.Decimal) (decimal.Decimal, error)
		switch {
		case p.s.Symbol("+"):
			op = acc.Add
		case p.s.Symbol("-"):
			op = acc.Sub
		default:
			return acc, true, nil
		}
		rhs, ok, err := p.parseTerm()
		if err != nil {
			return decimal.Decimal{}, false, err
		}
		if !ok {
			p.s.Reset(mark)
			return acc, true, nil
		}
		if acc, err = op(rhs); err != nil {
			return decimal.Decimal{}, false, p.fail(start, p.pos(), err)
		}
	}
}

// parseTerm parses power (("*" | "/") power)*.
func (p *parser) parseTerm() (decimal.Decimal, bool, error) {
	start := p.pos()
	acc, ok, err := p.parsePower()
	if err != nil || !ok {
		return acc, ok, err
	}
	for {
		mark := p.pos()
		var op func(decimal.Decimal) (decimal.Decimal, error)
		switch {
		case p.s.Symbol("*"):
			op = acc.Mul
		case p.s.Symbol("/"):
			op = acc.Div
		default:
			return acc, true, nil
		}
		rhs, ok, err := p.parsePower()
		if err != nil {
			return decimal.Decimal{}, false, err
		}
		if !ok {
			p.s.Reset(mark)
			return acc, true, nil
		}
		if acc, err = op(rhs); err != nil {
			return decimal.Decimal{}, false, p.fail(start, p.pos(), err)
		}
	}
}

// parsePower parses factor ("^" factor)*, folding from the left:
// 2^3^2 is (2^3)^2.
func (p *parser) parsePower() (decimal.Decimal, bool, error) {
	start := p.pos()
	acc, ok, err := p.parseFactor()
	if err != nil || !ok {
		return acc, ok, err
	}
	for {
		mark := p.pos()
		if !p.s.Symbol("^") {
			return acc, true, nil
		}
		rhs, ok, err := p.parseFactor()
		if err != nil {
			return decimal.Decimal{}, false, err
		}
		if !ok {
			p.s.Reset(mark)
			return acc, true, nil
		}
		if acc, err = acc.Pow(rhs); err != nil {
			return decimal.Decimal{}, false, p.fail(start, p.pos(), err)
		}
	}
}

// parseFactor parses an optionally signed primary.
func (p *parser) parseFactor() (decimal.Decimal, bool, error) {
	start := p.pos()
	if val, ok, err := p.parsePrimary(); err != nil || ok {
		return val, ok, err
	}

	neg := false
	switch {
	case p.s.Symbol("+"):
	case p.s.Symbol("-"):
		neg = true
	default:
		return decimal.Decimal{}, false, nil
	}
	val, ok, err := p.parsePrimary()
	if err != nil {
		return decimal.Decimal{}, false, err
	}
	if !ok {
		p.s.Reset(start)
		return decimal.Decimal{}, false, nil
	}
	if neg {
		val = val.Neg()
	}
	return val, true, nil
}

// parsePrimary tries, in order: a number with an optional power-of-ten
// suffix, the constants, a parenthesized expression, the functions and
// finally a variable.
func (p *parser) parsePrimary() (decimal.Decimal, bool, error) {
	start := p.pos()
	p.s.SkipSpace()
	at := p.pos()

	// number [suffix]
	if text := p.parseNumber(); text != "" {
		val, err := decimal.Parse(text)
		if err != nil {
			return decimal.Decimal{}, false, p.fail(at, p.pos(), err)
		}
		mark := p.pos()
		if exp, ok := p.parseSuffix(); ok {
			scale, err := ten.Pow(exp)
			if err == nil {
				val, err = val.Mul(scale)
			}
			if err != nil {
				return decimal.Decimal{}, false, p.fail(at, p.pos(), err)
			}
		} else {
			p.s.Reset(mark)
		}
		return val, true, nil
	}

	// constants
	for _, c := range p.reg.Constants() {
		if p.s.Literal(c.Name) {
			return c.Value, true, nil
		}
	}

	// '(' expression ')'
	if p.s.Literal("(") {
		val, ok, err := p.parseGroup(at)
		if err != nil || ok {
			return val, ok, err
		}
		p.s.Reset(at)
	}

	// function '(' expression ')'
	for _, fn := range p.reg.Functions() {
		if !p.s.Literal(fn.Name) {
			continue
		}
		if !p.s.Symbol("(") {
			p.s.Reset(at)
			continue
		}
		arg, ok, err := p.parseGroup(at)
		if err != nil {
			return decimal.Decimal{}, false, err
		}
		if !ok {
			p.s.Reset(at)
			continue
		}
		val, err := fn.Execute(arg)
		if err != nil {
			return decimal.Decimal{}, false, p.fail(at, p.pos(), err)
		}
		return val, true, nil
	}

	// variable
	if name, ok := p.parseIdentifier(); ok {
		if p.vars != nil {
			if val, found := p.vars.Get(name); found {
				return val, true, nil
			}
		}
		p.note(at, p.pos(), diagnostics.EUndefined,
			fmt.Sprintf("undefined variable '%s'", name),
			fmt.Sprintf("assign it first: let %s = ...", name))
		p.s.Reset(start)
		return decimal.Decimal{}, false, nil
	}

	p.note(at, at+1, diagnostics.EParse, "expected a number, constant, function, '(' or variable", "")
	p.s.Reset(start)
	return decimal.Decimal{}, false, nil
}

// parseGroup parses the expression and closing parenthesis after an
// opening one. A missing ')' after a complete expression is a hard error.
func (p *parser) parseGroup(open int) (decimal.Decimal, bool, error) {
	val, ok, err := p.parseExpression()
	if err != nil || !ok {
		return val, ok, err
	}
	p.s.SkipSpace()
	at := p.pos()
	if !p.s.Literal(")") {
		if p.farPos >= at {
			return decimal.Decimal{}, false, p.expected(at, "")
		}
		return decimal.Decimal{}, false, &Error{Diag: diagnostics.MakeDiag(diagnostics.EParse,
			"expected ')'", diagnostics.At(at, at+1),
			fmt.Sprintf("the '(' at column %d is never closed", open+1))}
	}
	return val, true, nil
}

// parseNumber consumes digit+ ["." digit+] at the current position and
// returns its text, or "" if no digits are present.
func (p *parser) parseNumber() string {
	intPart := p.s.Digits()
	if intPart == "" {
		return ""
	}
	if p.s.Peek() == '.' && lexer.IsDigit(p.s.PeekAt(1)) {
		p.s.Advance()
		return intPart + "." + p.s.Digits()
	}
	return intPart
}

// parseSuffix consumes "e" ["+" | "-"] number directly after a number and
// returns the exponent.
func (p *parser) parseSuffix() (decimal.Decimal, bool) {
	if !p.s.Literal("e") {
		return decimal.Decimal{}, false
	}
	sign := ""
	switch {
	case p.s.Literal("+"):
	case p.s.Literal("-"):
		sign = "-"
	}
	text := p.parseNumber()
	if text == "" {
		return decimal.Decimal{}, false
	}
	exp, err := decimal.Parse(sign + text)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return exp, true
}

// parseIdentifier consumes one or more ASCII letters. Whitespace between
// letters is skipped, so "a b" reads as "ab".
// checkNameEnd rejects a digit or underscore glued to the end of an
// assignment target, which would otherwise surface as a missing '='.
func (p *parser) checkNameEnd(name string) *Error {
	bad := p.pos()
	end := bad
	for !p.s.AtEnd() {
		ch := p.s.Peek()
		if !lexer.IsLetter(ch) && !lexer.IsDigit(ch) && ch != '_' {
			break
		}
		p.s.Advance()
		end = p.pos()
	}
	if end == bad {
		return nil
	}
	full := name + p.s.Text(bad, end)
	return &Error{Diag: diagnostics.MakeDiag(diagnostics.EName,
		fmt.Sprintf("variable name %q may only contain letters", full),
		diagnostics.At(bad, end), "names are ASCII letters only, e.g. let x = ...")}
}

func (p *parser) parseIdentifier() (string, bool) {
	var b strings.Builder
	for {
		mark := p.pos()
		p.s.SkipSpace()
		ch, ok := p.s.Letter()
		if !ok {
			p.s.Reset(mark)
			break
		}
		b.WriteRune(ch)
	}
	return b.String(), b.Len() > 0
}
