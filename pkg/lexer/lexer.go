// Package lexer implements the code-point scanner the calculator grammar
// runs on. The grammar is scannerless: it asks the scanner for literals,
// digit runs and letters directly and backtracks with Pos/Reset.
package lexer

// Scanner walks an input line one code point at a time.
type Scanner struct {
	src []rune
	pos int
}

// NewScanner creates a scanner positioned at the start of source.
func NewScanner(source string) *Scanner {
	return &Scanner{
		src: []rune(source),
		pos: 0,
	}
}

// Pos returns the current offset in code points.
func (s *Scanner) Pos() int {
	return s.pos
}

// Reset moves the scanner back to an offset previously returned by Pos.
func (s *Scanner) Reset(pos int) {
	s.pos = pos
}

// AtEnd reports whether the whole input has been consumed.
func (s *Scanner) AtEnd() bool {
	return s.pos >= len(s.src)
}

// Peek returns the current code point, or 0 at the end of input.
func (s *Scanner) Peek() rune {
	if s.AtEnd() {
		return 0
	}
	return s.src[s.pos]
}

// PeekAt returns the code point offset positions ahead, or 0 past the end.
func (s *Scanner) PeekAt(offset int) rune {
	p := s.pos + offset
	if p < 0 || p >= len(s.src) {
		return 0
	}
	return s.src[p]
}

// Advance consumes and returns the current code point.
func (s *Scanner) Advance() rune {
	ch := s.src[s.pos]
	s.pos++
	return ch
}

// SkipSpace consumes ASCII whitespace.
func (s *Scanner) SkipSpace() {
	for !s.AtEnd() && IsSpace(s.Peek()) {
		s.pos++
	}
}

// Literal consumes lit if the input continues with exactly those code points.
// It does not skip whitespace and does not require a word boundary after lit.
func (s *Scanner) Literal(lit string) bool {
	p := s.pos
	for _, want := range lit {
		if p >= len(s.src) || s.src[p] != want {
			return false
		}
		p++
	}
	s.pos = p
	return true
}

// Symbol skips leading whitespace and then matches lit. On failure the
// position is left unchanged.
func (s *Scanner) Symbol(lit string) bool {
	start := s.pos
	s.SkipSpace()
	if s.Literal(lit) {
		return true
	}
	s.pos = start
	return false
}

// Digits consumes a run of ASCII digits and returns it.
func (s *Scanner) Digits() string {
	start := s.pos
	for !s.AtEnd() && IsDigit(s.Peek()) {
		s.pos++
	}
	return string(s.src[start:s.pos])
}

// Letter consumes one ASCII letter.
func (s *Scanner) Letter() (rune, bool) {
	if s.AtEnd() || !IsLetter(s.Peek()) {
		return 0, false
	}
	return s.Advance(), true
}

// Text returns the input between two offsets.
func (s *Scanner) Text(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s.src) {
		end = len(s.src)
	}
	if start >= end {
		return ""
	}
	return string(s.src[start:end])
}

// IsSpace reports whether ch is ASCII whitespace.
func IsSpace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// IsDigit reports whether ch is an ASCII decimal digit.
func IsDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// IsLetter reports whether ch is an ASCII letter.
func IsLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
