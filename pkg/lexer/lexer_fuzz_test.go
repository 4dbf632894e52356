package lexer

import (
	"testing"
)

// FuzzScanner drives every scanner primitive over random input to catch panics.
// The scanner must always make progress and never index past the input.
func FuzzScanner(f *testing.F) {
	seeds := []string{
		// Expressions
		`2 + 3 * 4`,
		`(2 + 3) * 4`,
		`let x = 5 + 3`,
		`sqrt(16) ^ 2`,
		`1.5e-3`,
		// Edge cases
		``,
		`   `,
		"\t\n\r\v\f",
		`@#$&`,
		`\x00`,
		// Unicode
		`π ≈ 3.14`,
		"１２＋３",
		// Long input
		`let aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa = 1`,
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("scanner panicked on input %q: %v", input, r)
				}
			}()
			s := NewScanner(input)
			for !s.AtEnd() {
				start := s.Pos()
				s.SkipSpace()
				s.Digits()
				s.Literal("e")
				s.Symbol("(")
				s.Letter()
				if s.Pos() == start {
					s.Advance()
				}
				_ = s.Text(start, s.Pos())
			}
		}()
	})
}
