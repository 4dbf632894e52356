package evaluator

import (
	"fmt"
)

// Kind discriminates the outcome of one evaluation.
type Kind int

const (
	// Invalid means no production matched the whole input.
	Invalid Kind = iota
	// Expression means the input was a bare expression.
	Expression
	// Assignment means the input was "let name = expression". The binding
	// is proposed, not applied.
	Assignment
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case Expression:
		return "expression"
	case Assignment:
		return "assignment"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText renders the kind by name so results serialize as
// {"kind":"assignment"} rather than a bare number.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case Invalid, Expression, Assignment:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("unknown result kind %d", int(k))
}

// UnmarshalText parses a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "invalid":
		*k = Invalid
	case "expression":
		*k = Expression
	case "assignment":
		*k = Assignment
	default:
		return fmt.Errorf("unknown result kind %q", text)
	}
	return nil
}
