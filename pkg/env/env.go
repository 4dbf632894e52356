// Package env holds the variable bindings of one calculator session.
package env

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lifers/kalkucilik/pkg/decimal"
)

// ErrInvalidName is returned by Set for names that are not a non-empty run of
// ASCII letters.
var ErrInvalidName = errors.New("invalid variable name")

// Binding is a single name/value pair as stored in the environment.
type Binding struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Environment maps variable names to canonical decimal strings.
// It is owned by a single session and is not safe for concurrent use.
type Environment struct {
	bindings map[string]string
}

// New creates an empty environment.
func New() *Environment {
	return &Environment{
		bindings: make(map[string]string),
	}
}

// Get looks up a variable. It reports false when the name is unbound.
func (e *Environment) Get(name string) (decimal.Decimal, bool) {
	text, ok := e.bindings[name]
	if !ok {
		return decimal.Decimal{}, false
	}
	val, err := decimal.Parse(text)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return val, true
}

// Set binds name to the value denoted by valueText, replacing any previous
// binding. The stored text is the value's canonical rendering.
func (e *Environment) Set(name, valueText string) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	val, err := decimal.Parse(valueText)
	if err != nil {
		return err
	}
	e.bindings[name] = val.String()
	return nil
}

// Delete removes a binding. Deleting an unbound name is a no-op.
func (e *Environment) Delete(name string) {
	delete(e.bindings, name)
}

// Clear removes every binding.
func (e *Environment) Clear() {
	clear(e.bindings)
}

// Len returns the number of bindings.
func (e *Environment) Len() int {
	return len(e.bindings)
}

// Enumerate returns every binding, ordered by name.
func (e *Environment) Enumerate() []Binding {
	out := make([]Binding, 0, len(e.bindings))
	for name, value := range e.bindings {
		out = append(out, Binding{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ValidName reports whether name is a non-empty sequence of ASCII letters.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if !((ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')) {
			return false
		}
	}
	return true
}
