// Package stdlib provides the named constants and unary functions the
// calculator grammar recognizes.
package stdlib

import (
	"sync"

	"github.com/lifers/kalkucilik/pkg/decimal"
)

// Fn represents a built-in unary function such as sqrt.
type Fn struct {
	Name    string
	Doc     string
	Execute func(x decimal.Decimal) (decimal.Decimal, error)
}

// Constant is a named value such as pi.
type Constant struct {
	Name  string
	Doc   string
	Value decimal.Decimal
}

// Registry holds registered constants and functions in registration order.
// The grammar tries names in that order, so a name registered earlier wins
// over a later one that shares its prefix.
type Registry struct {
	fns       map[string]*Fn
	fnOrder   []string
	consts    map[string]*Constant
	constList []string
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		fns:    make(map[string]*Fn),
		consts: make(map[string]*Constant),
	}
}

// Register adds a function to the registry. Registering an existing name
// replaces the function but keeps its original position.
func (r *Registry) Register(fn Fn) {
	if _, ok := r.fns[fn.Name]; !ok {
		r.fnOrder = append(r.fnOrder, fn.Name)
	}
	r.fns[fn.Name] = &fn
}

// RegisterConstant adds a constant to the registry.
func (r *Registry) RegisterConstant(c Constant) {
	if _, ok := r.consts[c.Name]; !ok {
		r.constList = append(r.constList, c.Name)
	}
	r.consts[c.Name] = &c
}

// Get retrieves a function by name.
func (r *Registry) Get(name string) *Fn {
	return r.fns[name]
}

// Constant retrieves a constant by name.
func (r *Registry) Constant(name string) *Constant {
	return r.consts[name]
}

// Functions returns the registered functions in registration order.
func (r *Registry) Functions() []*Fn {
	out := make([]*Fn, 0, len(r.fnOrder))
	for _, name := range r.fnOrder {
		out = append(out, r.fns[name])
	}
	return out
}

// Constants returns the registered constants in registration order.
func (r *Registry) Constants() []*Constant {
	out := make([]*Constant, 0, len(r.constList))
	for _, name := range r.constList {
		out = append(out, r.consts[name])
	}
	return out
}

// Keywords returns every reserved word: let, the constants and the functions.
// None of them can be read back as a variable when used on its own.
func (r *Registry) Keywords() []string {
	out := []string{"let"}
	out = append(out, r.constList...)
	return append(out, r.fnOrder...)
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the shared registry holding the standard constants and
// functions. It is built once and must not be modified.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = NewRegistry()
		RegisterDefaults(defaultReg)
	})
	return defaultReg
}

// RegisterDefaults adds the standard constants and functions.
func RegisterDefaults(r *Registry) {
	// Constants
	r.RegisterConstant(Constant{Name: "pi", Doc: "ratio of a circle's circumference to its diameter", Value: decimal.Pi})
	r.RegisterConstant(Constant{Name: "e", Doc: "base of the natural logarithm", Value: decimal.E})

	// Roots and logarithm
	r.Register(Fn{Name: "sqrt", Doc: "square root", Execute: mathSqrt})
	r.Register(Fn{Name: "cbrt", Doc: "cube root", Execute: mathCbrt})
	r.Register(Fn{Name: "ln", Doc: "natural logarithm", Execute: mathLn})

	// Trigonometry, radians
	r.Register(Fn{Name: "sin", Doc: "sine", Execute: mathSin})
	r.Register(Fn{Name: "cos", Doc: "cosine", Execute: mathCos})
	r.Register(Fn{Name: "tan", Doc: "tangent", Execute: mathTan})

	r.Register(Fn{Name: "abs", Doc: "absolute value", Execute: mathAbs})
}
