// Package decimal implements the calculator's number type: an immutable,
// signed base-10 value carrying 100 significant digits.
package decimal

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// Precision is the number of significant digits every result is rounded to.
const Precision = 100

// Rendering switches to scientific notation outside this adjusted-exponent range.
const (
	minPlainExponent = -20
	maxPlainExponent = Precision
)

// Errors returned by Decimal operations. They are wrapped with context, so
// callers should classify them with errors.Is.
var (
	ErrMalformedLiteral = errors.New("malformed literal")
	ErrDivisionByZero   = errors.New("division by zero")
	ErrDomain           = errors.New("domain error")
)

var ctx = &apd.Context{
	Precision:   Precision,
	MaxExponent: apd.MaxExponent,
	MinExponent: apd.MinExponent,
	Traps:       apd.DefaultTraps,
	Rounding:    apd.RoundHalfEven,
}

var zero = apd.New(0, 0)

// Decimal is an immutable decimal number. The zero value is 0.
// Every operation allocates a fresh result; the receiver is never modified.
type Decimal struct {
	v *apd.Decimal
}

func (d Decimal) dec() *apd.Decimal {
	if d.v == nil {
		return zero
	}
	return d.v
}

// Parse converts a literal of the form [+-]digits[.digits][(e|E)[+-]digits]
// into a Decimal rounded to Precision digits.
func Parse(s string) (Decimal, error) {
	if !wellFormed(s) {
		return Decimal{}, fmt.Errorf("%w: %q", ErrMalformedLiteral, s)
	}
	v, _, err := ctx.SetString(new(apd.Decimal), s)
	if err != nil {
		return Decimal{}, fmt.Errorf("%w: %q: %v", ErrMalformedLiteral, s, err)
	}
	return Decimal{v: v}, nil
}

// MustParse is like Parse but panics on malformed input.
// It is intended for package-level constants.
func MustParse(s string) Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromInt64 returns the Decimal for n.
func FromInt64(n int64) Decimal {
	return Decimal{v: apd.New(n, 0)}
}

func wellFormed(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	n := digits(s, i)
	if n == 0 {
		return false
	}
	i += n
	if i < len(s) && s[i] == '.' {
		n = digits(s, i+1)
		if n == 0 {
			return false
		}
		i += 1 + n
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		n = digits(s, i)
		if n == 0 {
			return false
		}
		i += n
	}
	return i == len(s)
}

func digits(s string, from int) int {
	n := 0
	for from+n < len(s) && s[from+n] >= '0' && s[from+n] <= '9' {
		n++
	}
	return n
}

// result classifies the outcome of an apd operation.
func result(op string, d *apd.Decimal, cond apd.Condition, err error) (Decimal, error) {
	if cond.DivisionByZero() {
		return Decimal{}, fmt.Errorf("%w in %s", ErrDivisionByZero, op)
	}
	if err != nil {
		return Decimal{}, fmt.Errorf("%w in %s: %v", ErrDomain, op, err)
	}
	if d.Form != apd.Finite {
		return Decimal{}, fmt.Errorf("%w in %s: result is not finite", ErrDomain, op)
	}
	return Decimal{v: d}, nil
}

// Add returns d + y.
func (d Decimal) Add(y Decimal) (Decimal, error) {
	z := new(apd.Decimal)
	cond, err := ctx.Add(z, d.dec(), y.dec())
	return result("add", z, cond, err)
}

// Sub returns d - y.
func (d Decimal) Sub(y Decimal) (Decimal, error) {
	z := new(apd.Decimal)
	cond, err := ctx.Sub(z, d.dec(), y.dec())
	return result("subtract", z, cond, err)
}

// Mul returns d * y.
func (d Decimal) Mul(y Decimal) (Decimal, error) {
	z := new(apd.Decimal)
	cond, err := ctx.Mul(z, d.dec(), y.dec())
	return result("multiply", z, cond, err)
}

// Div returns d / y. Dividing by zero fails with ErrDivisionByZero.
func (d Decimal) Div(y Decimal) (Decimal, error) {
	if y.IsZero() {
		return Decimal{}, fmt.Errorf("%w in divide", ErrDivisionByZero)
	}
	z := new(apd.Decimal)
	cond, err := ctx.Quo(z, d.dec(), y.dec())
	return result("divide", z, cond, err)
}

// Pow returns d raised to y. The exponent may be fractional, in which case
// the base must not be negative. Any value raised to zero is 1, including 0.
func (d Decimal) Pow(y Decimal) (Decimal, error) {
	if y.IsZero() {
		return FromInt64(1), nil
	}
	if d.IsZero() && y.Sign() < 0 {
		return Decimal{}, fmt.Errorf("%w in power: zero to a negative exponent", ErrDivisionByZero)
	}
	if d.Sign() < 0 && !y.IsInteger() {
		return Decimal{}, fmt.Errorf("%w in power: negative base with fractional exponent", ErrDomain)
	}
	z := new(apd.Decimal)
	cond, err := ctx.Pow(z, d.dec(), y.dec())
	return result("power", z, cond, err)
}

// Sqrt returns the square root of d. Negative values fail with ErrDomain.
func (d Decimal) Sqrt() (Decimal, error) {
	if d.Sign() < 0 {
		return Decimal{}, fmt.Errorf("%w in sqrt: negative argument", ErrDomain)
	}
	z := new(apd.Decimal)
	cond, err := ctx.Sqrt(z, d.dec())
	return result("sqrt", z, cond, err)
}

// Cbrt returns the cube root of d.
func (d Decimal) Cbrt() (Decimal, error) {
	z := new(apd.Decimal)
	cond, err := ctx.Cbrt(z, d.dec())
	return result("cbrt", z, cond, err)
}

// Ln returns the natural logarithm of d. Non-positive values fail with ErrDomain.
func (d Decimal) Ln() (Decimal, error) {
	if d.Sign() <= 0 {
		return Decimal{}, fmt.Errorf("%w in ln: non-positive argument", ErrDomain)
	}
	z := new(apd.Decimal)
	cond, err := ctx.Ln(z, d.dec())
	return result("ln", z, cond, err)
}

// Abs returns |d|.
func (d Decimal) Abs() Decimal {
	return Decimal{v: new(apd.Decimal).Abs(d.dec())}
}

// Neg returns -d.
func (d Decimal) Neg() Decimal {
	return Decimal{v: new(apd.Decimal).Neg(d.dec())}
}

// IsZero reports whether d is zero (of either sign).
func (d Decimal) IsZero() bool {
	return d.dec().IsZero()
}

// Sign returns -1, 0 or +1.
func (d Decimal) Sign() int {
	return d.dec().Sign()
}

// IsInteger reports whether d has no fractional part.
func (d Decimal) IsInteger() bool {
	v := d.dec()
	if v.Exponent >= 0 || v.IsZero() {
		return true
	}
	r := new(apd.Decimal)
	r.Reduce(v)
	return r.Exponent >= 0
}

// Cmp compares d and y and returns -1, 0 or +1.
func (d Decimal) Cmp(y Decimal) int {
	return d.dec().Cmp(y.dec())
}

// Equal reports whether d and y denote the same number.
func (d Decimal) Equal(y Decimal) bool {
	return d.Cmp(y) == 0
}

// String renders d canonically: trailing zeros dropped, positional notation
// for moderate magnitudes and scientific notation otherwise. The result is
// always accepted by Parse and yields an equal value.
func (d Decimal) String() string {
	v := d.dec()
	if v.IsZero() {
		return "0"
	}
	r := new(apd.Decimal)
	r.Reduce(v)
	adj := adjusted(r)
	if adj >= minPlainExponent && adj < maxPlainExponent {
		return r.Text('f')
	}
	return r.Text('e')
}

// adjusted returns the exponent of the most significant digit.
func adjusted(d *apd.Decimal) int64 {
	return int64(d.Exponent) + d.NumDigits() - 1
}
