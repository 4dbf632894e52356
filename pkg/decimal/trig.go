package decimal

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// Wide literals; guard digits for argument reduction.
const (
	piDigits = "3.14159265358979323846264338327950288419716939937510582097494459230781640628620899862803482534211706798214808651328230664709384460955058223172535940812848111745028410270193852110555964462294895493038196"
	eDigits  = "2.71828182845904523536028747135266249775724709369995957496696762772407663035354759457138217852516642742746639193200305992181741359662904357290033429526059563073813232862794349076323382988075319525101901"
)

// guardDigits is the extra working precision used inside the series.
const guardDigits = 20

// maxTrigExponent bounds the adjusted exponent of a trig argument; beyond it
// the wide π no longer has enough digits to reduce the argument.
const maxTrigExponent = 75

var (
	piWide = mustWide(piDigits)

	// Pi is π rounded to Precision digits.
	Pi = MustParse(piDigits)
	// E is Euler's number rounded to Precision digits.
	E = MustParse(eDigits)
)

func mustWide(s string) *apd.Decimal {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Sin returns the sine of d, in radians.
func (d Decimal) Sin() (Decimal, error) {
	s, _, err := sinCos("sin", d.dec(), true, false)
	if err != nil {
		return Decimal{}, err
	}
	return round("sin", s)
}

// Cos returns the cosine of d, in radians.
func (d Decimal) Cos() (Decimal, error) {
	_, c, err := sinCos("cos", d.dec(), false, true)
	if err != nil {
		return Decimal{}, err
	}
	return round("cos", c)
}

// Tan returns the tangent of d, in radians.
func (d Decimal) Tan() (Decimal, error) {
	s, c, err := sinCos("tan", d.dec(), true, true)
	if err != nil {
		return Decimal{}, err
	}
	if c.IsZero() {
		return Decimal{}, fmt.Errorf("%w in tan", ErrDivisionByZero)
	}
	z := new(apd.Decimal)
	cond, err := ctx.Quo(z, s, c)
	return result("tan", z, cond, err)
}

func round(op string, x *apd.Decimal) (Decimal, error) {
	z := new(apd.Decimal)
	cond, err := ctx.Round(z, x)
	return result(op, z, cond, err)
}

// sinCos evaluates the requested Taylor series after reducing x into [-π, π].
func sinCos(op string, x *apd.Decimal, wantSin, wantCos bool) (*apd.Decimal, *apd.Decimal, error) {
	adj := adjusted(x)
	if !x.IsZero() && adj > maxTrigExponent {
		return nil, nil, fmt.Errorf("%w in %s: argument too large", ErrDomain, op)
	}
	prec := int64(Precision + guardDigits)
	if adj > 0 {
		prec += adj
	}
	w := apd.BaseContext.WithPrecision(uint32(prec))
	w.Rounding = apd.RoundHalfEven

	var ed apd.ErrDecimal
	ed.Ctx = w

	r := new(apd.Decimal).Set(x)
	if !x.IsZero() {
		twoPi := ed.Mul(new(apd.Decimal), piWide, apd.New(2, 0))
		k := ed.Quo(new(apd.Decimal), x, twoPi)
		ed.RoundToIntegralValue(k, k)
		ed.Sub(r, x, ed.Mul(new(apd.Decimal), k, twoPi))
	}
	r2 := ed.Mul(new(apd.Decimal), r, r)

	var sin, cos *apd.Decimal
	if wantSin {
		sin = series(&ed, new(apd.Decimal).Set(r), r2, prec, 2)
	}
	if wantCos {
		cos = series(&ed, apd.New(1, 0), r2, prec, 1)
	}
	if err := ed.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w in %s: %v", ErrDomain, op, err)
	}
	return sin, cos, nil
}

// series sums term_0 = first, term_n = -term_{n-1} * r2 / ((k)(k+1)) where
// k starts at start and advances by two. start = 2 gives sine, 1 gives cosine.
func series(ed *apd.ErrDecimal, first, r2 *apd.Decimal, prec int64, start int64) *apd.Decimal {
	sum := new(apd.Decimal).Set(first)
	term := new(apd.Decimal).Set(first)
	den := new(apd.Decimal)
	for k := start; ed.Err() == nil; k += 2 {
		ed.Mul(term, term, r2)
		ed.Quo(term, term, den.SetInt64(k*(k+1)))
		term.Negative = !term.Negative
		if term.IsZero() {
			break
		}
		ed.Add(sum, sum, term)
		if !sum.IsZero() && adjusted(term) < adjusted(sum)-prec-1 {
			break
		}
		if adjusted(term) < -2*prec {
			break
		}
	}
	return sum
}
