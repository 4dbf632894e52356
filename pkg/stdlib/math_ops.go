package stdlib

import (
	"github.com/lifers/kalkucilik/pkg/decimal"
)

// sqrt(x); x must not be negative
func mathSqrt(x decimal.Decimal) (decimal.Decimal, error) {
	return x.Sqrt()
}

// cbrt(x)
func mathCbrt(x decimal.Decimal) (decimal.Decimal, error) {
	return x.Cbrt()
}

// ln(x); x must be positive
func mathLn(x decimal.Decimal) (decimal.Decimal, error) {
	return x.Ln()
}

// sin(x), radians
func mathSin(x decimal.Decimal) (decimal.Decimal, error) {
	return x.Sin()
}

// cos(x), radians
func mathCos(x decimal.Decimal) (decimal.Decimal, error) {
	return x.Cos()
}

// tan(x), radians; undefined where cos(x) is zero
func mathTan(x decimal.Decimal) (decimal.Decimal, error) {
	return x.Tan()
}

// abs(x)
func mathAbs(x decimal.Decimal) (decimal.Decimal, error) {
	return x.Abs(), nil
}
