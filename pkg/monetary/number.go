package monetary

import "math/big"

// NumberValue is the numeric part of an amount.
//
// Truncating accessors (IntValue, Int64Value, Float64Value) drop
// information silently. Exact accessors fail with ErrArithmetic whenever
// the conversion would lose a fraction or overflow.
type NumberValue interface {
	NumberType() string
	Precision() int
	Scale() int
	IntValue() int
	IntValueExact() (int, error)
	Int64Value() int64
	Int64ValueExact() (int64, error)
	Float64Value() float64
	Float64ValueExact() (float64, error)
	// AmountFractionNumerator and AmountFractionDenominator describe the
	// fraction part: 12.345 has numerator 345 and denominator 1000. When
	// Scale exceeds 18 the fraction is truncated to 18 digits; the exact
	// variants fail with ErrArithmetic instead.
	AmountFractionNumerator() int64
	AmountFractionDenominator() int64
	AmountFractionNumeratorExact() (int64, error)
	AmountFractionDenominatorExact() (int64, error)
	// Rat returns the exact value.
	Rat() *big.Rat
	// String returns the plain decimal representation.
	String() string
}
