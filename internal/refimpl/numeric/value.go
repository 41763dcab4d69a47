package numeric

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/roach88/moneytck/pkg/monetary"
)

// Value is an exact monetary.NumberValue backed by a decimal.
type Value struct {
	d        decimal.Decimal
	typeName string
}

// NewValue wraps d; typeName is reported by NumberType.
func NewValue(d decimal.Decimal, typeName string) Value {
	return Value{d: d, typeName: typeName}
}

// Decimal returns the wrapped decimal.
func (v Value) Decimal() decimal.Decimal { return v.d }

func (v Value) NumberType() string { return v.typeName }

func (v Value) Precision() int {
	coef := v.d.Coefficient()
	if coef.Sign() == 0 {
		return 1
	}
	return len(coef.Abs(coef).String())
}

func (v Value) Scale() int { return -int(v.d.Exponent()) }

func (v Value) IntValue() int { return int(v.d.IntPart()) }

func (v Value) IntValueExact() (int, error) {
	i, err := v.Int64ValueExact()
	if err != nil {
		return 0, err
	}
	if i < math.MinInt || i > math.MaxInt {
		return 0, fmt.Errorf("%s overflows int: %w", v, monetary.ErrArithmetic)
	}
	return int(i), nil
}

func (v Value) Int64Value() int64 { return v.d.IntPart() }

func (v Value) Int64ValueExact() (int64, error) {
	if !v.d.IsInteger() {
		return 0, fmt.Errorf("%s has a fraction: %w", v, monetary.ErrArithmetic)
	}
	bi := v.d.BigInt()
	if !bi.IsInt64() {
		return 0, fmt.Errorf("%s overflows int64: %w", v, monetary.ErrArithmetic)
	}
	return bi.Int64(), nil
}

func (v Value) Float64Value() float64 { return v.d.InexactFloat64() }

func (v Value) Float64ValueExact() (float64, error) {
	f, exact := v.d.Rat().Float64()
	if !exact || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s is not exact as float64: %w", v, monetary.ErrArithmetic)
	}
	return f, nil
}

// maxFractionScale is the largest scale whose denominator fits int64.
const maxFractionScale = 18

// fraction returns the fraction part and its scale, truncated to
// maxFractionScale digits.
func (v Value) fraction() (decimal.Decimal, int) {
	scale := v.Scale()
	if scale <= 0 {
		return decimal.Zero, 0
	}
	frac := v.d.Sub(v.d.Truncate(0))
	if scale > maxFractionScale {
		frac, scale = frac.Truncate(maxFractionScale), maxFractionScale
	}
	return frac, scale
}

func (v Value) AmountFractionNumerator() int64 {
	frac, scale := v.fraction()
	return frac.Shift(int32(scale)).IntPart()
}

func (v Value) AmountFractionDenominator() int64 {
	_, scale := v.fraction()
	den := int64(1)
	for range scale {
		den *= 10
	}
	return den
}

func (v Value) AmountFractionNumeratorExact() (int64, error) {
	if err := v.fractionFits(); err != nil {
		return 0, err
	}
	return v.AmountFractionNumerator(), nil
}

func (v Value) AmountFractionDenominatorExact() (int64, error) {
	if err := v.fractionFits(); err != nil {
		return 0, err
	}
	return v.AmountFractionDenominator(), nil
}

func (v Value) fractionFits() error {
	if v.Scale() > maxFractionScale {
		return fmt.Errorf("fraction of %s needs a denominator of 10^%d: %w", v, v.Scale(), monetary.ErrArithmetic)
	}
	return nil
}

func (v Value) Rat() *big.Rat { return v.d.Rat() }

func (v Value) String() string {
	if scale := v.Scale(); scale > 0 {
		return v.d.StringFixed(int32(scale))
	}
	return v.d.String()
}
