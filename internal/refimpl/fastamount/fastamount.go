// Package fastamount implements FastAmount, a fixed scale amount type
// that stores its value as int64 units of 10^-5.
package fastamount

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/roach88/moneytck/internal/refimpl/amountkit"
	"github.com/roach88/moneytck/internal/refimpl/numeric"
	"github.com/roach88/moneytck/pkg/monetary"
)

// AmountType is the name of the amount type.
const AmountType = "FastAmount"

const (
	scale     = 5
	precision = 19
)

type number int64

func (n number) Decimal() decimal.Decimal { return decimal.New(int64(n), -scale) }

// Backend computes on int64 units and reports overflow as
// monetary.ErrArithmetic.
type Backend struct{}

var _ amountkit.Backend = Backend{}

// NewKit returns the FastAmount kit resolving codes with currencies.
func NewKit(currencies monetary.CurrencyProvider) *amountkit.Kit {
	return amountkit.New(Backend{}, currencies)
}

func (Backend) Name() string { return AmountType }

func (Backend) NumberType() string { return "int64" }

func (Backend) DefaultContext() monetary.MonetaryContext {
	return monetary.MonetaryContext{AmountType: AmountType, Precision: precision, MaxScale: scale, FixedScale: true, RoundingMode: monetary.HalfEven}
}

func (b Backend) MaximalContext() monetary.MonetaryContext { return b.DefaultContext() }

func (Backend) MinNumber() monetary.NumberValue {
	return numeric.NewValue(number(-math.MaxInt64).Decimal(), "int64")
}

func (Backend) MaxNumber() monetary.NumberValue {
	return numeric.NewValue(number(math.MaxInt64).Decimal(), "int64")
}

// units converts d to units when it fits without rounding. The range is
// symmetric so that negation never overflows.
func units(d decimal.Decimal) (number, error) {
	u := d.Shift(scale)
	if !u.IsInteger() {
		return 0, fmt.Errorf("%s has more than %d fraction digits: %w", d, scale, monetary.ErrArithmetic)
	}
	bi := u.BigInt()
	if !bi.IsInt64() || bi.Int64() == math.MinInt64 {
		return 0, fmt.Errorf("%s overflows %s: %w", d, AmountType, monetary.ErrArithmetic)
	}
	return number(bi.Int64()), nil
}

func (Backend) New(d decimal.Decimal, _ monetary.CurrencyUnit, _ monetary.MonetaryContext) (amountkit.Number, error) {
	return units(d)
}

func (Backend) Add(x, y amountkit.Number) (amountkit.Number, error) {
	a, b := x.(number), y.(number)
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) || s == math.MinInt64 {
		return nil, fmt.Errorf("%s + %s overflows: %w", a.Decimal(), b.Decimal(), monetary.ErrArithmetic)
	}
	return s, nil
}

func (Backend) Sub(x, y amountkit.Number) (amountkit.Number, error) {
	a, b := x.(number), y.(number)
	s := a - b
	if (b < 0 && s < a) || (b > 0 && s > a) || s == math.MinInt64 {
		return nil, fmt.Errorf("%s - %s overflows: %w", a.Decimal(), b.Decimal(), monetary.ErrArithmetic)
	}
	return s, nil
}

// Mul returns the exact product; the kit rounds it to scale and rejects
// it when it overflows.
func (Backend) Mul(x amountkit.Number, f decimal.Decimal) (amountkit.Number, error) {
	return amountkit.Exact{D: x.Decimal().Mul(f)}, nil
}

func (Backend) Quo(x amountkit.Number, f decimal.Decimal, _ monetary.MonetaryContext) (amountkit.Number, error) {
	return amountkit.Exact{D: x.Decimal().DivRound(f, scale+1)}, nil
}

func (Backend) QuoInt(x amountkit.Number, f decimal.Decimal) (amountkit.Number, error) {
	q, _ := x.Decimal().QuoRem(f, 0)
	return amountkit.Exact{D: q}, nil
}

func (Backend) Neg(x amountkit.Number) amountkit.Number {
	return -x.(number)
}

func (Backend) Strip(x amountkit.Number) amountkit.Number { return x }
