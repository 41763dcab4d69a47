// Package fixtures provides the kit's own amount type, StubAmount. It
// computes with float64 and is registered as a stub: it appears in
// accessor shape checks and as the foreign operand of interop checks,
// never in full precision checks.
package fixtures

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/roach88/moneytck/internal/refimpl/amountkit"
	"github.com/roach88/moneytck/internal/refimpl/numeric"
	"github.com/roach88/moneytck/pkg/monetary"
)

// AmountType is the name of the stub amount type.
const AmountType = "StubAmount"

const (
	precision = 15
	scale     = 2
)

type number float64

func (n number) Decimal() decimal.Decimal { return decimal.NewFromFloat(float64(n)) }

// StubBackend keeps values as float64. Results are rounded by the kit to
// two fraction digits, so binary float noise never shows.
type StubBackend struct{}

var _ amountkit.Backend = StubBackend{}

// NewKit returns the StubAmount kit resolving codes with currencies.
func NewKit(currencies monetary.CurrencyProvider) *amountkit.Kit {
	return amountkit.New(StubBackend{}, currencies)
}

func (StubBackend) Name() string { return AmountType }

func (StubBackend) NumberType() string { return "float64" }

func (StubBackend) DefaultContext() monetary.MonetaryContext {
	return monetary.MonetaryContext{AmountType: AmountType, Precision: precision, MaxScale: scale, RoundingMode: monetary.HalfEven}
}

func (b StubBackend) MaximalContext() monetary.MonetaryContext { return b.DefaultContext() }

var limit = decimal.RequireFromString("9999999999999.99")

func (StubBackend) MinNumber() monetary.NumberValue { return numeric.NewValue(limit.Neg(), "float64") }

func (StubBackend) MaxNumber() monetary.NumberValue { return numeric.NewValue(limit, "float64") }

func (StubBackend) New(d decimal.Decimal, _ monetary.CurrencyUnit, _ monetary.MonetaryContext) (amountkit.Number, error) {
	if d.Abs().GreaterThan(limit) {
		return nil, fmt.Errorf("%s is out of range: %w", d, monetary.ErrArithmetic)
	}
	f, _ := d.Float64()
	return number(f), nil
}

func (StubBackend) Add(x, y amountkit.Number) (amountkit.Number, error) {
	return amountkit.Exact{D: decimal.NewFromFloat(float64(x.(number) + y.(number)))}, nil
}

func (StubBackend) Sub(x, y amountkit.Number) (amountkit.Number, error) {
	return amountkit.Exact{D: decimal.NewFromFloat(float64(x.(number) - y.(number)))}, nil
}

func (StubBackend) Mul(x amountkit.Number, f decimal.Decimal) (amountkit.Number, error) {
	return amountkit.Exact{D: decimal.NewFromFloat(float64(x.(number)) * f.InexactFloat64())}, nil
}

func (StubBackend) Quo(x amountkit.Number, f decimal.Decimal, _ monetary.MonetaryContext) (amountkit.Number, error) {
	return amountkit.Exact{D: decimal.NewFromFloat(float64(x.(number)) / f.InexactFloat64())}, nil
}

func (StubBackend) QuoInt(x amountkit.Number, f decimal.Decimal) (amountkit.Number, error) {
	return amountkit.Exact{D: decimal.NewFromFloat(math.Trunc(float64(x.(number)) / f.InexactFloat64()))}, nil
}

func (StubBackend) Neg(x amountkit.Number) amountkit.Number { return -x.(number) }

func (StubBackend) Strip(x amountkit.Number) amountkit.Number { return x }
