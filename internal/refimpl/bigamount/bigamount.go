// Package bigamount implements BigAmount, an arbitrary precision amount
// type on top of github.com/shopspring/decimal.
package bigamount

import (
	"github.com/shopspring/decimal"

	"github.com/roach88/moneytck/internal/refimpl/amountkit"
	"github.com/roach88/moneytck/internal/refimpl/numeric"
	"github.com/roach88/moneytck/pkg/monetary"
)

// AmountType is the name of the amount type.
const AmountType = "BigAmount"

const (
	defaultScale = 32
	maximalScale = 63
)

type number struct{ d decimal.Decimal }

func (n number) Decimal() decimal.Decimal { return n.d }

// Backend keeps exact decimals. Only division is limited, to the
// context's maximal scale plus one guard digit.
type Backend struct{}

var _ amountkit.Backend = Backend{}

// NewKit returns the BigAmount kit resolving codes with currencies.
func NewKit(currencies monetary.CurrencyProvider) *amountkit.Kit {
	return amountkit.New(Backend{}, currencies)
}

func (Backend) Name() string { return AmountType }

func (Backend) NumberType() string { return "decimal.Decimal" }

func (Backend) DefaultContext() monetary.MonetaryContext {
	return monetary.MonetaryContext{AmountType: AmountType, MaxScale: defaultScale, RoundingMode: monetary.HalfEven}
}

func (Backend) MaximalContext() monetary.MonetaryContext {
	return monetary.MonetaryContext{AmountType: AmountType, MaxScale: maximalScale, RoundingMode: monetary.HalfEven}
}

func (Backend) MinNumber() monetary.NumberValue { return nil }

func (Backend) MaxNumber() monetary.NumberValue { return nil }

func (Backend) New(d decimal.Decimal, _ monetary.CurrencyUnit, _ monetary.MonetaryContext) (amountkit.Number, error) {
	return number{d: d}, nil
}

func (Backend) Add(x, y amountkit.Number) (amountkit.Number, error) {
	return number{d: x.Decimal().Add(y.Decimal())}, nil
}

func (Backend) Sub(x, y amountkit.Number) (amountkit.Number, error) {
	return number{d: x.Decimal().Sub(y.Decimal())}, nil
}

func (Backend) Mul(x amountkit.Number, f decimal.Decimal) (amountkit.Number, error) {
	return number{d: x.Decimal().Mul(f)}, nil
}

func (Backend) Quo(x amountkit.Number, f decimal.Decimal, ctx monetary.MonetaryContext) (amountkit.Number, error) {
	scale := ctx.MaxScale
	if scale < 0 {
		scale = maximalScale
	}
	q := x.Decimal().DivRound(f, int32(scale)+1)
	return number{d: numeric.Strip(q)}, nil
}

func (Backend) QuoInt(x amountkit.Number, f decimal.Decimal) (amountkit.Number, error) {
	q, _ := x.Decimal().QuoRem(f, 0)
	return number{d: q}, nil
}

func (Backend) Neg(x amountkit.Number) amountkit.Number { return number{d: x.Decimal().Neg()} }

func (Backend) Strip(x amountkit.Number) amountkit.Number { return number{d: numeric.Strip(x.Decimal())} }
