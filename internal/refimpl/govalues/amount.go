package govalues

import (
	"fmt"

	gd "github.com/govalues/decimal"
	"github.com/govalues/money"
	"github.com/shopspring/decimal"

	"github.com/roach88/moneytck/internal/refimpl/amountkit"
	"github.com/roach88/moneytck/internal/refimpl/numeric"
	"github.com/roach88/moneytck/pkg/monetary"
)

// AmountType is the name of the amount type.
const AmountType = "GovaluesAmount"

// precision leaves room for two currency fraction digits within
// gd.MaxPrec.
const precision = gd.MaxPrec - 2

// number is a money.Amount together with its shopspring rendition.
type number struct {
	a money.Amount
	d decimal.Decimal
}

func (n number) Decimal() decimal.Decimal { return n.d }

func wrap(a money.Amount) (number, error) {
	d, err := decimal.NewFromString(a.Decimal().String())
	if err != nil {
		return number{}, fmt.Errorf("convert %v: %w", a, monetary.ErrArithmetic)
	}
	return number{a: a, d: d}, nil
}

func toGD(d decimal.Decimal) (gd.Decimal, bool) {
	v, err := gd.Parse(d.String())
	return v, err == nil
}

// Backend performs arithmetic with money.Amount. Results are limited to
// gd.MaxPrec digits and never drop below the currency scale.
type Backend struct{}

var _ amountkit.Backend = Backend{}

// NewKit returns the GovaluesAmount kit resolving codes with currencies.
func NewKit(currencies monetary.CurrencyProvider) *amountkit.Kit {
	return amountkit.New(Backend{}, currencies)
}

func (Backend) Name() string { return AmountType }

func (Backend) NumberType() string { return "govalues.Decimal" }

func (Backend) DefaultContext() monetary.MonetaryContext {
	return monetary.MonetaryContext{AmountType: AmountType, Precision: precision, MaxScale: precision, RoundingMode: monetary.HalfEven}
}

func (b Backend) MaximalContext() monetary.MonetaryContext { return b.DefaultContext() }

func (Backend) MinNumber() monetary.NumberValue {
	return numeric.NewValue(decimal.RequireFromString("-99999999999999999"), "govalues.Decimal")
}

func (Backend) MaxNumber() monetary.NumberValue {
	return numeric.NewValue(decimal.RequireFromString("99999999999999999"), "govalues.Decimal")
}

func (Backend) New(d decimal.Decimal, cur monetary.CurrencyUnit, _ monetary.MonetaryContext) (amountkit.Number, error) {
	c, err := Lookup(cur)
	if err != nil {
		return nil, err
	}
	v, ok := toGD(d)
	if !ok {
		return nil, fmt.Errorf("%s exceeds %d digits: %w", d, gd.MaxPrec, monetary.ErrArithmetic)
	}
	a, err := money.NewAmountFromDecimal(c, v)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, monetary.ErrArithmetic)
	}
	return wrap(a)
}

func (Backend) Add(x, y amountkit.Number) (amountkit.Number, error) {
	a, err := x.(number).a.Add(y.(number).a)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, monetary.ErrArithmetic)
	}
	return wrap(a)
}

func (Backend) Sub(x, y amountkit.Number) (amountkit.Number, error) {
	a, err := x.(number).a.Sub(y.(number).a)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, monetary.ErrArithmetic)
	}
	return wrap(a)
}

// Mul falls back to an exact product when f has more digits than a
// gd.Decimal holds.
func (Backend) Mul(x amountkit.Number, f decimal.Decimal) (amountkit.Number, error) {
	e, ok := toGD(f)
	if !ok {
		return amountkit.Exact{D: x.Decimal().Mul(f)}, nil
	}
	a, err := x.(number).a.Mul(e)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, monetary.ErrArithmetic)
	}
	return wrap(a)
}

func (Backend) Quo(x amountkit.Number, f decimal.Decimal, ctx monetary.MonetaryContext) (amountkit.Number, error) {
	e, ok := toGD(f)
	if !ok {
		return amountkit.Exact{D: x.Decimal().DivRound(f, int32(ctx.MaxScale)+1)}, nil
	}
	a, err := x.(number).a.Quo(e)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, monetary.ErrArithmetic)
	}
	return wrap(a)
}

func (Backend) QuoInt(x amountkit.Number, f decimal.Decimal) (amountkit.Number, error) {
	e, ok := toGD(f)
	if !ok {
		return amountkit.Exact{D: x.Decimal().Div(f).Truncate(0)}, nil
	}
	q, _, err := x.(number).a.QuoRem(e)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, monetary.ErrArithmetic)
	}
	n, err := wrap(q)
	if err != nil {
		return nil, err
	}
	// QuoRem truncates to the currency scale only.
	return amountkit.Exact{D: n.d.Truncate(0)}, nil
}

func (Backend) Neg(x amountkit.Number) amountkit.Number {
	n, _ := wrap(x.(number).a.Neg())
	return n
}

func (Backend) Strip(x amountkit.Number) amountkit.Number {
	n, _ := wrap(x.(number).a.TrimToCurr())
	return n
}
