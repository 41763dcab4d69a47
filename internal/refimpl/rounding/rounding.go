// Package rounding implements the reference rounding providers.
//
// The "default" provider rounds to a currency's fraction digits, to an
// explicit scale and mode, and by the names NOSCALE and ZERO. The "cash"
// provider applies the CLDR cash increments of golang.org/x/text/currency,
// e.g. 0.05 for CHF.
package rounding

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/roach88/moneytck/internal/refimpl/numeric"
	"github.com/roach88/moneytck/pkg/monetary"
)

// Provider and rounding names.
const (
	DefaultProvider = "default"
	CashProvider    = "cash"

	NoScale = "NOSCALE"
	Zero    = "ZERO"
	Cash    = "CASH"
)

// Rounding is a monetary.MonetaryRounding computed with numeric.Round.
// The increment, when positive, rounds to multiples of increment units at
// the given scale.
type Rounding struct {
	rc        monetary.RoundingContext
	increment int64
}

var _ monetary.MonetaryRounding = (*Rounding)(nil)

func (r *Rounding) RoundingContext() monetary.RoundingContext { return r.rc }

// Apply rounds a and rebuilds the result through a's own factory, so the
// currency and the amount type are kept.
func (r *Rounding) Apply(a monetary.MonetaryAmount) (monetary.MonetaryAmount, error) {
	if a == nil {
		return nil, fmt.Errorf("rounding %s: %w", r.rc.Name, monetary.ErrNullArgument)
	}
	d, err := decimal.NewFromString(a.Number().String())
	if err != nil {
		return nil, fmt.Errorf("rounding %s: %v: %w", r.rc.Name, err, monetary.ErrArithmetic)
	}
	var out decimal.Decimal
	if r.increment > 1 {
		step := decimal.New(r.increment, -int32(r.rc.Scale))
		q, err := numeric.Round(d.Div(step), 0, r.rc.Mode)
		if err != nil {
			return nil, err
		}
		out = q.Mul(step)
	} else {
		out, err = numeric.Round(d, r.rc.Scale, r.rc.Mode)
		if err != nil {
			return nil, err
		}
	}
	return a.Factory().WithNumber(out).Create()
}

func (r *Rounding) String() string {
	return fmt.Sprintf("%s[%s, scale=%d, %s]", r.rc.Name, r.rc.Provider, r.rc.Scale, r.rc.Mode)
}

// Default is the default rounding provider.
type Default struct{}

var _ monetary.RoundingProvider = Default{}

func (Default) Name() string { return DefaultProvider }

func (Default) RoundingNames() []string { return []string{NoScale, Zero} }

// Rounding resolves q. A currency rounding uses HalfEven unless q carries
// a mode together with the currency.
func (Default) Rounding(q monetary.RoundingQuery) monetary.MonetaryRounding {
	if len(q.Providers) > 0 && !slices.Contains(q.Providers, DefaultProvider) {
		return nil
	}
	switch {
	case q.Name != "":
		if q.Name != NoScale && q.Name != Zero {
			return nil
		}
		return &Rounding{rc: monetary.RoundingContext{Provider: DefaultProvider, Name: q.Name, Mode: monetary.HalfEven}}
	case q.Currency != nil:
		digits := q.Currency.DefaultFractionDigits()
		if digits < 0 {
			digits = 0
		}
		return &Rounding{rc: monetary.RoundingContext{
			Provider: DefaultProvider,
			Name:     q.Currency.CurrencyCode(),
			Currency: q.Currency.CurrencyCode(),
			Scale:    digits,
			Mode:     q.Mode,
		}}
	case q.ScaleSet:
		return &Rounding{rc: monetary.RoundingContext{
			Provider: DefaultProvider,
			Name:     fmt.Sprintf("SCALE-%d", q.Scale),
			Scale:    q.Scale,
			Mode:     q.Mode,
		}}
	}
	return nil
}

// CashRounding is the provider of CLDR cash roundings.
type CashRounding struct{}

var _ monetary.RoundingProvider = CashRounding{}

func (CashRounding) Name() string { return CashProvider }

func (CashRounding) RoundingNames() []string { return []string{Cash} }

// Rounding serves queries named CASH that carry a currency.
func (CashRounding) Rounding(q monetary.RoundingQuery) monetary.MonetaryRounding {
	if len(q.Providers) > 0 && !slices.Contains(q.Providers, CashProvider) {
		return nil
	}
	if q.Name != Cash || q.Currency == nil {
		return nil
	}
	u, err := currency.ParseISO(q.Currency.CurrencyCode())
	if err != nil {
		return nil
	}
	scale, increment := currency.Cash.Rounding(u)
	return &Rounding{
		rc: monetary.RoundingContext{
			Provider: CashProvider,
			Name:     Cash,
			Currency: q.Currency.CurrencyCode(),
			Scale:    scale,
			Mode:     monetary.HalfUp,
		},
		increment: int64(increment),
	}
}
