// Package rates implements in-memory exchange rate providers: IDENT,
// which only converts a currency into itself, and ECB-FIXED, a fixed
// table of euro reference rates validated with github.com/govalues/money.
package rates

import (
	"fmt"

	"github.com/govalues/money"
	"github.com/shopspring/decimal"

	"github.com/roach88/moneytck/internal/refimpl/numeric"
	"github.com/roach88/moneytck/pkg/monetary"
)

// Provider names.
const (
	Ident    = "IDENT"
	ECBFixed = "ECB-FIXED"
)

// Rate is an immutable exchange rate.
type Rate struct {
	base, term monetary.CurrencyUnit
	factor     decimal.Decimal
	provider   string
}

var _ monetary.ExchangeRate = Rate{}

func (r Rate) Base() monetary.CurrencyUnit { return r.base }

func (r Rate) Term() monetary.CurrencyUnit { return r.term }

func (r Rate) Factor() monetary.NumberValue { return numeric.NewValue(r.factor, "decimal.Decimal") }

func (r Rate) Provider() string { return r.provider }

func (r Rate) String() string {
	return fmt.Sprintf("%s/%s %s (%s)", r.base.CurrencyCode(), r.term.CurrencyCode(), r.factor, r.provider)
}

// lookup resolves the factor for a pair of codes.
type lookup func(base, term string) (decimal.Decimal, bool)

// Provider is a monetary.ExchangeRateProvider over a lookup function.
type Provider struct {
	name   string
	lookup lookup
}

var _ monetary.ExchangeRateProvider = (*Provider)(nil)

// NewIdent returns the IDENT provider.
func NewIdent() *Provider {
	return &Provider{name: Ident, lookup: func(base, term string) (decimal.Decimal, bool) {
		return decimal.NewFromInt(1), base == term
	}}
}

// NewECBFixed returns the ECB-FIXED provider for the given euro rates,
// keyed by term currency code. Inverse and cross rates are derived
// through EUR.
func NewECBFixed(euroRates map[string]string) (*Provider, error) {
	table := make(map[string]decimal.Decimal, len(euroRates)+1)
	table["EUR"] = decimal.NewFromInt(1)
	for code, rate := range euroRates {
		r, err := money.ParseExchRate("EUR", code, rate)
		if err != nil {
			return nil, fmt.Errorf("rate EUR/%s: %w", code, err)
		}
		d, err := decimal.NewFromString(r.Decimal().String())
		if err != nil {
			return nil, fmt.Errorf("rate EUR/%s: %w", code, err)
		}
		table[r.Quote().Code()] = d
	}
	return &Provider{name: ECBFixed, lookup: func(base, term string) (decimal.Decimal, bool) {
		b, okb := table[base]
		t, okt := table[term]
		if !okb || !okt {
			return decimal.Zero, false
		}
		if base == term {
			return decimal.NewFromInt(1), true
		}
		return numeric.Strip(t.DivRound(b, 16)), true
	}}, nil
}

// DefaultEuroRates is a fixed snapshot used by the reference configuration.
var DefaultEuroRates = map[string]string{
	"CHF": "0.9412",
	"GBP": "0.8567",
	"JPY": "161.2300",
	"USD": "1.0823",
}

func (p *Provider) Name() string { return p.name }

func (p *Provider) IsAvailable(base, term monetary.CurrencyUnit) bool {
	if base == nil || term == nil {
		return false
	}
	_, ok := p.lookup(base.CurrencyCode(), term.CurrencyCode())
	return ok
}

func (p *Provider) ExchangeRate(base, term monetary.CurrencyUnit) (monetary.ExchangeRate, error) {
	if base == nil || term == nil {
		return nil, fmt.Errorf("%s: exchange rate: %w", p.name, monetary.ErrNullArgument)
	}
	f, ok := p.lookup(base.CurrencyCode(), term.CurrencyCode())
	if !ok {
		return nil, fmt.Errorf("%w: %s has no rate %s/%s", monetary.ErrConversion, p.name, base.CurrencyCode(), term.CurrencyCode())
	}
	return Rate{base: base, term: term, factor: f, provider: p.name}, nil
}

func (p *Provider) Conversion(term monetary.CurrencyUnit) (monetary.CurrencyConversion, error) {
	if term == nil {
		return nil, fmt.Errorf("%s: conversion: %w", p.name, monetary.ErrNullArgument)
	}
	return &Conversion{provider: p, term: term}, nil
}

// Conversion converts amounts into one term currency.
type Conversion struct {
	provider *Provider
	term     monetary.CurrencyUnit
}

var _ monetary.CurrencyConversion = (*Conversion)(nil)

func (c *Conversion) Currency() monetary.CurrencyUnit { return c.term }

func (c *Conversion) Provider() string { return c.provider.name }

func (c *Conversion) ExchangeRate(a monetary.MonetaryAmount) (monetary.ExchangeRate, error) {
	if a == nil {
		return nil, fmt.Errorf("%s: exchange rate: %w", c.provider.name, monetary.ErrNullArgument)
	}
	return c.provider.ExchangeRate(a.Currency(), c.term)
}

// Apply multiplies a by the rate and recreates the product in the term
// currency with a's own factory.
func (c *Conversion) Apply(a monetary.MonetaryAmount) (monetary.MonetaryAmount, error) {
	rate, err := c.ExchangeRate(a)
	if err != nil {
		return nil, err
	}
	product, err := a.Multiply(rate.Factor())
	if err != nil {
		return nil, fmt.Errorf("%s: convert %v: %w", c.provider.name, a, err)
	}
	out, err := a.Factory().WithCurrency(c.term).WithNumber(product.Number()).Create()
	if err != nil {
		return nil, fmt.Errorf("%s: convert %v: %w", c.provider.name, a, err)
	}
	return out, nil
}
