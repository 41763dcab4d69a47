// Package govalues adapts github.com/govalues/money to the monetary API:
// an ISO 4217 currency provider and the GovaluesAmount amount type.
package govalues

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/govalues/money"

	"github.com/roach88/moneytck/pkg/monetary"
)

// ProviderName is the name of the currency provider.
const ProviderName = "govalues"

// listed are the codes reported by Currencies. Lookup accepts every code
// money.ParseCurr knows.
var listed = []string{
	"AED", "AUD", "BHD", "BRL", "CAD", "CHF", "CNY", "CZK", "DKK", "EUR",
	"GBP", "HKD", "HUF", "ILS", "INR", "JPY", "KRW", "KWD", "MXN", "NOK",
	"NZD", "OMR", "PLN", "SAR", "SEK", "SGD", "TRY", "USD", "ZAR",
}

// Unit is a currency backed by money.Currency. It is a comparable value,
// so equal units are == as interface values.
type Unit struct {
	c money.Currency
}

var _ monetary.CurrencyUnit = Unit{}

// Money returns the underlying currency.
func (u Unit) Money() money.Currency { return u.c }

func (u Unit) CurrencyCode() string { return u.c.Code() }

func (u Unit) NumericCode() int {
	n, err := strconv.Atoi(u.c.Num())
	if err != nil {
		return -1
	}
	return n
}

func (u Unit) DefaultFractionDigits() int { return u.c.Scale() }

func (u Unit) Compare(o monetary.CurrencyUnit) int {
	return strings.Compare(u.CurrencyCode(), o.CurrencyCode())
}

func (u Unit) String() string { return u.c.Code() }

func (u Unit) MarshalText() ([]byte, error) { return u.c.MarshalText() }

// CurrencyProvider resolves ISO 4217 codes through money.ParseCurr.
type CurrencyProvider struct{}

var _ monetary.CurrencyProvider = CurrencyProvider{}

func (CurrencyProvider) Name() string { return ProviderName }

// Currency accepts upper case alphabetic codes only; money.ParseCurr
// would also take lower case and numeric codes.
func (CurrencyProvider) Currency(code string) (monetary.CurrencyUnit, error) {
	if code == "" {
		return nil, fmt.Errorf("currency code: %w", monetary.ErrNullArgument)
	}
	if len(code) != 3 || strings.ToUpper(code) != code || !isAlpha(code) {
		return nil, fmt.Errorf("%w: %q", monetary.ErrUnknownCurrency, code)
	}
	c, err := money.ParseCurr(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", monetary.ErrUnknownCurrency, code, err)
	}
	return Unit{c: c}, nil
}

func (p CurrencyProvider) Currencies() []monetary.CurrencyUnit {
	out := make([]monetary.CurrencyUnit, 0, len(listed))
	for _, code := range listed {
		if u, err := p.Currency(code); err == nil {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrencyCode() < out[j].CurrencyCode() })
	return out
}

func (p CurrencyProvider) IsAvailable(code string) bool {
	_, err := p.Currency(code)
	return err == nil
}

// Lookup converts any currency unit to money.Currency by code.
func Lookup(u monetary.CurrencyUnit) (money.Currency, error) {
	if gu, ok := u.(Unit); ok {
		return gu.c, nil
	}
	c, err := money.ParseCurr(u.CurrencyCode())
	if err != nil {
		return money.XXX, fmt.Errorf("%w: %q", monetary.ErrUnknownCurrency, u.CurrencyCode())
	}
	return c, nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
