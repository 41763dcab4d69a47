// Package isocurrency provides the "iso" currency provider backed by the
// CLDR data in golang.org/x/text/currency.
package isocurrency

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/currency"

	"github.com/roach88/moneytck/pkg/monetary"
)

// ProviderName is the name of the provider.
const ProviderName = "iso"

// Unit is a CLDR currency. CLDR carries no numeric codes, so NumericCode
// is always -1.
type Unit struct {
	u currency.Unit
}

var _ monetary.CurrencyUnit = Unit{}

func (u Unit) CurrencyCode() string { return u.u.String() }

func (u Unit) NumericCode() int { return -1 }

func (u Unit) DefaultFractionDigits() int {
	scale, _ := currency.Standard.Rounding(u.u)
	return scale
}

func (u Unit) Compare(o monetary.CurrencyUnit) int {
	return strings.Compare(u.CurrencyCode(), o.CurrencyCode())
}

func (u Unit) String() string { return u.u.String() }

func (u Unit) MarshalText() ([]byte, error) { return []byte(u.u.String()), nil }

// Provider resolves tender currencies known to CLDR.
type Provider struct {
	once  sync.Once
	units []monetary.CurrencyUnit
}

var _ monetary.CurrencyProvider = (*Provider)(nil)

// New returns a provider.
func New() *Provider { return &Provider{} }

func (p *Provider) Name() string { return ProviderName }

func (p *Provider) Currency(code string) (monetary.CurrencyUnit, error) {
	if code == "" {
		return nil, fmt.Errorf("currency code: %w", monetary.ErrNullArgument)
	}
	if strings.ToUpper(code) != code {
		return nil, fmt.Errorf("%w: %q", monetary.ErrUnknownCurrency, code)
	}
	u, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", monetary.ErrUnknownCurrency, code, err)
	}
	return Unit{u: u}, nil
}

// Currencies lists the currencies currently in use as tender in any
// region, ordered by code.
func (p *Provider) Currencies() []monetary.CurrencyUnit {
	p.once.Do(func() {
		seen := make(map[currency.Unit]bool)
		for it := currency.Query(); it.Next(); {
			u := it.Unit()
			if seen[u] || !it.IsTender() {
				continue
			}
			seen[u] = true
			p.units = append(p.units, Unit{u: u})
		}
		sort.Slice(p.units, func(i, j int) bool {
			return p.units[i].CurrencyCode() < p.units[j].CurrencyCode()
		})
	})
	return append([]monetary.CurrencyUnit(nil), p.units...)
}

func (p *Provider) IsAvailable(code string) bool {
	_, err := p.Currency(code)
	return err == nil
}
