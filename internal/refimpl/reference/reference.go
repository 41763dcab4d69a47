// Package reference assembles the reference implementations into a
// setup.Configuration. It is the configuration the moneytck binary runs
// when no vendor configuration is linked in, and the one the kit's own
// tests run against.
package reference

import (
	"fmt"
	"slices"

	"github.com/roach88/moneytck/internal/fixtures"
	"github.com/roach88/moneytck/internal/refimpl/amountkit"
	"github.com/roach88/moneytck/internal/refimpl/bigamount"
	"github.com/roach88/moneytck/internal/refimpl/fastamount"
	"github.com/roach88/moneytck/internal/refimpl/format"
	"github.com/roach88/moneytck/internal/refimpl/govalues"
	"github.com/roach88/moneytck/internal/refimpl/isocurrency"
	"github.com/roach88/moneytck/internal/refimpl/rates"
	"github.com/roach88/moneytck/internal/refimpl/rounding"
	"github.com/roach88/moneytck/internal/setup"
	"github.com/roach88/moneytck/pkg/monetary"
)

// Name is the configuration name.
const Name = "reference"

// AllAmountTypes lists every amount type the reference configuration can
// register, in default order.
var AllAmountTypes = []string{govalues.AmountType, bigamount.AmountType, fastamount.AmountType, fixtures.AmountType}

// Options select what the configuration registers.
type Options struct {
	// AmountTypes defaults to AllAmountTypes.
	AmountTypes []string
	// EuroRates defaults to rates.DefaultEuroRates.
	EuroRates map[string]string
}

// Configuration is the reference setup.Configuration.
type Configuration struct {
	types      []string
	kits       map[string]*amountkit.Kit
	currencies []monetary.CurrencyProvider
	operators  []monetary.MonetaryOperator
	roundings  []monetary.RoundingProvider
	rates      []monetary.ExchangeRateProvider
	formats    []monetary.FormatProvider
}

var (
	_ setup.Configuration   = (*Configuration)(nil)
	_ setup.FormatProviders = (*Configuration)(nil)
	_ setup.StubAmountTypes = (*Configuration)(nil)
	_ setup.Named           = (*Configuration)(nil)
)

// New builds the reference configuration.
func New(opts Options) (*Configuration, error) {
	types := opts.AmountTypes
	if len(types) == 0 {
		types = AllAmountTypes
	}
	euro := opts.EuroRates
	if euro == nil {
		euro = rates.DefaultEuroRates
	}

	currencies := govalues.CurrencyProvider{}
	kits := map[string]*amountkit.Kit{
		govalues.AmountType:   govalues.NewKit(currencies),
		bigamount.AmountType:  bigamount.NewKit(currencies),
		fastamount.AmountType: fastamount.NewKit(currencies),
		fixtures.AmountType:   fixtures.NewKit(currencies),
	}
	for _, t := range types {
		if _, ok := kits[t]; !ok {
			return nil, fmt.Errorf("%w: amount type %q", monetary.ErrUnknownProvider, t)
		}
	}

	ecb, err := rates.NewECBFixed(euro)
	if err != nil {
		return nil, err
	}

	bigKit := kits[bigamount.AmountType]
	return &Configuration{
		types:      slices.Clone(types),
		kits:       kits,
		currencies: []monetary.CurrencyProvider{currencies, isocurrency.New()},
		operators:  Operators(),
		roundings:  []monetary.RoundingProvider{rounding.Default{}, rounding.CashRounding{}},
		rates:      []monetary.ExchangeRateProvider{rates.NewIdent(), ecb},
		formats:    []monetary.FormatProvider{format.NewProvider(format.DefaultLocales, bigKit.Factory, currencies)},
	}, nil
}

func (c *Configuration) Name() string { return Name }

func (c *Configuration) AmountTypes() []string { return slices.Clone(c.types) }

func (c *Configuration) AmountFactory(amountType string) (monetary.AmountFactory, error) {
	k, ok := c.kits[amountType]
	if !ok {
		return nil, fmt.Errorf("%w: amount type %q", monetary.ErrUnknownProvider, amountType)
	}
	return k.Factory(), nil
}

func (c *Configuration) CurrencyProviders() []monetary.CurrencyProvider { return c.currencies }

func (c *Configuration) ErrorKinds() []error {
	return []error{
		monetary.ErrUnknownCurrency,
		monetary.ErrCurrencyMismatch,
		monetary.ErrUnknownRounding,
		monetary.ErrUnknownProvider,
		monetary.ErrConversion,
		monetary.ErrParse,
	}
}

func (c *Configuration) Operators() []monetary.MonetaryOperator { return c.operators }

func (c *Configuration) RoundingProviders() []monetary.RoundingProvider { return c.roundings }

func (c *Configuration) ExchangeRateProviders() []monetary.ExchangeRateProvider { return c.rates }

func (c *Configuration) FormatProviders() []monetary.FormatProvider { return c.formats }

func (c *Configuration) StubAmountTypes() []string {
	if slices.Contains(c.types, fixtures.AmountType) {
		return []string{fixtures.AmountType}
	}
	return nil
}

// Operators returns the reference operators: ten percent, the major part
// and the rounding to the amount's currency.
func Operators() []monetary.MonetaryOperator {
	return []monetary.MonetaryOperator{
		monetary.OperatorFunc(func(a monetary.MonetaryAmount) (monetary.MonetaryAmount, error) {
			return a.Multiply("0.1")
		}),
		monetary.OperatorFunc(func(a monetary.MonetaryAmount) (monetary.MonetaryAmount, error) {
			return a.DivideToIntegralValue(1)
		}),
		monetary.OperatorFunc(func(a monetary.MonetaryAmount) (monetary.MonetaryAmount, error) {
			return rounding.Default{}.Rounding(monetary.QueryByCurrency(a.Currency())).Apply(a)
		}),
	}
}
