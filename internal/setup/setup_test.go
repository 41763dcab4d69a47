package setup_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/roach88/moneytck/internal/fixtures"
	"github.com/roach88/moneytck/internal/refimpl/amountkit"
	"github.com/roach88/moneytck/internal/refimpl/bigamount"
	"github.com/roach88/moneytck/internal/refimpl/isocurrency"
	"github.com/roach88/moneytck/internal/refimpl/rates"
	"github.com/roach88/moneytck/internal/refimpl/reference"
	"github.com/roach88/moneytck/internal/refimpl/rounding"
	"github.com/roach88/moneytck/internal/setup"
	"github.com/roach88/moneytck/pkg/monetary"
)

func referenceConfiguration(t *testing.T, types ...string) *reference.Configuration {
	t.Helper()
	cfg, err := reference.New(reference.Options{AmountTypes: types})
	require.NoError(t, err)
	return cfg
}

// override replaces single registrations of the reference configuration.
type override struct {
	*reference.Configuration
	amountTypes []string
	currencies  []monetary.CurrencyProvider
	errorKinds  []error
	roundings   []monetary.RoundingProvider
	rates       []monetary.ExchangeRateProvider
	formats     []monetary.FormatProvider
	stubs       []string
	nilFactory  bool
	typedNil    bool
}

func (o override) AmountTypes() []string {
	if o.amountTypes != nil {
		return o.amountTypes
	}
	return o.Configuration.AmountTypes()
}

func (o override) AmountFactory(amountType string) (monetary.AmountFactory, error) {
	if o.nilFactory {
		return nil, nil
	}
	if o.typedNil {
		return (*amountkit.Factory)(nil), nil
	}
	return o.Configuration.AmountFactory(amountType)
}

func (o override) CurrencyProviders() []monetary.CurrencyProvider {
	if o.currencies != nil {
		return o.currencies
	}
	return o.Configuration.CurrencyProviders()
}

func (o override) ErrorKinds() []error {
	if o.errorKinds != nil {
		return o.errorKinds
	}
	return o.Configuration.ErrorKinds()
}

func (o override) RoundingProviders() []monetary.RoundingProvider {
	if o.roundings != nil {
		return o.roundings
	}
	return o.Configuration.RoundingProviders()
}

func (o override) ExchangeRateProviders() []monetary.ExchangeRateProvider {
	if o.rates != nil {
		return o.rates
	}
	return o.Configuration.ExchangeRateProviders()
}

func (o override) FormatProviders() []monetary.FormatProvider {
	if o.formats != nil {
		return o.formats
	}
	return o.Configuration.FormatProviders()
}

func (o override) StubAmountTypes() []string {
	if o.stubs != nil {
		return o.stubs
	}
	return o.Configuration.StubAmountTypes()
}

// unnamed hides the optional extensions.
type unnamed struct{ setup.Configuration }

func TestNewRegistry_Reference(t *testing.T) {
	reg, err := setup.NewRegistry(referenceConfiguration(t))
	require.NoError(t, err)

	assert.Equal(t, reference.Name, reg.Name())
	assert.Equal(t, reference.AllAmountTypes, reg.AmountTypes())
	assert.True(t, reg.IsStub(fixtures.AmountType))
	assert.False(t, reg.IsStub(bigamount.AmountType))
	assert.Len(t, reg.RoundingProviders(), 2)
	assert.Len(t, reg.RateProviders(), 2)
	assert.NotEmpty(t, reg.FormatProviders())
	assert.NotEmpty(t, reg.ErrorKinds())
	assert.Len(t, reg.Operators(), 3)
}

func TestNewRegistry_OptionalExtensions(t *testing.T) {
	reg, err := setup.NewRegistry(unnamed{referenceConfiguration(t, bigamount.AmountType)})
	require.NoError(t, err)
	assert.Equal(t, "unnamed", reg.Name())
	assert.Empty(t, reg.FormatProviders())
	assert.False(t, reg.IsStub(bigamount.AmountType))
}

func TestNewRegistry_Invalid(t *testing.T) {
	base := referenceConfiguration(t, bigamount.AmountType, fixtures.AmountType)
	tests := []struct {
		name   string
		cfg    setup.Configuration
		field  string
		reason string
	}{
		{"nil", nil, "configuration", "no configuration"},
		{"typed nil", (*reference.Configuration)(nil), "configuration", "no configuration"},
		{"typed nil currency provider", override{Configuration: base, currencies: []monetary.CurrencyProvider{(*isocurrency.Provider)(nil)}}, "currencyProviders", "entry 0 is nil"},
		{"typed nil rate provider", override{Configuration: base, rates: []monetary.ExchangeRateProvider{rates.NewIdent(), (*rates.Provider)(nil)}}, "exchangeRateProviders", "entry 1 is nil"},
		{"typed nil rounding provider", override{Configuration: base, roundings: []monetary.RoundingProvider{(*rounding.Default)(nil)}}, "roundingProviders", "entry 0 is nil"},
		{"no amount types", override{Configuration: base, amountTypes: []string{}}, "amountTypes", "at least one"},
		{"empty amount type", override{Configuration: base, amountTypes: []string{""}}, "amountTypes", "empty amount type"},
		{"duplicate amount type", override{Configuration: base, amountTypes: []string{"BigAmount", "BigAmount"}}, "amountTypes", `duplicate amount type "BigAmount"`},
		{"no currency providers", override{Configuration: base, currencies: []monetary.CurrencyProvider{}}, "currencyProviders", "at least one"},
		{"nil currency provider", override{Configuration: base, currencies: []monetary.CurrencyProvider{nil}}, "currencyProviders", "entry 0 is nil"},
		{"no error kinds", override{Configuration: base, errorKinds: []error{}}, "errorKinds", "at least one"},
		{"foreign error kind", override{Configuration: base, errorKinds: []error{errors.New("eof")}}, "errorKinds", "does not wrap"},
		{"no rounding providers", override{Configuration: base, roundings: []monetary.RoundingProvider{}}, "roundingProviders", "at least one"},
		{"duplicate rounding provider", override{Configuration: base, roundings: []monetary.RoundingProvider{rounding.Default{}, rounding.Default{}}}, "roundingProviders", `duplicate name "default"`},
		{"duplicate rate provider", override{Configuration: base, rates: []monetary.ExchangeRateProvider{rates.NewIdent(), rates.NewIdent()}}, "exchangeRateProviders", `duplicate name "IDENT"`},
		{"nil format provider", override{Configuration: base, formats: []monetary.FormatProvider{nil}}, "formatProviders", "entry 0 is nil"},
		{"unregistered stub", override{Configuration: base, stubs: []string{"FastAmount"}}, "stubAmountTypes", `"FastAmount" is not a registered amount type`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := setup.NewRegistry(tt.cfg)
			require.Error(t, err)
			var cfgErr *setup.Error
			require.True(t, errors.As(err, &cfgErr), "got %T", err)
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.Contains(t, cfgErr.Reason, tt.reason)
			assert.Contains(t, err.Error(), "configuration: "+tt.field)
		})
	}
}

func TestNewRegistry_NoRateProviders(t *testing.T) {
	reg, err := setup.NewRegistry(override{Configuration: referenceConfiguration(t), rates: []monetary.ExchangeRateProvider{}})
	require.NoError(t, err, "rate providers are optional")
	assert.Empty(t, reg.RateProviders())
}

func TestRegistry_AmountFactory(t *testing.T) {
	reg, err := setup.NewRegistry(referenceConfiguration(t, bigamount.AmountType))
	require.NoError(t, err)

	f1, err := reg.AmountFactory(bigamount.AmountType)
	require.NoError(t, err)
	f2, err := reg.AmountFactory(bigamount.AmountType)
	require.NoError(t, err)
	assert.NotSame(t, f1, f2, "a new factory per call")

	_, err = reg.AmountFactory("FastAmount")
	assert.ErrorIs(t, err, monetary.ErrUnknownProvider)

	reg, err = setup.NewRegistry(override{Configuration: referenceConfiguration(t, bigamount.AmountType), nilFactory: true})
	require.NoError(t, err)
	_, err = reg.AmountFactory(bigamount.AmountType)
	assert.ErrorIs(t, err, monetary.ErrMonetary)
	assert.ErrorContains(t, err, "configuration returned nil")

	reg, err = setup.NewRegistry(override{Configuration: referenceConfiguration(t, bigamount.AmountType), typedNil: true})
	require.NoError(t, err)
	_, err = reg.AmountFactory(bigamount.AmountType)
	assert.ErrorContains(t, err, "configuration returned nil")
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	reg, err := setup.NewRegistry(referenceConfiguration(t))
	require.NoError(t, err)
	types := reg.AmountTypes()
	types[0] = "Mutated"
	assert.Equal(t, reference.AllAmountTypes, reg.AmountTypes())
}

func TestRegistry_Currency(t *testing.T) {
	reg, err := setup.NewRegistry(referenceConfiguration(t, bigamount.AmountType))
	require.NoError(t, err)

	chf, err := reg.Currency("CHF")
	require.NoError(t, err)
	assert.Equal(t, "CHF", chf.CurrencyCode())
	assert.Equal(t, 2, chf.DefaultFractionDigits())

	_, err = reg.Currency("XYZ")
	assert.ErrorIs(t, err, monetary.ErrUnknownCurrency)
	assert.Panics(t, func() { reg.MustCurrency("XYZ") })
}

func TestRegistry_Rounding(t *testing.T) {
	reg, err := setup.NewRegistry(referenceConfiguration(t, bigamount.AmountType))
	require.NoError(t, err)

	_, err = reg.Rounding(monetary.RoundingQuery{})
	assert.ErrorIs(t, err, monetary.ErrNullArgument)

	r, err := reg.Rounding(monetary.QueryByCurrency(reg.MustCurrency("JPY")))
	require.NoError(t, err)
	assert.Equal(t, rounding.DefaultProvider, r.RoundingContext().Provider)
	assert.Equal(t, 0, r.RoundingContext().Scale)

	cash, err := reg.Rounding(monetary.RoundingQuery{Name: rounding.Cash, Currency: reg.MustCurrency("CHF")})
	require.NoError(t, err)
	assert.Equal(t, rounding.CashProvider, cash.RoundingContext().Provider, "providers are asked in turn")

	_, err = reg.Rounding(monetary.QueryByName("BANKERS"))
	assert.ErrorIs(t, err, setup.ErrNoRounding)
	assert.ErrorIs(t, err, monetary.ErrUnknownRounding)
	assert.ErrorContains(t, err, `rounding "BANKERS"`)
}

func TestRegistry_RateProvider(t *testing.T) {
	reg, err := setup.NewRegistry(referenceConfiguration(t, bigamount.AmountType))
	require.NoError(t, err)

	p, err := reg.RateProvider(rates.ECBFixed)
	require.NoError(t, err)
	assert.Equal(t, rates.ECBFixed, p.Name())

	_, err = reg.RateProvider("FED")
	assert.ErrorIs(t, err, monetary.ErrUnknownProvider)
}

func TestRegistry_Format(t *testing.T) {
	reg, err := setup.NewRegistry(referenceConfiguration(t, bigamount.AmountType))
	require.NoError(t, err)

	f, err := reg.Format(language.German)
	require.NoError(t, err)
	assert.NotNil(t, f)

	_, err = reg.Format(language.Swahili)
	assert.ErrorIs(t, err, monetary.ErrUnknownProvider)
}
