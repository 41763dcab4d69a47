package checks

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moneytck/internal/harness"
	"github.com/roach88/moneytck/pkg/monetary"
)

var conversionCurrencies = []string{"CHF", "EUR", "USD", "JPY", "GBP", "AUD"}

// pairs returns the base and term units p converts between, and one
// pair it does not.
func pairs(t *harness.T, p monetary.ExchangeRateProvider) (available [][2]monetary.CurrencyUnit, missing *[2]monetary.CurrencyUnit) {
	for _, b := range conversionCurrencies {
		for _, c := range conversionCurrencies {
			pair := [2]monetary.CurrencyUnit{t.Currency(b), t.Currency(c)}
			if p.IsAvailable(pair[0], pair[1]) {
				available = append(available, pair)
			} else if missing == nil {
				missing = &pair
			}
		}
	}
	return available, missing
}

func conversionChecks() []*harness.Check {
	rates := harness.Dimensions{RateProviders: true}
	return []*harness.Check{
		{
			ID:     ClauseConversion + "/provider-name",
			Clause: ClauseConversion,
			Title:  "Rate providers are named and resolvable by name",
			Dims:   rates,
			Run: func(t *harness.T, s *harness.Scenario) {
				require.NotEmpty(t, s.Rates.Name())
				p, err := t.Reg.RateProvider(s.Rates.Name())
				require.NoError(t, err)
				harness.SameInstance(t, s.Rates, p)
				_, err = t.Reg.RateProvider("NO-SUCH-PROVIDER")
				harness.ErrorKind(t, monetary.KindDomain, err, "unknown provider")
			},
		},
		{
			ID:     ClauseConversion + "/identity-rate",
			Clause: ClauseConversion,
			Title:  "A currency converts into itself with factor one",
			Dims:   harness.Dimensions{RateProviders: true, Currencies: []string{"CHF", "EUR", "USD"}},
			Run: func(t *harness.T, s *harness.Scenario) {
				c := t.Currency(s.Currency)
				if !s.Rates.IsAvailable(c, c) {
					t.Skip(s.Rates.Name() + " has no rate for " + s.Currency)
				}
				r, err := s.Rates.ExchangeRate(c, c)
				require.NoError(t, err)
				assert.Zero(t, r.Factor().Rat().Cmp(rat("1")), "factor %s", r.Factor())
			},
		},
		{
			ID:     ClauseConversion + "/rate-shape",
			Clause: ClauseConversion,
			Title:  "Exchange rates report their base, term, provider and a positive factor",
			Dims:   rates,
			Run: func(t *harness.T, s *harness.Scenario) {
				available, _ := pairs(t, s.Rates)
				require.NotEmpty(t, available, "%s converts nothing", s.Rates.Name())
				for _, pair := range available {
					r, err := s.Rates.ExchangeRate(pair[0], pair[1])
					require.NoError(t, err, "%s/%s", pair[0], pair[1])
					assert.Equal(t, pair[0].CurrencyCode(), r.Base().CurrencyCode())
					assert.Equal(t, pair[1].CurrencyCode(), r.Term().CurrencyCode())
					assert.Equal(t, s.Rates.Name(), r.Provider())
					assert.Positive(t, r.Factor().Rat().Sign(), "factor of %s/%s", pair[0], pair[1])
				}
			},
		},
		{
			ID:     ClauseConversion + "/convert",
			Clause: ClauseConversion,
			Title:  "Conversions yield the term currency, the factor and the amount type",
			Dims:   harness.Dimensions{AmountTypes: true, RateProviders: true},
			Run: func(t *harness.T, s *harness.Scenario) {
				available, _ := pairs(t, s.Rates)
				for _, pair := range available {
					conv, err := s.Rates.Conversion(pair[1])
					require.NoError(t, err)
					assert.Equal(t, pair[1].CurrencyCode(), conv.Currency().CurrencyCode())
					assert.Equal(t, s.Rates.Name(), conv.Provider())

					a := t.Amount(s.AmountType, pair[0].CurrencyCode(), 10)
					rate, err := conv.ExchangeRate(a)
					require.NoError(t, err)
					want, err := a.Multiply(rate.Factor())
					require.NoError(t, err)

					got, err := a.With(conv)
					require.NoError(t, err, "convert %s to %s", describe(a), pair[1])
					assert.Equal(t, pair[1].CurrencyCode(), got.Currency().CurrencyCode())
					harness.SameAmountType(t, s.AmountType, got)
					harness.AmountEquals(t, want.Number(), got, pair[0].CurrencyCode()+"/"+pair[1].CurrencyCode())
				}
			},
		},
		{
			ID:     ClauseConversion + "/unavailable",
			Clause: ClauseConversion,
			Title:  "Unavailable pairs fail with a conversion error",
			Dims:   rates,
			Run: func(t *harness.T, s *harness.Scenario) {
				_, missing := pairs(t, s.Rates)
				if missing == nil {
					t.Skip(s.Rates.Name() + " converts every tested pair")
				}
				base, term := missing[0], missing[1]
				_, err := s.Rates.ExchangeRate(base, term)
				harness.ErrorKind(t, monetary.KindDomain, err, base.String()+"/"+term.String())
				harness.ErrorIs(t, monetary.ErrConversion, err)

				conv, err := s.Rates.Conversion(term)
				require.NoError(t, err)
				_, err = t.Amount(t.Reg.AmountTypes()[0], base.CurrencyCode(), 1).With(conv)
				harness.ErrorIs(t, monetary.ErrConversion, err, "convert "+base.String())
			},
		},
		{
			ID:     ClauseConversion + "/null-arguments",
			Clause: ClauseConversion,
			Title:  "Rate providers and conversions reject nil arguments",
			Dims:   rates,
			Run: func(t *harness.T, s *harness.Scenario) {
				chf := t.Currency("CHF")
				_, err := s.Rates.ExchangeRate(nil, chf)
				harness.ErrorKind(t, monetary.KindNullArgument, err, "nil base")
				_, err = s.Rates.ExchangeRate(chf, nil)
				harness.ErrorKind(t, monetary.KindNullArgument, err, "nil term")
				_, err = s.Rates.Conversion(nil)
				harness.ErrorKind(t, monetary.KindNullArgument, err, "nil conversion term")
				conv, err := s.Rates.Conversion(chf)
				require.NoError(t, err)
				_, err = conv.ExchangeRate(nil)
				harness.ErrorKind(t, monetary.KindNullArgument, err, "nil amount")
				assert.False(t, s.Rates.IsAvailable(nil, chf))
			},
		},
	}
}
