package checks

import (
	"fmt"
	"reflect"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moneytck/internal/harness"
	"github.com/roach88/moneytck/pkg/monetary"
)

func currencyChecks() []*harness.Check {
	return []*harness.Check{
		{
			ID:     ClauseCurrency + "/code-shape",
			Clause: ClauseCurrency,
			Title:  "Currency code, numeric code and fraction digits are well formed",
			Dims:   harness.Dimensions{Currencies: standardCurrencies},
			Run: func(t *harness.T, s *harness.Scenario) {
				c := t.Currency(s.Currency)
				assert.Equal(t, s.Currency, c.CurrencyCode())
				assert.Regexp(t, `^[A-Z]{3}$`, c.CurrencyCode())
				assert.GreaterOrEqual(t, c.NumericCode(), -1)
				assert.GreaterOrEqual(t, c.DefaultFractionDigits(), -1)
				assert.Equal(t, s.Currency, c.String())
			},
		},
		{
			ID:     ClauseCurrency + "/unknown-code",
			Clause: ClauseCurrency,
			Title:  "Unknown codes fail with a currency error, empty codes with a null error",
			Run: func(t *harness.T, s *harness.Scenario) {
				for _, p := range t.Reg.CurrencyProviders() {
					for _, code := range []string{"ZZZ", "A1B", "chf", "CHFX"} {
						_, err := p.Currency(code)
						harness.ErrorKind(t, monetary.KindCurrency, err, p.Name(), code)
						assert.False(t, p.IsAvailable(code), "%s reports %s available", p.Name(), code)
					}
					_, err := p.Currency("")
					harness.ErrorKind(t, monetary.KindNullArgument, err, p.Name(), "empty code")
				}
			},
		},
		{
			ID:     ClauseCurrency + "/compare-order",
			Clause: ClauseCurrency,
			Title:  "Compare is a total order consistent with the codes",
			Run: func(t *harness.T, s *harness.Scenario) {
				units := make([]monetary.CurrencyUnit, len(standardCurrencies))
				for i, code := range standardCurrencies {
					units[i] = t.Currency(code)
				}
				for _, a := range units {
					assert.Zero(t, a.Compare(a), "%s compared with itself", a)
					for _, b := range units {
						ab, ba := a.Compare(b), b.Compare(a)
						assert.Equal(t, sign(ab), -sign(ba), "%s and %s compare asymmetrically", a, b)
						assert.Equal(t, sign(ab), sign(compareStrings(a.CurrencyCode(), b.CurrencyCode())),
							"%s and %s are not ordered by code", a, b)
					}
				}
			},
		},
		{
			ID:     ClauseCurrency + "/map-key",
			Clause: ClauseCurrency,
			Title:  "Units with the same code are interchangeable map keys",
			Dims:   harness.Dimensions{Currencies: standardCurrencies},
			Run: func(t *harness.T, s *harness.Scenario) {
				a, b := t.Currency(s.Currency), t.Currency(s.Currency)
				require.True(t, reflect.TypeOf(a).Comparable(), "%T cannot be used as a map key", a)
				m := map[monetary.CurrencyUnit]int{a: 1}
				assert.Equal(t, 1, m[b], "lookup of %s by a second instance", s.Currency)
				assert.Zero(t, a.Compare(b))
			},
		},
		{
			ID:     ClauseCurrency + "/text-roundtrip",
			Clause: ClauseCurrency,
			Title:  "Currency text form resolves back to an equal unit",
			Dims:   harness.Dimensions{Currencies: standardCurrencies},
			Run: func(t *harness.T, s *harness.Scenario) {
				harness.ExactRoundTrip(t, t.Currency(s.Currency), t.Reg.Currency,
					func(a, b monetary.CurrencyUnit) bool {
						return a.CurrencyCode() == b.CurrencyCode() && a.Compare(b) == 0
					})
			},
		},
		{
			ID:     ClauseCurrency + "/providers-list",
			Clause: ClauseCurrency,
			Title:  "Every listed currency is available from its provider",
			Run: func(t *harness.T, s *harness.Scenario) {
				for _, p := range t.Reg.CurrencyProviders() {
					units := p.Currencies()
					require.NotEmpty(t, units, "provider %s lists no currencies", p.Name())
					for _, u := range units {
						require.NotNil(t, u, "provider %s lists nil", p.Name())
						assert.True(t, p.IsAvailable(u.CurrencyCode()), "%s: %s listed but unavailable", p.Name(), u)
						c, err := p.Currency(u.CurrencyCode())
						if assert.NoError(t, err, "%s: %s", p.Name(), u) {
							assert.Equal(t, u.CurrencyCode(), c.CurrencyCode())
						}
					}
				}
			},
		},
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func describe(a monetary.MonetaryAmount) string {
	if a == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%s)", a.Context().AmountType, a)
}
