package checks

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moneytck/internal/harness"
	"github.com/roach88/moneytck/pkg/monetary"
)

// modeCase is the expected result of rounding a value to one digit.
type modeCase struct {
	mode      monetary.RoundingMode
	pos, neg  string
	roundsOff bool
}

var modeCases = []modeCase{
	{monetary.HalfEven, "2.2", "-2.2", true},
	{monetary.HalfUp, "2.3", "-2.3", true},
	{monetary.HalfDown, "2.2", "-2.2", true},
	{monetary.Up, "2.3", "-2.3", true},
	{monetary.Down, "2.2", "-2.2", true},
	{monetary.Ceiling, "2.3", "-2.2", true},
	{monetary.Floor, "2.2", "-2.3", true},
	{monetary.Unnecessary, "", "", false},
}

// holds reports whether amountType can be created with n.
func holds(t *harness.T, amountType string, n any) bool {
	_, err := t.TryAmount(amountType, "CHF", n, t.Factory(amountType).MaximalContext())
	return err == nil
}

func roundingChecks() []*harness.Check {
	return []*harness.Check{
		{
			ID:            ClauseRounding + "/noscale",
			Clause:        ClauseRounding,
			Title:         "NOSCALE rounds CHF 12.123456 to CHF 12",
			FullPrecision: true,
			Dims:          everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				if !holds(t, s.AmountType, "12.123456") {
					t.Skip("amount type cannot hold 12.123456")
				}
				r, err := t.Reg.Rounding(monetary.QueryByName("NOSCALE"))
				require.NoError(t, err)
				a := t.Amount(s.AmountType, "CHF", "12.123456", t.Factory(s.AmountType).MaximalContext())
				got, err := a.With(r)
				require.NoError(t, err)
				harness.SameAmount(t, t.Amount(s.AmountType, "CHF", 12), got, "NOSCALE")
				harness.SameAmountType(t, s.AmountType, got)
				assert.Zero(t, got.Number().AmountFractionNumerator())
			},
		},
		{
			ID:            ClauseRounding + "/by-currency",
			Clause:        ClauseRounding,
			Title:         "Currency roundings round to the default fraction digits",
			FullPrecision: true,
			Dims:          harness.Dimensions{AmountTypes: true, Currencies: []string{"CHF", "JPY"}},
			Run: func(t *harness.T, s *harness.Scenario) {
				if !holds(t, s.AmountType, "2.567") {
					t.Skip("amount type cannot hold 2.567")
				}
				c := t.Currency(s.Currency)
				r, err := t.Reg.Rounding(monetary.QueryByCurrency(c))
				require.NoError(t, err)
				rc := r.RoundingContext()
				assert.Equal(t, s.Currency, rc.Currency)
				assert.Equal(t, c.DefaultFractionDigits(), rc.Scale)

				a := t.Amount(s.AmountType, s.Currency, "2.567", t.Factory(s.AmountType).MaximalContext())
				got, err := a.With(r)
				require.NoError(t, err)
				want := map[int]string{0: "3", 2: "2.57"}[c.DefaultFractionDigits()]
				require.NotEmpty(t, want, "no expectation for %d fraction digits", c.DefaultFractionDigits())
				harness.AmountEquals(t, want, got, rc.Name)
				assert.Equal(t, s.Currency, got.Currency().CurrencyCode())
				harness.SameAmountType(t, s.AmountType, got)
			},
		},
		{
			ID:     ClauseRounding + "/by-scale",
			Clause: ClauseRounding,
			Title:  "Scale queries round with the requested mode",
			Dims:   everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				pos, neg := t.Money("2.25"), t.Money("-2.25")
				for _, mc := range modeCases {
					r, err := t.Reg.Rounding(monetary.QueryByScale(1, mc.mode))
					require.NoError(t, err, "rounding for %s", mc.mode)
					assert.Equal(t, 1, r.RoundingContext().Scale)
					assert.Equal(t, mc.mode, r.RoundingContext().Mode)
					gotPos, errPos := r.Apply(pos)
					gotNeg, errNeg := r.Apply(neg)
					if !mc.roundsOff {
						harness.ErrorKind(t, monetary.KindArithmetic, errPos, mc.mode.String())
						harness.ErrorKind(t, monetary.KindArithmetic, errNeg, mc.mode.String())
						exact, err := r.Apply(t.Money("2.5"))
						require.NoError(t, err, "%s of 2.5", mc.mode)
						harness.AmountEquals(t, "2.5", exact, mc.mode.String())
						continue
					}
					require.NoError(t, errPos, mc.mode.String())
					require.NoError(t, errNeg, mc.mode.String())
					harness.AmountEquals(t, mc.pos, gotPos, mc.mode.String())
					harness.AmountEquals(t, mc.neg, gotNeg, mc.mode.String())
				}
			},
		},
		{
			ID:     ClauseRounding + "/unknown",
			Clause: ClauseRounding,
			Title:  "Unknown roundings are domain errors, empty queries null errors",
			Run: func(t *harness.T, s *harness.Scenario) {
				_, err := t.Reg.Rounding(monetary.QueryByName("NO-SUCH-ROUNDING"))
				harness.ErrorKind(t, monetary.KindDomain, err, "unknown name")
				harness.ErrorIs(t, monetary.ErrUnknownRounding, err)

				q := monetary.QueryByName("NOSCALE")
				q.Providers = []string{"no-such-provider"}
				_, err = t.Reg.Rounding(q)
				harness.ErrorKind(t, monetary.KindDomain, err, "unknown provider")

				_, err = t.Reg.Rounding(monetary.RoundingQuery{})
				harness.ErrorKind(t, monetary.KindNullArgument, err, "empty query")
			},
		},
		{
			ID:     ClauseRounding + "/provider-names",
			Clause: ClauseRounding,
			Title:  "Named roundings keep currency and amount type and are idempotent",
			Dims:   harness.Dimensions{AmountTypes: true, RoundingProviders: true},
			Run: func(t *harness.T, s *harness.Scenario) {
				p := s.Rounding
				assert.NotEmpty(t, p.Name())
				for _, name := range p.RoundingNames() {
					r := p.Rounding(monetary.RoundingQuery{Name: name, Currency: t.Currency("CHF")})
					require.NotNil(t, r, "%s does not resolve its own rounding %s", p.Name(), name)
					assert.Equal(t, p.Name(), r.RoundingContext().Provider)
					once, err := t.Money("12.34").With(r)
					require.NoError(t, err, name)
					assert.Equal(t, "CHF", once.Currency().CurrencyCode(), name)
					harness.SameAmountType(t, s.AmountType, once, name)
					twice, err := once.With(r)
					require.NoError(t, err, name)
					harness.SameAmount(t, once, twice, name+" applied twice")

					_, err = r.Apply(nil)
					harness.ErrorKind(t, monetary.KindNullArgument, err, name+" of nil")
				}
			},
		},
		{
			ID:     ClauseRounding + "/cash",
			Clause: ClauseRounding,
			Title:  "Cash rounding of CHF rounds to 0.05",
			Dims:   everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				r, err := t.Reg.Rounding(monetary.RoundingQuery{Name: "CASH", Currency: t.Currency("CHF")})
				if err != nil {
					harness.ErrorKind(t, monetary.KindDomain, err, "CASH")
					t.Skip("no cash rounding registered")
				}
				for in, want := range map[string]string{"12.34": "12.35", "12.32": "12.30", "-0.03": "-0.05", "7.00": "7"} {
					got, err := t.Money(in).With(r)
					require.NoError(t, err, in)
					harness.AmountEquals(t, want, got, "cash rounding of "+in)
				}
			},
		},
	}
}
