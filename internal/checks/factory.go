package checks

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moneytck/internal/harness"
	"github.com/roach88/moneytck/pkg/monetary"
)

func factoryChecks() []*harness.Check {
	return []*harness.Check{
		{
			ID:     ClauseFactory + "/distinct-factories",
			Clause: ClauseFactory,
			Title:  "Every acquisition returns a new factory with its own state",
			Dims:   everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				f1, f2 := t.Factory(s.AmountType), t.Factory(s.AmountType)
				harness.NotSameInstance(t, f1, f2, "factories of "+s.AmountType)
				assert.Equal(t, s.AmountType, f1.AmountType())

				f1.WithCurrency(t.Currency("USD")).WithNumber(5)
				a, err := f2.WithCurrency(t.Currency("CHF")).WithNumber(7).Create()
				require.NoError(t, err)
				assert.Equal(t, "CHF", a.Currency().CurrencyCode())
				harness.AmountEquals(t, 7, a)
			},
		},
		{
			ID:     ClauseFactory + "/create",
			Clause: ClauseFactory,
			Title:  "Identical inputs create equal amounts, different numbers do not",
			Dims:   harness.Dimensions{AmountTypes: true, Values: harness.Concat(harness.SignValues, harness.FractionalValues), Currencies: []string{"CHF", "JPY"}},
			Run: func(t *harness.T, s *harness.Scenario) {
				a, b := t.Money(s.Value.N), t.Money(s.Value.N)
				assert.True(t, a.Equal(b), "%s equals %s", describe(a), describe(b))
				harness.SameAmountType(t, s.AmountType, a)

				c, err := t.Factory(s.AmountType).WithCurrencyCode(s.Currency).WithNumber(s.Value.N).Create()
				require.NoError(t, err)
				assert.True(t, a.Equal(c), "WithCurrencyCode gives %s", describe(c))

				d := t.Money(add(expectation(s.Value.N), rat("1")).FloatString(2))
				assert.False(t, a.Equal(d), "%s differs from %s", describe(a), describe(d))
			},
		},
		{
			ID:     ClauseFactory + "/invalid-currency",
			Clause: ClauseFactory,
			Title:  "Unknown codes fail with a currency error, missing values with a null error",
			Dims:   everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				for _, code := range []string{"XYZ", "123", "chf", "CHFF"} {
					_, err := t.Factory(s.AmountType).WithCurrencyCode(code).WithNumber(1).Create()
					harness.ErrorKind(t, monetary.KindCurrency, err, code)
				}
				_, err := t.Factory(s.AmountType).WithCurrencyCode("").WithNumber(1).Create()
				harness.ErrorKind(t, monetary.KindNullArgument, err, "empty code")
				_, err = t.Factory(s.AmountType).WithCurrency(nil).WithNumber(1).Create()
				harness.ErrorKind(t, monetary.KindNullArgument, err, "nil currency")
				_, err = t.Factory(s.AmountType).WithCurrency(t.Currency("CHF")).WithNumber(nil).Create()
				harness.ErrorKind(t, monetary.KindNullArgument, err, "nil number")
			},
		},
		{
			ID:     ClauseFactory + "/over-capacity",
			Clause: ClauseFactory,
			Title:  "Numbers and contexts beyond the maximal capability fail",
			Dims:   everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				f := t.Factory(s.AmountType)
				maxCtx := f.MaximalContext()
				if maxCtx.MaxScale >= 0 {
					tooFine := "0." + zeros(maxCtx.MaxScale) + "1"
					_, err := t.TryAmount(s.AmountType, "CHF", tooFine)
					harness.ErrorKind(t, monetary.KindArithmetic, err, "scale of "+tooFine)

					wider := maxCtx
					wider.MaxScale++
					_, err = t.TryAmount(s.AmountType, "CHF", 1, wider)
					harness.ErrorKind(t, monetary.KindArithmetic, err, "context "+wider.String())
				}
				if maxCtx.Precision > 0 {
					tooLong := "1" + zeros(maxCtx.Precision)
					_, err := t.TryAmount(s.AmountType, "CHF", tooLong)
					harness.ErrorKind(t, monetary.KindArithmetic, err, "precision of "+tooLong)

					unlimited := maxCtx
					unlimited.Precision = 0
					_, err = t.TryAmount(s.AmountType, "CHF", 1, unlimited)
					harness.ErrorKind(t, monetary.KindArithmetic, err, "context "+unlimited.String())
				}
				if maxN := f.MaxNumber(); maxN != nil {
					beyond := add(maxN.Rat(), rat("1")).FloatString(0)
					_, err := t.TryAmount(s.AmountType, "CHF", beyond)
					harness.ErrorKind(t, monetary.KindArithmetic, err, "above max "+beyond)
				}
			},
		},
		{
			ID:     ClauseFactory + "/min-max",
			Clause: ClauseFactory,
			Title:  "MinNumber and MaxNumber are creatable and ordered",
			Dims:   everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				f := t.Factory(s.AmountType)
				minN, maxN := f.MinNumber(), f.MaxNumber()
				require.Equal(t, minN == nil, maxN == nil, "min and max are both bounded or both unbounded")
				if maxN == nil {
					t.Skip("unbounded amount type")
				}
				assert.Negative(t, minN.Rat().Cmp(maxN.Rat()), "%s < %s", minN, maxN)
				hi := t.Money(maxN)
				harness.AmountEquals(t, maxN, hi, "max")
				lo := t.Money(minN)
				harness.AmountEquals(t, minN, lo, "min")
			},
		},
		{
			ID:     ClauseFactory + "/with-amount",
			Clause: ClauseFactory,
			Title:  "WithAmount copies currency, number and context",
			Dims:   harness.Dimensions{AmountTypes: true, Values: harness.FractionalValues},
			Run: func(t *harness.T, s *harness.Scenario) {
				src := t.Amount(s.AmountType, "USD", s.Value.N)
				for _, target := range t.Reg.AmountTypes() {
					c, err := t.Factory(target).WithAmount(src).Create()
					require.NoError(t, err, "%s from %s", target, describe(src))
					harness.SameAmountType(t, target, c)
					harness.SameAmount(t, src, c, target)
				}
				again, err := src.Factory().Create()
				require.NoError(t, err)
				assert.True(t, src.Equal(again), "amount factory recreates %s", describe(src))
				harness.NotSameInstance(t, src.Factory(), src.Factory(), "Factory() of an amount")
				_, err = t.Factory(s.AmountType).WithAmount(nil).Create()
				harness.ErrorKind(t, monetary.KindNullArgument, err, "WithAmount(nil)")
			},
		},
	}
}

func zeros(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}
