package checks

import (
	"math/big"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moneytck/internal/harness"
	"github.com/roach88/moneytck/pkg/monetary"
)

func numberChecks() []*harness.Check {
	return []*harness.Check{
		{
			ID:     ClauseNumber + "/integral-exact",
			Clause: ClauseNumber,
			Title:  "Exact accessors return integral values unchanged",
			Dims:   harness.Dimensions{AmountTypes: true, Values: harness.IntegralValues},
			Run: func(t *harness.T, s *harness.Scenario) {
				want := expectation(s.Value.N).Num().Int64()
				n := t.Money(s.Value.N).Number()
				i64, err := n.Int64ValueExact()
				require.NoError(t, err, "Int64ValueExact of %s", n)
				assert.Equal(t, want, i64)
				i, err := n.IntValueExact()
				require.NoError(t, err, "IntValueExact of %s", n)
				assert.Equal(t, int(want), i)
				assert.Equal(t, want, n.Int64Value())
				assert.Equal(t, int(want), n.IntValue())
				f, err := n.Float64ValueExact()
				require.NoError(t, err, "Float64ValueExact of %s", n)
				assert.Equal(t, float64(want), f)
				assert.Zero(t, n.AmountFractionNumerator())
			},
		},
		{
			ID:     ClauseNumber + "/fraction-truncation",
			Clause: ClauseNumber,
			Title:  "Truncating accessors drop the fraction, exact accessors fail on it",
			Dims:   harness.Dimensions{AmountTypes: true, Values: harness.FractionalValues},
			Run: func(t *harness.T, s *harness.Scenario) {
				want := expectation(s.Value.N)
				n := t.Money(s.Value.N).Number()
				trunc := new(big.Int).Quo(want.Num(), want.Denom())
				assert.Equal(t, trunc.Int64(), n.Int64Value(), "Int64Value of %s", n)
				assert.Equal(t, int(trunc.Int64()), n.IntValue(), "IntValue of %s", n)
				_, err := n.Int64ValueExact()
				harness.ErrorKind(t, monetary.KindArithmetic, err, "Int64ValueExact of "+n.String())
				_, err = n.IntValueExact()
				harness.ErrorKind(t, monetary.KindArithmetic, err, "IntValueExact of "+n.String())
				f, _ := want.Float64()
				assert.InDelta(t, f, n.Float64Value(), 1e-9, "Float64Value of %s", n)
			},
		},
		{
			ID:     ClauseNumber + "/float-exact",
			Clause: ClauseNumber,
			Title:  "Float64ValueExact fails for values without a binary representation",
			Dims:   everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				f, err := t.Money("1.25").Number().Float64ValueExact()
				require.NoError(t, err)
				assert.Equal(t, 1.25, f)
				_, err = t.Money("0.1").Number().Float64ValueExact()
				harness.ErrorKind(t, monetary.KindArithmetic, err, "Float64ValueExact of 0.1")
			},
		},
		{
			ID:     ClauseNumber + "/int64-range",
			Clause: ClauseNumber,
			Title:  "Int64ValueExact fails for values beyond int64",
			Dims:   everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				huge := "100000000000000000000"
				a, err := t.TryAmount(s.AmountType, "CHF", huge)
				if err != nil {
					harness.ErrorKind(t, monetary.KindArithmetic, err, "create "+huge)
					t.Skip("amount type cannot hold " + huge)
				}
				_, err = a.Number().Int64ValueExact()
				harness.ErrorKind(t, monetary.KindArithmetic, err, "Int64ValueExact of "+huge)
				_, err = a.Number().IntValueExact()
				harness.ErrorKind(t, monetary.KindArithmetic, err, "IntValueExact of "+huge)
			},
		},
		{
			ID:     ClauseNumber + "/fraction-parts",
			Clause: ClauseNumber,
			Title:  "Fraction numerator and denominator describe the fraction part",
			Dims:   harness.Dimensions{AmountTypes: true, Values: harness.Concat(harness.FractionalValues, harness.BoundaryValues)},
			Run: func(t *harness.T, s *harness.Scenario) {
				want := expectation(s.Value.N)
				n := t.FittedMoney(s.Value.N).Number()
				if n.Scale() > 18 {
					_, err := n.AmountFractionNumeratorExact()
					harness.ErrorKind(t, monetary.KindArithmetic, err, "exact numerator of "+n.String())
					_, err = n.AmountFractionDenominatorExact()
					harness.ErrorKind(t, monetary.KindArithmetic, err, "exact denominator of "+n.String())
					assert.Equal(t, int64(1e18), n.AmountFractionDenominator(), "truncated denominator of %s", n)
					return
				}
				num, err := n.AmountFractionNumeratorExact()
				require.NoError(t, err, "exact numerator of %s", n)
				den, err := n.AmountFractionDenominatorExact()
				require.NoError(t, err, "exact denominator of %s", n)
				assert.Equal(t, num, n.AmountFractionNumerator(), "numerator of %s", n)
				assert.Equal(t, den, n.AmountFractionDenominator(), "denominator of %s", n)
				require.Positive(t, den, "denominator of %s", n)
				frac := new(big.Rat).Sub(want, new(big.Rat).SetInt(new(big.Int).Quo(want.Num(), want.Denom())))
				got := big.NewRat(num, den)
				assert.Zero(t, frac.Cmp(got), "fraction of %s is %s, got %s", n, frac.RatString(), got.RatString())
			},
		},
		{
			ID:     ClauseNumber + "/shape",
			Clause: ClauseNumber,
			Title:  "Precision, scale and text form agree with the value",
			Dims:   harness.Dimensions{AmountTypes: true, Values: harness.Concat(harness.SignValues, harness.FractionalValues)},
			Run: func(t *harness.T, s *harness.Scenario) {
				n := t.Money(s.Value.N).Number()
				assert.NotEmpty(t, n.NumberType())
				assert.Positive(t, n.Precision(), "precision of %s", n)
				back, ok := new(big.Rat).SetString(n.String())
				require.True(t, ok, "%q is a decimal", n.String())
				assert.Zero(t, back.Cmp(n.Rat()), "String %s and Rat %s", n, n.Rat().RatString())
				assert.Zero(t, n.Rat().Cmp(expectation(s.Value.N)), "value of %s", s.Value.Label)
			},
		},
	}
}
