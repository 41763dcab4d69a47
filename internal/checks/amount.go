package checks

import (
	"math"
	"math/big"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moneytck/internal/harness"
	"github.com/roach88/moneytck/pkg/monetary"
)

var everyType = harness.Dimensions{AmountTypes: true}

func amountChecks() []*harness.Check {
	return []*harness.Check{
		{
			ID:     ClauseAmount + "/accessors",
			Clause: ClauseAmount,
			Title:  "Created amounts report the currency, value and type they were created with",
			Dims: harness.Dimensions{
				AmountTypes: true,
				Values:      harness.Concat(harness.IntegralValues, harness.FractionalValues, harness.BoundaryValues),
				Currencies:  []string{"CHF", "USD"},
			},
			Run: func(t *harness.T, s *harness.Scenario) {
				a := t.FittedMoney(s.Value.N)
				assert.Equal(t, s.Currency, a.Currency().CurrencyCode())
				harness.SameAmountType(t, s.AmountType, a)
				harness.AmountEquals(t, expectation(s.Value.N), a, s.Value.Label)
				assert.NotNil(t, a.Factory(), "factory of %s", describe(a))
				assert.NotEmpty(t, a.String())
			},
		},
		{
			ID:     ClauseAmount + "/sign-zero",
			Clause: ClauseAmount,
			Title:  "Every zero representation is zero for the sign predicates",
			Dims:   harness.Dimensions{AmountTypes: true, Values: harness.ZeroValues},
			Run: func(t *harness.T, s *harness.Scenario) {
				a := t.Money(s.Value.N)
				harness.IsZeroAmount(t, a, s.Value.Label)
				assert.False(t, a.IsPositive(), "IsPositive of %s", s.Value.Label)
				assert.False(t, a.IsNegative(), "IsNegative of %s", s.Value.Label)
				assert.True(t, a.IsPositiveOrZero(), "IsPositiveOrZero of %s", s.Value.Label)
				assert.True(t, a.IsNegativeOrZero(), "IsNegativeOrZero of %s", s.Value.Label)
				harness.IsZeroAmount(t, a.Negate(), "negated "+s.Value.Label)
			},
		},
		{
			ID:     ClauseAmount + "/sign-nonzero",
			Clause: ClauseAmount,
			Title:  "Sign predicates agree with Signum for non-zero values",
			Dims:   harness.Dimensions{AmountTypes: true, Values: harness.SignValues},
			Run: func(t *harness.T, s *harness.Scenario) {
				a := t.Money(s.Value.N)
				want := expectation(s.Value.N).Sign()
				require.NotZero(t, want)
				assert.Equal(t, want, a.Signum(), "Signum of %s", s.Value.Label)
				assert.False(t, a.IsZero())
				assert.Equal(t, want > 0, a.IsPositive())
				assert.Equal(t, want > 0, a.IsPositiveOrZero())
				assert.Equal(t, want < 0, a.IsNegative())
				assert.Equal(t, want < 0, a.IsNegativeOrZero())
			},
		},
		{
			ID:            ClauseAmount + "/add-subtract",
			Clause:        ClauseAmount,
			Title:         "Add and Subtract are exact and keep currency and type",
			FullPrecision: true,
			Dims:          harness.Dimensions{AmountTypes: true, Values: harness.Concat(harness.SignValues, harness.FractionalValues)},
			Run: func(t *harness.T, s *harness.Scenario) {
				a := t.Money(s.Value.N)
				b := t.Money("10.25")
				want := expectation(s.Value.N)

				sum, err := a.Add(b)
				require.NoError(t, err)
				harness.SameAmountType(t, s.AmountType, sum)
				harness.AmountEquals(t, add(want, rat("10.25")), sum, "sum")

				diff, err := sum.Subtract(b)
				require.NoError(t, err)
				harness.AmountEquals(t, want, diff, "difference")
				assert.Equal(t, "CHF", diff.Currency().CurrencyCode())
			},
		},
		{
			ID:     ClauseAmount + "/concrete-sum",
			Clause: ClauseAmount,
			Title:  "10 CHF plus 20 CHF is 30 CHF",
			Dims:   everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				sum, err := t.Amount(s.AmountType, "CHF", 10).Add(t.Amount(s.AmountType, "CHF", 20))
				require.NoError(t, err)
				harness.SameAmount(t, t.Amount(s.AmountType, "CHF", 30), sum)
				assert.True(t, sum.Equal(t.Amount(s.AmountType, "CHF", 30)), "%s equals CHF 30", sum)
			},
		},
		{
			ID:     ClauseAmount + "/currency-mismatch",
			Clause: ClauseAmount,
			Title:  "Combining amounts of different currencies fails",
			Dims:   everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				chf := t.Amount(s.AmountType, "CHF", 10)
				usd := t.Amount(s.AmountType, "USD", 20)
				_, err := chf.Add(usd)
				harness.ErrorKindIn(t, err, monetary.KindCurrency, monetary.KindDomain)
				_, err = chf.Subtract(usd)
				harness.ErrorKindIn(t, err, monetary.KindCurrency, monetary.KindDomain)
				for _, cmp := range []func(monetary.MonetaryAmount) (bool, error){
					chf.IsGreaterThan, chf.IsGreaterThanOrEqualTo, chf.IsLessThan, chf.IsLessThanOrEqualTo, chf.IsEqualTo,
				} {
					_, err := cmp(usd)
					harness.ErrorKindIn(t, err, monetary.KindCurrency, monetary.KindDomain)
				}
				harness.AmountEquals(t, 10, chf, "receiver after failed operations")
			},
		},
		{
			ID:     ClauseAmount + "/null-arguments",
			Clause: ClauseAmount,
			Title:  "Operations reject nil arguments with a null error",
			Dims:   everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				a := t.Money(1)
				nullErr := func(op string, err error) {
					harness.ErrorKind(t, monetary.KindNullArgument, err, op)
				}
				_, err := a.Add(nil)
				nullErr("add", err)
				_, err = a.Subtract(nil)
				nullErr("subtract", err)
				_, err = a.Multiply(nil)
				nullErr("multiply", err)
				_, err = a.Divide(nil)
				nullErr("divide", err)
				_, err = a.Remainder(nil)
				nullErr("remainder", err)
				_, err = a.DivideAndRemainder(nil)
				nullErr("divideAndRemainder", err)
				_, err = a.DivideToIntegralValue(nil)
				nullErr("divideToIntegralValue", err)
				_, err = a.IsGreaterThan(nil)
				nullErr("isGreaterThan", err)
				_, err = a.IsLessThan(nil)
				nullErr("isLessThan", err)
				_, err = a.IsEqualTo(nil)
				nullErr("isEqualTo", err)
				_, err = a.Compare(nil)
				nullErr("compare", err)
				_, err = a.With(nil)
				nullErr("with", err)
				_, err = a.Query(nil)
				nullErr("query", err)
				assert.False(t, a.Equal(nil), "Equal(nil)")
			},
		},
		{
			ID:     ClauseAmount + "/neutral-elements",
			Clause: ClauseAmount,
			Title:  "Multiply and Divide by one return the receiver, adding zero keeps the value",
			Dims:   harness.Dimensions{AmountTypes: true, Values: harness.Concat(harness.SignValues, harness.ZeroValues, harness.BoundaryValues)},
			Run: func(t *harness.T, s *harness.Scenario) {
				a := t.FittedMoney(s.Value.N)
				m, err := a.Multiply(1)
				require.NoError(t, err)
				harness.SameInstance(t, a, m, "multiply(1)")
				d, err := a.Divide(1)
				require.NoError(t, err)
				harness.SameInstance(t, a, d, "divide(1)")
				m, err = a.Multiply("1.000")
				require.NoError(t, err)
				harness.SameAmount(t, a, m, "multiply(1.000)")

				zero := t.Money(0)
				sum, err := a.Add(zero)
				require.NoError(t, err)
				harness.SameAmount(t, a, sum, "add(0)")
				diff, err := a.Subtract(zero)
				require.NoError(t, err)
				harness.SameAmount(t, a, diff, "subtract(0)")
				harness.SameInstance(t, a, a.Plus(), "plus")
			},
		},
		{
			ID:     ClauseAmount + "/divide-by-zero",
			Clause: ClauseAmount,
			Title:  "Dividing by zero is an arithmetic error",
			Dims:   harness.Dimensions{AmountTypes: true, Values: harness.ZeroValues},
			Run: func(t *harness.T, s *harness.Scenario) {
				a := t.Amount(s.AmountType, "CHF", 10)
				_, err := a.Divide(s.Value.N)
				harness.ErrorKind(t, monetary.KindArithmetic, err, "divide")
				_, err = a.Remainder(s.Value.N)
				harness.ErrorKind(t, monetary.KindArithmetic, err, "remainder")
				_, err = a.DivideAndRemainder(s.Value.N)
				harness.ErrorKind(t, monetary.KindArithmetic, err, "divideAndRemainder")
				_, err = a.DivideToIntegralValue(s.Value.N)
				harness.ErrorKind(t, monetary.KindArithmetic, err, "divideToIntegralValue")
			},
		},
		{
			ID:     ClauseAmount + "/non-finite",
			Clause: ClauseAmount,
			Title:  "Infinite divisors yield zero, NaN and infinite factors fail",
			Dims:   everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				a := t.Money("12.5")
				for _, inf := range []float64{math.Inf(1), math.Inf(-1)} {
					q, err := a.Divide(inf)
					require.NoError(t, err, "divide by %v", inf)
					harness.IsZeroAmount(t, q, "divide by infinity")
					r, err := a.Remainder(inf)
					require.NoError(t, err, "remainder by %v", inf)
					harness.IsZeroAmount(t, r, "remainder by infinity")
					qr, err := a.DivideAndRemainder(inf)
					require.NoError(t, err, "divideAndRemainder by %v", inf)
					harness.IsZeroAmount(t, qr[0], "quotient by infinity")
					harness.IsZeroAmount(t, qr[1], "remainder by infinity")
					q, err = a.DivideToIntegralValue(inf)
					require.NoError(t, err, "divideToIntegralValue by %v", inf)
					harness.IsZeroAmount(t, q, "integral quotient by infinity")

					_, err = a.Multiply(inf)
					harness.ErrorKind(t, monetary.KindArithmetic, err, "multiply by infinity")
				}
				_, err := a.Multiply(math.NaN())
				harness.ErrorKind(t, monetary.KindArithmetic, err, "multiply by NaN")
				_, err = a.Divide(math.NaN())
				harness.ErrorKind(t, monetary.KindArithmetic, err, "divide by NaN")
				_, err = a.Multiply(float32(math.NaN()))
				harness.ErrorKind(t, monetary.KindArithmetic, err, "multiply by float32 NaN")
			},
		},
		{
			ID:            ClauseAmount + "/overflow",
			Clause:        ClauseAmount,
			Title:         "Results beyond the amount type's range fail instead of saturating",
			FullPrecision: true,
			Dims:          everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				f := t.Factory(s.AmountType)
				maxN := f.MaxNumber()
				if maxN == nil {
					a := t.Money("99999999999999999999999999999999")
					p, err := a.Multiply(10)
					require.NoError(t, err, "unbounded type must not overflow")
					harness.AmountEquals(t, "999999999999999999999999999999990", p)
					return
				}
				a := t.Money(maxN)
				_, err := a.Add(a)
				harness.ErrorKind(t, monetary.KindArithmetic, err, "max + max")
				_, err = a.Multiply(10)
				harness.ErrorKind(t, monetary.KindArithmetic, err, "max * 10")
				_, err = a.Negate().Subtract(a)
				harness.ErrorKind(t, monetary.KindArithmetic, err, "-max - max")
				harness.AmountEquals(t, maxN, a, "receiver after overflow")
			},
		},
		{
			ID:            ClauseAmount + "/division",
			Clause:        ClauseAmount,
			Title:         "Divide, Remainder and DivideToIntegralValue are consistent",
			FullPrecision: true,
			Dims:          harness.Dimensions{AmountTypes: true, Values: harness.Concat(harness.SignValues, harness.IntegralValues)},
			Run: func(t *harness.T, s *harness.Scenario) {
				a := t.Money("123.45")
				n := s.Value.N
				qr, err := a.DivideAndRemainder(n)
				require.NoError(t, err)
				q, err := a.DivideToIntegralValue(n)
				require.NoError(t, err)
				r, err := a.Remainder(n)
				require.NoError(t, err)
				harness.SameAmount(t, q, qr[0], "quotient")
				harness.SameAmount(t, r, qr[1], "remainder")

				// a == q*n + r, |r| < |n|, and r has the sign of a
				back, err := q.Multiply(n)
				require.NoError(t, err)
				back, err = back.Add(r)
				require.NoError(t, err)
				harness.SameAmount(t, a, back, "q*n + r")
				divisor := expectation(n)
				assert.Negative(t, abs(r.Number().Rat()).Cmp(abs(divisor)), "remainder %s below divisor %s", r, divisor.RatString())
				assert.True(t, r.IsZero() || r.Signum() == a.Signum(), "remainder %s has the sign of %s", r, a)
				assert.Zero(t, q.Number().AmountFractionNumerator(), "integral quotient %s", q)

				d, err := a.Divide(n)
				require.NoError(t, err)
				harness.SameAmountType(t, s.AmountType, d)
			},
		},
		{
			ID:            ClauseAmount + "/scale-by-power-of-ten",
			Clause:        ClauseAmount,
			Title:         "ScaleByPowerOfTen moves the decimal point",
			FullPrecision: true,
			Dims:          harness.Dimensions{AmountTypes: true, Values: harness.FractionalValues},
			Run: func(t *harness.T, s *harness.Scenario) {
				a := t.Money(s.Value.N)
				want := expectation(s.Value.N)
				for _, p := range []int{0, 1, 2, -1, -3} {
					b, err := a.ScaleByPowerOfTen(p)
					require.NoError(t, err, "power %d", p)
					harness.AmountEquals(t, mulPow10(want, p), b, "power", itoa(p))
				}
				same, err := a.ScaleByPowerOfTen(0)
				require.NoError(t, err)
				harness.SameAmount(t, a, same)
			},
		},
		{
			ID:     ClauseAmount + "/unary",
			Clause: ClauseAmount,
			Title:  "Abs, Negate, Plus and StripTrailingZeros keep currency and type",
			Dims:   harness.Dimensions{AmountTypes: true, Values: harness.SignValues},
			Run: func(t *harness.T, s *harness.Scenario) {
				a := t.Money(s.Value.N)
				want := expectation(s.Value.N)
				neg := a.Negate()
				harness.AmountEquals(t, new(big.Rat).Neg(want), neg, "negate")
				harness.SameAmountType(t, s.AmountType, neg)
				harness.SameAmount(t, a, neg.Negate(), "double negation")
				harness.AmountEquals(t, abs(want), a.Abs(), "abs")
				assert.True(t, a.Abs().IsPositive(), "abs of %s", a)
				if a.IsPositive() {
					harness.SameInstance(t, a, a.Abs(), "abs of positive")
				}
				stripped := a.StripTrailingZeros()
				harness.SameAmount(t, a, stripped, "stripTrailingZeros")
				harness.SameAmountType(t, s.AmountType, stripped)
				assert.LessOrEqual(t, stripped.Number().Scale(), a.Number().Scale())
			},
		},
		{
			ID:     ClauseAmount + "/comparisons",
			Clause: ClauseAmount,
			Title:  "Comparisons are value based and agree with Compare",
			Dims:   everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				ordered := []monetary.MonetaryAmount{
					t.Money(-2), t.Money("-0.5"), t.Money(0), t.Money("0.01"), t.Money("1.5"), t.Money(100),
				}
				for i, a := range ordered {
					for j, b := range ordered {
						c, err := a.Compare(b)
						require.NoError(t, err)
						assert.Equal(t, sign(i-j), sign(c), "compare %s with %s", a, b)
						gt, err := a.IsGreaterThan(b)
						require.NoError(t, err)
						assert.Equal(t, i > j, gt, "%s > %s", a, b)
						ge, err := a.IsGreaterThanOrEqualTo(b)
						require.NoError(t, err)
						assert.Equal(t, i >= j, ge, "%s >= %s", a, b)
						lt, err := a.IsLessThan(b)
						require.NoError(t, err)
						assert.Equal(t, i < j, lt, "%s < %s", a, b)
						le, err := a.IsLessThanOrEqualTo(b)
						require.NoError(t, err)
						assert.Equal(t, i <= j, le, "%s <= %s", a, b)
						eq, err := a.IsEqualTo(b)
						require.NoError(t, err)
						assert.Equal(t, i == j, eq, "%s == %s", a, b)
					}
				}
				eq, err := t.Money("1.5").IsEqualTo(t.Money("1.50"))
				require.NoError(t, err)
				assert.True(t, eq, "1.5 and 1.50 are equal values")
			},
		},
		{
			ID:     ClauseAmount + "/compare-currencies",
			Clause: ClauseAmount,
			Title:  "Compare orders amounts of different currencies by currency code",
			Dims:   everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				chf := t.Amount(s.AmountType, "CHF", 100)
				usd := t.Amount(s.AmountType, "USD", 1)
				c, err := chf.Compare(usd)
				require.NoError(t, err)
				assert.Negative(t, c, "CHF 100 sorts before USD 1")
				c, err = usd.Compare(chf)
				require.NoError(t, err)
				assert.Positive(t, c, "USD 1 sorts after CHF 100")
			},
		},
		{
			ID:     ClauseAmount + "/equality",
			Clause: ClauseAmount,
			Title:  "Equal and Compare are consistent, equal inputs give equal amounts",
			Dims:   harness.Dimensions{AmountTypes: true, Values: harness.Concat(harness.SignValues, harness.IntegralValues, harness.BoundaryValues)},
			Run: func(t *harness.T, s *harness.Scenario) {
				a, b := t.FittedMoney(s.Value.N), t.FittedMoney(s.Value.N)
				assert.True(t, a.Equal(b), "%s equals %s", describe(a), describe(b))
				assert.True(t, b.Equal(a), "%s equals %s", describe(b), describe(a))
				assert.True(t, a.Equal(a), "reflexive")
				c, err := a.Compare(b)
				require.NoError(t, err)
				assert.Zero(t, c)

				// Step towards zero so that max and min stay in range.
				step := a.Subtract
				if a.IsNegative() {
					step = a.Add
				}
				other, err := step(t.Money(1))
				require.NoError(t, err)
				assert.False(t, a.Equal(other), "%s differs from %s", a, other)
				usd := t.FittedAmount("USD", s.Value.N)
				assert.False(t, a.Equal(usd), "%s differs from %s", a, usd)
			},
		},
		{
			ID:     ClauseAmount + "/immutability",
			Clause: ClauseAmount,
			Title:  "Operations never change their receiver or operands",
			Dims:   everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				a, b := t.Money("42.5"), t.Money("7.25")
				ops := map[string]func() (monetary.MonetaryAmount, error){
					"add":       func() (monetary.MonetaryAmount, error) { return a.Add(b) },
					"subtract":  func() (monetary.MonetaryAmount, error) { return a.Subtract(b) },
					"multiply":  func() (monetary.MonetaryAmount, error) { return a.Multiply(3) },
					"divide":    func() (monetary.MonetaryAmount, error) { return a.Divide(4) },
					"remainder": func() (monetary.MonetaryAmount, error) { return a.Remainder(4) },
					"negate":    func() (monetary.MonetaryAmount, error) { return a.Negate(), nil },
					"abs":       func() (monetary.MonetaryAmount, error) { return a.Negate().Abs(), nil },
					"scale":     func() (monetary.MonetaryAmount, error) { return a.ScaleByPowerOfTen(1) },
					"strip":     func() (monetary.MonetaryAmount, error) { return a.StripTrailingZeros(), nil },
				}
				for name, op := range ops {
					res, err := op()
					require.NoError(t, err, name)
					require.NotNil(t, res, name)
					harness.AmountEquals(t, "42.5", a, "receiver after "+name)
					harness.AmountEquals(t, "7.25", b, "operand after "+name)
				}
				_, err := a.Factory().WithNumber(99).Create()
				require.NoError(t, err)
				harness.AmountEquals(t, "42.5", a, "receiver after factory reuse")
			},
		},
		{
			ID:     ClauseAmount + "/with-query",
			Clause: ClauseAmount,
			Title:  "With applies operators and Query applies queries",
			Dims:   everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				a := t.Money(10)
				doubled, err := a.With(monetary.OperatorFunc(func(x monetary.MonetaryAmount) (monetary.MonetaryAmount, error) {
					return x.Multiply(2)
				}))
				require.NoError(t, err)
				harness.AmountEquals(t, 20, doubled)
				harness.SameAmountType(t, s.AmountType, doubled)

				code, err := a.Query(monetary.QueryFunc(func(x monetary.MonetaryAmount) (any, error) {
					return x.Currency().CurrencyCode(), nil
				}))
				require.NoError(t, err)
				assert.Equal(t, "CHF", code)

				_, err = a.With(monetary.OperatorFunc(func(monetary.MonetaryAmount) (monetary.MonetaryAmount, error) {
					return nil, monetary.ErrUnknownRounding
				}))
				harness.ErrorIs(t, monetary.ErrUnknownRounding, err, "operator error is returned")
			},
		},
		{
			ID:     ClauseAmount + "/foreign-operands",
			Clause: ClauseAmount,
			Title:  "Amounts of another registered type are accepted as operands",
			Dims:   everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				var other string
				for _, at := range t.Reg.AmountTypes() {
					if at != s.AmountType {
						other = at
						break
					}
				}
				if other == "" {
					t.Skip("a single amount type is registered")
				}
				a := t.Money("10.5")
				b := t.Amount(other, "CHF", "2.25")
				sum, err := a.Add(b)
				require.NoError(t, err)
				harness.SameAmountType(t, s.AmountType, sum)
				harness.AmountEquals(t, "12.75", sum)
				diff, err := a.Subtract(b)
				require.NoError(t, err)
				harness.AmountEquals(t, "8.25", diff)
				gt, err := a.IsGreaterThan(b)
				require.NoError(t, err)
				assert.True(t, gt, "%s > %s", describe(a), describe(b))
				eq, err := a.IsEqualTo(t.Amount(other, "CHF", "10.5"))
				require.NoError(t, err)
				assert.True(t, eq, "%s and its %s twin", describe(a), other)
				assert.False(t, a.Equal(t.Amount(other, "CHF", "10.5")), "Equal across types")
			},
		},
	}
}
