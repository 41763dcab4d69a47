package harness

import (
	"fmt"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roach88/moneytck/internal/setup"
	"github.com/roach88/moneytck/pkg/monetary"
)

// failNow is the panic value FailNow unwinds a scenario with.
type failNow struct{}

// skipNow unwinds a scenario that cannot apply to the registration.
type skipNow struct{ reason string }

// T is the context of one scenario. It implements require.TestingT, so
// checks use testify assertions directly; a failed require call aborts
// the scenario, a failed assert call records the failure and continues.
type T struct {
	Reg    *setup.Registry
	Logger *zap.Logger

	scenario *Scenario
	failures []string
}

var _ require.TestingT = (*T)(nil)

func newT(reg *setup.Registry, logger *zap.Logger, s *Scenario) *T {
	return &T{Reg: reg, Logger: logger, scenario: s}
}

// Errorf records a failure.
func (t *T) Errorf(format string, args ...any) {
	t.failures = append(t.failures, fmt.Sprintf(format, args...))
}

// FailNow aborts the scenario.
func (t *T) FailNow() {
	panic(failNow{})
}

// Skip stops the scenario and reports it as skipped.
func (t *T) Skip(reason string) {
	panic(skipNow{reason: reason})
}

// Helper is a no-op; it lets T stand in for testing.TB in helpers.
func (t *T) Helper() {}

// Fail records err as an AssertionError and aborts the scenario.
func (t *T) Fail(err *AssertionError) {
	err.Clause = t.scenario.Check.Clause
	err.Check = t.scenario.Check.ID
	t.Errorf("%s", err.Error())
	t.FailNow()
}

// Failed reports whether a failure was recorded.
func (t *T) Failed() bool { return len(t.failures) > 0 }

// Scenario returns the scenario being run.
func (t *T) Scenario() *Scenario { return t.scenario }

// Factory returns a new factory for amountType, aborting on error.
func (t *T) Factory(amountType string) monetary.AmountFactory {
	f, err := t.Reg.AmountFactory(amountType)
	require.NoError(t, err, "acquire factory for %s", amountType)
	return f
}

// Currency resolves code, aborting on error.
func (t *T) Currency(code string) monetary.CurrencyUnit {
	c, err := t.Reg.Currency(code)
	require.NoError(t, err, "resolve currency %s", code)
	return c
}

// Amount creates an amount of amountType through the factory:
// WithCurrency, WithNumber and, when given, WithContext. Unexpected
// creation errors abort the scenario.
func (t *T) Amount(amountType, currency string, number any, ctx ...monetary.MonetaryContext) monetary.MonetaryAmount {
	a, err := t.TryAmount(amountType, currency, number, ctx...)
	if err != nil {
		t.Fail(&AssertionError{
			Expected: fmt.Sprintf("%s %s %v created", amountType, currency, number),
			Actual:   err.Error(),
		})
	}
	return a
}

// TryAmount is like Amount but returns the creation error.
func (t *T) TryAmount(amountType, currency string, number any, ctx ...monetary.MonetaryContext) (monetary.MonetaryAmount, error) {
	f := t.Factory(amountType).WithCurrency(t.Currency(currency)).WithNumber(number)
	if len(ctx) > 0 {
		f = f.WithContext(ctx[0])
	}
	return f.Create()
}

// Money creates an amount for the scenario's amount type and currency.
func (t *T) Money(number any) monetary.MonetaryAmount {
	cur := t.scenario.Currency
	if cur == "" {
		cur = "CHF"
	}
	return t.Amount(t.scenario.AmountType, cur, number)
}

// FittedMoney is like Money but for boundary numbers: see FittedAmount.
func (t *T) FittedMoney(number any) monetary.MonetaryAmount {
	cur := t.scenario.Currency
	if cur == "" {
		cur = "CHF"
	}
	return t.FittedAmount(cur, number)
}

// FittedAmount creates number in currency for the scenario's amount
// type. A number outside the default context is created in the maximal
// context, and the scenario is skipped when even that has no room for it.
func (t *T) FittedAmount(currency string, number any) monetary.MonetaryAmount {
	amountType := t.scenario.AmountType
	r, ok := Rat(number)
	if !ok || !terminates(r) {
		return t.Amount(amountType, currency, number)
	}
	f := t.Factory(amountType)
	precision, scale := Shape(r)
	if f.DefaultContext().Fits(precision, scale) {
		return t.Amount(amountType, currency, number)
	}
	maximal := f.MaximalContext()
	if !maximal.Fits(precision, scale) {
		t.Skip(fmt.Sprintf("%s has no room for %v within %v", amountType, number, maximal))
	}
	return t.Amount(amountType, currency, number, maximal)
}
