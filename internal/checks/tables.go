package checks

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moneytck/internal/harness"
	"github.com/roach88/moneytck/pkg/monetary"
)

//go:embed tables/*.yaml
var tableFS embed.FS

// tableChecks turns every embedded scenario table into a check that runs
// its cases against each amount type.
func tableChecks() ([]*harness.Check, error) {
	paths, err := fs.Glob(tableFS, "tables/*.yaml")
	if err != nil {
		return nil, err
	}
	var out []*harness.Check
	for _, p := range paths {
		data, err := tableFS.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		table, err := harness.ParseScenarioTable(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		out = append(out, TableCheck(table))
	}
	return out, nil
}

// TableCheck returns the check running the cases of table.
func TableCheck(table *harness.ScenarioTable) *harness.Check {
	return &harness.Check{
		ID:            ClauseAmount + "/table-" + table.Name,
		Clause:        ClauseAmount,
		Title:         table.Description,
		FullPrecision: table.FullPrecision,
		Dims:          everyType,
		Run: func(t *harness.T, s *harness.Scenario) {
			for _, c := range table.Cases {
				runCase(t, s.AmountType, c)
			}
		},
	}
}

func runCase(t *harness.T, amountType string, c harness.TableCase) {
	a := t.Amount(amountType, c.Currency, c.Amount)
	got, err := applyCase(t, amountType, a, c)
	if c.Error != "" {
		harness.ErrorKind(t, c.ErrorKindOf(), err, c.Name)
		return
	}
	require.NoError(t, err, c.Name)
	harness.AmountEquals(t, c.Expect, got, c.Name)
	assert.Equal(t, c.Currency, got.Currency().CurrencyCode(), c.Name)
	harness.SameAmountType(t, amountType, got, c.Name)
}

func applyCase(t *harness.T, amountType string, a monetary.MonetaryAmount, c harness.TableCase) (monetary.MonetaryAmount, error) {
	switch c.Op {
	case harness.OpAdd:
		return a.Add(t.Amount(amountType, c.Currency, c.Operand))
	case harness.OpSubtract:
		return a.Subtract(t.Amount(amountType, c.Currency, c.Operand))
	case harness.OpMultiply:
		return a.Multiply(c.Operand)
	case harness.OpDivide:
		return a.Divide(c.Operand)
	case harness.OpRemainder:
		return a.Remainder(c.Operand)
	case harness.OpDivideToIntegralValue:
		return a.DivideToIntegralValue(c.Operand)
	case harness.OpScaleByPowerOfTen:
		return a.ScaleByPowerOfTen(c.Power)
	case harness.OpNegate:
		return a.Negate(), nil
	case harness.OpAbs:
		return a.Abs(), nil
	}
	return nil, fmt.Errorf("unknown op %q", c.Op)
}
