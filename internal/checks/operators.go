package checks

import (
	"fmt"
	"slices"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moneytck/internal/harness"
)

func operatorChecks() []*harness.Check {
	return []*harness.Check{
		{
			ID:     ClauseOperators + "/registered",
			Clause: ClauseOperators,
			Title:  "Registered operators return amounts of a registered type",
			Dims:   harness.Dimensions{AmountTypes: true, Values: harness.Concat(harness.SignValues, harness.ZeroValues)},
			Run: func(t *harness.T, s *harness.Scenario) {
				ops := t.Reg.Operators()
				if len(ops) == 0 {
					t.Skip("no operators registered")
				}
				types := t.Reg.AmountTypes()
				a := t.Money(s.Value.N)
				for i, op := range ops {
					name := fmt.Sprintf("operator %d (%T)", i, op)
					harness.NoPanic(t, func() {
						got, err := a.With(op)
						require.NoError(t, err, name)
						require.NotNil(t, got, name)
						assert.True(t, slices.Contains(types, got.Context().AmountType),
							"%s returned unregistered type %s", name, got.Context().AmountType)
						assert.NotEmpty(t, got.String(), name)
					}, name)
				}
			},
		},
	}
}
