package checks

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moneytck/internal/harness"
)

func contextChecks() []*harness.Check {
	return []*harness.Check{
		{
			ID:     ClauseContext + "/default-within-maximal",
			Clause: ClauseContext,
			Title:  "The default context never exceeds the maximal context",
			Dims:   everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				f := t.Factory(s.AmountType)
				def, maxCtx := f.DefaultContext(), f.MaximalContext()
				assert.True(t, maxCtx.Covers(def), "%v covers %v", maxCtx, def)
				assert.Equal(t, s.AmountType, def.AmountType)
				assert.Equal(t, s.AmountType, maxCtx.AmountType)
				assert.GreaterOrEqual(t, def.Precision, 0)
				assert.GreaterOrEqual(t, def.MaxScale, -1)
			},
		},
		{
			ID:     ClauseContext + "/amount-context",
			Clause: ClauseContext,
			Title:  "Amounts report the context they were created with",
			Dims:   everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				f := t.Factory(s.AmountType)
				a := t.Money(1)
				assert.Equal(t, f.DefaultContext(), a.Context(), "context of %s", describe(a))

				maxCtx := f.MaximalContext()
				b := t.Amount(s.AmountType, "CHF", 1, maxCtx)
				assert.Equal(t, maxCtx, b.Context(), "context of %s", describe(b))
				sum, err := b.Add(b)
				require.NoError(t, err)
				assert.Equal(t, maxCtx, sum.Context(), "results keep the receiver's context")
			},
		},
	}
}
