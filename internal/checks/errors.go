package checks

import (
	"errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moneytck/internal/harness"
	"github.com/roach88/moneytck/pkg/monetary"
)

func errorChecks() []*harness.Check {
	return []*harness.Check{
		{
			ID:     ClauseErrors + "/common-root",
			Clause: ClauseErrors,
			Title:  "Registered error kinds share the monetary root error",
			Run: func(t *harness.T, s *harness.Scenario) {
				kinds := t.Reg.ErrorKinds()
				require.NotEmpty(t, kinds)
				for _, e := range kinds {
					assert.ErrorIs(t, e, monetary.ErrMonetary)
				}
			},
		},
		{
			ID:     ClauseErrors + "/taxonomy",
			Clause: ClauseErrors,
			Title:  "Errors raised by the implementation classify into the taxonomy",
			Dims:   everyType,
			Run: func(t *harness.T, s *harness.Scenario) {
				_, err := t.Factory(s.AmountType).WithCurrencyCode("XYZ").WithNumber(1).Create()
				harness.ErrorKind(t, monetary.KindCurrency, err, "unknown currency")
				assert.ErrorIs(t, err, monetary.ErrMonetary, "currency errors are monetary errors")

				_, err = t.Money(1).Divide(0)
				harness.ErrorKind(t, monetary.KindArithmetic, err, "divide by zero")
				assert.False(t, errors.Is(err, monetary.ErrNullArgument))

				_, err = t.Factory(s.AmountType).WithCurrency(nil).WithNumber(1).Create()
				harness.ErrorKind(t, monetary.KindNullArgument, err, "nil currency")

				_, err = t.Reg.Rounding(monetary.QueryByName("NO-SUCH-ROUNDING"))
				harness.ErrorKind(t, monetary.KindDomain, err, "unknown rounding")
			},
		},
	}
}
