package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moneytck/internal/refimpl/bigamount"
)

func TestSummarize(t *testing.T) {
	results := []ScenarioResult{
		{Name: "4.10/a", Clause: "4.10", Status: StatusPass},
		{Name: "4.2/a", Clause: "4.2", Status: StatusFail, Message: "bad"},
		{Name: "4.2/b", Clause: "4.2", Status: StatusError, Message: "panic: x"},
		{Name: "4.2.1/a", Clause: "4.2.1", Status: StatusSkip},
		{Name: "4.4/a", Clause: "4.4", Status: StatusPending},
	}

	total, byClause := Summarize(results)
	assert.Equal(t, 5, total.Total)
	assert.Equal(t, 1, total.Passed)
	assert.Equal(t, 1, total.Failed)
	assert.Equal(t, 1, total.Errored)
	assert.Equal(t, 1, total.Skipped)
	assert.Equal(t, 1, total.Pending)
	assert.Equal(t, []Failure{
		{Clause: "4.2", Scenario: "4.2/a", Error: "bad"},
		{Clause: "4.2", Scenario: "4.2/b", Error: "panic: x"},
	}, total.Failures)

	require.Contains(t, byClause, "4.2")
	assert.Equal(t, 2, byClause["4.2"].Total)
	assert.Len(t, byClause["4.2"].Failures, 2)

	assert.Equal(t, []string{"4.2", "4.2.1", "4.4", "4.10"}, Clauses(byClause), "clauses sort numerically")
}

func TestSummary_OK(t *testing.T) {
	tests := []struct {
		name   string
		s      Summary
		lax    bool
		strict bool
	}{
		{"all pass", Summary{Total: 2, Passed: 2}, true, true},
		{"skips pass", Summary{Total: 2, Passed: 1, Skipped: 1}, true, true},
		{"pending", Summary{Total: 2, Passed: 1, Pending: 1}, true, false},
		{"failure", Summary{Total: 1, Failed: 1}, false, false},
		{"error", Summary{Total: 1, Errored: 1}, false, false},
		{"empty", Summary{}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.lax, tt.s.OK(false))
			assert.Equal(t, tt.strict, tt.s.OK(true))
		})
	}
}

func TestAssertGolden(t *testing.T) {
	results, err := NewRunner(testRegistry(t, bigamount.AmountType), nil, Options{}).Run(context.Background(), outcomeChecks())
	require.NoError(t, err)
	require.NoError(t, AssertGolden(t, "outcomes", results))
}
