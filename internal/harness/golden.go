package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/moneytck/internal/ir"
)

// outcomeSnapshot converts results to a map for canonical JSON
// serialization. Only names and statuses are kept: durations and
// messages vary between runs and implementations.
func outcomeSnapshot(name string, results []ScenarioResult) map[string]any {
	outcomes := make(map[string]any, len(results))
	for _, r := range results {
		outcomes[r.Name] = string(r.Status)
	}
	return map[string]any{
		"name":     name,
		"outcomes": outcomes,
	}
}

// AssertGolden compares the outcome of every scenario against a golden
// file stored in testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func AssertGolden(t *testing.T, name string, results []ScenarioResult) error {
	t.Helper()

	data, err := ir.MarshalCanonical(outcomeSnapshot(name, results))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
