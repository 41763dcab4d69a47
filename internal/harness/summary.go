package harness

import (
	"sort"

	"github.com/roach88/moneytck/internal/clause"
)

// Summary counts scenario outcomes.
type Summary struct {
	Total    int       `json:"total"`
	Passed   int       `json:"passed"`
	Failed   int       `json:"failed"`
	Errored  int       `json:"errored"`
	Skipped  int       `json:"skipped"`
	Pending  int       `json:"pending"`
	Failures []Failure `json:"failures,omitempty"`
}

// Failure is a failed or errored scenario.
type Failure struct {
	Clause   string `json:"clause"`
	Scenario string `json:"scenario"`
	Error    string `json:"error"`
}

// Add counts r.
func (s *Summary) Add(r ScenarioResult) {
	s.Total++
	switch r.Status {
	case StatusPass:
		s.Passed++
	case StatusFail:
		s.Failed++
	case StatusError:
		s.Errored++
	case StatusSkip:
		s.Skipped++
	case StatusPending:
		s.Pending++
	}
	if r.Status == StatusFail || r.Status == StatusError {
		s.Failures = append(s.Failures, Failure{Clause: r.Clause, Scenario: r.Name, Error: r.Message})
	}
}

// OK reports whether the summarized run passes. Pending scenarios fail
// the run only in strict mode.
func (s Summary) OK(strict bool) bool {
	if s.Failed > 0 || s.Errored > 0 {
		return false
	}
	return !strict || s.Pending == 0
}

// Summarize counts results overall and per clause.
func Summarize(results []ScenarioResult) (Summary, map[string]*Summary) {
	var total Summary
	byClause := make(map[string]*Summary)
	for _, r := range results {
		total.Add(r)
		cs, ok := byClause[r.Clause]
		if !ok {
			cs = &Summary{}
			byClause[r.Clause] = cs
		}
		cs.Add(r)
	}
	return total, byClause
}

// Clauses returns the keys of a per-clause summary in clause order.
func Clauses(byClause map[string]*Summary) []string {
	out := make([]string, 0, len(byClause))
	for c := range byClause {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return clause.Compare(out[i], out[j]) < 0 })
	return out
}
