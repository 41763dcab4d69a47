// Package report aggregates the results of one run into a Report and
// renders it as text or JSON.
//
// A report carries a digest of its outcome: the configuration name, the
// strict flag, the filters and every scenario result, hashed over
// canonical JSON. Two runs of the same configuration with the same
// options have the same digest, whatever their run IDs and timestamps.
package report

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/moneytck/internal/clause"
	"github.com/roach88/moneytck/internal/harness"
	"github.com/roach88/moneytck/internal/ir"
)

// Run describes a finished run.
type Run struct {
	// ID is the run ID. When empty, New assigns a UUIDv7.
	ID            string
	Configuration string
	Strict        bool
	Filters       []string
	StartedAt     time.Time
	FinishedAt    time.Time
	Results       []harness.ScenarioResult
}

// Report is the outcome of one run.
type Report struct {
	RunID         string                   `json:"run_id"`
	Configuration string                   `json:"configuration"`
	StartedAt     time.Time                `json:"started_at"`
	FinishedAt    time.Time                `json:"finished_at"`
	Strict        bool                     `json:"strict"`
	Filters       []string                 `json:"filters,omitempty"`
	Passed        bool                     `json:"passed"`
	Summary       harness.Summary          `json:"summary"`
	Clauses       []ClauseSummary          `json:"clauses"`
	Results       []harness.ScenarioResult `json:"results"`
	Digest        string                   `json:"digest"`
}

// ClauseSummary counts the outcomes of one clause.
type ClauseSummary struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Summary harness.Summary `json:"summary"`
}

// New builds the report of run. Clause titles come from catalog; clauses
// missing from it are titled by their ID.
func New(run Run, catalog *clause.Catalog) (*Report, error) {
	id := run.ID
	if id == "" {
		u, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("generate run ID: %w", err)
		}
		id = u.String()
	}

	total, byClause := harness.Summarize(run.Results)
	clauses := make([]ClauseSummary, 0, len(byClause))
	for _, c := range harness.Clauses(byClause) {
		title := c
		if catalog != nil {
			title = catalog.Title(c)
		}
		clauses = append(clauses, ClauseSummary{ID: c, Title: title, Summary: *byClause[c]})
	}

	results := slices.Clone(run.Results)
	if results == nil {
		results = []harness.ScenarioResult{}
	}
	r := &Report{
		RunID:         id,
		Configuration: run.Configuration,
		StartedAt:     run.StartedAt.UTC(),
		FinishedAt:    run.FinishedAt.UTC(),
		Strict:        run.Strict,
		Filters:       slices.Clone(run.Filters),
		Passed:        total.OK(run.Strict),
		Summary:       total,
		Clauses:       clauses,
		Results:       results,
	}
	digest, err := Digest(r)
	if err != nil {
		return nil, err
	}
	r.Digest = digest
	return r, nil
}

// Digest hashes the outcome of r. Run ID, timestamps and durations are
// not part of it.
func Digest(r *Report) (string, error) {
	results := make([]any, len(r.Results))
	for i, res := range r.Results {
		m := map[string]any{
			"id":     res.ID,
			"check":  res.CheckID,
			"clause": res.Clause,
			"status": string(res.Status),
		}
		if res.Message != "" {
			m["message"] = res.Message
		}
		results[i] = m
	}
	filters := r.Filters
	if filters == nil {
		filters = []string{}
	}
	return ir.Digest(map[string]any{
		"configuration": r.Configuration,
		"strict":        r.Strict,
		"filters":       filters,
		"results":       results,
	})
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Pending returns the pending results in run order.
func (r *Report) Pending() []harness.ScenarioResult {
	var out []harness.ScenarioResult
	for _, res := range r.Results {
		if res.Status == harness.StatusPending {
			out = append(out, res)
		}
	}
	return out
}

// Parse decodes a report written by WriteJSON and verifies its digest.
func Parse(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	want, err := Digest(&r)
	if err != nil {
		return nil, err
	}
	if r.Digest != want {
		return nil, fmt.Errorf("report %s: digest mismatch: stored %s, computed %s", r.RunID, r.Digest, want)
	}
	return &r, nil
}
