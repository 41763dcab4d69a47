package harness

import (
	"time"

	"github.com/roach88/moneytck/pkg/monetary"
)

// Check is one contract check. Checks are independent: the runner
// enumerates a scenario per combination of the check's dimensions and
// runs each scenario in isolation.
type Check struct {
	// ID is unique across the suite, e.g. "4.2.2/add-neutral".
	ID string

	// Clause is the clause the check belongs to, e.g. "4.2.2".
	Clause string

	// Title is a one line description.
	Title string

	// FullPrecision marks checks that stub amount types cannot pass.
	// Stub types are skipped for these checks.
	FullPrecision bool

	// Pending, when set, is the reason the check is a placeholder.
	// Pending checks are reported, never run.
	Pending string

	// Dims declares the dimensions of the scenario cross product.
	Dims Dimensions

	// Run executes one scenario. Failures are reported through t.
	Run func(t *T, s *Scenario)
}

// Dimensions declares what a check is enumerated over. A zero value
// dimension contributes a single empty entry to the cross product.
type Dimensions struct {
	// AmountTypes enumerates every registered amount type.
	AmountTypes bool

	// Values supplies input values per amount type.
	Values ValueSource

	// Currencies enumerates the given codes. An empty code stands for
	// "no currency".
	Currencies []string

	// RoundingProviders enumerates every registered rounding provider.
	RoundingProviders bool

	// RateProviders enumerates every registered exchange rate provider.
	RateProviders bool
}

// Status is the outcome of one scenario.
type Status string

// Scenario outcomes.
const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusSkip    Status = "skip"
	StatusPending Status = "pending"
	// StatusError marks a scenario aborted by a panic in the
	// implementation under test.
	StatusError Status = "error"
)

// Scenario is one enumerated combination of a check's dimensions.
type Scenario struct {
	ID    string
	Name  string
	Check *Check

	AmountType string
	Value      Value
	HasValue   bool
	Currency   string
	Rounding   monetary.RoundingProvider
	Rates      monetary.ExchangeRateProvider

	// Skip, when set, is the reason the scenario is not run.
	Skip string
}

// ScenarioResult is the outcome of running one scenario.
type ScenarioResult struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	CheckID  string        `json:"check"`
	Clause   string        `json:"clause"`
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"-"`
}

// Failed reports whether the result counts against the run. Pending
// results count only in strict mode.
func (r ScenarioResult) Failed(strict bool) bool {
	switch r.Status {
	case StatusFail, StatusError:
		return true
	case StatusPending:
		return strict
	}
	return false
}
