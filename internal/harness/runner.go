package harness

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/moneytck/internal/setup"
)

// Observer is notified of every finished scenario.
type Observer interface {
	ScenarioFinished(r ScenarioResult)
}

// Options control a run.
type Options struct {
	// Filters select checks by glob pattern on the check ID, or by
	// clause prefix ("4.2.2" selects every 4.2.2 check). Empty selects all.
	Filters []string

	// Strict counts pending scenarios as failures.
	Strict bool

	// Observers are notified in order.
	Observers []Observer
}

// Runner executes checks against a registry. Scenarios run one at a time,
// in enumeration order.
type Runner struct {
	reg    *setup.Registry
	logger *zap.Logger
	opts   Options
}

// NewRunner creates a runner. A nil logger disables logging.
func NewRunner(reg *setup.Registry, logger *zap.Logger, opts Options) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{reg: reg, logger: logger, opts: opts}
}

// Select returns the checks matching the runner's filters.
func (r *Runner) Select(checks []*Check) ([]*Check, error) {
	if len(r.opts.Filters) == 0 {
		return checks, nil
	}
	var out []*Check
	for _, c := range checks {
		ok, err := matches(c, r.opts.Filters)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func matches(c *Check, filters []string) (bool, error) {
	for _, f := range filters {
		if c.Clause == f || strings.HasPrefix(c.Clause, f+".") {
			return true, nil
		}
		ok, err := filepath.Match(f, c.ID)
		if err != nil {
			return false, fmt.Errorf("invalid filter pattern %q: %w", f, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Run selects, enumerates and executes checks.
//
// Execution flow:
// 1. Select checks by filter
// 2. Enumerate scenarios
// 3. Run each scenario, recovering panics from the implementation
// 4. Notify observers and collect results
//
// Run stops early, returning the results so far, when ctx is done.
func (r *Runner) Run(ctx context.Context, checks []*Check) ([]ScenarioResult, error) {
	selected, err := r.Select(checks)
	if err != nil {
		return nil, err
	}
	scenarios, err := Enumerate(r.reg, selected)
	if err != nil {
		return nil, err
	}
	r.logger.Info("run started",
		zap.String("configuration", r.reg.Name()),
		zap.Int("checks", len(selected)),
		zap.Int("scenarios", len(scenarios)),
	)

	results := make([]ScenarioResult, 0, len(scenarios))
	for _, s := range scenarios {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := r.RunScenario(s)
		for _, o := range r.opts.Observers {
			o.ScenarioFinished(res)
		}
		results = append(results, res)
	}

	failed := 0
	for _, res := range results {
		if res.Failed(r.opts.Strict) {
			failed++
		}
	}
	r.logger.Info("run finished",
		zap.Int("scenarios", len(results)),
		zap.Int("failed", failed),
		zap.Bool("strict", r.opts.Strict),
	)
	return results, nil
}

// RunScenario executes one scenario.
func (r *Runner) RunScenario(s *Scenario) (res ScenarioResult) {
	res = ScenarioResult{ID: s.ID, Name: s.Name, CheckID: s.Check.ID, Clause: s.Check.Clause}
	switch {
	case s.Check.Pending != "":
		res.Status, res.Message = StatusPending, s.Check.Pending
		return res
	case s.Skip != "":
		res.Status, res.Message = StatusSkip, s.Skip
		return res
	}

	t := newT(r.reg, r.logger.With(zap.String("scenario", s.Name)), s)
	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
		rec := recover()
		switch {
		case rec == nil && !t.Failed():
			res.Status = StatusPass
		case isSkipNow(rec) && !t.Failed():
			res.Status, res.Message = StatusSkip, rec.(skipNow).reason
		case rec == nil, isFailNow(rec), isSkipNow(rec):
			res.Status = StatusFail
			res.Message = strings.Join(t.failures, "\n")
		default:
			res.Status = StatusError
			res.Message = fmt.Sprintf("panic: %v", rec)
			r.logger.Debug("scenario panicked", zap.String("scenario", s.Name), zap.ByteString("stack", debug.Stack()))
		}
		r.logger.Debug("scenario finished",
			zap.String("scenario", s.Name),
			zap.String("status", string(res.Status)),
			zap.Duration("duration", res.Duration),
		)
	}()
	s.Check.Run(t, s)
	return res
}

func isFailNow(v any) bool {
	_, ok := v.(failNow)
	return ok
}

func isSkipNow(v any) bool {
	_, ok := v.(skipNow)
	return ok
}
