// Package tck is the entry point for vendors certifying an implementation
// of package monetary.
//
// A vendor implements Configuration and either runs the suite from a Go
// test:
//
//	func TestConformance(t *testing.T) {
//		tck.RunT(t, acme.Configuration{})
//	}
//
// or builds a moneytck binary around it:
//
//	func main() { tck.Main(acme.Configuration{}) }
package tck

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/moneytck/internal/checks"
	"github.com/roach88/moneytck/internal/cli"
	"github.com/roach88/moneytck/internal/clause"
	"github.com/roach88/moneytck/internal/config"
	"github.com/roach88/moneytck/internal/harness"
	"github.com/roach88/moneytck/internal/report"
	"github.com/roach88/moneytck/internal/setup"
)

// Configuration injects the implementation under test.
type Configuration = setup.Configuration

// Optional extensions of Configuration.
type (
	FormatProviders = setup.FormatProviders
	StubAmountTypes = setup.StubAmountTypes
	Named           = setup.Named
)

// ConfigurationError reports a Configuration rejected before any check
// runs.
type ConfigurationError = setup.Error

// Report is the outcome of a run.
type Report = report.Report

// ScenarioResult is the outcome of one scenario.
type ScenarioResult = harness.ScenarioResult

// Options control Run.
type Options struct {
	// Filters select checks by clause prefix ("4.2.2") or check ID glob
	// ("4.2.7/*"). Empty selects all.
	Filters []string

	// Strict counts pending scenarios as failures.
	Strict bool

	// Logger receives progress. Nil disables logging.
	Logger *zap.Logger
}

// Run runs the suite against cfg and returns the report. A rejected
// configuration is returned as a *ConfigurationError.
func Run(ctx context.Context, cfg Configuration, opts Options) (*Report, error) {
	reg, err := setup.NewRegistry(cfg)
	if err != nil {
		return nil, err
	}
	catalog, err := clause.Default()
	if err != nil {
		return nil, fmt.Errorf("load clause catalog: %w", err)
	}
	suite, err := checks.All()
	if err != nil {
		return nil, fmt.Errorf("build checks: %w", err)
	}

	runner := harness.NewRunner(reg, opts.Logger, harness.Options{Filters: opts.Filters, Strict: opts.Strict})
	started := time.Now()
	results, err := runner.Run(ctx, suite)
	if err != nil {
		return nil, err
	}
	return report.New(report.Run{
		Configuration: reg.Name(),
		Strict:        opts.Strict,
		Filters:       opts.Filters,
		StartedAt:     started,
		FinishedAt:    time.Now(),
		Results:       results,
	}, catalog)
}

// RunT runs the suite against cfg as subtests of t, one per scenario.
// Failed and errored scenarios fail their subtest; skipped and pending
// scenarios skip it. filters select checks as Options.Filters does.
func RunT(t *testing.T, cfg Configuration, filters ...string) {
	t.Helper()
	reg, err := setup.NewRegistry(cfg)
	if err != nil {
		t.Fatalf("moneytck: %v", err)
	}
	suite, err := checks.All()
	if err != nil {
		t.Fatalf("moneytck: build checks: %v", err)
	}

	runner := harness.NewRunner(reg, nil, harness.Options{Filters: filters})
	selected, err := runner.Select(suite)
	if err != nil {
		t.Fatalf("moneytck: %v", err)
	}
	scenarios, err := harness.Enumerate(reg, selected)
	if err != nil {
		t.Fatalf("moneytck: %v", err)
	}

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			res := runner.RunScenario(s)
			switch res.Status {
			case harness.StatusFail:
				t.Errorf("[%s] %s", res.Clause, res.Message)
			case harness.StatusError:
				t.Errorf("[%s] implementation error: %s", res.Clause, res.Message)
			case harness.StatusSkip:
				t.Skip(res.Message)
			case harness.StatusPending:
				t.Skip("pending: " + res.Message)
			}
		})
	}
}

// Main runs the moneytck command with cfg as the configuration under
// test and exits. cfg is selected by default under its Name, or
// "vendor" when it has none.
func Main(cfg Configuration) {
	name := "vendor"
	if n, ok := cfg.(Named); ok && n.Name() != "" {
		name = n.Name()
	}
	configurations := cli.DefaultConfigurations()
	configurations[name] = func(*config.Config) (setup.Configuration, error) { return cfg, nil }

	if err := cli.NewRootCommandWith(configurations, name).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
