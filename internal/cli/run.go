package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/moneytck/internal/checks"
	"github.com/roach88/moneytck/internal/clause"
	"github.com/roach88/moneytck/internal/config"
	"github.com/roach88/moneytck/internal/harness"
	"github.com/roach88/moneytck/internal/metrics"
	"github.com/roach88/moneytck/internal/report"
	"github.com/roach88/moneytck/internal/setup"
	"github.com/roach88/moneytck/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Filters     []string // clause prefixes or check ID globs
	Strict      bool     // pending scenarios fail the run
	AmountTypes []string // restrict the reference amount types
	Store       bool     // save the run to the history store
	ReportFile  string   // also write the JSON report here
	MetricsFile string   // write Prometheus metrics in text format here
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the conformance suite",
		Long: `Run the contract checks against the selected configuration.

Every check is enumerated over its scenario dimensions (amount type,
input value, currency, rounding and rate provider) and each scenario
is reported as pass, fail, error, skip or pending.

Exit codes:
  0 - All scenarios passed (pending allowed unless --strict)
  1 - One or more scenarios failed or errored
  2 - Command error (invalid config, setup error, store unreachable)

Examples:
  moneytck run
  moneytck run --filter 4.2.2 --filter "4.2.7/*"
  moneytck run --strict --store
  moneytck run --format json --report-file report.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(cmd, opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Filters, "filter", nil, "select checks by clause prefix or check ID glob (repeatable)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "count pending scenarios as failures")
	cmd.Flags().StringSliceVar(&opts.AmountTypes, "amount-types", nil, "amount types to register (reference configuration)")
	cmd.Flags().BoolVar(&opts.Store, "store", false, "save the run to the history store")
	cmd.Flags().StringVar(&opts.ReportFile, "report-file", "", "write the JSON report to a file")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write run metrics in Prometheus text format to a file")

	return cmd
}

// applyFlags overrides cfg with the flags set on cmd.
func (o *RunOptions) applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("filter") {
		cfg.Filters = append(cfg.Filters, o.Filters...)
	}
	if flags.Changed("strict") {
		cfg.Strict = o.Strict
	}
	if flags.Changed("amount-types") {
		cfg.AmountTypes = o.AmountTypes
	}
	if flags.Changed("store") {
		cfg.Store.Enabled = o.Store
	}
	if err := config.Validate(cfg); err != nil {
		return WrapExitError(ExitCommandError, "invalid suite config", err)
	}
	return nil
}

func runSuite(cmd *cobra.Command, opts *RunOptions) error {
	out := opts.formatter(cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return reportError(out, CodeConfig, err)
	}
	if err := opts.applyFlags(cmd, cfg); err != nil {
		return reportError(out, CodeConfig, err)
	}

	log, cleanup, err := opts.logger(cmd, cfg)
	if err != nil {
		return reportError(out, CodeConfig, err)
	}
	defer cleanup()

	conf, err := opts.configuration(cfg)
	if err != nil {
		return reportError(out, CodeSetup, err)
	}
	reg, err := setup.NewRegistry(conf)
	if err != nil {
		return reportError(out, CodeSetup, WrapExitError(ExitCommandError, "configuration rejected", err))
	}
	catalog, err := clause.Default()
	if err != nil {
		return reportError(out, CodeSetup, WrapExitError(ExitCommandError, "failed to load clause catalog", err))
	}
	suite, err := checks.All()
	if err != nil {
		return reportError(out, CodeSetup, WrapExitError(ExitCommandError, "failed to build checks", err))
	}

	promReg := prometheus.NewRegistry()
	m, err := metrics.New(promReg)
	if err != nil {
		return reportError(out, CodeSetup, WrapExitError(ExitCommandError, "failed to register metrics", err))
	}

	ctx, stop := signalContext(cmd, log)
	defer stop()

	runner := harness.NewRunner(reg, log, harness.Options{
		Filters:   cfg.Filters,
		Strict:    cfg.Strict,
		Observers: []harness.Observer{m},
	})

	suite, err = runner.Select(suite)
	if err != nil {
		return reportError(out, CodeConfig, WrapExitError(ExitCommandError, "invalid filter", err))
	}

	out.VerboseLog("Running %d checks against %s", len(suite), reg.Name())
	started := time.Now()
	results, err := runner.Run(ctx, suite)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return reportError(out, CodeRunFailed, WrapExitError(ExitCommandError, "run interrupted", err))
		}
		return reportError(out, CodeRunFailed, WrapExitError(ExitCommandError, "run failed", err))
	}

	rep, err := report.New(report.Run{
		Configuration: reg.Name(),
		Strict:        cfg.Strict,
		Filters:       cfg.Filters,
		StartedAt:     started,
		FinishedAt:    time.Now(),
		Results:       results,
	}, catalog)
	if err != nil {
		return reportError(out, CodeRunFailed, WrapExitError(ExitCommandError, "failed to build report", err))
	}
	m.RunFinished(rep)

	if cfg.Store.Enabled {
		if err := saveRun(ctx, cfg.Store, rep); err != nil {
			return reportError(out, CodeStore, err)
		}
		log.Info("run stored", zap.String("run_id", rep.RunID), zap.String("driver", cfg.Store.Driver))
	}
	if opts.ReportFile != "" {
		if err := writeReportFile(opts.ReportFile, rep); err != nil {
			return reportError(out, CodeRunFailed, err)
		}
	}
	if opts.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.MetricsFile, promReg); err != nil {
			return reportError(out, CodeRunFailed, WrapExitError(ExitCommandError, "failed to write metrics file", err))
		}
	}

	return outputReport(cmd, out, rep)
}

// outputReport renders rep and returns ExitFailure when it did not pass.
func outputReport(cmd *cobra.Command, out *OutputFormatter, rep *report.Report) error {
	if out.Format == "json" {
		if rep.Passed {
			return out.Success(rep)
		}
		if err := out.Failure(rep, CodeRunFailed, verdictMessage(rep)); err != nil {
			return err
		}
	} else if err := report.WriteText(cmd.OutOrStdout(), rep, out.Verbose); err != nil {
		return err
	}

	if !rep.Passed {
		// Conformance failures = exit code 1
		return NewExitError(ExitFailure, verdictMessage(rep))
	}
	return nil
}

func verdictMessage(rep *report.Report) string {
	s := rep.Summary
	if s.Failed+s.Errored == 0 && rep.Strict {
		return fmt.Sprintf("%d scenario(s) pending in strict mode", s.Pending)
	}
	return fmt.Sprintf("%d scenario(s) failed, %d errored", s.Failed, s.Errored)
}

// reportError returns err, printing it first when the output is JSON.
// Text mode errors are printed once by main.
func reportError(out *OutputFormatter, code string, err error) error {
	if out.Format == "json" {
		_ = out.Error(code, err.Error(), nil)
	}
	return err
}

func saveRun(ctx context.Context, cfg config.StoreConfig, rep *report.Report) error {
	st, err := store.Open(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open store", err)
	}
	defer st.Close()
	if err := st.SaveRun(ctx, rep); err != nil {
		return WrapExitError(ExitCommandError, "failed to save run", err)
	}
	return nil
}

func writeReportFile(path string, rep *report.Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create report file", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = WrapExitError(ExitCommandError, "failed to close report file", cerr)
		}
	}()
	if err := report.WriteJSON(f, rep); err != nil {
		return WrapExitError(ExitCommandError, "failed to write report file", err)
	}
	return nil
}

// signalContext derives a context from the command's context that is
// cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command, log *zap.Logger) (context.Context, func()) {
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info("received signal, shutting down", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
			// Parent context cancelled (e.g., from test)
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan) // Prevent signal handler leak
		cancel()
	}
}
