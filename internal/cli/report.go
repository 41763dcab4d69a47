package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/moneytck/internal/report"
	"github.com/roach88/moneytck/internal/store"
)

// ReportOptions holds flags for the report subcommands.
type ReportOptions struct {
	*RootOptions
	Configuration string // list: only runs of this configuration
	Limit         int    // list, history: max rows
}

// NewReportCommand creates the report command and its subcommands.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Inspect stored runs",
		Long: `Inspect the run history kept by "moneytck run --store".

The store is the one named by the suite config (store.driver and
store.dsn, or MONEYTCK_STORE_DRIVER and MONEYTCK_STORE_DSN).

Examples:
  moneytck report list --limit 10
  moneytck report show latest
  moneytck report history 4.2.2/add-neutral
  moneytck report delete 0192b6c4-...`,
	}

	list := &cobra.Command{
		Use:           "list",
		Short:         "List stored runs, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts.RootOptions, func(ctx context.Context, st *store.Store) error {
				return listRuns(ctx, cmd, opts, st)
			})
		},
	}
	list.Flags().StringVar(&opts.Configuration, "configuration", "", "only runs of this configuration")
	list.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs (0 for all)")

	show := &cobra.Command{
		Use:           "show <run-id|latest>",
		Short:         "Show the report of a stored run",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts.RootOptions, func(ctx context.Context, st *store.Store) error {
				return showRun(ctx, cmd, opts, st, args[0])
			})
		},
	}

	history := &cobra.Command{
		Use:           "history <check-id>",
		Short:         "Show the outcome of one check across stored runs",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts.RootOptions, func(ctx context.Context, st *store.Store) error {
				return checkHistory(ctx, cmd, opts, st, args[0])
			})
		},
	}
	history.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs (0 for all)")

	del := &cobra.Command{
		Use:           "delete <run-id>",
		Short:         "Delete a stored run",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts.RootOptions, func(ctx context.Context, st *store.Store) error {
				return deleteRun(ctx, cmd, opts, st, args[0])
			})
		},
	}

	cmd.AddCommand(list, show, history, del)
	return cmd
}

// withStore opens the configured store, runs fn and closes the store.
func withStore(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, st *store.Store) error) error {
	out := opts.formatter(cmd)
	cfg, err := opts.loadConfig()
	if err != nil {
		return reportError(out, CodeConfig, err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return reportError(out, CodeStore, WrapExitError(ExitCommandError, "failed to open store", err))
	}
	defer st.Close()
	return fn(ctx, st)
}

// storeError maps store errors to exit errors.
func storeError(out *OutputFormatter, what string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return reportError(out, CodeNotFound, WrapExitError(ExitCommandError, what+" not found", err))
	}
	return reportError(out, CodeStore, WrapExitError(ExitCommandError, "store error", err))
}

func listRuns(ctx context.Context, cmd *cobra.Command, opts *ReportOptions, st *store.Store) error {
	out := opts.formatter(cmd)
	if opts.Limit < 0 {
		return reportError(out, CodeConfig, NewExitError(ExitCommandError, fmt.Sprintf("invalid limit %d", opts.Limit)))
	}
	runs, err := st.ListRuns(ctx, store.ListOptions{Configuration: opts.Configuration, Limit: opts.Limit})
	if err != nil {
		return storeError(out, "runs", err)
	}

	if opts.Format == "json" {
		return out.Success(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs stored.")
		return nil
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tCONFIGURATION\tSTARTED\tVERDICT\tTOTAL\tFAIL\tERROR\tPENDING")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			r.ID, r.Configuration, r.StartedAt.Format(time.RFC3339), verdict(r.Passed),
			r.Total, r.Failed, r.Errored, r.Pending)
	}
	return tw.Flush()
}

func showRun(ctx context.Context, cmd *cobra.Command, opts *ReportOptions, st *store.Store, id string) error {
	out := opts.formatter(cmd)
	if id == "latest" {
		latest, err := st.LatestRun(ctx, "")
		if err != nil {
			return storeError(out, "run", err)
		}
		id = latest.ID
	}
	rep, err := st.GetRun(ctx, id)
	if err != nil {
		return storeError(out, "run", err)
	}
	if opts.Format == "json" {
		return out.Success(rep)
	}
	return report.WriteText(cmd.OutOrStdout(), rep, opts.Verbose)
}

func checkHistory(ctx context.Context, cmd *cobra.Command, opts *ReportOptions, st *store.Store, checkID string) error {
	out := opts.formatter(cmd)
	if opts.Limit < 0 {
		return reportError(out, CodeConfig, NewExitError(ExitCommandError, fmt.Sprintf("invalid limit %d", opts.Limit)))
	}
	history, err := st.CheckHistory(ctx, checkID, opts.Limit)
	if err != nil {
		return storeError(out, "check", err)
	}

	if opts.Format == "json" {
		return out.Success(history)
	}
	if len(history) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No stored run covers %s.\n", checkID)
		return nil
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tSTATUS\tSCENARIOS")
	for _, h := range history {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", h.RunID, h.StartedAt.Format(time.RFC3339), h.Status, h.Scenarios)
	}
	return tw.Flush()
}

func deleteRun(ctx context.Context, cmd *cobra.Command, opts *ReportOptions, st *store.Store, id string) error {
	out := opts.formatter(cmd)
	if err := st.DeleteRun(ctx, id); err != nil {
		return storeError(out, "run", err)
	}
	if opts.Format == "json" {
		return out.Success(map[string]string{"deleted": id})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s.\n", id)
	return nil
}

func verdict(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}
