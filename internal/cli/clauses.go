package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/moneytck/internal/checks"
	"github.com/roach88/moneytck/internal/clause"
)

// ClauseInfo is one row of the clauses command.
type ClauseInfo struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Checks  int    `json:"checks"`
	Pending int    `json:"pending"`
}

// NewClausesCommand creates the clauses command.
func NewClausesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clauses",
		Short: "List the clauses and their checks",
		Long: `List every clause of the catalog with the number of contract
checks that cover it. Checks that are placeholders are counted as
pending.

Examples:
  moneytck clauses
  moneytck clauses --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listClauses(cmd, rootOpts)
		},
	}
}

func listClauses(cmd *cobra.Command, opts *RootOptions) error {
	out := opts.formatter(cmd)

	catalog, err := clause.Default()
	if err != nil {
		return reportError(out, CodeSetup, WrapExitError(ExitCommandError, "failed to load clause catalog", err))
	}
	suite, err := checks.All()
	if err != nil {
		return reportError(out, CodeSetup, WrapExitError(ExitCommandError, "failed to build checks", err))
	}

	counts := make(map[string]*ClauseInfo)
	infos := make([]ClauseInfo, 0, len(catalog.All()))
	for _, c := range catalog.All() {
		infos = append(infos, ClauseInfo{ID: c.ID, Title: c.Title})
	}
	for i := range infos {
		counts[infos[i].ID] = &infos[i]
	}
	for _, c := range suite {
		info, ok := counts[c.Clause]
		if !ok {
			continue
		}
		info.Checks++
		if c.Pending != "" {
			info.Pending++
		}
	}

	if opts.Format == "json" {
		return out.Success(infos)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CLAUSE\tTITLE\tCHECKS\tPENDING")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", info.ID, info.Title, info.Checks, info.Pending)
	}
	return tw.Flush()
}
