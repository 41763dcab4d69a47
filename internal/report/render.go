package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/roach88/moneytck/internal/harness"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Write renders r in format.
func Write(w io.Writer, r *Report, format string, verbose bool) error {
	switch format {
	case FormatText:
		return WriteText(w, r, verbose)
	case FormatJSON:
		return WriteJSON(w, r)
	}
	return fmt.Errorf("unknown report format %q", format)
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

var statusMarks = map[harness.Status]string{
	harness.StatusPass:    "✓",
	harness.StatusFail:    "✗",
	harness.StatusError:   "!",
	harness.StatusSkip:    "-",
	harness.StatusPending: "?",
}

// WriteText writes the human readable report: a header, the per clause
// table, failures, pending checks and the verdict. With verbose every
// scenario is listed.
func WriteText(w io.Writer, r *Report, verbose bool) error {
	var b strings.Builder
	fmt.Fprintf(&b, "moneytck run %s\n", r.RunID)
	fmt.Fprintf(&b, "configuration: %s\n", r.Configuration)
	fmt.Fprintf(&b, "started:       %s (%s)\n", r.StartedAt.Format(time.RFC3339), r.Duration().Round(time.Millisecond))
	fmt.Fprintf(&b, "strict:        %t\n", r.Strict)
	if len(r.Filters) > 0 {
		fmt.Fprintf(&b, "filters:       %s\n", strings.Join(r.Filters, " "))
	}
	b.WriteString("\n")

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CLAUSE\tTITLE\tPASS\tFAIL\tERROR\tSKIP\tPENDING")
	for _, c := range r.Clauses {
		s := c.Summary
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\n", c.ID, c.Title, s.Passed, s.Failed, s.Errored, s.Skipped, s.Pending)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if verbose {
		b.WriteString("\nSCENARIOS\n")
		for _, res := range r.Results {
			fmt.Fprintf(&b, "  %s %s", statusMarks[res.Status], res.Name)
			if res.Status == harness.StatusSkip && res.Message != "" {
				fmt.Fprintf(&b, " (%s)", res.Message)
			}
			b.WriteString("\n")
		}
	}

	if len(r.Summary.Failures) > 0 {
		b.WriteString("\nFAILURES\n")
		for _, f := range r.Summary.Failures {
			fmt.Fprintf(&b, "  ✗ [%s] %s\n", f.Clause, f.Scenario)
			writeIndented(&b, f.Error, "      ")
		}
	}

	if pending := r.Pending(); len(pending) > 0 {
		b.WriteString("\nPENDING\n")
		for _, p := range pending {
			fmt.Fprintf(&b, "  ? [%s] %s: %s\n", p.Clause, p.Name, p.Message)
		}
	}

	verdict := "PASS"
	if !r.Passed {
		verdict = "FAIL"
	}
	s := r.Summary
	fmt.Fprintf(&b, "\n%s: %d scenarios, %d passed, %d failed, %d errored, %d skipped, %d pending\n",
		verdict, s.Total, s.Passed, s.Failed, s.Errored, s.Skipped, s.Pending)
	fmt.Fprintf(&b, "digest: %s\n", r.Digest)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeIndented(b *strings.Builder, text, indent string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteString("\n")
	}
}
