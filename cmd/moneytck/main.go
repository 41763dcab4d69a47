// Command moneytck runs the money and currency conformance suite against
// the reference configuration, and serves the stored run history.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/moneytck/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
