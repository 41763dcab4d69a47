package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is set at build time:
//
//	go build -ldflags "-X github.com/roach88/moneytck/internal/cli.Version=v1.2.0"
var Version = "dev"

// VersionInfo is the output of the version command.
type VersionInfo struct {
	Version   string            `json:"version"`
	GoVersion string            `json:"go_version"`
	Deps      map[string]string `json:"deps,omitempty"`
}

// reportedDeps are the libraries listed by "version -v".
var reportedDeps = []string{
	"github.com/govalues/money",
	"github.com/govalues/decimal",
	"github.com/shopspring/decimal",
	"golang.org/x/text",
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Print the moneytck version",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := versionInfo(rootOpts.Verbose)
			out := rootOpts.formatter(cmd)
			if rootOpts.Format == "json" {
				return out.Success(info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "moneytck %s (%s)\n", info.Version, info.GoVersion)
			for _, path := range reportedDeps {
				if v, ok := info.Deps[path]; ok {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", path, v)
				}
			}
			return nil
		},
	}
}

func versionInfo(withDeps bool) VersionInfo {
	info := VersionInfo{Version: Version, GoVersion: runtime.Version()}
	if !withDeps {
		return info
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.Deps = make(map[string]string)
	for _, dep := range bi.Deps {
		for _, path := range reportedDeps {
			if dep.Path == path {
				info.Deps[path] = dep.Version
			}
		}
	}
	return info
}
