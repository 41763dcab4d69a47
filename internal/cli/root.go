package cli

import (
	"fmt"
	"slices"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/moneytck/internal/config"
	"github.com/roach88/moneytck/internal/logging"
	"github.com/roach88/moneytck/internal/refimpl/reference"
	"github.com/roach88/moneytck/internal/setup"
)

// ConfigurationFactory builds the configuration under test from the
// loaded suite config.
type ConfigurationFactory func(cfg *config.Config) (setup.Configuration, error)

// Configurations maps configuration names, as selected by the
// "configuration" key of the suite config, to their factories.
type Configurations map[string]ConfigurationFactory

// DefaultConfigurations holds the reference configuration only.
func DefaultConfigurations() Configurations {
	return Configurations{reference.Name: referenceConfiguration}
}

func referenceConfiguration(cfg *config.Config) (setup.Configuration, error) {
	return reference.New(reference.Options{
		AmountTypes: cfg.AmountTypes,
		EuroRates:   cfg.EuroRates,
	})
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	EnvFile    string

	configurations Configurations
	defaultName    string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the moneytck CLI with the
// reference configuration.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(DefaultConfigurations(), reference.Name)
}

// NewRootCommandWith creates the root command with the given
// configurations, selecting defaultName unless the suite config names
// another. Vendor binaries use it to put their implementation under test.
func NewRootCommandWith(configurations Configurations, defaultName string) *cobra.Command {
	opts := &RootOptions{configurations: configurations, defaultName: defaultName}

	cmd := &cobra.Command{
		Use:   "moneytck",
		Short: "moneytck - money and currency conformance kit",
		Long: `A conformance kit for money and currency implementations.

Runs the contract checks of every clause against a configuration,
reports pass, fail, skip and pending per scenario, and keeps the run
history for later inspection.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "suite config file (.yaml, .yml or .toml)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "env file with MONEYTCK_* overrides")

	// Add subcommands
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewClausesCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// loadConfig loads the suite config named by the global flags.
func (o *RootOptions) loadConfig() (*config.Config, error) {
	base := config.Default()
	if o.defaultName != "" {
		base.Configuration = o.defaultName
	}
	cfg, err := config.LoadOver(base, o.ConfigFile, o.EnvFile)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid suite config", err)
	}
	return cfg, nil
}

// configuration builds the configuration selected by cfg.
func (o *RootOptions) configuration(cfg *config.Config) (setup.Configuration, error) {
	factory, ok := o.configurations[cfg.Configuration]
	if !ok {
		names := make([]string, 0, len(o.configurations))
		for name := range o.configurations {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("unknown configuration %q: must be one of %v", cfg.Configuration, names))
	}
	conf, err := factory(cfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to build configuration %q", cfg.Configuration), err)
	}
	return conf, nil
}

// logger builds the command logger. Logs go to stderr so they never mix
// with report output.
func (o *RootOptions) logger(cmd *cobra.Command, cfg *config.Config) (*zap.Logger, func(), error) {
	log, cleanup, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "invalid log config", err)
	}
	return log, cleanup, nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
