package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moneytck/internal/config"
	"github.com/roach88/moneytck/internal/refimpl/reference"
	"github.com/roach88/moneytck/internal/report"
	"github.com/roach88/moneytck/internal/setup"
	"github.com/roach88/moneytck/pkg/monetary"
)

const quietConfig = `configuration: reference
log:
  level: error
  format: console
`

// nilOperator registers an operator that returns no amount.
type nilOperator struct{ *reference.Configuration }

func (nilOperator) Operators() []monetary.MonetaryOperator {
	return []monetary.MonetaryOperator{
		monetary.OperatorFunc(func(monetary.MonetaryAmount) (monetary.MonetaryAmount, error) { return nil, nil }),
	}
}

// noAmountTypes registers nothing to test.
type noAmountTypes struct{ *reference.Configuration }

func (noAmountTypes) AmountTypes() []string { return nil }

// noFactory resolves no amount factory.
type noFactory struct{ *reference.Configuration }

func (noFactory) AmountFactory(string) (monetary.AmountFactory, error) {
	return nil, errors.New("factory unavailable")
}

func withReference(wrap func(*reference.Configuration) setup.Configuration) ConfigurationFactory {
	return func(cfg *config.Config) (setup.Configuration, error) {
		ref, err := reference.New(reference.Options{AmountTypes: cfg.AmountTypes})
		if err != nil {
			return nil, err
		}
		return wrap(ref), nil
	}
}

func testConfigurations() Configurations {
	confs := DefaultConfigurations()
	confs["nil-operator"] = withReference(func(c *reference.Configuration) setup.Configuration { return nilOperator{c} })
	confs["empty"] = withReference(func(c *reference.Configuration) setup.Configuration { return noAmountTypes{c} })
	confs["no-factory"] = withReference(func(c *reference.Configuration) setup.Configuration { return noFactory{c} })
	return confs
}

type runResponse struct {
	Status string        `json:"status"`
	Data   report.Report `json:"data"`
	Error  *CLIError     `json:"error"`
}

func TestRunCommand_Passes(t *testing.T) {
	path := writeConfig(t, quietConfig)
	out, _, err := execute(t, NewRootCommand(), "run", "--config", path, "--filter", "4.2.5")
	require.NoError(t, err)
	assert.Contains(t, out, "moneytck run")
	assert.Contains(t, out, "4.2.5")
	assert.Contains(t, out, "PASS: ")
	assert.Contains(t, out, "digest: ")
}

func TestRunCommand_JSON(t *testing.T) {
	path := writeConfig(t, quietConfig)
	out, _, err := execute(t, NewRootCommand(), "run", "--config", path, "--filter", "4.2.5", "--format", "json")
	require.NoError(t, err)

	var resp runResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	assert.True(t, resp.Data.Passed)
	assert.Equal(t, "reference", resp.Data.Configuration)
	assert.Equal(t, []string{"4.2.5"}, resp.Data.Filters)
	assert.Positive(t, resp.Data.Summary.Total)
	assert.Zero(t, resp.Data.Summary.Failed)
	assert.NotEmpty(t, resp.Data.RunID)
	assert.NotEmpty(t, resp.Data.Digest)
}

func TestRunCommand_PendingAndStrict(t *testing.T) {
	path := writeConfig(t, quietConfig)

	out, _, err := execute(t, NewRootCommand(), "run", "--config", path, "--filter", "4.4/style-query")
	require.NoError(t, err, "pending scenarios pass a lenient run")
	assert.Contains(t, out, "PENDING")

	out, _, err = execute(t, NewRootCommand(), "run", "--config", path, "--filter", "4.4/style-query", "--strict")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "pending in strict mode")
	assert.Contains(t, out, "FAIL: ")
}

func TestRunCommand_StrictFromEnvironment(t *testing.T) {
	path := writeConfig(t, quietConfig)
	t.Setenv("MONEYTCK_STRICT", "true")

	_, _, err := execute(t, NewRootCommand(), "run", "--config", path, "--filter", "4.4/style-query")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, _, err = execute(t, NewRootCommand(), "run", "--config", path, "--filter", "4.4/style-query", "--strict=false")
	require.NoError(t, err, "the flag wins over the environment")
}

func TestRunCommand_Failure(t *testing.T) {
	path := writeConfig(t, "configuration: nil-operator\nlog:\n  level: error\n  format: console\n")

	out, _, err := execute(t, NewRootCommandWith(testConfigurations(), reference.Name), "run", "--config", path, "--filter", "4.2.8")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAILURES")
	assert.Contains(t, out, "FAIL: ")

	out, _, err = execute(t, NewRootCommandWith(testConfigurations(), reference.Name), "run", "--config", path, "--filter", "4.2.8", "--format", "json")
	require.Error(t, err)
	var resp runResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeRunFailed, resp.Error.Code)
	assert.False(t, resp.Data.Passed)
	assert.Positive(t, resp.Data.Summary.Failed)
}

func TestRunCommand_SetupError(t *testing.T) {
	path := writeConfig(t, "configuration: empty\nlog:\n  level: error\n  format: console\n")

	out, _, err := execute(t, NewRootCommandWith(testConfigurations(), reference.Name), "run", "--config", path, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var setupErr *setup.Error
	require.True(t, errors.As(err, &setupErr))
	assert.Equal(t, "amountTypes", setupErr.Field)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeSetup, resp.Error.Code)
}

func TestRunCommand_InvalidFilter(t *testing.T) {
	path := writeConfig(t, quietConfig)
	out, _, err := execute(t, NewRootCommand(), "run", "--config", path, "--filter", "[", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid filter pattern")

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeConfig, resp.Error.Code)
}

func TestRunCommand_RunFailed(t *testing.T) {
	path := writeConfig(t, "configuration: no-factory\nlog:\n  level: error\n  format: console\n")

	out, _, err := execute(t, NewRootCommandWith(testConfigurations(), reference.Name), "run", "--config", path, "--filter", "4.2.2", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "factory unavailable")

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeRunFailed, resp.Error.Code)
}

func TestRunCommand_UnknownAmountType(t *testing.T) {
	path := writeConfig(t, quietConfig)
	_, _, err := execute(t, NewRootCommand(), "run", "--config", path, "--amount-types", "CowrieShells")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunCommand_ReportAndMetricsFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, quietConfig)
	reportFile := filepath.Join(dir, "report.json")
	metricsFile := filepath.Join(dir, "moneytck.prom")

	_, _, err := execute(t, NewRootCommand(), "run", "--config", path,
		"--filter", "4.2.5", "--amount-types", "BigAmount",
		"--report-file", reportFile, "--metrics-file", metricsFile)
	require.NoError(t, err)

	data, err := os.ReadFile(reportFile)
	require.NoError(t, err)
	rep, err := report.Parse(data)
	require.NoError(t, err)
	assert.True(t, rep.Passed)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "moneytck_scenarios_total")
	assert.Contains(t, string(prom), `moneytck_runs_total{configuration="reference",verdict="pass"} 1`)
}

func TestRunCommand_DefaultConfiguration(t *testing.T) {
	path := writeConfig(t, "log:\n  level: error\n  format: console\n")

	_, _, err := execute(t, NewRootCommandWith(testConfigurations(), "nil-operator"), "run", "--config", path, "--filter", "4.2.8")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	t.Setenv("MONEYTCK_CONFIGURATION", "reference")
	_, _, err = execute(t, NewRootCommandWith(testConfigurations(), "nil-operator"), "run", "--config", path, "--filter", "4.2.8")
	require.NoError(t, err)
}
