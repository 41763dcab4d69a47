package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOver_Base(t *testing.T) {
	base := Default()
	base.Configuration = "acme"

	cfg, err := LoadOver(base, "", "")
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.Configuration)

	path := writeFile(t, "c.yaml", "configuration: reference\n")
	base = Default()
	base.Configuration = "acme"
	cfg, err = LoadOver(base, path, "")
	require.NoError(t, err)
	assert.Equal(t, "reference", cfg.Configuration, "the file wins over the base")
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "moneytck.yaml", `
configuration: reference
amount_types: [BigAmount, FastAmount]
euro_rates:
  USD: "1.10"
filters: ["4.2.2"]
strict: true
log:
  level: debug
  format: json
store:
  enabled: true
  driver: sqlite3
  dsn: runs.db
server:
  addr: "127.0.0.1:9090"
`)
	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"BigAmount", "FastAmount"}, cfg.AmountTypes)
	assert.Equal(t, map[string]string{"USD": "1.10"}, cfg.EuroRates)
	assert.Equal(t, []string{"4.2.2"}, cfg.Filters)
	assert.True(t, cfg.Strict)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)
	assert.Equal(t, StoreConfig{Enabled: true, Driver: "sqlite3", DSN: "runs.db"}, cfg.Store)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins, "unset keys keep their defaults")
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "moneytck.toml", `
configuration = "reference"
strict = true

[log]
level = "warn"
format = "console"

[store]
enabled = true
driver = "postgres"
dsn = "postgres://tck@localhost/tck?sslmode=disable"
`)
	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "postgres", cfg.Store.Driver)
}

func TestLoad_UnknownFields(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"yaml typo", "c.yaml", "stric: true\n", "field stric not found"},
		{"toml typo", "c.toml", "stric = true\n", "unknown keys: stric"},
		{"unsupported format", "c.json", "{}", "unsupported config format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content), "")
			require.Error(t, err)
			var cfgErr *Error
			require.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_SchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"log level", "log:\n  level: loud\n  format: json\n", "log.level"},
		{"store driver", "store:\n  enabled: true\n  driver: mysql\n  dsn: x\n", "store.driver"},
		{"amount type", "amount_types: [DoubleAmount]\n", "amount_types.0"},
		{"euro rate", "euro_rates:\n  usd: \"1.1\"\n", "euro_rates.usd"},
		{"server addr", "server:\n  addr: localhost\n", "server.addr"},
		{"empty configuration", "configuration: \"\"\n", "configuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "c.yaml", tt.content), "")
			require.Error(t, err)
			var cfgErr *Error
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestFieldPath(t *testing.T) {
	tests := []struct {
		path []string
		want string
	}{
		{[]string{"#Config", "log", "level"}, "log.level"},
		{[]string{"#Config", "amount_types", "0"}, "amount_types.0"},
		{[]string{"configuration"}, "configuration"},
		{[]string{"#Config"}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fieldPath(tt.path), "%v", tt.path)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MONEYTCK_LOG_LEVEL", "debug")
	t.Setenv("MONEYTCK_STRICT", "true")
	t.Setenv("MONEYTCK_STORE_DSN", "/tmp/override.db")

	path := writeFile(t, "c.yaml", "log:\n  level: error\n  format: console\n")
	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level, "environment wins over the file")
	assert.True(t, cfg.Strict)
	assert.Equal(t, "/tmp/override.db", cfg.Store.DSN)
}

func TestLoad_EnvFile(t *testing.T) {
	// godotenv never overrides variables that are already set; register
	// cleanup for the ones the file introduces.
	t.Setenv("MONEYTCK_SERVER_ADDR", ":7070")
	os.Unsetenv("MONEYTCK_STORE_ENABLED")
	t.Cleanup(func() { os.Unsetenv("MONEYTCK_STORE_ENABLED") })

	envFile := writeFile(t, ".env", "MONEYTCK_STORE_ENABLED=true\nMONEYTCK_SERVER_ADDR=:6060\n")
	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.True(t, cfg.Store.Enabled)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
}

func TestLoad_InvalidBoolean(t *testing.T) {
	t.Setenv("MONEYTCK_STRICT", "sometimes")
	_, err := Load("", "")
	require.Error(t, err)
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "MONEYTCK_STRICT", cfgErr.Field)
	assert.Equal(t, "environment", cfgErr.Source)
}

func TestError_Format(t *testing.T) {
	err := &Error{Source: "c.yaml", Field: "log.level", Message: "invalid value"}
	assert.Equal(t, "config c.yaml: log.level: invalid value", err.Error())

	err = &Error{Message: "bad"}
	assert.Equal(t, "config: bad", err.Error())
}
