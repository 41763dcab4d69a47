// Package config loads the suite configuration of the moneytck command.
//
// A configuration file is YAML (.yaml, .yml) or TOML (.toml). Both are
// decoded strictly: unknown keys are errors. After decoding, values from
// the environment override the file, with a .env file loaded first when
// present:
//
//	MONEYTCK_CONFIGURATION   configuration name
//	MONEYTCK_STRICT          strict mode (true|false)
//	MONEYTCK_LOG_LEVEL       debug|info|warn|error
//	MONEYTCK_LOG_FORMAT      console|json
//	MONEYTCK_STORE_ENABLED   record runs (true|false)
//	MONEYTCK_STORE_DRIVER    sqlite3|postgres
//	MONEYTCK_STORE_DSN       database file or connection string
//	MONEYTCK_SERVER_ADDR     listen address of moneytck serve
//
// The result is validated against an embedded CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource []byte

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MONEYTCK_"

// Config is the suite configuration.
type Config struct {
	// Configuration names the configuration under test.
	Configuration string `yaml:"configuration" toml:"configuration" json:"configuration"`

	// AmountTypes restricts the amount types of the reference
	// configuration. Empty registers all of them.
	AmountTypes []string `yaml:"amount_types" toml:"amount_types" json:"amount_types,omitempty"`

	// EuroRates replaces the euro reference rates of ECB-FIXED.
	EuroRates map[string]string `yaml:"euro_rates" toml:"euro_rates" json:"euro_rates,omitempty"`

	// Filters select checks, as --filter does.
	Filters []string `yaml:"filters" toml:"filters" json:"filters,omitempty"`

	Strict bool `yaml:"strict" toml:"strict" json:"strict"`

	Log    LogConfig    `yaml:"log" toml:"log" json:"log"`
	Store  StoreConfig  `yaml:"store" toml:"store" json:"store"`
	Server ServerConfig `yaml:"server" toml:"server" json:"server"`
}

// LogConfig selects the zap logger.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level" json:"level"`
	Format string `yaml:"format" toml:"format" json:"format"`
}

// StoreConfig locates the run history.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled" json:"enabled"`
	Driver  string `yaml:"driver" toml:"driver" json:"driver"`
	DSN     string `yaml:"dsn" toml:"dsn" json:"dsn"`
}

// ServerConfig configures moneytck serve.
type ServerConfig struct {
	Addr           string   `yaml:"addr" toml:"addr" json:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins" toml:"allowed_origins" json:"allowed_origins,omitempty"`
}

// Error reports an invalid configuration.
type Error struct {
	Source  string // file name or "environment"
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("config")
	if e.Source != "" {
		b.WriteString(" ")
		b.WriteString(e.Source)
	}
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Configuration: "reference",
		Log:           LogConfig{Level: "info", Format: "console"},
		Store:         StoreConfig{Enabled: false, Driver: "sqlite3", DSN: "moneytck.db"},
		Server:        ServerConfig{Addr: ":8080", AllowedOrigins: []string{"*"}},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file. envFile is loaded
// into the environment first when it exists; variables already set win.
//
// Loading steps:
// 1. Decode the file strictly over Default()
// 2. Load envFile, then apply MONEYTCK_* overrides
// 3. Validate against the CUE schema
func Load(path, envFile string) (*Config, error) {
	return LoadOver(Default(), path, envFile)
}

// LoadOver is like Load but starts from base instead of Default. base is
// modified and returned.
func LoadOver(base *Config, path, envFile string) (*Config, error) {
	cfg := base
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &Error{Source: path, Message: "failed to read config file", Err: err}
		}
		if err := decode(cfg, data, filepath.Ext(path)); err != nil {
			return nil, &Error{Source: filepath.Base(path), Message: err.Error(), Err: err}
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Source: envFile, Message: "failed to load env file", Err: err}
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(cfg *Config, data []byte, ext string) error {
	switch ext {
	case ".yaml", ".yml":
		// Parse YAML with strict field validation (catches typos like "stric:" vs "strict:")
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return fmt.Errorf("failed to parse TOML: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
	default:
		return fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", ext)
	}
	return nil
}

// applyEnv overrides cfg with MONEYTCK_* variables from lookup.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"CONFIGURATION": &c.Configuration,
		"LOG_LEVEL":     &c.Log.Level,
		"LOG_FORMAT":    &c.Log.Format,
		"STORE_DRIVER":  &c.Store.Driver,
		"STORE_DSN":     &c.Store.DSN,
		"SERVER_ADDR":   &c.Server.Addr,
	}
	for key, dst := range str {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	flags := map[string]*bool{
		"STRICT":        &c.Strict,
		"STORE_ENABLED": &c.Store.Enabled,
	}
	for key, dst := range flags {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &Error{Source: "environment", Field: EnvPrefix + key, Message: fmt.Sprintf("invalid boolean %q", v), Err: err}
		}
		*dst = b
	}
	return nil
}

// Validate checks cfg against the embedded CUE schema.
func Validate(cfg *Config) error {
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return &Error{Source: "schema.cue", Message: err.Error(), Err: err}
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	v := ctx.Encode(cfg)
	if err := v.Err(); err != nil {
		return &Error{Message: err.Error(), Err: err}
	}
	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// fieldPath joins a CUE error path without the definition it was
// validated against, e.g. [#Config log level] is "log.level".
func fieldPath(path []string) string {
	for len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	return strings.Join(path, ".")
}

// formatCUEError reports the first CUE error with its field path.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Message: err.Error(), Err: err}
	}
	first := errs[0]
	format, args := first.Msg()
	return &Error{
		Field:   fieldPath(first.Path()),
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}
