package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/moneytck/internal/ir"
	"github.com/roach88/moneytck/internal/setup"
	"github.com/roach88/moneytck/pkg/monetary"
)

// Enumerate expands checks into scenarios: one per element of the cross
// product {amount type} x {value} x {currency} x {rounding provider} x
// {rate provider} that each check declares.
//
// Pending checks yield a single scenario. Stub amount types yield skipped
// scenarios for full precision checks. The order is deterministic:
// checks in the given order, then dimensions in registration order.
func Enumerate(reg *setup.Registry, checks []*Check) ([]*Scenario, error) {
	var out []*Scenario
	seen := make(map[string]bool)
	for _, c := range checks {
		if seen[c.ID] {
			return nil, fmt.Errorf("duplicate check ID %q", c.ID)
		}
		seen[c.ID] = true

		if c.Pending != "" {
			s := &Scenario{Check: c}
			if err := name(s); err != nil {
				return nil, err
			}
			out = append(out, s)
			continue
		}

		scenarios, err := expand(reg, c)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", c.ID, err)
		}
		out = append(out, scenarios...)
	}
	return out, nil
}

func expand(reg *setup.Registry, c *Check) ([]*Scenario, error) {
	types := []string{""}
	if c.Dims.AmountTypes {
		types = reg.AmountTypes()
	}
	currencies := c.Dims.Currencies
	if len(currencies) == 0 {
		currencies = []string{""}
	}
	roundings := []monetary.RoundingProvider{nil}
	if c.Dims.RoundingProviders {
		roundings = reg.RoundingProviders()
	}
	rates := []monetary.ExchangeRateProvider{nil}
	noRates := false
	if c.Dims.RateProviders {
		if rps := reg.RateProviders(); len(rps) > 0 {
			rates = rps
		} else {
			noRates = true
		}
	}

	var out []*Scenario
	for _, at := range types {
		values := []Value{{}}
		hasValue := c.Dims.Values != nil
		if hasValue {
			f, err := factoryFor(reg, at)
			if err != nil {
				return nil, err
			}
			values = c.Dims.Values(f)
		}
		skip := ""
		switch {
		case noRates:
			skip = "no exchange rate providers registered"
		case c.FullPrecision && at != "" && reg.IsStub(at):
			skip = "stub amount type excluded from full precision check"
		}
		for _, v := range values {
			for _, cur := range currencies {
				for _, rp := range roundings {
					for _, xp := range rates {
						s := &Scenario{
							Check:      c,
							AmountType: at,
							Value:      v,
							HasValue:   hasValue,
							Currency:   cur,
							Rounding:   rp,
							Rates:      xp,
							Skip:       skip,
						}
						if err := name(s); err != nil {
							return nil, err
						}
						out = append(out, s)
					}
				}
			}
		}
	}
	return out, nil
}

// factoryFor returns a factory for value derivation. Checks without an
// amount type dimension derive values from the first amount type.
func factoryFor(reg *setup.Registry, amountType string) (monetary.AmountFactory, error) {
	if amountType == "" {
		amountType = reg.AmountTypes()[0]
	}
	return reg.AmountFactory(amountType)
}

// name assigns the stable ID and the readable name of s.
func name(s *Scenario) error {
	dims := s.dims()
	id, err := ir.ScenarioID(s.Check.ID, dims)
	if err != nil {
		return err
	}
	s.ID = id

	var parts []string
	for _, k := range []string{"amountType", "currency", "value", "rounding", "rates"} {
		if v, ok := dims[k]; ok {
			parts = append(parts, v)
		}
	}
	s.Name = s.Check.ID
	if len(parts) > 0 {
		s.Name += "[" + strings.Join(parts, ",") + "]"
	}
	return nil
}

func (s *Scenario) dims() map[string]string {
	dims := make(map[string]string)
	if s.AmountType != "" {
		dims["amountType"] = s.AmountType
	}
	if s.HasValue {
		dims["value"] = s.Value.Label
	}
	if s.Currency != "" {
		dims["currency"] = s.Currency
	}
	if s.Rounding != nil {
		dims["rounding"] = s.Rounding.Name()
	}
	if s.Rates != nil {
		dims["rates"] = s.Rates.Name()
	}
	return dims
}

// ScenarioTable is a data-driven set of arithmetic cases, loaded from
// YAML:
//
//	name: add
//	description: "Addition keeps the exact sum"
//	cases:
//	  - name: simple
//	    op: add
//	    currency: CHF
//	    amount: "1.50"
//	    operand: "2.25"
//	    expect: "3.75"
//	  - name: by zero
//	    op: divide
//	    currency: CHF
//	    amount: "1"
//	    operand: "0"
//	    error: arithmetic
type ScenarioTable struct {
	// Name uniquely identifies the table; it becomes part of the check ID.
	Name string `yaml:"name"`

	// Description explains what the table validates.
	Description string `yaml:"description"`

	// FullPrecision excludes stub amount types.
	FullPrecision bool `yaml:"full_precision,omitempty"`

	// Cases are run against every amount type.
	Cases []TableCase `yaml:"cases"`
}

// TableCase is one operation with its expected outcome. Exactly one of
// Expect and Error is set.
type TableCase struct {
	Name     string `yaml:"name"`
	Op       string `yaml:"op"`
	Currency string `yaml:"currency"`
	Amount   string `yaml:"amount"`

	// Operand is a decimal string, or an amount in the same currency for
	// add and subtract. Power is used by scaleByPowerOfTen.
	Operand string `yaml:"operand,omitempty"`
	Power   int    `yaml:"power,omitempty"`

	Expect string `yaml:"expect,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

// Table operation names.
const (
	OpAdd                   = "add"
	OpSubtract              = "subtract"
	OpMultiply              = "multiply"
	OpDivide                = "divide"
	OpRemainder             = "remainder"
	OpDivideToIntegralValue = "divideToIntegralValue"
	OpScaleByPowerOfTen     = "scaleByPowerOfTen"
	OpNegate                = "negate"
	OpAbs                   = "abs"
)

var tableOps = map[string]bool{
	OpAdd: true, OpSubtract: true, OpMultiply: true, OpDivide: true, OpRemainder: true,
	OpDivideToIntegralValue: true, OpScaleByPowerOfTen: true, OpNegate: true, OpAbs: true,
}

var tableErrorKinds = map[string]monetary.ErrorKind{
	monetary.KindArithmetic.String():   monetary.KindArithmetic,
	monetary.KindCurrency.String():     monetary.KindCurrency,
	monetary.KindNullArgument.String(): monetary.KindNullArgument,
	monetary.KindDomain.String():       monetary.KindDomain,
}

// LoadScenarioTable reads and parses a scenario table YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenarioTable(path string) (*ScenarioTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario table: %w", err)
	}
	table, err := ParseScenarioTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return table, nil
}

// ParseScenarioTable parses a scenario table with strict field validation.
func ParseScenarioTable(data []byte) (*ScenarioTable, error) {
	// Parse YAML with strict field validation (catches typos like "expected:" vs "expect:")
	var table ScenarioTable
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&table); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateTable(&table); err != nil {
		return nil, fmt.Errorf("invalid scenario table: %w", err)
	}
	return &table, nil
}

// validateTable checks that required fields are present and valid.
func validateTable(t *ScenarioTable) error {
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	if t.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(t.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}
	names := make(map[string]bool)
	for i, c := range t.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if names[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate name %q", i, c.Name)
		}
		names[c.Name] = true
		if !tableOps[c.Op] {
			return fmt.Errorf("cases[%d]: unknown op %q", i, c.Op)
		}
		if c.Currency == "" || c.Amount == "" {
			return fmt.Errorf("cases[%d]: currency and amount are required", i)
		}
		switch c.Op {
		case OpNegate, OpAbs, OpScaleByPowerOfTen:
		default:
			if c.Operand == "" {
				return fmt.Errorf("cases[%d]: operand is required for %s", i, c.Op)
			}
		}
		if (c.Expect == "") == (c.Error == "") {
			return fmt.Errorf("cases[%d]: exactly one of expect and error is required", i)
		}
		if c.Error != "" {
			if _, ok := tableErrorKinds[c.Error]; !ok {
				return fmt.Errorf("cases[%d]: unknown error kind %q", i, c.Error)
			}
		}
	}
	return nil
}

// ErrorKindOf returns the taxonomy kind named by c.Error.
func (c TableCase) ErrorKindOf() monetary.ErrorKind {
	return tableErrorKinds[c.Error]
}
