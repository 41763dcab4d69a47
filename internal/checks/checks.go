// Package checks holds the contract checks, grouped by clause. Every
// check is independent; All returns them in clause order.
package checks

import (
	"github.com/roach88/moneytck/internal/harness"
)

// Clause identifiers.
const (
	ClauseCurrency   = "4.2.1"
	ClauseAmount     = "4.2.2"
	ClauseNumber     = "4.2.3"
	ClauseContext    = "4.2.4"
	ClauseErrors     = "4.2.5"
	ClauseFactory    = "4.2.6"
	ClauseRounding   = "4.2.7"
	ClauseOperators  = "4.2.8"
	ClauseConversion = "4.3"
	ClauseFormat     = "4.4"
)

// standardCurrencies span fraction digits 0 and 2.
var standardCurrencies = []string{"CHF", "EUR", "USD", "JPY", "GBP"}

// All returns every check.
func All() ([]*harness.Check, error) {
	tables, err := tableChecks()
	if err != nil {
		return nil, err
	}
	var out []*harness.Check
	out = append(out, currencyChecks()...)
	out = append(out, amountChecks()...)
	out = append(out, tables...)
	out = append(out, numberChecks()...)
	out = append(out, contextChecks()...)
	out = append(out, errorChecks()...)
	out = append(out, factoryChecks()...)
	out = append(out, roundingChecks()...)
	out = append(out, operatorChecks()...)
	out = append(out, conversionChecks()...)
	out = append(out, formatChecks()...)
	out = append(out, pendingChecks()...)
	return out, nil
}

// pendingChecks are clauses the suite does not exercise yet. They are
// reported as pending so that the gap stays visible.
func pendingChecks() []*harness.Check {
	return []*harness.Check{
		{
			ID:      ClauseRounding + "/historic-rounding",
			Clause:  ClauseRounding,
			Title:   "Roundings resolved for a point in time",
			Pending: "RoundingQuery has no timestamp attribute yet",
		},
		{
			ID:      ClauseConversion + "/provider-chain",
			Clause:  ClauseConversion,
			Title:   "Conversions through a chain of rate providers",
			Pending: "the registry resolves a single provider per conversion",
		},
		{
			ID:      ClauseFormat + "/style-query",
			Clause:  ClauseFormat,
			Title:   "Amount formats selected by style attributes",
			Pending: "FormatProvider only supports lookup by locale",
		},
	}
}
