package monetary

import "fmt"

// RoundingMode selects how a discarded fraction is rounded.
type RoundingMode int

const (
	HalfEven RoundingMode = iota
	HalfUp
	HalfDown
	Up
	Down
	Ceiling
	Floor
	// Unnecessary asserts that no rounding is needed and fails with
	// ErrArithmetic otherwise.
	Unnecessary
)

var roundingModeNames = [...]string{"HALF_EVEN", "HALF_UP", "HALF_DOWN", "UP", "DOWN", "CEILING", "FLOOR", "UNNECESSARY"}

func (m RoundingMode) String() string {
	if m < 0 || int(m) >= len(roundingModeNames) {
		return fmt.Sprintf("RoundingMode(%d)", int(m))
	}
	return roundingModeNames[m]
}

// ParseRoundingMode parses the names returned by RoundingMode.String.
func ParseRoundingMode(s string) (RoundingMode, error) {
	for i, name := range roundingModeNames {
		if name == s {
			return RoundingMode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: rounding mode %q", ErrUnknownRounding, s)
}

// RoundingQuery selects a rounding. Name takes precedence, then Currency,
// then an explicit Scale.
type RoundingQuery struct {
	Name      string
	Currency  CurrencyUnit
	Scale     int
	ScaleSet  bool
	Mode      RoundingMode
	Providers []string
}

// QueryByName selects a named rounding such as "NOSCALE".
func QueryByName(name string) RoundingQuery {
	return RoundingQuery{Name: name}
}

// QueryByCurrency selects the default rounding of c.
func QueryByCurrency(c CurrencyUnit) RoundingQuery {
	return RoundingQuery{Currency: c}
}

// QueryByScale selects an arithmetic rounding to scale digits.
func QueryByScale(scale int, mode RoundingMode) RoundingQuery {
	return RoundingQuery{Scale: scale, ScaleSet: true, Mode: mode}
}

// IsEmpty reports whether q selects nothing in particular.
func (q RoundingQuery) IsEmpty() bool {
	return q.Name == "" && q.Currency == nil && !q.ScaleSet
}

// RoundingContext describes a resolved rounding.
type RoundingContext struct {
	Provider string
	Name     string
	Currency string
	Scale    int
	Mode     RoundingMode
}

// MonetaryRounding is a rounding operator.
type MonetaryRounding interface {
	MonetaryOperator
	RoundingContext() RoundingContext
}

// RoundingProvider resolves roundings.
type RoundingProvider interface {
	Name() string
	RoundingNames() []string
	// Rounding returns nil when the provider cannot serve q.
	Rounding(q RoundingQuery) MonetaryRounding
}
