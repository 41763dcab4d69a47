package monetary

import "encoding"

// CurrencyUnit is an immutable currency.
//
// Two units with the same code must compare equal with Compare and, when
// stored as interface values, must be == to each other: a provider either
// hands out singletons or uses a comparable value type.
type CurrencyUnit interface {
	// CurrencyCode returns the unique code, e.g. "CHF".
	CurrencyCode() string
	// NumericCode returns the ISO 4217 numeric code, or -1 if undefined.
	NumericCode() int
	// DefaultFractionDigits returns the number of minor-unit digits,
	// or -1 if undefined.
	DefaultFractionDigits() int
	// Compare orders units by code.
	Compare(other CurrencyUnit) int
	String() string
	encoding.TextMarshaler
}

// CurrencyProvider resolves currency units by code.
type CurrencyProvider interface {
	Name() string
	// Currency returns the unit for code. An empty code is a null-argument
	// error; an unknown code is ErrUnknownCurrency.
	Currency(code string) (CurrencyUnit, error)
	Currencies() []CurrencyUnit
	IsAvailable(code string) bool
}
