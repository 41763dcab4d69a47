package monetary

// ExchangeRate converts from Base to Term by Factor.
type ExchangeRate interface {
	Base() CurrencyUnit
	Term() CurrencyUnit
	Factor() NumberValue
	Provider() string
}

// ExchangeRateProvider resolves exchange rates and conversions.
// Unavailable pairs fail with ErrConversion.
type ExchangeRateProvider interface {
	Name() string
	IsAvailable(base, term CurrencyUnit) bool
	ExchangeRate(base, term CurrencyUnit) (ExchangeRate, error)
	Conversion(term CurrencyUnit) (CurrencyConversion, error)
}

// CurrencyConversion converts amounts into its term currency.
type CurrencyConversion interface {
	MonetaryOperator
	Currency() CurrencyUnit
	ExchangeRate(a MonetaryAmount) (ExchangeRate, error)
	Provider() string
}
