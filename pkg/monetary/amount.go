package monetary

import "encoding"

// MonetaryAmount is an immutable amount of money in one currency.
//
// Binary operations reject a nil argument with ErrNullArgument and an
// amount in a different currency with ErrCurrencyMismatch. A result that
// does not fit the amount's context is ErrArithmetic.
type MonetaryAmount interface {
	Currency() CurrencyUnit
	Number() NumberValue
	Context() MonetaryContext
	// Factory returns a fresh factory preset with this amount.
	Factory() AmountFactory

	IsGreaterThan(o MonetaryAmount) (bool, error)
	IsGreaterThanOrEqualTo(o MonetaryAmount) (bool, error)
	IsLessThan(o MonetaryAmount) (bool, error)
	IsLessThanOrEqualTo(o MonetaryAmount) (bool, error)
	// IsEqualTo compares numeric values ignoring scale.
	IsEqualTo(o MonetaryAmount) (bool, error)
	// Compare defines a total order: by currency code, then by value.
	Compare(o MonetaryAmount) (int, error)
	// Equal reports whether o has the same amount type, currency and
	// numeric value. Trailing zeros are not significant.
	Equal(o MonetaryAmount) bool

	IsZero() bool
	IsPositive() bool
	IsPositiveOrZero() bool
	IsNegative() bool
	IsNegativeOrZero() bool
	Signum() int

	Add(o MonetaryAmount) (MonetaryAmount, error)
	Subtract(o MonetaryAmount) (MonetaryAmount, error)
	Multiply(n any) (MonetaryAmount, error)
	Divide(n any) (MonetaryAmount, error)
	Remainder(n any) (MonetaryAmount, error)
	DivideAndRemainder(n any) ([2]MonetaryAmount, error)
	DivideToIntegralValue(n any) (MonetaryAmount, error)
	ScaleByPowerOfTen(power int) (MonetaryAmount, error)
	Abs() MonetaryAmount
	Negate() MonetaryAmount
	Plus() MonetaryAmount
	StripTrailingZeros() MonetaryAmount

	With(op MonetaryOperator) (MonetaryAmount, error)
	Query(q MonetaryQuery) (any, error)

	String() string
	encoding.TextMarshaler
}

// AmountFactory builds amounts of one implementation type.
//
// A factory is a mutable builder; every acquisition returns a new
// factory so that builders never share state. Errors from the With*
// methods are reported by Create.
type AmountFactory interface {
	AmountType() string
	WithCurrency(c CurrencyUnit) AmountFactory
	WithCurrencyCode(code string) AmountFactory
	WithNumber(n any) AmountFactory
	WithContext(ctx MonetaryContext) AmountFactory
	// WithAmount copies currency, number and context from a.
	WithAmount(a MonetaryAmount) AmountFactory
	Create() (MonetaryAmount, error)
	DefaultContext() MonetaryContext
	MaximalContext() MonetaryContext
	// MinNumber and MaxNumber return nil when the range is unbounded.
	MinNumber() NumberValue
	MaxNumber() NumberValue
}
