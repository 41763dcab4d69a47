package monetary

// MonetaryOperator maps an amount to another amount.
type MonetaryOperator interface {
	Apply(a MonetaryAmount) (MonetaryAmount, error)
}

// OperatorFunc adapts a function to MonetaryOperator.
type OperatorFunc func(a MonetaryAmount) (MonetaryAmount, error)

// Apply calls f(a).
func (f OperatorFunc) Apply(a MonetaryAmount) (MonetaryAmount, error) {
	return f(a)
}

// MonetaryQuery extracts a value from an amount.
type MonetaryQuery interface {
	QueryFrom(a MonetaryAmount) (any, error)
}

// QueryFunc adapts a function to MonetaryQuery.
type QueryFunc func(a MonetaryAmount) (any, error)

// QueryFrom calls f(a).
func (f QueryFunc) QueryFrom(a MonetaryAmount) (any, error) {
	return f(a)
}
