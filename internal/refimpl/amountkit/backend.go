// Package amountkit implements monetary.MonetaryAmount and
// monetary.AmountFactory once, on top of a pluggable numeric Backend.
//
// The kit owns the contract rules that do not depend on representation:
// nil and currency checks, neutral elements, non-finite operands, context
// fitting, comparisons and the text form. A Backend only stores numbers
// and performs the raw arithmetic.
package amountkit

import (
	"github.com/shopspring/decimal"

	"github.com/roach88/moneytck/pkg/monetary"
)

// Number is the backend representation of an amount's value.
type Number interface {
	Decimal() decimal.Decimal
}

// Exact is an unfitted intermediate result. Backends that cannot hold
// a result without rounding return it as Exact and the kit fits it into
// the amount's context before converting it back with New.
type Exact struct{ D decimal.Decimal }

func (e Exact) Decimal() decimal.Decimal { return e.D }

// Backend supplies the arithmetic of one amount type.
//
// Every method that returns an error must report representation limits
// with monetary.ErrArithmetic.
type Backend interface {
	Name() string
	NumberType() string
	DefaultContext() monetary.MonetaryContext
	MaximalContext() monetary.MonetaryContext
	MinNumber() monetary.NumberValue
	MaxNumber() monetary.NumberValue

	New(d decimal.Decimal, cur monetary.CurrencyUnit, ctx monetary.MonetaryContext) (Number, error)
	Add(a, b Number) (Number, error)
	Sub(a, b Number) (Number, error)
	Mul(a Number, f decimal.Decimal) (Number, error)
	Quo(a Number, f decimal.Decimal, ctx monetary.MonetaryContext) (Number, error)
	// QuoInt returns the integral part of a/f, truncated toward zero.
	QuoInt(a Number, f decimal.Decimal) (Number, error)
	Neg(a Number) Number
	Strip(a Number) Number
}

// Kit binds a Backend to the currency provider its factories resolve
// codes with.
type Kit struct {
	backend    Backend
	currencies monetary.CurrencyProvider
}

// New creates a kit.
func New(b Backend, currencies monetary.CurrencyProvider) *Kit {
	return &Kit{backend: b, currencies: currencies}
}

// AmountType returns the backend name.
func (k *Kit) AmountType() string { return k.backend.Name() }

// Factory returns a new factory preset with the default context.
func (k *Kit) Factory() monetary.AmountFactory {
	return &Factory{kit: k, ctx: k.backend.DefaultContext()}
}
