// Package monetary defines the money and currency interfaces that moneytck
// certifies.
//
// An implementation provides currency units, monetary amounts, amount
// factories, roundings, exchange rate providers, and amount formats by
// implementing the interfaces in this package. The conformance kit in
// package tck then exercises those implementations through a
// Configuration and reports which contract clauses hold.
//
// # Error Kinds
//
// Every operation reports failures through four kinds of error, tested
// with errors.Is:
//
//   - currency resolution: ErrUnknownCurrency
//   - arithmetic: ErrArithmetic (context exceeded, division by zero, NaN)
//   - null reference: ErrNullArgument (a nil interface value or operand)
//   - domain: ErrMonetary and every sentinel wrapping it
//
// ErrUnknownCurrency also wraps ErrMonetary, so a caller that only cares
// about "some monetary failure" can test for ErrMonetary alone.
//
// # Numeric Operands
//
// Multiply, Divide, Remainder and friends accept an operand of type any.
// Implementations must accept at least the Go integer and float types,
// decimal strings, *big.Int, *big.Rat and NumberValue. A nil operand is a
// null-reference error; NaN is an arithmetic error. Dividing by an
// infinite float yields zero.
//
// # Text Form
//
// The text form of an amount is "<CODE> <plain decimal>", for example
// "CHF 12.50". The text form of a currency is its code.
package monetary
