// Package numeric holds the decimal plumbing shared by the reference
// amount implementations: operand normalization, an exact NumberValue,
// and rounding by mode.
package numeric

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/roach88/moneytck/pkg/monetary"
)

// Kind classifies a normalized operand.
type Kind int

const (
	Finite Kind = iota
	NaN
	PosInf
	NegInf
)

// ratPrecision bounds the fraction digits kept when a *big.Rat has no
// finite decimal expansion.
const ratPrecision = 64

// Operand normalizes a numeric operand. Non-finite floats are reported
// through the Kind with a zero decimal.
func Operand(n any) (decimal.Decimal, Kind, error) {
	switch v := n.(type) {
	case nil:
		return decimal.Zero, Finite, fmt.Errorf("operand: %w", monetary.ErrNullArgument)
	case int:
		return decimal.NewFromInt(int64(v)), Finite, nil
	case int8:
		return decimal.NewFromInt(int64(v)), Finite, nil
	case int16:
		return decimal.NewFromInt(int64(v)), Finite, nil
	case int32:
		return decimal.NewFromInt(int64(v)), Finite, nil
	case int64:
		return decimal.NewFromInt(v), Finite, nil
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(v)), 0), Finite, nil
	case uint8:
		return decimal.NewFromInt(int64(v)), Finite, nil
	case uint16:
		return decimal.NewFromInt(int64(v)), Finite, nil
	case uint32:
		return decimal.NewFromInt(int64(v)), Finite, nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0), Finite, nil
	case float32:
		return fromFloat(float64(v), true)
	case float64:
		return fromFloat(v, false)
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, Finite, fmt.Errorf("operand %q: %w", v, monetary.ErrArithmetic)
		}
		return d, Finite, nil
	case *big.Int:
		if v == nil {
			return decimal.Zero, Finite, fmt.Errorf("operand: %w", monetary.ErrNullArgument)
		}
		return decimal.NewFromBigInt(v, 0), Finite, nil
	case *big.Rat:
		if v == nil {
			return decimal.Zero, Finite, fmt.Errorf("operand: %w", monetary.ErrNullArgument)
		}
		return FromRat(v), Finite, nil
	case decimal.Decimal:
		return v, Finite, nil
	case monetary.NumberValue:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, Finite, fmt.Errorf("operand %q: %w", v.String(), monetary.ErrArithmetic)
		}
		return d, Finite, nil
	default:
		return decimal.Zero, Finite, fmt.Errorf("unsupported operand type %T: %w", n, monetary.ErrMonetary)
	}
}

func fromFloat(f float64, single bool) (decimal.Decimal, Kind, error) {
	switch {
	case math.IsNaN(f):
		return decimal.Zero, NaN, nil
	case math.IsInf(f, 1):
		return decimal.Zero, PosInf, nil
	case math.IsInf(f, -1):
		return decimal.Zero, NegInf, nil
	case single:
		return decimal.NewFromFloat32(float32(f)), Finite, nil
	default:
		return decimal.NewFromFloat(f), Finite, nil
	}
}

// FromRat converts r to a decimal. Terminating expansions are exact.
func FromRat(r *big.Rat) decimal.Decimal {
	num := decimal.NewFromBigInt(r.Num(), 0)
	den := decimal.NewFromBigInt(r.Denom(), 0)
	return Strip(num.DivRound(den, ratPrecision))
}

// Strip removes trailing zeros from the coefficient of d.
func Strip(d decimal.Decimal) decimal.Decimal {
	coef := d.Coefficient()
	exp := d.Exponent()
	if coef.Sign() == 0 {
		return decimal.New(0, 0)
	}
	ten := big.NewInt(10)
	q, r := new(big.Int), new(big.Int)
	for {
		q.QuoRem(coef, ten, r)
		if r.Sign() != 0 {
			break
		}
		coef.Set(q)
		exp++
	}
	return decimal.NewFromBigInt(coef, exp)
}

// Shape returns the digits needed to write d in plain notation without
// trailing zeros: total significant positions and fraction digits.
func Shape(d decimal.Decimal) (precision, scale int) {
	s := Strip(d)
	digits := len(new(big.Int).Abs(s.Coefficient()).String())
	exp := int(s.Exponent())
	if exp >= 0 {
		return digits + exp, 0
	}
	scale = -exp
	if digits < scale {
		return scale, scale
	}
	return digits, scale
}
