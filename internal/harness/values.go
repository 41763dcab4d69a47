package harness

import (
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/roach88/moneytck/pkg/monetary"
)

// Value is a labelled input number. N is passed to
// AmountFactory.WithNumber or to an arithmetic operation unchanged.
type Value struct {
	Label string
	N     any
}

// ValueSource returns the input values for one amount type.
type ValueSource func(f monetary.AmountFactory) []Value

// Fixed returns a source yielding vs for every amount type.
func Fixed(vs ...Value) ValueSource {
	return func(monetary.AmountFactory) []Value { return vs }
}

// Concat joins sources. A label seen before is dropped, so that
// scenario IDs stay unique.
func Concat(sources ...ValueSource) ValueSource {
	return func(f monetary.AmountFactory) []Value {
		var out []Value
		seen := make(map[string]bool)
		for _, s := range sources {
			for _, v := range s(f) {
				if !seen[v.Label] {
					seen[v.Label] = true
					out = append(out, v)
				}
			}
		}
		return out
	}
}

// ZeroValues are zero in every operand type, signed float zeros included.
var ZeroValues = Fixed(
	Value{"int 0", 0},
	Value{"int64 0", int64(0)},
	Value{"float64 0.0", 0.0},
	Value{"float64 -0.0", math.Copysign(0, -1)},
	Value{"float32 -0.0", float32(math.Copysign(0, -1))},
	Value{"string 0.0000", "0.0000"},
	Value{"decimal 0", decimal.Zero},
	Value{"big.Int 0", new(big.Int)},
)

// PositiveValues are greater than zero.
var PositiveValues = Fixed(
	Value{"int 1", 1},
	Value{"float64 0.5", 0.5},
	Value{"string 0.01", "0.01"},
	Value{"string 1234.5", "1234.5"},
	Value{"big.Rat 3/4", big.NewRat(3, 4)},
)

// NegativeValues are less than zero.
var NegativeValues = Fixed(
	Value{"int -1", -1},
	Value{"float64 -0.5", -0.5},
	Value{"string -0.01", "-0.01"},
	Value{"string -1234.5", "-1234.5"},
	Value{"int64 -100", int64(-100)},
)

// SignValues are the positive and negative values.
var SignValues = Concat(PositiveValues, NegativeValues)

// IntegralValues have no fraction.
var IntegralValues = Fixed(
	Value{"int 1", 1},
	Value{"int -1", -1},
	Value{"int 10", 10},
	Value{"int64 123456", int64(123456)},
	Value{"int32 -7", int32(-7)},
	Value{"string 1000000", "1000000"},
	Value{"big.Int 99999999999", big.NewInt(99999999999)},
)

// FractionalValues have at most two fraction digits so that every amount
// type can hold them.
var FractionalValues = Fixed(
	Value{"string 0.5", "0.5"},
	Value{"string 1.25", "1.25"},
	Value{"string -3.75", "-3.75"},
	Value{"string 12.34", "12.34"},
	Value{"float64 0.1", 0.1},
	Value{"decimal 99.99", decimal.RequireFromString("99.99")},
)

// BoundaryValues derives the extreme values of an amount type from its
// factory: the min and max numbers when bounded, otherwise numbers that
// use the whole maximal context.
func BoundaryValues(f monetary.AmountFactory) []Value {
	var out []Value
	if n := f.MaxNumber(); n != nil {
		out = append(out, Value{"max " + n.String(), n.String()})
	}
	if n := f.MinNumber(); n != nil {
		out = append(out, Value{"min " + n.String(), n.String()})
	}
	if len(out) > 0 {
		return out
	}
	ctx := f.MaximalContext()
	scale := ctx.MaxScale
	if scale < 0 {
		scale = 20
	}
	intDigits := 30
	if ctx.Precision > 0 {
		intDigits = ctx.Precision - scale
	}
	if intDigits < 1 {
		intDigits = 1
	}
	whole := strings.Repeat("9", intDigits)
	out = append(out, Value{"max integral " + whole, whole}, Value{"min integral -" + whole, "-" + whole})
	if scale > 0 {
		frac := "0." + strings.Repeat("0", scale-1) + "1"
		out = append(out, Value{"smallest " + frac, frac})
	}
	return out
}

// Shape returns the precision and scale of the terminating decimal r: the
// digits of its unscaled value and the digits after the point. Zero has
// precision 1.
func Shape(r *big.Rat) (precision, scale int) {
	ten := big.NewInt(10)
	pow := big.NewInt(1)
	rem := new(big.Int)
	for rem.Rem(pow, r.Denom()).Sign() != 0 {
		pow.Mul(pow, ten)
		scale++
	}
	unscaled := new(big.Int).Abs(r.Num())
	unscaled.Mul(unscaled, pow.Quo(pow, r.Denom()))
	if unscaled.Sign() == 0 {
		return 1, scale
	}
	return len(unscaled.String()), scale
}

// terminates reports whether r has a finite decimal expansion.
func terminates(r *big.Rat) bool {
	d := new(big.Int).Set(r.Denom())
	rem := new(big.Int)
	for _, p := range []int64{2, 5} {
		f := big.NewInt(p)
		for {
			q, m := new(big.Int).QuoRem(d, f, rem)
			if m.Sign() != 0 {
				break
			}
			d = q
		}
	}
	return d.Cmp(big.NewInt(1)) == 0
}
