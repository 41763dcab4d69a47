package numeric

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/roach88/moneytck/pkg/monetary"
)

// Round rounds d to scale fraction digits using mode.
func Round(d decimal.Decimal, scale int, mode monetary.RoundingMode) (decimal.Decimal, error) {
	s := int32(scale)
	switch mode {
	case monetary.HalfEven:
		return d.RoundBank(s), nil
	case monetary.HalfUp:
		return d.Round(s), nil
	case monetary.HalfDown:
		down := d.RoundDown(s)
		half := decimal.New(5, -(s + 1))
		if d.Sub(down).Abs().GreaterThan(half) {
			return d.RoundUp(s), nil
		}
		return down, nil
	case monetary.Up:
		return d.RoundUp(s), nil
	case monetary.Down:
		return d.RoundDown(s), nil
	case monetary.Ceiling:
		return d.RoundCeil(s), nil
	case monetary.Floor:
		return d.RoundFloor(s), nil
	case monetary.Unnecessary:
		r := d.RoundDown(s)
		if !r.Equal(d) {
			return decimal.Zero, fmt.Errorf("rounding %s to scale %d is necessary: %w", d, scale, monetary.ErrArithmetic)
		}
		return r, nil
	default:
		return decimal.Zero, fmt.Errorf("rounding mode %v: %w", mode, monetary.ErrUnknownRounding)
	}
}
