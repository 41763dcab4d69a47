package amountkit

import (
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"

	"github.com/roach88/moneytck/internal/refimpl/numeric"
	"github.com/roach88/moneytck/pkg/monetary"
)

// fitCreate rejects numbers that do not fit ctx. Creation never rounds.
func fitCreate(d decimal.Decimal, ctx monetary.MonetaryContext) error {
	prec, scale := numeric.Shape(d)
	if !ctx.Fits(prec, scale) {
		return fmt.Errorf("%s needs precision %d and scale %d, exceeding %v: %w",
			d, prec, scale, ctx, monetary.ErrArithmetic)
	}
	return nil
}

// fitResult rounds away fraction digits that do not fit ctx and fails
// when the integer part does not fit.
func fitResult(d decimal.Decimal, ctx monetary.MonetaryContext) (decimal.Decimal, error) {
	prec, scale := numeric.Shape(d)
	intDigits := prec - scale
	if ctx.Precision > 0 && intDigits > ctx.Precision {
		return decimal.Zero, fmt.Errorf("result %s exceeds precision %d: %w", d, ctx.Precision, monetary.ErrArithmetic)
	}
	maxScale := scale
	if ctx.MaxScale >= 0 && maxScale > ctx.MaxScale {
		maxScale = ctx.MaxScale
	}
	if ctx.Precision > 0 && intDigits+maxScale > ctx.Precision {
		maxScale = ctx.Precision - intDigits
	}
	if maxScale >= scale {
		return d, nil
	}
	r, err := numeric.Round(d, maxScale, ctx.RoundingMode)
	if err != nil {
		return decimal.Zero, err
	}
	if p, s := numeric.Shape(r); ctx.Precision > 0 && p-s > ctx.Precision {
		return decimal.Zero, fmt.Errorf("rounded result %s exceeds precision %d: %w", r, ctx.Precision, monetary.ErrArithmetic)
	}
	return r, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
