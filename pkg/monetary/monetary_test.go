package monetary

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{ErrNullArgument, KindNullArgument},
		{fmt.Errorf("add: %w", ErrNullArgument), KindNullArgument},
		{ErrArithmetic, KindArithmetic},
		{ErrUnknownCurrency, KindCurrency},
		{fmt.Errorf("%w: %q", ErrUnknownCurrency, "XYZ"), KindCurrency},
		{ErrCurrencyMismatch, KindDomain},
		{ErrParse, KindDomain},
		{ErrMonetary, KindDomain},
		{errors.New("eof"), KindUnexpected},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.err), func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "null-argument", KindNullArgument.String())
	assert.Equal(t, "unknown", ErrorKind(99).String())
}

func TestDomainErrors_WrapMonetary(t *testing.T) {
	for _, err := range []error{ErrUnknownCurrency, ErrCurrencyMismatch, ErrUnknownRounding, ErrUnknownProvider, ErrConversion, ErrParse} {
		assert.ErrorIs(t, err, ErrMonetary, err.Error())
	}
	assert.NotErrorIs(t, ErrArithmetic, ErrMonetary)
	assert.NotErrorIs(t, ErrNullArgument, ErrMonetary)
}

func TestRoundingMode(t *testing.T) {
	for m := HalfEven; m <= Unnecessary; m++ {
		got, err := ParseRoundingMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	assert.Equal(t, "RoundingMode(12)", RoundingMode(12).String())

	_, err := ParseRoundingMode("half_even")
	assert.ErrorIs(t, err, ErrUnknownRounding)
}

func TestRoundingQuery(t *testing.T) {
	assert.True(t, RoundingQuery{}.IsEmpty())
	assert.True(t, RoundingQuery{Mode: HalfUp}.IsEmpty())
	assert.False(t, QueryByName("NOSCALE").IsEmpty())
	assert.False(t, QueryByScale(0, HalfEven).IsEmpty(), "scale 0 is a selection")
}

func TestMonetaryContext(t *testing.T) {
	unlimited := MonetaryContext{AmountType: "Big", MaxScale: -1}
	fixed := MonetaryContext{AmountType: "Fast", Precision: 19, MaxScale: 5, FixedScale: true}

	assert.True(t, unlimited.Covers(fixed))
	assert.False(t, fixed.Covers(unlimited))
	assert.True(t, fixed.Covers(fixed))
	assert.False(t, fixed.Covers(MonetaryContext{Precision: 19, MaxScale: 6}))

	assert.True(t, unlimited.Fits(100, 60))
	assert.True(t, fixed.Fits(19, 5))
	assert.False(t, fixed.Fits(20, 0))
	assert.False(t, fixed.Fits(6, 6))

	assert.Equal(t, "MonetaryContext[type=Big, precision=unlimited, maxScale=unlimited, fixedScale=false, mode=HALF_EVEN]", unlimited.String())
	assert.Equal(t, "MonetaryContext[type=Fast, precision=19, maxScale=5, fixedScale=true, mode=HALF_EVEN]", fixed.String())
}

func TestFuncAdapters(t *testing.T) {
	boom := errors.New("boom")
	_, err := OperatorFunc(func(MonetaryAmount) (MonetaryAmount, error) { return nil, boom }).Apply(nil)
	assert.ErrorIs(t, err, boom)

	v, err := QueryFunc(func(MonetaryAmount) (any, error) { return 42, nil }).QueryFrom(nil)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}
