package fastamount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moneytck/internal/refimpl/govalues"
	"github.com/roach88/moneytck/pkg/monetary"
)

func create(t *testing.T, n any) monetary.MonetaryAmount {
	t.Helper()
	a, err := NewKit(govalues.CurrencyProvider{}).Factory().WithCurrencyCode("CHF").WithNumber(n).Create()
	require.NoError(t, err)
	return a
}

func TestContext(t *testing.T) {
	ctx := Backend{}.DefaultContext()
	assert.Equal(t, AmountType, ctx.AmountType)
	assert.Equal(t, 19, ctx.Precision)
	assert.Equal(t, 5, ctx.MaxScale)
	assert.True(t, ctx.FixedScale)
	assert.Equal(t, ctx, Backend{}.MaximalContext())
	assert.Equal(t, "int64", create(t, 1).Number().NumberType())
}

func TestRange(t *testing.T) {
	hi := Backend{}.MaxNumber()
	lo := Backend{}.MinNumber()
	assert.Equal(t, "92233720368547.75807", hi.String())
	assert.Equal(t, "-92233720368547.75807", lo.String())

	top := create(t, hi.String())
	_, err := top.Add(create(t, "0.00001"))
	assert.ErrorIs(t, err, monetary.ErrArithmetic)

	bottom := create(t, lo.String())
	_, err = bottom.Subtract(create(t, "0.00001"))
	assert.ErrorIs(t, err, monetary.ErrArithmetic)
	assert.Equal(t, hi.String(), bottom.Negate().Number().String(), "negation never overflows")

	_, err = top.Multiply(2)
	assert.ErrorIs(t, err, monetary.ErrArithmetic)

	_, err = NewKit(govalues.CurrencyProvider{}).Factory().WithCurrencyCode("CHF").WithNumber("92233720368547.75808").Create()
	assert.ErrorIs(t, err, monetary.ErrArithmetic)
}

func TestScale(t *testing.T) {
	_, err := NewKit(govalues.CurrencyProvider{}).Factory().WithCurrencyCode("CHF").WithNumber("0.000001").Create()
	assert.ErrorIs(t, err, monetary.ErrArithmetic, "creation never rounds")

	third, err := create(t, 1).Divide(3)
	require.NoError(t, err)
	assert.Equal(t, "0.33333", third.Number().String())

	two, err := create(t, 2).Divide(3)
	require.NoError(t, err)
	assert.Equal(t, "0.66667", two.Number().String())

	product, err := create(t, "0.00003").Multiply("0.5")
	require.NoError(t, err)
	assert.Equal(t, "0.00002", product.Number().String(), "half even")
}
