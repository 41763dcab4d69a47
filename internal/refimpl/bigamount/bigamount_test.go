package bigamount

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moneytck/internal/refimpl/govalues"
	"github.com/roach88/moneytck/pkg/monetary"
)

func create(t *testing.T, n any) monetary.MonetaryAmount {
	t.Helper()
	a, err := NewKit(govalues.CurrencyProvider{}).Factory().WithCurrencyCode("EUR").WithNumber(n).Create()
	require.NoError(t, err)
	return a
}

func TestContext(t *testing.T) {
	assert.Equal(t, 32, Backend{}.DefaultContext().MaxScale)
	assert.Equal(t, 63, Backend{}.MaximalContext().MaxScale)
	assert.Zero(t, Backend{}.MaximalContext().Precision, "unlimited precision")
	assert.Nil(t, Backend{}.MinNumber())
	assert.Nil(t, Backend{}.MaxNumber())
	assert.Equal(t, "decimal.Decimal", create(t, 1).Number().NumberType())
}

func TestExactArithmetic(t *testing.T) {
	huge := "1" + strings.Repeat("0", 40)
	a := create(t, huge)
	sum, err := a.Add(create(t, "0.000000000000000000000000000001"))
	require.NoError(t, err)
	assert.Equal(t, huge+".000000000000000000000000000001", sum.Number().String())

	prod, err := create(t, "0.1").Multiply("0.2")
	require.NoError(t, err)
	assert.Equal(t, "0.02", prod.Number().String())
}

func TestDivide_DefaultScale(t *testing.T) {
	third, err := create(t, 1).Divide(3)
	require.NoError(t, err)
	assert.Equal(t, "0."+strings.Repeat("3", 32), third.Number().String())

	twoThirds, err := create(t, 2).Divide(3)
	require.NoError(t, err)
	assert.Equal(t, "0."+strings.Repeat("6", 31)+"7", twoThirds.Number().String())
}

func TestDivide_WiderContext(t *testing.T) {
	ctx := Backend{}.MaximalContext()
	a, err := NewKit(govalues.CurrencyProvider{}).Factory().WithCurrencyCode("EUR").WithNumber(1).WithContext(ctx).Create()
	require.NoError(t, err)

	third, err := a.Divide(3)
	require.NoError(t, err)
	assert.Equal(t, 63, third.Number().Scale())
}

func TestStripTrailingZeros(t *testing.T) {
	a := create(t, "12.5000")
	assert.Equal(t, 4, a.Number().Scale())
	assert.Equal(t, 1, a.StripTrailingZeros().Number().Scale())
}
