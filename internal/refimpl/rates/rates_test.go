package rates

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moneytck/internal/refimpl/bigamount"
	"github.com/roach88/moneytck/internal/refimpl/fastamount"
	"github.com/roach88/moneytck/internal/refimpl/govalues"
	"github.com/roach88/moneytck/pkg/monetary"
)

var currencies = govalues.CurrencyProvider{}

func currency(t *testing.T, code string) monetary.CurrencyUnit {
	t.Helper()
	c, err := currencies.Currency(code)
	require.NoError(t, err)
	return c
}

func factor(t *testing.T, p *Provider, base, term string) decimal.Decimal {
	t.Helper()
	r, err := p.ExchangeRate(currency(t, base), currency(t, term))
	require.NoError(t, err)
	assert.Equal(t, base, r.Base().CurrencyCode())
	assert.Equal(t, term, r.Term().CurrencyCode())
	assert.Equal(t, p.Name(), r.Provider())
	return decimal.RequireFromString(r.Factor().String())
}

func TestIdent(t *testing.T) {
	p := NewIdent()
	assert.Equal(t, Ident, p.Name())
	assert.True(t, factor(t, p, "CHF", "CHF").Equal(decimal.NewFromInt(1)))
	assert.False(t, p.IsAvailable(currency(t, "CHF"), currency(t, "EUR")))

	_, err := p.ExchangeRate(currency(t, "CHF"), currency(t, "EUR"))
	assert.ErrorIs(t, err, monetary.ErrConversion)
	assert.ErrorIs(t, err, monetary.ErrMonetary)
}

func TestECBFixed(t *testing.T) {
	p, err := NewECBFixed(DefaultEuroRates)
	require.NoError(t, err)
	assert.Equal(t, ECBFixed, p.Name())

	assert.True(t, factor(t, p, "EUR", "CHF").Equal(decimal.RequireFromString("0.9412")))
	assert.True(t, factor(t, p, "EUR", "EUR").Equal(decimal.NewFromInt(1)))
	assert.True(t, factor(t, p, "USD", "USD").Equal(decimal.NewFromInt(1)))

	inverse := factor(t, p, "CHF", "EUR")
	assert.True(t, inverse.Equal(decimal.NewFromInt(1).DivRound(decimal.RequireFromString("0.9412"), 16)), "got %s", inverse)

	cross := factor(t, p, "USD", "CHF")
	assert.True(t, cross.Equal(decimal.RequireFromString("0.9412").DivRound(decimal.RequireFromString("1.0823"), 16)), "got %s", cross)

	assert.True(t, p.IsAvailable(currency(t, "GBP"), currency(t, "JPY")))
	assert.False(t, p.IsAvailable(currency(t, "EUR"), currency(t, "SEK")))
	assert.False(t, p.IsAvailable(nil, currency(t, "EUR")))

	_, err = p.ExchangeRate(currency(t, "SEK"), currency(t, "EUR"))
	assert.ErrorIs(t, err, monetary.ErrConversion)
	_, err = p.ExchangeRate(nil, currency(t, "EUR"))
	assert.ErrorIs(t, err, monetary.ErrNullArgument)
}

func TestNewECBFixed_NormalizesCodes(t *testing.T) {
	p, err := NewECBFixed(map[string]string{"chf": "0.95", "840": "1.1"})
	require.NoError(t, err)

	assert.True(t, factor(t, p, "EUR", "CHF").Equal(decimal.RequireFromString("0.95")))
	assert.True(t, factor(t, p, "EUR", "USD").Equal(decimal.RequireFromString("1.1")))
	assert.True(t, p.IsAvailable(currency(t, "USD"), currency(t, "CHF")))
}

func TestNewECBFixed_Invalid(t *testing.T) {
	_, err := NewECBFixed(map[string]string{"QQQ": "1.5"})
	assert.ErrorContains(t, err, "rate EUR/QQQ")

	_, err = NewECBFixed(map[string]string{"CHF": "n/a"})
	assert.ErrorContains(t, err, "rate EUR/CHF")
}

func TestConversion(t *testing.T) {
	p, err := NewECBFixed(map[string]string{"CHF": "0.95"})
	require.NoError(t, err)

	conv, err := p.Conversion(currency(t, "CHF"))
	require.NoError(t, err)
	assert.Equal(t, "CHF", conv.Currency().CurrencyCode())
	assert.Equal(t, ECBFixed, conv.Provider())

	for _, kit := range []interface {
		Factory() monetary.AmountFactory
	}{bigamount.NewKit(currencies), fastamount.NewKit(currencies)} {
		a, err := kit.Factory().WithCurrency(currency(t, "EUR")).WithNumber("100").Create()
		require.NoError(t, err)

		out, err := conv.Apply(a)
		require.NoError(t, err)
		assert.Equal(t, "CHF", out.Currency().CurrencyCode())
		assert.Equal(t, a.Context().AmountType, out.Context().AmountType, "the amount type is kept")
		assert.Zero(t, out.Number().Rat().Cmp(decimal.NewFromInt(95).Rat()), "got %v", out)
	}

	_, err = conv.Apply(nil)
	assert.ErrorIs(t, err, monetary.ErrNullArgument)

	_, err = p.Conversion(nil)
	assert.ErrorIs(t, err, monetary.ErrNullArgument)
}

func TestConversion_NoRate(t *testing.T) {
	conv, err := NewIdent().Conversion(currency(t, "USD"))
	require.NoError(t, err)

	a, err := bigamount.NewKit(currencies).Factory().WithCurrency(currency(t, "EUR")).WithNumber(1).Create()
	require.NoError(t, err)
	_, err = conv.Apply(a)
	assert.ErrorIs(t, err, monetary.ErrConversion)
}
