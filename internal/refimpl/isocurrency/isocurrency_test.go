package isocurrency

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moneytck/pkg/monetary"
)

func TestProvider_Currency(t *testing.T) {
	p := New()
	assert.Equal(t, "iso", p.Name())

	tests := []struct {
		code   string
		digits int
	}{
		{"CHF", 2},
		{"JPY", 0},
		{"KWD", 3},
		{"USD", 2},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			c, err := p.Currency(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.code, c.CurrencyCode())
			assert.Equal(t, tt.digits, c.DefaultFractionDigits())
			assert.Equal(t, -1, c.NumericCode())
			assert.True(t, p.IsAvailable(tt.code))
		})
	}
}

func TestProvider_Unknown(t *testing.T) {
	p := New()

	_, err := p.Currency("")
	assert.ErrorIs(t, err, monetary.ErrNullArgument)

	for _, code := range []string{"chf", "ZZZ", "EURO", "12"} {
		_, err := p.Currency(code)
		assert.ErrorIs(t, err, monetary.ErrUnknownCurrency, code)
		assert.False(t, p.IsAvailable(code), code)
	}
}

func TestProvider_Currencies(t *testing.T) {
	p := New()
	units := p.Currencies()
	require.NotEmpty(t, units)

	codes := make([]string, len(units))
	for i, u := range units {
		codes[i] = u.CurrencyCode()
	}
	assert.True(t, sort.StringsAreSorted(codes))
	assert.Contains(t, codes, "CHF")
	assert.Contains(t, codes, "EUR")

	units[0] = nil
	assert.NotNil(t, p.Currencies()[0], "callers get a copy")
}

func TestUnit_Compare(t *testing.T) {
	p := New()
	chf, err := p.Currency("CHF")
	require.NoError(t, err)
	eur, err := p.Currency("EUR")
	require.NoError(t, err)

	assert.Negative(t, chf.Compare(eur))
	assert.Zero(t, chf.Compare(chf))
	assert.Equal(t, "CHF", chf.(Unit).String())
	text, err := chf.(Unit).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "CHF", string(text))
}
