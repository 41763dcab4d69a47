package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/roach88/moneytck/internal/refimpl/bigamount"
	"github.com/roach88/moneytck/internal/refimpl/format"
	"github.com/roach88/moneytck/internal/refimpl/govalues"
	"github.com/roach88/moneytck/pkg/monetary"
)

var currencies = govalues.CurrencyProvider{}

func provider() *format.Provider {
	return format.NewProvider(format.DefaultLocales, bigamount.NewKit(currencies).Factory, currencies)
}

func amount(t *testing.T, code, n string) monetary.MonetaryAmount {
	t.Helper()
	a, err := bigamount.NewKit(currencies).Factory().WithCurrencyCode(code).WithNumber(n).Create()
	require.NoError(t, err)
	return a
}

func amountFormat(t *testing.T, tag language.Tag) monetary.AmountFormat {
	t.Helper()
	f, err := provider().AmountFormat(tag)
	require.NoError(t, err)
	assert.Equal(t, tag, f.Locale())
	return f
}

func TestProvider(t *testing.T) {
	p := provider()
	assert.Equal(t, format.ProviderName, p.Name())
	assert.Equal(t, format.DefaultLocales, p.Locales())

	_, err := p.AmountFormat(language.Swahili)
	assert.ErrorIs(t, err, monetary.ErrUnknownProvider)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		tag  language.Tag
		in   string
		want string
	}{
		{language.AmericanEnglish, "1234.50", "CHF 1,234.50"},
		{language.AmericanEnglish, "-1234567", "CHF -1,234,567"},
		{language.AmericanEnglish, "12.5", "CHF 12.5"},
		{language.German, "1234.50", "CHF 1.234,50"},
		{language.German, "0.05", "CHF 0,05"},
	}
	for _, tt := range tests {
		t.Run(tt.tag.String()+" "+tt.in, func(t *testing.T) {
			got, err := amountFormat(t, tt.tag).Format(amount(t, "CHF", tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := amountFormat(t, language.German).Format(nil)
	assert.ErrorIs(t, err, monetary.ErrNullArgument)
}

func TestFormat_RoundTrip(t *testing.T) {
	for _, tag := range format.DefaultLocales {
		t.Run(tag.String(), func(t *testing.T) {
			f := amountFormat(t, tag)
			for _, n := range []string{"0", "1234567.89", "-0.01", "1000"} {
				a := amount(t, "EUR", n)
				text, err := f.Format(a)
				require.NoError(t, err)
				back, err := f.Parse(text)
				require.NoError(t, err, "parse %q", text)
				eq, err := back.IsEqualTo(a)
				require.NoError(t, err)
				assert.True(t, eq, "%q parsed to %v", text, back)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	f := amountFormat(t, language.AmericanEnglish)
	for _, text := range []string{"", "CHF", "CHF ", "XYZ 12", "CHF 1.2.3", "CHF abc", "CHF 12.", "CHF -"} {
		t.Run(text, func(t *testing.T) {
			_, err := f.Parse(text)
			assert.ErrorIs(t, err, monetary.ErrParse)
			assert.ErrorIs(t, err, monetary.ErrMonetary)
		})
	}
}
