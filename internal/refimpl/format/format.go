// Package format implements locale aware amount formats. Separators are
// taken from the CLDR number formatting of golang.org/x/text; digits are
// written exactly so that every formatted amount parses back to an equal
// amount.
package format

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/roach88/moneytck/pkg/monetary"
)

// ProviderName is the name of the provider.
const ProviderName = "cldr"

// DefaultLocales are the locales the reference configuration registers.
var DefaultLocales = []language.Tag{
	language.AmericanEnglish,
	language.MustParse("de-CH"),
	language.German,
	language.French,
	language.Japanese,
}

// Provider hands out formats for a fixed set of locales. Parsed amounts
// are created with a fresh factory from newFactory and currencies
// resolved by the provider.
type Provider struct {
	locales    []language.Tag
	newFactory func() monetary.AmountFactory
	currencies monetary.CurrencyProvider
}

var _ monetary.FormatProvider = (*Provider)(nil)

// NewProvider returns a provider for locales.
func NewProvider(locales []language.Tag, newFactory func() monetary.AmountFactory, currencies monetary.CurrencyProvider) *Provider {
	return &Provider{locales: slices.Clone(locales), newFactory: newFactory, currencies: currencies}
}

func (p *Provider) Name() string { return ProviderName }

func (p *Provider) Locales() []language.Tag { return slices.Clone(p.locales) }

func (p *Provider) AmountFormat(tag language.Tag) (monetary.AmountFormat, error) {
	if !slices.Contains(p.locales, tag) {
		return nil, fmt.Errorf("%w: no amount format for %s", monetary.ErrUnknownProvider, tag)
	}
	group, dec := separators(tag)
	return &Format{tag: tag, group: group, decimal: dec, provider: p}, nil
}

// separators derives the grouping and decimal separators of tag from the
// rendering of 1234.5. Locales with native digits fall back to "," and ".".
func separators(tag language.Tag) (group, dec string) {
	s := message.NewPrinter(tag).Sprint(number.Decimal(1234.5, number.Scale(1)))
	r, n := utf8.DecodeRuneInString(s)
	if r != '1' {
		return ",", "."
	}
	rest := s[n:]
	i := strings.Index(rest, "234")
	if i < 0 || !strings.HasSuffix(rest, "5") {
		return ",", "."
	}
	group = rest[:i]
	dec = strings.TrimSuffix(rest[i+3:], "5")
	if dec == "" || dec == group {
		return ",", "."
	}
	return group, dec
}

// Format renders "CODE 1,234.50" with the separators of one locale.
type Format struct {
	tag      language.Tag
	group    string
	decimal  string
	provider *Provider
}

var _ monetary.AmountFormat = (*Format)(nil)

func (f *Format) Locale() language.Tag { return f.tag }

func (f *Format) Format(a monetary.MonetaryAmount) (string, error) {
	if a == nil {
		return "", fmt.Errorf("format: %w", monetary.ErrNullArgument)
	}
	plain := a.Number().String()
	sign := ""
	if strings.HasPrefix(plain, "-") {
		sign, plain = "-", plain[1:]
	}
	whole, frac, _ := strings.Cut(plain, ".")
	var b strings.Builder
	b.WriteString(a.Currency().CurrencyCode())
	b.WriteByte(' ')
	b.WriteString(sign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(f.group)
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString(f.decimal)
		b.WriteString(frac)
	}
	return b.String(), nil
}

func (f *Format) Parse(text string) (monetary.MonetaryAmount, error) {
	code, num, ok := strings.Cut(strings.TrimSpace(text), " ")
	if !ok || code == "" || num == "" {
		return nil, fmt.Errorf("%w: %q is not CODE AMOUNT", monetary.ErrParse, text)
	}
	cur, err := f.provider.currencies.Currency(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", monetary.ErrParse, text, err)
	}
	plain := strings.ReplaceAll(num, f.group, "")
	plain = strings.Replace(plain, f.decimal, ".", 1)
	if !isPlainDecimal(plain) {
		return nil, fmt.Errorf("%w: %q has no valid number", monetary.ErrParse, text)
	}
	return f.provider.newFactory().WithCurrency(cur).WithNumber(plain).Create()
}

func isPlainDecimal(s string) bool {
	s = strings.TrimPrefix(s, "-")
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || (hasFrac && frac == "") {
		return false
	}
	for _, part := range []string{whole, frac} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
