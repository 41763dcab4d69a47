package monetary

import "golang.org/x/text/language"

// AmountFormat formats and parses amounts for one locale.
// Parse fails with ErrParse on malformed input.
type AmountFormat interface {
	Locale() language.Tag
	Format(a MonetaryAmount) (string, error)
	Parse(text string) (MonetaryAmount, error)
}

// FormatProvider resolves amount formats by locale.
// An unsupported locale fails with ErrUnknownProvider.
type FormatProvider interface {
	Name() string
	Locales() []language.Tag
	AmountFormat(tag language.Tag) (AmountFormat, error)
}
