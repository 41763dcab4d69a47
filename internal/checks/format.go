package checks

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/roach88/moneytck/internal/harness"
	"github.com/roach88/moneytck/pkg/monetary"
)

// formatsOrSkip returns the registered format providers.
func formatsOrSkip(t *harness.T) []monetary.FormatProvider {
	ps := t.Reg.FormatProviders()
	if len(ps) == 0 {
		t.Skip("no format providers registered")
	}
	return ps
}

func formatChecks() []*harness.Check {
	return []*harness.Check{
		{
			ID:     ClauseFormat + "/round-trip",
			Clause: ClauseFormat,
			Title:  "Formatted amounts parse back to equal amounts in every locale",
			Dims: harness.Dimensions{
				AmountTypes: true,
				Values:      harness.Concat(harness.SignValues, harness.FractionalValues, harness.IntegralValues),
				Currencies:  []string{"CHF", "JPY"},
			},
			Run: func(t *harness.T, s *harness.Scenario) {
				a := t.Money(s.Value.N)
				for _, p := range formatsOrSkip(t) {
					for _, tag := range p.Locales() {
						f, err := p.AmountFormat(tag)
						require.NoError(t, err, "%s %s", p.Name(), tag)
						assert.Equal(t, tag, f.Locale())
						text, err := f.Format(a)
						require.NoError(t, err, "format %s in %s", describe(a), tag)
						back, err := f.Parse(text)
						require.NoError(t, err, "parse %q in %s", text, tag)
						harness.SameAmount(t, a, back, tag.String(), text)
					}
				}
			},
		},
		{
			ID:     ClauseFormat + "/parse-errors",
			Clause: ClauseFormat,
			Title:  "Malformed text fails with a parse error",
			Run: func(t *harness.T, s *harness.Scenario) {
				for _, p := range formatsOrSkip(t) {
					for _, tag := range p.Locales() {
						f, err := p.AmountFormat(tag)
						require.NoError(t, err)
						for _, text := range []string{"", "CHF", "12.50", "CHF twelve", "CHF 1.2.3x", "ZZZ 12"} {
							_, err := f.Parse(text)
							harness.ErrorIs(t, monetary.ErrParse, err, tag.String(), text)
						}
						_, err = f.Format(nil)
						harness.ErrorKind(t, monetary.KindNullArgument, err, "format nil")
					}
				}
			},
		},
		{
			ID:     ClauseFormat + "/locales",
			Clause: ClauseFormat,
			Title:  "Providers serve their listed locales and reject others",
			Run: func(t *harness.T, s *harness.Scenario) {
				for _, p := range formatsOrSkip(t) {
					require.NotEmpty(t, p.Locales(), p.Name())
					for _, tag := range p.Locales() {
						f, err := t.Reg.Format(tag)
						require.NoError(t, err, "registry format for %s", tag)
						assert.NotNil(t, f)
					}
					_, err := p.AmountFormat(language.MustParse("tlh"))
					harness.ErrorKind(t, monetary.KindDomain, err, "unsupported locale")
				}
			},
		},
	}
}
