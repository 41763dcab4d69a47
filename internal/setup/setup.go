// Package setup holds the fixture registry: the single point where a
// vendor injects the implementation under test.
//
// A Configuration is resolved once by NewRegistry. Missing or empty
// mandatory registrations are reported there as a *Error, before any
// check runs, never as a failure of an individual scenario.
package setup

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"golang.org/x/text/language"

	"github.com/roach88/moneytck/pkg/monetary"
)

// Configuration is implemented by the vendor.
type Configuration interface {
	// AmountTypes names the amount implementations to test.
	AmountTypes() []string
	// AmountFactory returns a new factory for amountType on every call.
	AmountFactory(amountType string) (monetary.AmountFactory, error)
	// CurrencyProviders resolve currency codes; the first one answers
	// every "currency for code" lookup of the suite.
	CurrencyProviders() []monetary.CurrencyProvider
	// ErrorKinds lists the domain error kinds; each must wrap
	// monetary.ErrMonetary.
	ErrorKinds() []error
	// Operators may be empty.
	Operators() []monetary.MonetaryOperator
	RoundingProviders() []monetary.RoundingProvider
	// ExchangeRateProviders may be empty.
	ExchangeRateProviders() []monetary.ExchangeRateProvider
}

// FormatProviders is an optional extension of Configuration.
type FormatProviders interface {
	FormatProviders() []monetary.FormatProvider
}

// StubAmountTypes is an optional extension of Configuration naming amount
// types with reduced numeric precision. Stub types are excluded from
// full precision checks.
type StubAmountTypes interface {
	StubAmountTypes() []string
}

// Named is an optional extension of Configuration used in reports.
type Named interface {
	Name() string
}

// Error reports an invalid configuration.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

// ErrNoRounding is returned by Registry.Rounding when no provider serves
// a query. It wraps monetary.ErrUnknownRounding.
var ErrNoRounding = fmt.Errorf("no provider serves the query: %w", monetary.ErrUnknownRounding)

// Registry is the resolved, read-only view of a Configuration.
type Registry struct {
	cfg         Configuration
	name        string
	amountTypes []string
	stubs       map[string]bool
	currencies  []monetary.CurrencyProvider
	errorKinds  []error
	operators   []monetary.MonetaryOperator
	roundings   []monetary.RoundingProvider
	rates       []monetary.ExchangeRateProvider
	formats     []monetary.FormatProvider
}

// NewRegistry resolves and validates cfg.
//
// Validation steps:
// 1. Mandatory collections are present and non-empty
// 2. No nil entries in any collection
// 3. Names are unique where they key lookups
// 4. Every error kind wraps monetary.ErrMonetary
// 5. Stub types are registered amount types
func NewRegistry(cfg Configuration) (*Registry, error) {
	if isNil(cfg) {
		return nil, &Error{Field: "configuration", Reason: "no configuration registered"}
	}
	r := &Registry{cfg: cfg, name: "unnamed", stubs: make(map[string]bool)}
	if n, ok := cfg.(Named); ok && n.Name() != "" {
		r.name = n.Name()
	}

	r.amountTypes = slices.Clone(cfg.AmountTypes())
	if len(r.amountTypes) == 0 {
		return nil, &Error{Field: "amountTypes", Reason: "at least one amount type is required"}
	}
	seen := make(map[string]bool)
	for _, t := range r.amountTypes {
		if t == "" {
			return nil, &Error{Field: "amountTypes", Reason: "empty amount type name"}
		}
		if seen[t] {
			return nil, &Error{Field: "amountTypes", Reason: fmt.Sprintf("duplicate amount type %q", t)}
		}
		seen[t] = true
	}

	var err error
	if r.currencies, err = mandatory("currencyProviders", cfg.CurrencyProviders()); err != nil {
		return nil, err
	}
	if err := uniqueNames("currencyProviders", r.currencies, monetary.CurrencyProvider.Name); err != nil {
		return nil, err
	}

	if r.errorKinds, err = mandatory("errorKinds", cfg.ErrorKinds()); err != nil {
		return nil, err
	}
	for _, k := range r.errorKinds {
		if !errors.Is(k, monetary.ErrMonetary) {
			return nil, &Error{Field: "errorKinds", Reason: fmt.Sprintf("%q does not wrap the monetary root error", k)}
		}
	}

	if r.operators, err = optional("operators", cfg.Operators()); err != nil {
		return nil, err
	}

	if r.roundings, err = mandatory("roundingProviders", cfg.RoundingProviders()); err != nil {
		return nil, err
	}
	if err := uniqueNames("roundingProviders", r.roundings, monetary.RoundingProvider.Name); err != nil {
		return nil, err
	}

	if r.rates, err = optional("exchangeRateProviders", cfg.ExchangeRateProviders()); err != nil {
		return nil, err
	}
	if err := uniqueNames("exchangeRateProviders", r.rates, monetary.ExchangeRateProvider.Name); err != nil {
		return nil, err
	}

	if fp, ok := cfg.(FormatProviders); ok {
		if r.formats, err = optional("formatProviders", fp.FormatProviders()); err != nil {
			return nil, err
		}
	}

	if sp, ok := cfg.(StubAmountTypes); ok {
		for _, t := range sp.StubAmountTypes() {
			if !seen[t] {
				return nil, &Error{Field: "stubAmountTypes", Reason: fmt.Sprintf("%q is not a registered amount type", t)}
			}
			r.stubs[t] = true
		}
	}

	return r, nil
}

func mandatory[T any](field string, items []T) ([]T, error) {
	if len(items) == 0 {
		return nil, &Error{Field: field, Reason: "at least one entry is required"}
	}
	return optional(field, items)
}

func optional[T any](field string, items []T) ([]T, error) {
	for i, it := range items {
		if isNil(it) {
			return nil, &Error{Field: field, Reason: fmt.Sprintf("entry %d is nil", i)}
		}
	}
	return slices.Clone(items), nil
}

// isNil also reports typed nil pointers held in an interface.
func isNil[T any](v T) bool {
	if any(v) == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func uniqueNames[T any](field string, items []T, name func(T) string) error {
	seen := make(map[string]bool)
	for _, it := range items {
		n := name(it)
		if seen[n] {
			return &Error{Field: field, Reason: fmt.Sprintf("duplicate name %q", n)}
		}
		seen[n] = true
	}
	return nil
}

// Name returns the configuration name, or "unnamed".
func (r *Registry) Name() string { return r.name }

// AmountTypes returns the registered amount types in registration order.
func (r *Registry) AmountTypes() []string { return slices.Clone(r.amountTypes) }

// AmountFactory returns a new factory for amountType.
func (r *Registry) AmountFactory(amountType string) (monetary.AmountFactory, error) {
	if !slices.Contains(r.amountTypes, amountType) {
		return nil, fmt.Errorf("%w: amount type %q is not registered", monetary.ErrUnknownProvider, amountType)
	}
	f, err := r.cfg.AmountFactory(amountType)
	if err != nil {
		return nil, fmt.Errorf("amount factory %q: %w", amountType, err)
	}
	if isNil(f) {
		return nil, fmt.Errorf("amount factory %q: configuration returned nil: %w", amountType, monetary.ErrMonetary)
	}
	return f, nil
}

// IsStub reports whether amountType has reduced numeric precision.
func (r *Registry) IsStub(amountType string) bool { return r.stubs[amountType] }

// CurrencyProviders returns the registered currency providers.
func (r *Registry) CurrencyProviders() []monetary.CurrencyProvider { return slices.Clone(r.currencies) }

// Currency resolves code with the first currency provider.
func (r *Registry) Currency(code string) (monetary.CurrencyUnit, error) {
	return r.currencies[0].Currency(code)
}

// MustCurrency is like Currency but panics on error. Use it only for the
// well known codes the suite is built on.
func (r *Registry) MustCurrency(code string) monetary.CurrencyUnit {
	c, err := r.Currency(code)
	if err != nil {
		panic(fmt.Sprintf("currency %q: %v", code, err))
	}
	return c
}

// ErrorKinds returns the registered domain error kinds.
func (r *Registry) ErrorKinds() []error { return slices.Clone(r.errorKinds) }

// Operators returns the registered operators.
func (r *Registry) Operators() []monetary.MonetaryOperator { return slices.Clone(r.operators) }

// RoundingProviders returns the registered rounding providers.
func (r *Registry) RoundingProviders() []monetary.RoundingProvider { return slices.Clone(r.roundings) }

// Rounding asks each provider in turn and returns the first rounding
// that serves q.
func (r *Registry) Rounding(q monetary.RoundingQuery) (monetary.MonetaryRounding, error) {
	if q.IsEmpty() {
		return nil, fmt.Errorf("rounding query: %w", monetary.ErrNullArgument)
	}
	for _, p := range r.roundings {
		if rnd := p.Rounding(q); rnd != nil {
			return rnd, nil
		}
	}
	return nil, fmt.Errorf("rounding %q: %w", describe(q), ErrNoRounding)
}

func describe(q monetary.RoundingQuery) string {
	switch {
	case q.Name != "":
		return q.Name
	case q.Currency != nil:
		return q.Currency.CurrencyCode()
	default:
		return fmt.Sprintf("scale=%d mode=%s", q.Scale, q.Mode)
	}
}

// RateProviders returns the registered exchange rate providers.
func (r *Registry) RateProviders() []monetary.ExchangeRateProvider { return slices.Clone(r.rates) }

// RateProvider returns the exchange rate provider called name.
func (r *Registry) RateProvider(name string) (monetary.ExchangeRateProvider, error) {
	for _, p := range r.rates {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: exchange rate provider %q", monetary.ErrUnknownProvider, name)
}

// FormatProviders returns the registered format providers.
func (r *Registry) FormatProviders() []monetary.FormatProvider { return slices.Clone(r.formats) }

// Format returns the first amount format registered for tag.
func (r *Registry) Format(tag language.Tag) (monetary.AmountFormat, error) {
	for _, p := range r.formats {
		if slices.Contains(p.Locales(), tag) {
			return p.AmountFormat(tag)
		}
	}
	return nil, fmt.Errorf("%w: no amount format for %s", monetary.ErrUnknownProvider, tag)
}
