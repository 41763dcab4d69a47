package harness

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/roach88/moneytck/pkg/monetary"
)

// AssertionError is reported when a domain assertion fails.
// It includes the clause and check for the report.
type AssertionError struct {
	Clause   string // Clause the failing check belongs to
	Check    string // Check ID
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s (clause %s)\n", e.Check, e.Clause)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// AmountEquals asserts that actual has the numeric value of expected,
// ignoring scale. Expected is anything Rat accepts: a decimal string, an
// integer, a *big.Rat or a monetary.NumberValue.
func AmountEquals(t *T, expected any, actual monetary.MonetaryAmount, context ...string) {
	if actual == nil {
		t.Fail(&AssertionError{Expected: fmt.Sprintf("amount %v", expected), Actual: "nil amount" + suffix(context)})
	}
	want, ok := Rat(expected)
	if !ok {
		t.Fail(&AssertionError{Expected: "a numeric expectation", Actual: fmt.Sprintf("%T %v", expected, expected)})
	}
	if got := actual.Number().Rat(); got.Cmp(want) != 0 {
		t.Fail(&AssertionError{
			Expected: fmt.Sprintf("value %s", want.RatString()),
			Actual:   fmt.Sprintf("%v%s", actual, suffix(context)),
		})
	}
}

// SameAmount asserts that actual has the currency and the numeric value
// of expected.
func SameAmount(t *T, expected, actual monetary.MonetaryAmount, context ...string) {
	if expected == nil || actual == nil {
		t.Fail(&AssertionError{Expected: fmt.Sprintf("%v", expected), Actual: fmt.Sprintf("%v%s", actual, suffix(context))})
	}
	if expected.Currency().CurrencyCode() != actual.Currency().CurrencyCode() {
		t.Fail(&AssertionError{
			Expected: "currency " + expected.Currency().CurrencyCode(),
			Actual:   "currency " + actual.Currency().CurrencyCode() + suffix(context),
		})
	}
	AmountEquals(t, expected.Number(), actual, context...)
}

// IsZeroAmount asserts that a is zero through both IsZero and Signum.
func IsZeroAmount(t *T, a monetary.MonetaryAmount, context ...string) {
	if a == nil || !a.IsZero() || a.Signum() != 0 {
		t.Fail(&AssertionError{Expected: "zero amount", Actual: fmt.Sprintf("%v%s", a, suffix(context))})
	}
}

// ErrorKind asserts that err belongs to the taxonomy kind want.
func ErrorKind(t *T, want monetary.ErrorKind, err error, context ...string) {
	if got := monetary.KindOf(err); got != want {
		actual := "no error"
		if err != nil {
			actual = fmt.Sprintf("%s error: %v", got, err)
		}
		t.Fail(&AssertionError{Expected: want.String() + " error", Actual: actual + suffix(context)})
	}
}

// ErrorKindIn asserts that err belongs to one of the kinds.
func ErrorKindIn(t *T, err error, kinds ...monetary.ErrorKind) {
	got := monetary.KindOf(err)
	names := make([]string, len(kinds))
	for i, k := range kinds {
		if k == got {
			return
		}
		names[i] = k.String()
	}
	actual := "no error"
	if err != nil {
		actual = fmt.Sprintf("%s error: %v", got, err)
	}
	t.Fail(&AssertionError{Expected: strings.Join(names, " or ") + " error", Actual: actual})
}

// ErrorIs asserts errors.Is(err, target).
func ErrorIs(t *T, target, err error, context ...string) {
	if !errors.Is(err, target) {
		t.Fail(&AssertionError{Expected: fmt.Sprintf("error %q", target), Actual: fmt.Sprintf("%v%s", err, suffix(context))})
	}
}

// SameInstance asserts that a and b are the same value: == on the
// interface values, which for pointer implementations is identity.
func SameInstance(t *T, a, b any, context ...string) {
	if !identical(a, b) {
		t.Fail(&AssertionError{Expected: fmt.Sprintf("same instance as %v", a), Actual: fmt.Sprintf("%v%s", b, suffix(context))})
	}
}

// NotSameInstance asserts that a and b are distinct instances.
func NotSameInstance(t *T, a, b any, context ...string) {
	if identical(a, b) {
		t.Fail(&AssertionError{Expected: "distinct instances", Actual: fmt.Sprintf("both %v%s", a, suffix(context))})
	}
}

func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// SameAmountType asserts that both amounts report the same amount type.
func SameAmountType(t *T, expected string, a monetary.MonetaryAmount, context ...string) {
	if a == nil {
		t.Fail(&AssertionError{Expected: "amount of type " + expected, Actual: "nil amount" + suffix(context)})
	}
	if got := a.Context().AmountType; got != expected {
		t.Fail(&AssertionError{Expected: "amount type " + expected, Actual: "amount type " + got + suffix(context)})
	}
}

// ExactRoundTrip asserts that the text form of v parses back into a
// value equal to v.
func ExactRoundTrip[V interface{ MarshalText() ([]byte, error) }](t *T, v V, parse func(string) (V, error), equal func(a, b V) bool) {
	text, err := v.MarshalText()
	if err != nil {
		t.Fail(&AssertionError{Expected: fmt.Sprintf("%v marshals", v), Actual: err.Error()})
	}
	back, err := parse(string(text))
	if err != nil {
		t.Fail(&AssertionError{Expected: fmt.Sprintf("%q parses", text), Actual: err.Error()})
	}
	if !equal(v, back) {
		t.Fail(&AssertionError{Expected: fmt.Sprintf("%v after round trip of %q", v, text), Actual: fmt.Sprintf("%v", back)})
	}
}

// NoPanic runs fn and fails the scenario if it panics.
func NoPanic(t *T, fn func(), context ...string) {
	var recovered any
	func() {
		defer func() { recovered = recover() }()
		fn()
	}()
	if recovered != nil {
		if isFailNow(recovered) || isSkipNow(recovered) {
			panic(recovered)
		}
		t.Fail(&AssertionError{Expected: "no panic", Actual: fmt.Sprintf("panic: %v%s", recovered, suffix(context))})
	}
}

// Rat converts an expectation to an exact rational.
func Rat(v any) (*big.Rat, bool) {
	switch x := v.(type) {
	case string:
		return new(big.Rat).SetString(x)
	case int:
		return new(big.Rat).SetInt64(int64(x)), true
	case int64:
		return new(big.Rat).SetInt64(x), true
	case *big.Rat:
		return x, x != nil
	case monetary.NumberValue:
		return x.Rat(), true
	}
	return nil, false
}

func suffix(context []string) string {
	if len(context) == 0 {
		return ""
	}
	return " (" + strings.Join(context, ", ") + ")"
}
