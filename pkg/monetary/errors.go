package monetary

import "errors"

// ErrMonetary is the root of every domain error kind.
var ErrMonetary = errors.New("monetary error")

// Error kinds that are not domain errors.
var (
	ErrArithmetic   = errors.New("arithmetic error")
	ErrNullArgument = errors.New("null argument")
)

// Domain error kinds. Each wraps ErrMonetary.
var (
	ErrUnknownCurrency  error = &kindError{msg: "unknown currency"}
	ErrCurrencyMismatch error = &kindError{msg: "currency mismatch"}
	ErrUnknownRounding  error = &kindError{msg: "unknown rounding"}
	ErrUnknownProvider  error = &kindError{msg: "unknown provider"}
	ErrConversion       error = &kindError{msg: "currency conversion failed"}
	ErrParse            error = &kindError{msg: "parse error"}
)

// kindError is a sentinel that unwraps to ErrMonetary.
type kindError struct {
	msg string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return ErrMonetary }

// ErrorKind classifies an error into the taxonomy used by the kit.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindCurrency
	KindArithmetic
	KindNullArgument
	KindDomain
	KindUnexpected
)

var kindNames = map[ErrorKind]string{
	KindNone:         "none",
	KindCurrency:     "currency",
	KindArithmetic:   "arithmetic",
	KindNullArgument: "null-argument",
	KindDomain:       "domain",
	KindUnexpected:   "unexpected",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// KindOf reports the kind of err. A nil error is KindNone; an error that
// matches no sentinel is KindUnexpected.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNullArgument):
		return KindNullArgument
	case errors.Is(err, ErrArithmetic):
		return KindArithmetic
	case errors.Is(err, ErrUnknownCurrency):
		return KindCurrency
	case errors.Is(err, ErrMonetary):
		return KindDomain
	default:
		return KindUnexpected
	}
}
