package amountkit

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/roach88/moneytck/internal/refimpl/numeric"
	"github.com/roach88/moneytck/pkg/monetary"
)

// Amount is an immutable monetary amount.
type Amount struct {
	kit *Kit
	cur monetary.CurrencyUnit
	num Number
	ctx monetary.MonetaryContext
}

var _ monetary.MonetaryAmount = (*Amount)(nil)

func (a *Amount) Currency() monetary.CurrencyUnit { return a.cur }

func (a *Amount) Number() monetary.NumberValue {
	return numeric.NewValue(a.num.Decimal(), a.kit.backend.NumberType())
}

func (a *Amount) Context() monetary.MonetaryContext { return a.ctx }

func (a *Amount) Factory() monetary.AmountFactory {
	return a.kit.Factory().WithAmount(a)
}

// Backend returns the backend representation.
func (a *Amount) Backend() Number { return a.num }

func (a *Amount) String() string {
	return a.cur.CurrencyCode() + " " + a.Number().String()
}

func (a *Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// operand validates o and returns its value as a decimal.
func (a *Amount) operand(op string, o monetary.MonetaryAmount) (decimal.Decimal, error) {
	if isNil(o) {
		return decimal.Zero, fmt.Errorf("%s: %w", op, monetary.ErrNullArgument)
	}
	if o.Currency().CurrencyCode() != a.cur.CurrencyCode() {
		return decimal.Zero, fmt.Errorf("%s %v and %v: %w", op, a, o, monetary.ErrCurrencyMismatch)
	}
	if same, ok := o.(*Amount); ok && same.kit == a.kit {
		return same.num.Decimal(), nil
	}
	d, err := decimal.NewFromString(o.Number().String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: operand %v: %w", op, o, monetary.ErrArithmetic)
	}
	return d, nil
}

func (a *Amount) cmp(op string, o monetary.MonetaryAmount) (int, error) {
	d, err := a.operand(op, o)
	if err != nil {
		return 0, err
	}
	return a.num.Decimal().Cmp(d), nil
}

func (a *Amount) IsGreaterThan(o monetary.MonetaryAmount) (bool, error) {
	c, err := a.cmp("isGreaterThan", o)
	return c > 0, err
}

func (a *Amount) IsGreaterThanOrEqualTo(o monetary.MonetaryAmount) (bool, error) {
	c, err := a.cmp("isGreaterThanOrEqualTo", o)
	return err == nil && c >= 0, err
}

func (a *Amount) IsLessThan(o monetary.MonetaryAmount) (bool, error) {
	c, err := a.cmp("isLessThan", o)
	return c < 0, err
}

func (a *Amount) IsLessThanOrEqualTo(o monetary.MonetaryAmount) (bool, error) {
	c, err := a.cmp("isLessThanOrEqualTo", o)
	return err == nil && c <= 0, err
}

func (a *Amount) IsEqualTo(o monetary.MonetaryAmount) (bool, error) {
	c, err := a.cmp("isEqualTo", o)
	return err == nil && c == 0, err
}

func (a *Amount) Compare(o monetary.MonetaryAmount) (int, error) {
	if isNil(o) {
		return 0, fmt.Errorf("compare: %w", monetary.ErrNullArgument)
	}
	if c := strings.Compare(a.cur.CurrencyCode(), o.Currency().CurrencyCode()); c != 0 {
		return c, nil
	}
	return a.cmp("compare", o)
}

func (a *Amount) Equal(o monetary.MonetaryAmount) bool {
	other, ok := o.(*Amount)
	if !ok || other == nil || other.kit.backend.Name() != a.kit.backend.Name() {
		return false
	}
	return a.cur.CurrencyCode() == other.cur.CurrencyCode() &&
		a.num.Decimal().Equal(other.num.Decimal())
}

func (a *Amount) Signum() int { return a.num.Decimal().Sign() }

func (a *Amount) IsZero() bool { return a.Signum() == 0 }

func (a *Amount) IsPositive() bool { return a.Signum() > 0 }

func (a *Amount) IsPositiveOrZero() bool { return a.Signum() >= 0 }

func (a *Amount) IsNegative() bool { return a.Signum() < 0 }

func (a *Amount) IsNegativeOrZero() bool { return a.Signum() <= 0 }

// derive wraps a backend result, fitting it into the receiver's context.
func (a *Amount) derive(op string, n Number, err error) (monetary.MonetaryAmount, error) {
	if err != nil {
		return nil, fmt.Errorf("%s %v: %w", op, a, err)
	}
	d, err := fitResult(n.Decimal(), a.ctx)
	if err != nil {
		return nil, fmt.Errorf("%s %v: %w", op, a, err)
	}
	_, exact := n.(Exact)
	if exact || !d.Equal(n.Decimal()) || d.Exponent() != n.Decimal().Exponent() {
		n, err = a.kit.backend.New(d, a.cur, a.ctx)
		if err != nil {
			return nil, fmt.Errorf("%s %v: %w", op, a, err)
		}
	}
	return &Amount{kit: a.kit, cur: a.cur, num: n, ctx: a.ctx}, nil
}

func (a *Amount) zero() (monetary.MonetaryAmount, error) {
	n, err := a.kit.backend.New(decimal.Zero, a.cur, a.ctx)
	return a.derive("zero", n, err)
}

func (a *Amount) Add(o monetary.MonetaryAmount) (monetary.MonetaryAmount, error) {
	d, err := a.operand("add", o)
	if err != nil {
		return nil, err
	}
	if d.IsZero() {
		return a, nil
	}
	if same, ok := o.(*Amount); ok && same.kit == a.kit {
		n, err := a.kit.backend.Add(a.num, same.num)
		return a.derive("add", n, err)
	}
	return a.derive("add", Exact{a.num.Decimal().Add(d)}, nil)
}

func (a *Amount) Subtract(o monetary.MonetaryAmount) (monetary.MonetaryAmount, error) {
	d, err := a.operand("subtract", o)
	if err != nil {
		return nil, err
	}
	if d.IsZero() {
		return a, nil
	}
	if same, ok := o.(*Amount); ok && same.kit == a.kit {
		n, err := a.kit.backend.Sub(a.num, same.num)
		return a.derive("subtract", n, err)
	}
	return a.derive("subtract", Exact{a.num.Decimal().Sub(d)}, nil)
}

func (a *Amount) Multiply(x any) (monetary.MonetaryAmount, error) {
	f, kind, err := numeric.Operand(x)
	if err != nil {
		return nil, fmt.Errorf("multiply %v: %w", a, err)
	}
	if kind != numeric.Finite {
		return nil, fmt.Errorf("multiply %v by non-finite value: %w", a, monetary.ErrArithmetic)
	}
	if f.Equal(decimal.NewFromInt(1)) {
		return a, nil
	}
	n, err := a.kit.backend.Mul(a.num, f)
	return a.derive("multiply", n, err)
}

// divisor normalizes x; done reports that the result is zero because x
// is infinite.
func (a *Amount) divisor(op string, x any) (f decimal.Decimal, done bool, err error) {
	f, kind, err := numeric.Operand(x)
	if err != nil {
		return f, false, fmt.Errorf("%s %v: %w", op, a, err)
	}
	switch kind {
	case numeric.NaN:
		return f, false, fmt.Errorf("%s %v by NaN: %w", op, a, monetary.ErrArithmetic)
	case numeric.PosInf, numeric.NegInf:
		return f, true, nil
	}
	if f.IsZero() {
		return f, false, fmt.Errorf("%s %v by zero: %w", op, a, monetary.ErrArithmetic)
	}
	return f, false, nil
}

func (a *Amount) Divide(x any) (monetary.MonetaryAmount, error) {
	f, done, err := a.divisor("divide", x)
	if err != nil {
		return nil, err
	}
	if done {
		return a.zero()
	}
	if f.Equal(decimal.NewFromInt(1)) {
		return a, nil
	}
	n, err := a.kit.backend.Quo(a.num, f, a.ctx)
	return a.derive("divide", n, err)
}

func (a *Amount) DivideToIntegralValue(x any) (monetary.MonetaryAmount, error) {
	f, done, err := a.divisor("divideToIntegralValue", x)
	if err != nil {
		return nil, err
	}
	if done {
		return a.zero()
	}
	n, err := a.kit.backend.QuoInt(a.num, f)
	return a.derive("divideToIntegralValue", n, err)
}

func (a *Amount) Remainder(x any) (monetary.MonetaryAmount, error) {
	f, done, err := a.divisor("remainder", x)
	if err != nil {
		return nil, err
	}
	if done {
		return a.zero()
	}
	q, err := a.kit.backend.QuoInt(a.num, f)
	if err != nil {
		return nil, fmt.Errorf("remainder %v: %w", a, err)
	}
	r := a.num.Decimal().Sub(q.Decimal().Mul(f))
	return a.derive("remainder", Exact{r}, nil)
}

func (a *Amount) DivideAndRemainder(x any) ([2]monetary.MonetaryAmount, error) {
	var res [2]monetary.MonetaryAmount
	f, done, err := a.divisor("divideAndRemainder", x)
	if err != nil {
		return res, err
	}
	if done {
		z, err := a.zero()
		if err != nil {
			return res, err
		}
		return [2]monetary.MonetaryAmount{z, z}, nil
	}
	q, err := a.DivideToIntegralValue(f)
	if err != nil {
		return res, err
	}
	r, err := a.Remainder(f)
	if err != nil {
		return res, err
	}
	return [2]monetary.MonetaryAmount{q, r}, nil
}

func (a *Amount) ScaleByPowerOfTen(power int) (monetary.MonetaryAmount, error) {
	if power == 0 {
		return a, nil
	}
	return a.derive("scaleByPowerOfTen", Exact{a.num.Decimal().Shift(int32(power))}, nil)
}

func (a *Amount) Abs() monetary.MonetaryAmount {
	if a.Signum() >= 0 {
		return a
	}
	return a.Negate()
}

func (a *Amount) Negate() monetary.MonetaryAmount {
	return &Amount{kit: a.kit, cur: a.cur, num: a.kit.backend.Neg(a.num), ctx: a.ctx}
}

func (a *Amount) Plus() monetary.MonetaryAmount { return a }

func (a *Amount) StripTrailingZeros() monetary.MonetaryAmount {
	return &Amount{kit: a.kit, cur: a.cur, num: a.kit.backend.Strip(a.num), ctx: a.ctx}
}

func (a *Amount) With(op monetary.MonetaryOperator) (monetary.MonetaryAmount, error) {
	if isNil(op) {
		return nil, fmt.Errorf("with: operator: %w", monetary.ErrNullArgument)
	}
	res, err := op.Apply(a)
	if err != nil {
		return nil, err
	}
	if isNil(res) {
		return nil, fmt.Errorf("with: operator returned no amount: %w", monetary.ErrMonetary)
	}
	return res, nil
}

func (a *Amount) Query(q monetary.MonetaryQuery) (any, error) {
	if isNil(q) {
		return nil, fmt.Errorf("query: %w", monetary.ErrNullArgument)
	}
	return q.QueryFrom(a)
}
