package amountkit

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/roach88/moneytck/internal/refimpl/numeric"
	"github.com/roach88/moneytck/pkg/monetary"
)

// Factory is a mutable amount builder.
type Factory struct {
	kit       *Kit
	cur       monetary.CurrencyUnit
	curErr    error
	number    any
	numberSet bool
	ctx       monetary.MonetaryContext
}

var _ monetary.AmountFactory = (*Factory)(nil)

func (f *Factory) AmountType() string { return f.kit.backend.Name() }

func (f *Factory) WithCurrency(c monetary.CurrencyUnit) monetary.AmountFactory {
	if isNil(c) {
		f.cur, f.curErr = nil, fmt.Errorf("currency: %w", monetary.ErrNullArgument)
		return f
	}
	f.cur, f.curErr = c, nil
	return f
}

func (f *Factory) WithCurrencyCode(code string) monetary.AmountFactory {
	c, err := f.kit.currencies.Currency(code)
	if err != nil {
		f.cur, f.curErr = nil, err
		return f
	}
	f.cur, f.curErr = c, nil
	return f
}

func (f *Factory) WithNumber(n any) monetary.AmountFactory {
	f.number, f.numberSet = n, true
	return f
}

func (f *Factory) WithContext(ctx monetary.MonetaryContext) monetary.AmountFactory {
	f.ctx = ctx
	return f
}

func (f *Factory) WithAmount(a monetary.MonetaryAmount) monetary.AmountFactory {
	if isNil(a) {
		f.curErr = fmt.Errorf("amount: %w", monetary.ErrNullArgument)
		return f
	}
	f.cur, f.curErr = a.Currency(), nil
	f.number, f.numberSet = a.Number(), true
	ctx := a.Context()
	ctx.AmountType = f.kit.backend.Name()
	if f.kit.backend.MaximalContext().Covers(ctx) {
		f.ctx = ctx
	}
	return f
}

func (f *Factory) Create() (monetary.MonetaryAmount, error) {
	b := f.kit.backend
	if f.curErr != nil {
		return nil, fmt.Errorf("create %s: %w", b.Name(), f.curErr)
	}
	if f.cur == nil {
		return nil, fmt.Errorf("create %s: currency not set: %w", b.Name(), monetary.ErrMonetary)
	}
	if !f.numberSet {
		return nil, fmt.Errorf("create %s: number not set: %w", b.Name(), monetary.ErrMonetary)
	}
	ctx := f.ctx
	ctx.AmountType = b.Name()
	if !b.MaximalContext().Covers(ctx) {
		return nil, fmt.Errorf("create %s: %v exceeds %v: %w", b.Name(), ctx, b.MaximalContext(), monetary.ErrArithmetic)
	}
	d, kind, err := numeric.Operand(f.number)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", b.Name(), err)
	}
	if kind != numeric.Finite {
		return nil, fmt.Errorf("create %s: non-finite number: %w", b.Name(), monetary.ErrArithmetic)
	}
	a, err := f.kit.create(d, f.cur, ctx)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", b.Name(), err)
	}
	return a, nil
}

func (f *Factory) DefaultContext() monetary.MonetaryContext { return f.kit.backend.DefaultContext() }

func (f *Factory) MaximalContext() monetary.MonetaryContext { return f.kit.backend.MaximalContext() }

func (f *Factory) MinNumber() monetary.NumberValue { return f.kit.backend.MinNumber() }

func (f *Factory) MaxNumber() monetary.NumberValue { return f.kit.backend.MaxNumber() }

func (k *Kit) create(d decimal.Decimal, cur monetary.CurrencyUnit, ctx monetary.MonetaryContext) (*Amount, error) {
	if err := fitCreate(d, ctx); err != nil {
		return nil, err
	}
	n, err := k.backend.New(d, cur, ctx)
	if err != nil {
		return nil, err
	}
	return &Amount{kit: k, cur: cur, num: n, ctx: ctx}, nil
}
