package checks

import (
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/roach88/moneytck/internal/harness"
)

// expectation returns the exact value an amount created from n must
// have. Floats contribute their shortest decimal form.
func expectation(n any) *big.Rat {
	switch v := n.(type) {
	case float64:
		return rat(strconv.FormatFloat(v, 'f', -1, 64))
	case float32:
		return rat(strconv.FormatFloat(float64(v), 'f', -1, 32))
	case int32:
		return big.NewRat(int64(v), 1)
	case decimal.Decimal:
		return v.Rat()
	case *big.Int:
		return new(big.Rat).SetInt(v)
	}
	r, ok := harness.Rat(n)
	if !ok {
		return new(big.Rat)
	}
	return r
}

func rat(s string) *big.Rat {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		panic("bad decimal literal " + s)
	}
	return r
}

func add(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) }

func abs(a *big.Rat) *big.Rat { return new(big.Rat).Abs(a) }

func mulPow10(a *big.Rat, p int) *big.Rat {
	f := new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(absInt(p))), nil))
	if p < 0 {
		return new(big.Rat).Quo(a, f)
	}
	return new(big.Rat).Mul(a, f)
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func itoa(n int) string { return strconv.Itoa(n) }
