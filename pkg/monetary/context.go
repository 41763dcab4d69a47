package monetary

import "fmt"

// MonetaryContext describes the numeric capability of an amount type.
type MonetaryContext struct {
	AmountType string
	// Precision is the maximal number of significant digits, 0 if unlimited.
	Precision int
	// MaxScale is the maximal number of fraction digits, -1 if unlimited.
	MaxScale     int
	FixedScale   bool
	RoundingMode RoundingMode
}

// Covers reports whether c can represent everything o can: its precision
// and scale limits are at least as large.
func (c MonetaryContext) Covers(o MonetaryContext) bool {
	if c.Precision != 0 && (o.Precision == 0 || o.Precision > c.Precision) {
		return false
	}
	if c.MaxScale >= 0 && (o.MaxScale < 0 || o.MaxScale > c.MaxScale) {
		return false
	}
	return true
}

// Fits reports whether a number of the given precision and scale can be
// held within c.
func (c MonetaryContext) Fits(precision, scale int) bool {
	if c.Precision > 0 && precision > c.Precision {
		return false
	}
	if c.MaxScale >= 0 && scale > c.MaxScale {
		return false
	}
	return true
}

func (c MonetaryContext) String() string {
	prec, scale := "unlimited", "unlimited"
	if c.Precision > 0 {
		prec = fmt.Sprint(c.Precision)
	}
	if c.MaxScale >= 0 {
		scale = fmt.Sprint(c.MaxScale)
	}
	return fmt.Sprintf("MonetaryContext[type=%s, precision=%s, maxScale=%s, fixedScale=%t, mode=%s]",
		c.AmountType, prec, scale, c.FixedScale, c.RoundingMode)
}
