package utils

import "github.com/shopspring/decimal"

// FareScale is the number of decimal places stored for every amount.
const FareScale = 2

// FareAmount multiplies a coach type's base fare by its class multiplier and
// rounds the exact product half-up to two decimals.  Both inputs must be
// non-negative; a negative value is a programming error and panics.
func FareAmount(base, multiplier decimal.Decimal) decimal.Decimal {
	if base.IsNegative() || multiplier.IsNegative() {
		panic("utils: negative fare input")
	}
	// Round is half away from zero, which is half-up for non-negative values.
	return base.Mul(multiplier).Round(FareScale)
}

// FormatAmount renders an amount with exactly two decimals ("607.50").
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(FareScale)
}
