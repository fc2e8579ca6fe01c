// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Calculations keep full precision; Round is applied when results are
// written out.
func Round(val float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return val
	}
	return decimal.NewFromFloat(val).Round(2).InexactFloat64()
}

// RoundUpToIncrement rounds val up to the next multiple of increment. A
// non-positive increment returns val unchanged.
func RoundUpToIncrement(val, increment float64) float64 {
	if increment <= 0 || math.IsNaN(val) || math.IsInf(val, 0) {
		return val
	}
	inc := decimal.NewFromFloat(increment)
	// Trim float noise below a cent so 1000.0000001 does not round to 1050.
	v := decimal.NewFromFloat(val).Round(2)
	return v.Div(inc).Ceil().Mul(inc).InexactFloat64()
}

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}
