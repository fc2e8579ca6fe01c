// Package format renders money and ratios for reasons and reports.
package format

import (
	"fmt"
	"math"
	"strings"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := groupThousands(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-$" + formatted
	}
	return "$" + formatted
}

// Percent renders a fractional ratio as a percentage with one decimal
// (0.2482 -> "24.8%").
func Percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// OptionalPercent renders a nil ratio as "n/a".
func OptionalPercent(ratio *float64) string {
	if ratio == nil {
		return "n/a"
	}
	return Percent(*ratio)
}

func groupThousands(value float64) string {
	intPart, decPart, _ := strings.Cut(fmt.Sprintf("%.2f", value), ".")
	if len(intPart) <= 3 {
		return intPart + "." + decPart
	}
	var builder strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}
	return builder.String() + "." + decPart
}
