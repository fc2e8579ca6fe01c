package amortization

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/dealdesk/pkg/constants"
)

// Frequency is how often the borrower makes a payment.
type Frequency string

const (
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
)

// ParseFrequency returns the canonical Frequency for value. An empty value
// defaults to Weekly, the usual schedule for buy-here-pay-here deals.
func ParseFrequency(value string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "weekly", "week":
		return Weekly, nil
	case "biweekly", "bi-weekly", "bi_weekly", "fortnightly":
		return Biweekly, nil
	case "monthly", "month":
		return Monthly, nil
	default:
		return "", fmt.Errorf("unsupported payment frequency %q", value)
	}
}

// Valid reports whether f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case Weekly, Biweekly, Monthly:
		return true
	}
	return false
}

// PeriodsPerYear returns the number of payments per year for the frequency.
// Unknown frequencies are treated as weekly.
func (f Frequency) PeriodsPerYear() int {
	switch f {
	case Monthly:
		return constants.MonthsPerYear
	case Biweekly:
		return constants.BiweeklyPeriodsPerYear
	default:
		return constants.WeeksPerYear
	}
}

// PeriodCount converts a term in weeks to a number of payment periods.
// Monthly and biweekly counts are rounded to the nearest whole period; the
// result is never below 1.
func PeriodCount(termWeeks int, f Frequency) int {
	var periods int
	switch f {
	case Monthly:
		periods = int(math.Round(float64(termWeeks) / constants.WeeksPerMonth))
	case Biweekly:
		periods = int(math.Round(float64(termWeeks) / constants.WeeksPerBiweeklyPeriod))
	default:
		periods = termWeeks
	}
	if periods < 1 {
		periods = 1
	}
	return periods
}

// PeriodicRate converts an annual percentage rate to the per-period rate.
func PeriodicRate(apr float64, f Frequency) float64 {
	return apr / constants.PercentageMultiplier / float64(f.PeriodsPerYear())
}

// WeeklyEquivalent converts a periodic payment to its weekly equivalent.
func WeeklyEquivalent(payment float64, f Frequency) float64 {
	switch f {
	case Monthly:
		return payment / constants.WeeksPerMonth
	case Biweekly:
		return payment / constants.WeeksPerBiweeklyPeriod
	default:
		return payment
	}
}

// MonthlyEquivalent converts a periodic payment to its monthly equivalent by
// way of the weekly equivalent.
func MonthlyEquivalent(payment float64, f Frequency) float64 {
	return WeeklyEquivalent(payment, f) * constants.WeeksPerMonth
}

// FromMonthly converts a monthly amount to the equivalent periodic amount.
func FromMonthly(monthly float64, f Frequency) float64 {
	weekly := monthly / constants.WeeksPerMonth
	switch f {
	case Monthly:
		return monthly
	case Biweekly:
		return weekly * constants.WeeksPerBiweeklyPeriod
	default:
		return weekly
	}
}
