// Package amortization computes level payments and amortization schedules
// for installment deals paid weekly, biweekly or monthly.
package amortization

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Row holds the values for a given payment period.
type Row struct {
	Period    int     `json:"period" yaml:"period"`
	Interest  float64 `json:"interest" yaml:"interest"`
	Principal float64 `json:"principal" yaml:"principal"`
	Balance   float64 `json:"balance" yaml:"balance"`
}

// Schedule is the result of amortizing a principal.
type Schedule struct {
	Payment       float64
	Periods       int
	Rate          float64
	TotalInterest float64
	Rows          []Row
}

// CalculatePayment calculates the level periodic payment for a principal
// using the standard amortization formula. A non-positive principal needs no
// payment.
func CalculatePayment(principal, periodicRate float64, periods int) float64 {
	if principal <= 0 {
		return 0
	}
	if periods < 1 {
		periods = 1
	}
	if periodicRate == 0 {
		return principal / float64(periods)
	}
	return principal * periodicRate / (1 - math.Pow(1+periodicRate, -float64(periods)))
}

// MaxPrincipal inverts CalculatePayment: it returns the largest principal a
// level payment can retire over the given number of periods.
func MaxPrincipal(payment, periodicRate float64, periods int) float64 {
	if payment <= 0 {
		return 0
	}
	if periods < 1 {
		periods = 1
	}
	if periodicRate == 0 {
		return payment * float64(periods)
	}
	return payment * (1 - math.Pow(1+periodicRate, -float64(periods))) / periodicRate
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(balance, periodicRate float64) float64 {
	return balance * periodicRate
}

// Generator produces amortization schedules.
type Generator struct {
	logger *zap.Logger
}

// NewGenerator creates a new generator instance
func NewGenerator(logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{logger: logger}
}

// GenerateSchedule amortizes principal at apr (annual percent) over termWeeks
// paid at the given frequency.
//
// Values are carried at full precision; there is no per-period rounding and no
// true-up of the final period, so the closing balance is floored at zero
// rather than forced there. Inputs are not validated.
func (g *Generator) GenerateSchedule(principal, apr float64, termWeeks int, freq Frequency) Schedule {
	if principal <= 0 {
		g.logger.Debug("no principal to amortize",
			zap.String("op", "amortization.GenerateSchedule"),
			zap.Float64("principal", principal),
		)
		return Schedule{Rows: []Row{}}
	}

	periods := PeriodCount(termWeeks, freq)
	rate := PeriodicRate(apr, freq)
	payment := CalculatePayment(principal, rate, periods)

	schedule := Schedule{
		Payment: payment,
		Periods: periods,
		Rate:    rate,
		Rows:    make([]Row, 0, periods),
	}

	balance := principal
	for period := 1; period <= periods; period++ {
		interest := CalculateInterestPayment(balance, rate)
		principalPart := payment - interest
		balance = math.Max(0, balance-principalPart)
		schedule.TotalInterest += interest
		schedule.Rows = append(schedule.Rows, Row{
			Period:    period,
			Interest:  interest,
			Principal: principalPart,
			Balance:   balance,
		})
	}

	g.logger.Debug(fmt.Sprintf("amortized %.2f over %d %s periods", principal, periods, freq),
		zap.String("op", "amortization.GenerateSchedule"),
		zap.Float64("payment", payment),
		zap.Float64("totalInterest", schedule.TotalInterest),
	)

	return schedule
}
