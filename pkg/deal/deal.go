// Package deal derives the cost, financing and risk figures of a proposed
// vehicle deal from its request and amortization schedule.
package deal

import (
	"github.com/iwvelando/dealdesk/pkg/amortization"
	"github.com/iwvelando/dealdesk/pkg/constants"
	"go.uber.org/zap"
)

// Request describes a proposed deal.
type Request struct {
	VehicleCost   float64                `json:"vehicleCost" yaml:"vehicleCost" mapstructure:"vehicleCost"`
	ReconCost     float64                `json:"reconCost" yaml:"reconCost" mapstructure:"reconCost"`
	SalePrice     float64                `json:"salePrice" yaml:"salePrice" mapstructure:"salePrice"`
	DownPayment   float64                `json:"downPayment" yaml:"downPayment" mapstructure:"downPayment"`
	APR           float64                `json:"apr" yaml:"apr" mapstructure:"apr"` // annual percent
	TermWeeks     int                    `json:"termWeeks" yaml:"termWeeks" mapstructure:"termWeeks"`
	Frequency     amortization.Frequency `json:"paymentFrequency" yaml:"paymentFrequency" mapstructure:"paymentFrequency"`
	MonthlyIncome float64                `json:"monthlyIncome" yaml:"monthlyIncome" mapstructure:"monthlyIncome"`
	MonthsOnJob   int                    `json:"monthsOnJob" yaml:"monthsOnJob" mapstructure:"monthsOnJob"`
	RepoCount     int                    `json:"repoCount" yaml:"repoCount" mapstructure:"repoCount"`
}

// TotalCost is the dealer's cost basis: acquisition plus reconditioning.
func (r Request) TotalCost() float64 {
	return r.VehicleCost + r.ReconCost
}

// AmountFinanced is the sale price less the down payment.
func (r Request) AmountFinanced() float64 {
	return r.SalePrice - r.DownPayment
}

// Result holds the derived figures for a Request.
type Result struct {
	TotalCost        float64            `json:"totalCost" yaml:"totalCost"`
	AmountFinanced   float64            `json:"amountFinanced" yaml:"amountFinanced"`
	PaymentPerPeriod float64            `json:"paymentPerPeriod" yaml:"paymentPerPeriod"`
	WeeklyPayment    float64            `json:"weeklyPayment" yaml:"weeklyPayment"`
	Periods          int                `json:"periods" yaml:"periods"`
	TotalInterest    float64            `json:"totalInterest" yaml:"totalInterest"`
	TotalProfit      float64            `json:"totalProfit" yaml:"totalProfit"`
	BreakEvenPeriod  int                `json:"breakEvenPeriod" yaml:"breakEvenPeriod"`
	PTI              *float64           `json:"pti" yaml:"pti"`
	LTV              float64            `json:"ltv" yaml:"ltv"`
	Schedule         []amortization.Row `json:"schedule" yaml:"schedule"`
}

// Calculator derives Results from Requests.
type Calculator struct {
	logger    *zap.Logger
	generator *amortization.Generator
}

// NewCalculator creates a Calculator. A nil logger disables logging.
func NewCalculator(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger, generator: amortization.NewGenerator(logger)}
}

// Calculate derives the deal figures for req. It does not validate req; see
// Evaluate for the checked entry point.
func (c *Calculator) Calculate(req Request) Result {
	result := Result{
		TotalCost:      req.TotalCost(),
		AmountFinanced: req.AmountFinanced(),
	}
	result.LTV = LTV(result.AmountFinanced, result.TotalCost)

	if result.AmountFinanced <= 0 {
		// Cash deal or overpaid down payment: nothing to amortize.
		result.Schedule = []amortization.Row{}
		result.TotalProfit = req.SalePrice - result.TotalCost
		result.PTI = PTI(0, req.Frequency, req.MonthlyIncome)
		c.logger.Debug("cash deal, skipping amortization",
			zap.String("op", "deal.Calculate"),
			zap.Float64("salePrice", req.SalePrice),
			zap.Float64("downPayment", req.DownPayment),
		)
		return result
	}

	schedule := c.generator.GenerateSchedule(result.AmountFinanced, req.APR, req.TermWeeks, req.Frequency)

	result.PaymentPerPeriod = schedule.Payment
	result.WeeklyPayment = amortization.WeeklyEquivalent(schedule.Payment, req.Frequency)
	result.Periods = schedule.Periods
	result.TotalInterest = schedule.TotalInterest
	result.TotalProfit = (req.SalePrice - result.TotalCost) + schedule.TotalInterest
	result.BreakEvenPeriod = BreakEvenPeriod(schedule.Rows, result.TotalCost)
	result.PTI = PTI(schedule.Payment, req.Frequency, req.MonthlyIncome)
	result.Schedule = schedule.Rows

	c.logger.Debug("calculated deal metrics",
		zap.String("op", "deal.Calculate"),
		zap.Float64("amountFinanced", result.AmountFinanced),
		zap.Float64("payment", result.PaymentPerPeriod),
		zap.Float64("ltv", result.LTV),
		zap.Float64("totalProfit", result.TotalProfit),
	)
	return result
}

// Evaluate validates req and then calculates it.
func (c *Calculator) Evaluate(req Request) (Result, error) {
	if err := Validate(req); err != nil {
		return Result{}, err
	}
	return c.Calculate(req), nil
}

// PTI returns the monthly-equivalent payment divided by monthly income, or
// nil when there is no income to measure against.
func PTI(payment float64, freq amortization.Frequency, monthlyIncome float64) *float64 {
	if monthlyIncome <= 0 {
		return nil
	}
	monthly := amortization.WeeklyEquivalent(payment, freq) * constants.WeeksPerMonth
	pti := monthly / monthlyIncome
	return &pti
}

// LTV returns amount financed over total cost. The ratio may exceed 1.
func LTV(amountFinanced, totalCost float64) float64 {
	if totalCost <= 0 {
		return 0
	}
	return amountFinanced / totalCost
}

// BreakEvenPeriod returns the first period by which cumulative principal
// reaches totalCost, the last period if it never does, or 0 for an empty
// schedule.
func BreakEvenPeriod(rows []amortization.Row, totalCost float64) int {
	if len(rows) == 0 {
		return 0
	}
	cumulative := 0.0
	for _, row := range rows {
		cumulative += row.Principal
		if cumulative >= totalCost {
			return row.Period
		}
	}
	return rows[len(rows)-1].Period
}
