// Package underwriting evaluates deal metrics against a dealer policy and
// produces an approve/counter/decline decision with counter-offer hints.
package underwriting

import (
	"fmt"
	"math"

	"github.com/iwvelando/dealdesk/pkg/deal"
	"github.com/iwvelando/dealdesk/pkg/format"
	"github.com/iwvelando/dealdesk/pkg/mathutil"
	"github.com/iwvelando/dealdesk/pkg/policy"
	"go.uber.org/zap"
)

// ApprovedReason is the single reason attached to a clean approval.
const ApprovedReason = "deal structure within policy"

// Thresholds are the fixed underwriting limits that are not part of a
// dealer's policy. Decline factors multiply the matching policy ratio, so a
// PTIDeclineFactor of 1.25 with a MaxPTI of 0.25 declines above 0.3125. A nil
// MinProfit takes the default; an explicit zero only counters losing deals.
type Thresholds struct {
	MinProfit         *float64 `json:"minProfit" yaml:"minProfit" mapstructure:"minProfit"`
	ShortTenureMonths int      `json:"shortTenureMonths" yaml:"shortTenureMonths" mapstructure:"shortTenureMonths"`
	PTIDeclineFactor  float64  `json:"ptiDeclineFactor" yaml:"ptiDeclineFactor" mapstructure:"ptiDeclineFactor"`
	LTVDeclineFactor  float64  `json:"ltvDeclineFactor" yaml:"ltvDeclineFactor" mapstructure:"ltvDeclineFactor"`
	RepoDeclineCount  int      `json:"repoDeclineCount" yaml:"repoDeclineCount" mapstructure:"repoDeclineCount"`
}

// DefaultThresholds returns the standard underwriting thresholds.
func DefaultThresholds() Thresholds {
	minProfit := 1500.0
	return Thresholds{
		MinProfit:         &minProfit,
		ShortTenureMonths: 6,
		PTIDeclineFactor:  1.25,
		LTVDeclineFactor:  1.25,
		RepoDeclineCount:  2,
	}
}

// Normalize fills zero values with defaults. Decline factors below 1 would
// decline deals that are inside policy, so they are raised to 1.
func (t Thresholds) Normalize() Thresholds {
	d := DefaultThresholds()
	if t.MinProfit == nil || !mathutil.IsFinite(*t.MinProfit) {
		t.MinProfit = d.MinProfit
	} else {
		minProfit := *t.MinProfit
		t.MinProfit = &minProfit
	}
	if t.ShortTenureMonths <= 0 {
		t.ShortTenureMonths = d.ShortTenureMonths
	}
	if t.PTIDeclineFactor == 0 {
		t.PTIDeclineFactor = d.PTIDeclineFactor
	}
	if t.PTIDeclineFactor < 1 {
		t.PTIDeclineFactor = 1
	}
	if t.LTVDeclineFactor == 0 {
		t.LTVDeclineFactor = d.LTVDeclineFactor
	}
	if t.LTVDeclineFactor < 1 {
		t.LTVDeclineFactor = 1
	}
	if t.RepoDeclineCount <= 0 {
		t.RepoDeclineCount = d.RepoDeclineCount
	}
	return t
}

// Engine applies the underwriting rules.
type Engine struct {
	logger     *zap.Logger
	thresholds Thresholds
}

// NewEngine creates an Engine. Zero thresholds take their defaults.
func NewEngine(logger *zap.Logger, thresholds Thresholds) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, thresholds: thresholds.Normalize()}
}

// Thresholds returns the thresholds in effect.
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// Evaluate runs the rules in order against the request, its calculated
// result and the dealer policy. The verdict starts at Approve and only ever
// escalates.
func (e *Engine) Evaluate(req deal.Request, result deal.Result, p policy.DealerPolicy) Decision {
	t := e.thresholds
	verdict := Approve
	var reasons []string

	flag := func(v Verdict, reason string) {
		verdict = verdict.Escalate(v)
		reasons = append(reasons, reason)
	}

	// 1. Payment to income. Without income there is no ratio to test.
	switch {
	case result.PTI == nil:
	case *result.PTI > p.MaxPTI*t.PTIDeclineFactor:
		flag(Decline, fmt.Sprintf("payment-to-income %s far exceeds the %s limit", format.Percent(*result.PTI), format.Percent(p.MaxPTI)))
	case *result.PTI > p.MaxPTI:
		flag(Counter, fmt.Sprintf("payment-to-income %s exceeds the %s limit", format.Percent(*result.PTI), format.Percent(p.MaxPTI)))
	}

	// 2. Loan to value.
	switch {
	case result.LTV > p.MaxLTV*t.LTVDeclineFactor:
		flag(Decline, fmt.Sprintf("loan-to-value %s far exceeds the %s limit", format.Percent(result.LTV), format.Percent(p.MaxLTV)))
	case result.LTV > p.MaxLTV:
		flag(Counter, fmt.Sprintf("loan-to-value %s exceeds the %s limit", format.Percent(result.LTV), format.Percent(p.MaxLTV)))
	}

	// 3. Down payment.
	if req.DownPayment < p.MinDownPayment {
		flag(Counter, fmt.Sprintf("down payment %s is below the %s minimum",
			format.Currency(req.DownPayment), format.Currency(p.MinDownPayment)))
	}

	// 4. Profit floor.
	if result.TotalProfit < *t.MinProfit {
		flag(Counter, fmt.Sprintf("total profit %s is below the %s floor",
			format.Currency(result.TotalProfit), format.Currency(*t.MinProfit)))
	}

	// 5. Term.
	if req.TermWeeks > p.MaxTermWeeks {
		flag(Counter, fmt.Sprintf("term of %d weeks exceeds the %d week maximum", req.TermWeeks, p.MaxTermWeeks))
	}

	// 6. Job tenure.
	if req.MonthsOnJob < t.ShortTenureMonths {
		flag(Counter, fmt.Sprintf("%d months on the job is under the %d month tenure threshold",
			req.MonthsOnJob, t.ShortTenureMonths))
	}

	// 7. Repossession history overrides everything else.
	if req.RepoCount >= t.RepoDeclineCount {
		flag(Decline, fmt.Sprintf("%d prior repossessions", req.RepoCount))
	}

	decision := Decision{Verdict: verdict, Reasons: reasons}
	if verdict == Approve {
		decision.Reasons = []string{ApprovedReason}
	} else if adj := counterAdjustments(req, result, p); !adj.Empty() {
		decision.Adjustments = &adj
	}

	e.logger.Debug("underwriting decision",
		zap.String("op", "underwriting.Evaluate"),
		zap.String("verdict", decision.Verdict.String()),
		zap.Strings("reasons", decision.Reasons),
	)
	return decision
}

// counterAdjustments derives independent single-axis suggestions.
func counterAdjustments(req deal.Request, result deal.Result, p policy.DealerPolicy) Adjustments {
	var adj Adjustments
	if req.DownPayment < p.MinDownPayment {
		down := p.MinDownPayment
		adj.NewDownPayment = &down
	}
	if req.TermWeeks > p.MaxTermWeeks {
		term := p.MaxTermWeeks
		adj.NewTermWeeks = &term
	}
	if result.LTV > p.MaxLTV {
		price := MaxSalePrice(result.TotalCost, req.DownPayment, p.MaxLTV)
		adj.NewSalePrice = &price
	}
	return adj
}

// MaxSalePrice returns the highest sale price, rounded down to the cent, at
// which amount financed over total cost stays within maxLTV.
func MaxSalePrice(totalCost, downPayment, maxLTV float64) float64 {
	return math.Floor((maxLTV*totalCost+downPayment)*100) / 100
}
