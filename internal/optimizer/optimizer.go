// Package optimizer searches a grid of sale prices and terms for the best
// deal structure a borrower can afford within dealer policy.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/iwvelando/dealdesk/pkg/amortization"
	"github.com/iwvelando/dealdesk/pkg/constants"
	"github.com/iwvelando/dealdesk/pkg/deal"
	"github.com/iwvelando/dealdesk/pkg/mathutil"
	"github.com/iwvelando/dealdesk/pkg/optimization"
	"github.com/iwvelando/dealdesk/pkg/policy"
	"github.com/iwvelando/dealdesk/pkg/underwriting"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidSearch is returned when the search bounds cannot produce a
// finite, non-empty grid.
var ErrInvalidSearch = errors.New("invalid affordability search")

// gridEpsilon absorbs float error when stepping up to an inclusive maximum.
const gridEpsilon = 1e-9

// Input describes the borrower, the vehicle and the grid to search.
type Input struct {
	MonthlyIncome float64
	DownPayment   float64
	VehicleCost   float64
	ReconCost     float64
	APR           float64
	Frequency     amortization.Frequency
	TermOptions   []int
	SalePriceMin  float64
	SalePriceMax  float64
	SalePriceStep float64
	MonthsOnJob   int
	RepoCount     int
	// TargetPayment is the periodic payment the recommended down payment is
	// solved for. When nil the payment that puts PTI at the policy maximum is
	// used.
	TargetPayment *float64
	Policy        policy.DealerPolicy
}

// Options tune a Runner.
type Options struct {
	Workers       int
	MaxCandidates int
	Thresholds    underwriting.Thresholds
}

// Runner evaluates affordability searches.
type Runner struct {
	logger        *zap.Logger
	calculator    *deal.Calculator
	engine        *underwriting.Engine
	workers       int
	maxCandidates int
}

type candidate struct {
	salePrice float64
	termWeeks int
}

type evaluation struct {
	candidate
	result   deal.Result
	decision underwriting.Decision
	discard  string
}

func (e evaluation) feasible() bool {
	return e.discard == ""
}

func (e evaluation) structure() optimization.Structure {
	s := optimization.Structure{
		SalePrice:        e.salePrice,
		TermWeeks:        e.termWeeks,
		PaymentPerPeriod: e.result.PaymentPerPeriod,
		WeeklyPayment:    e.result.WeeklyPayment,
		LTV:              e.result.LTV,
		TotalProfit:      e.result.TotalProfit,
		Underwriting:     e.decision,
	}
	if e.result.PTI != nil {
		s.PTI = *e.result.PTI
	}
	return s
}

// NewRunner constructs a Runner. Zero options take their defaults.
func NewRunner(logger *zap.Logger, opts Options) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	maxCandidates := opts.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = constants.DefaultMaxCandidates
	}
	return &Runner{
		logger:        logger,
		calculator:    deal.NewCalculator(logger),
		engine:        underwriting.NewEngine(logger, opts.Thresholds),
		workers:       workers,
		maxCandidates: maxCandidates,
	}
}

// Search enumerates every (sale price, term) pair, discards structures that
// are outside policy or declined, and selects the highest sale price with the
// shortest term as tie-break. A search with no feasible candidate returns a
// Result with a nil Best and no error.
func (r *Runner) Search(ctx context.Context, in Input) (*optimization.Result, error) {
	candidates, err := r.candidates(in)
	if err != nil {
		return nil, err
	}

	evaluations := make([]evaluation, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			evaluations[i] = r.evaluate(in, candidates[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &optimization.Result{Evaluated: len(evaluations)}
	for _, eval := range evaluations {
		if !eval.feasible() {
			r.logger.Debug("discarded candidate",
				zap.String("op", "optimizer.Search"),
				zap.Float64("salePrice", eval.salePrice),
				zap.Int("termWeeks", eval.termWeeks),
				zap.String("reason", eval.discard),
			)
			continue
		}
		result.Feasible++
		s := eval.structure()
		if result.Best == nil || s.Better(*result.Best) {
			result.Best = &s
		}
	}

	if result.Best == nil {
		r.logger.Info("no feasible structure",
			zap.String("op", "optimizer.Search"),
			zap.Int("evaluated", result.Evaluated),
		)
		return result, nil
	}

	result.RecommendedDownPayment = RecommendDownPayment(
		result.Best.SalePrice, result.Best.TermWeeks, in.APR, in.Frequency,
		targetPayment(in), in.Policy)

	fields := []zap.Field{
		zap.String("op", "optimizer.Search"),
		zap.Float64("salePrice", result.Best.SalePrice),
		zap.Int("termWeeks", result.Best.TermWeeks),
		zap.Float64("weeklyPayment", result.Best.WeeklyPayment),
		zap.Float64("pti", result.Best.PTI),
		zap.String("verdict", result.Best.Underwriting.Verdict.String()),
		zap.Int("evaluated", result.Evaluated),
		zap.Int("feasible", result.Feasible),
	}
	if result.RecommendedDownPayment != nil {
		fields = append(fields, zap.Float64("recommendedDownPayment", *result.RecommendedDownPayment))
	}
	r.logger.Info("optimizer selected structure", fields...)

	return result, nil
}

// Evaluate prices and underwrites a single request with the Runner's
// calculator and engine.
func (r *Runner) Evaluate(req deal.Request, p policy.DealerPolicy) (deal.Result, underwriting.Decision) {
	result := r.calculator.Calculate(req)
	return result, r.engine.Evaluate(req, result, p)
}

func (r *Runner) evaluate(in Input, c candidate) evaluation {
	req := deal.Request{
		VehicleCost:   in.VehicleCost,
		ReconCost:     in.ReconCost,
		SalePrice:     c.salePrice,
		DownPayment:   in.DownPayment,
		APR:           in.APR,
		TermWeeks:     c.termWeeks,
		Frequency:     in.Frequency,
		MonthlyIncome: in.MonthlyIncome,
		MonthsOnJob:   in.MonthsOnJob,
		RepoCount:     in.RepoCount,
	}

	eval := evaluation{candidate: c}
	if c.termWeeks > in.Policy.MaxTermWeeks {
		eval.discard = "term exceeds policy maximum"
		return eval
	}

	eval.result, eval.decision = r.Evaluate(req, in.Policy)
	switch {
	case eval.result.PaymentPerPeriod <= 0:
		eval.discard = "no payment"
	case eval.result.PTI == nil || *eval.result.PTI <= 0:
		eval.discard = "no payment-to-income"
	case *eval.result.PTI > in.Policy.MaxPTI:
		eval.discard = "payment-to-income over policy"
	case eval.decision.Verdict == underwriting.Decline:
		eval.discard = "declined"
	}
	return eval
}

func (r *Runner) candidates(in Input) ([]candidate, error) {
	if !mathutil.IsFinite(in.SalePriceMin) || !mathutil.IsFinite(in.SalePriceMax) || !mathutil.IsFinite(in.SalePriceStep) {
		return nil, fmt.Errorf("%w: sale price bounds must be finite", ErrInvalidSearch)
	}
	if in.SalePriceStep <= 0 {
		return nil, fmt.Errorf("%w: sale price step must be positive, got %.2f", ErrInvalidSearch, in.SalePriceStep)
	}
	if in.SalePriceMin > in.SalePriceMax {
		return nil, fmt.Errorf("%w: minimum sale price %.2f exceeds maximum %.2f", ErrInvalidSearch, in.SalePriceMin, in.SalePriceMax)
	}
	if len(in.TermOptions) == 0 {
		return nil, fmt.Errorf("%w: at least one term option is required", ErrInvalidSearch)
	}
	for _, term := range in.TermOptions {
		if term <= 0 {
			return nil, fmt.Errorf("%w: term options must be positive, got %d", ErrInvalidSearch, term)
		}
	}

	steps := math.Floor((in.SalePriceMax-in.SalePriceMin)/in.SalePriceStep+gridEpsilon) + 1
	total := steps * float64(len(in.TermOptions))
	if total > float64(r.maxCandidates) {
		return nil, fmt.Errorf("%w: %.0f candidates exceeds the limit of %d", ErrInvalidSearch, total, r.maxCandidates)
	}

	candidates := make([]candidate, 0, int(total))
	for i := 0; i < int(steps); i++ {
		price := in.SalePriceMin + float64(i)*in.SalePriceStep
		for _, term := range in.TermOptions {
			candidates = append(candidates, candidate{salePrice: price, termWeeks: term})
		}
	}
	return candidates, nil
}

func targetPayment(in Input) float64 {
	if in.TargetPayment != nil {
		return *in.TargetPayment
	}
	return amortization.FromMonthly(in.MonthlyIncome*in.Policy.MaxPTI, in.Frequency)
}

// RecommendDownPayment solves for the down payment that brings the periodic
// payment on salePrice down to target. The answer is floored at the policy
// minimum and rounded up to the next $50. It returns nil when target is not
// positive or no down payment is needed.
func RecommendDownPayment(salePrice float64, termWeeks int, apr float64, freq amortization.Frequency,
	target float64, p policy.DealerPolicy) *float64 {
	if target <= 0 {
		return nil
	}
	periods := amortization.PeriodCount(termWeeks, freq)
	maxFinanced := amortization.MaxPrincipal(target, amortization.PeriodicRate(apr, freq), periods)
	down := math.Max(salePrice-maxFinanced, p.MinDownPayment)
	down = mathutil.RoundUpToIncrement(down, constants.DownPaymentIncrement)
	if down <= 0 {
		return nil
	}
	return &down
}
