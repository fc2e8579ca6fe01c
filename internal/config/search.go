package config

import (
	"fmt"
	"sort"

	"github.com/iwvelando/dealdesk/internal/optimizer"
	"github.com/iwvelando/dealdesk/pkg/constants"
	"github.com/iwvelando/dealdesk/pkg/mathutil"
)

const (
	defaultSalePriceStep = 100
)

// SearchConfig defines the affordability grid. Borrower and vehicle figures
// come from the deal section.
type SearchConfig struct {
	SalePriceMin  float64  `yaml:"salePriceMin" mapstructure:"salePriceMin"`
	SalePriceMax  float64  `yaml:"salePriceMax" mapstructure:"salePriceMax"`
	SalePriceStep float64  `yaml:"salePriceStep,omitempty" mapstructure:"salePriceStep"`
	TermOptions   []int    `yaml:"termOptions" mapstructure:"termOptions"`
	TargetPayment *float64 `yaml:"targetPayment,omitempty" mapstructure:"targetPayment"`
	Workers       int      `yaml:"workers,omitempty" mapstructure:"workers"`
	MaxCandidates int      `yaml:"maxCandidates,omitempty" mapstructure:"maxCandidates"`
}

// Normalize ensures defaults and canonical values are applied before validation.
func (s *SearchConfig) Normalize() {
	if s == nil {
		return
	}
	if s.SalePriceStep == 0 {
		s.SalePriceStep = defaultSalePriceStep
	}
	if s.MaxCandidates <= 0 {
		s.MaxCandidates = constants.DefaultMaxCandidates
	}
	if len(s.TermOptions) > 1 {
		sort.Ints(s.TermOptions)
		unique := s.TermOptions[:1]
		for _, term := range s.TermOptions[1:] {
			if term != unique[len(unique)-1] {
				unique = append(unique, term)
			}
		}
		s.TermOptions = unique
	}
}

// Validate returns an error when the search grid is unusable.
func (s *SearchConfig) Validate() error {
	if s == nil {
		return fmt.Errorf("search configuration cannot be nil")
	}
	if !mathutil.IsFinite(s.SalePriceMin) || !mathutil.IsFinite(s.SalePriceMax) || !mathutil.IsFinite(s.SalePriceStep) {
		return fmt.Errorf("search sale price bounds must be finite")
	}
	if s.SalePriceMin <= 0 {
		return fmt.Errorf("search requires a positive salePriceMin, got %.2f", s.SalePriceMin)
	}
	if s.SalePriceMin > s.SalePriceMax {
		return fmt.Errorf("search salePriceMin %.2f must not exceed salePriceMax %.2f", s.SalePriceMin, s.SalePriceMax)
	}
	if s.SalePriceStep <= 0 {
		return fmt.Errorf("search salePriceStep must be positive, got %.2f", s.SalePriceStep)
	}
	if len(s.TermOptions) == 0 {
		return fmt.Errorf("search requires at least one term option")
	}
	for _, term := range s.TermOptions {
		if term <= 0 {
			return fmt.Errorf("search term options must be positive, got %d", term)
		}
	}
	if s.TargetPayment != nil && !mathutil.IsFinite(*s.TargetPayment) {
		return fmt.Errorf("search targetPayment must be finite")
	}
	return nil
}

// SearchInput combines the deal and search sections into an optimizer input.
func (c *Configuration) SearchInput() optimizer.Input {
	return optimizer.Input{
		MonthlyIncome: c.Deal.MonthlyIncome,
		DownPayment:   c.Deal.DownPayment,
		VehicleCost:   c.Deal.VehicleCost,
		ReconCost:     c.Deal.ReconCost,
		APR:           c.Deal.APR,
		Frequency:     c.Deal.Frequency,
		TermOptions:   append([]int(nil), c.Search.TermOptions...),
		SalePriceMin:  c.Search.SalePriceMin,
		SalePriceMax:  c.Search.SalePriceMax,
		SalePriceStep: c.Search.SalePriceStep,
		MonthsOnJob:   c.Deal.MonthsOnJob,
		RepoCount:     c.Deal.RepoCount,
		TargetPayment: c.Search.TargetPayment,
		Policy:        c.Policy,
	}
}

// RunnerOptions returns the optimizer options for this configuration.
func (c *Configuration) RunnerOptions() optimizer.Options {
	return optimizer.Options{
		Workers:       c.Search.Workers,
		MaxCandidates: c.Search.MaxCandidates,
		Thresholds:    c.Underwriting,
	}
}
