// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/dealdesk/pkg/constants"
)

// usuryWarningAPR is the rate above which many states cap installment
// lending; exceeding it is legal in some places so it is only a warning.
const usuryWarningAPR = 36.0

// ConfigValidator collects the configuration values that warnings are
// derived from.
type ConfigValidator struct {
	Mode           string
	MaxTermWeeks   int
	MinDownPayment float64
	Deal           DealConfig
	Search         SearchConfig
}

type DealConfig struct {
	TotalCost   float64
	SalePrice   float64
	DownPayment float64
	TermWeeks   int
	APR         float64
}

type SearchConfig struct {
	SalePriceMin float64
	SalePriceMax float64
	TermOptions  []int
}

// ValidateDealTerms checks a single deal for settings that will not fail
// validation but are probably mistakes.
func ValidateDealTerms(d DealConfig, maxTermWeeks int) []string {
	var warnings []string

	if d.APR > usuryWarningAPR {
		warnings = append(warnings, fmt.Sprintf("Deal APR %.2f%% is above %.0f%%; check state rate caps", d.APR, usuryWarningAPR))
	}
	if d.APR > 0 && d.APR < 1 {
		warnings = append(warnings, fmt.Sprintf("Deal APR %.4f looks like a fraction; APR is an annual percentage", d.APR))
	}
	if d.TermWeeks > maxTermWeeks {
		warnings = append(warnings, fmt.Sprintf("Deal term %d weeks exceeds the policy maximum of %d weeks", d.TermWeeks, maxTermWeeks))
	}
	if d.SalePrice > 0 && d.DownPayment >= d.SalePrice {
		warnings = append(warnings, "Down payment covers the sale price; the deal will be treated as cash")
	}
	if d.SalePrice > 0 && d.SalePrice < d.TotalCost {
		warnings = append(warnings, fmt.Sprintf("Sale price %.2f is below total cost %.2f", d.SalePrice, d.TotalCost))
	}

	return warnings
}

// ValidateSearchGrid checks the affordability grid for options that can never
// be selected.
func ValidateSearchGrid(s SearchConfig, totalCost float64, maxTermWeeks int) []string {
	var warnings []string

	for _, term := range s.TermOptions {
		if term > maxTermWeeks {
			warnings = append(warnings, fmt.Sprintf("Search term option %d weeks exceeds the policy maximum of %d weeks and will always be discarded",
				term, maxTermWeeks))
		}
	}
	if s.SalePriceMax > 0 && s.SalePriceMax < totalCost {
		warnings = append(warnings, fmt.Sprintf("Search salePriceMax %.2f is below total cost %.2f", s.SalePriceMax, totalCost))
	}

	return warnings
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if cv.Mode == constants.ModeOptimize {
		warnings = append(warnings, ValidateSearchGrid(cv.Search, cv.Deal.TotalCost, cv.MaxTermWeeks)...)
		if cv.Deal.DownPayment < cv.MinDownPayment {
			warnings = append(warnings, fmt.Sprintf("Available down payment %.2f is below the policy minimum %.2f; every structure will counter",
				cv.Deal.DownPayment, cv.MinDownPayment))
		}
		if cv.Deal.APR > usuryWarningAPR {
			warnings = append(warnings, fmt.Sprintf("Deal APR %.2f%% is above %.0f%%; check state rate caps", cv.Deal.APR, usuryWarningAPR))
		}
		return warnings
	}

	return append(warnings, ValidateDealTerms(cv.Deal, cv.MaxTermWeeks)...)
}
