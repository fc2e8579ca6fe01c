// Package optimization provides shared data structures for affordability
// search results.
package optimization

import "github.com/iwvelando/dealdesk/pkg/underwriting"

// Structure is one (sale price, term) deal structure that survived the
// affordability filter.
type Structure struct {
	SalePrice        float64               `json:"salePrice" yaml:"salePrice"`
	TermWeeks        int                   `json:"termWeeks" yaml:"termWeeks"`
	PaymentPerPeriod float64               `json:"paymentPerPeriod" yaml:"paymentPerPeriod"`
	WeeklyPayment    float64               `json:"weeklyPayment" yaml:"weeklyPayment"`
	PTI              float64               `json:"pti" yaml:"pti"`
	LTV              float64               `json:"ltv" yaml:"ltv"`
	TotalProfit      float64               `json:"totalProfit" yaml:"totalProfit"`
	Underwriting     underwriting.Decision `json:"underwriting" yaml:"underwriting"`
}

// Better reports whether s should be preferred over other: the higher sale
// price wins and the shorter term breaks ties.
func (s Structure) Better(other Structure) bool {
	if s.SalePrice != other.SalePrice {
		return s.SalePrice > other.SalePrice
	}
	return s.TermWeeks < other.TermWeeks
}

// Result summarizes an affordability search. Best is nil when no candidate
// was feasible.
type Result struct {
	Best                   *Structure `json:"bestStructure,omitempty" yaml:"bestStructure,omitempty"`
	RecommendedDownPayment *float64   `json:"recommendedDownPayment,omitempty" yaml:"recommendedDownPayment,omitempty"`
	Evaluated              int        `json:"evaluated" yaml:"evaluated"`
	Feasible               int        `json:"feasible" yaml:"feasible"`
}

// Empty indicates whether the search found no feasible structure.
func (r Result) Empty() bool {
	return r.Best == nil
}
