// Package policy defines the dealer lending policy deals are evaluated
// against.
package policy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/dealdesk/pkg/mathutil"
)

// ErrInvalidPolicy is matched by every error returned from Validate.
var ErrInvalidPolicy = errors.New("invalid dealer policy")

// DealerPolicy holds a dealer's lending limits. Ratios are fractions, so a
// MaxLTV of 1.75 allows financing 175% of the dealer's cost.
type DealerPolicy struct {
	MaxPTI         float64 `json:"maxPti" yaml:"maxPti" mapstructure:"maxPti"`
	MaxLTV         float64 `json:"maxLtv" yaml:"maxLtv" mapstructure:"maxLtv"`
	MinDownPayment float64 `json:"minDownPayment" yaml:"minDownPayment" mapstructure:"minDownPayment"`
	MaxTermWeeks   int     `json:"maxTermWeeks" yaml:"maxTermWeeks" mapstructure:"maxTermWeeks"`
	DefaultAPR     float64 `json:"defaultApr" yaml:"defaultApr" mapstructure:"defaultApr"` // annual percent
}

// Default returns a conservative starting policy.
func Default() DealerPolicy {
	return DealerPolicy{
		MaxPTI:         0.25,
		MaxLTV:         1.75,
		MinDownPayment: 1000,
		MaxTermWeeks:   160,
		DefaultAPR:     24.99,
	}
}

// Validate rejects limits that cannot be enforced.
func (p DealerPolicy) Validate() error {
	var problems []string

	positive := []struct {
		name  string
		value float64
	}{
		{"maxPti", p.MaxPTI},
		{"maxLtv", p.MaxLTV},
	}
	for _, f := range positive {
		if !mathutil.IsFinite(f.value) || f.value <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be a positive ratio, got %v", f.name, f.value))
		}
	}
	if p.MaxPTI > 1 {
		problems = append(problems, fmt.Sprintf("maxPti is a fraction of income and must not exceed 1, got %v", p.MaxPTI))
	}
	if !mathutil.IsFinite(p.MinDownPayment) || p.MinDownPayment < 0 {
		problems = append(problems, fmt.Sprintf("minDownPayment must not be negative, got %v", p.MinDownPayment))
	}
	if p.MaxTermWeeks <= 0 {
		problems = append(problems, fmt.Sprintf("maxTermWeeks must be positive, got %d", p.MaxTermWeeks))
	}
	if !mathutil.IsFinite(p.DefaultAPR) || p.DefaultAPR < 0 {
		problems = append(problems, fmt.Sprintf("defaultApr must not be negative, got %v", p.DefaultAPR))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPolicy, strings.Join(problems, "; "))
	}
	return nil
}
