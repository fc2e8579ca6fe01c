package underwriting

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Verdict is the outcome of evaluating a deal against policy.
type Verdict string

const (
	Approve Verdict = "APPROVE"
	Counter Verdict = "COUNTER"
	Decline Verdict = "DECLINE"
)

func (v Verdict) severity() int {
	switch v {
	case Counter:
		return 1
	case Decline:
		return 2
	default:
		return 0
	}
}

// Escalate returns the more severe of v and other. Verdicts never relax.
func (v Verdict) Escalate(other Verdict) Verdict {
	if other.severity() > v.severity() {
		return other
	}
	return v
}

func (v Verdict) String() string {
	return string(v)
}

// ParseVerdict accepts any casing of the three verdict names.
func ParseVerdict(value string) (Verdict, error) {
	switch Verdict(strings.ToUpper(strings.TrimSpace(value))) {
	case Approve:
		return Approve, nil
	case Counter:
		return Counter, nil
	case Decline:
		return Decline, nil
	default:
		return "", fmt.Errorf("unknown verdict %q", value)
	}
}

// UnmarshalJSON rejects verdicts other than the three known values.
func (v *Verdict) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseVerdict(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Adjustments are single-axis counter-offer suggestions. Each is computed
// independently of the others; applying several together is not guaranteed
// to produce an approvable deal.
type Adjustments struct {
	NewDownPayment *float64 `json:"newDownPayment,omitempty" yaml:"newDownPayment,omitempty"`
	NewTermWeeks   *int     `json:"newTermWeeks,omitempty" yaml:"newTermWeeks,omitempty"`
	NewSalePrice   *float64 `json:"newSalePrice,omitempty" yaml:"newSalePrice,omitempty"`
	NewAPR         *float64 `json:"newApr,omitempty" yaml:"newApr,omitempty"`
}

// Empty reports whether no adjustment was suggested.
func (a Adjustments) Empty() bool {
	return a.NewDownPayment == nil && a.NewTermWeeks == nil && a.NewSalePrice == nil && a.NewAPR == nil
}

// Decision is the full underwriting outcome.
type Decision struct {
	Verdict     Verdict      `json:"verdict" yaml:"verdict"`
	Reasons     []string     `json:"reasons" yaml:"reasons"`
	Adjustments *Adjustments `json:"adjustments,omitempty" yaml:"adjustments,omitempty"`
}
