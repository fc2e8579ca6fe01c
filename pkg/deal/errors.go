package deal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/dealdesk/pkg/mathutil"
)

// ErrInvalidInput is matched by every error returned from Validate.
var ErrInvalidInput = errors.New("invalid deal input")

// InvalidInputError lists the fields of a Request that failed validation.
type InvalidInputError struct {
	Problems []string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(e.Problems, "; "))
}

// Unwrap allows errors.Is(err, ErrInvalidInput).
func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// Validate rejects requests the calculator cannot meaningfully price:
// non-finite numbers, negative amounts, an unknown frequency, or a financed
// balance with no term.
func Validate(req Request) error {
	var problems []string

	money := []struct {
		name  string
		value float64
	}{
		{"vehicleCost", req.VehicleCost},
		{"reconCost", req.ReconCost},
		{"salePrice", req.SalePrice},
		{"downPayment", req.DownPayment},
		{"apr", req.APR},
		{"monthlyIncome", req.MonthlyIncome},
	}
	for _, m := range money {
		if !mathutil.IsFinite(m.value) {
			problems = append(problems, fmt.Sprintf("%s must be finite", m.name))
			continue
		}
		if m.value < 0 {
			problems = append(problems, fmt.Sprintf("%s must not be negative, got %.2f", m.name, m.value))
		}
	}

	if req.TermWeeks < 0 {
		problems = append(problems, fmt.Sprintf("termWeeks must not be negative, got %d", req.TermWeeks))
	}
	if req.TermWeeks == 0 && req.AmountFinanced() > 0 {
		problems = append(problems, "termWeeks must be positive when a balance is financed")
	}
	if req.MonthsOnJob < 0 {
		problems = append(problems, fmt.Sprintf("monthsOnJob must not be negative, got %d", req.MonthsOnJob))
	}
	if req.RepoCount < 0 {
		problems = append(problems, fmt.Sprintf("repoCount must not be negative, got %d", req.RepoCount))
	}
	if !req.Frequency.Valid() {
		problems = append(problems, fmt.Sprintf("paymentFrequency %q is not supported", req.Frequency))
	}

	if len(problems) > 0 {
		return &InvalidInputError{Problems: problems}
	}
	return nil
}
