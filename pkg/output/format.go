// Package output provides utilities for formatting and displaying deal
// evaluations and affordability search results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/dealdesk/pkg/amortization"
	"github.com/iwvelando/dealdesk/pkg/deal"
	"github.com/iwvelando/dealdesk/pkg/format"
	"github.com/iwvelando/dealdesk/pkg/mathutil"
	"github.com/iwvelando/dealdesk/pkg/optimization"
	"github.com/iwvelando/dealdesk/pkg/underwriting"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Evaluation bundles a single deal with its figures and underwriting outcome.
type Evaluation struct {
	RunID    string                `json:"runId,omitempty" yaml:"runId,omitempty"`
	Request  deal.Request          `json:"request" yaml:"request"`
	Result   deal.Result           `json:"result" yaml:"result"`
	Decision underwriting.Decision `json:"decision" yaml:"decision"`
}

// Search bundles an affordability search result for machine-readable output.
type Search struct {
	RunID  string              `json:"runId,omitempty" yaml:"runId,omitempty"`
	Result optimization.Result `json:"result" yaml:"result"`
}

// rounder is implemented by reports whose money values are rounded to the
// cent before they are encoded.
type rounder interface {
	rounded() any
}

func (e Evaluation) rounded() any {
	r := e.Result
	r.TotalCost = mathutil.Round(r.TotalCost)
	r.AmountFinanced = mathutil.Round(r.AmountFinanced)
	r.PaymentPerPeriod = mathutil.Round(r.PaymentPerPeriod)
	r.WeeklyPayment = mathutil.Round(r.WeeklyPayment)
	r.TotalInterest = mathutil.Round(r.TotalInterest)
	r.TotalProfit = mathutil.Round(r.TotalProfit)
	if r.Schedule != nil {
		rows := make([]amortization.Row, len(r.Schedule))
		for i, row := range r.Schedule {
			rows[i] = amortization.Row{
				Period:    row.Period,
				Interest:  mathutil.Round(row.Interest),
				Principal: mathutil.Round(row.Principal),
				Balance:   mathutil.Round(row.Balance),
			}
		}
		r.Schedule = rows
	}
	e.Result = r
	return e
}

func (s Search) rounded() any {
	if s.Result.Best != nil {
		best := *s.Result.Best
		best.SalePrice = mathutil.Round(best.SalePrice)
		best.PaymentPerPeriod = mathutil.Round(best.PaymentPerPeriod)
		best.WeeklyPayment = mathutil.Round(best.WeeklyPayment)
		best.TotalProfit = mathutil.Round(best.TotalProfit)
		s.Result.Best = &best
	}
	if s.Result.RecommendedDownPayment != nil {
		down := mathutil.Round(*s.Result.RecommendedDownPayment)
		s.Result.RecommendedDownPayment = &down
	}
	return s
}

// PrettyEvaluation writes a human-readable rather than machine-readable
// summary of a deal, followed by its schedule.
func PrettyEvaluation(w io.Writer, e Evaluation) {
	p := message.NewPrinter(language.English)
	req, res := e.Request, e.Result

	fmt.Fprintf(w, "--- Deal evaluation ---\n")
	_, _ = p.Fprintf(w, "Total cost:         $%.2f\n", mathutil.Round(res.TotalCost))
	_, _ = p.Fprintf(w, "Sale price:         $%.2f\n", mathutil.Round(req.SalePrice))
	_, _ = p.Fprintf(w, "Down payment:       $%.2f\n", mathutil.Round(req.DownPayment))
	_, _ = p.Fprintf(w, "Amount financed:    $%.2f\n", mathutil.Round(res.AmountFinanced))
	if res.Periods > 0 {
		_, _ = p.Fprintf(w, "Payment:            $%.2f %s x %d\n", mathutil.Round(res.PaymentPerPeriod), req.Frequency, res.Periods)
		_, _ = p.Fprintf(w, "Weekly equivalent:  $%.2f\n", mathutil.Round(res.WeeklyPayment))
		_, _ = p.Fprintf(w, "Total interest:     $%.2f\n", mathutil.Round(res.TotalInterest))
	}
	_, _ = p.Fprintf(w, "Total profit:       $%.2f\n", mathutil.Round(res.TotalProfit))
	if res.BreakEvenPeriod > 0 {
		fmt.Fprintf(w, "Break-even period:  %d\n", res.BreakEvenPeriod)
	} else {
		fmt.Fprintf(w, "Break-even period:  n/a\n")
	}
	fmt.Fprintf(w, "PTI:                %s\n", format.OptionalPercent(res.PTI))
	fmt.Fprintf(w, "LTV:                %s\n", format.Percent(res.LTV))

	fmt.Fprintf(w, "\n")
	writeDecision(w, p, e.Decision)

	if len(res.Schedule) == 0 {
		return
	}
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Period | Interest | Principal | Balance\n")
	fmt.Fprintf(w, "______ | ________ | _________ | _______\n")
	for _, row := range res.Schedule {
		_, _ = p.Fprintf(w, "%d | $%.2f | $%.2f | $%.2f\n", row.Period, mathutil.Round(row.Interest), mathutil.Round(row.Principal), mathutil.Round(row.Balance))
	}
}

// PrettySearch writes a human-readable summary of an affordability search.
func PrettySearch(w io.Writer, s Search) {
	p := message.NewPrinter(language.English)
	res := s.Result

	fmt.Fprintf(w, "--- Affordability search ---\n")
	fmt.Fprintf(w, "Structures evaluated: %d\n", res.Evaluated)
	fmt.Fprintf(w, "Structures feasible:  %d\n", res.Feasible)
	if res.Empty() {
		fmt.Fprintf(w, "No structure fits the target payment and policy.\n")
		return
	}

	best := res.Best
	fmt.Fprintf(w, "\nBest structure:\n")
	_, _ = p.Fprintf(w, "  Sale price:        $%.2f\n", mathutil.Round(best.SalePrice))
	fmt.Fprintf(w, "  Term:              %d weeks\n", best.TermWeeks)
	_, _ = p.Fprintf(w, "  Payment:           $%.2f\n", mathutil.Round(best.PaymentPerPeriod))
	_, _ = p.Fprintf(w, "  Weekly equivalent: $%.2f\n", mathutil.Round(best.WeeklyPayment))
	fmt.Fprintf(w, "  PTI:               %s\n", format.Percent(best.PTI))
	fmt.Fprintf(w, "  LTV:               %s\n", format.Percent(best.LTV))
	_, _ = p.Fprintf(w, "  Total profit:      $%.2f\n", mathutil.Round(best.TotalProfit))
	if res.RecommendedDownPayment != nil {
		_, _ = p.Fprintf(w, "  Recommended down:  $%.2f\n", mathutil.Round(*res.RecommendedDownPayment))
	}

	fmt.Fprintf(w, "\n")
	writeDecision(w, p, best.Underwriting)
}

func writeDecision(w io.Writer, p *message.Printer, d underwriting.Decision) {
	fmt.Fprintf(w, "Underwriting: %s\n", d.Verdict)
	for _, reason := range d.Reasons {
		fmt.Fprintf(w, "  - %s\n", reason)
	}
	if d.Adjustments == nil || d.Adjustments.Empty() {
		return
	}
	fmt.Fprintf(w, "Counter-offer options:\n")
	a := d.Adjustments
	if a.NewDownPayment != nil {
		_, _ = p.Fprintf(w, "  Down payment: $%.2f\n", mathutil.Round(*a.NewDownPayment))
	}
	if a.NewTermWeeks != nil {
		fmt.Fprintf(w, "  Term: %d weeks\n", *a.NewTermWeeks)
	}
	if a.NewSalePrice != nil {
		_, _ = p.Fprintf(w, "  Sale price: $%.2f\n", mathutil.Round(*a.NewSalePrice))
	}
	if a.NewAPR != nil {
		fmt.Fprintf(w, "  APR: %.2f%%\n", *a.NewAPR)
	}
}

// CsvSchedule writes the amortization schedule in comma-separated value
// format.
func CsvSchedule(w io.Writer, rows []amortization.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"period", "interest", "principal", "balance"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Period),
			money(row.Interest),
			money(row.Principal),
			money(row.Balance),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CsvSearch writes the best structure of a search as a single CSV record.
// Only the header is written when the search found nothing.
func CsvSearch(w io.Writer, res optimization.Result) error {
	cw := csv.NewWriter(w)
	header := []string{"salePrice", "termWeeks", "paymentPerPeriod", "weeklyPayment", "pti", "ltv", "totalProfit", "verdict", "reasons", "recommendedDownPayment"}
	if err := cw.Write(header); err != nil {
		return err
	}
	if best := res.Best; best != nil {
		down := ""
		if res.RecommendedDownPayment != nil {
			down = money(*res.RecommendedDownPayment)
		}
		record := []string{
			money(best.SalePrice),
			strconv.Itoa(best.TermWeeks),
			money(best.PaymentPerPeriod),
			money(best.WeeklyPayment),
			strconv.FormatFloat(best.PTI, 'f', 4, 64),
			strconv.FormatFloat(best.LTV, 'f', 4, 64),
			money(best.TotalProfit),
			string(best.Underwriting.Verdict),
			strings.Join(best.Underwriting.Reasons, "; "),
			down,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSONFormat writes v as indented JSON. Evaluation and Search reports have
// their money values rounded to the cent.
func JSONFormat(w io.Writer, v any) error {
	if r, ok := v.(rounder); ok {
		v = r.rounded()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAMLFormat writes v as YAML, rounding reports the same way as JSONFormat.
func YAMLFormat(w io.Writer, v any) error {
	if r, ok := v.(rounder); ok {
		v = r.rounded()
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func money(v float64) string {
	return strconv.FormatFloat(mathutil.Round(v), 'f', 2, 64)
}
