package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/dealdesk/pkg/amortization"
	"github.com/iwvelando/dealdesk/pkg/deal"
	"github.com/iwvelando/dealdesk/pkg/optimization"
	"github.com/iwvelando/dealdesk/pkg/testutil"
	"github.com/iwvelando/dealdesk/pkg/underwriting"
	"gopkg.in/yaml.v3"
)


func sampleEvaluation() Evaluation {
	newDown := 1500.0
	return Evaluation{
		RunID: "run-1",
		Request: deal.Request{
			VehicleCost: 6200,
			ReconCost:   800,
			SalePrice:   11800,
			DownPayment: 1000,
			APR:         24.99,
			TermWeeks:   2,
			Frequency:   amortization.Weekly,
		},
		Result: deal.Result{
			TotalCost:        7000,
			AmountFinanced:   10800,
			PaymentPerPeriod: 5425.97,
			WeeklyPayment:    5425.97,
			Periods:          2,
			TotalInterest:    51.94,
			TotalProfit:      4851.94,
			BreakEvenPeriod:  2,
			PTI:              testutil.Ptr(0.2482),
			LTV:              1.5429,
			Schedule: []amortization.Row{
				{Period: 1, Interest: 51.90, Principal: 5374.07, Balance: 5425.93},
				{Period: 2, Interest: 0.04, Principal: 5425.93, Balance: 0},
			},
		},
		Decision: underwriting.Decision{
			Verdict:     underwriting.Counter,
			Reasons:     []string{"down payment $1,000.00 is below the minimum $1,500.00"},
			Adjustments: &underwriting.Adjustments{NewDownPayment: &newDown},
		},
	}
}

func sampleSearch() Search {
	return Search{
		Result: optimization.Result{
			Best: &optimization.Structure{
				SalePrice:        13500,
				TermWeeks:        104,
				PaymentPerPeriod: 153.0027,
				WeeklyPayment:    153.0027,
				PTI:              0.2216,
				LTV:              2.1552,
				TotalProfit:      11212.28,
				Underwriting: underwriting.Decision{
					Verdict: underwriting.Approve,
					Reasons: []string{"deal structure within policy"},
				},
			},
			RecommendedDownPayment: testutil.Ptr(1000.0),
			Evaluated:              39,
			Feasible:               36,
		},
	}
}

func TestPrettyEvaluation(t *testing.T) {
	var buf bytes.Buffer
	PrettyEvaluation(&buf, sampleEvaluation())
	output := buf.String()

	expected := []string{
		"--- Deal evaluation ---",
		"$11,800.00",
		"$10,800.00",
		"Payment:            $5,425.97 weekly x 2",
		"PTI:                24.8%",
		"LTV:                154.3%",
		"Break-even period:  2",
		"Underwriting: COUNTER",
		"  - down payment $1,000.00 is below the minimum $1,500.00",
		"Counter-offer options:",
		"  Down payment: $1,500.00",
		"Period | Interest | Principal | Balance",
		"2 | $0.04 | $5,425.93 | $0.00",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyEvaluation missing %q in:\n%s", want, output)
		}
	}
}

func TestPrettyEvaluationCashDeal(t *testing.T) {
	e := sampleEvaluation()
	e.Result.Periods = 0
	e.Result.Schedule = []amortization.Row{}
	e.Result.PTI = nil
	e.Result.BreakEvenPeriod = 0
	e.Decision = underwriting.Decision{Verdict: underwriting.Approve, Reasons: []string{"deal structure within policy"}}

	var buf bytes.Buffer
	PrettyEvaluation(&buf, e)
	output := buf.String()

	if strings.Contains(output, "Payment:") {
		t.Errorf("cash deal should not print a payment line")
	}
	if strings.Contains(output, "Period | Interest") {
		t.Errorf("cash deal should not print a schedule")
	}
	if !strings.Contains(output, "Break-even period:  n/a") {
		t.Errorf("expected n/a break-even for a cash deal, got:\n%s", output)
	}
	if !strings.Contains(output, "PTI:                n/a") {
		t.Errorf("expected n/a PTI, got:\n%s", output)
	}
	if strings.Contains(output, "Counter-offer options:") {
		t.Errorf("approved deal should not print counter-offer options")
	}
}

func TestPrettySearch(t *testing.T) {
	var buf bytes.Buffer
	PrettySearch(&buf, sampleSearch())
	output := buf.String()

	expected := []string{
		"Structures evaluated: 39",
		"Structures feasible:  36",
		"Sale price:        $13,500.00",
		"Term:              104 weeks",
		"Weekly equivalent: $153.00",
		"PTI:               22.2%",
		"Recommended down:  $1,000.00",
		"Underwriting: APPROVE",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettySearch missing %q in:\n%s", want, output)
		}
	}
}

func TestPrettySearchEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrettySearch(&buf, Search{Result: optimization.Result{Evaluated: 12}})
	if !strings.Contains(buf.String(), "No structure fits") {
		t.Errorf("expected empty search message, got:\n%s", buf.String())
	}
}

func TestCsvSchedule(t *testing.T) {
	var buf bytes.Buffer
	if err := CsvSchedule(&buf, sampleEvaluation().Result.Schedule); err != nil {
		t.Fatalf("CsvSchedule() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != "period,interest,principal,balance" {
		t.Errorf("unexpected header %v", records[0])
	}
	if strings.Join(records[1], ",") != "1,51.90,5374.07,5425.93" {
		t.Errorf("unexpected first row %v", records[1])
	}
}

func TestCsvSearch(t *testing.T) {
	var buf bytes.Buffer
	if err := CsvSearch(&buf, sampleSearch().Result); err != nil {
		t.Fatalf("CsvSearch() error = %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus 1 row, got %d", len(records))
	}
	row := records[1]
	if row[0] != "13500.00" || row[1] != "104" || row[4] != "0.2216" || row[7] != "APPROVE" || row[9] != "1000.00" {
		t.Errorf("unexpected record %v", row)
	}

	buf.Reset()
	if err := CsvSearch(&buf, optimization.Result{}); err != nil {
		t.Fatalf("CsvSearch() error = %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 1 {
		t.Errorf("expected only a header for an empty search, got %d lines", lines)
	}
}

func TestMoneyRoundsHalfCentsUp(t *testing.T) {
	// 1.005 and 2.675 sit just below the half cent in binary; %.2f alone
	// would print 1.00 and 2.67.
	rows := []amortization.Row{{Period: 1, Interest: 1.005, Principal: 2.675, Balance: 1234.5678}}

	var buf bytes.Buffer
	if err := CsvSchedule(&buf, rows); err != nil {
		t.Fatalf("CsvSchedule() error = %v", err)
	}
	if !strings.Contains(buf.String(), "1,1.01,2.68,1234.57") {
		t.Errorf("expected cent-rounded row, got:\n%s", buf.String())
	}

	buf.Reset()
	PrettyEvaluation(&buf, Evaluation{Result: deal.Result{Schedule: rows, BreakEvenPeriod: 1}})
	if !strings.Contains(buf.String(), "1 | $1.01 | $2.68 | $1,234.57") {
		t.Errorf("expected cent-rounded pretty row, got:\n%s", buf.String())
	}
}

func TestJSONFormatRoundsMoney(t *testing.T) {
	e := sampleEvaluation()
	e.Result.PaymentPerPeriod = 595.7447
	e.Result.WeeklyPayment = 137.1104
	e.Result.Schedule[0].Interest = 51.904999
	s := sampleSearch()

	var buf bytes.Buffer
	if err := JSONFormat(&buf, e); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}
	var decoded struct {
		Result struct {
			PaymentPerPeriod float64  `json:"paymentPerPeriod"`
			WeeklyPayment    float64  `json:"weeklyPayment"`
			PTI              *float64 `json:"pti"`
			Schedule         []struct {
				Interest float64 `json:"interest"`
			} `json:"schedule"`
		} `json:"result"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Result.PaymentPerPeriod != 595.74 || decoded.Result.WeeklyPayment != 137.11 {
		t.Errorf("expected payments rounded to the cent, got %+v", decoded.Result)
	}
	if decoded.Result.Schedule[0].Interest != 51.9 {
		t.Errorf("expected schedule interest 51.90, got %v", decoded.Result.Schedule[0].Interest)
	}
	if decoded.Result.PTI == nil || *decoded.Result.PTI != 0.2482 {
		t.Errorf("ratios must not be rounded, got %v", decoded.Result.PTI)
	}
	if e.Result.Schedule[0].Interest != 51.904999 {
		t.Errorf("JSONFormat must not modify the caller's schedule")
	}

	buf.Reset()
	if err := YAMLFormat(&buf, s); err != nil {
		t.Fatalf("YAMLFormat() error = %v", err)
	}
	if !strings.Contains(buf.String(), "weeklyPayment: 153") || strings.Contains(buf.String(), "153.0027") {
		t.Errorf("expected weekly payment rounded to the cent, got:\n%s", buf.String())
	}
	if s.Result.Best.WeeklyPayment != 153.0027 {
		t.Errorf("YAMLFormat must not modify the caller's result")
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, sampleEvaluation()); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded struct {
		RunID    string `json:"runId"`
		Decision struct {
			Verdict     string `json:"verdict"`
			Adjustments struct {
				NewDownPayment float64 `json:"newDownPayment"`
			} `json:"adjustments"`
		} `json:"decision"`
		Result struct {
			PTI      *float64 `json:"pti"`
			Schedule []struct {
				Period int `json:"period"`
			} `json:"schedule"`
		} `json:"result"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.RunID != "run-1" || decoded.Decision.Verdict != "COUNTER" {
		t.Errorf("unexpected decoded header %+v", decoded)
	}
	if decoded.Decision.Adjustments.NewDownPayment != 1500 {
		t.Errorf("expected newDownPayment 1500, got %v", decoded.Decision.Adjustments.NewDownPayment)
	}
	if decoded.Result.PTI == nil || len(decoded.Result.Schedule) != 2 {
		t.Errorf("unexpected decoded result %+v", decoded.Result)
	}
}

func TestYAMLFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := YAMLFormat(&buf, sampleSearch()); err != nil {
		t.Fatalf("YAMLFormat() error = %v", err)
	}
	if strings.Contains(buf.String(), "runId") {
		t.Errorf("empty runId should be omitted")
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	result, ok := decoded["result"].(map[string]any)
	if !ok {
		t.Fatalf("missing result section in %v", decoded)
	}
	if result["evaluated"] != 39 {
		t.Errorf("expected evaluated 39, got %v", result["evaluated"])
	}
	best, ok := result["bestStructure"].(map[string]any)
	if !ok || best["termWeeks"] != 104 {
		t.Errorf("unexpected bestStructure %v", result["bestStructure"])
	}
}
