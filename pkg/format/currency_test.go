package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "$0.00"},
		{5, "$5.00"},
		{999.999, "$1,000.00"},
		{1234.5, "$1,234.50"},
		{1234567.891, "$1,234,567.89"},
		{-1000, "-$1,000.00"},
		{-0.001, "$0.00"},
	}

	for _, tt := range tests {
		if got := Currency(tt.input); got != tt.expected {
			t.Errorf("Currency(%v) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(0.2482); got != "24.8%" {
		t.Errorf("Percent(0.2482) = %q", got)
	}
	if got := Percent(1.75); got != "175.0%" {
		t.Errorf("Percent(1.75) = %q", got)
	}
	if got := OptionalPercent(nil); got != "n/a" {
		t.Errorf("OptionalPercent(nil) = %q", got)
	}
	v := 0.3
	if got := OptionalPercent(&v); got != "30.0%" {
		t.Errorf("OptionalPercent(0.3) = %q", got)
	}
}
