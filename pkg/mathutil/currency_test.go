package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number round down", -1.234, -1.23},
		{"Zero", 0.0, 0.0},
		{"Very small positive", 0.001, 0.00},
		{"Exactly one cent", 0.01, 0.01},
		{"Nearly two cents", 0.019, 0.02},
		{"Large negative", -12345.678, -12345.68},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRoundPassesThroughNonFinite(t *testing.T) {
	if !math.IsNaN(Round(math.NaN())) {
		t.Errorf("Round(NaN) should stay NaN")
	}
	if !math.IsInf(Round(math.Inf(1)), 1) {
		t.Errorf("Round(+Inf) should stay +Inf")
	}
}

func TestRoundUpToIncrement(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		increment float64
		expected  float64
	}{
		{"Already a multiple", 1000, 50, 1000},
		{"One cent over", 1000.01, 50, 1050},
		{"Float noise is ignored", 1000.0000001, 50, 1000},
		{"Mid increment", 1234.56, 50, 1250},
		{"Small value", 1, 50, 50},
		{"Zero", 0, 50, 0},
		{"Negative rounds toward zero", -70, 50, -50},
		{"Non-positive increment", 1234.56, 0, 1234.56},
		{"Hundreds", 1201, 100, 1300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RoundUpToIncrement(tt.value, tt.increment)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("RoundUpToIncrement(%v, %v) = %v, expected %v", tt.value, tt.increment, result, tt.expected)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1.5) {
		t.Errorf("IsFinite(1.5) should be true")
	}
	if IsFinite(math.NaN()) || IsFinite(math.Inf(-1)) {
		t.Errorf("IsFinite should reject NaN and infinities")
	}
}
