package amortization

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCalculatePayment(t *testing.T) {
	tests := []struct {
		name          string
		principal     float64
		apr           float64
		freq          Frequency
		periods       int
		expectedRange []float64 // [min, max] expected range
	}{
		{
			name:          "23 month BHPH note",
			principal:     10800,
			apr:           24.99,
			freq:          Monthly,
			periods:       23,
			expectedRange: []float64{595.74, 595.75},
		},
		{
			name:          "3 year note at 18%",
			principal:     10000,
			apr:           18.0,
			freq:          Monthly,
			periods:       36,
			expectedRange: []float64{361.52, 361.53},
		},
		{
			name:          "2 year weekly note",
			principal:     5000,
			apr:           29.99,
			freq:          Weekly,
			periods:       104,
			expectedRange: []float64{64.06, 64.07},
		},
		{
			name:          "Zero interest",
			principal:     1000,
			apr:           0,
			freq:          Weekly,
			periods:       10,
			expectedRange: []float64{100, 100},
		},
		{
			name:          "No principal",
			principal:     0,
			apr:           24.99,
			freq:          Weekly,
			periods:       52,
			expectedRange: []float64{0, 0},
		},
		{
			name:          "Negative principal",
			principal:     -500,
			apr:           24.99,
			freq:          Weekly,
			periods:       52,
			expectedRange: []float64{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculatePayment(tt.principal, PeriodicRate(tt.apr, tt.freq), tt.periods)
			if result < tt.expectedRange[0] || result > tt.expectedRange[1] {
				t.Errorf("CalculatePayment() = %.4f, expected range [%.2f, %.2f]",
					result, tt.expectedRange[0], tt.expectedRange[1])
			}
		})
	}
}

func TestCalculatePaymentZeroRateIsExact(t *testing.T) {
	for _, tc := range []struct {
		principal float64
		periods   int
	}{
		{1000, 10},
		{7000, 3},
		{12345.67, 89},
	} {
		assert.Equal(t, tc.principal/float64(tc.periods), CalculatePayment(tc.principal, 0, tc.periods))
	}
}

func TestMaxPrincipalInvertsPayment(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		periods   int
	}{
		{"Monthly 24.99%", 10800, PeriodicRate(24.99, Monthly), 23},
		{"Weekly 29.99%", 5000, PeriodicRate(29.99, Weekly), 104},
		{"Zero rate", 6000, 0, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment := CalculatePayment(tt.principal, tt.rate, tt.periods)
			assert.InDelta(t, tt.principal, MaxPrincipal(payment, tt.rate, tt.periods), 1e-6)
		})
	}

	assert.Equal(t, 0.0, MaxPrincipal(0, 0.01, 12))
	assert.Equal(t, 0.0, MaxPrincipal(-10, 0.01, 12))
}

func TestCalculateInterestPayment(t *testing.T) {
	assert.InDelta(t, 224.91, CalculateInterestPayment(10800, PeriodicRate(24.99, Monthly)), 0.01)
	assert.Equal(t, 0.0, CalculateInterestPayment(10800, 0))
}

func TestGenerateScheduleSumsToPrincipal(t *testing.T) {
	generator := NewGenerator(zap.NewNop())

	tests := []struct {
		name      string
		principal float64
		apr       float64
		termWeeks int
		freq      Frequency
	}{
		{"Monthly", 10800, 24.99, 100, Monthly},
		{"Biweekly", 8400, 19.5, 78, Biweekly},
		{"Weekly", 5000, 29.99, 104, Weekly},
		{"Weekly long", 15000, 27.0, 208, Weekly},
		{"Tiny principal", 1, 24.99, 52, Weekly},
		{"Single period", 900, 12, 1, Weekly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := generator.GenerateSchedule(tt.principal, tt.apr, tt.termWeeks, tt.freq)
			require.Len(t, schedule.Rows, PeriodCount(tt.termWeeks, tt.freq))

			sum := 0.0
			interest := 0.0
			previous := tt.principal
			for i, row := range schedule.Rows {
				assert.Equal(t, i+1, row.Period)
				assert.LessOrEqual(t, row.Balance, previous, "balance increased at period %d", row.Period)
				assert.GreaterOrEqual(t, row.Balance, 0.0, "negative balance at period %d", row.Period)
				previous = row.Balance
				sum += row.Principal
				interest += row.Interest
			}

			assert.InDelta(t, tt.principal, sum, 0.01, "principal components should sum to the amount financed")
			assert.InDelta(t, 0, schedule.Rows[len(schedule.Rows)-1].Balance, 0.01)
			assert.InDelta(t, schedule.TotalInterest, interest, 1e-9)
			assert.InDelta(t, schedule.Payment*float64(schedule.Periods)-tt.principal, schedule.TotalInterest, 0.01)
		})
	}
}

func TestGenerateScheduleZeroRate(t *testing.T) {
	schedule := NewGenerator(nil).GenerateSchedule(5200, 0, 52, Weekly)

	require.Len(t, schedule.Rows, 52)
	assert.Equal(t, 100.0, schedule.Payment)
	assert.Equal(t, 0.0, schedule.TotalInterest)
	for _, row := range schedule.Rows {
		assert.Equal(t, 100.0, row.Principal)
		assert.Equal(t, 0.0, row.Interest)
	}
	assert.InDelta(t, 0, schedule.Rows[51].Balance, 1e-9)
}

func TestGenerateScheduleNoPrincipal(t *testing.T) {
	generator := NewGenerator(zap.NewNop())

	for _, principal := range []float64{0, -250} {
		schedule := generator.GenerateSchedule(principal, 24.99, 104, Weekly)
		assert.Equal(t, 0.0, schedule.Payment)
		assert.Equal(t, 0.0, schedule.TotalInterest)
		assert.NotNil(t, schedule.Rows)
		assert.Empty(t, schedule.Rows)
	}
}

func TestGenerateScheduleTrustsCaller(t *testing.T) {
	// Garbage term is floored to one period rather than rejected.
	schedule := NewGenerator(nil).GenerateSchedule(1000, 24.99, -5, Weekly)
	require.Len(t, schedule.Rows, 1)
	assert.False(t, math.IsNaN(schedule.Payment))
	assert.InDelta(t, 0, schedule.Rows[0].Balance, 1e-9)
}
