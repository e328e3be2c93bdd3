package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCeilToStep(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		step     decimal.Decimal
		expected decimal.Decimal
	}{
		{
			name:     "rounds up to next multiple",
			amount:   decimal.NewFromInt(101),
			step:     decimal.NewFromInt(10),
			expected: decimal.NewFromInt(110),
		},
		{
			name:     "exact multiple stays put",
			amount:   decimal.NewFromInt(100),
			step:     decimal.NewFromInt(10),
			expected: decimal.NewFromInt(100),
		},
		{
			name:     "fractional amounts round up",
			amount:   decimal.NewFromFloat(4.01),
			step:     decimal.NewFromInt(5),
			expected: decimal.NewFromInt(5),
		},
		{
			name:     "whole unit step",
			amount:   decimal.NewFromFloat(12.3),
			step:     decimal.NewFromInt(1),
			expected: decimal.NewFromInt(13),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CeilToStep(tt.amount, tt.step)
			assert.True(t, result.Equal(tt.expected),
				"Expected %v, but got %v", tt.expected, result)
		})
	}
}

func TestDaysBetween(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysBetween(base, base))
	assert.Equal(t, 7, DaysBetween(base, base.AddDate(0, 0, 7)))
	assert.Equal(t, 365, DaysBetween(base, base.AddDate(1, 0, 0)))
}

func TestPlanTimestamp(t *testing.T) {
	// Sydney time must normalize to UTC so references sort chronologically
	sydney := time.FixedZone("AEST", 10*3600)
	at := time.Date(2026, 8, 28, 9, 30, 15, 0, sydney)

	assert.Equal(t, "20260827233015", PlanTimestamp(at))
}

func TestRoundCurrency(t *testing.T) {
	assert.True(t, RoundCurrency(decimal.RequireFromString("10.005")).Equal(decimal.RequireFromString("10.01")))
	assert.True(t, RoundCurrency(decimal.RequireFromString("10.004")).Equal(decimal.RequireFromString("10")))
}
