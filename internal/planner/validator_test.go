package planner

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/repayflow/plan-engine/internal/domain"
)

func uniformSchedule(count int, amount decimal.Decimal, gapDays int) []domain.InstallmentPreview {
	start := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	schedule := make([]domain.InstallmentPreview, 0, count)
	for i := 0; i < count; i++ {
		schedule = append(schedule, domain.InstallmentPreview{
			Sequence: i + 1,
			DueDate:  start.AddDate(0, 0, i*gapDays),
			Amount:   amount,
		})
	}
	return schedule
}

func feeConfigFixture() *domain.FeeConfiguration {
	return &domain.FeeConfiguration{
		CustomPlanFlatFee:    decimal.NewFromInt(25),
		CustomPlanFeePct:     decimal.NewFromInt(5),
		MinInstallmentAmount: decimal.NewFromInt(25),
		DefaultTermWeeks:     12,
		MaxInstallmentCount:  52,
	}
}

func TestValidateCustomScheduleAccepts(t *testing.T) {
	debt := debtOf(1000)
	schedule := uniformSchedule(10, decimal.NewFromInt(100), 7)

	result := ValidateCustomSchedule(debt, schedule, feeConfigFixture())

	assert.True(t, result.IsValid)
	assert.False(t, result.RequiresManualReview)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Contains(t, result.Recommendation, "looks reasonable")
}

func TestValidateCustomScheduleCoverage(t *testing.T) {
	debt := debtOf(1000)

	t.Run("shortfall is an error", func(t *testing.T) {
		// Covers only 80% of the debt
		result := ValidateCustomSchedule(debt, uniformSchedule(8, decimal.NewFromInt(100), 7), feeConfigFixture())

		assert.False(t, result.IsValid)
		assert.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "shortfall")
		assert.Contains(t, result.Errors[0], "200")
		assert.Contains(t, result.Recommendation, "resolve")
	})

	t.Run("overpayment is only a warning", func(t *testing.T) {
		result := ValidateCustomSchedule(debt, uniformSchedule(10, decimal.NewFromInt(101), 7), feeConfigFixture())

		assert.True(t, result.IsValid)
		assert.True(t, result.RequiresManualReview)
		assert.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "overpayment")
	})

	t.Run("one cent of drift is tolerated", func(t *testing.T) {
		schedule := uniformSchedule(10, decimal.NewFromInt(100), 7)
		schedule[9].Amount = decimal.NewFromFloat(99.99)

		result := ValidateCustomSchedule(debt, schedule, feeConfigFixture())

		assert.True(t, result.IsValid)
		assert.Empty(t, result.Warnings)
	})
}

func TestValidateCustomScheduleDistribution(t *testing.T) {
	t.Run("tiny installments are flagged", func(t *testing.T) {
		debt := debtOf(100)
		result := ValidateCustomSchedule(debt, uniformSchedule(10, decimal.NewFromInt(10), 7), feeConfigFixture())

		assert.True(t, result.IsValid)
		assert.Contains(t, result.Warnings, "10 installment(s) are below 25 currency units")
	})

	t.Run("uneven amounts are flagged", func(t *testing.T) {
		debt := debtOf(800)
		schedule := uniformSchedule(4, decimal.NewFromInt(100), 7)
		schedule[3].Amount = decimal.NewFromInt(500)

		result := ValidateCustomSchedule(debt, schedule, feeConfigFixture())

		assert.True(t, result.RequiresManualReview)
		assert.Contains(t, result.Warnings, "installment amounts vary significantly across the schedule")
	})
}

func TestValidateCustomScheduleFrequency(t *testing.T) {
	t.Run("very frequent payments", func(t *testing.T) {
		debt := debtOf(300)
		result := ValidateCustomSchedule(debt, uniformSchedule(10, decimal.NewFromInt(30), 3), feeConfigFixture())

		assert.Contains(t, result.Warnings, "payments are scheduled very frequently")
	})

	t.Run("irregular intervals", func(t *testing.T) {
		debt := debtOf(400)
		schedule := uniformSchedule(4, decimal.NewFromInt(100), 7)
		schedule[3].DueDate = schedule[2].DueDate.AddDate(0, 0, 45)

		result := ValidateCustomSchedule(debt, schedule, feeConfigFixture())

		assert.Contains(t, result.Warnings, "payment intervals vary significantly")
	})
}

func TestValidateCustomScheduleReasonableness(t *testing.T) {
	t.Run("more than 52 installments is an error", func(t *testing.T) {
		debt := debtOf(5300)
		result := ValidateCustomSchedule(debt, uniformSchedule(53, decimal.NewFromInt(100), 7), feeConfigFixture())

		assert.False(t, result.IsValid)
		assert.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "53")
	})

	t.Run("span beyond a year is a warning", func(t *testing.T) {
		debt := debtOf(200)
		schedule := uniformSchedule(2, decimal.NewFromInt(100), 400)

		result := ValidateCustomSchedule(debt, schedule, feeConfigFixture())

		assert.True(t, result.IsValid)
		assert.Contains(t, result.Warnings, "schedule spans approximately 13 months")
	})
}

func TestDetectAmountOutlier(t *testing.T) {
	amounts := func(values ...int64) []domain.InstallmentPreview {
		schedule := make([]domain.InstallmentPreview, 0, len(values))
		start := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
		for i, v := range values {
			schedule = append(schedule, domain.InstallmentPreview{
				Sequence: i + 1,
				DueDate:  start.AddDate(0, 0, i*7),
				Amount:   decimal.NewFromInt(v),
			})
		}
		return schedule
	}

	tests := []struct {
		name     string
		schedule []domain.InstallmentPreview
		expected bool
	}{
		{"singleton far above the rest", amounts(100, 100, 100, 500), true},
		{"singleton far below the rest", amounts(100, 100, 100, 30), true},
		{"singleton within twice the rest", amounts(100, 100, 100, 150), false},
		{"two balanced groups", amounts(100, 100, 300, 300), false},
		{"uniform schedule", amounts(100, 100, 100), false},
		{"three distinct values", amounts(100, 200, 500), false},
		{"too short to judge", amounts(100, 500), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detectAmountOutlier(tt.schedule))
		})
	}
}

func TestValidateCustomScheduleOutlierForcesReview(t *testing.T) {
	// Sums exactly to the debt, but one installment is 5x the others
	debt := debtOf(800)
	schedule := uniformSchedule(4, decimal.NewFromInt(100), 7)
	schedule[3].Amount = decimal.NewFromInt(500)

	result := ValidateCustomSchedule(debt, schedule, feeConfigFixture())

	assert.True(t, result.IsValid)
	assert.True(t, result.RequiresManualReview)
	assert.Contains(t, result.Recommendation, "manual review")
}
