package planner

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/repayflow/plan-engine/internal/domain"
)

// Validator policy constants. These are deliberate heuristics carried over
// from collections practice; treat them as policy, not tunables.
const (
	coverageTolerance    = "0.01"
	minSensibleAmount    = 25
	maxReasonableCount   = 52
	maxReasonableSpan    = 365 // days
	minAverageGapDays    = 5.0
	maxGapDeviationDays  = 14.0
	outlierRatio         = 2.0
	distributionSpreadPc = 0.5 // fraction of the mean
)

// ValidateCustomSchedule checks a debtor-proposed schedule against the debt
// it is meant to clear. All checks run independently; nothing short-circuits.
// Warnings never invalidate a proposal, they only queue it for review.
func ValidateCustomSchedule(debt *domain.DebtSnapshot, schedule []domain.InstallmentPreview, cfg *domain.FeeConfiguration) *domain.ScheduleValidationResult {
	result := &domain.ScheduleValidationResult{
		Warnings: []string{},
		Errors:   []string{},
	}

	ordered := make([]domain.InstallmentPreview, len(schedule))
	copy(ordered, schedule)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Sequence < ordered[j].Sequence })

	checkCoverage(debt, ordered, result)
	checkDistribution(ordered, result)
	checkFrequency(ordered, result)
	checkReasonableness(ordered, result)
	anomaly := detectAmountOutlier(ordered)

	result.IsValid = len(result.Errors) == 0
	result.RequiresManualReview = len(result.Warnings) > 0 || anomaly

	switch {
	case !result.IsValid:
		result.Recommendation = "Please resolve the listed errors before submitting this payment plan."
	case result.RequiresManualReview:
		result.Recommendation = "This proposal will be queued for manual review. Consider the system-generated plan as an alternative."
	default:
		result.Recommendation = "The proposed payment plan looks reasonable."
	}

	return result
}

// checkCoverage verifies the schedule pays the debt off. A tolerance band of
// one cent either side absorbs rounding noise.
func checkCoverage(debt *domain.DebtSnapshot, schedule []domain.InstallmentPreview, result *domain.ScheduleValidationResult) {
	tolerance, _ := decimal.NewFromString(coverageTolerance)
	shortfall := debt.OutstandingAmount.Sub(ScheduleTotal(schedule))

	if shortfall.GreaterThan(tolerance) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("proposed schedule does not cover the full debt amount: shortfall of %s %s",
				debt.CurrencyCode, shortfall.Round(2)))
	} else if shortfall.LessThan(tolerance.Neg()) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("proposed schedule exceeds the debt amount: overpayment of %s %s",
				debt.CurrencyCode, shortfall.Neg().Round(2)))
	}
}

func checkDistribution(schedule []domain.InstallmentPreview, result *domain.ScheduleValidationResult) {
	if len(schedule) < 2 {
		return
	}

	mean := ScheduleTotal(schedule).Div(decimal.NewFromInt(int64(len(schedule))))
	maxSpread := mean.Mul(decimal.NewFromFloat(distributionSpreadPc))

	varies := false
	belowMinimum := 0
	floor := decimal.NewFromInt(minSensibleAmount)
	for _, in := range schedule {
		if in.Amount.Sub(mean).Abs().GreaterThan(maxSpread) {
			varies = true
		}
		if in.Amount.LessThan(floor) {
			belowMinimum++
		}
	}

	if varies {
		result.Warnings = append(result.Warnings, "installment amounts vary significantly across the schedule")
	}
	if belowMinimum > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d installment(s) are below %d currency units", belowMinimum, minSensibleAmount))
	}
}

func checkFrequency(schedule []domain.InstallmentPreview, result *domain.ScheduleValidationResult) {
	if len(schedule) < 2 {
		return
	}

	gaps := make([]float64, 0, len(schedule)-1)
	totalGap := 0.0
	for i := 1; i < len(schedule); i++ {
		gap := schedule[i].DueDate.Sub(schedule[i-1].DueDate).Hours() / 24
		gaps = append(gaps, gap)
		totalGap += gap
	}
	average := totalGap / float64(len(gaps))

	if average < minAverageGapDays {
		result.Warnings = append(result.Warnings, "payments are scheduled very frequently")
	}
	for _, gap := range gaps {
		if gap-average > maxGapDeviationDays || average-gap > maxGapDeviationDays {
			result.Warnings = append(result.Warnings, "payment intervals vary significantly")
			break
		}
	}
}

func checkReasonableness(schedule []domain.InstallmentPreview, result *domain.ScheduleValidationResult) {
	if len(schedule) > maxReasonableCount {
		result.Errors = append(result.Errors,
			fmt.Sprintf("schedule has %d installments; a plan may not exceed %d", len(schedule), maxReasonableCount))
	}

	if len(schedule) >= 2 {
		spanDays := schedule[len(schedule)-1].DueDate.Sub(schedule[0].DueDate).Hours() / 24
		if spanDays > maxReasonableSpan {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("schedule spans approximately %.0f months", spanDays/30))
		}
	}
}

// detectAmountOutlier flags the "one wildly different installment among
// otherwise-uniform payments" pattern: at least three installments, exactly
// two distinct amounts, one of them appearing exactly once, and that
// singleton more than twice the other amount (or less than half of it).
func detectAmountOutlier(schedule []domain.InstallmentPreview) bool {
	if len(schedule) < 3 {
		return false
	}

	counts := make(map[string]int)
	values := make(map[string]decimal.Decimal)
	for _, in := range schedule {
		key := in.Amount.Round(2).String()
		counts[key]++
		values[key] = in.Amount
	}
	if len(counts) != 2 {
		return false
	}

	var singleton, rest decimal.Decimal
	found := false
	for key, n := range counts {
		if n == 1 {
			singleton = values[key]
			found = true
		} else {
			rest = values[key]
		}
	}
	if !found || rest.IsZero() {
		return false
	}

	ratio := singleton.Div(rest)
	limit := decimal.NewFromFloat(outlierRatio)
	return ratio.GreaterThan(limit) || ratio.LessThan(decimal.NewFromInt(1).Div(limit))
}
