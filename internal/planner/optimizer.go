package planner

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/repayflow/plan-engine/internal/domain"
)

// psychologicalBands: price points debtors find easy to commit to.
// <50 -> nearest 5, <100 -> nearest 10, <500 -> nearest 25, <1000 -> nearest
// 50, else nearest 100. Always ceiled.
var psychologicalBands = []roundingBand{
	{UpTo: decimal.NewFromInt(50), Step: decimal.NewFromInt(5)},
	{UpTo: decimal.NewFromInt(100), Step: decimal.NewFromInt(10)},
	{UpTo: decimal.NewFromInt(500), Step: decimal.NewFromInt(25)},
	{UpTo: decimal.NewFromInt(1000), Step: decimal.NewFromInt(50)},
	{Step: decimal.NewFromInt(100)},
}

// frequencyForDebtSize picks a payment cadence from the outstanding
// principal: small debts get room to breathe, large ones get paid down
// weekly.
func frequencyForDebtSize(principal decimal.Decimal) string {
	switch {
	case principal.LessThan(decimal.NewFromInt(1000)):
		return domain.FrequencyMonthly
	case principal.LessThan(decimal.NewFromInt(5000)):
		return domain.FrequencyFortnightly
	default:
		return domain.FrequencyWeekly
	}
}

// OptimizeWithRules is the deterministic optimizer used whenever the scoring
// collaborator is absent, failing, or not confident enough. It schedules the
// given total (which may already carry a discount) over the organization's
// target term.
func OptimizeWithRules(debt *domain.DebtSnapshot, total decimal.Decimal, targetWeeks int, minInstallment decimal.Decimal, now time.Time) *domain.ScheduleRecommendation {
	if !total.IsPositive() || targetWeeks <= 0 || !minInstallment.IsPositive() {
		panic(fmt.Sprintf("rules optimizer called with invalid inputs: total=%s weeks=%d min=%s", total, targetWeeks, minInstallment))
	}

	frequency := frequencyForDebtSize(debt.OutstandingAmount)

	maxInstallments := targetWeeks / domain.FrequencyWeeksPerCycle(frequency)
	if maxInstallments < 1 {
		maxInstallments = 1
	}

	base := total.Div(decimal.NewFromInt(int64(maxInstallments)))
	amount := ceilToBand(base, psychologicalBands)
	if amount.LessThan(minInstallment) {
		amount = minInstallment
	}

	count := int(total.Div(amount).Ceil().IntPart())
	if count < 1 {
		count = 1
	}

	firstDue := now.AddDate(0, 0, FirstInstallmentLeadDays)
	schedule := BuildSchedule(count, amount, total, frequency, firstDue)

	return &domain.ScheduleRecommendation{
		Frequency:         frequency,
		InstallmentCount:  count,
		InstallmentAmount: amount,
		Schedule:          schedule,
		Rationale: fmt.Sprintf("%d %s installments of %s %s clear the balance within the configured %d-week term.",
			count, frequency, debt.CurrencyCode, amount, targetWeeks),
		Confidence: ruleConfidence(count, amount),
	}
}

// ruleConfidence scores how comfortable the deterministic plan looks:
// base 0.85, +0.10 for a count in the practical 4..26 range, +0.05 for a
// round multiple-of-5 amount, capped at 1.0. Only the external-parity
// reference reads this; the fallback path proceeds regardless.
func ruleConfidence(count int, amount decimal.Decimal) float64 {
	confidence := 0.85
	if count >= 4 && count <= 26 {
		confidence += 0.10
	}
	if amount.Mod(decimal.NewFromInt(5)).IsZero() {
		confidence += 0.05
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
