package planner

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/repayflow/plan-engine/internal/domain"
	"github.com/repayflow/plan-engine/pkg/utils"
)

// roundingBand maps amounts below UpTo to a ceiling granularity. Bands are
// evaluated in ascending order; a zero UpTo is the open-ended tail.
type roundingBand struct {
	UpTo decimal.Decimal
	Step decimal.Decimal
}

func ceilToBand(amount decimal.Decimal, bands []roundingBand) decimal.Decimal {
	for _, b := range bands {
		if b.UpTo.IsZero() || amount.LessThan(b.UpTo) {
			return utils.CeilToStep(amount, b.Step)
		}
	}
	return amount
}

// installmentBands: <20 -> whole unit, <100 -> nearest 5, else nearest 10.
// Always rounded upward so the schedule never under-collects per installment.
var installmentBands = []roundingBand{
	{UpTo: decimal.NewFromInt(20), Step: decimal.NewFromInt(1)},
	{UpTo: decimal.NewFromInt(100), Step: decimal.NewFromInt(5)},
	{Step: decimal.NewFromInt(10)},
}

// CalculateSmartInstallment determines how many installments to spread a
// total over and how much each one should be. Inputs are pre-validated by
// the caller; a non-positive input is a contract breach and panics.
//
// The returned count*amount always covers the total; any surplus is absorbed
// by the schedule builder's last-installment remainder logic.
func CalculateSmartInstallment(total, minInstallment decimal.Decimal, targetWeeks, maxInstallments int) (int, decimal.Decimal) {
	if !total.IsPositive() || !minInstallment.IsPositive() || targetWeeks <= 0 || maxInstallments <= 0 {
		panic(fmt.Sprintf("smart installment calculator called with invalid inputs: total=%s min=%s weeks=%d max=%d",
			total, minInstallment, targetWeeks, maxInstallments))
	}

	idealCount := int(total.Div(minInstallment).Ceil().IntPart())
	if idealCount > targetWeeks {
		idealCount = targetWeeks
	}
	if idealCount > maxInstallments {
		idealCount = maxInstallments
	}
	if idealCount < 1 {
		idealCount = 1
	}

	baseAmount := total.Div(decimal.NewFromInt(int64(idealCount)))
	amount := ceilToBand(baseAmount, installmentBands)

	adjustedCount := int(total.Div(amount).Ceil().IntPart())
	if adjustedCount > maxInstallments {
		adjustedCount = maxInstallments
	}
	if adjustedCount < 1 {
		adjustedCount = 1
	}

	return adjustedCount, amount
}

// CalculateAdminFeePerInstallment spreads the configured custom-plan fee
// across the installments. The result is floor-protected to one currency
// unit and ceiled to "non-silly" values: nearest 5 from 5 upward, whole
// units below that. Never under-charges relative to configured policy.
func CalculateAdminFeePerInstallment(total decimal.Decimal, count int, cfg *domain.FeeConfiguration) decimal.Decimal {
	if count <= 0 {
		panic(fmt.Sprintf("admin fee calculator called with invalid installment count %d", count))
	}

	totalFee := cfg.CustomPlanFlatFee.Add(total.Mul(cfg.CustomPlanFeePct).Div(decimal.NewFromInt(100)))
	perInstallment := totalFee.Div(decimal.NewFromInt(int64(count)))

	one := decimal.NewFromInt(1)
	if perInstallment.LessThan(one) {
		return one
	}
	if perInstallment.GreaterThanOrEqual(decimal.NewFromInt(5)) {
		return utils.CeilToStep(perInstallment, decimal.NewFromInt(5))
	}
	return utils.CeilToStep(perInstallment, one)
}
