package planner

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/repayflow/plan-engine/internal/domain"
)

// Schedule policy constants.
const (
	// FirstInstallmentLeadDays is how long after generation the first
	// installment falls due.
	FirstInstallmentLeadDays = 7

	// FullSettlementLeadDays is the lead time for the single full-settlement
	// installment.
	FullSettlementLeadDays = 1
)

// BuildSchedule produces an ordered installment list of length count starting
// at firstDueDate and stepping by the frequency's day interval.
//
// Every installment except the last carries the per-installment amount; the
// last one is total minus everything before it. That remainder absorption is
// what keeps rounded-up installments from overcollecting: the schedule sum
// equals total exactly, to minor-unit precision.
func BuildSchedule(count int, amount, total decimal.Decimal, frequency string, firstDueDate time.Time) []domain.InstallmentPreview {
	if count <= 0 || !amount.IsPositive() || !total.IsPositive() {
		panic(fmt.Sprintf("schedule builder called with invalid inputs: count=%d amount=%s total=%s", count, amount, total))
	}

	step := domain.FrequencyDayInterval(frequency)
	schedule := make([]domain.InstallmentPreview, 0, count)

	paid := decimal.Zero
	for seq := 1; seq <= count; seq++ {
		due := firstDueDate.AddDate(0, 0, (seq-1)*step)
		installmentAmount := amount
		if seq == count {
			installmentAmount = total.Sub(paid)
		}
		schedule = append(schedule, domain.InstallmentPreview{
			Sequence:    seq,
			DueDate:     due,
			Amount:      installmentAmount.Round(2),
			Description: fmt.Sprintf("Installment %d of %d", seq, count),
		})
		paid = paid.Add(installmentAmount)
	}

	return schedule
}

// ScheduleTotal sums the amounts of a schedule.
func ScheduleTotal(schedule []domain.InstallmentPreview) decimal.Decimal {
	total := decimal.Zero
	for _, in := range schedule {
		total = total.Add(in.Amount)
	}
	return total
}
