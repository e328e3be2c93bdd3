package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// CeilToStep rounds amount up to the next multiple of step.
// CeilToStep(101, 10) = 110, CeilToStep(100, 10) = 100.
func CeilToStep(amount, step decimal.Decimal) decimal.Decimal {
	return amount.Div(step).Ceil().Mul(step)
}

// RoundCurrency rounds to the currency's minor-unit precision.
func RoundCurrency(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// DaysBetween returns the number of whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// PlanTimestamp formats a time for use inside a plan reference. UTC at
// second precision so references sort chronologically.
func PlanTimestamp(t time.Time) string {
	return t.UTC().Format("20060102150405")
}

// IsDateOverdue checks if a due date is in the past.
func IsDateOverdue(dueDate time.Time) bool {
	return time.Now().After(dueDate)
}

// DecimalFromFloat converts float64 to decimal.Decimal.
func DecimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// DecimalFromString converts string to decimal.Decimal.
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
