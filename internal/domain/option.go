package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan option variants
const (
	PlanTypeFullSettlement  = "full_settlement"
	PlanTypeSystemGenerated = "system_generated"
	PlanTypeCustom          = "custom"
)

// Payment frequencies
const (
	FrequencyOnce        = "once"
	FrequencyWeekly      = "weekly"
	FrequencyFortnightly = "fortnightly"
	FrequencyMonthly     = "monthly"
	FrequencyCustom      = "custom"
)

// FrequencyDayInterval returns the due-date step in days for a frequency.
// Custom schedules carry their own dates, so they fall back to weekly.
func FrequencyDayInterval(frequency string) int {
	switch frequency {
	case FrequencyFortnightly:
		return 14
	case FrequencyMonthly:
		return 30
	default:
		return 7
	}
}

// FrequencyWeeksPerCycle returns how many weeks one payment cycle spans.
func FrequencyWeeksPerCycle(frequency string) int {
	switch frequency {
	case FrequencyFortnightly:
		return 2
	case FrequencyMonthly:
		return 4
	default:
		return 1
	}
}

// InstallmentPreview is one scheduled payment inside an unpersisted option
// or a debtor-proposed schedule.
type InstallmentPreview struct {
	Sequence    int             `json:"sequence"`
	DueDate     time.Time       `json:"due_date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// PaymentPlanOption is one of the three repayment proposals offered to a
// debtor. Options are built fresh per request and never persisted; the
// debtor's selection is later materialized into a PaymentPlan.
type PaymentPlanOption struct {
	Type              string               `json:"type"`
	OriginalAmount    decimal.Decimal      `json:"original_amount"`
	DiscountAmount    decimal.Decimal      `json:"discount_amount"`
	DiscountPct       decimal.Decimal      `json:"discount_pct"`
	AdminFee          decimal.Decimal      `json:"admin_fee"`
	TotalAmount       decimal.Decimal      `json:"total_amount"`
	Frequency         string               `json:"frequency"`
	InstallmentCount  int                  `json:"installment_count"`
	InstallmentAmount decimal.Decimal      `json:"installment_amount"`
	StartDate         time.Time            `json:"start_date"`
	EndDate           time.Time            `json:"end_date"`
	Schedule          []InstallmentPreview `json:"schedule"`
	Benefits          []string             `json:"benefits"`
	IsRecommended     bool                 `json:"is_recommended"`
	RequiresApproval  bool                 `json:"requires_approval"`
	DownPaymentAmount decimal.Decimal      `json:"down_payment_amount"`
	DownPaymentDue    *time.Time           `json:"down_payment_due,omitempty"`
}

// ScheduleRecommendation is the output of the scoring collaborator or the
// rules-based optimizer. Confidence is in [0,1].
type ScheduleRecommendation struct {
	Frequency         string               `json:"frequency"`
	InstallmentCount  int                  `json:"installment_count"`
	InstallmentAmount decimal.Decimal      `json:"installment_amount"`
	Schedule          []InstallmentPreview `json:"schedule"`
	Rationale         string               `json:"rationale"`
	Confidence        float64              `json:"confidence"`
}

// ScheduleValidationResult is the verdict on a debtor-proposed schedule.
// IsValid is true iff Errors is empty. Warnings never block acceptance but
// contribute to RequiresManualReview.
type ScheduleValidationResult struct {
	IsValid              bool     `json:"is_valid"`
	RequiresManualReview bool     `json:"requires_manual_review"`
	Warnings             []string `json:"warnings"`
	Errors               []string `json:"errors"`
	Recommendation       string   `json:"recommendation"`
}
