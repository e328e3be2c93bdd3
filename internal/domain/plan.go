package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Plan lifecycle states. Everything after "pending_approval"/"active" is
// managed outside this engine.
const (
	PlanStatusDraft           = "draft"
	PlanStatusPendingApproval = "pending_approval"
	PlanStatusActive          = "active"
)

// Installment states
const (
	InstallmentStatusPending = "pending"
	InstallmentStatusPaid    = "paid"
	InstallmentStatusOverdue = "overdue"
)

// PaymentPlan is the committed schedule created once a debtor selects or
// proposes an option. Persisted by the plan repository; mutated afterwards
// only outside this engine.
type PaymentPlan struct {
	ID                   uuid.UUID        `json:"id" db:"id"`
	Reference            string           `json:"reference" db:"reference"`
	DebtID               string           `json:"debt_id" db:"debt_id"`
	Type                 string           `json:"type" db:"type"`
	Frequency            string           `json:"frequency" db:"frequency"`
	StartDate            time.Time        `json:"start_date" db:"start_date"`
	InstallmentAmount    decimal.Decimal  `json:"installment_amount" db:"installment_amount"`
	InstallmentCount     int              `json:"installment_count" db:"installment_count"`
	TotalAmount          decimal.Decimal  `json:"total_amount" db:"total_amount"`
	DiscountAmount       *decimal.Decimal `json:"discount_amount,omitempty" db:"discount_amount"`
	DownPaymentAmount    *decimal.Decimal `json:"down_payment_amount,omitempty" db:"down_payment_amount"`
	DownPaymentDue       *time.Time       `json:"down_payment_due,omitempty" db:"down_payment_due"`
	RequiresManualReview bool             `json:"requires_manual_review" db:"requires_manual_review"`
	Status               string           `json:"status" db:"status"`
	CreatedBy            string           `json:"created_by" db:"created_by"`
	Notes                string           `json:"notes" db:"notes"`
	Installments         []*PlanInstallment `json:"installments" db:"-"`
	CreatedAt            time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at" db:"updated_at"`
}

// SetDiscount records a discount on the plan, clearing it when the amount
// is zero or negative.
func (p *PaymentPlan) SetDiscount(amount decimal.Decimal) {
	if amount.LessThanOrEqual(decimal.Zero) {
		p.DiscountAmount = nil
		return
	}
	p.DiscountAmount = &amount
}

// SetDownPayment records a down payment on the plan, clearing it when the
// amount is zero or negative.
func (p *PaymentPlan) SetDownPayment(amount decimal.Decimal, due *time.Time) {
	if amount.LessThanOrEqual(decimal.Zero) {
		p.DownPaymentAmount = nil
		p.DownPaymentDue = nil
		return
	}
	p.DownPaymentAmount = &amount
	p.DownPaymentDue = due
}

// PlanInstallment is one concrete scheduled payment of a committed plan.
type PlanInstallment struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	PlanID      uuid.UUID       `json:"plan_id" db:"plan_id"`
	Sequence    int             `json:"sequence" db:"sequence"`
	DueDate     time.Time       `json:"due_date" db:"due_date"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Description string          `json:"description" db:"description"`
	Status      string          `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
