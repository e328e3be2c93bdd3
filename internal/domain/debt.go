package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtSnapshot is an immutable view of a debt at generation time.
// It is fetched by the caller and never mutated by the plan engine.
type DebtSnapshot struct {
	DebtID            string          `json:"debt_id"`
	OrganizationID    string          `json:"organization_id"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	CurrencyCode      string          `json:"currency_code"`
}

// FeeConfiguration is the per-organization repayment policy. Created with
// organization defaults and maintained administratively outside this engine;
// read-only here.
type FeeConfiguration struct {
	ID                     uuid.UUID       `json:"id" db:"id"`
	OrganizationID         string          `json:"organization_id" db:"organization_id"`
	FullPaymentDiscountPct decimal.Decimal `json:"full_payment_discount_pct" db:"full_payment_discount_pct"`
	SystemPlanDiscountPct  decimal.Decimal `json:"system_plan_discount_pct" db:"system_plan_discount_pct"`
	CustomPlanFlatFee      decimal.Decimal `json:"custom_plan_flat_fee" db:"custom_plan_flat_fee"`
	CustomPlanFeePct       decimal.Decimal `json:"custom_plan_fee_pct" db:"custom_plan_fee_pct"`
	MinInstallmentAmount   decimal.Decimal `json:"min_installment_amount" db:"min_installment_amount"`
	DefaultTermWeeks       int             `json:"default_term_weeks" db:"default_term_weeks"`
	MaxInstallmentCount    int             `json:"max_installment_count" db:"max_installment_count"`
	CreatedAt              time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at" db:"updated_at"`
}
