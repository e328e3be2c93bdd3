package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DTOs for requests and responses

type DebtSnapshotRequest struct {
	OrganizationID    string          `json:"organization_id" validate:"required"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount" validate:"required"`
	CurrencyCode      string          `json:"currency_code" validate:"required,len=3"`
}

// Snapshot builds the immutable debt view from the request plus the debt
// identifier carried in the URL.
func (r *DebtSnapshotRequest) Snapshot(debtID string) *DebtSnapshot {
	return &DebtSnapshot{
		DebtID:            debtID,
		OrganizationID:    r.OrganizationID,
		OutstandingAmount: r.OutstandingAmount,
		CurrencyCode:      r.CurrencyCode,
	}
}

type GenerateOptionsRequest struct {
	Debt DebtSnapshotRequest `json:"debt" validate:"required"`
}

type GenerateOptionsResponse struct {
	DebtID  string               `json:"debt_id"`
	Options []*PaymentPlanOption `json:"options"`
}

type ProposedInstallmentRequest struct {
	Sequence int             `json:"sequence" validate:"required,gt=0"`
	DueDate  time.Time       `json:"due_date" validate:"required"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
}

type CreatePlanFromOptionRequest struct {
	Debt    DebtSnapshotRequest `json:"debt" validate:"required"`
	Option  *PaymentPlanOption  `json:"option" validate:"required"`
	ActorID string              `json:"actor_id" validate:"required"`
}

type CreateCustomPlanRequest struct {
	Debt         DebtSnapshotRequest          `json:"debt" validate:"required"`
	Installments []ProposedInstallmentRequest `json:"installments" validate:"required,min=1,dive"`
	ActorID      string                       `json:"actor_id" validate:"required"`
}

// Previews converts the proposed installments into the engine's preview form.
func (r *CreateCustomPlanRequest) Previews() []InstallmentPreview {
	previews := make([]InstallmentPreview, 0, len(r.Installments))
	for _, in := range r.Installments {
		previews = append(previews, InstallmentPreview{
			Sequence: in.Sequence,
			DueDate:  in.DueDate,
			Amount:   in.Amount,
		})
	}
	return previews
}

type ValidateCustomScheduleRequest struct {
	Debt         DebtSnapshotRequest          `json:"debt" validate:"required"`
	Installments []ProposedInstallmentRequest `json:"installments" validate:"required,min=1,dive"`
}

// Previews converts the proposed installments into the engine's preview form.
func (r *ValidateCustomScheduleRequest) Previews() []InstallmentPreview {
	previews := make([]InstallmentPreview, 0, len(r.Installments))
	for _, in := range r.Installments {
		previews = append(previews, InstallmentPreview{
			Sequence: in.Sequence,
			DueDate:  in.DueDate,
			Amount:   in.Amount,
		})
	}
	return previews
}

type CreatePlanResponse struct {
	Plan *PaymentPlan `json:"plan"`
}
