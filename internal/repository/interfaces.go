package repository

import (
	"context"
	"time"

	"github.com/repayflow/plan-engine/internal/domain"
)

// FeeConfigRepository defines access to per-organization repayment policy
type FeeConfigRepository interface {
	// GetByOrganizationID retrieves the fee configuration for an organization
	GetByOrganizationID(ctx context.Context, organizationID string) (*domain.FeeConfiguration, error)
}

// PlanRepository defines the interface for committed payment plan storage
type PlanRepository interface {
	// Create persists a plan together with its installments
	Create(ctx context.Context, plan *domain.PaymentPlan) error

	// GetByReference retrieves a plan by its human-facing reference
	GetByReference(ctx context.Context, reference string) (*domain.PaymentPlan, error)

	// GetInstallmentsByPlanID retrieves a plan's installments in sequence order
	GetInstallmentsByPlanID(ctx context.Context, planID string) ([]*domain.PlanInstallment, error)

	// GetInstallmentsDueBetween retrieves pending installments due in a window
	GetInstallmentsDueBetween(ctx context.Context, from, to time.Time) ([]*domain.PlanInstallment, error)

	// MarkInstallmentsOverdue flips pending installments past their due date
	// to overdue, returning how many rows changed
	MarkInstallmentsOverdue(ctx context.Context, asOf time.Time) (int64, error)
}
