package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/repayflow/plan-engine/internal/domain"
)

type feeConfigRepository struct {
	db *sqlx.DB
}

func NewFeeConfigRepository(db *sqlx.DB) FeeConfigRepository {
	return &feeConfigRepository{db: db}
}

func (r *feeConfigRepository) GetByOrganizationID(ctx context.Context, organizationID string) (*domain.FeeConfiguration, error) {
	query := `
		SELECT id, organization_id, full_payment_discount_pct, system_plan_discount_pct,
		       custom_plan_flat_fee, custom_plan_fee_pct, min_installment_amount,
		       default_term_weeks, max_installment_count, created_at, updated_at
		FROM fee_configurations
		WHERE organization_id = $1
	`

	var config domain.FeeConfiguration
	err := r.db.GetContext(ctx, &config, query, organizationID)
	if err != nil {
		return nil, err
	}

	return &config, nil
}
