package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/repayflow/plan-engine/internal/domain"
)

type planRepository struct {
	db *sqlx.DB
}

func NewPlanRepository(db *sqlx.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Create(ctx context.Context, plan *domain.PaymentPlan) error {
	planQuery := `
		INSERT INTO payment_plans (id, reference, debt_id, type, frequency, start_date,
		       installment_amount, installment_count, total_amount, discount_amount,
		       down_payment_amount, down_payment_due, requires_manual_review, status,
		       created_by, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	installmentQuery := `
		INSERT INTO plan_installments (id, plan_id, sequence, due_date, amount, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, planQuery,
		plan.ID,
		plan.Reference,
		plan.DebtID,
		plan.Type,
		plan.Frequency,
		plan.StartDate,
		plan.InstallmentAmount,
		plan.InstallmentCount,
		plan.TotalAmount,
		plan.DiscountAmount,
		plan.DownPaymentAmount,
		plan.DownPaymentDue,
		plan.RequiresManualReview,
		plan.Status,
		plan.CreatedBy,
		plan.Notes,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for _, installment := range plan.Installments {
		_, err = tx.ExecContext(ctx, installmentQuery,
			installment.ID,
			installment.PlanID,
			installment.Sequence,
			installment.DueDate,
			installment.Amount,
			installment.Description,
			installment.Status,
			installment.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *planRepository) GetByReference(ctx context.Context, reference string) (*domain.PaymentPlan, error) {
	query := `
		SELECT id, reference, debt_id, type, frequency, start_date, installment_amount,
		       installment_count, total_amount, discount_amount, down_payment_amount,
		       down_payment_due, requires_manual_review, status, created_by, notes,
		       created_at, updated_at
		FROM payment_plans
		WHERE reference = $1
	`

	var plan domain.PaymentPlan
	err := r.db.GetContext(ctx, &plan, query, reference)
	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (r *planRepository) GetInstallmentsByPlanID(ctx context.Context, planID string) ([]*domain.PlanInstallment, error) {
	query := `
		SELECT id, plan_id, sequence, due_date, amount, description, status, created_at
		FROM plan_installments
		WHERE plan_id = $1
		ORDER BY sequence
	`

	var installments []*domain.PlanInstallment
	err := r.db.SelectContext(ctx, &installments, query, planID)
	if err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *planRepository) GetInstallmentsDueBetween(ctx context.Context, from, to time.Time) ([]*domain.PlanInstallment, error) {
	query := `
		SELECT id, plan_id, sequence, due_date, amount, description, status, created_at
		FROM plan_installments
		WHERE status = 'pending' AND due_date >= $1 AND due_date < $2
		ORDER BY due_date, sequence
	`

	var installments []*domain.PlanInstallment
	err := r.db.SelectContext(ctx, &installments, query, from, to)
	if err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *planRepository) MarkInstallmentsOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	query := `
		UPDATE plan_installments
		SET status = 'overdue'
		WHERE status = 'pending' AND due_date < $1
	`

	result, err := r.db.ExecContext(ctx, query, asOf)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
