package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/repayflow/plan-engine/internal/domain"
	"github.com/repayflow/plan-engine/internal/planner"
	"github.com/repayflow/plan-engine/internal/repository"
	"github.com/repayflow/plan-engine/internal/scoring"
	customError "github.com/repayflow/plan-engine/pkg/errors"
	"github.com/repayflow/plan-engine/pkg/utils"
)

var oneHundred = decimal.NewFromInt(100)

type PlanService struct {
	FeeConfigRepo repository.FeeConfigRepository
	PlanRepo      repository.PlanRepository
	scoring       *scoring.Adapter

	// now is swappable for deterministic tests
	now func() time.Time
}

func NewPlanService(
	feeConfigRepo repository.FeeConfigRepository,
	planRepo repository.PlanRepository,
	scoringAdapter *scoring.Adapter,
) *PlanService {
	return &PlanService{
		FeeConfigRepo: feeConfigRepo,
		PlanRepo:      planRepo,
		scoring:       scoringAdapter,
		now:           time.Now,
	}
}

// GenerateOptions builds the three repayment proposals for a debt, in fixed
// order: full settlement, system generated, custom template. A missing fee
// configuration fails the whole request; no partial list is returned.
func (s *PlanService) GenerateOptions(ctx context.Context, debt *domain.DebtSnapshot) ([]*domain.PaymentPlanOption, error) {
	if !debt.OutstandingAmount.IsPositive() {
		return nil, customError.WrapInvalidDebtAmount(debt.OutstandingAmount.String())
	}

	config, err := s.feeConfig(ctx, debt.OrganizationID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	options := []*domain.PaymentPlanOption{
		s.buildFullSettlementOption(debt, config, now),
		s.buildSystemGeneratedOption(ctx, debt, config, now),
		s.buildCustomTemplateOption(debt, config),
	}

	return options, nil
}

func (s *PlanService) buildFullSettlementOption(debt *domain.DebtSnapshot, config *domain.FeeConfiguration, now time.Time) *domain.PaymentPlanOption {
	principal := debt.OutstandingAmount
	discount := principal.Mul(config.FullPaymentDiscountPct).Div(oneHundred).Round(2)
	total := principal.Sub(discount)
	dueDate := now.AddDate(0, 0, planner.FullSettlementLeadDays)

	schedule := []domain.InstallmentPreview{
		{
			Sequence:    1,
			DueDate:     dueDate,
			Amount:      total,
			Description: "Full settlement payment",
		},
	}

	benefits := []string{
		fmt.Sprintf("Save %s %s (%s%%) by settling in full", debt.CurrencyCode, discount, config.FullPaymentDiscountPct),
		"Single payment and the debt is cleared immediately",
	}

	return &domain.PaymentPlanOption{
		Type:              domain.PlanTypeFullSettlement,
		OriginalAmount:    principal,
		DiscountAmount:    discount,
		DiscountPct:       config.FullPaymentDiscountPct,
		TotalAmount:       total,
		Frequency:         domain.FrequencyOnce,
		InstallmentCount:  1,
		InstallmentAmount: total,
		StartDate:         dueDate,
		EndDate:           dueDate,
		Schedule:          schedule,
		Benefits:          benefits,
		IsRecommended:     true,
		RequiresApproval:  false,
	}
}

func (s *PlanService) buildSystemGeneratedOption(ctx context.Context, debt *domain.DebtSnapshot, config *domain.FeeConfiguration, now time.Time) *domain.PaymentPlanOption {
	principal := debt.OutstandingAmount
	discount := principal.Mul(config.SystemPlanDiscountPct).Div(oneHundred).Round(2)
	total := principal.Sub(discount)

	recommendation := s.scoring.Recommend(ctx, debt, total, config.DefaultTermWeeks, config.MinInstallmentAmount, now)

	option := &domain.PaymentPlanOption{
		Type:              domain.PlanTypeSystemGenerated,
		OriginalAmount:    principal,
		DiscountAmount:    discount,
		DiscountPct:       config.SystemPlanDiscountPct,
		TotalAmount:       total,
		Frequency:         recommendation.Frequency,
		InstallmentCount:  recommendation.InstallmentCount,
		InstallmentAmount: recommendation.InstallmentAmount,
		Schedule:          recommendation.Schedule,
		Benefits: []string{
			fmt.Sprintf("Save %s %s (%s%%) with an optimized installment plan", debt.CurrencyCode, discount, config.SystemPlanDiscountPct),
			recommendation.Rationale,
		},
		IsRecommended:    false,
		RequiresApproval: false,
	}

	if n := len(recommendation.Schedule); n > 0 {
		option.StartDate = recommendation.Schedule[0].DueDate
		option.EndDate = recommendation.Schedule[n-1].DueDate
	}

	return option
}

// buildCustomTemplateOption is a placeholder inviting the debtor to submit
// their own schedule; it carries no dates and no installments.
func (s *PlanService) buildCustomTemplateOption(debt *domain.DebtSnapshot, config *domain.FeeConfiguration) *domain.PaymentPlanOption {
	return &domain.PaymentPlanOption{
		Type:             domain.PlanTypeCustom,
		OriginalAmount:   debt.OutstandingAmount,
		TotalAmount:      debt.OutstandingAmount,
		AdminFee:         config.CustomPlanFlatFee,
		Frequency:        domain.FrequencyCustom,
		InstallmentCount: 0,
		Schedule:         []domain.InstallmentPreview{},
		Benefits: []string{
			"Design a payment schedule that fits your situation",
			fmt.Sprintf("Admin fee applies: %s %s flat plus %s%% of the scheduled total",
				debt.CurrencyCode, config.CustomPlanFlatFee, config.CustomPlanFeePct),
		},
		IsRecommended:    false,
		RequiresApproval: true,
	}
}

// MaterializeFromOption turns a chosen option into a committed plan and
// persists it with its installments.
func (s *PlanService) MaterializeFromOption(ctx context.Context, debt *domain.DebtSnapshot, option *domain.PaymentPlanOption, actorID string) (*domain.PaymentPlan, error) {
	now := s.now()

	plan := &domain.PaymentPlan{
		ID:                   uuid.New(),
		Reference:            planReference(option.Type, debt.DebtID, now),
		DebtID:               debt.DebtID,
		Type:                 option.Type,
		Frequency:            option.Frequency,
		StartDate:            option.StartDate,
		InstallmentAmount:    option.InstallmentAmount,
		InstallmentCount:     option.InstallmentCount,
		TotalAmount:          option.TotalAmount,
		RequiresManualReview: option.Type == domain.PlanTypeCustom,
		CreatedBy:            actorID,
		Notes:                fmt.Sprintf("Materialized from %s option", option.Type),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	plan.SetDiscount(option.DiscountAmount)
	plan.SetDownPayment(option.DownPaymentAmount, option.DownPaymentDue)

	plan.Status = domain.PlanStatusActive
	if plan.RequiresManualReview {
		plan.Status = domain.PlanStatusPendingApproval
	}

	for _, preview := range option.Schedule {
		plan.Installments = append(plan.Installments, s.installmentFromPreview(plan.ID, preview, now))
	}

	if err := s.PlanRepo.Create(ctx, plan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return plan, nil
}

// MaterializeFromCustomSchedule validates a debtor-proposed schedule and, if
// it holds up, commits it with the organization's admin fee added on top of
// every installment. Custom plans always require manual review, whatever the
// validator said about warnings.
func (s *PlanService) MaterializeFromCustomSchedule(ctx context.Context, debt *domain.DebtSnapshot, proposed []domain.InstallmentPreview, actorID string) (*domain.PaymentPlan, error) {
	config, err := s.feeConfig(ctx, debt.OrganizationID)
	if err != nil {
		return nil, err
	}

	result := planner.ValidateCustomSchedule(debt, proposed, config)
	if !result.IsValid {
		return nil, customError.WrapScheduleValidationFailed(result)
	}

	ordered := make([]domain.InstallmentPreview, len(proposed))
	copy(ordered, proposed)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Sequence < ordered[j].Sequence })

	// The fee is computed on the original proposed total and count, then
	// added to each installment rather than replacing any of it.
	originalTotal := planner.ScheduleTotal(ordered)
	count := len(ordered)
	feePerInstallment := planner.CalculateAdminFeePerInstallment(originalTotal, count, config)
	totalPayable := originalTotal.Add(feePerInstallment.Mul(decimal.NewFromInt(int64(count))))

	now := s.now()
	plan := &domain.PaymentPlan{
		ID:                   uuid.New(),
		Reference:            planReference(domain.PlanTypeCustom, debt.DebtID, now),
		DebtID:               debt.DebtID,
		Type:                 domain.PlanTypeCustom,
		Frequency:            domain.FrequencyCustom,
		StartDate:            ordered[0].DueDate,
		InstallmentAmount:    ordered[0].Amount.Add(feePerInstallment),
		InstallmentCount:     count,
		TotalAmount:          totalPayable,
		RequiresManualReview: true,
		Status:               domain.PlanStatusPendingApproval,
		CreatedBy:            actorID,
		Notes: fmt.Sprintf("Debtor-proposed schedule. Admin fee of %s %s added to each of the %d installments.",
			debt.CurrencyCode, feePerInstallment, count),
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, preview := range ordered {
		charged := preview
		charged.Amount = preview.Amount.Add(feePerInstallment)
		if charged.Description == "" {
			charged.Description = fmt.Sprintf("Installment %d of %d (includes admin fee)", preview.Sequence, count)
		}
		plan.Installments = append(plan.Installments, s.installmentFromPreview(plan.ID, charged, now))
	}

	if err := s.PlanRepo.Create(ctx, plan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return plan, nil
}

// ValidateCustomSchedule runs the validator without materializing anything,
// so a UI can give the debtor feedback before submission.
func (s *PlanService) ValidateCustomSchedule(ctx context.Context, debt *domain.DebtSnapshot, proposed []domain.InstallmentPreview) (*domain.ScheduleValidationResult, error) {
	config, err := s.feeConfig(ctx, debt.OrganizationID)
	if err != nil {
		return nil, err
	}

	return planner.ValidateCustomSchedule(debt, proposed, config), nil
}

func (s *PlanService) feeConfig(ctx context.Context, organizationID string) (*domain.FeeConfiguration, error) {
	config, err := s.FeeConfigRepo.GetByOrganizationID(ctx, organizationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapOrganizationNotFound(organizationID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return config, nil
}

func (s *PlanService) installmentFromPreview(planID uuid.UUID, preview domain.InstallmentPreview, now time.Time) *domain.PlanInstallment {
	return &domain.PlanInstallment{
		ID:          uuid.New(),
		PlanID:      planID,
		Sequence:    preview.Sequence,
		DueDate:     preview.DueDate,
		Amount:      preview.Amount,
		Description: preview.Description,
		Status:      domain.InstallmentStatusPending,
		CreatedAt:   now,
	}
}

// planReference encodes the debt and an ordering-friendly timestamp.
// Custom plans are distinguishable at a glance.
func planReference(planType, debtID string, now time.Time) string {
	if planType == domain.PlanTypeCustom {
		return fmt.Sprintf("PP-CUSTOM-%s-%s", debtID, utils.PlanTimestamp(now))
	}
	return fmt.Sprintf("PP-%s-%s", debtID, utils.PlanTimestamp(now))
}
