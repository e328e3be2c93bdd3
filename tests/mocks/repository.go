package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/repayflow/plan-engine/internal/domain"
)

type MockFeeConfigRepository struct {
	mock.Mock
}

func (m *MockFeeConfigRepository) GetByOrganizationID(ctx context.Context, organizationID string) (*domain.FeeConfiguration, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeConfiguration), args.Error(1)
}

type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) Create(ctx context.Context, plan *domain.PaymentPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) GetByReference(ctx context.Context, reference string) (*domain.PaymentPlan, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentPlan), args.Error(1)
}

func (m *MockPlanRepository) GetInstallmentsByPlanID(ctx context.Context, planID string) ([]*domain.PlanInstallment, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PlanInstallment), args.Error(1)
}

func (m *MockPlanRepository) GetInstallmentsDueBetween(ctx context.Context, from, to time.Time) ([]*domain.PlanInstallment, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PlanInstallment), args.Error(1)
}

func (m *MockPlanRepository) MarkInstallmentsOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}
