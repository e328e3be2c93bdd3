package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/repayflow/plan-engine/internal/domain"
)

type MockOptimizer struct {
	mock.Mock
}

func (m *MockOptimizer) OptimizeSchedule(ctx context.Context, debt *domain.DebtSnapshot, amount decimal.Decimal, targetWeeks int, minInstallment decimal.Decimal) (*domain.ScheduleRecommendation, error) {
	args := m.Called(ctx, debt, amount, targetWeeks, minInstallment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduleRecommendation), args.Error(1)
}
