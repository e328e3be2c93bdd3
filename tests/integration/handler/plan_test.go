package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/repayflow/plan-engine/internal/domain"
	"github.com/repayflow/plan-engine/internal/handler"
	"github.com/repayflow/plan-engine/internal/scoring"
	"github.com/repayflow/plan-engine/internal/service"
	"github.com/repayflow/plan-engine/tests/mocks"
)

func newRouter(feeRepo *mocks.MockFeeConfigRepository, planRepo *mocks.MockPlanRepository) *mux.Router {
	planService := service.NewPlanService(feeRepo, planRepo, scoring.NewAdapter(nil))
	planHandler := handler.NewPlanHandler(planService)

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/debts/{debtId}/plan-options", planHandler.GenerateOptions).Methods("POST")
	api.HandleFunc("/debts/{debtId}/plans", planHandler.CreateFromOption).Methods("POST")
	api.HandleFunc("/debts/{debtId}/plans/custom", planHandler.CreateCustomPlan).Methods("POST")
	api.HandleFunc("/debts/{debtId}/plans/custom/validate", planHandler.ValidateCustomSchedule).Methods("POST")
	return router
}

func feeConfig() *domain.FeeConfiguration {
	return &domain.FeeConfiguration{
		OrganizationID:         "ORG-1",
		FullPaymentDiscountPct: decimal.NewFromInt(10),
		SystemPlanDiscountPct:  decimal.NewFromInt(5),
		CustomPlanFlatFee:      decimal.NewFromInt(25),
		CustomPlanFeePct:       decimal.NewFromInt(5),
		MinInstallmentAmount:   decimal.NewFromInt(50),
		DefaultTermWeeks:       12,
		MaxInstallmentCount:    52,
	}
}

func debtBody() map[string]interface{} {
	return map[string]interface{}{
		"organization_id":    "ORG-1",
		"outstanding_amount": "5000",
		"currency_code":      "AUD",
	}
}

func postJSON(t *testing.T, router *mux.Router, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPlanHandler_GenerateOptions(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]interface{}
		setupMocks     func(*mocks.MockFeeConfigRepository)
		expectedStatus int
		checkResponse  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "returns the three options",
			body: map[string]interface{}{"debt": debtBody()},
			setupMocks: func(feeRepo *mocks.MockFeeConfigRepository) {
				feeRepo.On("GetByOrganizationID", mock.Anything, "ORG-1").Return(feeConfig(), nil).Once()
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var wrapper struct {
					Success bool                           `json:"success"`
					Data    domain.GenerateOptionsResponse `json:"data"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wrapper))
				assert.True(t, wrapper.Success)
				assert.Equal(t, "DEBT-1", wrapper.Data.DebtID)
				require.Len(t, wrapper.Data.Options, 3)
				assert.Equal(t, domain.PlanTypeFullSettlement, wrapper.Data.Options[0].Type)
				assert.Equal(t, domain.PlanTypeSystemGenerated, wrapper.Data.Options[1].Type)
				assert.Equal(t, domain.PlanTypeCustom, wrapper.Data.Options[2].Type)
				assert.True(t, wrapper.Data.Options[0].IsRecommended)
			},
		},
		{
			name: "unknown organization maps to 404",
			body: map[string]interface{}{"debt": debtBody()},
			setupMocks: func(feeRepo *mocks.MockFeeConfigRepository) {
				feeRepo.On("GetByOrganizationID", mock.Anything, "ORG-1").Return(nil, sql.ErrNoRows).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "missing currency fails request validation",
			body: map[string]interface{}{
				"debt": map[string]interface{}{
					"organization_id":    "ORG-1",
					"outstanding_amount": "5000",
				},
			},
			setupMocks:     func(feeRepo *mocks.MockFeeConfigRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "non-positive amount rejected at the boundary",
			body: map[string]interface{}{
				"debt": map[string]interface{}{
					"organization_id":    "ORG-1",
					"outstanding_amount": "-10",
					"currency_code":      "AUD",
				},
			},
			setupMocks:     func(feeRepo *mocks.MockFeeConfigRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feeRepo := new(mocks.MockFeeConfigRepository)
			planRepo := new(mocks.MockPlanRepository)
			tt.setupMocks(feeRepo)

			router := newRouter(feeRepo, planRepo)
			w := postJSON(t, router, "/api/v1/debts/DEBT-1/plan-options", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
			feeRepo.AssertExpectations(t)
			planRepo.AssertExpectations(t)
		})
	}
}

func TestPlanHandler_CreateCustomPlan(t *testing.T) {
	firstDue := time.Now().AddDate(0, 0, 7).UTC().Format(time.RFC3339)
	secondDue := time.Now().AddDate(0, 0, 14).UTC().Format(time.RFC3339)

	installments := func(first, second string) []map[string]interface{} {
		return []map[string]interface{}{
			{"sequence": 1, "due_date": firstDue, "amount": first},
			{"sequence": 2, "due_date": secondDue, "amount": second},
		}
	}

	t.Run("valid schedule is persisted with the admin fee added", func(t *testing.T) {
		feeRepo := new(mocks.MockFeeConfigRepository)
		planRepo := new(mocks.MockPlanRepository)
		feeRepo.On("GetByOrganizationID", mock.Anything, "ORG-1").Return(feeConfig(), nil).Once()
		planRepo.On("Create", mock.Anything, mock.MatchedBy(func(plan *domain.PaymentPlan) bool {
			return plan.RequiresManualReview && plan.Status == domain.PlanStatusPendingApproval
		})).Return(nil).Once()

		router := newRouter(feeRepo, planRepo)
		w := postJSON(t, router, "/api/v1/debts/DEBT-1/plans/custom", map[string]interface{}{
			"debt":         debtBody(),
			"installments": installments("2500", "2500"),
			"actor_id":     "agent-7",
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var wrapper struct {
			Data domain.CreatePlanResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wrapper))
		require.NotNil(t, wrapper.Data.Plan)
		assert.Contains(t, wrapper.Data.Plan.Reference, "PP-CUSTOM-DEBT-1-")
		assert.True(t, wrapper.Data.Plan.TotalAmount.GreaterThan(decimal.NewFromInt(5000)))

		feeRepo.AssertExpectations(t)
		planRepo.AssertExpectations(t)
	})

	t.Run("short coverage comes back as 422 with the verdict", func(t *testing.T) {
		feeRepo := new(mocks.MockFeeConfigRepository)
		planRepo := new(mocks.MockPlanRepository)
		feeRepo.On("GetByOrganizationID", mock.Anything, "ORG-1").Return(feeConfig(), nil).Once()

		router := newRouter(feeRepo, planRepo)
		w := postJSON(t, router, "/api/v1/debts/DEBT-1/plans/custom", map[string]interface{}{
			"debt":         debtBody(),
			"installments": installments("1000", "1000"),
			"actor_id":     "agent-7",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var wrapper struct {
			Success bool                            `json:"success"`
			Data    domain.ScheduleValidationResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wrapper))
		assert.False(t, wrapper.Success)
		assert.False(t, wrapper.Data.IsValid)
		assert.NotEmpty(t, wrapper.Data.Errors)

		planRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestPlanHandler_ValidateCustomSchedule(t *testing.T) {
	feeRepo := new(mocks.MockFeeConfigRepository)
	planRepo := new(mocks.MockPlanRepository)
	feeRepo.On("GetByOrganizationID", mock.Anything, "ORG-1").Return(feeConfig(), nil).Once()

	firstDue := time.Now().AddDate(0, 0, 7).UTC().Format(time.RFC3339)

	router := newRouter(feeRepo, planRepo)
	w := postJSON(t, router, "/api/v1/debts/DEBT-1/plans/custom/validate", map[string]interface{}{
		"debt": debtBody(),
		"installments": []map[string]interface{}{
			{"sequence": 1, "due_date": firstDue, "amount": "5000"},
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var wrapper struct {
		Success bool                            `json:"success"`
		Data    domain.ScheduleValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wrapper))
	assert.True(t, wrapper.Success)
	assert.True(t, wrapper.Data.IsValid)

	planRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	feeRepo.AssertExpectations(t)
}
