package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/repayflow/plan-engine/internal/domain"
	"github.com/repayflow/plan-engine/internal/service"
	customError "github.com/repayflow/plan-engine/pkg/errors"
	"github.com/repayflow/plan-engine/pkg/response"
)

type PlanHandler struct {
	service   *service.PlanService
	validator *validator.Validate
}

func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{
		service:   planService,
		validator: validator.New(),
	}
}

// GenerateOptions handles POST /debts/{debtId}/plan-options
func (h *PlanHandler) GenerateOptions(w http.ResponseWriter, r *http.Request) {
	debtID := mux.Vars(r)["debtId"]

	var request domain.GenerateOptionsRequest
	if !h.decode(w, r, &request) {
		return
	}
	if !h.checkDebt(w, &request.Debt) {
		return
	}

	options, err := h.service.GenerateOptions(r.Context(), request.Debt.Snapshot(debtID))
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, &domain.GenerateOptionsResponse{
		DebtID:  debtID,
		Options: options,
	})
}

// CreateFromOption handles POST /debts/{debtId}/plans
func (h *PlanHandler) CreateFromOption(w http.ResponseWriter, r *http.Request) {
	debtID := mux.Vars(r)["debtId"]

	var request domain.CreatePlanFromOptionRequest
	if !h.decode(w, r, &request) {
		return
	}
	if !h.checkDebt(w, &request.Debt) {
		return
	}

	plan, err := h.service.MaterializeFromOption(r.Context(), request.Debt.Snapshot(debtID), request.Option, request.ActorID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, &domain.CreatePlanResponse{Plan: plan})
}

// CreateCustomPlan handles POST /debts/{debtId}/plans/custom
func (h *PlanHandler) CreateCustomPlan(w http.ResponseWriter, r *http.Request) {
	debtID := mux.Vars(r)["debtId"]

	var request domain.CreateCustomPlanRequest
	if !h.decode(w, r, &request) {
		return
	}
	if !h.checkDebt(w, &request.Debt) {
		return
	}

	plan, err := h.service.MaterializeFromCustomSchedule(r.Context(), request.Debt.Snapshot(debtID), request.Previews(), request.ActorID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, &domain.CreatePlanResponse{Plan: plan})
}

// ValidateCustomSchedule handles POST /debts/{debtId}/plans/custom/validate
func (h *PlanHandler) ValidateCustomSchedule(w http.ResponseWriter, r *http.Request) {
	debtID := mux.Vars(r)["debtId"]

	var request domain.ValidateCustomScheduleRequest
	if !h.decode(w, r, &request) {
		return
	}
	if !h.checkDebt(w, &request.Debt) {
		return
	}

	result, err := h.service.ValidateCustomSchedule(r.Context(), request.Debt.Snapshot(debtID), request.Previews())
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *PlanHandler) decode(w http.ResponseWriter, r *http.Request, request interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return false
	}
	if err := h.validator.Struct(request); err != nil {
		response.BadRequest(w, "Request validation failed", err)
		return false
	}
	return true
}

// checkDebt enforces the snapshot preconditions at the boundary so the pure
// calculators never see a non-positive amount.
func (h *PlanHandler) checkDebt(w http.ResponseWriter, debt *domain.DebtSnapshotRequest) bool {
	if !debt.OutstandingAmount.IsPositive() {
		response.BadRequest(w, "outstanding_amount must be greater than zero", customError.ErrInvalidDebtAmount)
		return false
	}
	return true
}

func (h *PlanHandler) writeError(w http.ResponseWriter, err error) {
	var validationErr *customError.ValidationError
	if errors.As(err, &validationErr) {
		response.UnprocessableEntity(w, "Proposed schedule failed validation", validationErr.Result)
		return
	}

	var businessErr *customError.BusinessError
	if errors.As(err, &businessErr) {
		switch businessErr.Code {
		case customError.ErrCodeOrganizationNotFound:
			response.NotFound(w, businessErr.Message)
		case customError.ErrCodeInvalidDebtAmount:
			response.BadRequest(w, businessErr.Message, businessErr.Err)
		default:
			response.InternalServerError(w, businessErr.Message, businessErr.Err)
		}
		return
	}

	response.InternalServerError(w, "Unexpected error", err)
}
