package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/payroll"
	"github.com/knk-palvelut/workforce-backend-go/internal/handler/http/response"
	"github.com/knk-palvelut/workforce-backend-go/internal/pkg/validator"
)

type PayrollHandler interface {
	// Rates
	GetRates(w http.ResponseWriter, r *http.Request)

	// Workers
	GetWorkerDetail(w http.ResponseWriter, r *http.Request)
	ListSalaryWorkers(w http.ResponseWriter, r *http.Request)

	// Salary
	CalculateSalary(w http.ResponseWriter, r *http.Request)

	// Settings
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
	ListSettingsHistory(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

// ========== RATES ==========

func (h *payrollHandlerImpl) GetRates(w http.ResponseWriter, r *http.Request) {
	var workerID *string
	if id := r.URL.Query().Get("worker_id"); id != "" {
		if !validator.IsValidUUID(id) {
			response.BadRequest(w, "worker_id must be a valid UUID", nil)
			return
		}
		workerID = &id
	}

	result, err := h.payrollService.GetEffectiveRates(r.Context(), workerID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== WORKERS ==========

func (h *payrollHandlerImpl) GetWorkerDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Worker ID must be a valid UUID", nil)
		return
	}

	result, err := h.payrollService.GetWorkerDetail(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListSalaryWorkers(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListSalaryWorkers(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== SALARY ==========

func (h *payrollHandlerImpl) CalculateSalary(w http.ResponseWriter, r *http.Request) {
	var req payroll.SalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CalculateSalary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== SETTINGS ==========

func (h *payrollHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetPaymentSettings(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdatePaymentSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.UpdatePaymentSettings(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payment settings updated", result)
}

func (h *payrollHandlerImpl) ListSettingsHistory(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListPaymentSettingsHistory(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
