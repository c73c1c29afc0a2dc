package http

import (
	"net/http"

	"github.com/knk-palvelut/workforce-backend-go/internal/domain/report"
	"github.com/knk-palvelut/workforce-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	GetAttendanceReport(w http.ResponseWriter, r *http.Request)
	GetPerformanceReport(w http.ResponseWriter, r *http.Request)
	GetTaskReport(w http.ResponseWriter, r *http.Request)
	GetTeamHours(w http.ResponseWriter, r *http.Request)
	GetSupervisorDashboard(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func reportRequest(r *http.Request) report.ReportRequest {
	return report.ReportRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
}

// GetAttendanceReport handles GET /reports/attendance
func (h *reportHandlerImpl) GetAttendanceReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.AttendanceReport(r.Context(), reportRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetPerformanceReport handles GET /reports/performance
func (h *reportHandlerImpl) GetPerformanceReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.PerformanceReport(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetTaskReport handles GET /reports/tasks
func (h *reportHandlerImpl) GetTaskReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.TaskReport(r.Context(), reportRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetTeamHours handles GET /reports/team-hours
func (h *reportHandlerImpl) GetTeamHours(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.TeamWeeklyHours(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetSupervisorDashboard handles GET /supervisor/dashboard
func (h *reportHandlerImpl) GetSupervisorDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetSupervisorDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
