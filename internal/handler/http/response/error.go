package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/knk-palvelut/workforce-backend-go/internal/domain/assignment"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/attendance"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/payroll"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/report"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/user"
	"github.com/knk-palvelut/workforce-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// User domain errors
	case errors.Is(err, user.ErrUnauthenticated):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrWorkerNotFound):
		NotFound(w, "Worker not found")
	case errors.Is(err, user.ErrAdminAccessRequired),
		errors.Is(err, user.ErrSupervisorAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, user.ErrNotOwnTeam):
		Forbidden(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "Already clocked in")
	case errors.Is(err, attendance.ErrClockLogNotFound):
		NotFound(w, "Clock log not found")
	case errors.Is(err, attendance.ErrAssignmentMismatch):
		Conflict(w, err.Error())

	// Assignment domain errors
	case errors.Is(err, assignment.ErrAssignmentNotFound):
		NotFound(w, "Assignment not found")
	case errors.Is(err, assignment.ErrAssignmentNotOwned):
		Forbidden(w, err.Error())
	case errors.Is(err, assignment.ErrInvalidStatusTransition):
		Conflict(w, err.Error())

	// Payroll and report errors
	case errors.Is(err, payroll.ErrInvalidDateRange),
		errors.Is(err, payroll.ErrDateRangeTooLong),
		errors.Is(err, payroll.ErrInvalidRegularRate),
		errors.Is(err, report.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
