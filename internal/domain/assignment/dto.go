package assignment

import (
	"time"

	"github.com/knk-palvelut/workforce-backend-go/internal/pkg/validator"
)

type CreateAssignmentRequest struct {
	EmployeeID     string   `json:"employee_id"`
	WorkplaceID    *string  `json:"workplace_id,omitempty"`
	Title          string   `json:"title"`
	Description    *string  `json:"description,omitempty"`
	Priority       string   `json:"priority"`
	DueDate        string   `json:"due_date"` // YYYY-MM-DD
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	Location       *string  `json:"location,omitempty"`
}

func (r *CreateAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}

	if r.WorkplaceID != nil && !validator.IsValidUUID(*r.WorkplaceID) {
		errs = append(errs, validator.ValidationError{Field: "workplace_id", Message: "workplace_id must be a valid UUID"})
	}

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{Field: "title", Message: "title is required"})
	} else if !validator.MaxLength(r.Title, 200) {
		errs = append(errs, validator.ValidationError{Field: "title", Message: "title must be at most 200 characters"})
	}

	if r.Priority == "" {
		r.Priority = string(PriorityMedium)
	}
	validPriorities := []string{string(PriorityLow), string(PriorityMedium), string(PriorityHigh)}
	if !validator.IsInSlice(r.Priority, validPriorities) {
		errs = append(errs, validator.ValidationError{Field: "priority", Message: "priority must be LOW, MEDIUM or HIGH"})
	}

	if _, ok := validator.IsValidDate(r.DueDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "due_date", Message: "due_date must be in YYYY-MM-DD format"})
	}

	if r.EstimatedHours != nil && (*r.EstimatedHours <= 0 || *r.EstimatedHours > 24) {
		errs = append(errs, validator.ValidationError{Field: "estimated_hours", Message: "estimated_hours must be between 0 and 24"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignmentResponse struct {
	ID             string   `json:"id"`
	EmployeeID     string   `json:"employee_id"`
	EmployeeName   *string  `json:"employee_name,omitempty"`
	Workplace      string   `json:"workplace"`
	Title          string   `json:"title"`
	Description    *string  `json:"description"`
	Priority       Priority `json:"priority"`
	Status         Status   `json:"status"`
	DueDate        *string  `json:"due_date"`
	StartTime      *string  `json:"start_time"`
	EndTime        *string  `json:"end_time"`
	CompletedAt    *string  `json:"completed_at"`
	EstimatedHours *float64 `json:"estimated_hours"`
}

func formatTimePtr(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}
	s := t.Format(layout)
	return &s
}

func NewAssignmentResponse(a Assignment) AssignmentResponse {
	workplace := ""
	switch {
	case a.WorkplaceName != nil:
		workplace = *a.WorkplaceName
	case a.Location != nil:
		workplace = *a.Location
	}

	return AssignmentResponse{
		ID:             a.ID,
		EmployeeID:     a.EmployeeID,
		EmployeeName:   a.EmployeeName,
		Workplace:      workplace,
		Title:          a.Title,
		Description:    a.Description,
		Priority:       a.Priority,
		Status:         a.Status,
		DueDate:        formatTimePtr(a.DueDate, "2006-01-02"),
		StartTime:      formatTimePtr(a.StartTime, time.RFC3339),
		EndTime:        formatTimePtr(a.EndTime, time.RFC3339),
		CompletedAt:    formatTimePtr(a.CompletedAt, time.RFC3339),
		EstimatedHours: a.EstimatedHours,
	}
}

func NewAssignmentResponses(items []Assignment) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, NewAssignmentResponse(a))
	}
	return out
}
