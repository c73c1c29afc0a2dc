package attendance

import (
	"time"

	"github.com/knk-palvelut/workforce-backend-go/internal/pkg/validator"
)

type ClockInRequest struct {
	AssignmentID *string `json:"assignment_id,omitempty"`
	Location     *string `json:"location,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.AssignmentID != nil && !validator.IsValidUUID(*r.AssignmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "assignment_id",
			Message: "assignment_id must be a valid UUID",
		})
	}

	if r.Location != nil && !validator.MaxLength(*r.Location, 255) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location must be at most 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockOutRequest struct {
	AssignmentID *string `json:"assignment_id,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	if r.AssignmentID != nil && !validator.IsValidUUID(*r.AssignmentID) {
		return validator.ValidationErrors{{
			Field:   "assignment_id",
			Message: "assignment_id must be a valid UUID",
		}}
	}
	return nil
}

type ClockLogResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  *string `json:"employee_name,omitempty"`
	AssignmentID  *string `json:"assignment_id"`
	ClockIn       string  `json:"clock_in"`
	ClockOut      *string `json:"clock_out"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	Location      *string `json:"location"`
	CreatedAt     string  `json:"created_at"`
}

func NewClockLogResponse(l ClockLog) ClockLogResponse {
	resp := ClockLogResponse{
		ID:            l.ID,
		EmployeeID:    l.EmployeeID,
		EmployeeName:  l.EmployeeName,
		AssignmentID:  l.AssignmentID,
		ClockIn:       l.ClockIn.Format(time.RFC3339),
		RegularHours:  l.RegularHours,
		OvertimeHours: l.OvertimeHours,
		Location:      l.Location,
		CreatedAt:     l.CreatedAt.Format(time.RFC3339),
	}
	if l.ClockOut != nil {
		out := l.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &out
	}
	return resp
}

type HistoryFilter struct {
	Limit int
}

func (f *HistoryFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	if f.Limit > 500 {
		f.Limit = 500
	}
}

type HistoryStatus string

const (
	HistoryStatusCompleted HistoryStatus = "completed"
	HistoryStatusPending   HistoryStatus = "pending"
)

type HistoryEntryResponse struct {
	ID                   string        `json:"id"`
	AssignmentTitle      string        `json:"assignment_title"`
	Workplace            string        `json:"workplace"`
	Date                 string        `json:"date"`
	ClockIn              string        `json:"clock_in"`
	ClockOut             *string       `json:"clock_out"`
	TotalHours           float64       `json:"total_hours"`
	Overtime             float64       `json:"overtime"`
	SundayHours          float64       `json:"sunday_hours"`
	WeekdayOvertimeHours float64       `json:"weekday_overtime_hours"`
	Status               HistoryStatus `json:"status"`
}

type SummaryResponse struct {
	TodayHours     float64            `json:"today_hours"`
	YesterdayHours float64            `json:"yesterday_hours"`
	WeekHours      float64            `json:"week_hours"`
	LastWeekHours  float64            `json:"last_week_hours"`
	IsClockedIn    bool               `json:"is_clocked_in"`
	OpenShift      *ClockLogResponse  `json:"open_shift"`
	RecentLogs     []ClockLogResponse `json:"recent_logs"`
}
