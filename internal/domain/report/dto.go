package report

import (
	"github.com/knk-palvelut/workforce-backend-go/internal/pkg/validator"
)

// ReportRequest selects an inclusive date range. Empty dates default to the
// last 30 days.
type ReportRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r *ReportRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if r.StartDate != "" && !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be in YYYY-MM-DD format"})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if r.EndDate != "" && !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be in YYYY-MM-DD format"})
	}
	if (r.StartDate == "") != (r.EndDate == "") {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "start_date and end_date must be given together"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: ErrInvalidDateRange.Error()})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== ATTENDANCE REPORT ==========

type AttendanceReportRow struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	Employee      string  `json:"employee"`
	Date          string  `json:"date"`
	CheckIn       string  `json:"check_in"`
	CheckOut      *string `json:"check_out"`
	Hours         float64 `json:"hours"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
}

type AttendanceReport struct {
	StartDate string                `json:"start_date"`
	EndDate   string                `json:"end_date"`
	Rows      []AttendanceReportRow `json:"rows"`
}

// ========== PERFORMANCE REPORT ==========

type Rating string

const (
	RatingExcellent Rating = "Excellent"
	RatingGood      Rating = "Good"
	RatingAverage   Rating = "Average"
)

// RatingFor maps an efficiency percentage to a rating.
func RatingFor(efficiency float64) Rating {
	switch {
	case efficiency >= 95:
		return RatingExcellent
	case efficiency >= 90:
		return RatingGood
	}
	return RatingAverage
}

type PerformanceReportRow struct {
	EmployeeID     string  `json:"employee_id"`
	Employee       string  `json:"employee"`
	TasksCompleted int64   `json:"tasks_completed"`
	TasksAssigned  int64   `json:"tasks_assigned"`
	Efficiency     float64 `json:"efficiency"` // percent, 1 decimal
	Rating         Rating  `json:"rating"`
}

// ========== TASK REPORT ==========

type TaskReportRow struct {
	ID            string  `json:"id"`
	Task          string  `json:"task"`
	Assignee      string  `json:"assignee"`
	Status        string  `json:"status"`
	CompletedDate *string `json:"completed_date"`
	Workplace     string  `json:"workplace"`
}

type TaskReport struct {
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Rows      []TaskReportRow `json:"rows"`
}

// ========== TEAM HOURS ==========

type TeamHoursRow struct {
	EmployeeID    string  `json:"employee_id"`
	Employee      string  `json:"employee"`
	WeekHours     float64 `json:"week_hours"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	SundayHours   float64 `json:"sunday_hours"`
	IsClockedIn   bool    `json:"is_clocked_in"`
}

type TeamHoursReport struct {
	WeekStart string         `json:"week_start"`
	Rows      []TeamHoursRow `json:"rows"`
}

// ========== SUPERVISOR DASHBOARD ==========

const (
	MemberClockedIn = "Clocked In"
	MemberOffline   = "Offline"
)

type SupervisorStats struct {
	TeamSize       int `json:"team_size"`
	ActiveTasks    int `json:"active_tasks"`
	CompletedToday int `json:"completed_today"`
	Alerts         int `json:"alerts"`
}

type TeamMemberToday struct {
	EmployeeID string  `json:"employee_id"`
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	Location   string  `json:"location"`
	HoursToday float64 `json:"hours_today"` // closed shifts only
}

type PendingReview struct {
	ID        string `json:"id"`
	Task      string `json:"task"`
	Cleaner   string `json:"cleaner"`
	Priority  string `json:"priority"`
	UpdatedAt string `json:"updated_at"`
	HoursAgo  int    `json:"hours_ago"`
}

type SupervisorDashboard struct {
	Stats          SupervisorStats   `json:"stats"`
	TeamMembers    []TeamMemberToday `json:"team_members"`
	PendingReviews []PendingReview   `json:"pending_reviews"`
}
