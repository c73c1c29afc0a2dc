package dashboard

import "github.com/shopspring/decimal"

// ========== COMBINED DASHBOARD ==========

// AdminDashboardResponse is the combined response for the admin dashboard endpoint
type AdminDashboardResponse struct {
	Stats           AdminStatsResponse   `json:"stats"`
	RecentActivity  []RecentActivityItem `json:"recent_activity"`
	OpenAssignments []OpenAssignmentItem `json:"open_assignments"`
}

// ========== WEEKLY STATS ==========

// AdminStatsResponse covers the current Monday-based week in the organisation time zone
type AdminStatsResponse struct {
	TotalCleaners     int64           `json:"total_cleaners"`
	ActiveAssignments int64           `json:"active_assignments"`
	HoursThisWeek     float64         `json:"hours_this_week"`
	PayrollThisWeek   decimal.Decimal `json:"payroll_this_week"`
	WeekStart         string          `json:"week_start"` // Format: "YYYY-MM-DD"
	WeekEnd           string          `json:"week_end"`   // Format: "YYYY-MM-DD", inclusive
}

// ========== ACTIVITY ==========

// RecentActivityItem is one of the latest clock-ins
type RecentActivityItem struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	ClockIn      string  `json:"clock_in"`
	ClockOut     *string `json:"clock_out"`
	Location     *string `json:"location"`
}

// OpenAssignmentItem is a not-yet-completed assignment
type OpenAssignmentItem struct {
	ID        string `json:"id"`
	Workplace string `json:"workplace"`
	Cleaner   string `json:"cleaner"`
	Status    string `json:"status"`
	Priority  string `json:"priority"`
}
