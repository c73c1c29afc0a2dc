package report

import "context"

// ReportService builds tabular reports. Admins see every worker,
// supervisors see their own team.
type ReportService interface {
	AttendanceReport(ctx context.Context, req ReportRequest) (AttendanceReport, error)
	PerformanceReport(ctx context.Context) ([]PerformanceReportRow, error)
	TaskReport(ctx context.Context, req ReportRequest) (TaskReport, error)

	// TeamWeeklyHours lists the current week's hours per team member.
	TeamWeeklyHours(ctx context.Context) (TeamHoursReport, error)

	// GetSupervisorDashboard summarises today for the calling supervisor's team.
	GetSupervisorDashboard(ctx context.Context) (SupervisorDashboard, error)
}
