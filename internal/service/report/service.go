package report

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/knk-palvelut/workforce-backend-go/internal/domain/assignment"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/attendance"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/report"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/user"
	payrollsvc "github.com/knk-palvelut/workforce-backend-go/internal/service/payroll"
	"golang.org/x/sync/errgroup"
)

const (
	defaultReportDays  = 30
	pendingReviewLimit = 5
)

type ReportServiceImpl struct {
	users       user.UserRepository
	clockLogs   attendance.ClockLogRepository
	assignments assignment.AssignmentRepository
	calc        *payrollsvc.HoursCalculator
	now         func() time.Time
}

func NewReportService(
	users user.UserRepository,
	clockLogs attendance.ClockLogRepository,
	assignments assignment.AssignmentRepository,
	calc *payrollsvc.HoursCalculator,
) report.ReportService {
	return &ReportServiceImpl{
		users:       users,
		clockLogs:   clockLogs,
		assignments: assignments,
		calc:        calc,
		now:         time.Now,
	}
}

// scope returns the supervisor whose team the caller may see, or nil for
// admins who see everyone.
func scope(ctx context.Context) (*string, error) {
	caller, err := user.CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	switch {
	case user.HasPermission(caller.Role, user.PermissionReportsView):
		return nil, nil
	case caller.Role == user.RoleSupervisor:
		return &caller.UserID, nil
	}
	return nil, user.ErrSupervisorAccessRequired
}

// period resolves the request into local dates, defaulting to the last
// defaultReportDays days including today.
func (s *ReportServiceImpl) period(req report.ReportRequest) (time.Time, time.Time, error) {
	if err := req.Validate(); err != nil {
		return time.Time{}, time.Time{}, err
	}

	if req.StartDate == "" {
		today := s.calc.StartOfDay(s.now())
		return today.AddDate(0, 0, -(defaultReportDays - 1)), today, nil
	}

	start, err := s.calc.ParseDate(req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, report.ErrInvalidDateRange
	}
	end, err := s.calc.ParseDate(req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, report.ErrInvalidDateRange
	}
	return start, end, nil
}

func workerIDs(workers []user.User) []string {
	ids := make([]string, 0, len(workers))
	for _, w := range workers {
		ids = append(ids, w.ID)
	}
	return ids
}

func workerNames(workers []user.User) map[string]string {
	names := make(map[string]string, len(workers))
	for _, w := range workers {
		names[w.ID] = w.Name
	}
	return names
}

func nameOr(names map[string]string, id, fallback string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return fallback
}

// AttendanceReport lists every closed shift in the period with its share of
// the per-day classification.
func (s *ReportServiceImpl) AttendanceReport(ctx context.Context, req report.ReportRequest) (report.AttendanceReport, error) {
	supervisorID, err := scope(ctx)
	if err != nil {
		return report.AttendanceReport{}, err
	}

	start, end, err := s.period(req)
	if err != nil {
		return report.AttendanceReport{}, err
	}

	resp := report.AttendanceReport{
		StartDate: s.calc.DayKey(start),
		EndDate:   s.calc.DayKey(end),
		Rows:      []report.AttendanceReportRow{},
	}

	workers, err := s.users.ListWorkers(ctx, user.WorkerFilter{SupervisorID: supervisorID})
	if err != nil {
		return report.AttendanceReport{}, err
	}
	// No employee IDs would mean everyone.
	if supervisorID != nil && len(workers) == 0 {
		return resp, nil
	}

	var ids []string
	if supervisorID != nil {
		ids = workerIDs(workers)
	}

	window := s.calc.DayWindow(start, end)
	logs, err := s.clockLogs.ListOverlapping(ctx, window.From, window.To, ids...)
	if err != nil {
		return report.AttendanceReport{}, err
	}

	shares := make(map[string]payrollsvc.ShiftHours, len(logs))
	for _, shifts := range payrollsvc.ShiftsByEmployee(logs) {
		for id, share := range s.calc.Allocate(shifts, &window).Shifts {
			shares[id] = share
		}
	}

	names := workerNames(workers)
	loc := s.calc.Location()
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].ClockIn.After(logs[j].ClockIn) })

	for _, l := range logs {
		share := shares[l.ID]
		row := report.AttendanceReportRow{
			ID:            l.ID,
			EmployeeID:    l.EmployeeID,
			Employee:      nameOr(names, l.EmployeeID, "Unknown"),
			Date:          s.calc.DayKey(l.ClockIn),
			CheckIn:       l.ClockIn.In(loc).Format(time.RFC3339),
			Hours:         payrollsvc.RoundHours(share.TotalHours),
			RegularHours:  payrollsvc.RoundHours(share.RegularHours),
			OvertimeHours: payrollsvc.RoundHours(share.OvertimeHours),
		}
		if l.ClockOut != nil {
			out := l.ClockOut.In(loc).Format(time.RFC3339)
			row.CheckOut = &out
		}
		resp.Rows = append(resp.Rows, row)
	}

	return resp, nil
}

// PerformanceReport rates each worker by completed versus assigned work.
func (s *ReportServiceImpl) PerformanceReport(ctx context.Context) ([]report.PerformanceReportRow, error) {
	supervisorID, err := scope(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.assignments.CountByEmployee(ctx, supervisorID)
	if err != nil {
		return nil, err
	}

	rows := make([]report.PerformanceReportRow, 0, len(counts))
	for _, c := range counts {
		var efficiency float64
		if c.Assigned > 0 {
			efficiency = math.Round(float64(c.Completed)/float64(c.Assigned)*1000) / 10
		}
		rows = append(rows, report.PerformanceReportRow{
			EmployeeID:     c.EmployeeID,
			Employee:       c.EmployeeName,
			TasksCompleted: c.Completed,
			TasksAssigned:  c.Assigned,
			Efficiency:     efficiency,
			Rating:         report.RatingFor(efficiency),
		})
	}
	return rows, nil
}

// TaskReport lists assignments due in the period.
func (s *ReportServiceImpl) TaskReport(ctx context.Context, req report.ReportRequest) (report.TaskReport, error) {
	supervisorID, err := scope(ctx)
	if err != nil {
		return report.TaskReport{}, err
	}

	start, end, err := s.period(req)
	if err != nil {
		return report.TaskReport{}, err
	}

	window := s.calc.DayWindow(start, end)
	items, err := s.assignments.List(ctx, assignment.AssignmentFilter{
		SupervisorID: supervisorID,
		DueFrom:      &window.From,
		DueTo:        &window.To,
	})
	if err != nil {
		return report.TaskReport{}, err
	}

	resp := report.TaskReport{
		StartDate: s.calc.DayKey(start),
		EndDate:   s.calc.DayKey(end),
		Rows:      make([]report.TaskReportRow, 0, len(items)),
	}
	for _, a := range items {
		view := assignment.NewAssignmentResponse(a)
		row := report.TaskReportRow{
			ID:        a.ID,
			Task:      a.Title,
			Assignee:  "Unassigned",
			Status:    string(a.Status),
			Workplace: view.Workplace,
		}
		if a.EmployeeName != nil {
			row.Assignee = *a.EmployeeName
		}
		if a.CompletedAt != nil {
			completed := s.calc.DayKey(*a.CompletedAt)
			row.CompletedDate = &completed
		}
		resp.Rows = append(resp.Rows, row)
	}
	return resp, nil
}

// TeamWeeklyHours lists this week's classified hours per worker.
func (s *ReportServiceImpl) TeamWeeklyHours(ctx context.Context) (report.TeamHoursReport, error) {
	supervisorID, err := scope(ctx)
	if err != nil {
		return report.TeamHoursReport{}, err
	}

	now := s.now()
	weekStart := s.calc.WeekStart(now)
	window := payrollsvc.Window{From: weekStart, To: weekStart.AddDate(0, 0, 7)}

	workers, err := s.users.ListWorkers(ctx, user.WorkerFilter{SupervisorID: supervisorID})
	if err != nil {
		return report.TeamHoursReport{}, err
	}

	resp := report.TeamHoursReport{
		WeekStart: s.calc.DayKey(weekStart),
		Rows:      make([]report.TeamHoursRow, 0, len(workers)),
	}
	if len(workers) == 0 {
		return resp, nil
	}

	var (
		logs []attendance.ClockLog
		open []attendance.ClockLog
	)

	ids := workerIDs(workers)
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		logs, err = s.clockLogs.ListOverlapping(gCtx, window.From, window.To, ids...)
		return err
	})

	g.Go(func() error {
		var err error
		open, err = s.clockLogs.ListOpenStartedBefore(gCtx, now, ids...)
		return err
	})

	if err := g.Wait(); err != nil {
		return report.TeamHoursReport{}, err
	}

	clockedIn := make(map[string]bool, len(open))
	for _, l := range open {
		clockedIn[l.EmployeeID] = true
	}

	byWorker := payrollsvc.ShiftsByEmployee(logs)
	for _, w := range workers {
		row := report.TeamHoursRow{
			EmployeeID:  w.ID,
			Employee:    w.Name,
			IsClockedIn: clockedIn[w.ID],
		}
		for _, d := range s.calc.Allocate(byWorker[w.ID], &window).Days {
			row.WeekHours += d.Hours
			row.RegularHours += d.RegularHours
			row.OvertimeHours += d.OvertimeHours
			if d.IsSunday {
				row.SundayHours += d.Hours
			}
		}
		row.WeekHours = payrollsvc.RoundHours(row.WeekHours)
		row.RegularHours = payrollsvc.RoundHours(row.RegularHours)
		row.OvertimeHours = payrollsvc.RoundHours(row.OvertimeHours)
		row.SundayHours = payrollsvc.RoundHours(row.SundayHours)
		resp.Rows = append(resp.Rows, row)
	}

	return resp, nil
}

// GetSupervisorDashboard summarises the caller's team for the current local
// day. Hours today come from closed shifts clipped to the day.
func (s *ReportServiceImpl) GetSupervisorDashboard(ctx context.Context) (report.SupervisorDashboard, error) {
	caller, err := user.CallerFromContext(ctx)
	if err != nil {
		return report.SupervisorDashboard{}, err
	}
	if caller.Role != user.RoleSupervisor {
		return report.SupervisorDashboard{}, user.ErrSupervisorAccessRequired
	}

	now := s.now()
	today := payrollsvc.Window{From: s.calc.StartOfDay(now), To: s.calc.NextMidnight(now)}

	workers, err := s.users.ListWorkers(ctx, user.WorkerFilter{SupervisorID: &caller.UserID})
	if err != nil {
		return report.SupervisorDashboard{}, err
	}

	resp := report.SupervisorDashboard{
		Stats:          report.SupervisorStats{TeamSize: len(workers)},
		TeamMembers:    make([]report.TeamMemberToday, 0, len(workers)),
		PendingReviews: []report.PendingReview{},
	}
	if len(workers) == 0 {
		return resp, nil
	}

	var (
		active    []assignment.Assignment
		completed []assignment.Assignment
		reviews   []assignment.Assignment
		logs      []attendance.ClockLog
		open      []attendance.ClockLog
	)

	ids := workerIDs(workers)
	inProgress := assignment.StatusInProgress
	done := assignment.StatusCompleted
	inReview := assignment.StatusReview

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Tasks in progress
	g.Go(func() error {
		var err error
		active, err = s.assignments.List(gCtx, assignment.AssignmentFilter{
			SupervisorID: &caller.UserID,
			Status:       &inProgress,
		})
		return err
	})

	// 2. Tasks completed today
	g.Go(func() error {
		var err error
		completed, err = s.assignments.List(gCtx, assignment.AssignmentFilter{
			SupervisorID:  &caller.UserID,
			Status:        &done,
			CompletedFrom: &today.From,
		})
		return err
	})

	// 3. Tasks waiting for review
	g.Go(func() error {
		var err error
		reviews, err = s.assignments.List(gCtx, assignment.AssignmentFilter{
			SupervisorID: &caller.UserID,
			Status:       &inReview,
		})
		return err
	})

	// 4. Closed shifts touching today
	g.Go(func() error {
		var err error
		logs, err = s.clockLogs.ListOverlapping(gCtx, today.From, today.To, ids...)
		return err
	})

	// 5. Who is on the clock now
	g.Go(func() error {
		var err error
		open, err = s.clockLogs.ListOpenStartedBefore(gCtx, now, ids...)
		return err
	})

	if err := g.Wait(); err != nil {
		return report.SupervisorDashboard{}, err
	}

	resp.Stats.ActiveTasks = len(active)
	resp.Stats.CompletedToday = len(completed)
	resp.Stats.Alerts = len(reviews)

	onClock := make(map[string]attendance.ClockLog, len(open))
	for _, l := range open {
		onClock[l.EmployeeID] = l
	}

	byWorker := payrollsvc.ShiftsByEmployee(logs)
	for _, w := range workers {
		member := report.TeamMemberToday{
			EmployeeID: w.ID,
			Name:       w.Name,
			Status:     report.MemberOffline,
			Location:   "Unknown",
		}
		if l, ok := onClock[w.ID]; ok {
			member.Status = report.MemberClockedIn
			member.Location = l.Place()
		}

		var hours float64
		for _, d := range s.calc.Allocate(byWorker[w.ID], &today).Days {
			hours += d.Hours
		}
		member.HoursToday = payrollsvc.RoundHours(hours)
		resp.TeamMembers = append(resp.TeamMembers, member)
	}

	sort.SliceStable(reviews, func(i, j int) bool { return reviews[i].UpdatedAt.After(reviews[j].UpdatedAt) })
	if len(reviews) > pendingReviewLimit {
		reviews = reviews[:pendingReviewLimit]
	}

	loc := s.calc.Location()
	for _, a := range reviews {
		item := report.PendingReview{
			ID:        a.ID,
			Task:      a.Title,
			Cleaner:   "Unassigned",
			Priority:  string(a.Priority),
			UpdatedAt: a.UpdatedAt.In(loc).Format(time.RFC3339),
			HoursAgo:  int(math.Round(now.Sub(a.UpdatedAt).Hours())),
		}
		if a.EmployeeName != nil {
			item.Cleaner = *a.EmployeeName
		}
		if item.Priority == "" {
			item.Priority = string(assignment.PriorityMedium)
		}
		resp.PendingReviews = append(resp.PendingReviews, item)
	}

	return resp, nil
}
