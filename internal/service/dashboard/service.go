package dashboard

import (
	"context"
	"time"

	"github.com/knk-palvelut/workforce-backend-go/internal/domain/assignment"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/attendance"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/dashboard"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/user"
	payrollsvc "github.com/knk-palvelut/workforce-backend-go/internal/service/payroll"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	recentActivityLimit  = 5
	openAssignmentsLimit = 5
)

type DashboardServiceImpl struct {
	users       user.UserRepository
	clockLogs   attendance.ClockLogRepository
	assignments assignment.AssignmentRepository
	rates       *payrollsvc.RateResolver
	calc        *payrollsvc.HoursCalculator
	now         func() time.Time
}

func NewDashboardService(
	users user.UserRepository,
	clockLogs attendance.ClockLogRepository,
	assignments assignment.AssignmentRepository,
	rates *payrollsvc.RateResolver,
	calc *payrollsvc.HoursCalculator,
) dashboard.DashboardService {
	return &DashboardServiceImpl{
		users:       users,
		clockLogs:   clockLogs,
		assignments: assignments,
		rates:       rates,
		calc:        calc,
		now:         time.Now,
	}
}

func requireDashboard(ctx context.Context) error {
	caller, err := user.CallerFromContext(ctx)
	if err != nil {
		return err
	}
	if !user.HasPermission(caller.Role, user.PermissionDashboardView) {
		return user.ErrAdminAccessRequired
	}
	return nil
}

// GetAdminStats returns this week's totals. Every worker is bucketed and
// priced separately so overtime thresholds and rates never mix.
func (s *DashboardServiceImpl) GetAdminStats(ctx context.Context) (dashboard.AdminStatsResponse, error) {
	if err := requireDashboard(ctx); err != nil {
		return dashboard.AdminStatsResponse{}, err
	}
	return s.weeklyStats(ctx)
}

func (s *DashboardServiceImpl) weeklyStats(ctx context.Context) (dashboard.AdminStatsResponse, error) {
	weekStart := s.calc.WeekStart(s.now())
	weekEnd := weekStart.AddDate(0, 0, 7)
	window := payrollsvc.Window{From: weekStart, To: weekEnd}

	var (
		workers []user.User
		active  int64
		logs    []attendance.ClockLog
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Workers (also the cleaner count)
	g.Go(func() error {
		var err error
		workers, err = s.users.ListWorkers(gCtx, user.WorkerFilter{})
		return err
	})

	// 2. Active assignments
	g.Go(func() error {
		var err error
		active, err = s.assignments.CountActive(gCtx)
		return err
	})

	// 3. Closed logs touching this week
	g.Go(func() error {
		var err error
		logs, err = s.clockLogs.ListOverlapping(gCtx, window.From, window.To)
		return err
	})

	if err := g.Wait(); err != nil {
		return dashboard.AdminStatsResponse{}, err
	}

	rates, err := s.rates.ResolveAll(ctx, workers)
	if err != nil {
		return dashboard.AdminStatsResponse{}, err
	}

	var (
		hours float64
		pay   = decimal.Zero
	)
	for workerID, shifts := range payrollsvc.ShiftsByEmployee(logs) {
		workerRates, ok := rates[workerID]
		if !ok {
			// Former worker; the organisation rate applies.
			if workerRates, err = s.rates.OrganisationRates(ctx); err != nil {
				return dashboard.AdminStatsResponse{}, err
			}
		}
		b := s.calc.Aggregate(shifts, &window, workerRates)
		hours += b.TotalHours
		pay = pay.Add(b.TotalPay)
	}

	return dashboard.AdminStatsResponse{
		TotalCleaners:     int64(len(workers)),
		ActiveAssignments: active,
		HoursThisWeek:     payrollsvc.RoundHours(hours),
		PayrollThisWeek:   pay.Round(2),
		WeekStart:         s.calc.DayKey(weekStart),
		WeekEnd:           s.calc.DayKey(weekEnd.AddDate(0, 0, -1)),
	}, nil
}

// GetAdminDashboard returns combined dashboard data using parallel goroutines
func (s *DashboardServiceImpl) GetAdminDashboard(ctx context.Context) (dashboard.AdminDashboardResponse, error) {
	if err := requireDashboard(ctx); err != nil {
		return dashboard.AdminDashboardResponse{}, err
	}

	var (
		stats  dashboard.AdminStatsResponse
		recent []attendance.ClockLog
		open   []assignment.Assignment
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Weekly stats
	g.Go(func() error {
		var err error
		stats, err = s.weeklyStats(gCtx)
		return err
	})

	// 2. Latest clock-ins
	g.Go(func() error {
		var err error
		recent, err = s.clockLogs.ListRecent(gCtx, recentActivityLimit)
		return err
	})

	// 3. Newest open assignments
	g.Go(func() error {
		var err error
		open, err = s.assignments.List(gCtx, assignment.AssignmentFilter{
			ExcludeCompleted: true,
			Limit:            openAssignmentsLimit,
		})
		return err
	})

	if err := g.Wait(); err != nil {
		return dashboard.AdminDashboardResponse{}, err
	}

	resp := dashboard.AdminDashboardResponse{
		Stats:           stats,
		RecentActivity:  make([]dashboard.RecentActivityItem, 0, len(recent)),
		OpenAssignments: make([]dashboard.OpenAssignmentItem, 0, len(open)),
	}

	loc := s.calc.Location()
	for _, l := range recent {
		item := dashboard.RecentActivityItem{
			ID:           l.ID,
			EmployeeID:   l.EmployeeID,
			EmployeeName: "Unknown",
			ClockIn:      l.ClockIn.In(loc).Format(time.RFC3339),
			Location:     l.Location,
		}
		if l.EmployeeName != nil {
			item.EmployeeName = *l.EmployeeName
		}
		if l.ClockOut != nil {
			out := l.ClockOut.In(loc).Format(time.RFC3339)
			item.ClockOut = &out
		}
		resp.RecentActivity = append(resp.RecentActivity, item)
	}

	for _, a := range open {
		view := assignment.NewAssignmentResponse(a)
		item := dashboard.OpenAssignmentItem{
			ID:        a.ID,
			Workplace: view.Workplace,
			Cleaner:   "Unassigned",
			Status:    string(a.Status),
			Priority:  string(a.Priority),
		}
		if a.EmployeeName != nil {
			item.Cleaner = *a.EmployeeName
		}
		resp.OpenAssignments = append(resp.OpenAssignments, item)
	}

	return resp, nil
}

