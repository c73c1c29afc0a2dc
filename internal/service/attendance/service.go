package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/knk-palvelut/workforce-backend-go/internal/domain/assignment"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/attendance"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/user"
	"github.com/knk-palvelut/workforce-backend-go/internal/pkg/database"
	payrollsvc "github.com/knk-palvelut/workforce-backend-go/internal/service/payroll"
	"golang.org/x/sync/errgroup"
)

const recentLogLimit = 5

type AttendanceServiceImpl struct {
	tx          database.Transactor
	clockLogs   attendance.ClockLogRepository
	users       user.UserRepository
	assignments assignment.AssignmentRepository
	calc        *payrollsvc.HoursCalculator
	now         func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	clockLogs attendance.ClockLogRepository,
	users user.UserRepository,
	assignments assignment.AssignmentRepository,
	calc *payrollsvc.HoursCalculator,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:          tx,
		clockLogs:   clockLogs,
		users:       users,
		assignments: assignments,
		calc:        calc,
		now:         time.Now,
	}
}

// workerFromContext returns the caller when it is a worker.
func workerFromContext(ctx context.Context) (user.Caller, error) {
	caller, err := user.CallerFromContext(ctx)
	if err != nil {
		return user.Caller{}, err
	}
	if caller.Role != user.RoleEmployee {
		return user.Caller{}, user.ErrInsufficientPermissions
	}
	return caller, nil
}

func (s *AttendanceServiceImpl) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.ClockLogResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ClockLogResponse{}, err
	}

	caller, err := workerFromContext(ctx)
	if err != nil {
		return attendance.ClockLogResponse{}, err
	}

	now := s.timestamp()
	var created attendance.ClockLog

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		worker, err := s.users.LockWorker(txCtx, caller.UserID)
		if err != nil {
			return err
		}

		open, err := s.clockLogs.GetOpen(txCtx, worker.ID, false)
		if err != nil {
			return err
		}
		if open != nil {
			return attendance.ErrAlreadyClockedIn
		}

		if req.AssignmentID != nil {
			if err := s.startAssignment(txCtx, worker.ID, *req.AssignmentID, now); err != nil {
				return err
			}
		}

		created, err = s.clockLogs.Create(txCtx, attendance.ClockLog{
			EmployeeID:   worker.ID,
			AssignmentID: req.AssignmentID,
			ClockIn:      now,
			Location:     req.Location,
		})
		return err
	})
	if err != nil {
		return attendance.ClockLogResponse{}, err
	}

	slog.Info("clock-in recorded",
		"employee_id", created.EmployeeID,
		"clock_log_id", created.ID,
		"assignment_id", created.AssignmentID,
	)

	return attendance.NewClockLogResponse(created), nil
}

func (s *AttendanceServiceImpl) startAssignment(ctx context.Context, workerID, assignmentID string, now time.Time) error {
	a, err := s.assignments.GetByID(ctx, assignmentID, true)
	if err != nil {
		return err
	}
	if a.EmployeeID != workerID {
		return assignment.ErrAssignmentNotOwned
	}
	if a.Status != assignment.StatusInProgress && !assignment.CanTransition(a.Status, assignment.StatusInProgress) {
		return assignment.ErrInvalidStatusTransition
	}

	a.Status = assignment.StatusInProgress
	if a.StartTime == nil {
		a.StartTime = &now
	}
	return s.assignments.UpdateProgress(ctx, a)
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (*attendance.ClockLogResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	caller, err := workerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	var closed *attendance.ClockLog

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		worker, err := s.users.LockWorker(txCtx, caller.UserID)
		if err != nil {
			return err
		}

		open, err := s.clockLogs.GetOpen(txCtx, worker.ID, true)
		if err != nil {
			return err
		}
		if open == nil {
			return nil
		}

		assignmentID := open.AssignmentID
		if req.AssignmentID != nil {
			if assignmentID != nil && *assignmentID != *req.AssignmentID {
				return attendance.ErrAssignmentMismatch
			}
			assignmentID = req.AssignmentID
		}

		clockOut := now
		if !clockOut.After(open.ClockIn) {
			clockOut = open.ClockIn.Add(time.Microsecond)
		}
		open.ClockOut = &clockOut

		if err := s.snapshotHours(txCtx, open); err != nil {
			return err
		}

		result, err := s.clockLogs.Close(txCtx, *open)
		if err != nil {
			return err
		}

		if assignmentID != nil {
			if err := s.finishAssignment(txCtx, worker.ID, *assignmentID, clockOut, req.AssignmentID != nil); err != nil {
				return err
			}
		}

		closed = &result
		return nil
	})
	if err != nil {
		return nil, err
	}

	if closed == nil {
		return nil, nil
	}

	slog.Info("clock-out recorded",
		"employee_id", closed.EmployeeID,
		"clock_log_id", closed.ID,
		"regular_hours", closed.RegularHours,
		"overtime_hours", closed.OvertimeHours,
	)

	resp := attendance.NewClockLogResponse(*closed)
	return &resp, nil
}

// snapshotHours stores the log's share of the day classification, taking the
// worker's other closed shifts on the same local days into account.
func (s *AttendanceServiceImpl) snapshotHours(ctx context.Context, log *attendance.ClockLog) error {
	window := payrollsvc.Window{
		From: s.calc.StartOfDay(log.ClockIn),
		To:   s.calc.NextMidnight(*log.ClockOut),
	}

	others, err := s.clockLogs.ListOverlapping(ctx, window.From, window.To, log.EmployeeID)
	if err != nil {
		return fmt.Errorf("failed to load same-day shifts: %w", err)
	}

	shifts := payrollsvc.ShiftsFromLogs(others)
	shifts = append(shifts, payrollsvc.Shift{ID: log.ID, Start: log.ClockIn, End: log.ClockOut})

	share := s.calc.Allocate(shifts, &window).Shifts[log.ID]
	log.RegularHours = share.RegularHours
	log.OvertimeHours = share.OvertimeHours
	return nil
}

// finishAssignment moves the assignment to REVIEW. An explicit assignment from
// the request must belong to the worker; one linked at clock-in that can no
// longer move is left as is.
func (s *AttendanceServiceImpl) finishAssignment(ctx context.Context, workerID, assignmentID string, now time.Time, explicit bool) error {
	a, err := s.assignments.GetByID(ctx, assignmentID, true)
	if err != nil {
		return err
	}
	if a.EmployeeID != workerID {
		if explicit {
			return assignment.ErrAssignmentNotOwned
		}
		return nil
	}
	if !assignment.CanTransition(a.Status, assignment.StatusReview) {
		if explicit {
			return assignment.ErrInvalidStatusTransition
		}
		return nil
	}

	a.Status = assignment.StatusReview
	a.EndTime = &now
	return s.assignments.UpdateProgress(ctx, a)
}

// GetHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetHistory(ctx context.Context, filter attendance.HistoryFilter) ([]attendance.HistoryEntryResponse, error) {
	caller, err := workerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	filter.Normalize()

	logs, err := s.clockLogs.ListByEmployee(ctx, caller.UserID, filter.Limit)
	if err != nil {
		return nil, err
	}

	// Earlier shifts of the oldest listed day still consume its regular budget.
	shifts, err := payrollsvc.PrecedingShifts(ctx, s.clockLogs, s.calc, caller.UserID, logs, filter.Limit)
	if err != nil {
		return nil, err
	}
	for i := range logs {
		start, end := logs[i].WorkedInterval()
		shifts = append(shifts, payrollsvc.Shift{ID: logs[i].ID, Start: start, End: end})
	}
	alloc := s.calc.Allocate(shifts, nil)

	loc := s.calc.Location()
	entries := make([]attendance.HistoryEntryResponse, 0, len(logs))
	for i := range logs {
		l := &logs[i]
		start, end := l.WorkedInterval()
		share := alloc.Shifts[l.ID]

		entry := attendance.HistoryEntryResponse{
			ID:                   l.ID,
			Workplace:            l.Place(),
			Date:                 s.calc.DayKey(start),
			ClockIn:              start.In(loc).Format(time.RFC3339),
			TotalHours:           payrollsvc.RoundHours(share.TotalHours),
			Overtime:             payrollsvc.RoundHours(share.OvertimeHours),
			SundayHours:          payrollsvc.RoundHours(share.SundayHours),
			WeekdayOvertimeHours: payrollsvc.RoundHours(share.WeekdayOvertimeHours),
			Status:               attendance.HistoryStatusPending,
		}
		if l.AssignmentTitle != nil {
			entry.AssignmentTitle = *l.AssignmentTitle
		}
		if end != nil {
			out := end.In(loc).Format(time.RFC3339)
			entry.ClockOut = &out
			entry.Status = attendance.HistoryStatusCompleted
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// GetSummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetSummary(ctx context.Context) (attendance.SummaryResponse, error) {
	caller, err := workerFromContext(ctx)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	now := s.now()
	today := s.calc.StartOfDay(now)
	tomorrow := s.calc.NextMidnight(now)
	yesterday := today.AddDate(0, 0, -1)
	weekStart := s.calc.WeekStart(now)
	lastWeekStart := weekStart.AddDate(0, 0, -7)

	var (
		logs   []attendance.ClockLog
		open   *attendance.ClockLog
		recent []attendance.ClockLog
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		logs, err = s.clockLogs.ListOverlapping(gCtx, lastWeekStart, tomorrow, caller.UserID)
		return err
	})

	g.Go(func() error {
		var err error
		open, err = s.clockLogs.GetOpen(gCtx, caller.UserID, false)
		return err
	})

	g.Go(func() error {
		var err error
		recent, err = s.clockLogs.ListByEmployee(gCtx, caller.UserID, recentLogLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	window := payrollsvc.Window{From: lastWeekStart, To: tomorrow}
	alloc := s.calc.Allocate(payrollsvc.ShiftsFromLogs(logs), &window)

	todayKey := s.calc.DayKey(today)
	yesterdayKey := s.calc.DayKey(yesterday)
	weekKey := s.calc.DayKey(weekStart)

	var resp attendance.SummaryResponse
	for _, d := range alloc.Days {
		switch {
		case d.Date >= weekKey:
			resp.WeekHours += d.Hours
		default:
			resp.LastWeekHours += d.Hours
		}
		if d.Date == todayKey {
			resp.TodayHours += d.Hours
		}
		if d.Date == yesterdayKey {
			resp.YesterdayHours += d.Hours
		}
	}
	resp.TodayHours = payrollsvc.RoundHours(resp.TodayHours)
	resp.YesterdayHours = payrollsvc.RoundHours(resp.YesterdayHours)
	resp.WeekHours = payrollsvc.RoundHours(resp.WeekHours)
	resp.LastWeekHours = payrollsvc.RoundHours(resp.LastWeekHours)

	if open != nil {
		openResp := attendance.NewClockLogResponse(*open)
		resp.IsClockedIn = true
		resp.OpenShift = &openResp
	}

	sort.SliceStable(recent, func(i, j int) bool { return recent[i].ClockIn.After(recent[j].ClockIn) })
	resp.RecentLogs = make([]attendance.ClockLogResponse, 0, len(recent))
	for _, l := range recent {
		resp.RecentLogs = append(resp.RecentLogs, attendance.NewClockLogResponse(l))
	}

	return resp, nil
}
