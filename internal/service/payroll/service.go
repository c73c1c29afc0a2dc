package payroll

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/knk-palvelut/workforce-backend-go/internal/domain/assignment"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/attendance"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/payroll"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

const (
	workerDetailLogLimit = 200
	workerDetailDayLimit = 30
	settingsHistoryLimit = 50
	// Worker detail covers roughly the last three months of shifts.
	monthsPerDetail = 3
)

type PayrollServiceImpl struct {
	users       user.UserRepository
	clockLogs   attendance.ClockLogRepository
	assignments assignment.AssignmentRepository
	settings    payroll.PaymentSettingsRepository
	rates       *RateResolver
	calc        *HoursCalculator
}

func NewPayrollService(
	users user.UserRepository,
	clockLogs attendance.ClockLogRepository,
	assignments assignment.AssignmentRepository,
	settings payroll.PaymentSettingsRepository,
	rates *RateResolver,
	calc *HoursCalculator,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		users:       users,
		clockLogs:   clockLogs,
		assignments: assignments,
		settings:    settings,
		rates:       rates,
		calc:        calc,
	}
}

func requirePermission(ctx context.Context, perm user.Permission) (user.Caller, error) {
	caller, err := user.CallerFromContext(ctx)
	if err != nil {
		return user.Caller{}, err
	}
	if !user.HasPermission(caller.Role, perm) {
		return user.Caller{}, user.ErrInsufficientPermissions
	}
	return caller, nil
}

// visibleWorker loads a worker the caller may see: admins see everyone,
// supervisors their own team, employees only themselves.
func (s *PayrollServiceImpl) visibleWorker(ctx context.Context, caller user.Caller, workerID string) (user.User, error) {
	if caller.Role == user.RoleEmployee && caller.UserID != workerID {
		return user.User{}, user.ErrInsufficientPermissions
	}

	worker, err := s.users.GetWorker(ctx, workerID)
	if err != nil {
		return user.User{}, err
	}

	if caller.Role == user.RoleSupervisor {
		if worker.SupervisorID == nil || *worker.SupervisorID != caller.UserID {
			return user.User{}, user.ErrNotOwnTeam
		}
	}
	return worker, nil
}

// ========== RATES ==========

func (s *PayrollServiceImpl) GetEffectiveRates(ctx context.Context, workerID *string) (payroll.RatesResponse, error) {
	caller, err := requirePermission(ctx, user.PermissionPayrollView)
	if err != nil {
		return payroll.RatesResponse{}, err
	}

	if workerID == nil {
		rates, err := s.rates.OrganisationRates(ctx)
		if err != nil {
			return payroll.RatesResponse{}, err
		}
		return payroll.NewRatesResponse(rates), nil
	}

	worker, err := s.visibleWorker(ctx, caller, *workerID)
	if err != nil {
		return payroll.RatesResponse{}, err
	}

	rates, err := s.rates.Resolve(ctx, &worker)
	if err != nil {
		return payroll.RatesResponse{}, err
	}
	return payroll.NewRatesResponse(rates), nil
}

// ========== WORKER DETAIL ==========

func (s *PayrollServiceImpl) GetWorkerDetail(ctx context.Context, workerID string) (payroll.WorkerDetailResponse, error) {
	caller, err := requirePermission(ctx, user.PermissionTeamView)
	if err != nil {
		return payroll.WorkerDetailResponse{}, err
	}

	worker, err := s.visibleWorker(ctx, caller, workerID)
	if err != nil {
		return payroll.WorkerDetailResponse{}, err
	}

	var (
		logs           []attendance.ClockLog
		tasksCompleted int64
		rates          payroll.Rates
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		logs, err = s.clockLogs.ListByEmployee(gCtx, worker.ID, workerDetailLogLimit)
		return err
	})

	g.Go(func() error {
		var err error
		tasksCompleted, err = s.assignments.CountCompleted(gCtx, worker.ID)
		return err
	})

	g.Go(func() error {
		var err error
		rates, err = s.rates.Resolve(gCtx, &worker)
		return err
	})

	if err := g.Wait(); err != nil {
		return payroll.WorkerDetailResponse{}, err
	}

	// Detail totals are computed from raw clock times. Shifts preceding the
	// oldest loaded log only shape its day, they are not counted in totals.
	preceding, err := PrecedingShifts(ctx, s.clockLogs, s.calc, worker.ID, logs, workerDetailLogLimit)
	if err != nil {
		return payroll.WorkerDetailResponse{}, err
	}
	alloc := s.calc.Allocate(append(preceding, ShiftsFromLogs(logs)...), nil)

	var total, regular, overtime float64
	for i := range logs {
		share := alloc.Shifts[logs[i].ID]
		total += share.TotalHours
		regular += share.RegularHours
		overtime += share.OvertimeHours
	}

	days := append([]Day(nil), alloc.Days...)
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	if len(days) > workerDetailDayLimit {
		days = days[:workerDetailDayLimit]
	}

	resp := payroll.WorkerDetailResponse{
		ID:                 worker.ID,
		Name:               worker.Name,
		Email:              worker.Email,
		Status:             worker.Status,
		SupervisorID:       worker.SupervisorID,
		TasksCompleted:     tasksCompleted,
		TotalHours:         RoundHours(total),
		TotalRegularHours:  RoundHours(regular),
		TotalOvertimeHours: RoundHours(overtime),
		MonthlyAverage:     RoundHours(total / monthsPerDetail),
		WorkRecords:        DayResponses(days),
		Rates:              payroll.NewRatesResponse(rates),
	}
	if worker.JoinDate != nil {
		joined := worker.JoinDate.Format(dayKeyLayout)
		resp.JoinDate = &joined
	}

	return resp, nil
}

// ========== SALARY ==========

func (s *PayrollServiceImpl) CalculateSalary(ctx context.Context, req payroll.SalaryRequest) (payroll.SalaryResponse, error) {
	if _, err := requirePermission(ctx, user.PermissionPayrollCalculate); err != nil {
		return payroll.SalaryResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.SalaryResponse{}, err
	}

	start, err := s.calc.ParseDate(req.StartDate)
	if err != nil {
		return payroll.SalaryResponse{}, payroll.ErrInvalidDateRange
	}
	end, err := s.calc.ParseDate(req.EndDate)
	if err != nil {
		return payroll.SalaryResponse{}, payroll.ErrInvalidDateRange
	}

	worker, err := s.users.GetWorker(ctx, req.WorkerID)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}

	rates, err := s.rates.Resolve(ctx, &worker)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}

	window := s.calc.DayWindow(start, end)
	logs, err := s.clockLogs.ListOverlapping(ctx, window.From, window.To, worker.ID)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}

	b := s.calc.Aggregate(ShiftsFromLogs(logs), &window, rates)

	return payroll.SalaryResponse{
		WorkerID:             worker.ID,
		WorkerName:           worker.Name,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		TotalHours:           RoundHours(b.TotalHours),
		TotalRegularHours:    RoundHours(b.TotalRegularHours),
		TotalOvertimeHours:   RoundHours(b.TotalOvertimeHours),
		WeekdayOvertimeHours: RoundHours(b.WeekdayOvertimeHours),
		SundayHours:          RoundHours(b.SundayHours),
		RegularPay:           b.RegularPay.Round(2),
		OvertimePay:          b.OvertimePay.Round(2),
		TotalPay:             b.TotalPay.Round(2),
		Rates:                payroll.NewRatesResponse(rates),
		Days:                 DayResponses(b.Days),
	}, nil
}

func (s *PayrollServiceImpl) ListSalaryWorkers(ctx context.Context) ([]user.WorkerResponse, error) {
	if _, err := requirePermission(ctx, user.PermissionPayrollCalculate); err != nil {
		return nil, err
	}

	workers, err := s.users.ListWorkers(ctx, user.WorkerFilter{})
	if err != nil {
		return nil, err
	}

	rates, err := s.rates.ResolveAll(ctx, workers)
	if err != nil {
		return nil, err
	}

	resp := make([]user.WorkerResponse, 0, len(workers))
	for _, w := range workers {
		item := user.WorkerResponse{
			ID:                  w.ID,
			Name:                w.Name,
			Email:               w.Email,
			EffectiveHourlyRate: rates[w.ID].Regular.StringFixed(2),
			SupervisorID:        w.SupervisorID,
			Status:              w.Status,
		}
		if w.HourlyRate != nil {
			own := w.HourlyRate.StringFixed(2)
			item.HourlyRate = &own
		}
		resp = append(resp, item)
	}
	return resp, nil
}

// ========== PAYMENT SETTINGS ==========

func settingsResponse(ps payroll.PaymentSettings) payroll.PaymentSettingsResponse {
	rates := payroll.DeriveRates(ps.RegularRate, payroll.RateSourceSettings)
	createdAt := ps.CreatedAt.Format(time.RFC3339)
	id := ps.ID
	return payroll.PaymentSettingsResponse{
		ID:                 &id,
		RegularRate:        rates.Regular,
		OvertimeRate:       ps.OvertimeRate,
		SundayOvertimeRate: rates.Sunday,
		CreatedBy:          ps.CreatedBy,
		CreatedAt:          &createdAt,
	}
}

// GetPaymentSettings returns the current settings version. Without any
// version it reports the organisation rates with a nil ID.
func (s *PayrollServiceImpl) GetPaymentSettings(ctx context.Context) (payroll.PaymentSettingsResponse, error) {
	if _, err := requirePermission(ctx, user.PermissionPaymentSettingsManage); err != nil {
		return payroll.PaymentSettingsResponse{}, err
	}

	current, err := s.settings.GetCurrent(ctx, time.Now())
	if err != nil {
		return payroll.PaymentSettingsResponse{}, err
	}
	if current != nil {
		return settingsResponse(*current), nil
	}

	rates, err := s.rates.OrganisationRates(ctx)
	if err != nil {
		return payroll.PaymentSettingsResponse{}, err
	}
	return payroll.PaymentSettingsResponse{
		RegularRate:        rates.Regular,
		OvertimeRate:       rates.Overtime,
		SundayOvertimeRate: rates.Sunday,
	}, nil
}

// UpdatePaymentSettings appends a new version; earlier versions are kept.
func (s *PayrollServiceImpl) UpdatePaymentSettings(ctx context.Context, req payroll.UpdatePaymentSettingsRequest) (payroll.PaymentSettingsResponse, error) {
	caller, err := requirePermission(ctx, user.PermissionPaymentSettingsManage)
	if err != nil {
		return payroll.PaymentSettingsResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.PaymentSettingsResponse{}, err
	}

	regular := req.RegularRate.Round(2)
	createdBy := caller.UserID
	created, err := s.settings.Append(ctx, payroll.PaymentSettings{
		RegularRate:  regular,
		OvertimeRate: payroll.OvertimeRateFor(regular),
		CreatedBy:    &createdBy,
	})
	if err != nil {
		return payroll.PaymentSettingsResponse{}, err
	}
	s.rates.Invalidate()

	slog.Info("payment rate appended",
		"settings_id", created.ID,
		"regular_rate", created.RegularRate.String(),
		"created_by", createdBy,
	)

	return settingsResponse(created), nil
}

func (s *PayrollServiceImpl) ListPaymentSettingsHistory(ctx context.Context) ([]payroll.PaymentSettingsResponse, error) {
	if _, err := requirePermission(ctx, user.PermissionPaymentSettingsManage); err != nil {
		return nil, err
	}

	history, err := s.settings.ListHistory(ctx, settingsHistoryLimit)
	if err != nil {
		return nil, err
	}

	resp := make([]payroll.PaymentSettingsResponse, 0, len(history))
	for _, ps := range history {
		resp = append(resp, settingsResponse(ps))
	}
	return resp, nil
}
