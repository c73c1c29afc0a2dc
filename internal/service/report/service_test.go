package report

import (
	"context"
	"testing"
	"time"

	"github.com/knk-palvelut/workforce-backend-go/internal/domain/assignment"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/attendance"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/report"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/user"
	"github.com/knk-palvelut/workforce-backend-go/internal/fixtures"
	payrollsvc "github.com/knk-palvelut/workforce-backend-go/internal/service/payroll"
	"github.com/knk-palvelut/workforce-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportEnv struct {
	store      *fixtures.Store
	svc        *ReportServiceImpl
	loc        *time.Location
	admin      user.User
	supervisor user.User
	aino       user.User
	bertta     user.User
}

func newReportEnv(t *testing.T) *reportEnv {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Helsinki")
	require.NoError(t, err)

	store := fixtures.NewStore()
	env := &reportEnv{store: store, loc: loc}
	env.svc = &ReportServiceImpl{
		users:       store.UserRepository(),
		clockLogs:   store.ClockLogRepository(),
		assignments: store.AssignmentRepository(),
		calc:        payrollsvc.NewHoursCalculator(loc),
		now:         func() time.Time { return time.Date(2025, 3, 16, 12, 0, 0, 0, loc) },
	}

	env.admin = store.AddUser(user.User{Name: "Office", Role: user.RoleAdmin})
	env.supervisor = store.AddUser(user.User{Name: "Sami", Role: user.RoleSupervisor})
	env.aino = store.AddUser(user.User{Name: "Aino", SupervisorID: &env.supervisor.ID})
	env.bertta = store.AddUser(user.User{Name: "Bertta"})
	return env
}

func (e *reportEnv) at(day, hour int) time.Time {
	return time.Date(2025, 3, day, hour, 0, 0, 0, e.loc)
}

func (e *reportEnv) shift(workerID string, start, end time.Time) {
	e.store.AddClockLog(attendance.ClockLog{EmployeeID: workerID, ClockIn: start, ClockOut: &end})
}

func ctxFor(u user.User) context.Context {
	return user.NewCallerContext(context.Background(), user.Caller{UserID: u.ID, Role: u.Role})
}

func TestAttendanceReport_ScopesToTeam(t *testing.T) {
	env := newReportEnv(t)
	env.shift(env.aino.ID, env.at(11, 8), env.at(11, 18))
	env.shift(env.bertta.ID, env.at(11, 8), env.at(11, 12))

	req := report.ReportRequest{StartDate: "2025-03-10", EndDate: "2025-03-16"}

	all, err := env.svc.AttendanceReport(ctxFor(env.admin), req)
	require.NoError(t, err)
	assert.Len(t, all.Rows, 2)

	team, err := env.svc.AttendanceReport(ctxFor(env.supervisor), req)
	require.NoError(t, err)
	require.Len(t, team.Rows, 1)

	row := team.Rows[0]
	assert.Equal(t, "Aino", row.Employee)
	assert.Equal(t, "2025-03-11", row.Date)
	assert.InDelta(t, 10.0, row.Hours, 1e-9)
	assert.InDelta(t, 8.0, row.RegularHours, 1e-9)
	assert.InDelta(t, 2.0, row.OvertimeHours, 1e-9)
}

func TestAttendanceReport_EmptyTeam(t *testing.T) {
	env := newReportEnv(t)
	lonely := env.store.AddUser(user.User{Name: "Laura", Role: user.RoleSupervisor})
	env.shift(env.bertta.ID, env.at(11, 8), env.at(11, 12))

	resp, err := env.svc.AttendanceReport(ctxFor(lonely), report.ReportRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Rows)
	assert.Equal(t, "2025-02-15", resp.StartDate)
	assert.Equal(t, "2025-03-16", resp.EndDate)
}

func TestAttendanceReport_Validation(t *testing.T) {
	env := newReportEnv(t)

	_, err := env.svc.AttendanceReport(ctxFor(env.admin), report.ReportRequest{StartDate: "2025-03-10"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = env.svc.AttendanceReport(ctxFor(env.aino), report.ReportRequest{})
	assert.ErrorIs(t, err, user.ErrSupervisorAccessRequired)
}

func TestPerformanceReport(t *testing.T) {
	env := newReportEnv(t)
	for i := 0; i < 19; i++ {
		env.store.AddAssignment(assignment.Assignment{EmployeeID: env.aino.ID, Title: "done", Status: assignment.StatusCompleted})
	}
	env.store.AddAssignment(assignment.Assignment{EmployeeID: env.aino.ID, Title: "open", Status: assignment.StatusPending})
	env.store.AddAssignment(assignment.Assignment{EmployeeID: env.bertta.ID, Title: "open", Status: assignment.StatusPending})

	rows, err := env.svc.PerformanceReport(ctxFor(env.admin))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Aino", rows[0].Employee)
	assert.Equal(t, int64(19), rows[0].TasksCompleted)
	assert.Equal(t, int64(20), rows[0].TasksAssigned)
	assert.InDelta(t, 95.0, rows[0].Efficiency, 1e-9)
	assert.Equal(t, report.RatingExcellent, rows[0].Rating)

	assert.Zero(t, rows[1].Efficiency)
	assert.Equal(t, report.RatingAverage, rows[1].Rating)
}

func TestRatingFor(t *testing.T) {
	tests := []struct {
		efficiency float64
		want       report.Rating
	}{
		{100, report.RatingExcellent},
		{95, report.RatingExcellent},
		{94.9, report.RatingGood},
		{90, report.RatingGood},
		{89.9, report.RatingAverage},
		{0, report.RatingAverage},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, report.RatingFor(tt.efficiency), "efficiency %v", tt.efficiency)
	}
}

func TestTaskReport_FiltersByDueDate(t *testing.T) {
	env := newReportEnv(t)
	inside := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	outside := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	completed := env.at(14, 15)

	env.store.AddAssignment(assignment.Assignment{
		EmployeeID:  env.aino.ID,
		Title:       "Windows",
		Status:      assignment.StatusCompleted,
		DueDate:     &inside,
		CompletedAt: &completed,
		Location:    strPtr("Kallio"),
	})
	env.store.AddAssignment(assignment.Assignment{EmployeeID: env.aino.ID, Title: "Later", DueDate: &outside, Status: assignment.StatusUpcoming})

	resp, err := env.svc.TaskReport(ctxFor(env.admin), report.ReportRequest{StartDate: "2025-03-10", EndDate: "2025-03-16"})
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)

	row := resp.Rows[0]
	assert.Equal(t, "Windows", row.Task)
	assert.Equal(t, "Aino", row.Assignee)
	assert.Equal(t, "Kallio", row.Workplace)
	require.NotNil(t, row.CompletedDate)
	assert.Equal(t, "2025-03-14", *row.CompletedDate)
}

func TestTeamWeeklyHours(t *testing.T) {
	env := newReportEnv(t)
	env.shift(env.aino.ID, env.at(12, 8), env.at(12, 17))
	env.shift(env.aino.ID, env.at(16, 8), env.at(16, 11))
	env.store.AddClockLog(attendance.ClockLog{EmployeeID: env.aino.ID, ClockIn: env.at(16, 11)})

	resp, err := env.svc.TeamWeeklyHours(ctxFor(env.supervisor))
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", resp.WeekStart)
	require.Len(t, resp.Rows, 1)

	row := resp.Rows[0]
	assert.Equal(t, "Aino", row.Employee)
	assert.InDelta(t, 12.0, row.WeekHours, 1e-9)
	assert.InDelta(t, 8.0, row.RegularHours, 1e-9)
	assert.InDelta(t, 4.0, row.OvertimeHours, 1e-9)
	assert.InDelta(t, 3.0, row.SundayHours, 1e-9)
	assert.True(t, row.IsClockedIn)
}

type openShiftSpy struct {
	attendance.ClockLogRepository
	openIDs [][]string
}

func (s *openShiftSpy) ListOpenStartedBefore(ctx context.Context, cutoff time.Time, employeeIDs ...string) ([]attendance.ClockLog, error) {
	s.openIDs = append(s.openIDs, employeeIDs)
	return s.ClockLogRepository.ListOpenStartedBefore(ctx, cutoff, employeeIDs...)
}

func TestTeamWeeklyHours_OpenShiftsFilteredToTeam(t *testing.T) {
	env := newReportEnv(t)
	spy := &openShiftSpy{ClockLogRepository: env.store.ClockLogRepository()}
	env.svc.clockLogs = spy
	env.store.AddClockLog(attendance.ClockLog{EmployeeID: env.bertta.ID, ClockIn: env.at(16, 9)})

	resp, err := env.svc.TeamWeeklyHours(ctxFor(env.supervisor))
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	assert.False(t, resp.Rows[0].IsClockedIn)

	require.Len(t, spy.openIDs, 1)
	assert.Equal(t, []string{env.aino.ID}, spy.openIDs[0])
}

func TestGetSupervisorDashboard(t *testing.T) {
	env := newReportEnv(t)
	cecilia := env.store.AddUser(user.User{Name: "Cecilia", SupervisorID: &env.supervisor.ID})

	// Overnight shift: only the part after midnight counts today.
	env.shift(env.aino.ID, env.at(15, 22), env.at(16, 3))
	env.shift(env.aino.ID, env.at(16, 6), env.at(16, 9))
	env.store.AddClockLog(attendance.ClockLog{EmployeeID: cecilia.ID, ClockIn: env.at(16, 10), Location: strPtr("Kallio")})
	env.shift(env.bertta.ID, env.at(16, 6), env.at(16, 10))
	env.store.AddClockLog(attendance.ClockLog{EmployeeID: env.bertta.ID, ClockIn: env.at(16, 11)})

	completedToday := env.at(16, 9)
	completedYesterday := env.at(15, 17)
	env.store.AddAssignment(assignment.Assignment{EmployeeID: env.aino.ID, Title: "Lobby", Status: assignment.StatusInProgress})
	env.store.AddAssignment(assignment.Assignment{EmployeeID: env.aino.ID, Title: "Stairs", Status: assignment.StatusCompleted, CompletedAt: &completedToday})
	env.store.AddAssignment(assignment.Assignment{EmployeeID: env.aino.ID, Title: "Yard", Status: assignment.StatusCompleted, CompletedAt: &completedYesterday})
	for hoursAgo := 1; hoursAgo <= 6; hoursAgo++ {
		env.store.AddAssignment(assignment.Assignment{
			EmployeeID: env.aino.ID,
			Title:      "Review",
			Status:     assignment.StatusReview,
			Priority:   assignment.PriorityHigh,
			CreatedAt:  env.at(16, 12-hoursAgo),
		})
	}
	env.store.AddAssignment(assignment.Assignment{EmployeeID: env.bertta.ID, Title: "Other team", Status: assignment.StatusReview})

	resp, err := env.svc.GetSupervisorDashboard(ctxFor(env.supervisor))
	require.NoError(t, err)

	assert.Equal(t, report.SupervisorStats{TeamSize: 2, ActiveTasks: 1, CompletedToday: 1, Alerts: 6}, resp.Stats)

	members := make(map[string]report.TeamMemberToday, len(resp.TeamMembers))
	for _, m := range resp.TeamMembers {
		members[m.Name] = m
	}
	require.Len(t, members, 2)

	assert.Equal(t, report.MemberOffline, members["Aino"].Status)
	assert.Equal(t, "Unknown", members["Aino"].Location)
	assert.InDelta(t, 6.0, members["Aino"].HoursToday, 1e-9)

	assert.Equal(t, report.MemberClockedIn, members["Cecilia"].Status)
	assert.Equal(t, "Kallio", members["Cecilia"].Location)
	assert.Zero(t, members["Cecilia"].HoursToday)

	require.Len(t, resp.PendingReviews, pendingReviewLimit)
	for i, r := range resp.PendingReviews {
		assert.Equal(t, i+1, r.HoursAgo)
		assert.Equal(t, "Aino", r.Cleaner)
		assert.Equal(t, "HIGH", r.Priority)
	}
}

func TestGetSupervisorDashboard_Access(t *testing.T) {
	env := newReportEnv(t)

	_, err := env.svc.GetSupervisorDashboard(ctxFor(env.admin))
	assert.ErrorIs(t, err, user.ErrSupervisorAccessRequired)

	lonely := env.store.AddUser(user.User{Name: "Laura", Role: user.RoleSupervisor})
	resp, err := env.svc.GetSupervisorDashboard(ctxFor(lonely))
	require.NoError(t, err)
	assert.Zero(t, resp.Stats)
	assert.Empty(t, resp.TeamMembers)
	assert.NotNil(t, resp.PendingReviews)
}

func strPtr(s string) *string { return &s }
