package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/knk-palvelut/workforce-backend-go/internal/domain/assignment"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/attendance"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/payroll"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/user"
	"github.com/knk-palvelut/workforce-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Workers(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(setup.DB)

	supervisorID := setup.createUser(t, "Sanna", "SUPERVISOR", nil)
	workerID := setup.createUser(t, "Pekka", "EMPLOYEE", &supervisorID)
	setup.createUser(t, "Aino", "EMPLOYEE", nil)

	worker, err := repo.GetWorker(ctx, workerID)
	require.NoError(t, err)
	assert.Equal(t, "Pekka", worker.Name)
	assert.Equal(t, user.RoleEmployee, worker.Role)

	_, err = repo.GetWorker(ctx, supervisorID)
	assert.ErrorIs(t, err, user.ErrWorkerNotFound)

	team, err := repo.ListWorkers(ctx, user.WorkerFilter{SupervisorID: &supervisorID})
	require.NoError(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, workerID, team[0].ID)

	count, err := repo.CountWorkers(ctx, user.WorkerFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestClockLogRepository_OpenShiftLifecycle(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewClockLogRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	workerID := setup.createUser(t, "Pekka", "EMPLOYEE", nil)
	clockIn := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)

	created, err := repo.Create(ctx, attendance.ClockLog{EmployeeID: workerID, ClockIn: clockIn})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = repo.Create(ctx, attendance.ClockLog{EmployeeID: workerID, ClockIn: clockIn.Add(time.Hour)})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)

	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		open, err := repo.GetOpen(ctx, workerID, true)
		if err != nil {
			return err
		}
		require.NotNil(t, open)

		out := clockIn.Add(10 * time.Hour)
		open.ClockOut = &out
		open.RegularHours = 8
		open.OvertimeHours = 2
		_, err = repo.Close(ctx, *open)
		return err
	})
	require.NoError(t, err)

	open, err := repo.GetOpen(ctx, workerID, false)
	require.NoError(t, err)
	assert.Nil(t, open)

	logs, err := repo.ListOverlapping(ctx, clockIn.Add(9*time.Hour), clockIn.Add(24*time.Hour), workerID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.InDelta(t, 8.0, logs[0].RegularHours, 1e-9)

	logs, err = repo.ListOverlapping(ctx, clockIn.Add(10*time.Hour), clockIn.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestClockLogRepository_TransactionRollback(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewClockLogRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	workerID := setup.createUser(t, "Pekka", "EMPLOYEE", nil)
	errAbort := errors.New("abort")

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := repo.Create(ctx, attendance.ClockLog{EmployeeID: workerID, ClockIn: time.Now().UTC()}); err != nil {
			return err
		}
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	open, err := repo.GetOpen(ctx, workerID, false)
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestClockLogRepository_OpenStartedBefore(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewClockLogRepository(setup.DB)

	pekka := setup.createUser(t, "Pekka", "EMPLOYEE", nil)
	aino := setup.createUser(t, "Aino", "EMPLOYEE", nil)
	clockIn := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)

	for _, id := range []string{pekka, aino} {
		_, err := repo.Create(ctx, attendance.ClockLog{EmployeeID: id, ClockIn: clockIn})
		require.NoError(t, err)
	}

	all, err := repo.ListOpenStartedBefore(ctx, clockIn.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := repo.ListOpenStartedBefore(ctx, clockIn.Add(time.Hour), aino)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, aino, mine[0].EmployeeID)
	require.NotNil(t, mine[0].EmployeeName)
	assert.Equal(t, "Aino", *mine[0].EmployeeName)

	none, err := repo.ListOpenStartedBefore(ctx, clockIn, aino)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPaymentSettingsRepository_Versions(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewPaymentSettingsRepository(setup.DB)

	current, err := repo.GetCurrent(ctx, time.Now())
	require.NoError(t, err)
	assert.Nil(t, current)

	_, err = repo.Append(ctx, payroll.PaymentSettings{RegularRate: decimal.RequireFromString("20.00"), OvertimeRate: decimal.RequireFromString("30.00")})
	require.NoError(t, err)
	latest, err := repo.Append(ctx, payroll.PaymentSettings{RegularRate: decimal.RequireFromString("22.00"), OvertimeRate: decimal.RequireFromString("33.00")})
	require.NoError(t, err)

	current, err = repo.GetCurrent(ctx, time.Now().Add(time.Second))
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, latest.ID, current.ID)
	assert.True(t, current.RegularRate.Equal(decimal.NewFromInt(22)))

	history, err := repo.ListHistory(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestAssignmentRepository_Progress(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAssignmentRepository(setup.DB)

	supervisorID := setup.createUser(t, "Sanna", "SUPERVISOR", nil)
	workerID := setup.createUser(t, "Pekka", "EMPLOYEE", &supervisorID)
	due := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	created, err := repo.Create(ctx, assignment.Assignment{
		EmployeeID: workerID,
		Title:      "Office floor 3",
		Priority:   assignment.PriorityMedium,
		Status:     assignment.StatusPending,
		DueDate:    &due,
		CreatedBy:  &supervisorID,
	})
	require.NoError(t, err)

	done := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	created.Status = assignment.StatusCompleted
	created.CompletedAt = &done
	require.NoError(t, repo.UpdateProgress(ctx, created))

	got, err := repo.GetByID(ctx, created.ID, false)
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusCompleted, got.Status)
	require.NotNil(t, got.EmployeeName)
	assert.Equal(t, "Pekka", *got.EmployeeName)

	completed, err := repo.CountCompleted(ctx, workerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), completed)

	team, err := repo.List(ctx, assignment.AssignmentFilter{SupervisorID: &supervisorID, ExcludeCompleted: true})
	require.NoError(t, err)
	assert.Empty(t, team)

	counts, err := repo.CountByEmployee(ctx, &supervisorID)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, int64(1), counts[0].Assigned)
	assert.Equal(t, int64(1), counts[0].Completed)
}
