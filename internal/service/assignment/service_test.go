package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/knk-palvelut/workforce-backend-go/internal/domain/assignment"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/user"
	"github.com/knk-palvelut/workforce-backend-go/internal/fixtures"
	payrollsvc "github.com/knk-palvelut/workforce-backend-go/internal/service/payroll"
	"github.com/knk-palvelut/workforce-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*fixtures.Store, *AssignmentServiceImpl) {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Helsinki")
	require.NoError(t, err)

	store := fixtures.NewStore()
	return store, &AssignmentServiceImpl{
		tx:          store,
		assignments: store.AssignmentRepository(),
		users:       store.UserRepository(),
		calc:        payrollsvc.NewHoursCalculator(loc),
		// 23:30 UTC is already the 13th in Helsinki.
		now: func() time.Time { return time.Date(2025, 3, 12, 23, 30, 0, 0, time.UTC) },
	}
}

func ctxFor(u user.User) context.Context {
	return user.NewCallerContext(context.Background(), user.Caller{UserID: u.ID, Role: u.Role})
}

func TestCreate_InitialStatusFromLocalToday(t *testing.T) {
	store, svc := newService(t)
	supervisor := store.AddUser(user.User{Name: "Sami", Role: user.RoleSupervisor})
	worker := store.AddUser(user.User{Name: "Aino", SupervisorID: &supervisor.ID})

	today, err := svc.Create(ctxFor(supervisor), assignment.CreateAssignmentRequest{
		EmployeeID: worker.ID,
		Title:      "Stairwell",
		DueDate:    "2025-03-13",
	})
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusPending, today.Status)
	assert.Equal(t, assignment.PriorityMedium, today.Priority)

	later, err := svc.Create(ctxFor(supervisor), assignment.CreateAssignmentRequest{
		EmployeeID: worker.ID,
		Title:      "Windows",
		Priority:   "HIGH",
		DueDate:    "2025-03-14",
	})
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusUpcoming, later.Status)
	require.NotNil(t, later.DueDate)
	assert.Equal(t, "2025-03-14", *later.DueDate)
}

func TestCreate_Authorization(t *testing.T) {
	store, svc := newService(t)
	supervisor := store.AddUser(user.User{Name: "Sami", Role: user.RoleSupervisor})
	admin := store.AddUser(user.User{Name: "Office", Role: user.RoleAdmin})
	worker := store.AddUser(user.User{Name: "Aino"})

	req := assignment.CreateAssignmentRequest{EmployeeID: worker.ID, Title: "Lobby", DueDate: "2025-03-20"}

	_, err := svc.Create(ctxFor(supervisor), req)
	assert.ErrorIs(t, err, user.ErrNotOwnTeam)

	_, err = svc.Create(ctxFor(worker), req)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = svc.Create(ctxFor(admin), req)
	assert.NoError(t, err)

	_, err = svc.Create(ctxFor(admin), assignment.CreateAssignmentRequest{EmployeeID: worker.ID, DueDate: "20.03.2025"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestListMineAndTeam(t *testing.T) {
	store, svc := newService(t)
	supervisor := store.AddUser(user.User{Name: "Sami", Role: user.RoleSupervisor})
	aino := store.AddUser(user.User{Name: "Aino", SupervisorID: &supervisor.ID})
	bertta := store.AddUser(user.User{Name: "Bertta"})

	store.AddAssignment(assignment.Assignment{EmployeeID: aino.ID, Title: "A", Status: assignment.StatusPending})
	store.AddAssignment(assignment.Assignment{EmployeeID: bertta.ID, Title: "B", Status: assignment.StatusPending})

	mine, err := svc.ListMine(ctxFor(aino))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "A", mine[0].Title)

	team, err := svc.ListTeam(ctxFor(supervisor))
	require.NoError(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, "Aino", *team[0].EmployeeName)

	_, err = svc.ListTeam(ctxFor(aino))
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestMarkComplete(t *testing.T) {
	store, svc := newService(t)
	supervisor := store.AddUser(user.User{Name: "Sami", Role: user.RoleSupervisor})
	other := store.AddUser(user.User{Name: "Laura", Role: user.RoleSupervisor})
	worker := store.AddUser(user.User{Name: "Aino", SupervisorID: &supervisor.ID})

	review := store.AddAssignment(assignment.Assignment{EmployeeID: worker.ID, Title: "A", Status: assignment.StatusReview})
	pending := store.AddAssignment(assignment.Assignment{EmployeeID: worker.ID, Title: "B", Status: assignment.StatusPending})

	_, err := svc.MarkComplete(ctxFor(other), review.ID)
	assert.ErrorIs(t, err, user.ErrNotOwnTeam)

	_, err = svc.MarkComplete(ctxFor(supervisor), pending.ID)
	assert.ErrorIs(t, err, assignment.ErrInvalidStatusTransition)

	_, err = svc.MarkComplete(ctxFor(supervisor), "6b1f8f3e-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, assignment.ErrAssignmentNotFound)

	resp, err := svc.MarkComplete(ctxFor(supervisor), review.ID)
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusCompleted, resp.Status)
	assert.NotNil(t, resp.CompletedAt)

	stored, _ := store.Assignment(review.ID)
	assert.Equal(t, assignment.StatusCompleted, stored.Status)

	_, err = svc.MarkComplete(ctxFor(supervisor), review.ID)
	assert.ErrorIs(t, err, assignment.ErrInvalidStatusTransition)
}
