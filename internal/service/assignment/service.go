package assignment

import (
	"context"
	"log/slog"
	"time"

	"github.com/knk-palvelut/workforce-backend-go/internal/domain/assignment"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/user"
	"github.com/knk-palvelut/workforce-backend-go/internal/pkg/database"
	payrollsvc "github.com/knk-palvelut/workforce-backend-go/internal/service/payroll"
)

type AssignmentServiceImpl struct {
	tx          database.Transactor
	assignments assignment.AssignmentRepository
	users       user.UserRepository
	calc        *payrollsvc.HoursCalculator
	now         func() time.Time
}

func NewAssignmentService(
	tx database.Transactor,
	assignments assignment.AssignmentRepository,
	users user.UserRepository,
	calc *payrollsvc.HoursCalculator,
) assignment.AssignmentService {
	return &AssignmentServiceImpl{
		tx:          tx,
		assignments: assignments,
		users:       users,
		calc:        calc,
		now:         time.Now,
	}
}

func callerWith(ctx context.Context, perm user.Permission) (user.Caller, error) {
	caller, err := user.CallerFromContext(ctx)
	if err != nil {
		return user.Caller{}, err
	}
	if !user.HasPermission(caller.Role, perm) {
		return user.Caller{}, user.ErrInsufficientPermissions
	}
	return caller, nil
}

// Create implements assignment.AssignmentService.
func (s *AssignmentServiceImpl) Create(ctx context.Context, req assignment.CreateAssignmentRequest) (assignment.AssignmentResponse, error) {
	caller, err := callerWith(ctx, user.PermissionAssignmentCreate)
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return assignment.AssignmentResponse{}, err
	}

	worker, err := s.users.GetWorker(ctx, req.EmployeeID)
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}
	if caller.Role == user.RoleSupervisor && (worker.SupervisorID == nil || *worker.SupervisorID != caller.UserID) {
		return assignment.AssignmentResponse{}, user.ErrNotOwnTeam
	}

	due, err := s.calc.ParseDate(req.DueDate)
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}

	createdBy := caller.UserID
	created, err := s.assignments.Create(ctx, assignment.Assignment{
		EmployeeID:     worker.ID,
		WorkplaceID:    req.WorkplaceID,
		Title:          req.Title,
		Description:    req.Description,
		Priority:       assignment.Priority(req.Priority),
		Status:         assignment.InitialStatus(due, s.calc.DayKey(s.now())),
		DueDate:        &due,
		EstimatedHours: req.EstimatedHours,
		Location:       req.Location,
		CreatedBy:      &createdBy,
	})
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}

	slog.Info("assignment created",
		"assignment_id", created.ID,
		"employee_id", created.EmployeeID,
		"status", created.Status,
		"created_by", createdBy,
	)

	return assignment.NewAssignmentResponse(created), nil
}

// ListMine implements assignment.AssignmentService.
func (s *AssignmentServiceImpl) ListMine(ctx context.Context) ([]assignment.AssignmentResponse, error) {
	caller, err := callerWith(ctx, user.PermissionAssignmentViewOwn)
	if err != nil {
		return nil, err
	}

	items, err := s.assignments.List(ctx, assignment.AssignmentFilter{EmployeeID: &caller.UserID})
	if err != nil {
		return nil, err
	}
	return assignment.NewAssignmentResponses(items), nil
}

// ListTeam implements assignment.AssignmentService. Admins get every
// assignment.
func (s *AssignmentServiceImpl) ListTeam(ctx context.Context) ([]assignment.AssignmentResponse, error) {
	caller, err := callerWith(ctx, user.PermissionTeamView)
	if err != nil {
		return nil, err
	}

	filter := assignment.AssignmentFilter{}
	if caller.Role == user.RoleSupervisor {
		filter.SupervisorID = &caller.UserID
	}

	items, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return assignment.NewAssignmentResponses(items), nil
}

// MarkComplete implements assignment.AssignmentService.
func (s *AssignmentServiceImpl) MarkComplete(ctx context.Context, id string) (assignment.AssignmentResponse, error) {
	caller, err := callerWith(ctx, user.PermissionAssignmentComplete)
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}

	var completed assignment.Assignment
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		a, err := s.assignments.GetByID(txCtx, id, true)
		if err != nil {
			return err
		}

		worker, err := s.users.GetWorker(txCtx, a.EmployeeID)
		if err != nil {
			return err
		}
		if worker.SupervisorID == nil || *worker.SupervisorID != caller.UserID {
			return user.ErrNotOwnTeam
		}

		if !assignment.CanTransition(a.Status, assignment.StatusCompleted) {
			return assignment.ErrInvalidStatusTransition
		}

		now := s.now().UTC().Truncate(time.Microsecond)
		a.Status = assignment.StatusCompleted
		a.CompletedAt = &now
		if err := s.assignments.UpdateProgress(txCtx, a); err != nil {
			return err
		}

		completed = a
		return nil
	})
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}

	slog.Info("assignment completed",
		"assignment_id", completed.ID,
		"employee_id", completed.EmployeeID,
		"supervisor_id", caller.UserID,
	)

	return assignment.NewAssignmentResponse(completed), nil
}
