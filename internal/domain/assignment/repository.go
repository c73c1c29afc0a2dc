package assignment

import (
	"context"
	"time"
)

type AssignmentFilter struct {
	EmployeeID       *string
	SupervisorID     *string
	DueFrom          *time.Time
	DueTo            *time.Time // exclusive
	ExcludeCompleted bool
	Status           *Status
	CompletedFrom    *time.Time
	Limit            int
}

type StatusCounts struct {
	EmployeeID   string
	EmployeeName string
	Assigned     int64
	Completed    int64
}

type AssignmentRepository interface {
	Create(ctx context.Context, a Assignment) (Assignment, error)

	// GetByID returns ErrAssignmentNotFound when missing. With forUpdate
	// the row is locked for the surrounding transaction.
	GetByID(ctx context.Context, id string, forUpdate bool) (Assignment, error)

	// UpdateProgress stores Status, StartTime, EndTime and CompletedAt.
	UpdateProgress(ctx context.Context, a Assignment) error

	// List orders by created_at, newest first.
	List(ctx context.Context, filter AssignmentFilter) ([]Assignment, error)

	CountCompleted(ctx context.Context, employeeID string) (int64, error)
	CountActive(ctx context.Context) (int64, error)

	// CountByEmployee returns assigned and completed counts for every
	// worker, optionally limited to one supervisor's team.
	CountByEmployee(ctx context.Context, supervisorID *string) ([]StatusCounts, error)
}
