package user

import (
	"context"
)

type WorkerFilter struct {
	SupervisorID *string
	ActiveOnly   bool
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)

	// GetWorker returns ErrWorkerNotFound unless id belongs to an employee.
	GetWorker(ctx context.Context, id string) (User, error)

	// LockWorker takes a row lock on the worker for the rest of the
	// transaction carried in ctx. Concurrent clock operations for the same
	// worker serialize here.
	LockWorker(ctx context.Context, id string) (User, error)

	ListWorkers(ctx context.Context, filter WorkerFilter) ([]User, error)
	CountWorkers(ctx context.Context, filter WorkerFilter) (int64, error)
}
