package assignment

import "context"

type AssignmentService interface {
	// Create assigns work to a cleaner. Supervisors may only assign to
	// their own team.
	Create(ctx context.Context, req CreateAssignmentRequest) (AssignmentResponse, error)

	ListMine(ctx context.Context) ([]AssignmentResponse, error)
	ListTeam(ctx context.Context) ([]AssignmentResponse, error)

	// MarkComplete moves an assignment of the supervisor's team to COMPLETED.
	MarkComplete(ctx context.Context, id string) (AssignmentResponse, error)
}
