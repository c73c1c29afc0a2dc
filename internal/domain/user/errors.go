package user

import "errors"

var (
	ErrUserNotFound             = errors.New("user not found")
	ErrWorkerNotFound           = errors.New("worker not found")
	ErrUnauthenticated          = errors.New("missing or invalid caller identity")
	ErrAdminAccessRequired      = errors.New("admin access required")
	ErrSupervisorAccessRequired = errors.New("supervisor access required")
	ErrInsufficientPermissions  = errors.New("insufficient permissions")
	ErrNotOwnTeam               = errors.New("worker is not in your team")
)
