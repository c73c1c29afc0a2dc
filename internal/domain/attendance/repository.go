package attendance

import (
	"context"
	"time"
)

// ClockLogRepository defines data access methods for clock logs.
type ClockLogRepository interface {
	// Create inserts an open log. A second open log for the same employee
	// violates a unique index and returns ErrAlreadyClockedIn.
	Create(ctx context.Context, log ClockLog) (ClockLog, error)

	// GetOpen returns the employee's open log, or nil when none exists.
	// With forUpdate the row stays locked until the transaction ends.
	GetOpen(ctx context.Context, employeeID string, forUpdate bool) (*ClockLog, error)

	// Close stores ClockOut and the hour snapshot of an open log.
	Close(ctx context.Context, log ClockLog) (ClockLog, error)

	// ListOverlapping returns closed logs intersecting [from, to). No
	// employee IDs means every employee.
	ListOverlapping(ctx context.Context, from, to time.Time, employeeIDs ...string) ([]ClockLog, error)

	// ListByEmployee returns the newest logs first, with assignment fields joined.
	ListByEmployee(ctx context.Context, employeeID string, limit int) ([]ClockLog, error)

	// ListRecent returns the newest clock-ins across all employees.
	ListRecent(ctx context.Context, limit int) ([]ClockLog, error)

	// ListOpenStartedBefore returns open logs with clock_in before cutoff.
	// No employee IDs means every employee.
	ListOpenStartedBefore(ctx context.Context, cutoff time.Time, employeeIDs ...string) ([]ClockLog, error)
}
