package attendance

import (
	"context"
)

// AttendanceService covers the caller's own shifts.
type AttendanceService interface {
	// ClockIn opens a shift for the caller.
	ClockIn(ctx context.Context, req ClockInRequest) (ClockLogResponse, error)

	// ClockOut closes the caller's open shift. It returns nil, nil when no
	// shift is open.
	ClockOut(ctx context.Context, req ClockOutRequest) (*ClockLogResponse, error)

	// GetHistory lists the caller's shifts with hours classified per day.
	GetHistory(ctx context.Context, filter HistoryFilter) ([]HistoryEntryResponse, error)

	// GetSummary returns day-bucketed hour totals for the caller's dashboard.
	GetSummary(ctx context.Context) (SummaryResponse, error)
}
