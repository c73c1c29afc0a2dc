package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/knk-palvelut/workforce-backend-go/internal/domain/attendance"
)

// StaleShiftJobs reports shifts that were never clocked out. It only logs;
// closing a shift is left to the worker or a supervisor.
type StaleShiftJobs struct {
	clockLogs attendance.ClockLogRepository
	maxOpen   time.Duration
	now       func() time.Time
}

func NewStaleShiftJobs(clockLogs attendance.ClockLogRepository, maxOpen time.Duration) *StaleShiftJobs {
	return &StaleShiftJobs{
		clockLogs: clockLogs,
		maxOpen:   maxOpen,
		now:       time.Now,
	}
}

func (j *StaleShiftJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:     "report_stale_shifts",
		Interval: 30 * time.Minute,
		Timeout:  time.Minute,
		Fn: func(ctx context.Context) error {
			_, err := j.ReportStaleShifts(ctx)
			return err
		},
	})
}

// ReportStaleShifts logs every open shift older than maxOpen and returns them.
func (j *StaleShiftJobs) ReportStaleShifts(ctx context.Context) ([]attendance.ClockLog, error) {
	now := j.now()
	cutoff := now.Add(-j.maxOpen)

	stale, err := j.clockLogs.ListOpenStartedBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale shifts: %w", err)
	}

	for _, l := range stale {
		name := ""
		if l.EmployeeName != nil {
			name = *l.EmployeeName
		}
		slog.Warn("shift still open",
			"clock_log_id", l.ID,
			"employee_id", l.EmployeeID,
			"employee_name", name,
			"clock_in", l.ClockIn,
			"open_hours", now.Sub(l.ClockIn).Hours(),
		)
	}
	if len(stale) > 0 {
		slog.Info("stale shift scan finished", "count", len(stale), "cutoff", cutoff)
	}
	return stale, nil
}
