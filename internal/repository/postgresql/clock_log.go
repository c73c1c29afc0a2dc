package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/attendance"
	"github.com/knk-palvelut/workforce-backend-go/internal/pkg/database"
)

const openClockLogIndex = "uq_clock_logs_open_per_employee"

type clockLogRepository struct {
	db *database.DB
}

const clockLogColumns = `
	c.id, c.employee_id, c.assignment_id, c.clock_in, c.clock_out,
	c.regular_hours, c.overtime_hours, c.location, c.created_at, c.updated_at`

func scanClockLog(row pgx.Row, extra ...interface{}) (attendance.ClockLog, error) {
	var l attendance.ClockLog
	dest := []interface{}{
		&l.ID, &l.EmployeeID, &l.AssignmentID, &l.ClockIn, &l.ClockOut,
		&l.RegularHours, &l.OvertimeHours, &l.Location, &l.CreatedAt, &l.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return l, err
}

func collectClockLogs(rows pgx.Rows, scan func(pgx.Rows) (attendance.ClockLog, error)) ([]attendance.ClockLog, error) {
	defer rows.Close()

	var logs []attendance.ClockLog
	for rows.Next() {
		l, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clock log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clock logs: %w", err)
	}
	return logs, nil
}

// Create implements attendance.ClockLogRepository.
func (r *clockLogRepository) Create(ctx context.Context, log attendance.ClockLog) (attendance.ClockLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO clock_logs (employee_id, assignment_id, clock_in, location)
		VALUES ($1, $2, $3, $4)
		RETURNING id, regular_hours, overtime_hours, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, log.EmployeeID, log.AssignmentID, log.ClockIn, log.Location).
		Scan(&log.ID, &log.RegularHours, &log.OvertimeHours, &log.CreatedAt, &log.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, openClockLogIndex) {
			return attendance.ClockLog{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.ClockLog{}, fmt.Errorf("failed to create clock log: %w", err)
	}

	return log, nil
}

// GetOpen implements attendance.ClockLogRepository.
func (r *clockLogRepository) GetOpen(ctx context.Context, employeeID string, forUpdate bool) (*attendance.ClockLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + clockLogColumns + `
		FROM clock_logs c
		WHERE c.employee_id = $1
		  AND c.clock_out IS NULL
		ORDER BY c.clock_in DESC
		LIMIT 1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	l, err := scanClockLog(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open clock log: %w", err)
	}
	return &l, nil
}

// Close implements attendance.ClockLogRepository.
func (r *clockLogRepository) Close(ctx context.Context, log attendance.ClockLog) (attendance.ClockLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE clock_logs
		SET clock_out = $1, regular_hours = $2, overtime_hours = $3, updated_at = NOW()
		WHERE id = $4 AND clock_out IS NULL
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query, log.ClockOut, log.RegularHours, log.OvertimeHours, log.ID).Scan(&log.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ClockLog{}, attendance.ErrClockLogNotFound
		}
		return attendance.ClockLog{}, fmt.Errorf("failed to close clock log: %w", err)
	}
	return log, nil
}

// ListOverlapping implements attendance.ClockLogRepository.
func (r *clockLogRepository) ListOverlapping(ctx context.Context, from, to time.Time, employeeIDs ...string) ([]attendance.ClockLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + clockLogColumns + `
		FROM clock_logs c
		WHERE c.clock_out IS NOT NULL
		  AND c.clock_out > $1
		  AND c.clock_in < $2
	`
	args := []interface{}{from, to}
	if len(employeeIDs) > 0 {
		query += ` AND c.employee_id = ANY($3::uuid[])`
		args = append(args, employeeIDs)
	}
	query += ` ORDER BY c.clock_in ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list overlapping clock logs: %w", err)
	}
	return collectClockLogs(rows, func(rows pgx.Rows) (attendance.ClockLog, error) {
		return scanClockLog(rows)
	})
}

// ListByEmployee implements attendance.ClockLogRepository.
func (r *clockLogRepository) ListByEmployee(ctx context.Context, employeeID string, limit int) ([]attendance.ClockLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + clockLogColumns + `,
			a.title, a.start_time, a.end_time, a.location, w.name
		FROM clock_logs c
		LEFT JOIN assignments a ON a.id = c.assignment_id
		LEFT JOIN workplaces w ON w.id = a.workplace_id
		WHERE c.employee_id = $1
		ORDER BY c.clock_in DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, employeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list clock logs by employee: %w", err)
	}
	return collectClockLogs(rows, func(rows pgx.Rows) (attendance.ClockLog, error) {
		var (
			title, place, workplace *string
			start, end              *time.Time
		)
		l, err := scanClockLog(rows, &title, &start, &end, &place, &workplace)
		if err != nil {
			return l, err
		}
		l.AssignmentTitle = title
		l.AssignmentStart = start
		l.AssignmentEnd = end
		l.AssignmentPlace = place
		l.WorkplaceName = workplace
		return l, nil
	})
}

// ListRecent implements attendance.ClockLogRepository.
func (r *clockLogRepository) ListRecent(ctx context.Context, limit int) ([]attendance.ClockLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + clockLogColumns + `, u.name
		FROM clock_logs c
		JOIN users u ON u.id = c.employee_id
		ORDER BY c.clock_in DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent clock logs: %w", err)
	}
	return collectClockLogs(rows, func(rows pgx.Rows) (attendance.ClockLog, error) {
		var name *string
		l, err := scanClockLog(rows, &name)
		l.EmployeeName = name
		return l, err
	})
}

// ListOpenStartedBefore implements attendance.ClockLogRepository.
func (r *clockLogRepository) ListOpenStartedBefore(ctx context.Context, cutoff time.Time, employeeIDs ...string) ([]attendance.ClockLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + clockLogColumns + `, u.name
		FROM clock_logs c
		JOIN users u ON u.id = c.employee_id
		WHERE c.clock_out IS NULL
		  AND c.clock_in < $1
	`
	args := []interface{}{cutoff}
	if len(employeeIDs) > 0 {
		query += ` AND c.employee_id = ANY($2::uuid[])`
		args = append(args, employeeIDs)
	}
	query += ` ORDER BY c.clock_in ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale clock logs: %w", err)
	}
	return collectClockLogs(rows, func(rows pgx.Rows) (attendance.ClockLog, error) {
		var name *string
		l, err := scanClockLog(rows, &name)
		l.EmployeeName = name
		return l, err
	})
}

func NewClockLogRepository(db *database.DB) attendance.ClockLogRepository {
	return &clockLogRepository{db: db}
}
