package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/assignment"
	"github.com/knk-palvelut/workforce-backend-go/internal/pkg/database"
)

type assignmentRepository struct {
	db *database.DB
}

const assignmentSelect = `
	SELECT a.id, a.employee_id, a.workplace_id, a.title, a.description, a.priority, a.status,
		   a.due_date, a.start_time, a.end_time, a.completed_at, a.estimated_hours, a.location,
		   a.created_by, a.created_at, a.updated_at,
		   u.name, w.name
	FROM assignments a
	LEFT JOIN users u ON u.id = a.employee_id
	LEFT JOIN workplaces w ON w.id = a.workplace_id`

func scanAssignment(row pgx.Row) (assignment.Assignment, error) {
	var a assignment.Assignment
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.WorkplaceID, &a.Title, &a.Description, &a.Priority, &a.Status,
		&a.DueDate, &a.StartTime, &a.EndTime, &a.CompletedAt, &a.EstimatedHours, &a.Location,
		&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
		&a.EmployeeName, &a.WorkplaceName,
	)
	return a, err
}

// Create implements assignment.AssignmentRepository.
func (r *assignmentRepository) Create(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO assignments (
			employee_id, workplace_id, title, description, priority, status,
			due_date, estimated_hours, location, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.EmployeeID,
		a.WorkplaceID,
		a.Title,
		a.Description,
		a.Priority,
		a.Status,
		a.DueDate,
		a.EstimatedHours,
		a.Location,
		a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return assignment.Assignment{}, fmt.Errorf("failed to create assignment: %w", err)
	}

	return a, nil
}

// GetByID implements assignment.AssignmentRepository.
func (r *assignmentRepository) GetByID(ctx context.Context, id string, forUpdate bool) (assignment.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := assignmentSelect + ` WHERE a.id = $1`
	if forUpdate {
		query += ` FOR UPDATE OF a`
	}

	a, err := scanAssignment(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return assignment.Assignment{}, assignment.ErrAssignmentNotFound
		}
		return assignment.Assignment{}, fmt.Errorf("failed to get assignment by ID: %w", err)
	}
	return a, nil
}

// UpdateProgress implements assignment.AssignmentRepository.
func (r *assignmentRepository) UpdateProgress(ctx context.Context, a assignment.Assignment) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE assignments
		SET status = $1, start_time = $2, end_time = $3, completed_at = $4, updated_at = NOW()
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query, a.Status, a.StartTime, a.EndTime, a.CompletedAt, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update assignment progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return assignment.ErrAssignmentNotFound
	}
	return nil
}

// List implements assignment.AssignmentRepository.
func (r *assignmentRepository) List(ctx context.Context, filter assignment.AssignmentFilter) ([]assignment.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", len(args)))
	}
	if filter.SupervisorID != nil {
		args = append(args, *filter.SupervisorID)
		conditions = append(conditions, fmt.Sprintf("u.supervisor_id = $%d", len(args)))
	}
	if filter.DueFrom != nil {
		args = append(args, *filter.DueFrom)
		conditions = append(conditions, fmt.Sprintf("a.due_date >= $%d::date", len(args)))
	}
	if filter.DueTo != nil {
		args = append(args, *filter.DueTo)
		conditions = append(conditions, fmt.Sprintf("a.due_date < $%d::date", len(args)))
	}
	if filter.ExcludeCompleted {
		conditions = append(conditions, "a.status <> 'COMPLETED'")
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", len(args)))
	}
	if filter.CompletedFrom != nil {
		args = append(args, *filter.CompletedFrom)
		conditions = append(conditions, fmt.Sprintf("a.completed_at >= $%d", len(args)))
	}

	query := assignmentSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var items []assignment.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}
	return items, nil
}

// CountCompleted implements assignment.AssignmentRepository.
func (r *assignmentRepository) CountCompleted(ctx context.Context, employeeID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM assignments WHERE employee_id = $1 AND status = 'COMPLETED'`,
		employeeID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed assignments: %w", err)
	}
	return count, nil
}

// CountActive implements assignment.AssignmentRepository.
func (r *assignmentRepository) CountActive(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM assignments WHERE status IN ('UPCOMING', 'PENDING', 'IN_PROGRESS')`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active assignments: %w", err)
	}
	return count, nil
}

// CountByEmployee implements assignment.AssignmentRepository.
func (r *assignmentRepository) CountByEmployee(ctx context.Context, supervisorID *string) ([]assignment.StatusCounts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT u.id, u.name,
			   COUNT(a.id) AS assigned,
			   COUNT(a.id) FILTER (WHERE a.status = 'COMPLETED') AS completed
		FROM users u
		LEFT JOIN assignments a ON a.employee_id = u.id
		WHERE u.role = 'EMPLOYEE'
		  AND ($1::uuid IS NULL OR u.supervisor_id = $1::uuid)
		GROUP BY u.id, u.name
		ORDER BY u.name ASC
	`

	rows, err := q.Query(ctx, query, supervisorID)
	if err != nil {
		return nil, fmt.Errorf("failed to count assignments by employee: %w", err)
	}
	defer rows.Close()

	var result []assignment.StatusCounts
	for rows.Next() {
		var c assignment.StatusCounts
		if err := rows.Scan(&c.EmployeeID, &c.EmployeeName, &c.Assigned, &c.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan assignment counts: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignment counts: %w", err)
	}
	return result, nil
}

func NewAssignmentRepository(db *database.DB) assignment.AssignmentRepository {
	return &assignmentRepository{db: db}
}
