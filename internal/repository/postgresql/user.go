package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/user"
	"github.com/knk-palvelut/workforce-backend-go/internal/pkg/database"
)

type userRepositoryImpl struct {
	db *database.DB
}

const userColumns = `id, name, email, role, supervisor_id, hourly_rate, status, join_date, created_at, updated_at`

func scanUser(row pgx.Row) (user.User, error) {
	var (
		u    user.User
		role string
	)
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&role,
		&u.SupervisorID,
		&u.HourlyRate,
		&u.Status,
		&u.JoinDate,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return user.User{}, err
	}
	parsed, ok := user.ParseRole(role)
	if !ok {
		return user.User{}, fmt.Errorf("unknown role %q for user %s", role, u.ID)
	}
	u.Role = parsed
	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return u, nil
}

// GetWorker implements user.UserRepository.
func (r *userRepositoryImpl) GetWorker(ctx context.Context, id string) (user.User, error) {
	return r.getWorker(ctx, id, false)
}

// LockWorker implements user.UserRepository.
func (r *userRepositoryImpl) LockWorker(ctx context.Context, id string) (user.User, error) {
	return r.getWorker(ctx, id, true)
}

func (r *userRepositoryImpl) getWorker(ctx context.Context, id string, forUpdate bool) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND role = 'EMPLOYEE'`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	u, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrWorkerNotFound
		}
		return user.User{}, fmt.Errorf("failed to get worker: %w", err)
	}
	return u, nil
}

func workerWhere(filter user.WorkerFilter) (string, []interface{}) {
	conditions := []string{"role = 'EMPLOYEE'"}
	args := []interface{}{}

	if filter.SupervisorID != nil {
		args = append(args, *filter.SupervisorID)
		conditions = append(conditions, fmt.Sprintf("supervisor_id = $%d", len(args)))
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "status = 'ACTIVE'")
	}

	return strings.Join(conditions, " AND "), args
}

// ListWorkers implements user.UserRepository.
func (r *userRepositoryImpl) ListWorkers(ctx context.Context, filter user.WorkerFilter) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	where, args := workerWhere(filter)
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` ORDER BY name ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	defer rows.Close()

	var workers []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan worker: %w", err)
		}
		workers = append(workers, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workers: %w", err)
	}

	return workers, nil
}

// CountWorkers implements user.UserRepository.
func (r *userRepositoryImpl) CountWorkers(ctx context.Context, filter user.WorkerFilter) (int64, error) {
	q := GetQuerier(ctx, r.db)

	where, args := workerWhere(filter)
	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE `+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count workers: %w", err)
	}
	return count, nil
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}
