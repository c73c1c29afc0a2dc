package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/payroll"
	"github.com/knk-palvelut/workforce-backend-go/internal/pkg/database"
)

type paymentSettingsRepository struct {
	db *database.DB
}

// GetCurrent implements payroll.PaymentSettingsRepository.
func (r *paymentSettingsRepository) GetCurrent(ctx context.Context, asOf time.Time) (*payroll.PaymentSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, regular_rate, overtime_rate, created_by, created_at
		FROM payment_settings
		WHERE created_at <= $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var s payroll.PaymentSettings
	err := q.QueryRow(ctx, query, asOf).Scan(&s.ID, &s.RegularRate, &s.OvertimeRate, &s.CreatedBy, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get current payment settings: %w", err)
	}
	return &s, nil
}

// Append implements payroll.PaymentSettingsRepository.
func (r *paymentSettingsRepository) Append(ctx context.Context, s payroll.PaymentSettings) (payroll.PaymentSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payment_settings (regular_rate, overtime_rate, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	if err := q.QueryRow(ctx, query, s.RegularRate, s.OvertimeRate, s.CreatedBy).Scan(&s.ID, &s.CreatedAt); err != nil {
		return payroll.PaymentSettings{}, fmt.Errorf("failed to append payment settings: %w", err)
	}
	return s, nil
}

// ListHistory implements payroll.PaymentSettingsRepository.
func (r *paymentSettingsRepository) ListHistory(ctx context.Context, limit int) ([]payroll.PaymentSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, regular_rate, overtime_rate, created_by, created_at
		FROM payment_settings
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment settings history: %w", err)
	}
	defer rows.Close()

	var history []payroll.PaymentSettings
	for rows.Next() {
		var s payroll.PaymentSettings
		if err := rows.Scan(&s.ID, &s.RegularRate, &s.OvertimeRate, &s.CreatedBy, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment settings: %w", err)
		}
		history = append(history, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment settings: %w", err)
	}
	return history, nil
}

func NewPaymentSettingsRepository(db *database.DB) payroll.PaymentSettingsRepository {
	return &paymentSettingsRepository{db: db}
}
