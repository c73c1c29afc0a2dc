package payroll

import (
	"context"
	"time"
)

// PaymentSettingsRepository stores the versioned organisation rate.
type PaymentSettingsRepository interface {
	// GetCurrent returns the latest version created at or before asOf, or
	// nil when no version exists.
	GetCurrent(ctx context.Context, asOf time.Time) (*PaymentSettings, error)

	// Append stores a new version. Existing versions are never updated.
	Append(ctx context.Context, settings PaymentSettings) (PaymentSettings, error)

	ListHistory(ctx context.Context, limit int) ([]PaymentSettings, error)
}
