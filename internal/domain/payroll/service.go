package payroll

import (
	"context"

	"github.com/knk-palvelut/workforce-backend-go/internal/domain/user"
)

type PayrollService interface {
	// GetEffectiveRates resolves rates for a worker, or the organisation
	// rates when workerID is nil.
	GetEffectiveRates(ctx context.Context, workerID *string) (RatesResponse, error)
	GetWorkerDetail(ctx context.Context, workerID string) (WorkerDetailResponse, error)
	CalculateSalary(ctx context.Context, req SalaryRequest) (SalaryResponse, error)
	ListSalaryWorkers(ctx context.Context) ([]user.WorkerResponse, error)

	// Payment settings
	GetPaymentSettings(ctx context.Context) (PaymentSettingsResponse, error)
	UpdatePaymentSettings(ctx context.Context, req UpdatePaymentSettingsRequest) (PaymentSettingsResponse, error)
	ListPaymentSettingsHistory(ctx context.Context) ([]PaymentSettingsResponse, error)
}
