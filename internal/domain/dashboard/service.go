package dashboard

import (
	"context"
)

// DashboardService defines the interface for the admin dashboard
type DashboardService interface {
	// GetAdminStats prices the current week's hours for every worker at their own rates
	GetAdminStats(ctx context.Context) (AdminStatsResponse, error)

	// GetAdminDashboard combines the weekly stats with recent activity and open assignments
	GetAdminDashboard(ctx context.Context) (AdminDashboardResponse, error)
}
