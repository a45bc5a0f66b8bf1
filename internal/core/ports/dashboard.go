package ports

import "context"

// DashboardCounts summarises entity totals for the admin and staff views.
type DashboardCounts struct {
	Customers         int64 `json:"customers"`
	Vets              int64 `json:"vets"`
	Pets              int64 `json:"pets"`
	Vaccines          int64 `json:"vaccines"`
	AppointmentsToday int64 `json:"appointments_today"`
	AppointmentsOpen  int64 `json:"appointments_open"`
}

// CountsRepository aggregates collection totals.
type CountsRepository interface {
	Counts(ctx context.Context, today string) (*DashboardCounts, error)
}

// DashboardService produces role-scoped summaries.
type DashboardService interface {
	// Summary returns global counts for admin and staff; for vets it scopes
	// appointment counts to the caller; for customers to their own pets.
	Summary(ctx context.Context, actor Actor) (*DashboardCounts, error)
}
