package ports

import (
	"context"
	"time"

	"github.com/petvax/vaccination-system/internal/core/domain"
)

// ListAppointmentsFilter carries query parameters for listing appointments.
type ListAppointmentsFilter struct {
	OwnerID string // non-empty = scoped to owner (customer view)
	VetID   string // non-empty = scoped to vet
	Date    string // optional "2006-01-02"
	Status  string // optional
	Page    int
	Limit   int
}

// AppointmentRepository defines persistence operations for appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	FindByID(ctx context.Context, id string) (*domain.Appointment, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Appointment, error)
	// SlotTaken reports whether the vet already holds a non-cancelled
	// appointment at (date, slot).
	SlotTaken(ctx context.Context, vetID, date string, slot domain.Slot) (bool, error)
	// UpdateStatus atomically sets the new status and appends a history entry.
	UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus, ts time.Time, actorID, notes string) error
	List(ctx context.Context, filter ListAppointmentsFilter) ([]*domain.Appointment, int64, error)
}
