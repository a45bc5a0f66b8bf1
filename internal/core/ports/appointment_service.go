package ports

import (
	"context"

	"github.com/petvax/vaccination-system/internal/core/domain"
)

// BookAppointmentInput carries the data for booking a vaccination visit.
// Time is the requested wall-clock time ("HH:MM"); the service maps it to
// its slot. If an idempotency key is supplied and already seen, the
// previously booked appointment is returned without side effects.
type BookAppointmentInput struct {
	PetID          string
	VetID          string
	VaccineID      string
	Date           string // "2006-01-02"
	Time           string // "HH:MM"
	Notes          string
	IdempotencyKey string
}

// BookResult is returned by Book.
type BookResult struct {
	Appointment *domain.Appointment
	// AlreadyExisted is true when the idempotency key matched a prior booking.
	AlreadyExisted bool
}

// AppointmentPage is a single page of appointments with totals.
type AppointmentPage struct {
	Items      []*domain.Appointment
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ListAppointmentsInput carries parameters for the list endpoint.
type ListAppointmentsInput struct {
	Actor  Actor
	VetID  string
	Date   string
	Status string
	Page   int
	Limit  int
}

// AppointmentService defines use-case operations for appointments.
type AppointmentService interface {
	Book(ctx context.Context, actor Actor, in BookAppointmentInput) (*BookResult, error)
	Get(ctx context.Context, actor Actor, id string) (*domain.Appointment, error)
	// Transition moves an appointment through its lifecycle, enforcing the
	// state machine and per-role permissions (cancel: owner or staff;
	// confirm/check-in/complete: staff or vet).
	Transition(ctx context.Context, actor Actor, id string, next domain.AppointmentStatus, notes string) error
	List(ctx context.Context, in ListAppointmentsInput) (*AppointmentPage, error)
}

// BookingDeduper caches idempotency keys so replays are answered without
// touching the datastore uniqueness path.
type BookingDeduper interface {
	// SeenKey returns the appointment id previously booked under key.
	SeenKey(ctx context.Context, key string) (appointmentID string, ok bool, err error)
	MarkKey(ctx context.Context, key, appointmentID string) error
}

// ReminderJob is a unit of work for the reminder dispatcher.
type ReminderJob struct {
	AppointmentID string
	PetID         string
	OwnerEmail    string
	Date          string
	Slot          domain.Slot
}

// ReminderService delivers appointment reminders.
type ReminderService interface {
	Send(ctx context.Context, job ReminderJob) error
}
