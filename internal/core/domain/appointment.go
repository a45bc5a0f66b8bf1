package domain

import "time"

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentBooked    AppointmentStatus = "booked"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCheckedIn AppointmentStatus = "checked_in"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// validAppointmentTransitions defines the allowed state machine transitions.
// Checked-in appointments can no longer be cancelled, only completed.
var validAppointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentBooked:    {AppointmentConfirmed, AppointmentCancelled},
	AppointmentConfirmed: {AppointmentCheckedIn, AppointmentCancelled},
	AppointmentCheckedIn: {AppointmentCompleted},
}

// CanTransitionTo reports whether moving from s to next is valid.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range validAppointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment is a vaccination visit booked into a vet's slot on a given
// date. A vet holds at most one appointment per (date, slot).
type Appointment struct {
	ID             string            `json:"id"`
	PetID          string            `json:"pet_id"`
	OwnerID        string            `json:"owner_id"`
	VetID          string            `json:"vet_id"`
	VaccineID      string            `json:"vaccine_id,omitempty"`
	Date           string            `json:"date"` // "2006-01-02"
	Slot           Slot              `json:"slot"`
	Status         AppointmentStatus `json:"status"`
	Notes          string            `json:"notes,omitempty"`
	IdempotencyKey string            `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// StatusHistoryEntry records a single appointment status transition.
type StatusHistoryEntry struct {
	Status    AppointmentStatus `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	ActorID   string            `json:"actor_id,omitempty"`
	Notes     string            `json:"notes,omitempty"`
}
