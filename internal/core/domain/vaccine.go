package domain

import "time"

// Vaccine is a catalogue entry. Disease names the condition the vaccine
// targets; it is a plain attribute rather than its own collection.
type Vaccine struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Disease       string    `json:"disease"`
	Manufacturer  string    `json:"manufacturer,omitempty"`
	DosesRequired int       `json:"doses_required"`
	Price         float64   `json:"price"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// VaccineBatch is a physical lot of a vaccine held in inventory.
// Stock never goes negative; every change is recorded as a StockMovement.
type VaccineBatch struct {
	ID          string    `json:"id"`
	VaccineID   string    `json:"vaccine_id"`
	BatchNumber string    `json:"batch_number"`
	ExpiresAt   time.Time `json:"expires_at"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Expired reports whether the batch has passed its expiry date.
func (b VaccineBatch) Expired(now time.Time) bool {
	return !b.ExpiresAt.IsZero() && !now.Before(b.ExpiresAt)
}

// MovementKind distinguishes stock entering or leaving a batch.
type MovementKind string

const (
	MovementReceipt MovementKind = "receipt"
	MovementExport  MovementKind = "export"
)

// StockMovement is the audit record of a single receipt or export.
type StockMovement struct {
	ID        string       `json:"id"`
	BatchID   string       `json:"batch_id"`
	Kind      MovementKind `json:"kind"`
	Quantity  int          `json:"quantity"`
	ActorID   string       `json:"actor_id"`
	Notes     string       `json:"notes,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
