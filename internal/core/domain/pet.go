package domain

import "time"

// Pet is a registered animal. MicrochipCode is unique across the system
// when present; pets without a chip are allowed.
type Pet struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Name          string    `json:"name"`
	Species       string    `json:"species"`
	Breed         string    `json:"breed,omitempty"`
	DateOfBirth   time.Time `json:"date_of_birth,omitempty"`
	WeightKg      float64   `json:"weight_kg,omitempty"`
	MicrochipCode string    `json:"microchip_code,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
