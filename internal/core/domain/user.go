package domain

import "time"

// User models an authenticated actor: clinic admins, front-desk staff,
// veterinarians and pet-owning customers share one collection, separated
// by Role.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsVerified   bool      `json:"is_verified"`
	ClinicID     string    `json:"clinic_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
