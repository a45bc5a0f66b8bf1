package ports

import (
	"context"

	"github.com/petvax/vaccination-system/internal/core/domain"
)

// Actor identifies the caller for RBAC scoping inside services.
type Actor struct {
	UserID string
	Role   domain.Role
}

// CreatePetInput carries all data needed to register a pet.
type CreatePetInput struct {
	OwnerID       string
	Name          string
	Species       string
	Breed         string
	DateOfBirth   string // "2006-01-02", optional
	WeightKg      float64
	MicrochipCode string
}

// UpdatePetInput carries mutable pet fields. Empty strings leave the field
// unchanged; microchip codes can be assigned but never reassigned.
type UpdatePetInput struct {
	Name          string
	Breed         string
	WeightKg      float64
	MicrochipCode string
}

// ListPetsInput carries parameters for the list endpoint.
type ListPetsInput struct {
	Actor   Actor
	OwnerID string
	Species string
	Search  string
	Page    int
	Limit   int
}

// PetPage is a single page of pets with pagination totals.
type PetPage struct {
	Items      []*domain.Pet
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// PetService defines use-case operations for pets.
type PetService interface {
	Create(ctx context.Context, actor Actor, in CreatePetInput) (*domain.Pet, error)
	Get(ctx context.Context, actor Actor, id string) (*domain.Pet, error)
	Update(ctx context.Context, actor Actor, id string, in UpdatePetInput) (*domain.Pet, error)
	Delete(ctx context.Context, actor Actor, id string) error
	List(ctx context.Context, in ListPetsInput) (*PetPage, error)
}
