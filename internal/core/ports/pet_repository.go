package ports

import (
	"context"

	"github.com/petvax/vaccination-system/internal/core/domain"
)

// ListPetsFilter carries query parameters for listing pets.
// OwnerID is enforced by the service layer for customer callers.
type ListPetsFilter struct {
	OwnerID string // empty = no filter (staff views); non-empty = scoped to owner
	Species string // optional
	Search  string // optional: partial match on name or microchip code
	Page    int    // 1-based
	Limit   int    // capped by the service
}

// PetRepository defines persistence operations for pets.
type PetRepository interface {
	Create(ctx context.Context, p *domain.Pet) (*domain.Pet, error)
	FindByID(ctx context.Context, id string) (*domain.Pet, error)
	FindByMicrochip(ctx context.Context, code string) (*domain.Pet, error)
	Update(ctx context.Context, p *domain.Pet) error
	Delete(ctx context.Context, id string) error
	// List returns a page of pets matching filter and the total count.
	List(ctx context.Context, filter ListPetsFilter) ([]*domain.Pet, int64, error)
}
