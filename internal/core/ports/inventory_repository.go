package ports

import (
	"context"

	"github.com/petvax/vaccination-system/internal/core/domain"
)

// VaccineRepository defines persistence for the vaccine catalogue.
type VaccineRepository interface {
	Create(ctx context.Context, v *domain.Vaccine) (*domain.Vaccine, error)
	FindByID(ctx context.Context, id string) (*domain.Vaccine, error)
	Update(ctx context.Context, v *domain.Vaccine) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Vaccine, error)
}

// BatchRepository defines persistence for vaccine batches.
type BatchRepository interface {
	Create(ctx context.Context, b *domain.VaccineBatch) (*domain.VaccineBatch, error)
	FindByID(ctx context.Context, id string) (*domain.VaccineBatch, error)
	// AdjustStock atomically applies delta to the batch stock. It returns
	// domain.ErrInsufficientStock when the result would be negative.
	AdjustStock(ctx context.Context, id string, delta int) (*domain.VaccineBatch, error)
	ListByVaccine(ctx context.Context, vaccineID string) ([]*domain.VaccineBatch, error)
}

// MovementRepository records the stock audit trail.
type MovementRepository interface {
	Insert(ctx context.Context, m *domain.StockMovement) error
	ListByBatch(ctx context.Context, batchID string) ([]*domain.StockMovement, error)
}
