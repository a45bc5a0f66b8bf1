package ports

import (
	"context"

	"github.com/petvax/vaccination-system/internal/core/domain"
)

// CreateVaccineInput carries the data for a new catalogue entry.
type CreateVaccineInput struct {
	Name          string
	Disease       string
	Manufacturer  string
	DosesRequired int
	Price         float64
}

// CreateBatchInput carries the data for registering a new batch.
// InitialStock is recorded as the batch's first receipt movement.
type CreateBatchInput struct {
	VaccineID    string
	BatchNumber  string
	ExpiresAt    string // "2006-01-02"
	InitialStock int
}

// MovementInput carries a stock receipt or export request.
type MovementInput struct {
	BatchID  string
	Quantity int
	Notes    string
}

// InventoryService manages the vaccine catalogue and batch stock.
type InventoryService interface {
	CreateVaccine(ctx context.Context, in CreateVaccineInput) (*domain.Vaccine, error)
	ListVaccines(ctx context.Context) ([]*domain.Vaccine, error)
	DeleteVaccine(ctx context.Context, id string) error

	CreateBatch(ctx context.Context, actor Actor, in CreateBatchInput) (*domain.VaccineBatch, error)
	ListBatches(ctx context.Context, vaccineID string) ([]*domain.VaccineBatch, error)
	// Receive adds stock to a batch; Export removes it. Both append an audit
	// movement and fail without side effects on validation errors.
	Receive(ctx context.Context, actor Actor, in MovementInput) (*domain.VaccineBatch, error)
	Export(ctx context.Context, actor Actor, in MovementInput) (*domain.VaccineBatch, error)
	Movements(ctx context.Context, batchID string) ([]*domain.StockMovement, error)
}
