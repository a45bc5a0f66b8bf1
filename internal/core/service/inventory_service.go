package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/petvax/vaccination-system/internal/core/domain"
	"github.com/petvax/vaccination-system/internal/core/ports"
)

// InventoryService manages the vaccine catalogue and batch stock. Every
// stock change flows through Receive or Export and leaves an audit movement.
type InventoryService struct {
	vaccines  ports.VaccineRepository
	batches   ports.BatchRepository
	movements ports.MovementRepository
	log       zerolog.Logger
}

func NewInventoryService(
	vaccines ports.VaccineRepository,
	batches ports.BatchRepository,
	movements ports.MovementRepository,
	log zerolog.Logger,
) *InventoryService {
	return &InventoryService{vaccines: vaccines, batches: batches, movements: movements, log: log}
}

func (s *InventoryService) CreateVaccine(ctx context.Context, in ports.CreateVaccineInput) (*domain.Vaccine, error) {
	if in.Name == "" || in.Disease == "" || in.DosesRequired < 1 || in.Price < 0 {
		return nil, domain.ErrValidation
	}

	now := time.Now().UTC()
	v := &domain.Vaccine{
		Name:          in.Name,
		Disease:       in.Disease,
		Manufacturer:  in.Manufacturer,
		DosesRequired: in.DosesRequired,
		Price:         in.Price,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.vaccines.Create(ctx, v)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("vaccine_id", created.ID).Str("disease", created.Disease).Msg("vaccine created")
	return created, nil
}

func (s *InventoryService) ListVaccines(ctx context.Context) ([]*domain.Vaccine, error) {
	return s.vaccines.List(ctx)
}

func (s *InventoryService) DeleteVaccine(ctx context.Context, id string) error {
	return s.vaccines.Delete(ctx, id)
}

// CreateBatch registers a new batch. InitialStock, when positive, is
// recorded as the batch's first receipt so the audit trail starts at zero.
func (s *InventoryService) CreateBatch(ctx context.Context, actor ports.Actor, in ports.CreateBatchInput) (*domain.VaccineBatch, error) {
	if in.VaccineID == "" || in.BatchNumber == "" || in.InitialStock < 0 {
		return nil, domain.ErrValidation
	}
	expires, err := time.Parse("2006-01-02", in.ExpiresAt)
	if err != nil {
		return nil, domain.ErrValidation
	}

	if _, err := s.vaccines.FindByID(ctx, in.VaccineID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	batch := &domain.VaccineBatch{
		VaccineID:   in.VaccineID,
		BatchNumber: in.BatchNumber,
		ExpiresAt:   expires,
		Stock:       0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.batches.Create(ctx, batch)
	if err != nil {
		return nil, err
	}

	if in.InitialStock > 0 {
		created, err = s.Receive(ctx, actor, ports.MovementInput{
			BatchID:  created.ID,
			Quantity: in.InitialStock,
			Notes:    "initial stock",
		})
		if err != nil {
			return nil, err
		}
	}

	s.log.Info().Str("batch_id", created.ID).Str("batch_number", created.BatchNumber).Msg("batch registered")
	return created, nil
}

func (s *InventoryService) ListBatches(ctx context.Context, vaccineID string) ([]*domain.VaccineBatch, error) {
	return s.batches.ListByVaccine(ctx, vaccineID)
}

// Receive adds stock to a batch.
func (s *InventoryService) Receive(ctx context.Context, actor ports.Actor, in ports.MovementInput) (*domain.VaccineBatch, error) {
	return s.move(ctx, actor, in, domain.MovementReceipt)
}

// Export removes stock from a batch. Expired batches cannot be exported and
// the adjustment fails when stock would go negative.
func (s *InventoryService) Export(ctx context.Context, actor ports.Actor, in ports.MovementInput) (*domain.VaccineBatch, error) {
	return s.move(ctx, actor, in, domain.MovementExport)
}

func (s *InventoryService) Movements(ctx context.Context, batchID string) ([]*domain.StockMovement, error) {
	return s.movements.ListByBatch(ctx, batchID)
}

func (s *InventoryService) move(ctx context.Context, actor ports.Actor, in ports.MovementInput, kind domain.MovementKind) (*domain.VaccineBatch, error) {
	if in.BatchID == "" || in.Quantity <= 0 {
		return nil, domain.ErrValidation
	}

	delta := in.Quantity
	if kind == domain.MovementExport {
		batch, err := s.batches.FindByID(ctx, in.BatchID)
		if err != nil {
			return nil, err
		}
		if batch.Expired(time.Now().UTC()) {
			return nil, domain.ErrBatchExpired
		}
		delta = -in.Quantity
	}

	batch, err := s.batches.AdjustStock(ctx, in.BatchID, delta)
	if err != nil {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}

	movement := &domain.StockMovement{
		BatchID:   in.BatchID,
		Kind:      kind,
		Quantity:  in.Quantity,
		ActorID:   actor.UserID,
		Notes:     in.Notes,
		CreatedAt: time.Now().UTC(),
	}
	// The stock change is already committed; a failed audit insert is logged
	// rather than rolled back.
	if err := s.movements.Insert(ctx, movement); err != nil {
		s.log.Warn().Err(err).Str("batch_id", in.BatchID).Msg("failed to record stock movement")
	}

	s.log.Info().
		Str("batch_id", batch.ID).
		Str("kind", string(kind)).
		Int("quantity", in.Quantity).
		Int("stock", batch.Stock).
		Msg("stock moved")

	return batch, nil
}
