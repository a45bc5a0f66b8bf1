package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/petvax/vaccination-system/internal/core/domain"
	"github.com/petvax/vaccination-system/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// PetService implements pet registration and lookup with per-role scoping.
type PetService struct {
	repo ports.PetRepository
	log  zerolog.Logger
}

func NewPetService(repo ports.PetRepository, log zerolog.Logger) *PetService {
	return &PetService{repo: repo, log: log}
}

func (s *PetService) Create(ctx context.Context, actor ports.Actor, in ports.CreatePetInput) (*domain.Pet, error) {
	ownerID := in.OwnerID
	// Customers can only register pets on their own account.
	if actor.Role == domain.RoleCustomer {
		ownerID = actor.UserID
	}
	if ownerID == "" || in.Name == "" || in.Species == "" {
		return nil, domain.ErrValidation
	}

	if in.MicrochipCode != "" {
		if err := s.ensureChipFree(ctx, in.MicrochipCode, ""); err != nil {
			return nil, err
		}
	}

	var dob time.Time
	if in.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", in.DateOfBirth)
		if err != nil {
			return nil, domain.ErrValidation
		}
		dob = parsed
	}

	now := time.Now().UTC()
	pet := &domain.Pet{
		OwnerID:       ownerID,
		Name:          in.Name,
		Species:       in.Species,
		Breed:         in.Breed,
		DateOfBirth:   dob,
		WeightKg:      in.WeightKg,
		MicrochipCode: in.MicrochipCode,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.repo.Create(ctx, pet)
	if err != nil {
		s.log.Error().Err(err).Str("owner_id", ownerID).Msg("failed to create pet")
		return nil, err
	}

	s.log.Info().Str("pet_id", created.ID).Str("owner_id", ownerID).Msg("pet registered")
	return created, nil
}

func (s *PetService) Get(ctx context.Context, actor ports.Actor, id string) (*domain.Pet, error) {
	pet, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleCustomer && pet.OwnerID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return pet, nil
}

func (s *PetService) Update(ctx context.Context, actor ports.Actor, id string, in ports.UpdatePetInput) (*domain.Pet, error) {
	pet, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		pet.Name = in.Name
	}
	if in.Breed != "" {
		pet.Breed = in.Breed
	}
	if in.WeightKg > 0 {
		pet.WeightKg = in.WeightKg
	}
	if in.MicrochipCode != "" && in.MicrochipCode != pet.MicrochipCode {
		// A chip is implanted once; an already chipped pet cannot be re-coded.
		if pet.MicrochipCode != "" {
			return nil, domain.ErrMicrochipExists
		}
		if err := s.ensureChipFree(ctx, in.MicrochipCode, pet.ID); err != nil {
			return nil, err
		}
		pet.MicrochipCode = in.MicrochipCode
	}
	pet.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, pet); err != nil {
		return nil, err
	}
	return pet, nil
}

func (s *PetService) Delete(ctx context.Context, actor ports.Actor, id string) error {
	if !actor.Role.In(domain.RoleAdmin, domain.RoleStaff) {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *PetService) List(ctx context.Context, in ports.ListPetsInput) (*ports.PetPage, error) {
	page, limit := normalizePage(in.Page, in.Limit)

	filter := ports.ListPetsFilter{
		OwnerID: in.OwnerID,
		Species: in.Species,
		Search:  in.Search,
		Page:    page,
		Limit:   limit,
	}
	if in.Actor.Role == domain.RoleCustomer {
		filter.OwnerID = in.Actor.UserID
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.PetPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *PetService) ensureChipFree(ctx context.Context, code, selfID string) error {
	existing, err := s.repo.FindByMicrochip(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrPetNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return domain.ErrMicrochipExists
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	pages := int(total) / limit
	if int(total)%limit > 0 {
		pages++
	}
	return pages
}
