package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/petvax/vaccination-system/internal/core/domain"
	"github.com/petvax/vaccination-system/internal/core/ports"
)

type stubPetRepo struct {
	pets   map[string]*domain.Pet
	nextID int
}

func newStubPetRepo() *stubPetRepo {
	return &stubPetRepo{pets: make(map[string]*domain.Pet)}
}

func clonePet(p *domain.Pet) *domain.Pet {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubPetRepo) Create(_ context.Context, p *domain.Pet) (*domain.Pet, error) {
	copy := clonePet(p)
	r.nextID++
	copy.ID = fmt.Sprintf("pet-%d", r.nextID)
	r.pets[copy.ID] = clonePet(copy)
	return copy, nil
}

func (r *stubPetRepo) FindByID(_ context.Context, id string) (*domain.Pet, error) {
	if p, ok := r.pets[id]; ok {
		return clonePet(p), nil
	}
	return nil, domain.ErrPetNotFound
}

func (r *stubPetRepo) FindByMicrochip(_ context.Context, code string) (*domain.Pet, error) {
	for _, p := range r.pets {
		if p.MicrochipCode == code {
			return clonePet(p), nil
		}
	}
	return nil, domain.ErrPetNotFound
}

func (r *stubPetRepo) Update(_ context.Context, p *domain.Pet) error {
	if _, ok := r.pets[p.ID]; !ok {
		return domain.ErrPetNotFound
	}
	r.pets[p.ID] = clonePet(p)
	return nil
}

func (r *stubPetRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.pets[id]; !ok {
		return domain.ErrPetNotFound
	}
	delete(r.pets, id)
	return nil
}

func (r *stubPetRepo) List(_ context.Context, filter ports.ListPetsFilter) ([]*domain.Pet, int64, error) {
	var out []*domain.Pet
	for _, p := range r.pets {
		if filter.OwnerID != "" && p.OwnerID != filter.OwnerID {
			continue
		}
		out = append(out, clonePet(p))
	}
	return out, int64(len(out)), nil
}

func staffActor() ports.Actor {
	return ports.Actor{UserID: "staff-1", Role: domain.RoleStaff}
}

func customerActor(id string) ports.Actor {
	return ports.Actor{UserID: id, Role: domain.RoleCustomer}
}

func TestPetService_Create_CustomerForcedToOwnAccount(t *testing.T) {
	repo := newStubPetRepo()
	svc := NewPetService(repo, zerolog.Nop())

	pet, err := svc.Create(context.Background(), customerActor("cust-1"), ports.CreatePetInput{
		OwnerID: "someone-else",
		Name:    "Rex",
		Species: "dog",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if pet.OwnerID != "cust-1" {
		t.Fatalf("customer pets must be owned by the caller, got owner %q", pet.OwnerID)
	}
}

func TestPetService_Create_Validation(t *testing.T) {
	svc := NewPetService(newStubPetRepo(), zerolog.Nop())

	if _, err := svc.Create(context.Background(), staffActor(), ports.CreatePetInput{Name: "Rex", Species: "dog"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing owner, got %v", err)
	}
	if _, err := svc.Create(context.Background(), staffActor(), ports.CreatePetInput{OwnerID: "o", Species: "dog"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing name, got %v", err)
	}
	if _, err := svc.Create(context.Background(), staffActor(), ports.CreatePetInput{
		OwnerID: "o", Name: "Rex", Species: "dog", DateOfBirth: "31-12-2020",
	}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad date, got %v", err)
	}
}

func TestPetService_Create_DuplicateMicrochip(t *testing.T) {
	repo := newStubPetRepo()
	svc := NewPetService(repo, zerolog.Nop())

	if _, err := svc.Create(context.Background(), staffActor(), ports.CreatePetInput{
		OwnerID: "o1", Name: "Rex", Species: "dog", MicrochipCode: "chip-1",
	}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	_, err := svc.Create(context.Background(), staffActor(), ports.CreatePetInput{
		OwnerID: "o2", Name: "Mia", Species: "cat", MicrochipCode: "chip-1",
	})
	if !errors.Is(err, domain.ErrMicrochipExists) {
		t.Fatalf("expected ErrMicrochipExists, got %v", err)
	}
}

func TestPetService_Get_CustomerScoping(t *testing.T) {
	repo := newStubPetRepo()
	svc := NewPetService(repo, zerolog.Nop())

	pet, err := svc.Create(context.Background(), customerActor("cust-1"), ports.CreatePetInput{
		Name: "Rex", Species: "dog",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.Get(context.Background(), customerActor("cust-2"), pet.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for another customer, got %v", err)
	}
	if _, err := svc.Get(context.Background(), staffActor(), pet.ID); err != nil {
		t.Fatalf("staff should see any pet, got %v", err)
	}
}

func TestPetService_Update_ChipReassignmentForbidden(t *testing.T) {
	repo := newStubPetRepo()
	svc := NewPetService(repo, zerolog.Nop())

	pet, err := svc.Create(context.Background(), staffActor(), ports.CreatePetInput{
		OwnerID: "o1", Name: "Rex", Species: "dog", MicrochipCode: "chip-1",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.Update(context.Background(), staffActor(), pet.ID, ports.UpdatePetInput{
		MicrochipCode: "chip-2",
	}); !errors.Is(err, domain.ErrMicrochipExists) {
		t.Fatalf("expected ErrMicrochipExists on re-code, got %v", err)
	}
}

func TestPetService_Update_AddChipToUnchippedPet(t *testing.T) {
	repo := newStubPetRepo()
	svc := NewPetService(repo, zerolog.Nop())

	pet, err := svc.Create(context.Background(), staffActor(), ports.CreatePetInput{
		OwnerID: "o1", Name: "Rex", Species: "dog",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := svc.Update(context.Background(), staffActor(), pet.ID, ports.UpdatePetInput{
		MicrochipCode: "chip-9",
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.MicrochipCode != "chip-9" {
		t.Fatalf("chip not applied, got %q", updated.MicrochipCode)
	}
}

func TestPetService_Delete_RequiresStaff(t *testing.T) {
	repo := newStubPetRepo()
	svc := NewPetService(repo, zerolog.Nop())

	pet, err := svc.Create(context.Background(), customerActor("cust-1"), ports.CreatePetInput{
		Name: "Rex", Species: "dog",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(context.Background(), customerActor("cust-1"), pet.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for customer delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), staffActor(), pet.ID); err != nil {
		t.Fatalf("staff delete failed: %v", err)
	}
}

func TestPetService_List_CustomerSeesOwnPetsOnly(t *testing.T) {
	repo := newStubPetRepo()
	svc := NewPetService(repo, zerolog.Nop())

	for i, owner := range []string{"cust-1", "cust-1", "cust-2"} {
		if _, err := svc.Create(context.Background(), staffActor(), ports.CreatePetInput{
			OwnerID: owner, Name: fmt.Sprintf("pet-%d", i), Species: "dog",
		}); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	page, err := svc.List(context.Background(), ports.ListPetsInput{
		Actor:   customerActor("cust-1"),
		OwnerID: "cust-2", // ignored for customers
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 pets for cust-1, got %d", page.Total)
	}
	for _, p := range page.Items {
		if p.OwnerID != "cust-1" {
			t.Fatalf("leaked pet owned by %q", p.OwnerID)
		}
	}
}

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, defaultPageLimit},
		{-3, -1, 1, defaultPageLimit},
		{2, 50, 2, 50},
		{1, 500, 1, maxPageLimit},
	}
	for _, tc := range cases {
		page, limit := normalizePage(tc.page, tc.limit)
		if page != tc.wantPage || limit != tc.wantLimit {
			t.Fatalf("normalizePage(%d, %d) = (%d, %d), want (%d, %d)",
				tc.page, tc.limit, page, limit, tc.wantPage, tc.wantLimit)
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{41, 20, 3},
	}
	for _, tc := range cases {
		if got := totalPages(tc.total, tc.limit); got != tc.want {
			t.Fatalf("totalPages(%d, %d) = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}
