package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/petvax/vaccination-system/internal/core/domain"
	"github.com/petvax/vaccination-system/internal/core/ports"
)

// ReminderQueue accepts reminder jobs for asynchronous delivery.
type ReminderQueue interface {
	Enqueue(job ports.ReminderJob)
}

// AppointmentService implements booking and lifecycle transitions.
type AppointmentService struct {
	repo      ports.AppointmentRepository
	pets      ports.PetRepository
	dedup     ports.BookingDeduper // optional
	reminders ReminderQueue        // optional
	log       zerolog.Logger
}

func NewAppointmentService(
	repo ports.AppointmentRepository,
	pets ports.PetRepository,
	dedup ports.BookingDeduper,
	reminders ReminderQueue,
	log zerolog.Logger,
) *AppointmentService {
	return &AppointmentService{repo: repo, pets: pets, dedup: dedup, reminders: reminders, log: log}
}

// Book creates an appointment in the slot covering the requested time.
// If an idempotency key is provided and already seen, the previously booked
// appointment is returned without side effects.
func (s *AppointmentService) Book(ctx context.Context, actor ports.Actor, in ports.BookAppointmentInput) (*ports.BookResult, error) {
	if in.IdempotencyKey != "" {
		if replay, err := s.findReplay(ctx, in.IdempotencyKey); err != nil {
			return nil, err
		} else if replay != nil {
			return replay, nil
		}
	}

	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return nil, domain.ErrValidation
	}
	slot, ok := domain.TimeToSlot(in.Time)
	if !ok {
		return nil, domain.ErrInvalidSlot
	}

	pet, err := s.pets.FindByID(ctx, in.PetID)
	if err != nil {
		return nil, err
	}
	// Customers can only book for their own pets.
	if actor.Role == domain.RoleCustomer && pet.OwnerID != actor.UserID {
		return nil, domain.ErrForbidden
	}

	taken, err := s.repo.SlotTaken(ctx, in.VetID, in.Date, slot)
	if err != nil {
		return nil, fmt.Errorf("check slot: %w", err)
	}
	if taken {
		return nil, domain.ErrSlotUnavailable
	}

	now := time.Now().UTC()
	appt := &domain.Appointment{
		PetID:          pet.ID,
		OwnerID:        pet.OwnerID,
		VetID:          in.VetID,
		VaccineID:      in.VaccineID,
		Date:           in.Date,
		Slot:           slot,
		Status:         domain.AppointmentBooked,
		Notes:          in.Notes,
		IdempotencyKey: in.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.repo.Create(ctx, appt)
	if errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
		// Lost the insert race against an identical request; hand back
		// what that request booked.
		existing, ferr := s.repo.FindByIdempotencyKey(ctx, in.IdempotencyKey)
		if ferr != nil {
			return nil, err
		}
		return &ports.BookResult{Appointment: existing, AlreadyExisted: true}, nil
	}
	if err != nil {
		s.log.Error().Err(err).Str("pet_id", pet.ID).Msg("failed to book appointment")
		return nil, err
	}

	if in.IdempotencyKey != "" && s.dedup != nil {
		// Cache failure only degrades the fast path; the unique index
		// still guards replays.
		if err := s.dedup.MarkKey(ctx, in.IdempotencyKey, created.ID); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("booking dedup mark failed")
		}
	}

	if s.reminders != nil {
		s.reminders.Enqueue(ports.ReminderJob{
			AppointmentID: created.ID,
			PetID:         created.PetID,
			Date:          created.Date,
			Slot:          created.Slot,
		})
	}

	s.log.Info().
		Str("appointment_id", created.ID).
		Str("vet_id", created.VetID).
		Str("date", created.Date).
		Int("slot", int(created.Slot)).
		Msg("appointment booked")

	return &ports.BookResult{Appointment: created}, nil
}

// findReplay resolves an idempotency key against the Redis cache first and
// the collection's sparse unique index second. A nil result means the key
// is unseen.
func (s *AppointmentService) findReplay(ctx context.Context, key string) (*ports.BookResult, error) {
	if s.dedup != nil {
		id, ok, err := s.dedup.SeenKey(ctx, key)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("idempotency_key", key).Msg("booking dedup check failed")
		case ok:
			existing, err := s.repo.FindByID(ctx, id)
			if err == nil {
				s.log.Info().Str("idempotency_key", key).Str("appointment_id", existing.ID).Msg("idempotent replay (cache)")
				return &ports.BookResult{Appointment: existing, AlreadyExisted: true}, nil
			}
			// Stale cache entry; fall through to the durable lookup.
		}
	}

	existing, err := s.repo.FindByIdempotencyKey(ctx, key)
	switch {
	case err == nil:
		s.log.Info().Str("idempotency_key", key).Str("appointment_id", existing.ID).Msg("idempotent replay")
		return &ports.BookResult{Appointment: existing, AlreadyExisted: true}, nil
	case errors.Is(err, domain.ErrAppointmentNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("idempotency lookup: %w", err)
	}
}

func (s *AppointmentService) Get(ctx context.Context, actor ports.Actor, id string) (*domain.Appointment, error) {
	appt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleCustomer && appt.OwnerID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	if actor.Role == domain.RoleVet && appt.VetID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return appt, nil
}

// Transition moves an appointment to next, enforcing both the status state
// machine and per-role permissions: customers may only cancel their own
// bookings; confirm/check-in/complete are staff and vet operations.
func (s *AppointmentService) Transition(ctx context.Context, actor ports.Actor, id string, next domain.AppointmentStatus, notes string) error {
	appt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorizeTransition(actor, appt, next); err != nil {
		return err
	}

	if !appt.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, appt.Status, next)
	}

	if err := s.repo.UpdateStatus(ctx, id, next, time.Now().UTC(), actor.UserID, notes); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	s.log.Info().
		Str("appointment_id", id).
		Str("from", string(appt.Status)).
		Str("to", string(next)).
		Str("actor_id", actor.UserID).
		Msg("appointment status changed")

	return nil
}

func (s *AppointmentService) authorizeTransition(actor ports.Actor, appt *domain.Appointment, next domain.AppointmentStatus) error {
	switch next {
	case domain.AppointmentCancelled:
		if actor.Role == domain.RoleCustomer && appt.OwnerID != actor.UserID {
			return domain.ErrForbidden
		}
		return nil
	case domain.AppointmentConfirmed, domain.AppointmentCheckedIn, domain.AppointmentCompleted:
		if !actor.Role.In(domain.RoleAdmin, domain.RoleStaff, domain.RoleVet) {
			return domain.ErrForbidden
		}
		return nil
	default:
		return domain.ErrInvalidTransition
	}
}

func (s *AppointmentService) List(ctx context.Context, in ports.ListAppointmentsInput) (*ports.AppointmentPage, error) {
	page, limit := normalizePage(in.Page, in.Limit)

	filter := ports.ListAppointmentsFilter{
		VetID:  in.VetID,
		Date:   in.Date,
		Status: in.Status,
		Page:   page,
		Limit:  limit,
	}
	switch in.Actor.Role {
	case domain.RoleCustomer:
		filter.OwnerID = in.Actor.UserID
	case domain.RoleVet:
		filter.VetID = in.Actor.UserID
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.AppointmentPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}
