package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/petvax/vaccination-system/internal/core/domain"
	"github.com/petvax/vaccination-system/internal/core/ports"
)

type stubApptRepo struct {
	appts  map[string]*domain.Appointment
	nextID int
}

func newStubApptRepo() *stubApptRepo {
	return &stubApptRepo{appts: make(map[string]*domain.Appointment)}
}

func cloneAppt(a *domain.Appointment) *domain.Appointment {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubApptRepo) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	copy := cloneAppt(a)
	r.nextID++
	copy.ID = fmt.Sprintf("appt-%d", r.nextID)
	r.appts[copy.ID] = cloneAppt(copy)
	return copy, nil
}

func (r *stubApptRepo) FindByID(_ context.Context, id string) (*domain.Appointment, error) {
	if a, ok := r.appts[id]; ok {
		return cloneAppt(a), nil
	}
	return nil, domain.ErrAppointmentNotFound
}

func (r *stubApptRepo) FindByIdempotencyKey(_ context.Context, key string) (*domain.Appointment, error) {
	for _, a := range r.appts {
		if a.IdempotencyKey == key {
			return cloneAppt(a), nil
		}
	}
	return nil, domain.ErrAppointmentNotFound
}

func (r *stubApptRepo) SlotTaken(_ context.Context, vetID, date string, slot domain.Slot) (bool, error) {
	for _, a := range r.appts {
		if a.VetID == vetID && a.Date == date && a.Slot == slot && a.Status != domain.AppointmentCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubApptRepo) UpdateStatus(_ context.Context, id string, status domain.AppointmentStatus, ts time.Time, _, _ string) error {
	a, ok := r.appts[id]
	if !ok {
		return domain.ErrAppointmentNotFound
	}
	a.Status = status
	a.UpdatedAt = ts
	return nil
}

func (r *stubApptRepo) List(_ context.Context, filter ports.ListAppointmentsFilter) ([]*domain.Appointment, int64, error) {
	var out []*domain.Appointment
	for _, a := range r.appts {
		if filter.OwnerID != "" && a.OwnerID != filter.OwnerID {
			continue
		}
		if filter.VetID != "" && a.VetID != filter.VetID {
			continue
		}
		out = append(out, cloneAppt(a))
	}
	return out, int64(len(out)), nil
}

type recordingQueue struct {
	jobs []ports.ReminderJob
}

func (q *recordingQueue) Enqueue(job ports.ReminderJob) {
	q.jobs = append(q.jobs, job)
}

type stubDedup struct {
	keys      map[string]string
	seenErr   error
	seenCalls int
	markCalls int
}

func newStubDedup() *stubDedup {
	return &stubDedup{keys: make(map[string]string)}
}

func (d *stubDedup) SeenKey(_ context.Context, key string) (string, bool, error) {
	d.seenCalls++
	if d.seenErr != nil {
		return "", false, d.seenErr
	}
	id, ok := d.keys[key]
	return id, ok, nil
}

func (d *stubDedup) MarkKey(_ context.Context, key, appointmentID string) error {
	d.markCalls++
	d.keys[key] = appointmentID
	return nil
}

func newApptFixture(t *testing.T) (*AppointmentService, *stubApptRepo, *stubPetRepo, *recordingQueue) {
	t.Helper()
	appts := newStubApptRepo()
	pets := newStubPetRepo()
	queue := &recordingQueue{}
	svc := NewAppointmentService(appts, pets, nil, queue, zerolog.Nop())

	if _, err := pets.Create(context.Background(), &domain.Pet{OwnerID: "cust-1", Name: "Rex", Species: "dog"}); err != nil {
		t.Fatalf("seed pet: %v", err)
	}
	return svc, appts, pets, queue
}

func bookInput() ports.BookAppointmentInput {
	return ports.BookAppointmentInput{
		PetID: "pet-1",
		VetID: "vet-1",
		Date:  "2026-09-01",
		Time:  "09:30",
	}
}

func TestAppointmentService_Book_MapsTimeToSlot(t *testing.T) {
	svc, _, _, queue := newApptFixture(t)

	result, err := svc.Book(context.Background(), customerActor("cust-1"), bookInput())
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	if result.AlreadyExisted {
		t.Fatalf("fresh booking flagged as replay")
	}
	if result.Appointment.Slot != 9 {
		t.Fatalf("expected slot 9 for 09:30, got %d", result.Appointment.Slot)
	}
	if result.Appointment.Status != domain.AppointmentBooked {
		t.Fatalf("expected booked status, got %s", result.Appointment.Status)
	}
	if result.Appointment.OwnerID != "cust-1" {
		t.Fatalf("owner not derived from the pet, got %q", result.Appointment.OwnerID)
	}

	if len(queue.jobs) != 1 {
		t.Fatalf("expected 1 reminder job, got %d", len(queue.jobs))
	}
	if queue.jobs[0].AppointmentID != result.Appointment.ID {
		t.Fatalf("reminder job references wrong appointment")
	}
}

func TestAppointmentService_Book_InvalidTimes(t *testing.T) {
	svc, _, _, _ := newApptFixture(t)

	in := bookInput()
	in.Time = "12:30"
	if _, err := svc.Book(context.Background(), customerActor("cust-1"), in); !errors.Is(err, domain.ErrInvalidSlot) {
		t.Fatalf("expected ErrInvalidSlot for midday break, got %v", err)
	}

	in = bookInput()
	in.Date = "01-09-2026"
	if _, err := svc.Book(context.Background(), customerActor("cust-1"), in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad date, got %v", err)
	}
}

func TestAppointmentService_Book_SlotConflict(t *testing.T) {
	svc, _, _, _ := newApptFixture(t)

	if _, err := svc.Book(context.Background(), customerActor("cust-1"), bookInput()); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	// Same vet, date and window: rejected even at a different minute.
	in := bookInput()
	in.Time = "09:45"
	if _, err := svc.Book(context.Background(), customerActor("cust-1"), in); !errors.Is(err, domain.ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}

	// A different vet can hold the same window.
	in = bookInput()
	in.VetID = "vet-2"
	if _, err := svc.Book(context.Background(), customerActor("cust-1"), in); err != nil {
		t.Fatalf("booking with another vet failed: %v", err)
	}
}

func TestAppointmentService_Book_CustomerOwnPetsOnly(t *testing.T) {
	svc, _, pets, _ := newApptFixture(t)
	if _, err := pets.Create(context.Background(), &domain.Pet{OwnerID: "cust-2", Name: "Mia", Species: "cat"}); err != nil {
		t.Fatalf("seed pet: %v", err)
	}

	in := bookInput()
	in.PetID = "pet-2"
	if _, err := svc.Book(context.Background(), customerActor("cust-1"), in); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// Staff can book on behalf of any owner.
	if _, err := svc.Book(context.Background(), staffActor(), in); err != nil {
		t.Fatalf("staff booking failed: %v", err)
	}
}

func TestAppointmentService_Book_IdempotentReplay(t *testing.T) {
	svc, _, _, queue := newApptFixture(t)

	in := bookInput()
	in.IdempotencyKey = "key-1"

	first, err := svc.Book(context.Background(), customerActor("cust-1"), in)
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	replay, err := svc.Book(context.Background(), customerActor("cust-1"), in)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if !replay.AlreadyExisted {
		t.Fatalf("replay not flagged")
	}
	if replay.Appointment.ID != first.Appointment.ID {
		t.Fatalf("replay returned a different appointment")
	}
	if len(queue.jobs) != 1 {
		t.Fatalf("replay must not enqueue another reminder, got %d jobs", len(queue.jobs))
	}
}

func TestAppointmentService_Book_DedupCacheFastPath(t *testing.T) {
	appts := newStubApptRepo()
	pets := newStubPetRepo()
	dedup := newStubDedup()
	svc := NewAppointmentService(appts, pets, dedup, nil, zerolog.Nop())
	if _, err := pets.Create(context.Background(), &domain.Pet{OwnerID: "cust-1", Name: "Rex", Species: "dog"}); err != nil {
		t.Fatalf("seed pet: %v", err)
	}

	in := bookInput()
	in.IdempotencyKey = "key-1"
	first, err := svc.Book(context.Background(), customerActor("cust-1"), in)
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if dedup.markCalls != 1 {
		t.Fatalf("expected 1 dedup mark, got %d", dedup.markCalls)
	}
	if dedup.keys["key-1"] != first.Appointment.ID {
		t.Fatalf("dedup cached %q, want %q", dedup.keys["key-1"], first.Appointment.ID)
	}

	replay, err := svc.Book(context.Background(), customerActor("cust-1"), in)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if !replay.AlreadyExisted || replay.Appointment.ID != first.Appointment.ID {
		t.Fatalf("cache replay did not return the original booking")
	}
	if dedup.markCalls != 1 {
		t.Fatalf("replay must not re-mark the key, got %d marks", dedup.markCalls)
	}
}

func TestAppointmentService_Book_DedupErrorFallsBackToRepo(t *testing.T) {
	appts := newStubApptRepo()
	pets := newStubPetRepo()
	dedup := newStubDedup()
	dedup.seenErr = errors.New("redis down")
	svc := NewAppointmentService(appts, pets, dedup, nil, zerolog.Nop())
	if _, err := pets.Create(context.Background(), &domain.Pet{OwnerID: "cust-1", Name: "Rex", Species: "dog"}); err != nil {
		t.Fatalf("seed pet: %v", err)
	}

	in := bookInput()
	in.IdempotencyKey = "key-1"
	first, err := svc.Book(context.Background(), customerActor("cust-1"), in)
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	// The cache being unreachable degrades the fast path only; the
	// durable lookup still answers the replay.
	replay, err := svc.Book(context.Background(), customerActor("cust-1"), in)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if !replay.AlreadyExisted || replay.Appointment.ID != first.Appointment.ID {
		t.Fatalf("durable replay did not return the original booking")
	}
}

type failingKeyRepo struct {
	*stubApptRepo
	err error
}

func (r *failingKeyRepo) FindByIdempotencyKey(_ context.Context, _ string) (*domain.Appointment, error) {
	return nil, r.err
}

func TestAppointmentService_Book_IdempotencyLookupErrorPropagates(t *testing.T) {
	appts := &failingKeyRepo{stubApptRepo: newStubApptRepo(), err: errors.New("connection reset")}
	pets := newStubPetRepo()
	svc := NewAppointmentService(appts, pets, nil, nil, zerolog.Nop())
	if _, err := pets.Create(context.Background(), &domain.Pet{OwnerID: "cust-1", Name: "Rex", Species: "dog"}); err != nil {
		t.Fatalf("seed pet: %v", err)
	}

	in := bookInput()
	in.IdempotencyKey = "key-1"
	if _, err := svc.Book(context.Background(), customerActor("cust-1"), in); !errors.Is(err, appts.err) {
		t.Fatalf("expected lookup failure to propagate, got %v", err)
	}
	if len(appts.appts) != 0 {
		t.Fatalf("booking proceeded despite a failed idempotency lookup")
	}
}

// racingInsertRepo simulates losing an insert race: the first idempotency
// lookup sees nothing (the winner has not committed yet), the insert then
// trips the unique key index, and later lookups return the winner's row.
type racingInsertRepo struct {
	*stubApptRepo
	winner     *domain.Appointment
	keyLookups int
}

func (r *racingInsertRepo) Create(_ context.Context, _ *domain.Appointment) (*domain.Appointment, error) {
	return nil, domain.ErrDuplicateIdempotencyKey
}

func (r *racingInsertRepo) FindByIdempotencyKey(_ context.Context, key string) (*domain.Appointment, error) {
	r.keyLookups++
	if r.keyLookups > 1 && r.winner != nil && r.winner.IdempotencyKey == key {
		return cloneAppt(r.winner), nil
	}
	return nil, domain.ErrAppointmentNotFound
}

func TestAppointmentService_Book_LostInsertRaceReturnsWinner(t *testing.T) {
	winner := &domain.Appointment{
		ID: "appt-winner", PetID: "pet-1", OwnerID: "cust-1", VetID: "vet-1",
		Date: "2026-09-01", Slot: 9, Status: domain.AppointmentBooked, IdempotencyKey: "key-1",
	}
	repo := &racingInsertRepo{stubApptRepo: newStubApptRepo(), winner: winner}
	pets := newStubPetRepo()
	queue := &recordingQueue{}
	svc := NewAppointmentService(repo, pets, nil, queue, zerolog.Nop())
	if _, err := pets.Create(context.Background(), &domain.Pet{OwnerID: "cust-1", Name: "Rex", Species: "dog"}); err != nil {
		t.Fatalf("seed pet: %v", err)
	}

	in := bookInput()
	in.IdempotencyKey = "key-1"
	result, err := svc.Book(context.Background(), customerActor("cust-1"), in)
	if err != nil {
		t.Fatalf("lost race surfaced as error: %v", err)
	}
	if !result.AlreadyExisted || result.Appointment.ID != winner.ID {
		t.Fatalf("loser did not receive the winner's booking, got %+v", result)
	}
	if len(queue.jobs) != 0 {
		t.Fatalf("lost race must not enqueue a reminder, got %d jobs", len(queue.jobs))
	}
}

func TestAppointmentService_Transition_StateMachine(t *testing.T) {
	svc, repo, _, _ := newApptFixture(t)

	result, err := svc.Book(context.Background(), customerActor("cust-1"), bookInput())
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	id := result.Appointment.ID

	// booked -> completed skips states and must fail.
	err = svc.Transition(context.Background(), staffActor(), id, domain.AppointmentCompleted, "")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	for _, next := range []domain.AppointmentStatus{
		domain.AppointmentConfirmed, domain.AppointmentCheckedIn, domain.AppointmentCompleted,
	} {
		if err := svc.Transition(context.Background(), staffActor(), id, next, ""); err != nil {
			t.Fatalf("transition to %s failed: %v", next, err)
		}
	}

	stored, _ := repo.FindByID(context.Background(), id)
	if stored.Status != domain.AppointmentCompleted {
		t.Fatalf("expected completed, got %s", stored.Status)
	}
}

func TestAppointmentService_Transition_Authorization(t *testing.T) {
	svc, _, _, _ := newApptFixture(t)

	result, err := svc.Book(context.Background(), customerActor("cust-1"), bookInput())
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	id := result.Appointment.ID

	// A customer cannot confirm, even their own appointment.
	err = svc.Transition(context.Background(), customerActor("cust-1"), id, domain.AppointmentConfirmed, "")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// Another customer cannot cancel someone else's appointment.
	err = svc.Transition(context.Background(), customerActor("cust-2"), id, domain.AppointmentCancelled, "")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// The owner can cancel their own booking.
	if err := svc.Transition(context.Background(), customerActor("cust-1"), id, domain.AppointmentCancelled, "changed plans"); err != nil {
		t.Fatalf("owner cancel failed: %v", err)
	}
}

func TestAppointmentService_Get_Scoping(t *testing.T) {
	svc, _, _, _ := newApptFixture(t)

	result, err := svc.Book(context.Background(), customerActor("cust-1"), bookInput())
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	id := result.Appointment.ID

	if _, err := svc.Get(context.Background(), customerActor("cust-2"), id); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign customer, got %v", err)
	}
	if _, err := svc.Get(context.Background(), ports.Actor{UserID: "vet-9", Role: domain.RoleVet}, id); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign vet, got %v", err)
	}
	if _, err := svc.Get(context.Background(), ports.Actor{UserID: "vet-1", Role: domain.RoleVet}, id); err != nil {
		t.Fatalf("assigned vet should see the appointment, got %v", err)
	}
}

func TestAppointmentService_List_ScopesByRole(t *testing.T) {
	svc, _, pets, _ := newApptFixture(t)
	if _, err := pets.Create(context.Background(), &domain.Pet{OwnerID: "cust-2", Name: "Mia", Species: "cat"}); err != nil {
		t.Fatalf("seed pet: %v", err)
	}

	if _, err := svc.Book(context.Background(), customerActor("cust-1"), bookInput()); err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	in := bookInput()
	in.PetID = "pet-2"
	in.VetID = "vet-2"
	if _, err := svc.Book(context.Background(), customerActor("cust-2"), in); err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	page, err := svc.List(context.Background(), ports.ListAppointmentsInput{
		Actor: customerActor("cust-1"),
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("customer should see 1 appointment, got %d", page.Total)
	}

	page, err = svc.List(context.Background(), ports.ListAppointmentsInput{
		Actor: ports.Actor{UserID: "vet-2", Role: domain.RoleVet},
		VetID: "vet-1", // ignored: vets are pinned to themselves
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("vet should see 1 appointment, got %d", page.Total)
	}
	if page.Items[0].VetID != "vet-2" {
		t.Fatalf("vet list leaked appointment for %q", page.Items[0].VetID)
	}

	page, err = svc.List(context.Background(), ports.ListAppointmentsInput{Actor: staffActor()})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("staff should see all appointments, got %d", page.Total)
	}
}
