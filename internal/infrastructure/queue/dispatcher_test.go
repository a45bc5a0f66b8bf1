package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/petvax/vaccination-system/internal/core/ports"
)

type recordingReminderService struct {
	mu   sync.Mutex
	jobs []ports.ReminderJob
	done chan struct{}
	want int
}

func newRecordingReminderService(want int) *recordingReminderService {
	return &recordingReminderService{done: make(chan struct{}), want: want}
}

func (s *recordingReminderService) Send(_ context.Context, job ports.ReminderJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
	if len(s.jobs) == s.want {
		close(s.done)
	}
	return nil
}

func (s *recordingReminderService) wait(t *testing.T) []ports.ReminderJob {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for reminder deliveries")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.ReminderJob(nil), s.jobs...)
}

func TestDispatcher_DeliversAllJobs(t *testing.T) {
	svc := newRecordingReminderService(10)
	d := NewDispatcher(4, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 10; i++ {
		d.Enqueue(ports.ReminderJob{
			AppointmentID: string(rune('a' + i)),
			PetID:         "pet-1",
			Date:          "2026-09-01",
		})
	}

	jobs := svc.wait(t)
	if len(jobs) != 10 {
		t.Fatalf("expected 10 deliveries, got %d", len(jobs))
	}
}

// Jobs for the same pet always land on the same worker, so they are
// delivered in enqueue order.
func TestDispatcher_PerPetOrdering(t *testing.T) {
	const n = 50
	svc := newRecordingReminderService(n)
	d := NewDispatcher(4, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < n; i++ {
		d.Enqueue(ports.ReminderJob{
			AppointmentID: string(rune('A' + i%26)) + string(rune('0'+i/26)),
			PetID:         "pet-ordered",
			Date:          "2026-09-01",
		})
	}

	jobs := svc.wait(t)
	// Same pet, same shard: delivery order must equal enqueue order.
	for i := 0; i < n; i++ {
		want := string(rune('A'+i%26)) + string(rune('0'+i/26))
		if jobs[i].AppointmentID != want {
			t.Fatalf("job %d delivered out of order: got %s, want %s", i, jobs[i].AppointmentID, want)
		}
	}
}

func TestDispatcher_ShardIsDeterministic(t *testing.T) {
	d := NewDispatcher(4, nil, zerolog.Nop())
	first := d.shardIndex("pet-42")
	for i := 0; i < 10; i++ {
		if d.shardIndex("pet-42") != first {
			t.Fatalf("shard index changed between calls")
		}
	}
}
