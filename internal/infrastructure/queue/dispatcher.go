package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/petvax/vaccination-system/internal/api/metrics"
	"github.com/petvax/vaccination-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes reminder jobs to a fixed set of workers using consistent
// hashing on the pet id, guaranteeing per-pet delivery ordering.
type Dispatcher struct {
	workers []chan ports.ReminderJob
	service ports.ReminderService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ReminderService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ReminderJob, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ReminderJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a job to the worker responsible for its pet.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(job ports.ReminderJob) {
	idx := d.shardIndex(job.PetID)
	d.workers[idx] <- job
	metrics.ReminderQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a pet id deterministically to a worker index.
func (d *Dispatcher) shardIndex(petID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(petID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ReminderJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Send(ctx, job); err != nil {
				metrics.RemindersDeliveredTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("appointment_id", job.AppointmentID).
					Int("worker_id", id).
					Msg("reminder delivery failed")
			} else {
				metrics.RemindersDeliveredTotal.WithLabelValues("ok").Inc()
			}
			metrics.ReminderQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		}
	}
}
