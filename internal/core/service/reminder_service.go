package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/petvax/vaccination-system/internal/core/domain"
	"github.com/petvax/vaccination-system/internal/core/ports"
)

// ReminderService delivers appointment reminders. The current delivery
// channel is the structured log; mail/SMS transports plug in behind the
// same interface.
type ReminderService struct {
	log zerolog.Logger
}

func NewReminderService(log zerolog.Logger) *ReminderService {
	return &ReminderService{log: log}
}

func (s *ReminderService) Send(_ context.Context, job ports.ReminderJob) error {
	window, _ := domain.SlotToTime(job.Slot)
	s.log.Info().
		Str("appointment_id", job.AppointmentID).
		Str("pet_id", job.PetID).
		Str("date", job.Date).
		Str("window", window).
		Msg("appointment reminder")
	return nil
}
