package service

import (
	"context"
	"time"

	"github.com/petvax/vaccination-system/internal/core/domain"
	"github.com/petvax/vaccination-system/internal/core/ports"
)

// DashboardService produces the summary counts shown on each portal's
// landing page.
type DashboardService struct {
	counts       ports.CountsRepository
	pets         ports.PetRepository
	appointments ports.AppointmentRepository
}

func NewDashboardService(
	counts ports.CountsRepository,
	pets ports.PetRepository,
	appointments ports.AppointmentRepository,
) *DashboardService {
	return &DashboardService{counts: counts, pets: pets, appointments: appointments}
}

// Summary returns global counts for admin and staff. Vets see their own
// appointment load; customers see their own pets and open bookings.
func (s *DashboardService) Summary(ctx context.Context, actor ports.Actor) (*ports.DashboardCounts, error) {
	today := time.Now().UTC().Format("2006-01-02")

	switch actor.Role {
	case domain.RoleAdmin, domain.RoleStaff:
		return s.counts.Counts(ctx, today)

	case domain.RoleVet:
		out := &ports.DashboardCounts{}
		_, todayCount, err := s.appointments.List(ctx, ports.ListAppointmentsFilter{
			VetID: actor.UserID, Date: today, Page: 1, Limit: 1,
		})
		if err != nil {
			return nil, err
		}
		_, openCount, err := s.appointments.List(ctx, ports.ListAppointmentsFilter{
			VetID: actor.UserID, Status: string(domain.AppointmentBooked), Page: 1, Limit: 1,
		})
		if err != nil {
			return nil, err
		}
		out.AppointmentsToday = todayCount
		out.AppointmentsOpen = openCount
		return out, nil

	case domain.RoleCustomer:
		out := &ports.DashboardCounts{}
		_, petCount, err := s.pets.List(ctx, ports.ListPetsFilter{
			OwnerID: actor.UserID, Page: 1, Limit: 1,
		})
		if err != nil {
			return nil, err
		}
		_, openCount, err := s.appointments.List(ctx, ports.ListAppointmentsFilter{
			OwnerID: actor.UserID, Status: string(domain.AppointmentBooked), Page: 1, Limit: 1,
		})
		if err != nil {
			return nil, err
		}
		out.Pets = petCount
		out.AppointmentsOpen = openCount
		return out, nil
	}

	return nil, domain.ErrForbidden
}
