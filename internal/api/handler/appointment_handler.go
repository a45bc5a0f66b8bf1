package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/petvax/vaccination-system/internal/api/metrics"
	"github.com/petvax/vaccination-system/internal/core/domain"
	"github.com/petvax/vaccination-system/internal/core/ports"
)

// AppointmentHandler handles HTTP requests for appointment operations.
type AppointmentHandler struct {
	service ports.AppointmentService
}

func NewAppointmentHandler(service ports.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

type bookAppointmentRequest struct {
	PetID     string `json:"pet_id" validate:"required"`
	VetID     string `json:"vet_id" validate:"required"`
	VaccineID string `json:"vaccine_id"`
	Date      string `json:"date" validate:"required"`
	Time      string `json:"time" validate:"required"`
	Notes     string `json:"notes"`
}

type transitionRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed checked_in completed cancelled"`
	Notes  string `json:"notes"`
}

type appointmentResponse struct {
	*domain.Appointment
	Window string `json:"window,omitempty"`
}

// Book handles POST /api/appointments.
//
// @Summary      Book an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                  false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      bookAppointmentRequest  true   "Appointment details"
// @Success      201              {object}  envelope
// @Failure      409              {object}  envelope
// @Router       /api/appointments [post]
func (h *AppointmentHandler) Book(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req bookAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Book(c.Request().Context(), actor, ports.BookAppointmentInput{
		PetID:          req.PetID,
		VetID:          req.VetID,
		VaccineID:      req.VaccineID,
		Date:           req.Date,
		Time:           req.Time,
		Notes:          req.Notes,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotUnavailable) {
			metrics.SlotConflictsTotal.Inc()
		}
		return err
	}

	metrics.AppointmentsBookedTotal.WithLabelValues(actor.Role.String()).Inc()

	resp := toAppointmentResponse(result.Appointment)
	if result.AlreadyExisted {
		return ok(c, resp)
	}
	return created(c, resp)
}

// Get handles GET /api/appointments/:id.
//
// @Summary      Get an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /api/appointments/{id} [get]
func (h *AppointmentHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	appt, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, toAppointmentResponse(appt))
}

// Transition handles PATCH /api/appointments/:id/status.
//
// @Summary      Change appointment status
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Appointment id"
// @Param        body  body      transitionRequest  true  "Target status"
// @Success      200   {object}  envelope
// @Failure      422   {object}  envelope
// @Router       /api/appointments/{id}/status [patch]
func (h *AppointmentHandler) Transition(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	next := domain.AppointmentStatus(req.Status)
	if err := h.service.Transition(c.Request().Context(), actor, c.Param("id"), next, req.Notes); err != nil {
		return err
	}
	return okMessage(c, "status updated", nil)
}

// List handles GET /api/appointments.
//
// @Summary      List appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Param        date    query     string  false  "Date filter (YYYY-MM-DD)"
// @Param        status  query     string  false  "Status filter"
// @Param        vet_id  query     string  false  "Vet filter"
// @Success      200     {object}  envelope
// @Router       /api/appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), ports.ListAppointmentsInput{
		Actor:  actor,
		VetID:  c.QueryParam("vet_id"),
		Date:   c.QueryParam("date"),
		Status: c.QueryParam("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	items := make([]appointmentResponse, 0, len(result.Items))
	for _, a := range result.Items {
		items = append(items, toAppointmentResponse(a))
	}

	return paged(c,
		pageInfo{Page: result.Page, Limit: result.Limit, Total: result.Total, TotalPages: result.TotalPages},
		searchInfo{Status: c.QueryParam("status"), Date: c.QueryParam("date")},
		items,
	)
}

// Slots handles GET /api/appointments/slots and lists the bookable windows.
//
// @Summary      List appointment slots
// @Tags         appointments
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /api/appointments/slots [get]
func (h *AppointmentHandler) Slots(c echo.Context) error {
	type slotResponse struct {
		Slot   int    `json:"slot"`
		Window string `json:"window"`
	}

	slots := domain.Slots()
	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		window, _ := domain.SlotToTime(s)
		out = append(out, slotResponse{Slot: int(s), Window: window})
	}
	return ok(c, out)
}

func toAppointmentResponse(a *domain.Appointment) appointmentResponse {
	window, _ := domain.SlotToTime(a.Slot)
	return appointmentResponse{Appointment: a, Window: window}
}
