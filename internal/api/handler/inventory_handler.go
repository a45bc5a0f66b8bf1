package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/petvax/vaccination-system/internal/api/metrics"
	"github.com/petvax/vaccination-system/internal/core/domain"
	"github.com/petvax/vaccination-system/internal/core/ports"
)

// InventoryHandler handles the vaccine catalogue and batch stock endpoints.
type InventoryHandler struct {
	service ports.InventoryService
}

func NewInventoryHandler(service ports.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

type createVaccineRequest struct {
	Name          string  `json:"name" validate:"required"`
	Disease       string  `json:"disease" validate:"required"`
	Manufacturer  string  `json:"manufacturer"`
	DosesRequired int     `json:"doses_required" validate:"required,min=1"`
	Price         float64 `json:"price" validate:"gte=0"`
}

type createBatchRequest struct {
	VaccineID    string `json:"vaccine_id" validate:"required"`
	BatchNumber  string `json:"batch_number" validate:"required"`
	ExpiresAt    string `json:"expires_at" validate:"required"`
	InitialStock int    `json:"initial_stock" validate:"gte=0"`
}

type movementRequest struct {
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Notes    string `json:"notes"`
}

// CreateVaccine handles POST /api/vaccines.
//
// @Summary      Create a vaccine
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createVaccineRequest  true  "Vaccine details"
// @Success      201   {object}  envelope
// @Router       /api/vaccines [post]
func (h *InventoryHandler) CreateVaccine(c echo.Context) error {
	var req createVaccineRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	v, err := h.service.CreateVaccine(c.Request().Context(), ports.CreateVaccineInput{
		Name:          req.Name,
		Disease:       req.Disease,
		Manufacturer:  req.Manufacturer,
		DosesRequired: req.DosesRequired,
		Price:         req.Price,
	})
	if err != nil {
		return err
	}
	return created(c, v)
}

// ListVaccines handles GET /api/vaccines.
//
// @Summary      List vaccines
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /api/vaccines [get]
func (h *InventoryHandler) ListVaccines(c echo.Context) error {
	out, err := h.service.ListVaccines(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, out)
}

// DeleteVaccine handles DELETE /api/vaccines/:id.
//
// @Summary      Delete a vaccine
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Vaccine id"
// @Success      200  {object}  envelope
// @Router       /api/vaccines/{id} [delete]
func (h *InventoryHandler) DeleteVaccine(c echo.Context) error {
	if err := h.service.DeleteVaccine(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return okMessage(c, "vaccine deleted", nil)
}

// CreateBatch handles POST /api/vaccines/batches.
//
// @Summary      Register a vaccine batch
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBatchRequest  true  "Batch details"
// @Success      201   {object}  envelope
// @Router       /api/vaccines/batches [post]
func (h *InventoryHandler) CreateBatch(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createBatchRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	b, err := h.service.CreateBatch(c.Request().Context(), actor, ports.CreateBatchInput{
		VaccineID:    req.VaccineID,
		BatchNumber:  req.BatchNumber,
		ExpiresAt:    req.ExpiresAt,
		InitialStock: req.InitialStock,
	})
	if err != nil {
		return err
	}
	return created(c, b)
}

// ListBatches handles GET /api/vaccines/batches.
//
// @Summary      List vaccine batches
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        vaccine_id  query     string  false  "Vaccine filter"
// @Success      200         {object}  envelope
// @Router       /api/vaccines/batches [get]
func (h *InventoryHandler) ListBatches(c echo.Context) error {
	out, err := h.service.ListBatches(c.Request().Context(), c.QueryParam("vaccine_id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Receive handles POST /api/vaccines/batches/:id/receipts.
//
// @Summary      Receive stock into a batch
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Batch id"
// @Param        body  body      movementRequest  true  "Quantity"
// @Success      200   {object}  envelope
// @Router       /api/vaccines/batches/{id}/receipts [post]
func (h *InventoryHandler) Receive(c echo.Context) error {
	return h.move(c, domain.MovementReceipt)
}

// Export handles POST /api/vaccines/batches/:id/exports.
//
// @Summary      Export stock from a batch
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Batch id"
// @Param        body  body      movementRequest  true  "Quantity"
// @Success      200   {object}  envelope
// @Failure      422   {object}  envelope
// @Router       /api/vaccines/batches/{id}/exports [post]
func (h *InventoryHandler) Export(c echo.Context) error {
	return h.move(c, domain.MovementExport)
}

// Movements handles GET /api/vaccines/batches/:id/movements.
//
// @Summary      List batch stock movements
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Batch id"
// @Success      200  {object}  envelope
// @Router       /api/vaccines/batches/{id}/movements [get]
func (h *InventoryHandler) Movements(c echo.Context) error {
	out, err := h.service.Movements(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

func (h *InventoryHandler) move(c echo.Context, kind domain.MovementKind) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req movementRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	in := ports.MovementInput{
		BatchID:  c.Param("id"),
		Quantity: req.Quantity,
		Notes:    req.Notes,
	}

	var batch *domain.VaccineBatch
	if kind == domain.MovementReceipt {
		batch, err = h.service.Receive(c.Request().Context(), actor, in)
	} else {
		batch, err = h.service.Export(c.Request().Context(), actor, in)
	}
	if err != nil {
		return err
	}

	metrics.StockMovementsTotal.WithLabelValues(string(kind)).Inc()
	return ok(c, batch)
}
