package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/petvax/vaccination-system/internal/core/ports"
)

// PetHandler handles HTTP requests for pet operations.
type PetHandler struct {
	service ports.PetService
}

func NewPetHandler(service ports.PetService) *PetHandler {
	return &PetHandler{service: service}
}

type createPetRequest struct {
	OwnerID       string  `json:"owner_id"`
	Name          string  `json:"name" validate:"required"`
	Species       string  `json:"species" validate:"required"`
	Breed         string  `json:"breed"`
	DateOfBirth   string  `json:"date_of_birth"`
	WeightKg      float64 `json:"weight_kg" validate:"gte=0"`
	MicrochipCode string  `json:"microchip_code"`
}

type updatePetRequest struct {
	Name          string  `json:"name"`
	Breed         string  `json:"breed"`
	WeightKg      float64 `json:"weight_kg" validate:"gte=0"`
	MicrochipCode string  `json:"microchip_code"`
}

// Create handles POST /api/pets.
//
// @Summary      Register a pet
// @Tags         pets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPetRequest  true  "Pet details"
// @Success      201   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /api/pets [post]
func (h *PetHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createPetRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	pet, err := h.service.Create(c.Request().Context(), actor, ports.CreatePetInput{
		OwnerID:       req.OwnerID,
		Name:          req.Name,
		Species:       req.Species,
		Breed:         req.Breed,
		DateOfBirth:   req.DateOfBirth,
		WeightKg:      req.WeightKg,
		MicrochipCode: req.MicrochipCode,
	})
	if err != nil {
		return err
	}
	return created(c, pet)
}

// Get handles GET /api/pets/:id.
//
// @Summary      Get a pet
// @Tags         pets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Pet id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /api/pets/{id} [get]
func (h *PetHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	pet, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, pet)
}

// Update handles PUT /api/pets/:id.
//
// @Summary      Update a pet
// @Tags         pets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Pet id"
// @Param        body  body      updatePetRequest  true  "Fields to update"
// @Success      200   {object}  envelope
// @Router       /api/pets/{id} [put]
func (h *PetHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updatePetRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	pet, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), ports.UpdatePetInput{
		Name:          req.Name,
		Breed:         req.Breed,
		WeightKg:      req.WeightKg,
		MicrochipCode: req.MicrochipCode,
	})
	if err != nil {
		return err
	}
	return ok(c, pet)
}

// Delete handles DELETE /api/pets/:id.
//
// @Summary      Delete a pet
// @Tags         pets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Pet id"
// @Success      200  {object}  envelope
// @Router       /api/pets/{id} [delete]
func (h *PetHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return okMessage(c, "pet deleted", nil)
}

// List handles GET /api/pets.
//
// @Summary      List pets
// @Tags         pets
// @Produce      json
// @Security     BearerAuth
// @Param        page     query     int     false  "Page (1-based)"
// @Param        limit    query     int     false  "Page size (max 100)"
// @Param        search   query     string  false  "Name or microchip search"
// @Param        species  query     string  false  "Species filter"
// @Success      200      {object}  envelope
// @Router       /api/pets [get]
func (h *PetHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), ports.ListPetsInput{
		Actor:   actor,
		OwnerID: c.QueryParam("owner_id"),
		Species: c.QueryParam("species"),
		Search:  c.QueryParam("search"),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return err
	}

	return paged(c,
		pageInfo{Page: result.Page, Limit: result.Limit, Total: result.Total, TotalPages: result.TotalPages},
		searchInfo{Keyword: c.QueryParam("search")},
		result.Items,
	)
}
