package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/petvax/vaccination-system/internal/core/ports"
)

type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Summary handles GET /api/dashboard/summary.
//
// @Summary      Dashboard summary
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) Summary(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	counts, err := h.service.Summary(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return ok(c, counts)
}
