package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/comsanjuan/recibos-admin-api/internal/application/analytics"
)

// DashboardHandler maneja las métricas agregadas del panel.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Metrics godoc
// @Summary      Métricas del dashboard
// @Description  Combina conteos del directorio de usuarios con agregados de
// @Description  recibos; fuente_recibos indica si los recibos vienen de la API
// @Description  o de la muestra local.
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.DashboardMetrics
// @Router       /api/dashboard/metricas [get]
func (h *DashboardHandler) Metrics(c *fiber.Ctx) error {
	out, err := h.uc.GetMetrics(c.Context(), GetProfileLocal(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
