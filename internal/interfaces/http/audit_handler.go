package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/comsanjuan/recibos-admin-api/internal/application/usecase"
)

// AuditHandler maneja la consulta del registro de auditoría.
type AuditHandler struct {
	uc *usecase.AuditUseCase
}

// NewAuditHandler construye el handler de auditoría.
func NewAuditHandler(uc *usecase.AuditUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Listar entradas de auditoría
// @Tags         auditoria
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query  int  false  "tamaño de página (default 50, max 200)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.AuditLogResponse
// @Router       /api/auditoria [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)

	out, err := h.uc.List(c.Context(), GetProfileLocal(c), limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
