package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
	"github.com/comsanjuan/recibos-admin-api/internal/application/setup"
)

// SetupHandler maneja el arranque inicial del sistema.
type SetupHandler struct {
	gate *setup.Gate
}

// NewSetupHandler construye el handler de setup.
func NewSetupHandler(gate *setup.Gate) *SetupHandler {
	return &SetupHandler{gate: gate}
}

// Status godoc
// @Summary      Estado de inicialización del sistema
// @Tags         setup
// @Produce      json
// @Success      200  {object}  dto.SetupStatusResponse
// @Router       /api/setup/status [get]
func (h *SetupHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.gate.Status(c.Context()))
}

// CreateFirstAdmin godoc
// @Summary      Crear el primer super administrador
// @Description  Solo disponible mientras el sistema no tiene usuarios. El rol
// @Description  es siempre super_admin; el cuerpo no puede elegir otro.
// @Tags         setup
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FirstAdminRequest  true  "email, password, nombre_completo"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/setup/primer-admin [post]
func (h *SetupHandler) CreateFirstAdmin(c *fiber.Ctx) error {
	var in dto.FirstAdminRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	user, err := h.gate.CreateFirstAdmin(c.Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}
