package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/comsanjuan/recibos-admin-api/internal/application/auth"
	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
)

// AuthHandler maneja login, logout y el perfil de la sesión.
type AuthHandler struct {
	uc *auth.UseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.UseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}

	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión (revoca el token actual)
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.Context(), GetClaims(c)); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Profile godoc
// @Summary      Perfil de la sesión actual
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/perfil [get]
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	sess, err := h.uc.ResolveSession(c.Context(), GetClaims(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToUserResponse(sess.Profile))
}
