package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/authz"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/entity"
)

// LocalProfile clave de Locals con el perfil cargado del actor.
const LocalProfile = "profile"

// profileLoader contrato mínimo para cargar el perfil del actor.
// Lo implementa *auth.UseCase; la interfaz evita el import circular.
type profileLoader interface {
	GetProfile(ctx context.Context, userID string) (*entity.UserProfile, error)
}

// RequireCapability devuelve un middleware Fiber que carga el perfil del
// actor y verifica la capacidad sobre su snapshot de permisos. Debe usarse
// DESPUÉS de AuthMiddleware (necesita LocalUserID).
//
// Comportamiento:
//   - 401 + force_logout → identidad válida sin perfil: sesión inconsistente.
//   - 403 Forbidden → el snapshot no tiene la capacidad.
//   - 503 Service Unavailable → fallo de infraestructura al cargar el perfil.
func RequireCapability(cap authz.Capability, loader profileLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "user_id no encontrado en el token",
			})
		}

		profile, err := loader.GetProfile(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "PROFILE_CHECK_FAILED",
				Message: "no se pudo verificar el perfil, intente más tarde",
			})
		}
		if profile == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:        "PROFILE_MISSING",
				Message:     "la cuenta ya no existe; cierre la sesión",
				ForceLogout: true,
			})
		}
		if !profile.Can(cap) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "CAPABILITY_DENIED",
				Message: "no tiene la capacidad '" + string(cap) + "'",
			})
		}

		c.Locals(LocalProfile, profile)
		return c.Next()
	}
}

// GetProfileLocal devuelve el perfil cargado por RequireCapability, o nil.
func GetProfileLocal(c *fiber.Ctx) *entity.UserProfile {
	v := c.Locals(LocalProfile)
	if v == nil {
		return nil
	}
	p, _ := v.(*entity.UserProfile)
	return p
}
