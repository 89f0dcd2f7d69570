package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
	"github.com/comsanjuan/recibos-admin-api/internal/domain"
)

// domainError traduce los errores sentinela del dominio a respuestas HTTP.
// Todo lo no mapeado es un 500 genérico.
func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrAccountDisabled):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "ACCOUNT_DISABLED", Message: "cuenta inactiva o suspendida"})
	case errors.Is(err, domain.ErrTooManyAttempts):
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "TOO_MANY_ATTEMPTS", Message: "demasiados intentos fallidos, intente más tarde"})
	case errors.Is(err, domain.ErrProfileMissing):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "PROFILE_MISSING", Message: "la cuenta ya no existe; cierre la sesión", ForceLogout: true})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no tiene permiso para esta operación"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "el usuario no existe"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
