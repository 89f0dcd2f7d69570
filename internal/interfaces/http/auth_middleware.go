package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
	"github.com/comsanjuan/recibos-admin-api/pkg/jwt"
)

// Locals keys para la identidad autenticada en Fiber.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalRole   = "role"
	LocalClaims = "claims"
)

// revocationChecker contrato mínimo para consultar la lista de revocación.
// Lo implementa *auth.UseCase; la interfaz evita el import circular.
type revocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) bool
}

// AuthMiddleware valida el Bearer Token JWT, rechaza tokens revocados y deja
// la identidad en c.Locals.
func AuthMiddleware(jwtSecret string, revoked revocationChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if revoked != nil && revoked.IsTokenRevoked(c.Context(), claims.ID) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "TOKEN_REVOKED", Message: "la sesión fue cerrada"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalClaims, claims)
		return c.Next()
	}
}

// bearerToken extrae el token del header Authorization.
func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetEmail devuelve el email del contexto.
func GetEmail(c *fiber.Ctx) string {
	return localString(c, LocalEmail)
}

// GetRole devuelve el rol del token (informativo; la autorización real usa el
// snapshot de permisos del perfil).
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

// GetClaims devuelve los claims completos del token, o nil.
func GetClaims(c *fiber.Ctx) *jwt.Claims {
	v := c.Locals(LocalClaims)
	if v == nil {
		return nil
	}
	claims, _ := v.(*jwt.Claims)
	return claims
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
