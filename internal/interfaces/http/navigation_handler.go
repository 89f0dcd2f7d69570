package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/comsanjuan/recibos-admin-api/internal/application/auth"
	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
	"github.com/comsanjuan/recibos-admin-api/internal/application/setup"
	"github.com/comsanjuan/recibos-admin-api/internal/domain"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/navigation"
	"github.com/comsanjuan/recibos-admin-api/pkg/jwt"
)

// NavigationHandler evalúa la guardia de navegación para el cliente.
type NavigationHandler struct {
	gate      *setup.Gate
	authUC    *auth.UseCase
	jwtSecret string
}

// NewNavigationHandler construye el handler de navegación.
func NewNavigationHandler(gate *setup.Gate, authUC *auth.UseCase, jwtSecret string) *NavigationHandler {
	return &NavigationHandler{gate: gate, authUC: authUC, jwtSecret: jwtSecret}
}

// Check godoc
// @Summary      Evaluar una transición de página del panel
// @Description  El token Bearer es opcional: sin él la guardia evalúa como
// @Description  visitante anónimo. La respuesta indica si la navegación
// @Description  procede o a dónde redirigir.
// @Tags         navigation
// @Produce      json
// @Param        ruta  query  string  true  "ruta destino, ej. /dashboard"
// @Success      200   {object}  dto.NavigationCheckResponse
// @Router       /api/navigation/check [get]
func (h *NavigationHandler) Check(c *fiber.Ctx) error {
	ruta := c.Query("ruta", "/")

	// El chequeo de inicialización siempre se completa primero; ante un fallo
	// del almacén reporta no-inicializado (fail-closed dentro del gate).
	initialized := h.gate.CheckInitialization(c.Context())

	in := navigation.Input{
		Path:              ruta,
		Rules:             navigation.RulesFor(ruta),
		SystemInitialized: initialized,
	}

	// Resolución de sesión opcional: un token ilegible cuenta como visitante.
	var claims *jwt.Claims
	if tokenString, ok := bearerToken(c); ok {
		if parsed, err := jwt.Parse(h.jwtSecret, tokenString); err == nil {
			if !h.authUC.IsTokenRevoked(c.Context(), parsed.ID) {
				claims = parsed
			}
		}
	}
	if claims != nil {
		in.Authenticated = true
		sess, err := h.authUC.ResolveSession(c.Context(), claims)
		switch {
		case err == nil:
			in.ProfileResolved = true
			in.IsAdmin = sess.Profile.IsAdmin()
		case errors.Is(err, domain.ErrProfileMissing):
			// ResolveSession ya revocó el token; la guardia fuerza el logout.
		default:
			// Fallo de infraestructura: la guardia cierra hacia login.
			return c.JSON(decisionResponse(navigation.FailClosed()))
		}
	}

	return c.JSON(decisionResponse(navigation.Evaluate(in)))
}

func decisionResponse(d navigation.Decision) dto.NavigationCheckResponse {
	return dto.NavigationCheckResponse{
		Allow:       d.Action == navigation.ActionAllow,
		RedirectTo:  d.Target,
		ForceLogout: d.ForceLogout,
	}
}
