package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/authz"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/entity"
	apphttp "github.com/comsanjuan/recibos-admin-api/internal/interfaces/http"
	pkgjwt "github.com/comsanjuan/recibos-admin-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "recibos-admin-test"
	testExpMin    = 60
)

// fakeAuthService implementa los contratos que consumen los middlewares.
type fakeAuthService struct {
	revokedJTIs map[string]bool
	profile     *entity.UserProfile
	loadErr     error
}

func (s *fakeAuthService) IsTokenRevoked(ctx context.Context, jti string) bool {
	return s.revokedJTIs[jti]
}

func (s *fakeAuthService) GetProfile(ctx context.Context, userID string) (*entity.UserProfile, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.profile, nil
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireCapability para autorizar por snapshot de permisos
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(svc *fakeAuthService, cap authz.Capability) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, svc),
		apphttp.RequireCapability(cap, svc),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenFor genera un JWT de prueba y devuelve también su jti.
func tokenFor(t *testing.T, role string) (header, jti string) {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "test@comsanjuan.com", role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	claims, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	return "Bearer " + tok, claims.ID
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func adminProfile() *entity.UserProfile {
	return &entity.UserProfile{
		ID:          testUserID,
		Email:       "test@comsanjuan.com",
		Role:        authz.RoleAdmin,
		Status:      entity.StatusActivo,
		Permissions: authz.PermissionsFor(authz.RoleAdmin),
	}
}

func errorBody(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_SinHeader(t *testing.T) {
	app := buildTestApp(&fakeAuthService{profile: adminProfile()}, authz.CapGestionUsuarios)

	resp := doRequest(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", errorBody(t, resp).Code)
}

func TestAuth_FormatoInvalido(t *testing.T) {
	app := buildTestApp(&fakeAuthService{profile: adminProfile()}, authz.CapGestionUsuarios)

	resp := doRequest(t, app, "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_TokenIlegible(t *testing.T) {
	app := buildTestApp(&fakeAuthService{profile: adminProfile()}, authz.CapGestionUsuarios)

	resp := doRequest(t, app, "Bearer no-es-un-jwt")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorBody(t, resp).Code)
}

func TestAuth_TokenExpirado(t *testing.T) {
	app := buildTestApp(&fakeAuthService{profile: adminProfile()}, authz.CapGestionUsuarios)

	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "x@y.com", "admin", testIssuer, -1)
	require.NoError(t, err)

	// Esperar a que el exp negativo sea efectivo (ya nació vencido).
	time.Sleep(10 * time.Millisecond)
	resp := doRequest(t, app, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_TokenRevocado(t *testing.T) {
	svc := &fakeAuthService{profile: adminProfile(), revokedJTIs: map[string]bool{}}
	app := buildTestApp(svc, authz.CapGestionUsuarios)

	header, jti := tokenFor(t, "admin")
	svc.revokedJTIs[jti] = true

	resp := doRequest(t, app, header)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "TOKEN_REVOKED", errorBody(t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireCapability
// ──────────────────────────────────────────────────────────────────────────────

func TestCapability_AdminGestionaUsuarios(t *testing.T) {
	app := buildTestApp(&fakeAuthService{profile: adminProfile()}, authz.CapGestionUsuarios)

	header, _ := tokenFor(t, "admin")
	resp := doRequest(t, app, header)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// La autorización sale del snapshot del perfil, no del rol del token: un
// token que dice "admin" con un perfil de auditor no pasa.
func TestCapability_SnapshotMandaSobreElToken(t *testing.T) {
	profile := adminProfile()
	profile.Role = authz.RoleAuditor
	profile.Permissions = authz.PermissionsFor(authz.RoleAuditor)
	app := buildTestApp(&fakeAuthService{profile: profile}, authz.CapGestionUsuarios)

	header, _ := tokenFor(t, "admin")
	resp := doRequest(t, app, header)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "CAPABILITY_DENIED", errorBody(t, resp).Code)
}

func TestCapability_PerfilAusenteFuerzaLogout(t *testing.T) {
	app := buildTestApp(&fakeAuthService{profile: nil}, authz.CapGestionUsuarios)

	header, _ := tokenFor(t, "admin")
	resp := doRequest(t, app, header)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := errorBody(t, resp)
	assert.Equal(t, "PROFILE_MISSING", body.Code)
	assert.True(t, body.ForceLogout, "el cliente debe cerrar la sesión")
}

func TestCapability_FalloDeInfra503(t *testing.T) {
	app := buildTestApp(&fakeAuthService{loadErr: errors.New("conexión perdida")}, authz.CapGestionUsuarios)

	header, _ := tokenFor(t, "admin")
	resp := doRequest(t, app, header)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestCapability_AuditorConsultaAuditoria(t *testing.T) {
	profile := adminProfile()
	profile.Role = authz.RoleAuditor
	profile.Permissions = authz.PermissionsFor(authz.RoleAuditor)
	app := buildTestApp(&fakeAuthService{profile: profile}, authz.CapAuditoria)

	header, _ := tokenFor(t, "auditor")
	resp := doRequest(t, app, header)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
