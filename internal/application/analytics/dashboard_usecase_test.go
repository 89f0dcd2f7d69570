package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comsanjuan/recibos-admin-api/internal/application/analytics"
	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
	"github.com/comsanjuan/recibos-admin-api/internal/application/recibos"
	"github.com/comsanjuan/recibos-admin-api/internal/domain"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/authz"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/entity"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/repository"
)

// countsRepo repositorio con solo los conteos implementados.
type countsRepo struct {
	total    int
	byStatus map[string]int
	failAll  bool
}

var _ repository.UserProfileRepository = (*countsRepo)(nil)

func (r *countsRepo) Create(ctx context.Context, u *entity.UserProfile) error { return nil }
func (r *countsRepo) GetByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	return nil, nil
}
func (r *countsRepo) GetByEmail(ctx context.Context, email string) (*entity.UserProfile, error) {
	return nil, nil
}
func (r *countsRepo) Update(ctx context.Context, u *entity.UserProfile) error { return nil }
func (r *countsRepo) Delete(ctx context.Context, id string) error             { return nil }
func (r *countsRepo) List(ctx context.Context, f repository.UserFilter, limit int, cursor string) ([]*entity.UserProfile, string, error) {
	return nil, "", nil
}
func (r *countsRepo) ExistsAny(ctx context.Context) (bool, error) { return r.total > 0, nil }
func (r *countsRepo) CountAll(ctx context.Context) (int, error) {
	if r.failAll {
		return 0, errors.New("conexión perdida")
	}
	return r.total, nil
}
func (r *countsRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	return r.byStatus, nil
}
func (r *countsRepo) CountByRole(ctx context.Context) (map[string]int, error) {
	return map[string]int{}, nil
}
func (r *countsRepo) TouchLastAccess(ctx context.Context, id string, t time.Time) error { return nil }

// apiConStats cliente de recibos que solo responde estadísticas.
type apiConStats struct {
	stats dto.EstadisticasRecibos
}

func (c *apiConStats) Listar(ctx context.Context, f dto.FiltrosRecibos) ([]dto.ReciboDigital, int, error) {
	return nil, 0, nil
}
func (c *apiConStats) ObtenerPorNumero(ctx context.Context, numero string) (*dto.ReciboDigital, error) {
	return nil, nil
}
func (c *apiConStats) BuscarAvanzado(ctx context.Context, f dto.FiltrosRecibos) ([]dto.ReciboDigital, error) {
	return nil, nil
}
func (c *apiConStats) Estadisticas(ctx context.Context, f dto.FiltrosRecibos) (*dto.EstadisticasRecibos, error) {
	return &c.stats, nil
}

func adminActor() *entity.UserProfile {
	return &entity.UserProfile{
		ID:          "admin-1",
		Role:        authz.RoleAdmin,
		Status:      entity.StatusActivo,
		Permissions: authz.PermissionsFor(authz.RoleAdmin),
	}
}

func TestGetMetrics_CombinaUsuariosYRecibos(t *testing.T) {
	repo := &countsRepo{
		total: 7,
		byStatus: map[string]int{
			entity.StatusActivo:     4,
			entity.StatusInactivo:   2,
			entity.StatusSuspendido: 1,
		},
	}
	api := &apiConStats{stats: dto.EstadisticasRecibos{
		TotalRecibos:      42,
		TotalIngresos:     decimal.RequireFromString("9999.99"),
		TotalPendiente:    decimal.RequireFromString("120.00"),
		RecibosPendientes: 3,
	}}
	uc := analytics.NewDashboardUseCase(repo, recibos.NewUseCase(api, nil, zerolog.Nop()))

	out, err := uc.GetMetrics(context.Background(), adminActor())
	require.NoError(t, err)

	assert.Equal(t, 7, out.TotalUsuarios)
	assert.Equal(t, 4, out.UsuariosActivos)
	assert.Equal(t, 3, out.UsuariosInactivos, "inactivos incluye suspendidos")
	assert.Equal(t, 42, out.TotalRecibos)
	assert.Equal(t, 3, out.RecibosPendientes)
	assert.Equal(t, dto.FuenteAPI, out.FuenteRecibos)
	assert.True(t, out.MontoTotalRecibos.Equal(decimal.RequireFromString("9999.99")))
}

func TestGetMetrics_FalloDeUsuariosAborta(t *testing.T) {
	repo := &countsRepo{failAll: true, byStatus: map[string]int{}}
	uc := analytics.NewDashboardUseCase(repo, recibos.NewUseCase(&apiConStats{}, nil, zerolog.Nop()))

	_, err := uc.GetMetrics(context.Background(), adminActor())
	assert.Error(t, err, "las métricas de usuarios son autoritativas: sin ellas no hay dashboard")
}

func TestGetMetrics_SinCapacidad(t *testing.T) {
	actor := adminActor()
	actor.Permissions = authz.PermissionsFor(authz.RoleAuditor)
	uc := analytics.NewDashboardUseCase(&countsRepo{}, recibos.NewUseCase(&apiConStats{}, nil, zerolog.Nop()))

	_, err := uc.GetMetrics(context.Background(), actor)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
