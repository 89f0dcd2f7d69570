package recibos_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
	"github.com/comsanjuan/recibos-admin-api/internal/application/recibos"
	"github.com/comsanjuan/recibos-admin-api/internal/domain"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/authz"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/entity"
)

var errAPICaida = errors.New("connection refused")

// fakeAPI cliente configurable: con down=true toda llamada falla.
type fakeAPI struct {
	down         bool
	data         []dto.ReciboDigital
	stats        *dto.EstadisticasRecibos
	lastFiltros  dto.FiltrosRecibos
}

func (c *fakeAPI) Listar(ctx context.Context, f dto.FiltrosRecibos) ([]dto.ReciboDigital, int, error) {
	if c.down {
		return nil, 0, errAPICaida
	}
	c.lastFiltros = f
	return c.data, len(c.data), nil
}

func (c *fakeAPI) ObtenerPorNumero(ctx context.Context, numero string) (*dto.ReciboDigital, error) {
	if c.down {
		return nil, errAPICaida
	}
	for i := range c.data {
		if c.data[i].NumeroRecibo == numero {
			return &c.data[i], nil
		}
	}
	return nil, nil
}

func (c *fakeAPI) BuscarAvanzado(ctx context.Context, f dto.FiltrosRecibos) ([]dto.ReciboDigital, error) {
	if c.down {
		return nil, errAPICaida
	}
	c.lastFiltros = f
	return c.data, nil
}

func (c *fakeAPI) Estadisticas(ctx context.Context, f dto.FiltrosRecibos) (*dto.EstadisticasRecibos, error) {
	if c.down {
		return nil, errAPICaida
	}
	return c.stats, nil
}

func operador() *entity.UserProfile {
	return &entity.UserProfile{
		ID:          "op-1",
		Role:        authz.RoleAdmin,
		Status:      entity.StatusActivo,
		Permissions: authz.PermissionsFor(authz.RoleAdmin),
	}
}

func newUC(api *fakeAPI) *recibos.UseCase {
	return recibos.NewUseCase(api, nil, zerolog.Nop())
}

// ──────────────────────────────────────────────────────────────────────────────
// Listar: API disponible y degradación a muestra local.
// ──────────────────────────────────────────────────────────────────────────────

func TestListar_DesdeAPI(t *testing.T) {
	api := &fakeAPI{data: []dto.ReciboDigital{{ReciboID: 99, NumeroRecibo: "REC-2025-099"}}}
	uc := newUC(api)

	out, err := uc.Listar(context.Background(), operador(), dto.FiltrosRecibos{})
	require.NoError(t, err)

	assert.Equal(t, dto.FuenteAPI, out.Fuente)
	assert.Equal(t, 1, out.TotalRecords)
	assert.Equal(t, "REC-2025-099", out.Data[0].NumeroRecibo)
}

func TestListar_APICaidaDegradaAMuestra(t *testing.T) {
	uc := newUC(&fakeAPI{down: true})

	out, err := uc.Listar(context.Background(), operador(), dto.FiltrosRecibos{})
	require.NoError(t, err, "la degradación nunca devuelve error al panel")

	assert.Equal(t, dto.FuenteDatosPrueba, out.Fuente, "la muestra siempre va etiquetada")
	assert.Equal(t, 5, out.TotalRecords)
	assert.Equal(t, "REC-2025-001", out.Data[0].NumeroRecibo)
}

func TestListar_MuestraFiltradaPorFecha(t *testing.T) {
	uc := newUC(&fakeAPI{down: true})

	out, err := uc.Listar(context.Background(), operador(), dto.FiltrosRecibos{
		FechaInicio: "2025-01-17",
	})
	require.NoError(t, err)

	require.Len(t, out.Data, 3)
	for _, r := range out.Data {
		assert.GreaterOrEqual(t, r.FechaGeneracion, "2025-01-17")
	}
}

func TestListar_SinCapacidad(t *testing.T) {
	actor := operador()
	actor.Permissions = authz.PermissionSet{}
	uc := newUC(&fakeAPI{})

	_, err := uc.Listar(context.Background(), actor, dto.FiltrosRecibos{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas puntuales: sin degradación.
// ──────────────────────────────────────────────────────────────────────────────

func TestObtenerPorNumero_Encontrado(t *testing.T) {
	api := &fakeAPI{data: []dto.ReciboDigital{{ReciboID: 7, NumeroRecibo: "REC-2025-007"}}}
	uc := newUC(api)

	recibo, err := uc.ObtenerPorNumero(context.Background(), operador(), "REC-2025-007")
	require.NoError(t, err)
	assert.Equal(t, 7, recibo.ReciboID)
}

func TestObtenerPorNumero_NoExiste(t *testing.T) {
	uc := newUC(&fakeAPI{})

	_, err := uc.ObtenerPorNumero(context.Background(), operador(), "REC-0000-000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Un recibo puntual jamás sale de la muestra local: el error se propaga.
func TestObtenerPorNumero_APICaidaPropagaError(t *testing.T) {
	uc := newUC(&fakeAPI{down: true})

	_, err := uc.ObtenerPorNumero(context.Background(), operador(), "REC-2025-001")
	assert.ErrorIs(t, err, errAPICaida)
}

func TestBuscarAvanzado_APICaidaPropagaError(t *testing.T) {
	uc := newUC(&fakeAPI{down: true})

	_, err := uc.BuscarAvanzado(context.Background(), operador(), dto.FiltrosRecibos{Estado: "procesado"})
	assert.ErrorIs(t, err, errAPICaida)
}

// ──────────────────────────────────────────────────────────────────────────────
// Buscar: heurística número de recibo vs nombre de cliente.
// ──────────────────────────────────────────────────────────────────────────────

func TestBuscar_TerminoConPintaDeNumero(t *testing.T) {
	api := &fakeAPI{}
	uc := newUC(api)

	_, err := uc.Buscar(context.Background(), operador(), "REC-2025-001")
	require.NoError(t, err)
	assert.Equal(t, "REC-2025-001", api.lastFiltros.NumeroRecibo)
	assert.Empty(t, api.lastFiltros.ClienteNombre)
}

func TestBuscar_TerminoConPintaDeNombre(t *testing.T) {
	api := &fakeAPI{}
	uc := newUC(api)

	_, err := uc.Buscar(context.Background(), operador(), "Juan Pérez")
	require.NoError(t, err)
	assert.Equal(t, "Juan Pérez", api.lastFiltros.ClienteNombre)
	assert.Empty(t, api.lastFiltros.NumeroRecibo)
}

func TestBuscar_TerminoVacio(t *testing.T) {
	api := &fakeAPI{down: true} // no debe ni llegar a la API
	uc := newUC(api)

	out, err := uc.Buscar(context.Background(), operador(), "   ")
	require.NoError(t, err)
	assert.Empty(t, out)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estadísticas.
// ──────────────────────────────────────────────────────────────────────────────

func TestEstadisticas_DesdeAPI(t *testing.T) {
	api := &fakeAPI{stats: &dto.EstadisticasRecibos{TotalRecibos: 120}}
	uc := newUC(api)

	out, err := uc.Estadisticas(context.Background(), operador(), dto.FiltrosRecibos{})
	require.NoError(t, err)
	assert.Equal(t, dto.FuenteAPI, out.Fuente)
	assert.Equal(t, 120, out.Data.TotalRecibos)
}

func TestEstadisticas_APICaidaCalculaSobreMuestra(t *testing.T) {
	uc := newUC(&fakeAPI{down: true})

	out, err := uc.Estadisticas(context.Background(), operador(), dto.FiltrosRecibos{})
	require.NoError(t, err)

	assert.Equal(t, dto.FuenteDatosPrueba, out.Fuente)
	assert.Equal(t, 5, out.Data.TotalRecibos)
	assert.Equal(t, 3, out.Data.RecibosCancelados)
	assert.Equal(t, 1, out.Data.RecibosPendientes)
	assert.Equal(t, 1, out.Data.RecibosParciales)
	assert.True(t, out.Data.TotalIngresos.Equal(decimal.RequireFromString("4951.50")),
		"ingresos = 1250.50+850.75+0+2100.00+750.25, obtuve %s", out.Data.TotalIngresos)
	assert.True(t, out.Data.TotalPendiente.Equal(decimal.RequireFromString("1700.25")))
}
