// Package recibos consulta los recibos digitales del negocio contra la API
// remota. El panel nunca persiste recibos: la API es la fuente autoritativa,
// y solo el listado y las estadísticas degradan a una muestra local de
// desarrollo cuando la API no responde.
package recibos

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
	"github.com/comsanjuan/recibos-admin-api/internal/domain"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/authz"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/entity"
)

// numeroReciboPattern un término compuesto solo de letras, dígitos y guiones
// se interpreta como número de recibo; cualquier otro, como nombre de cliente.
var numeroReciboPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// UseCase casos de uso sobre recibos digitales.
type UseCase struct {
	api APIClient
	pdf PDFGenerator
	log zerolog.Logger
}

// NewUseCase construye el caso de uso. pdf puede ser nil si no se exporta PDF.
func NewUseCase(api APIClient, pdf PDFGenerator, log zerolog.Logger) *UseCase {
	return &UseCase{api: api, pdf: pdf, log: log}
}

// Listar consulta los recibos con filtros opcionales. Si la API remota no
// responde, devuelve la muestra local filtrada por fecha, con la fuente
// marcada como datos de prueba.
func (uc *UseCase) Listar(ctx context.Context, actor *entity.UserProfile, filtros dto.FiltrosRecibos) (*dto.RecibosListResponse, error) {
	if !actor.Can(authz.CapGestionRecibos) {
		return nil, domain.ErrForbidden
	}

	data, total, err := uc.api.Listar(ctx, filtros)
	if err == nil {
		return &dto.RecibosListResponse{Data: data, TotalRecords: total, Fuente: dto.FuenteAPI}, nil
	}

	uc.log.Warn().Err(err).Msg("API de recibos no disponible, sirviendo muestra local")
	muestra := filtrarPorFecha(sampleRecibos(), filtros)
	return &dto.RecibosListResponse{Data: muestra, TotalRecords: len(muestra), Fuente: dto.FuenteDatosPrueba}, nil
}

// ObtenerPorNumero consulta un recibo puntual. Sin degradación: un recibo
// individual inventado sería peor que un error.
func (uc *UseCase) ObtenerPorNumero(ctx context.Context, actor *entity.UserProfile, numero string) (*dto.ReciboDigital, error) {
	if !actor.Can(authz.CapGestionRecibos) {
		return nil, domain.ErrForbidden
	}
	numero = strings.TrimSpace(numero)
	if numero == "" {
		return nil, fmt.Errorf("%w: número de recibo vacío", domain.ErrInvalidInput)
	}

	recibo, err := uc.api.ObtenerPorNumero(ctx, numero)
	if err != nil {
		return nil, err
	}
	if recibo == nil {
		return nil, domain.ErrNotFound
	}
	return recibo, nil
}

// BuscarAvanzado ejecuta una búsqueda estructurada contra la API. Sin
// degradación: el error se propaga.
func (uc *UseCase) BuscarAvanzado(ctx context.Context, actor *entity.UserProfile, filtros dto.FiltrosRecibos) ([]dto.ReciboDigital, error) {
	if !actor.Can(authz.CapGestionRecibos) {
		return nil, domain.ErrForbidden
	}
	return uc.api.BuscarAvanzado(ctx, filtros)
}

// Buscar búsqueda por texto libre: si el término parece un número de recibo
// busca por número, si no, por nombre de cliente.
func (uc *UseCase) Buscar(ctx context.Context, actor *entity.UserProfile, texto string) ([]dto.ReciboDigital, error) {
	if !actor.Can(authz.CapGestionRecibos) {
		return nil, domain.ErrForbidden
	}
	texto = strings.TrimSpace(texto)
	if texto == "" {
		return []dto.ReciboDigital{}, nil
	}

	var filtros dto.FiltrosRecibos
	if numeroReciboPattern.MatchString(texto) {
		filtros.NumeroRecibo = texto
	} else {
		filtros.ClienteNombre = texto
	}
	return uc.api.BuscarAvanzado(ctx, filtros)
}

// Estadisticas consulta los agregados de recibos. Si la API no responde, los
// calcula sobre la muestra local y lo marca en la fuente.
func (uc *UseCase) Estadisticas(ctx context.Context, actor *entity.UserProfile, filtros dto.FiltrosRecibos) (*dto.EstadisticasResponse, error) {
	if !actor.Can(authz.CapGestionRecibos) {
		return nil, domain.ErrForbidden
	}

	stats, err := uc.api.Estadisticas(ctx, filtros)
	if err == nil && stats != nil {
		return &dto.EstadisticasResponse{Data: *stats, Fuente: dto.FuenteAPI}, nil
	}

	uc.log.Warn().Err(err).Msg("API de estadísticas no disponible, calculando sobre la muestra local")
	return &dto.EstadisticasResponse{
		Data:   calcularEstadisticas(sampleRecibos()),
		Fuente: dto.FuenteDatosPrueba,
	}, nil
}

// ExportarPDF genera el PDF de un recibo puntual.
func (uc *UseCase) ExportarPDF(ctx context.Context, actor *entity.UserProfile, numero string) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("exportación PDF no configurada")
	}
	recibo, err := uc.ObtenerPorNumero(ctx, actor, numero)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerarReciboPDF(*recibo)
}

// filtrarPorFecha aplica fechaInicio/fechaFin sobre la muestra local; el
// resto de filtros no aplica a datos de prueba.
func filtrarPorFecha(data []dto.ReciboDigital, filtros dto.FiltrosRecibos) []dto.ReciboDigital {
	if filtros.FechaInicio == "" && filtros.FechaFin == "" {
		return data
	}

	desde, errDesde := parseFecha(filtros.FechaInicio)
	hasta, errHasta := parseFecha(filtros.FechaFin)

	out := make([]dto.ReciboDigital, 0, len(data))
	for _, r := range data {
		fecha, err := time.Parse(time.RFC3339, r.FechaGeneracion)
		if err != nil {
			continue
		}
		if filtros.FechaInicio != "" && errDesde == nil && fecha.Before(desde) {
			continue
		}
		if filtros.FechaFin != "" && errHasta == nil && fecha.After(hasta) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func parseFecha(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// calcularEstadisticas agrega la muestra local del mismo modo que la API
// agrega los recibos reales.
func calcularEstadisticas(data []dto.ReciboDigital) dto.EstadisticasRecibos {
	stats := dto.EstadisticasRecibos{
		TotalRecibos:   len(data),
		TotalIngresos:  decimal.Zero,
		TotalPendiente: decimal.Zero,
	}
	for _, r := range data {
		stats.TotalIngresos = stats.TotalIngresos.Add(r.MontoPagado)
		stats.TotalPendiente = stats.TotalPendiente.Add(r.SaldoPendiente)
		switch r.EstadoPago {
		case "Cancelado":
			stats.RecibosCancelados++
		case "Pendiente":
			stats.RecibosPendientes++
		case "Parcial":
			stats.RecibosParciales++
		}
	}
	return stats
}
