package recibos

import (
	"context"

	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
)

// APIClient puerto hacia la API remota de recibos digitales.
type APIClient interface {
	// Listar consulta GET /recibo-digital con filtros como query params.
	Listar(ctx context.Context, filtros dto.FiltrosRecibos) ([]dto.ReciboDigital, int, error)
	// ObtenerPorNumero consulta GET /recibo-digital/{numero}.
	ObtenerPorNumero(ctx context.Context, numero string) (*dto.ReciboDigital, error)
	// BuscarAvanzado consulta POST /recibo-digital/buscar con filtros en el cuerpo.
	BuscarAvanzado(ctx context.Context, filtros dto.FiltrosRecibos) ([]dto.ReciboDigital, error)
	// Estadisticas consulta GET /recibo-digital/estadisticas.
	Estadisticas(ctx context.Context, filtros dto.FiltrosRecibos) (*dto.EstadisticasRecibos, error)
}

// PDFGenerator puerto para exportar un recibo como PDF.
type PDFGenerator interface {
	GenerarReciboPDF(recibo dto.ReciboDigital) ([]byte, error)
}
