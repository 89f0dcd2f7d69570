package recibos

import (
	"github.com/shopspring/decimal"

	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
)

// sampleRecibos muestra local para desarrollo. Solo se sirve cuando la API
// remota no responde, y siempre etiquetada con fuente "datos_de_prueba".
func sampleRecibos() []dto.ReciboDigital {
	return []dto.ReciboDigital{
		{
			ReciboID:        1,
			NumeroRecibo:    "REC-2025-001",
			ClienteNombre:   "Juan Pérez García",
			FechaGeneracion: "2025-01-15T10:30:00.000Z",
			MontoPagado:     decimal.RequireFromString("1250.50"),
			SaldoPendiente:  decimal.Zero,
			EstadoPago:      "Cancelado",
			Estado:          "procesado",
			TipoPago:        "Efectivo",
		},
		{
			ReciboID:        2,
			NumeroRecibo:    "REC-2025-002",
			ClienteNombre:   "María López Rodríguez",
			FechaGeneracion: "2025-01-16T14:15:00.000Z",
			MontoPagado:     decimal.RequireFromString("850.75"),
			SaldoPendiente:  decimal.RequireFromString("200.25"),
			EstadoPago:      "Parcial",
			Estado:          "procesado",
			TipoPago:        "Transferencia",
		},
		{
			ReciboID:        3,
			NumeroRecibo:    "REC-2025-003",
			ClienteNombre:   "Carlos Mendoza Silva",
			FechaGeneracion: "2025-01-17T09:45:00.000Z",
			MontoPagado:     decimal.Zero,
			SaldoPendiente:  decimal.RequireFromString("1500.00"),
			EstadoPago:      "Pendiente",
			Estado:          "procesado",
			TipoPago:        "Crédito",
		},
		{
			ReciboID:        4,
			NumeroRecibo:    "REC-2025-004",
			ClienteNombre:   "Ana Torres Vega",
			FechaGeneracion: "2025-01-18T16:20:00.000Z",
			MontoPagado:     decimal.RequireFromString("2100.00"),
			SaldoPendiente:  decimal.Zero,
			EstadoPago:      "Cancelado",
			Estado:          "procesado",
			TipoPago:        "Tarjeta",
		},
		{
			ReciboID:        5,
			NumeroRecibo:    "REC-2025-005",
			ClienteNombre:   "Roberto Castillo Morales",
			FechaGeneracion: "2025-01-19T11:10:00.000Z",
			MontoPagado:     decimal.RequireFromString("750.25"),
			SaldoPendiente:  decimal.Zero,
			EstadoPago:      "Cancelado",
			Estado:          "procesado",
			TipoPago:        "Efectivo",
		},
	}
}
