package dto

import "github.com/shopspring/decimal"

// DashboardMetrics respuesta de GET /api/dashboard/metricas.
// Combina métricas del directorio de usuarios (local) con agregados de
// recibos (API remota, o muestra local si no responde — ver FuenteRecibos).
type DashboardMetrics struct {
	TotalUsuarios     int `json:"total_usuarios"`
	UsuariosActivos   int `json:"usuarios_activos"`
	UsuariosInactivos int `json:"usuarios_inactivos"`

	TotalRecibos      int             `json:"total_recibos"`
	MontoTotalRecibos decimal.Decimal `json:"monto_total_recibos"`
	MontoPendiente    decimal.Decimal `json:"monto_pendiente"`
	RecibosPendientes int             `json:"recibos_pendientes"`

	FuenteRecibos string `json:"fuente_recibos"` // "api" o "datos_de_prueba"
}
