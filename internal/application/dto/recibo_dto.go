package dto

import "github.com/shopspring/decimal"

// Fuentes de los datos de recibos en las respuestas.
const (
	FuenteAPI          = "api"
	FuenteDatosPrueba  = "datos_de_prueba" // muestra local de desarrollo, nunca autoritativa
)

// ReciboDigital recibo tal como lo entrega la API remota (campos del
// procedimiento sp_ObtenerRecibosDigitales).
type ReciboDigital struct {
	// Información básica del recibo
	ReciboID          int    `json:"ReciboId"`
	NumeroRecibo      string `json:"NumeroRecibo"`
	NumeroComprobante string `json:"NumeroComprobante,omitempty"`
	FechaGeneracion   string `json:"FechaGeneracion"` // ISO 8601
	Estado            string `json:"Estado"`

	// Cliente
	ClienteNombre    string `json:"ClienteNombre"`
	ClienteDocumento string `json:"ClienteDocumento,omitempty"`

	// Vendedor
	VendedorNombre string `json:"VendedorNombre,omitempty"`
	VendedorCodigo string `json:"VendedorCodigo,omitempty"`
	IDVendedor     int    `json:"IdVendedor,omitempty"`
	VendedorDNI    string `json:"VendedorDni,omitempty"`

	// Información financiera
	SaldoTotal   decimal.Decimal `json:"SaldoTotal"`
	MontoPagado  decimal.Decimal `json:"MontoPagado"`
	TipoPago     string          `json:"TipoPago"`
	MetodoPago   string          `json:"MetodoPago,omitempty"`
	NumeroCheque string          `json:"NumeroCheque,omitempty"`
	NumeroCuenta string          `json:"NumeroCuenta,omitempty"`

	// Documento
	TipoDocumento string `json:"TipoDocumento,omitempty"`
	DiasPago      int    `json:"DiasPago,omitempty"`

	// Firmas digitales (Base64)
	FirmaVendedor string `json:"FirmaVendedor,omitempty"`
	FirmaCliente  string `json:"FirmaCliente,omitempty"`

	// Campos calculados
	TipoPagoDescripcion string          `json:"TipoPagoDescripcion,omitempty"`
	SaldoPendiente      decimal.Decimal `json:"SaldoPendiente"`
	EstadoPago          string          `json:"EstadoPago"`
}

// FiltrosRecibos filtros de búsqueda aceptados por la API remota.
type FiltrosRecibos struct {
	FechaInicio   string `json:"fechaInicio,omitempty" query:"fechaInicio"`
	FechaFin      string `json:"fechaFin,omitempty" query:"fechaFin"`
	IDVendedor    int    `json:"idVendedor,omitempty" query:"idVendedor"`
	TipoPago      string `json:"tipoPago,omitempty" query:"tipoPago"`
	Estado        string `json:"estado,omitempty" query:"estado"`
	NumeroRecibo  string `json:"numeroRecibo,omitempty" query:"numeroRecibo"`
	ClienteNombre string `json:"clienteNombre,omitempty" query:"clienteNombre"`
}

// EstadisticasRecibos agregados de recibos (de la API, o calculados sobre la
// muestra local cuando la API no responde).
type EstadisticasRecibos struct {
	TotalRecibos      int             `json:"totalRecibos"`
	TotalIngresos     decimal.Decimal `json:"totalIngresos"`
	TotalPendiente    decimal.Decimal `json:"totalPendiente"`
	RecibosCancelados int             `json:"recibosCancelados"`
	RecibosPendientes int             `json:"recibosPendientes"`
	RecibosParciales  int             `json:"recibosParciales"`
}

// RecibosListResponse listado de recibos con su origen.
type RecibosListResponse struct {
	Data         []ReciboDigital `json:"data"`
	TotalRecords int             `json:"total_records"`
	Fuente       string          `json:"fuente"` // "api" o "datos_de_prueba"
}

// EstadisticasResponse estadísticas con su origen.
type EstadisticasResponse struct {
	Data   EstadisticasRecibos `json:"data"`
	Fuente string              `json:"fuente"`
}
