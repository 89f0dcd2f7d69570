package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
	"github.com/comsanjuan/recibos-admin-api/internal/application/recibos"
)

// ReciboHandler maneja la consulta de recibos digitales.
type ReciboHandler struct {
	uc *recibos.UseCase
}

// NewReciboHandler construye el handler de recibos.
func NewReciboHandler(uc *recibos.UseCase) *ReciboHandler {
	return &ReciboHandler{uc: uc}
}

// List godoc
// @Summary      Listar recibos digitales
// @Description  Consulta la API remota; si no responde, sirve la muestra local
// @Description  con fuente "datos_de_prueba".
// @Tags         recibos
// @Security     BearerAuth
// @Produce      json
// @Param        fechaInicio    query  string  false  "fecha mínima (ISO 8601)"
// @Param        fechaFin       query  string  false  "fecha máxima (ISO 8601)"
// @Param        idVendedor     query  int     false  "ID del vendedor"
// @Param        tipoPago       query  string  false  "tipo de pago"
// @Param        estado         query  string  false  "estado del recibo"
// @Success      200  {object}  dto.RecibosListResponse
// @Router       /api/recibos [get]
func (h *ReciboHandler) List(c *fiber.Ctx) error {
	var filtros dto.FiltrosRecibos
	if err := c.QueryParser(&filtros); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}

	out, err := h.uc.Listar(c.Context(), GetProfileLocal(c), filtros)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// GetByNumber godoc
// @Summary      Obtener recibo por número
// @Tags         recibos
// @Security     BearerAuth
// @Produce      json
// @Param        numero  path  string  true  "número de recibo, ej. REC-2025-001"
// @Success      200  {object}  dto.ReciboDigital
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recibos/{numero} [get]
func (h *ReciboHandler) GetByNumber(c *fiber.Ctx) error {
	out, err := h.uc.ObtenerPorNumero(c.Context(), GetProfileLocal(c), c.Params("numero"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar recibos por texto libre
// @Description  Un término alfanumérico con guiones se busca como número de
// @Description  recibo; cualquier otro, como nombre de cliente.
// @Tags         recibos
// @Security     BearerAuth
// @Produce      json
// @Param        q  query  string  true  "término de búsqueda"
// @Success      200  {array}  dto.ReciboDigital
// @Router       /api/recibos/buscar [get]
func (h *ReciboHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Buscar(c.Context(), GetProfileLocal(c), c.Query("q"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// AdvancedSearch godoc
// @Summary      Búsqueda estructurada de recibos
// @Tags         recibos
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FiltrosRecibos  true  "filtros"
// @Success      200   {array}  dto.ReciboDigital
// @Router       /api/recibos/buscar [post]
func (h *ReciboHandler) AdvancedSearch(c *fiber.Ctx) error {
	var filtros dto.FiltrosRecibos
	if err := c.BodyParser(&filtros); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	out, err := h.uc.BuscarAvanzado(c.Context(), GetProfileLocal(c), filtros)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Statistics godoc
// @Summary      Estadísticas agregadas de recibos
// @Tags         recibos
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.EstadisticasResponse
// @Router       /api/recibos/estadisticas [get]
func (h *ReciboHandler) Statistics(c *fiber.Ctx) error {
	var filtros dto.FiltrosRecibos
	if err := c.QueryParser(&filtros); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}

	out, err := h.uc.Estadisticas(c.Context(), GetProfileLocal(c), filtros)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ExportPDF godoc
// @Summary      Exportar un recibo como PDF
// @Tags         recibos
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        numero  path  string  true  "número de recibo"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recibos/{numero}/pdf [get]
func (h *ReciboHandler) ExportPDF(c *fiber.Ctx) error {
	numero := c.Params("numero")
	pdfBytes, err := h.uc.ExportarPDF(c.Context(), GetProfileLocal(c), numero)
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="recibo-`+numero+`.pdf"`)
	return c.Send(pdfBytes)
}
