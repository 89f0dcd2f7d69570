// Package recibosapi implementa el cliente HTTP de la API remota de recibos
// digitales (api.comsanjuan.com).
package recibosapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
	"github.com/comsanjuan/recibos-admin-api/internal/application/recibos"
	"github.com/comsanjuan/recibos-admin-api/pkg/config"
)

var _ recibos.APIClient = (*Client)(nil)

// Client cliente de la API de recibos. Usa net/http de la stdlib.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient construye el cliente con el timeout configurado.
func NewClient(cfg config.RecibosAPIConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// envelope sobre estándar de las respuestas de la API:
// { "success": bool, "data": ..., "message": ..., "totalRecords": n }
type envelope struct {
	Success      bool            `json:"success"`
	Data         json.RawMessage `json:"data"`
	Message      string          `json:"message"`
	TotalRecords int             `json:"totalRecords"`
}

// Listar consulta GET /recibo-digital con los filtros como query params.
func (c *Client) Listar(ctx context.Context, filtros dto.FiltrosRecibos) ([]dto.ReciboDigital, int, error) {
	endpoint := "/recibo-digital"
	if qs := filtrosQuery(filtros); qs != "" {
		endpoint += "?" + qs
	}

	env, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}

	var data []dto.ReciboDigital
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, 0, fmt.Errorf("decodificar recibos: %w", err)
	}
	total := env.TotalRecords
	if total == 0 {
		total = len(data)
	}
	return data, total, nil
}

// ObtenerPorNumero consulta GET /recibo-digital/{numero}.
// Devuelve (nil, nil) si la API responde 404.
func (c *Client) ObtenerPorNumero(ctx context.Context, numero string) (*dto.ReciboDigital, error) {
	env, err := c.do(ctx, http.MethodGet, "/recibo-digital/"+url.PathEscape(numero), nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	var recibo dto.ReciboDigital
	if err := json.Unmarshal(env.Data, &recibo); err != nil {
		return nil, fmt.Errorf("decodificar recibo: %w", err)
	}
	return &recibo, nil
}

// BuscarAvanzado consulta POST /recibo-digital/buscar con los filtros en el cuerpo.
func (c *Client) BuscarAvanzado(ctx context.Context, filtros dto.FiltrosRecibos) ([]dto.ReciboDigital, error) {
	body, err := json.Marshal(filtros)
	if err != nil {
		return nil, fmt.Errorf("serializar filtros: %w", err)
	}

	env, err := c.do(ctx, http.MethodPost, "/recibo-digital/buscar", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var data []dto.ReciboDigital
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("decodificar recibos: %w", err)
	}
	return data, nil
}

// Estadisticas consulta GET /recibo-digital/estadisticas.
func (c *Client) Estadisticas(ctx context.Context, filtros dto.FiltrosRecibos) (*dto.EstadisticasRecibos, error) {
	endpoint := "/recibo-digital/estadisticas"
	if qs := filtrosQuery(filtros); qs != "" {
		endpoint += "?" + qs
	}

	env, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var stats dto.EstadisticasRecibos
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		return nil, fmt.Errorf("decodificar estadísticas: %w", err)
	}
	return &stats, nil
}

// do ejecuta la petición y valida el sobre de respuesta.
func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("crear petición: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llamar API de recibos: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("leer respuesta: %w", err)
	}

	var env envelope
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// El cuerpo de error puede o no traer el sobre.
		_ = json.Unmarshal(raw, &env)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decodificar sobre de respuesta: %w", err)
	}
	if !env.Success {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	return &env, nil
}

// filtrosQuery serializa los filtros no vacíos como query string.
func filtrosQuery(f dto.FiltrosRecibos) string {
	q := url.Values{}
	if f.FechaInicio != "" {
		q.Set("fechaInicio", f.FechaInicio)
	}
	if f.FechaFin != "" {
		q.Set("fechaFin", f.FechaFin)
	}
	if f.IDVendedor != 0 {
		q.Set("idVendedor", strconv.Itoa(f.IDVendedor))
	}
	if f.TipoPago != "" {
		q.Set("tipoPago", f.TipoPago)
	}
	if f.Estado != "" {
		q.Set("estado", f.Estado)
	}
	if f.NumeroRecibo != "" {
		q.Set("numeroRecibo", f.NumeroRecibo)
	}
	if f.ClienteNombre != "" {
		q.Set("clienteNombre", f.ClienteNombre)
	}
	return q.Encode()
}
