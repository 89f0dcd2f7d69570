package recibosapi

import "fmt"

// APIError error devuelto por la API remota de recibos.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API de recibos: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API de recibos: HTTP %d", e.StatusCode)
}
