package dto

import (
	"encoding/json"
	"time"

	"github.com/comsanjuan/recibos-admin-api/internal/domain/entity"
)

// AuditLogResponse entrada de auditoría para el listado del panel.
type AuditLogResponse struct {
	ID           string          `json:"id"`
	ActorID      string          `json:"actor_id"`
	Action       string          `json:"accion"`
	Resource     string          `json:"recurso,omitempty"`
	TargetID     string          `json:"objetivo_id,omitempty"`
	OldData      json.RawMessage `json:"datos_anteriores,omitempty"`
	NewData      json.RawMessage `json:"datos_nuevos,omitempty"`
	IP           string          `json:"ip,omitempty"`
	UserAgent    string          `json:"user_agent,omitempty"`
	Result       string          `json:"resultado"`
	ErrorMessage string          `json:"error,omitempty"`
	CreatedAt    time.Time       `json:"timestamp"`
}

// ToAuditLogResponse convierte la entidad a su representación pública.
func ToAuditLogResponse(l *entity.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:           l.ID,
		ActorID:      l.ActorID,
		Action:       l.Action,
		Resource:     l.Resource,
		TargetID:     l.TargetID,
		OldData:      l.OldData,
		NewData:      l.NewData,
		IP:           l.IP,
		UserAgent:    l.UserAgent,
		Result:       l.Result,
		ErrorMessage: l.ErrorMessage,
		CreatedAt:    l.CreatedAt,
	}
}
