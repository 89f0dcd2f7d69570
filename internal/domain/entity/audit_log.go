package entity

import (
	"encoding/json"
	"time"
)

// Resultados de una entrada de auditoría.
const (
	AuditExitoso = "exitoso"
	AuditFallido = "fallido"
)

// Acciones auditadas.
const (
	AuditAccionLogin         = "login"
	AuditAccionLogout        = "logout"
	AuditAccionCrearUsuario  = "crear_usuario"
	AuditAccionActualizar    = "actualizar_usuario"
	AuditAccionCambiarEstado = "cambiar_estado_usuario"
	AuditAccionEliminar      = "eliminar_usuario"
	AuditAccionPrimerAdmin   = "crear_primer_admin"
)

// AuditLog entrada del registro de auditoría. OldData/NewData guardan el
// estado del recurso antes y después de la mutación, serializado a JSON.
type AuditLog struct {
	ID           string
	ActorID      string // ID del usuario que ejecutó la acción; "sistema" en el bootstrap
	Action       string
	Resource     string // tipo de recurso afectado, ej. "usuario"
	TargetID     string // ID del recurso afectado, si aplica
	OldData      json.RawMessage
	NewData      json.RawMessage
	IP           string
	UserAgent    string
	Result       string // exitoso, fallido
	ErrorMessage string
	CreatedAt    time.Time
}
