package repository

import (
	"context"

	"github.com/comsanjuan/recibos-admin-api/internal/domain/entity"
)

// AuditLogRepository puerto de persistencia del registro de auditoría.
type AuditLogRepository interface {
	// Record persiste una entrada. Un fallo aquí nunca debe abortar la
	// operación auditada; el llamador decide si lo registra en el log.
	Record(ctx context.Context, log *entity.AuditLog) error
	// List devuelve entradas de la más reciente a la más antigua.
	List(ctx context.Context, limit, offset int) ([]*entity.AuditLog, error)
}
