package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/comsanjuan/recibos-admin-api/internal/domain/entity"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo implementación del puerto AuditLogRepository sobre PostgreSQL.
// Tabla append-only: no hay update ni delete.
type AuditLogRepo struct {
	pool *pgxpool.Pool
}

// NewAuditLogRepository construye el adaptador de persistencia de auditoría.
func NewAuditLogRepository(pool *pgxpool.Pool) *AuditLogRepo {
	return &AuditLogRepo{pool: pool}
}

// Record persiste una entrada de auditoría.
func (r *AuditLogRepo) Record(ctx context.Context, log *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, actor_id, action, resource, target_id,
			old_data, new_data, ip, user_agent, result, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.pool.Exec(ctx, query,
		log.ID, log.ActorID, log.Action, log.Resource, log.TargetID,
		nullIfEmpty(log.OldData), nullIfEmpty(log.NewData),
		log.IP, log.UserAgent, log.Result, log.ErrorMessage, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert auditoría: %w", err)
	}
	return nil
}

// List devuelve entradas de la más reciente a la más antigua.
func (r *AuditLogRepo) List(ctx context.Context, limit, offset int) ([]*entity.AuditLog, error) {
	query := `
		SELECT id, actor_id, action, resource, target_id, old_data, new_data,
			ip, user_agent, result, error_message, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar auditoría: %w", err)
	}
	defer rows.Close()

	var out []*entity.AuditLog
	for rows.Next() {
		var l entity.AuditLog
		err := rows.Scan(
			&l.ID, &l.ActorID, &l.Action, &l.Resource, &l.TargetID,
			&l.OldData, &l.NewData, &l.IP, &l.UserAgent, &l.Result,
			&l.ErrorMessage, &l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("listar auditoría: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// nullIfEmpty mapea un JSON vacío a NULL para no guardar cadenas vacías en JSONB.
func nullIfEmpty(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
