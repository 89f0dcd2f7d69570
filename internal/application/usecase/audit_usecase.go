package usecase

import (
	"context"

	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
	"github.com/comsanjuan/recibos-admin-api/internal/domain"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/authz"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/entity"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/repository"
)

const (
	defaultAuditPageLimit = 50
	maxAuditPageLimit     = 200
)

// AuditUseCase consulta del registro de auditoría. Solo lectura: las
// entradas se escriben desde los casos de uso que ejecutan las mutaciones.
type AuditUseCase struct {
	auditRepo repository.AuditLogRepository
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(auditRepo repository.AuditLogRepository) *AuditUseCase {
	return &AuditUseCase{auditRepo: auditRepo}
}

// List devuelve entradas de auditoría de la más reciente a la más antigua.
// Exige la capacidad auditoria en el actor.
func (uc *AuditUseCase) List(ctx context.Context, actor *entity.UserProfile, limit, offset int) ([]dto.AuditLogResponse, error) {
	if !actor.Can(authz.CapAuditoria) {
		return nil, domain.ErrForbidden
	}
	if limit <= 0 {
		limit = defaultAuditPageLimit
	}
	if limit > maxAuditPageLimit {
		limit = maxAuditPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := uc.auditRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ToAuditLogResponse(e))
	}
	return out, nil
}
