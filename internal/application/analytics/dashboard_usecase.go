// Package analytics construye las métricas agregadas del dashboard del panel.
package analytics

import (
	"context"
	"fmt"

	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
	"github.com/comsanjuan/recibos-admin-api/internal/application/recibos"
	"github.com/comsanjuan/recibos-admin-api/internal/domain"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/authz"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/entity"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/repository"
)

// DashboardUseCase combina el directorio local de usuarios con los agregados
// de recibos de la API remota en una sola respuesta para el panel.
type DashboardUseCase struct {
	userRepo repository.UserProfileRepository
	recibos  *recibos.UseCase
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(userRepo repository.UserProfileRepository, recibosUC *recibos.UseCase) *DashboardUseCase {
	return &DashboardUseCase{userRepo: userRepo, recibos: recibosUC}
}

// GetMetrics construye las métricas del dashboard.
//
// Tres llamadas en paralelo:
//  1. CountAll            → TotalUsuarios
//  2. CountByStatus       → UsuariosActivos / UsuariosInactivos
//  3. recibos.Estadisticas → agregados de recibos (con su fuente)
//
// Las métricas de usuarios son autoritativas y su fallo aborta la respuesta;
// las de recibos ya degradan a la muestra local dentro de su caso de uso.
func (uc *DashboardUseCase) GetMetrics(ctx context.Context, actor *entity.UserProfile) (*dto.DashboardMetrics, error) {
	if !actor.Can(authz.CapGestionRecibos) {
		return nil, domain.ErrForbidden
	}

	type totalResult struct {
		total int
		err   error
	}
	type statusResult struct {
		byStatus map[string]int
		err      error
	}
	type recibosResult struct {
		stats *dto.EstadisticasResponse
		err   error
	}

	totalCh := make(chan totalResult, 1)
	statusCh := make(chan statusResult, 1)
	recibosCh := make(chan recibosResult, 1)

	go func() {
		total, err := uc.userRepo.CountAll(ctx)
		totalCh <- totalResult{total, err}
	}()
	go func() {
		byStatus, err := uc.userRepo.CountByStatus(ctx)
		statusCh <- statusResult{byStatus, err}
	}()
	go func() {
		stats, err := uc.recibos.Estadisticas(ctx, actor, dto.FiltrosRecibos{})
		recibosCh <- recibosResult{stats, err}
	}()

	total := <-totalCh
	status := <-statusCh
	rec := <-recibosCh

	if total.err != nil {
		return nil, fmt.Errorf("dashboard: total de usuarios: %w", total.err)
	}
	if status.err != nil {
		return nil, fmt.Errorf("dashboard: usuarios por estado: %w", status.err)
	}
	if rec.err != nil {
		return nil, fmt.Errorf("dashboard: estadísticas de recibos: %w", rec.err)
	}

	return &dto.DashboardMetrics{
		TotalUsuarios:     total.total,
		UsuariosActivos:   status.byStatus[entity.StatusActivo],
		UsuariosInactivos: status.byStatus[entity.StatusInactivo] + status.byStatus[entity.StatusSuspendido],
		TotalRecibos:      rec.stats.Data.TotalRecibos,
		MontoTotalRecibos: rec.stats.Data.TotalIngresos,
		MontoPendiente:    rec.stats.Data.TotalPendiente,
		RecibosPendientes: rec.stats.Data.RecibosPendientes,
		FuenteRecibos:     rec.stats.Fuente,
	}, nil
}
