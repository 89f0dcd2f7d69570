package repository

import (
	"context"
	"time"

	"github.com/comsanjuan/recibos-admin-api/internal/domain/entity"
)

// UserFilter filtros de listado de usuarios. Los campos vacíos no filtran.
// La búsqueda de texto libre no viaja al repositorio: se aplica en el caso de
// uso sobre la página devuelta (normalización de acentos incluida).
type UserFilter struct {
	Role       string
	Status     string
	Department string
	From       *time.Time // fecha de creación desde
	To         *time.Time // fecha de creación hasta
}

// UserProfileRepository define el puerto de persistencia para UserProfile (DIP).
//
// List pagina por keyset: ordena por fecha de creación descendente y devuelve
// un cursor opaco reanudable; cursor vacío significa primera página, y un
// nextCursor vacío significa que no hay más resultados.
type UserProfileRepository interface {
	Create(ctx context.Context, u *entity.UserProfile) error
	GetByID(ctx context.Context, id string) (*entity.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*entity.UserProfile, error)
	Update(ctx context.Context, u *entity.UserProfile) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f UserFilter, limit int, cursor string) (users []*entity.UserProfile, nextCursor string, err error)

	// ExistsAny consulta acotada (LIMIT 1): ¿hay al menos un perfil registrado?
	ExistsAny(ctx context.Context) (bool, error)
	// CountAll total real de perfiles (sin límite).
	CountAll(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	CountByRole(ctx context.Context) (map[string]int, error)

	// TouchLastAccess actualiza solo la fecha de último acceso.
	TouchLastAccess(ctx context.Context, id string, t time.Time) error
}
