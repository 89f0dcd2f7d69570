package auth

import (
	"context"
	"time"
)

// SessionStore puerto para el estado de sesión compartido (Redis en
// producción): contador de intentos fallidos de login por email y lista de
// tokens revocados por jti.
type SessionStore interface {
	// IsLoginLocked indica si el email está bloqueado por exceso de intentos.
	IsLoginLocked(ctx context.Context, email string) (bool, error)
	// RegisterLoginFail suma un intento fallido; al llegar al máximo activa el bloqueo.
	RegisterLoginFail(ctx context.Context, email string) error
	// ResetLoginFails limpia el contador tras un login exitoso.
	ResetLoginFails(ctx context.Context, email string) error

	// RevokeToken marca el jti como revocado hasta que el token expire.
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	// IsTokenRevoked consulta si el jti fue revocado.
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// NoopSessionStore implementación nula para entornos sin Redis (desarrollo):
// sin throttle y sin revocación. Nunca usar en producción.
type NoopSessionStore struct{}

var _ SessionStore = NoopSessionStore{}

func (NoopSessionStore) IsLoginLocked(context.Context, string) (bool, error)       { return false, nil }
func (NoopSessionStore) RegisterLoginFail(context.Context, string) error           { return nil }
func (NoopSessionStore) ResetLoginFails(context.Context, string) error             { return nil }
func (NoopSessionStore) RevokeToken(context.Context, string, time.Duration) error  { return nil }
func (NoopSessionStore) IsTokenRevoked(context.Context, string) (bool, error)      { return false, nil }
