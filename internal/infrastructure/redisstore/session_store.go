// Package redisstore implementa el estado efímero de sesión sobre Redis:
// contadores de intentos de login y lista de revocación de tokens.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comsanjuan/recibos-admin-api/internal/application/auth"
	"github.com/comsanjuan/recibos-admin-api/pkg/config"
)

var _ auth.SessionStore = (*SessionStore)(nil)

// SessionStore estado de sesión sobre Redis.
//
// Claves:
//
//	login_fail:<email>    -> contador de intentos (TTL = ventana de bloqueo)
//	login_lockout:<email> -> "1" (TTL = duración del bloqueo)
//	revoked_jti:<jti>     -> "1" (TTL = vida restante del token)
type SessionStore struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewClient conecta a Redis y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewSessionStore construye el store con los límites de login configurados.
func NewSessionStore(client *redis.Client, cfg config.LoginConfig) *SessionStore {
	return &SessionStore{
		client:      client,
		maxAttempts: cfg.MaxAttempts,
		window:      cfg.LockoutWindow,
	}
}

// IsLoginLocked indica si el email está bloqueado por intentos fallidos.
func (s *SessionStore) IsLoginLocked(ctx context.Context, email string) (bool, error) {
	ttl, err := s.client.TTL(ctx, "login_lockout:"+email).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("consultar bloqueo: %w", err)
	}
	return ttl > 0, nil
}

// RegisterLoginFail incrementa el contador del email; al llegar al límite
// activa el bloqueo por la ventana configurada.
func (s *SessionStore) RegisterLoginFail(ctx context.Context, email string) error {
	failKey := "login_fail:" + email
	count, err := s.client.Incr(ctx, failKey).Result()
	if err != nil {
		return fmt.Errorf("contar intento fallido: %w", err)
	}
	// El contador expira en la misma ventana que el bloqueo, así se reinicia solo.
	s.client.Expire(ctx, failKey, s.window)

	if int(count) >= s.maxAttempts {
		if err := s.client.Set(ctx, "login_lockout:"+email, "1", s.window).Err(); err != nil {
			return fmt.Errorf("activar bloqueo: %w", err)
		}
	}
	return nil
}

// ResetLoginFails limpia el contador tras un login exitoso.
func (s *SessionStore) ResetLoginFails(ctx context.Context, email string) error {
	return s.client.Del(ctx, "login_fail:"+email).Err()
}

// RevokeToken marca el jti como revocado hasta que el token expire.
func (s *SessionStore) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, "revoked_jti:"+jti, "1", ttl).Err()
}

// IsTokenRevoked consulta la lista de revocación.
func (s *SessionStore) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	_, err := s.client.Get(ctx, "revoked_jti:"+jti).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("consultar revocación: %w", err)
	}
	return true, nil
}
