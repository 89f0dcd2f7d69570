// Package auth implementa autenticación y gestión de sesión: verificación de
// credenciales, emisión y revocación de tokens, y resolución del perfil de la
// identidad autenticada.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
	"github.com/comsanjuan/recibos-admin-api/internal/domain"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/entity"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/repository"
	"github.com/comsanjuan/recibos-admin-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Session sesión resuelta para una petición: los claims del token más el
// perfil cargado del almacén. No hay sesión global de proceso: cada petición
// deriva la suya del token.
type Session struct {
	Claims  *jwt.Claims
	Profile *entity.UserProfile
}

// UseCase casos de uso de autenticación.
type UseCase struct {
	userRepo  repository.UserProfileRepository
	auditRepo repository.AuditLogRepository
	sessions  SessionStore
	jwtCfg    JWTConfig
}

// NewUseCase construye el caso de uso. auditRepo puede ser nil.
func NewUseCase(userRepo repository.UserProfileRepository, auditRepo repository.AuditLogRepository, sessions SessionStore, jwtCfg JWTConfig) *UseCase {
	if sessions == nil {
		sessions = NoopSessionStore{}
	}
	return &UseCase{userRepo: userRepo, auditRepo: auditRepo, sessions: sessions, jwtCfg: jwtCfg}
}

// Login verifica email/password y emite un JWT.
//
// Errores, en orden de evaluación:
//   - ErrTooManyAttempts: el email está bloqueado por intentos fallidos.
//   - ErrUnauthorized: email desconocido o password incorrecto (mismo error
//     para ambos, sin filtrar cuál falló); cuenta como intento fallido.
//   - ErrAccountDisabled: cuenta inactiva o suspendida; no cuenta como intento.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	locked, err := uc.sessions.IsLoginLocked(ctx, in.Email)
	if err == nil && locked {
		uc.auditLogin(ctx, in.Email, domain.ErrTooManyAttempts)
		return nil, domain.ErrTooManyAttempts
	}
	// Si el store de sesiones falla se continúa sin throttle: un Redis caído
	// no debe dejar fuera a todos los administradores.

	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = uc.sessions.RegisterLoginFail(ctx, in.Email)
		uc.auditLogin(ctx, in.Email, domain.ErrUnauthorized)
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		_ = uc.sessions.RegisterLoginFail(ctx, in.Email)
		uc.auditLogin(ctx, in.Email, domain.ErrUnauthorized)
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.StatusActivo {
		uc.auditLogin(ctx, in.Email, domain.ErrAccountDisabled)
		return nil, domain.ErrAccountDisabled
	}

	_ = uc.sessions.ResetLoginFails(ctx, in.Email)

	now := time.Now()
	_ = uc.userRepo.TouchLastAccess(ctx, user.ID, now)
	user.LastAccessAt = &now

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}

	uc.auditLogin(ctx, in.Email, nil)
	return &dto.LoginResponse{Token: token, User: *dto.ToUserResponse(user)}, nil
}

// Logout revoca el token actual hasta su expiración.
func (uc *UseCase) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil {
		return nil
	}
	return uc.sessions.RevokeToken(ctx, claims.ID, claims.TTL(time.Now()))
}

// ResolveSession carga el perfil para una identidad ya autenticada.
//
// Una identidad válida sin perfil resoluble es una inconsistencia fatal para
// la sesión: se revoca el token y se devuelve ErrProfileMissing, forzando al
// cliente a cerrar sesión.
func (uc *UseCase) ResolveSession(ctx context.Context, claims *jwt.Claims) (*Session, error) {
	user, err := uc.userRepo.GetByEmail(ctx, claims.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = uc.sessions.RevokeToken(ctx, claims.ID, claims.TTL(time.Now()))
		return nil, domain.ErrProfileMissing
	}
	return &Session{Claims: claims, Profile: user}, nil
}

// IsTokenRevoked consulta la lista de revocación. Un fallo del store se trata
// como no revocado (mejor degradar el logout que bloquear todo el panel).
func (uc *UseCase) IsTokenRevoked(ctx context.Context, jti string) bool {
	revoked, err := uc.sessions.IsTokenRevoked(ctx, jti)
	return err == nil && revoked
}

// GetProfile carga un perfil por ID (para middlewares de capacidad).
func (uc *UseCase) GetProfile(ctx context.Context, userID string) (*entity.UserProfile, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *UseCase) auditLogin(ctx context.Context, email string, loginErr error) {
	if uc.auditRepo == nil {
		return
	}
	log := &entity.AuditLog{
		ID:        uuid.New().String(),
		ActorID:   email,
		Action:    entity.AuditAccionLogin,
		Result:    entity.AuditExitoso,
		CreatedAt: time.Now(),
	}
	if loginErr != nil {
		log.Result = entity.AuditFallido
		log.ErrorMessage = loginErr.Error()
	}
	// La auditoría nunca es fatal para el login.
	_ = uc.auditRepo.Record(ctx, log)
}
