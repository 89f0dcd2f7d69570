// Package setup implementa la puerta de arranque del sistema: decide si el
// panel debe ofrecer el flujo de configuración inicial (no existe ningún
// usuario) o el flujo normal de login, y provisiona el primer super
// administrador.
package setup

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
	"github.com/comsanjuan/recibos-admin-api/internal/domain"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/authz"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/entity"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/repository"
)

// SystemCreator identificador del actor en entradas creadas por el bootstrap.
const SystemCreator = "sistema"

// minPasswordLen mínimo de caracteres del password del primer admin, igual
// que en la creación autorizada de usuarios.
const minPasswordLen = 8

// Gate estado de inicialización del sistema.
//
// Tres estados: desconocido (antes del primer chequeo), inicializado y sin
// inicializar. Solo CheckInitialization consulta el almacén; MarkInitialized
// hace la transición local optimista tras provisionar el primer usuario, y
// Reset vuelve a desconocido (aislamiento de tests).
//
// El mutex es necesario: a diferencia del cliente original de un solo hilo,
// aquí varias peticiones concurrentes pueden leer y escribir el estado.
type Gate struct {
	userRepo  repository.UserProfileRepository
	auditRepo repository.AuditLogRepository

	mu          sync.Mutex
	initialized *bool // nil = desconocido
	userCount   int
	lastErr     error
}

// NewGate construye la puerta de arranque. auditRepo puede ser nil (sin auditoría).
func NewGate(userRepo repository.UserProfileRepository, auditRepo repository.AuditLogRepository) *Gate {
	return &Gate{userRepo: userRepo, auditRepo: auditRepo}
}

// CheckInitialization consulta (acotado a un registro) si existe al menos un
// perfil. Nunca propaga el error del almacén: ante un fallo marca el sistema
// como NO inicializado (fail-closed hacia el setup) y registra el error.
//
// Nota: tras esta llamada userCount es 0 o 1 por el límite de la consulta; no
// es el total real. Para el total usar UserCount.
func (g *Gate) CheckInitialization(ctx context.Context) bool {
	exists, err := g.userRepo.ExistsAny(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		v := false
		g.initialized = &v
		g.lastErr = err
		return false
	}
	g.initialized = &exists
	g.lastErr = nil
	if exists {
		g.userCount = 1
	} else {
		g.userCount = 0
	}
	return exists
}

// MarkInitialized transición local a inicializado, sin consultar el almacén.
// Se invoca inmediatamente después de provisionar el primer usuario.
func (g *Gate) MarkInitialized() {
	g.mu.Lock()
	defer g.mu.Unlock()
	v := true
	g.initialized = &v
	g.userCount = 1
}

// Reset vuelve al estado desconocido. Solo para teardown de tests.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.initialized = nil
	g.userCount = 0
	g.lastErr = nil
}

// NeedsInitialSetup indica si debe presentarse el flujo de configuración
// inicial: el sistema se sabe no-inicializado, o no se conoce ningún usuario.
func (g *Gate) NeedsInitialSetup() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return (g.initialized != nil && !*g.initialized) || g.userCount == 0
}

// Initialized devuelve el último estado conocido (false si aún es desconocido).
func (g *Gate) Initialized() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.initialized != nil && *g.initialized
}

// LastError devuelve el error del último chequeo, si lo hubo.
func (g *Gate) LastError() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}

// UserCount consulta el total real de perfiles (sin límite) y actualiza el
// contador local. Ante error devuelve el último valor conocido.
func (g *Gate) UserCount(ctx context.Context) int {
	n, err := g.userRepo.CountAll(ctx)
	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.lastErr = err
		return g.userCount
	}
	g.userCount = n
	return n
}

// CreateFirstAdmin provisiona el primer super administrador. Es el único
// camino de creación exento de chequeos de autorización: solo funciona
// mientras el almacén esté vacío. Fuerza rol super_admin, estado activo y
// creador "sistema", y marca el sistema como inicializado sin re-consultar.
func (g *Gate) CreateFirstAdmin(ctx context.Context, in dto.FirstAdminRequest) (*dto.UserResponse, error) {
	if err := validateFirstAdmin(in); err != nil {
		return nil, err
	}

	// Re-chequear contra el almacén, no contra el estado local: dos clientes
	// podrían llegar al formulario de setup a la vez.
	exists, err := g.userRepo.ExistsAny(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrConflict // sistema ya inicializado
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.UserProfile{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Phone:        in.Phone,
		Role:         authz.RoleSuperAdmin,
		Status:       entity.StatusActivo,
		Permissions:  authz.PermissionsFor(authz.RoleSuperAdmin),
		Settings:     entity.DefaultSettings(),
		Department:   in.Department,
		Notes:        in.Notes,
		CreatedBy:    SystemCreator,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := g.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	g.MarkInitialized()
	g.recordAudit(ctx, user.ID)

	return dto.ToUserResponse(user), nil
}

// validateFirstAdmin aplica al bootstrap las mismas reglas mínimas que la
// creación autorizada de usuarios: es el único camino exento de autorización
// y sembraría el único super_admin del sistema con credenciales vacías.
func validateFirstAdmin(in dto.FirstAdminRequest) error {
	email := strings.TrimSpace(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLen {
		return fmt.Errorf("%w: el password requiere al menos %d caracteres", domain.ErrInvalidInput, minPasswordLen)
	}
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	return nil
}

func (g *Gate) recordAudit(ctx context.Context, targetID string) {
	if g.auditRepo == nil {
		return
	}
	// El fallo al auditar no revierte el bootstrap.
	_ = g.auditRepo.Record(ctx, &entity.AuditLog{
		ID:        uuid.New().String(),
		ActorID:   SystemCreator,
		Action:    entity.AuditAccionPrimerAdmin,
		Resource:  "usuario",
		TargetID:  targetID,
		Result:    entity.AuditExitoso,
		CreatedAt: time.Now(),
	})
}

// Status arma la respuesta de estado para GET /api/setup/status.
// Consulta primero (el orden importa: el chequeo debe completarse antes de
// decidir) y luego lee el estado local.
func (g *Gate) Status(ctx context.Context) dto.SetupStatusResponse {
	initialized := g.CheckInitialization(ctx)
	count := 0
	if initialized {
		count = g.UserCount(ctx)
	}
	return dto.SetupStatusResponse{
		Initialized:       initialized,
		NeedsInitialSetup: g.NeedsInitialSetup(),
		UserCount:         count,
	}
}
