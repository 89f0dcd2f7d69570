package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
	"github.com/comsanjuan/recibos-admin-api/internal/domain"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/authz"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/entity"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/repository"
)

const (
	defaultUserPageLimit = 20
	maxUserPageLimit     = 100
	minPasswordLen       = 8
)

// UserUseCase orquesta el CRUD de usuarios del panel y aplica las reglas de
// negocio sobre la entidad:
//   - Toda operación exige la capacidad gestion_usuarios en el actor.
//   - Crear o promover a un rol administrativo exige además crear_administradores.
//   - Las mutaciones sobre otro usuario exigen que el rol del actor pueda
//     gestionar el rol del objetivo.
//   - Un cambio de rol recalcula el snapshot de permisos desde el catálogo.
type UserUseCase struct {
	userRepo  repository.UserProfileRepository
	auditRepo repository.AuditLogRepository
}

// NewUserUseCase construye el caso de uso. auditRepo puede ser nil.
func NewUserUseCase(userRepo repository.UserProfileRepository, auditRepo repository.AuditLogRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo, auditRepo: auditRepo}
}

// Create crea un usuario con el snapshot de permisos de su rol.
func (uc *UserUseCase) Create(ctx context.Context, actor *entity.UserProfile, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !actor.Can(authz.CapGestionUsuarios) {
		return nil, domain.ErrForbidden
	}

	role, ok := authz.ParseRole(req.Role)
	if !ok {
		return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, req.Role)
	}
	if authz.IsAdminRole(role) && !actor.Can(authz.CapCrearAdministradores) {
		return nil, domain.ErrForbidden
	}
	if !actor.CanManageRole(role) {
		return nil, domain.ErrForbidden
	}
	if err := validateNewUser(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("verificando email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hasheando password: %w", err)
	}

	now := time.Now()
	user := &entity.UserProfile{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
		Status:       entity.StatusActivo,
		Permissions:  authz.PermissionsFor(role),
		Settings:     entity.DefaultSettings(),
		Department:   strings.TrimSpace(req.Department),
		Notes:        strings.TrimSpace(req.Notes),
		CreatedBy:    actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		uc.audit(ctx, actor, entity.AuditAccionCrearUsuario, user.ID, nil, user, err)
		return nil, err
	}

	uc.audit(ctx, actor, entity.AuditAccionCrearUsuario, user.ID, nil, user, nil)
	return dto.ToUserResponse(user), nil
}

// Update aplica una actualización parcial. Los campos nil no se tocan.
func (uc *UserUseCase) Update(ctx context.Context, actor *entity.UserProfile, id string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !actor.Can(authz.CapGestionUsuarios) {
		return nil, domain.ErrForbidden
	}

	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !actor.CanManageRole(user.Role) && actor.ID != user.ID {
		return nil, domain.ErrForbidden
	}

	before := snapshot(user)

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: el nombre no puede quedar vacío", domain.ErrInvalidInput)
		}
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Department != nil {
		user.Department = strings.TrimSpace(*req.Department)
	}
	if req.Notes != nil {
		user.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.Status != nil {
		if err := uc.applyStatus(actor, user, *req.Status); err != nil {
			return nil, err
		}
	}
	if req.Role != nil {
		if err := uc.applyRole(actor, user, *req.Role); err != nil {
			return nil, err
		}
	}
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		uc.audit(ctx, actor, entity.AuditAccionActualizar, user.ID, before, user, err)
		return nil, err
	}

	uc.audit(ctx, actor, entity.AuditAccionActualizar, user.ID, before, user, nil)
	return dto.ToUserResponse(user), nil
}

// ChangeStatus cambia el estado de la cuenta de un usuario.
func (uc *UserUseCase) ChangeStatus(ctx context.Context, actor *entity.UserProfile, id string, req dto.ChangeStatusRequest) (*dto.UserResponse, error) {
	if !actor.Can(authz.CapGestionUsuarios) {
		return nil, domain.ErrForbidden
	}

	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !actor.CanManageRole(user.Role) {
		return nil, domain.ErrForbidden
	}

	before := snapshot(user)
	if err := uc.applyStatus(actor, user, req.Status); err != nil {
		return nil, err
	}
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		uc.audit(ctx, actor, entity.AuditAccionCambiarEstado, user.ID, before, user, err)
		return nil, err
	}

	uc.audit(ctx, actor, entity.AuditAccionCambiarEstado, user.ID, before, user, nil)
	return dto.ToUserResponse(user), nil
}

// Delete elimina un usuario de forma permanente.
func (uc *UserUseCase) Delete(ctx context.Context, actor *entity.UserProfile, id string) error {
	if !actor.Can(authz.CapGestionUsuarios) {
		return domain.ErrForbidden
	}
	if actor != nil && actor.ID == id {
		// Nadie se elimina a sí mismo: dejaría al panel sin el actor en curso.
		return fmt.Errorf("%w: no puede eliminar su propia cuenta", domain.ErrInvalidInput)
	}

	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if !actor.CanManageRole(user.Role) {
		return domain.ErrForbidden
	}

	before := snapshot(user)
	if err := uc.userRepo.Delete(ctx, id); err != nil {
		uc.audit(ctx, actor, entity.AuditAccionEliminar, id, before, nil, err)
		return err
	}

	uc.audit(ctx, actor, entity.AuditAccionEliminar, id, before, nil, nil)
	return nil
}

// GetByID devuelve un usuario por su ID.
func (uc *UserUseCase) GetByID(ctx context.Context, actor *entity.UserProfile, id string) (*dto.UserResponse, error) {
	if !actor.Can(authz.CapGestionUsuarios) && (actor == nil || actor.ID != id) {
		return nil, domain.ErrForbidden
	}
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return dto.ToUserResponse(user), nil
}

// List devuelve una página de usuarios. Los filtros estructurados (rol,
// estado, departamento, fechas) se aplican en el almacén; la búsqueda de
// texto libre se aplica sobre la página ya cargada, insensible a mayúsculas
// y acentos.
func (uc *UserUseCase) List(ctx context.Context, actor *entity.UserProfile, req dto.UserListRequest) (*dto.UserListResponse, error) {
	if !actor.Can(authz.CapGestionUsuarios) {
		return nil, domain.ErrForbidden
	}

	filter, err := buildFilter(req)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultUserPageLimit
	}
	if limit > maxUserPageLimit {
		limit = maxUserPageLimit
	}

	users, nextCursor, err := uc.userRepo.List(ctx, filter, limit, req.Cursor)
	if err != nil {
		return nil, err
	}

	if search := strings.TrimSpace(req.Search); search != "" {
		users = filterBySearch(users, search)
	}

	out := &dto.UserListResponse{
		Data: make([]dto.UserResponse, 0, len(users)),
		Page: dto.CursorPageResponse{Limit: limit, NextCursor: nextCursor, HasMore: nextCursor != ""},
	}
	for _, u := range users {
		out.Data = append(out.Data, *dto.ToUserResponse(u))
	}
	return out, nil
}

// Stats devuelve los conteos agregados de usuarios.
func (uc *UserUseCase) Stats(ctx context.Context, actor *entity.UserProfile) (*dto.UserStatsResponse, error) {
	if !actor.Can(authz.CapGestionUsuarios) {
		return nil, domain.ErrForbidden
	}

	total, err := uc.userRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := uc.userRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byRole, err := uc.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.UserStatsResponse{
		Total:       total,
		Activos:     byStatus[entity.StatusActivo],
		Inactivos:   byStatus[entity.StatusInactivo],
		Suspendidos: byStatus[entity.StatusSuspendido],
		PorRol:      byRole,
	}, nil
}

// applyStatus valida y asigna un nuevo estado.
func (uc *UserUseCase) applyStatus(actor *entity.UserProfile, user *entity.UserProfile, status string) error {
	if !entity.ValidStatus(status) {
		return fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, status)
	}
	if actor != nil && actor.ID == user.ID && status != entity.StatusActivo {
		return fmt.Errorf("%w: no puede desactivar su propia cuenta", domain.ErrInvalidInput)
	}
	user.Status = status
	return nil
}

// applyRole valida un cambio de rol y recalcula el snapshot de permisos.
// El snapshot guardado nunca se reinterpreta: la única vía para que los
// permisos de un usuario cambien es pasar por aquí.
func (uc *UserUseCase) applyRole(actor *entity.UserProfile, user *entity.UserProfile, rawRole string) error {
	role, ok := authz.ParseRole(rawRole)
	if !ok {
		return fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, rawRole)
	}
	if role == user.Role {
		return nil
	}
	if actor != nil && actor.ID == user.ID {
		return fmt.Errorf("%w: no puede cambiar su propio rol", domain.ErrInvalidInput)
	}
	if authz.IsAdminRole(role) && !actor.Can(authz.CapCrearAdministradores) {
		return domain.ErrForbidden
	}
	if !actor.CanManageRole(role) {
		return domain.ErrForbidden
	}
	user.Role = role
	user.Permissions = authz.PermissionsFor(role)
	return nil
}

func (uc *UserUseCase) audit(ctx context.Context, actor *entity.UserProfile, action, targetID string, before, after *entity.UserProfile, opErr error) {
	if uc.auditRepo == nil {
		return
	}
	log := &entity.AuditLog{
		ID:        uuid.New().String(),
		Action:    action,
		Resource:  "usuario",
		TargetID:  targetID,
		Result:    entity.AuditExitoso,
		CreatedAt: time.Now(),
	}
	if actor != nil {
		log.ActorID = actor.ID
	}
	if before != nil {
		log.OldData, _ = json.Marshal(dto.ToUserResponse(before))
	}
	if after != nil {
		log.NewData, _ = json.Marshal(dto.ToUserResponse(after))
	}
	if opErr != nil {
		log.Result = entity.AuditFallido
		log.ErrorMessage = opErr.Error()
	}
	// La auditoría nunca aborta la operación auditada.
	_ = uc.auditRepo.Record(ctx, log)
}

// snapshot copia el perfil tal como está antes de mutarlo, para el OldData
// de la auditoría.
func snapshot(u *entity.UserProfile) *entity.UserProfile {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

func validateNewUser(req dto.CreateUserRequest) error {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if len(req.Password) < minPasswordLen {
		return fmt.Errorf("%w: el password requiere al menos %d caracteres", domain.ErrInvalidInput, minPasswordLen)
	}
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	return nil
}

func buildFilter(req dto.UserListRequest) (repository.UserFilter, error) {
	f := repository.UserFilter{
		Role:       strings.TrimSpace(req.Role),
		Status:     strings.TrimSpace(req.Status),
		Department: strings.TrimSpace(req.Department),
	}
	if f.Role != "" {
		if _, ok := authz.ParseRole(f.Role); !ok {
			return f, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, f.Role)
		}
	}
	if f.Status != "" && !entity.ValidStatus(f.Status) {
		return f, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, f.Status)
	}
	if req.From != "" {
		t, err := parseDate(req.From)
		if err != nil {
			return f, fmt.Errorf("%w: fecha_desde inválida", domain.ErrInvalidInput)
		}
		f.From = &t
	}
	if req.To != "" {
		t, err := parseDate(req.To)
		if err != nil {
			return f, fmt.Errorf("%w: fecha_hasta inválida", domain.ErrInvalidInput)
		}
		// El límite superior es inclusivo a nivel de día.
		if len(req.To) == len("2006-01-02") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = &t
	}
	return f, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// filterBySearch retiene los usuarios cuyo nombre, email o teléfono contiene
// el término, ignorando mayúsculas y marcas diacríticas ("Pérez" ≡ "perez").
func filterBySearch(users []*entity.UserProfile, term string) []*entity.UserProfile {
	needle := foldText(term)
	out := users[:0]
	for _, u := range users {
		if strings.Contains(foldText(u.Name), needle) ||
			strings.Contains(foldText(u.Email), needle) ||
			strings.Contains(foldText(u.Phone), needle) {
			out = append(out, u)
		}
	}
	return out
}

// foldText normaliza a minúsculas sin marcas diacríticas.
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(folded)
}
