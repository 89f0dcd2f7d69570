package dto

import (
	"time"

	"github.com/comsanjuan/recibos-admin-api/internal/domain/authz"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/entity"
)

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en el caso de uso).
type CreateUserRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Name       string `json:"nombre_completo" validate:"required,min=1,max=200"`
	Phone      string `json:"telefono" validate:"omitempty,max=30"`
	Role       string `json:"rol" validate:"required,oneof=super_admin admin auditor"`
	Department string `json:"departamento" validate:"omitempty,max=100"`
	Notes      string `json:"notas" validate:"omitempty,max=500"`
}

// UpdateUserRequest entrada para actualizar un usuario. Los punteros nil no modifican el campo.
type UpdateUserRequest struct {
	Name       *string `json:"nombre_completo"`
	Phone      *string `json:"telefono"`
	Role       *string `json:"rol"`
	Status     *string `json:"estado"`
	Department *string `json:"departamento"`
	Notes      *string `json:"notas"`
}

// ChangeStatusRequest entrada para cambiar el estado de un usuario.
type ChangeStatusRequest struct {
	Status string `json:"estado" validate:"required,oneof=activo inactivo suspendido"`
}

// UserResponse salida de un usuario (sin password hash).
type UserResponse struct {
	ID           string              `json:"id"`
	Email        string              `json:"email"`
	Name         string              `json:"nombre_completo"`
	Phone        string              `json:"telefono,omitempty"`
	Role         string              `json:"rol"`
	Status       string              `json:"estado"`
	Permissions  authz.PermissionSet `json:"permisos"`
	Department   string              `json:"departamento,omitempty"`
	Notes        string              `json:"notas,omitempty"`
	CreatedBy    string              `json:"creado_por"`
	CreatedAt    time.Time           `json:"fecha_creacion"`
	UpdatedAt    time.Time           `json:"fecha_modificacion"`
	LastAccessAt *time.Time          `json:"fecha_ultimo_acceso,omitempty"`
}

// UserListRequest filtros del listado de usuarios.
type UserListRequest struct {
	Role       string `query:"rol"`
	Status     string `query:"estado"`
	Department string `query:"departamento"`
	From       string `query:"fecha_desde"` // RFC 3339 o 2006-01-02
	To         string `query:"fecha_hasta"`
	Search     string `query:"busqueda"` // texto libre sobre nombre, email y teléfono
	Limit      int    `query:"limit"`
	Cursor     string `query:"cursor"`
}

// UserListResponse página de usuarios con cursor reanudable.
type UserListResponse struct {
	Data []UserResponse     `json:"data"`
	Page CursorPageResponse `json:"page"`
}

// UserStatsResponse conteos por estado y por rol.
type UserStatsResponse struct {
	Total       int            `json:"total"`
	Activos     int            `json:"activos"`
	Inactivos   int            `json:"inactivos"`
	Suspendidos int            `json:"suspendidos"`
	PorRol      map[string]int `json:"por_rol"`
}

// ToUserResponse convierte la entidad a su representación pública.
func ToUserResponse(u *entity.UserProfile) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Phone:        u.Phone,
		Role:         string(u.Role),
		Status:       u.Status,
		Permissions:  u.Permissions,
		Department:   u.Department,
		Notes:        u.Notes,
		CreatedBy:    u.CreatedBy,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		LastAccessAt: u.LastAccessAt,
	}
}
