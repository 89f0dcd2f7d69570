package entity

import (
	"time"

	"github.com/comsanjuan/recibos-admin-api/internal/domain/authz"
)

// Estados válidos para UserProfile.
const (
	StatusActivo     = "activo"
	StatusInactivo   = "inactivo"
	StatusSuspendido = "suspendido"
)

// ValidStatus indica si s es uno de los tres estados definidos.
func ValidStatus(s string) bool {
	return s == StatusActivo || s == StatusInactivo || s == StatusSuspendido
}

// UserSettings preferencias de interfaz del usuario.
type UserSettings struct {
	Notifications bool   `json:"notificaciones"`
	Theme         string `json:"tema"`   // claro, oscuro
	Language      string `json:"idioma"` // es, en
}

// DefaultSettings valores iniciales para un perfil nuevo.
func DefaultSettings() UserSettings {
	return UserSettings{Notifications: true, Theme: "claro", Language: "es"}
}

// UserProfile representa un usuario administrativo del panel.
//
// Permissions es un snapshot calculado con authz.PermissionsFor(Role) en el
// momento de la creación o del último cambio de rol. No se recalcula en cada
// lectura: si el catálogo de roles cambia, los perfiles existentes conservan
// el snapshot anterior hasta su próximo cambio de rol.
type UserProfile struct {
	ID           string
	Email        string // único en todo el sistema
	PasswordHash string // bcrypt, nunca en texto plano después de persistir
	Name         string
	Phone        string
	Role         authz.Role
	Status       string // activo, inactivo, suspendido
	Permissions  authz.PermissionSet
	Settings     UserSettings
	Department   string
	Notes        string
	CreatedBy    string // ID del creador, o "sistema" para el primer admin
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastAccessAt *time.Time
}

// Can indica si el actor tiene la capacidad. Un actor nil no tiene ninguna.
// Lee el snapshot persistido, no recalcula desde el rol.
func (u *UserProfile) Can(c authz.Capability) bool {
	if u == nil {
		return false
	}
	return u.Permissions.Has(c)
}

// CanManage indica si el actor puede gestionar al usuario objetivo.
func (u *UserProfile) CanManage(target *UserProfile) bool {
	if u == nil || target == nil {
		return false
	}
	return authz.CanManage(u.Role, target.Role)
}

// CanManageRole indica si el actor puede gestionar usuarios del rol dado.
// Un actor nil no gestiona ninguno.
func (u *UserProfile) CanManageRole(role authz.Role) bool {
	if u == nil {
		return false
	}
	return authz.CanManage(u.Role, role)
}

// IsAdmin indica si el perfil tiene rol de nivel administrativo.
func (u *UserProfile) IsAdmin() bool {
	return u != nil && authz.IsAdminRole(u.Role)
}
