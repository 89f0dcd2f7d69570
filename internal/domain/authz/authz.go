// Package authz define el modelo de roles y permisos del panel.
//
// El catálogo es fijo: tres roles, seis capacidades. PermissionsFor es una
// función pura Role → PermissionSet; un rol fuera del catálogo es un error de
// programación y provoca panic (nunca un default silencioso).
package authz

// Role categoría fija que determina el conjunto de capacidades por defecto.
type Role string

// Roles del sistema.
const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleAuditor    Role = "auditor"
)

// ParseRole valida una cadena de entrada contra el catálogo.
// Para entrada externa; dentro del dominio los roles ya son válidos.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleSuperAdmin, RoleAdmin, RoleAuditor:
		return Role(s), true
	}
	return "", false
}

// IsAdminRole indica si el rol tiene nivel administrativo (admin o super_admin).
func IsAdminRole(r Role) bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Capability una capacidad booleana con nombre.
type Capability string

// Capacidades del sistema. Los valores coinciden con las claves JSON del snapshot.
const (
	CapGestionRecibos        Capability = "gestion_recibos"
	CapGestionUsuarios       Capability = "gestion_usuarios"
	CapReportesAvanzados     Capability = "reportes_avanzados"
	CapConfiguracionSistema  Capability = "configuracion_sistema"
	CapAuditoria             Capability = "auditoria"
	CapCrearAdministradores  Capability = "crear_administradores"
)

// PermissionSet registro fijo de seis capacidades independientes.
// Se persiste como snapshot en el perfil del usuario; las claves JSON son estables.
type PermissionSet struct {
	GestionRecibos        bool `json:"gestion_recibos"`
	GestionUsuarios       bool `json:"gestion_usuarios"`
	ReportesAvanzados     bool `json:"reportes_avanzados"`
	ConfiguracionSistema  bool `json:"configuracion_sistema"`
	Auditoria             bool `json:"auditoria"`
	CrearAdministradores  bool `json:"crear_administradores"`
}

// Has indica si la capacidad está activa en el conjunto.
// Una Capability desconocida retorna false: el snapshot no tiene esa clave.
func (p PermissionSet) Has(c Capability) bool {
	switch c {
	case CapGestionRecibos:
		return p.GestionRecibos
	case CapGestionUsuarios:
		return p.GestionUsuarios
	case CapReportesAvanzados:
		return p.ReportesAvanzados
	case CapConfiguracionSistema:
		return p.ConfiguracionSistema
	case CapAuditoria:
		return p.Auditoria
	case CapCrearAdministradores:
		return p.CrearAdministradores
	}
	return false
}

// PermissionsFor devuelve el PermissionSet canónico del rol.
// Total sobre los tres roles definidos; cualquier otro valor hace panic.
func PermissionsFor(r Role) PermissionSet {
	switch r {
	case RoleSuperAdmin:
		return PermissionSet{
			GestionRecibos:       true,
			GestionUsuarios:      true,
			ReportesAvanzados:    true,
			ConfiguracionSistema: true,
			Auditoria:            true,
			CrearAdministradores: true,
		}
	case RoleAdmin:
		return PermissionSet{
			GestionRecibos:  true,
			GestionUsuarios: true,
			Auditoria:       true,
		}
	case RoleAuditor:
		return PermissionSet{
			Auditoria: true,
		}
	}
	panic("authz: rol fuera del catálogo: " + string(r))
}

// CanManage decide si un actor con rol actor puede gestionar a un usuario con
// rol target. Política estricta de dos reglas, no una jerarquía numérica:
//
//   - super_admin gestiona a todos
//   - admin gestiona solo a auditores
//
// Todo lo demás (admin sobre admin, auditor sobre cualquiera, un rol sobre sí
// mismo) es false.
func CanManage(actor, target Role) bool {
	if actor == RoleSuperAdmin {
		return true
	}
	if actor == RoleAdmin && target == RoleAuditor {
		return true
	}
	return false
}
