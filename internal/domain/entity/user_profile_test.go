package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/comsanjuan/recibos-admin-api/internal/domain/authz"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/entity"
)

func TestCan_ActorNil(t *testing.T) {
	var u *entity.UserProfile
	assert.False(t, u.Can(authz.CapGestionUsuarios), "actor nil no tiene capacidades")
	assert.False(t, u.IsAdmin())
	assert.False(t, u.CanManage(&entity.UserProfile{Role: authz.RoleAuditor}))
}

// El evaluador confía en el snapshot persistido, no en el rol actual del
// perfil. Si ambos divergen (p. ej. el catálogo cambió después de crear el
// usuario), manda el snapshot. Comportamiento aceptado, no un bug.
func TestCan_ConfiaEnElSnapshot(t *testing.T) {
	u := &entity.UserProfile{
		Role:        authz.RoleAuditor,
		Permissions: authz.PermissionsFor(authz.RoleSuperAdmin), // snapshot desactualizado a propósito
	}
	assert.True(t, u.Can(authz.CapGestionUsuarios),
		"el snapshot manda aunque el rol actual no otorgue la capacidad")
}

func TestCanManage_DelegaEnRoles(t *testing.T) {
	admin := &entity.UserProfile{Role: authz.RoleAdmin}
	auditor := &entity.UserProfile{Role: authz.RoleAuditor}
	otroAdmin := &entity.UserProfile{Role: authz.RoleAdmin}

	assert.True(t, admin.CanManage(auditor))
	assert.False(t, admin.CanManage(otroAdmin))
	assert.False(t, admin.CanManage(nil))
}

func TestCanManageRole_DelegaEnRoles(t *testing.T) {
	superAdmin := &entity.UserProfile{Role: authz.RoleSuperAdmin}
	admin := &entity.UserProfile{Role: authz.RoleAdmin}
	var nadie *entity.UserProfile

	assert.True(t, superAdmin.CanManageRole(authz.RoleAdmin))
	assert.True(t, admin.CanManageRole(authz.RoleAuditor))
	assert.False(t, admin.CanManageRole(authz.RoleAdmin))
	assert.False(t, admin.CanManageRole(authz.RoleSuperAdmin))
	assert.False(t, nadie.CanManageRole(authz.RoleAuditor))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, entity.ValidStatus(entity.StatusActivo))
	assert.True(t, entity.ValidStatus(entity.StatusInactivo))
	assert.True(t, entity.ValidStatus(entity.StatusSuspendido))
	assert.False(t, entity.ValidStatus("eliminado"))
}
