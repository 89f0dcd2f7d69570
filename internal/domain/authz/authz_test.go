package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comsanjuan/recibos-admin-api/internal/domain/authz"
)

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo de roles: PermissionsFor debe coincidir exactamente con la tabla
// canónica, rol por rol, capacidad por capacidad.
// ──────────────────────────────────────────────────────────────────────────────

func TestPermissionsFor_TablaCanonica(t *testing.T) {
	cases := []struct {
		role     authz.Role
		expected map[authz.Capability]bool
	}{
		{
			role: authz.RoleSuperAdmin,
			expected: map[authz.Capability]bool{
				authz.CapGestionRecibos:       true,
				authz.CapGestionUsuarios:      true,
				authz.CapReportesAvanzados:    true,
				authz.CapConfiguracionSistema: true,
				authz.CapAuditoria:            true,
				authz.CapCrearAdministradores: true,
			},
		},
		{
			role: authz.RoleAdmin,
			expected: map[authz.Capability]bool{
				authz.CapGestionRecibos:       true,
				authz.CapGestionUsuarios:      true,
				authz.CapReportesAvanzados:    false,
				authz.CapConfiguracionSistema: false,
				authz.CapAuditoria:            true,
				authz.CapCrearAdministradores: false,
			},
		},
		{
			role: authz.RoleAuditor,
			expected: map[authz.Capability]bool{
				authz.CapGestionRecibos:       false,
				authz.CapGestionUsuarios:      false,
				authz.CapReportesAvanzados:    false,
				authz.CapConfiguracionSistema: false,
				authz.CapAuditoria:            true,
				authz.CapCrearAdministradores: false,
			},
		},
	}

	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			perms := authz.PermissionsFor(tc.role)
			for cap, want := range tc.expected {
				assert.Equal(t, want, perms.Has(cap),
					"rol %s, capacidad %s", tc.role, cap)
			}
		})
	}
}

// PermissionsFor es determinista: dos invocaciones producen el mismo conjunto.
func TestPermissionsFor_Determinista(t *testing.T) {
	for _, r := range []authz.Role{authz.RoleSuperAdmin, authz.RoleAdmin, authz.RoleAuditor} {
		assert.Equal(t, authz.PermissionsFor(r), authz.PermissionsFor(r))
	}
}

// Un rol fuera del catálogo es un error de programación: debe hacer panic,
// nunca devolver un conjunto por defecto.
func TestPermissionsFor_RolDesconocido_Panic(t *testing.T) {
	assert.Panics(t, func() { authz.PermissionsFor(authz.Role("gerente")) })
	assert.Panics(t, func() { authz.PermissionsFor(authz.Role("")) })
}

func TestParseRole(t *testing.T) {
	r, ok := authz.ParseRole("admin")
	require.True(t, ok)
	assert.Equal(t, authz.RoleAdmin, r)

	_, ok = authz.ParseRole("gerente")
	assert.False(t, ok, "un rol fuera del catálogo no debe parsear")
	_, ok = authz.ParseRole("")
	assert.False(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// CanManage: política de dos reglas. De las 9 combinaciones (rol, rol) solo
// dos son true: super_admin sobre cualquiera (3) y admin sobre auditor (1);
// es decir 4 true y 5 false. Sin jerarquía numérica: admin NO gestiona admin.
// ──────────────────────────────────────────────────────────────────────────────

func TestCanManage_TodasLasCombinaciones(t *testing.T) {
	sa, ad, au := authz.RoleSuperAdmin, authz.RoleAdmin, authz.RoleAuditor

	cases := []struct {
		actor, target authz.Role
		want          bool
	}{
		{sa, sa, true},
		{sa, ad, true},
		{sa, au, true},
		{ad, sa, false},
		{ad, ad, false}, // mismo nivel: prohibido
		{ad, au, true},
		{au, sa, false},
		{au, ad, false},
		{au, au, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, authz.CanManage(tc.actor, tc.target),
			"actor=%s target=%s", tc.actor, tc.target)
	}
}

func TestPermissionSet_Has_CapacidadDesconocida(t *testing.T) {
	perms := authz.PermissionsFor(authz.RoleSuperAdmin)
	assert.False(t, perms.Has(authz.Capability("volar")),
		"una capacidad fuera del conjunto siempre es false")
}
