package setup_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/comsanjuan/recibos-admin-api/internal/application/dto"
	"github.com/comsanjuan/recibos-admin-api/internal/application/setup"
	"github.com/comsanjuan/recibos-admin-api/internal/domain"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/authz"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/entity"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/repository"
)

// fakeUserRepo implementación en memoria del puerto para los tests de la
// puerta de arranque. failExists simula un almacén caído.
type fakeUserRepo struct {
	users      []*entity.UserProfile
	failExists bool
	existsCalls int
}

var _ repository.UserProfileRepository = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) ExistsAny(ctx context.Context) (bool, error) {
	f.existsCalls++
	if f.failExists {
		return false, errors.New("almacén no disponible")
	}
	return len(f.users) > 0, nil
}

func (f *fakeUserRepo) CountAll(ctx context.Context) (int, error) {
	if f.failExists {
		return 0, errors.New("almacén no disponible")
	}
	return len(f.users), nil
}

func (f *fakeUserRepo) Create(ctx context.Context, u *entity.UserProfile) error {
	for _, e := range f.users {
		if e.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	f.users = append(f.users, u)
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.UserProfile, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *entity.UserProfile) error { return nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id string) error             { return nil }

func (f *fakeUserRepo) List(ctx context.Context, _ repository.UserFilter, limit int, cursor string) ([]*entity.UserProfile, string, error) {
	return f.users, "", nil
}

func (f *fakeUserRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	return map[string]int{}, nil
}
func (f *fakeUserRepo) CountByRole(ctx context.Context) (map[string]int, error) {
	return map[string]int{}, nil
}
func (f *fakeUserRepo) TouchLastAccess(ctx context.Context, id string, t time.Time) error {
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Chequeo de inicialización.
// ──────────────────────────────────────────────────────────────────────────────

// Almacén vacío: el chequeo devuelve false y el sistema requiere setup.
func TestCheckInitialization_AlmacenVacio(t *testing.T) {
	gate := setup.NewGate(&fakeUserRepo{}, nil)

	assert.False(t, gate.CheckInitialization(context.Background()))
	assert.True(t, gate.NeedsInitialSetup())
	assert.NoError(t, gate.LastError())
}

// Con al menos un usuario el sistema está inicializado.
func TestCheckInitialization_ConUsuarios(t *testing.T) {
	repo := &fakeUserRepo{users: []*entity.UserProfile{{ID: "u1", Email: "a@b.c"}}}
	gate := setup.NewGate(repo, nil)

	assert.True(t, gate.CheckInitialization(context.Background()))
	assert.False(t, gate.NeedsInitialSetup())
}

// Fallo del almacén: fail-closed hacia "requiere setup", sin propagar error.
func TestCheckInitialization_FalloDelAlmacen_FailClosed(t *testing.T) {
	gate := setup.NewGate(&fakeUserRepo{failExists: true}, nil)

	assert.False(t, gate.CheckInitialization(context.Background()))
	assert.True(t, gate.NeedsInitialSetup())
	assert.Error(t, gate.LastError(), "el error queda registrado, no se lanza")
}

// Antes de cualquier chequeo el estado es desconocido: requiere setup por
// contador cero, pero Initialized() es false sin ser un "false" confirmado.
func TestGate_EstadoInicialDesconocido(t *testing.T) {
	gate := setup.NewGate(&fakeUserRepo{}, nil)
	assert.True(t, gate.NeedsInitialSetup())
	assert.False(t, gate.Initialized())
}

// MarkInitialized hace la transición local sin tocar el almacén.
func TestMarkInitialized_SinConsulta(t *testing.T) {
	repo := &fakeUserRepo{}
	gate := setup.NewGate(repo, nil)
	gate.CheckInitialization(context.Background())
	callsBefore := repo.existsCalls

	gate.MarkInitialized()

	assert.False(t, gate.NeedsInitialSetup())
	assert.True(t, gate.Initialized())
	assert.Equal(t, callsBefore, repo.existsCalls, "no debe haber consulta adicional")
}

func TestReset_VuelveADesconocido(t *testing.T) {
	gate := setup.NewGate(&fakeUserRepo{users: []*entity.UserProfile{{ID: "u1"}}}, nil)
	gate.CheckInitialization(context.Background())
	require.True(t, gate.Initialized())

	gate.Reset()
	assert.False(t, gate.Initialized())
	assert.True(t, gate.NeedsInitialSetup())
}

// ──────────────────────────────────────────────────────────────────────────────
// Bootstrap del primer administrador.
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateFirstAdmin_ProvisionaSuperAdmin(t *testing.T) {
	repo := &fakeUserRepo{}
	gate := setup.NewGate(repo, nil)

	out, err := gate.CreateFirstAdmin(context.Background(), dto.FirstAdminRequest{
		Email:    "root@comsanjuan.com",
		Password: "contraseña-segura",
		Name:     "Administrador Principal",
	})
	require.NoError(t, err)

	// Rol y permisos forzados, sin importar lo que pida el cliente.
	assert.Equal(t, string(authz.RoleSuperAdmin), out.Role)
	assert.Equal(t, authz.PermissionsFor(authz.RoleSuperAdmin), out.Permissions)
	assert.Equal(t, setup.SystemCreator, out.CreatedBy)
	assert.Equal(t, entity.StatusActivo, out.Status)

	// El password queda hasheado con bcrypt, nunca en claro.
	stored := repo.users[0]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("contraseña-segura")))

	// Transición optimista: inicializado sin re-consulta posterior.
	assert.False(t, gate.NeedsInitialSetup())
}

// El bootstrap está exento de autorización pero no de validación: sin ella
// el sistema quedaría inicializado con un super_admin de credenciales vacías.
func TestCreateFirstAdmin_RechazaCredencialesInvalidas(t *testing.T) {
	casos := []struct {
		nombre string
		req    dto.FirstAdminRequest
	}{
		{"vacío total", dto.FirstAdminRequest{}},
		{"email sin arroba", dto.FirstAdminRequest{Email: "no-es-email", Password: "12345678", Name: "Admin"}},
		{"password corto", dto.FirstAdminRequest{Email: "a@b.com", Password: "corto", Name: "Admin"}},
		{"nombre en blanco", dto.FirstAdminRequest{Email: "a@b.com", Password: "12345678", Name: "   "}},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			repo := &fakeUserRepo{}
			gate := setup.NewGate(repo, nil)

			_, err := gate.CreateFirstAdmin(context.Background(), c.req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, repo.users, "no debe persistir nada")
			assert.True(t, gate.NeedsInitialSetup(), "el sistema sigue sin inicializar")
		})
	}
}

// El email se normaliza igual que en la creación autorizada.
func TestCreateFirstAdmin_NormalizaEmail(t *testing.T) {
	repo := &fakeUserRepo{}
	gate := setup.NewGate(repo, nil)

	out, err := gate.CreateFirstAdmin(context.Background(), dto.FirstAdminRequest{
		Email:    "  Root@ComSanJuan.COM ",
		Password: "contraseña-segura",
		Name:     "Administrador Principal",
	})
	require.NoError(t, err)
	assert.Equal(t, "root@comsanjuan.com", out.Email)
}

func TestCreateFirstAdmin_SistemaYaInicializado(t *testing.T) {
	repo := &fakeUserRepo{users: []*entity.UserProfile{{ID: "u1", Email: "ya@existe.com"}}}
	gate := setup.NewGate(repo, nil)

	_, err := gate.CreateFirstAdmin(context.Background(), dto.FirstAdminRequest{
		Email: "otro@x.com", Password: "12345678", Name: "Otro",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, repo.users, 1, "no debe crear un segundo usuario")
}
