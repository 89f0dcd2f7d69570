package postgres

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/comsanjuan/recibos-admin-api/internal/domain"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/authz"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/entity"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/repository"
)

var _ repository.UserProfileRepository = (*UserProfileRepo)(nil)

// UserProfileRepo implementación del puerto UserProfileRepository sobre
// PostgreSQL. El snapshot de permisos y las preferencias se guardan como
// JSONB: se leen tal como se escribieron, sin recalcular.
type UserProfileRepo struct {
	pool *pgxpool.Pool
}

// NewUserProfileRepository construye el adaptador de persistencia para perfiles.
func NewUserProfileRepository(pool *pgxpool.Pool) *UserProfileRepo {
	return &UserProfileRepo{pool: pool}
}

const userProfileColumns = `id, email, password_hash, name, phone, role, status,
	permissions, settings, department, notes, created_by, created_at, updated_at, last_access_at`

// Create persiste un nuevo perfil.
func (r *UserProfileRepo) Create(ctx context.Context, u *entity.UserProfile) error {
	permisos, err := json.Marshal(u.Permissions)
	if err != nil {
		return fmt.Errorf("serializar permisos: %w", err)
	}
	preferencias, err := json.Marshal(u.Settings)
	if err != nil {
		return fmt.Errorf("serializar preferencias: %w", err)
	}

	query := `
		INSERT INTO user_profiles (id, email, password_hash, name, phone, role, status,
			permissions, settings, department, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = r.pool.Exec(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Phone, string(u.Role), u.Status,
		permisos, preferencias, u.Department, u.Notes, u.CreatedBy, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert perfil: %w", err)
	}
	return nil
}

// GetByID obtiene un perfil por ID. Devuelve (nil, nil) si no existe.
func (r *UserProfileRepo) GetByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	query := `SELECT ` + userProfileColumns + ` FROM user_profiles WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id), "get perfil por id")
}

// GetByEmail obtiene un perfil por email. Devuelve (nil, nil) si no existe.
func (r *UserProfileRepo) GetByEmail(ctx context.Context, email string) (*entity.UserProfile, error) {
	query := `SELECT ` + userProfileColumns + ` FROM user_profiles WHERE email = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, email), "get perfil por email")
}

// Update persiste el perfil completo.
func (r *UserProfileRepo) Update(ctx context.Context, u *entity.UserProfile) error {
	permisos, err := json.Marshal(u.Permissions)
	if err != nil {
		return fmt.Errorf("serializar permisos: %w", err)
	}
	preferencias, err := json.Marshal(u.Settings)
	if err != nil {
		return fmt.Errorf("serializar preferencias: %w", err)
	}

	query := `
		UPDATE user_profiles
		SET email = $2, password_hash = $3, name = $4, phone = $5, role = $6, status = $7,
			permissions = $8, settings = $9, department = $10, notes = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Phone, string(u.Role), u.Status,
		permisos, preferencias, u.Department, u.Notes, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update perfil: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete elimina el perfil de forma permanente.
func (r *UserProfileRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM user_profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete perfil: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List devuelve una página de perfiles ordenada por (created_at DESC, id DESC)
// con cursor keyset reanudable. El cursor codifica la última fila vista; una
// página vacía o incompleta devuelve cursor vacío.
func (r *UserProfileRepo) List(ctx context.Context, f repository.UserFilter, limit int, cursor string) ([]*entity.UserProfile, string, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Role != "" {
		conds = append(conds, "role = "+arg(f.Role))
	}
	if f.Status != "" {
		conds = append(conds, "status = "+arg(f.Status))
	}
	if f.Department != "" {
		conds = append(conds, "department = "+arg(f.Department))
	}
	if f.From != nil {
		conds = append(conds, "created_at >= "+arg(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "created_at <= "+arg(*f.To))
	}
	if cursor != "" {
		lastAt, lastID, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("%w: cursor inválido", domain.ErrInvalidInput)
		}
		conds = append(conds, fmt.Sprintf("(created_at, id) < (%s, %s)", arg(lastAt), arg(lastID)))
	}

	query := `SELECT ` + userProfileColumns + ` FROM user_profiles`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT " + arg(limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("listar perfiles: %w", err)
	}
	defer rows.Close()

	var out []*entity.UserProfile
	for rows.Next() {
		u, err := scanProfile(rows)
		if err != nil {
			return nil, "", err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("listar perfiles: %w", err)
	}

	// Se pide una fila extra para saber si hay página siguiente.
	nextCursor := ""
	if len(out) > limit {
		out = out[:limit]
		last := out[len(out)-1]
		nextCursor = encodeCursor(last.CreatedAt, last.ID)
	}
	return out, nextCursor, nil
}

// ExistsAny indica si hay al menos un perfil en el directorio.
func (r *UserProfileRepo) ExistsAny(ctx context.Context) (bool, error) {
	var one int
	err := r.pool.QueryRow(ctx, `SELECT 1 FROM user_profiles LIMIT 1`).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists perfiles: %w", err)
	}
	return true, nil
}

// CountAll cuenta todos los perfiles.
func (r *UserProfileRepo) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count perfiles: %w", err)
	}
	return n, nil
}

// CountByStatus cuenta perfiles agrupados por estado.
func (r *UserProfileRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	return r.countGrouped(ctx, "status")
}

// CountByRole cuenta perfiles agrupados por rol.
func (r *UserProfileRepo) CountByRole(ctx context.Context) (map[string]int, error) {
	return r.countGrouped(ctx, "role")
}

func (r *UserProfileRepo) countGrouped(ctx context.Context, column string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+column+`, COUNT(*) FROM user_profiles GROUP BY `+column)
	if err != nil {
		return nil, fmt.Errorf("count por %s: %w", column, err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var clave string
		var n int
		if err := rows.Scan(&clave, &n); err != nil {
			return nil, fmt.Errorf("count por %s: %w", column, err)
		}
		counts[clave] = n
	}
	return counts, rows.Err()
}

// TouchLastAccess registra el último acceso sin tocar updated_at.
func (r *UserProfileRepo) TouchLastAccess(ctx context.Context, id string, t time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE user_profiles SET last_access_at = $2 WHERE id = $1`, id, t)
	if err != nil {
		return fmt.Errorf("touch último acceso: %w", err)
	}
	return nil
}

func (r *UserProfileRepo) scanOne(row pgx.Row, op string) (*entity.UserProfile, error) {
	u, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func scanProfile(row pgx.Row) (*entity.UserProfile, error) {
	var (
		u            entity.UserProfile
		rol          string
		permisos     []byte
		preferencias []byte
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &rol, &u.Status,
		&permisos, &preferencias, &u.Department, &u.Notes, &u.CreatedBy,
		&u.CreatedAt, &u.UpdatedAt, &u.LastAccessAt,
	)
	if err != nil {
		return nil, err
	}
	u.Role = authz.Role(rol)
	if err := json.Unmarshal(permisos, &u.Permissions); err != nil {
		return nil, fmt.Errorf("deserializar permisos: %w", err)
	}
	if err := json.Unmarshal(preferencias, &u.Settings); err != nil {
		return nil, fmt.Errorf("deserializar preferencias: %w", err)
	}
	return &u, nil
}

// encodeCursor serializa la posición (created_at, id) de la última fila.
func encodeCursor(t time.Time, id string) string {
	raw := t.UTC().Format(time.RFC3339Nano) + "|" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (time.Time, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", err
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, "", fmt.Errorf("formato de cursor inesperado")
	}
	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, "", err
	}
	return t, parts[1], nil
}
