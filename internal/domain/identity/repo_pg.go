package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DevFaso/hms-sub012/internal/platform/db"
)

// queryable abstracts pgxpool.Pool and pgx.Tx so repositories join an open
// request transaction when one is present.
type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// -- User Repository --

type userRepoPG struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) UserRepository {
	return &userRepoPG{pool: pool}
}

func (r *userRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const userColumns = `id, username, email, display_name, password_hash, phone,
	active, is_deleted, last_login, created_at, updated_at`

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO app_user (id, username, email, display_name, password_hash, phone, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Username, u.Email, u.DisplayName, u.PasswordHash, u.Phone, u.Active,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateUser
	}
	return err
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.scanUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+userColumns+` FROM app_user WHERE id = $1 AND NOT is_deleted`, id))
}

func (r *userRepoPG) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.scanUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+userColumns+` FROM app_user WHERE LOWER(username) = LOWER($1) AND NOT is_deleted`, username))
}

func (r *userRepoPG) Update(ctx context.Context, u *User) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE app_user SET
			username = $2, email = $3, display_name = $4, phone = $5,
			active = $6, updated_at = NOW()
		WHERE id = $1`,
		u.ID, u.Username, u.Email, u.DisplayName, u.Phone, u.Active,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateUser
	}
	return err
}

func (r *userRepoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE app_user SET is_deleted = true, active = false, updated_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *userRepoPG) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM app_user WHERE NOT is_deleted`).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+userColumns+` FROM app_user WHERE NOT is_deleted ORDER BY username LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, nil
}

// scanUser accepts both pgx.Row and pgx.Rows.
func (r *userRepoPG) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.DisplayName, &u.PasswordHash, &u.Phone,
		&u.Active, &u.IsDeleted, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// -- Role Repository --

type roleRepoPG struct {
	pool *pgxpool.Pool
}

func NewRoleRepo(pool *pgxpool.Pool) RoleRepository {
	return &roleRepoPG{pool: pool}
}

func (r *roleRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const roleColumns = `id, code, name, scope, hospital_admin, department_bound, blueprint_permissions, created_at`

func (r *roleRepoPG) Create(ctx context.Context, role *Role) error {
	role.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO role (id, code, name, scope, hospital_admin, department_bound, blueprint_permissions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		role.ID, role.Code, role.Name, string(role.Scope),
		role.HospitalAdmin, role.DepartmentBound, role.BlueprintPermissions,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateRole
	}
	return err
}

func (r *roleRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Role, error) {
	return r.scanRole(r.conn(ctx).QueryRow(ctx, `SELECT `+roleColumns+` FROM role WHERE id = $1`, id))
}

func (r *roleRepoPG) GetByCode(ctx context.Context, code string) (*Role, error) {
	return r.scanRole(r.conn(ctx).QueryRow(ctx,
		`SELECT `+roleColumns+` FROM role WHERE UPPER(code) = UPPER($1)`, code))
}

func (r *roleRepoPG) FindByCodeOrName(ctx context.Context, ref string) (*Role, error) {
	return r.scanRole(r.conn(ctx).QueryRow(ctx,
		`SELECT `+roleColumns+` FROM role WHERE UPPER(code) = UPPER($1) OR LOWER(name) = LOWER($1)`, ref))
}

func (r *roleRepoPG) Update(ctx context.Context, role *Role) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE role SET
			code = $2, name = $3, scope = $4, hospital_admin = $5,
			department_bound = $6, blueprint_permissions = $7
		WHERE id = $1`,
		role.ID, role.Code, role.Name, string(role.Scope),
		role.HospitalAdmin, role.DepartmentBound, role.BlueprintPermissions,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateRole
	}
	return err
}

func (r *roleRepoPG) List(ctx context.Context, limit, offset int) ([]*Role, int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM role`).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+roleColumns+` FROM role ORDER BY code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var roles []*Role
	for rows.Next() {
		role, err := r.scanRole(rows)
		if err != nil {
			return nil, 0, err
		}
		roles = append(roles, role)
	}
	return roles, total, nil
}

func (r *roleRepoPG) scanRole(row pgx.Row) (*Role, error) {
	var role Role
	var scope string
	err := row.Scan(
		&role.ID, &role.Code, &role.Name, &scope,
		&role.HospitalAdmin, &role.DepartmentBound, &role.BlueprintPermissions, &role.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	role.Scope = RoleScope(scope)
	return &role, nil
}
