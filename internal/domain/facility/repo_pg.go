package facility

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DevFaso/hms-sub012/internal/platform/db"
	"github.com/DevFaso/hms-sub012/internal/platform/tenant"
)

type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// -- Organization Repository --

type orgRepoPG struct {
	pool *pgxpool.Pool
}

func NewOrganizationRepo(pool *pgxpool.Pool) OrganizationRepository {
	return &orgRepoPG{pool: pool}
}

func (r *orgRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *orgRepoPG) Create(ctx context.Context, o *Organization) error {
	o.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO organization (id, name, active) VALUES ($1, $2, $3)`,
		o.ID, o.Name, o.Active,
	)
	return err
}

func (r *orgRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Organization, error) {
	var o Organization
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, name, active, created_at, updated_at FROM organization WHERE id = $1`, id,
	).Scan(&o.ID, &o.Name, &o.Active, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orgRepoPG) Update(ctx context.Context, o *Organization) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE organization SET name = $2, active = $3, updated_at = NOW() WHERE id = $1`,
		o.ID, o.Name, o.Active,
	)
	return err
}

func (r *orgRepoPG) List(ctx context.Context, limit, offset int) ([]*Organization, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM organization`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, name, active, created_at, updated_at FROM organization ORDER BY name LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orgs []*Organization
	for rows.Next() {
		var o Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Active, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		orgs = append(orgs, &o)
	}
	return orgs, total, nil
}

// -- Hospital Repository --

type hospitalRepoPG struct {
	pool *pgxpool.Pool
}

func NewHospitalRepo(pool *pgxpool.Pool) HospitalRepository {
	return &hospitalRepoPG{pool: pool}
}

func (r *hospitalRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const hospitalColumns = `h.id, h.code, h.name, h.organization_id, h.address, h.phone, h.active, h.created_at, h.updated_at`

// scopeFilter declares how the hospital table exposes its tenancy
// references: the row itself and its owning organization. Scoped reads in
// this package go through it.
var scopeFilter = tenant.Filter{
	OrganizationColumn: "h.organization_id",
	HospitalColumn:     "h.id",
}

func (r *hospitalRepoPG) Create(ctx context.Context, h *Hospital) error {
	h.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO hospital (id, code, name, organization_id, address, phone, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		h.ID, h.Code, h.Name, h.OrganizationID, h.Address, h.Phone, h.Active,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateHospital
	}
	return err
}

func (r *hospitalRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return r.scanHospital(r.conn(ctx).QueryRow(ctx,
		`SELECT `+hospitalColumns+` FROM hospital h WHERE h.id = $1`, id))
}

func (r *hospitalRepoPG) GetByCode(ctx context.Context, code string) (*Hospital, error) {
	return r.scanHospital(r.conn(ctx).QueryRow(ctx,
		`SELECT `+hospitalColumns+` FROM hospital h WHERE UPPER(h.code) = UPPER($1)`, code))
}

func (r *hospitalRepoPG) FindByCodeOrName(ctx context.Context, ref string) (*Hospital, error) {
	return r.scanHospital(r.conn(ctx).QueryRow(ctx,
		`SELECT `+hospitalColumns+` FROM hospital h WHERE UPPER(h.code) = UPPER($1) OR LOWER(h.name) = LOWER($1)`, ref))
}

func (r *hospitalRepoPG) FindVisible(ctx context.Context, sc *tenant.Scope, id uuid.UUID) (*Hospital, error) {
	query := `SELECT ` + hospitalColumns + ` FROM hospital h WHERE h.id = $1`
	args := []interface{}{id}
	query, args, _ = scopeFilter.Append(sc, query, args, 2)
	return r.scanHospital(r.conn(ctx).QueryRow(ctx, query, args...))
}

func (r *hospitalRepoPG) Update(ctx context.Context, h *Hospital) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE hospital SET
			code = $2, name = $3, organization_id = $4, address = $5,
			phone = $6, active = $7, updated_at = NOW()
		WHERE id = $1`,
		h.ID, h.Code, h.Name, h.OrganizationID, h.Address, h.Phone, h.Active,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateHospital
	}
	return err
}

func (r *hospitalRepoPG) List(ctx context.Context, sc *tenant.Scope, limit, offset int) ([]*Hospital, int, error) {
	where := ` WHERE true`
	args := []interface{}{}
	where, args, idx := scopeFilter.Append(sc, where, args, 1)

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM hospital h`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM hospital h%s ORDER BY h.code LIMIT $%d OFFSET $%d`,
		hospitalColumns, where, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *hospitalRepoPG) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*Hospital, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+hospitalColumns+` FROM hospital h WHERE h.organization_id = $1 ORDER BY h.code`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	hospitals, _, err := r.collect(rows, 0)
	return hospitals, err
}

func (r *hospitalRepoPG) collect(rows pgx.Rows, total int) ([]*Hospital, int, error) {
	var hospitals []*Hospital
	for rows.Next() {
		h, err := r.scanHospital(rows)
		if err != nil {
			return nil, 0, err
		}
		hospitals = append(hospitals, h)
	}
	return hospitals, total, rows.Err()
}

func (r *hospitalRepoPG) scanHospital(row pgx.Row) (*Hospital, error) {
	var h Hospital
	err := row.Scan(
		&h.ID, &h.Code, &h.Name, &h.OrganizationID, &h.Address,
		&h.Phone, &h.Active, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// -- Department Repository --

type departmentRepoPG struct {
	pool *pgxpool.Pool
}

func NewDepartmentRepo(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepoPG{pool: pool}
}

func (r *departmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *departmentRepoPG) Create(ctx context.Context, d *Department) error {
	d.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO department (id, hospital_id, code, name, active) VALUES ($1, $2, $3, $4, $5)`,
		d.ID, d.HospitalID, d.Code, d.Name, d.Active,
	)
	return err
}

func (r *departmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Department, error) {
	var d Department
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, hospital_id, code, name, active, created_at FROM department WHERE id = $1`, id,
	).Scan(&d.ID, &d.HospitalID, &d.Code, &d.Name, &d.Active, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *departmentRepoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*Department, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, hospital_id, code, name, active, created_at FROM department WHERE hospital_id = $1 ORDER BY code`,
		hospitalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []*Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.HospitalID, &d.Code, &d.Name, &d.Active, &d.CreatedAt); err != nil {
			return nil, err
		}
		departments = append(departments, &d)
	}
	return departments, nil
}
