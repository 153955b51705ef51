package assignment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DevFaso/hms-sub012/internal/platform/db"
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

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// assignmentSelect joins the role and hospital the row references plus the
// permission codes in force, so reads return the full ledger view in one
// round trip.
const assignmentSelect = `
	SELECT a.id, a.assignment_code, a.user_id, a.role_id, a.hospital_id, a.department_id,
		a.active, a.start_date, a.confirmed_at, a.registered_by_id, a.created_at, a.updated_at,
		r.code, r.name, r.scope, r.hospital_admin, r.department_bound,
		h.name, h.organization_id,
		COALESCE(
			(SELECT array_agg(ap.code ORDER BY ap.code)
			 FROM assignment_permission ap WHERE ap.assignment_id = a.id),
			'{}'::text[]
		)
	FROM assignment a
	JOIN role r ON r.id = a.role_id
	LEFT JOIN hospital h ON h.id = a.hospital_id`

func (r *repoPG) Create(ctx context.Context, a *Assignment) error {
	if tx := db.TxFromContext(ctx); tx != nil {
		return r.createIn(ctx, tx, a)
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return r.createIn(ctx, tx, a)
	})
}

func (r *repoPG) createIn(ctx context.Context, tx pgx.Tx, a *Assignment) error {
	a.ID = uuid.New()
	_, err := tx.Exec(ctx, `
		INSERT INTO assignment
			(id, assignment_code, user_id, role_id, hospital_id, department_id,
			 active, start_date, registered_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.AssignmentCode, a.UserID, a.RoleID, a.HospitalID, a.DepartmentID,
		a.Active, a.StartDate, a.RegisteredByID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateAssignment
	}
	if err != nil {
		return err
	}
	for _, code := range a.Permissions {
		_, err := tx.Exec(ctx,
			`INSERT INTO assignment_permission (id, assignment_id, code) VALUES ($1, $2, $3)`,
			uuid.New(), a.ID, code)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Assignment, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, assignmentSelect+` WHERE a.id = $1`, id))
}

func (r *repoPG) FindActiveTriple(ctx context.Context, userID, roleID uuid.UUID, hospitalID *uuid.UUID) (*Assignment, error) {
	query := assignmentSelect + ` WHERE a.user_id = $1 AND a.role_id = $2 AND a.active`
	args := []interface{}{userID, roleID}
	if hospitalID != nil {
		query += ` AND a.hospital_id = $3`
		args = append(args, *hospitalID)
	} else {
		query += ` AND a.hospital_id IS NULL`
	}
	a, err := r.scan(r.conn(ctx).QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *repoPG) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE assignment SET active = false, updated_at = NOW() WHERE id = $1 AND active`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repoPG) Confirm(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE assignment SET confirmed_at = $2, updated_at = NOW() WHERE id = $1`, id, at)
	return err
}

func (r *repoPG) ListActive(ctx context.Context, userID uuid.UUID) ([]*Assignment, error) {
	return r.list(ctx, assignmentSelect+
		` WHERE a.user_id = $1 AND a.active ORDER BY a.created_at, a.id`, userID)
}

func (r *repoPG) ListAll(ctx context.Context, userID uuid.UUID) ([]*Assignment, error) {
	return r.list(ctx, assignmentSelect+
		` WHERE a.user_id = $1 ORDER BY a.created_at, a.id`, userID)
}

func (r *repoPG) list(ctx context.Context, query string, args ...interface{}) ([]*Assignment, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Assignment
	for rows.Next() {
		a, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// scan accepts both pgx.Row and pgx.Rows.
func (r *repoPG) scan(row pgx.Row) (*Assignment, error) {
	var a Assignment
	err := row.Scan(
		&a.ID, &a.AssignmentCode, &a.UserID, &a.RoleID, &a.HospitalID, &a.DepartmentID,
		&a.Active, &a.StartDate, &a.ConfirmedAt, &a.RegisteredByID, &a.CreatedAt, &a.UpdatedAt,
		&a.RoleCode, &a.RoleName, &a.RoleScope, &a.HospitalAdmin, &a.DepartmentBound,
		&a.HospitalName, &a.OrganizationID,
		&a.Permissions,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
