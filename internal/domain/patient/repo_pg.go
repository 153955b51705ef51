package patient

import (
	"context"
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

// scopeFilter declares how the patient table exposes its tenancy references.
// Every scoped read in this package goes through it.
var scopeFilter = tenant.Filter{
	OrganizationColumn: "p.organization_id",
	HospitalColumn:     "p.hospital_id",
	RegistrationExists: `EXISTS (SELECT 1 FROM patient_registration r
		WHERE r.patient_id = p.id AND r.active AND r.hospital_id = ANY(%s))`,
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

const patientColumns = `p.id, p.mrn, p.given_name, p.family_name, p.birth_date,
	p.hospital_id, p.organization_id, p.is_deleted, p.created_at, p.updated_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (id, mrn, given_name, family_name, birth_date, hospital_id, organization_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.MRN, p.GivenName, p.FamilyName, p.BirthDate, p.HospitalID, p.OrganizationID,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientColumns+` FROM patient p WHERE p.id = $1 AND NOT p.is_deleted`, id))
}

func (r *repoPG) FindVisible(ctx context.Context, sc *tenant.Scope, id uuid.UUID) (*Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patient p WHERE p.id = $1 AND NOT p.is_deleted`
	args := []interface{}{id}
	query, args, _ = scopeFilter.Append(sc, query, args, 2)
	return r.scan(r.conn(ctx).QueryRow(ctx, query, args...))
}

func (r *repoPG) List(ctx context.Context, sc *tenant.Scope, limit, offset int) ([]*Patient, int, error) {
	return r.query(ctx, sc, "", limit, offset)
}

func (r *repoPG) Search(ctx context.Context, sc *tenant.Scope, name string, limit, offset int) ([]*Patient, int, error) {
	return r.query(ctx, sc, name, limit, offset)
}

func (r *repoPG) query(ctx context.Context, sc *tenant.Scope, name string, limit, offset int) ([]*Patient, int, error) {
	where := ` WHERE NOT p.is_deleted`
	args := []interface{}{}
	idx := 1

	if name != "" {
		where += ` AND (p.given_name ILIKE '%' || $1 || '%' OR p.family_name ILIKE '%' || $1 || '%')`
		args = append(args, name)
		idx++
	}
	where, args, idx = scopeFilter.Append(sc, where, args, idx)

	var total int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient p`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM patient p%s ORDER BY p.family_name, p.given_name LIMIT $%d OFFSET $%d`,
		patientColumns, where, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, p)
	}
	return patients, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET
			mrn = $2, given_name = $3, family_name = $4, birth_date = $5,
			hospital_id = $6, organization_id = $7, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.MRN, p.GivenName, p.FamilyName, p.BirthDate, p.HospitalID, p.OrganizationID,
	)
	return err
}

func (r *repoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE patient SET is_deleted = true, updated_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *repoPG) AddRegistration(ctx context.Context, reg *Registration) error {
	reg.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO patient_registration (id, patient_id, hospital_id, active) VALUES ($1, $2, $3, $4)`,
		reg.ID, reg.PatientID, reg.HospitalID, reg.Active,
	)
	return err
}

func (r *repoPG) RegistrationHospitals(ctx context.Context, patientID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT hospital_id FROM patient_registration WHERE patient_id = $1 AND active`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// scan accepts both pgx.Row and pgx.Rows.
func (r *repoPG) scan(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.MRN, &p.GivenName, &p.FamilyName, &p.BirthDate,
		&p.HospitalID, &p.OrganizationID, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
