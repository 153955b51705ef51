package tenant

import "fmt"

// Filter describes how an entity's table exposes its tenancy references so
// the scope predicate can be appended to a query. It replaces expression
// splicing with an explicit parameter object: repositories declare their
// columns once and the predicate is built with positional binds.
//
// Columns left empty are skipped. RegistrationExists, when set, is a SQL
// EXISTS fragment with a single %s placeholder for the hospital-id bind,
// covering entities visible through an indirect hospital relationship:
//
//	EXISTS (SELECT 1 FROM patient_registration r
//	        WHERE r.patient_id = p.id AND r.active AND r.hospital_id = ANY(%s))
type Filter struct {
	OrganizationColumn string
	HospitalColumn     string
	RegistrationExists string
}

// Append appends the tenant predicate to a WHERE clause under construction
// and returns the updated clause, args and next placeholder index. The
// predicate composes with any other filters by plain AND:
//
//   - super-admin: no clause is added, the query runs unscoped;
//   - empty scope: "AND false" is added, the query returns zero rows;
//   - otherwise: AND (org ∈ orgs OR hospital ∈ hospitals OR via-registration).
func (f Filter) Append(sc *Scope, query string, args []interface{}, idx int) (string, []interface{}, int) {
	if sc.SuperAdmin {
		return query, args, idx
	}
	if sc.Empty() {
		return query + ` AND false`, args, idx
	}

	var disjuncts []string

	if f.OrganizationColumn != "" && len(sc.OrganizationIDs) > 0 {
		disjuncts = append(disjuncts, fmt.Sprintf(`%s = ANY($%d)`, f.OrganizationColumn, idx))
		args = append(args, sc.OrganizationIDs)
		idx++
	}
	if f.HospitalColumn != "" && len(sc.HospitalIDs) > 0 {
		disjuncts = append(disjuncts, fmt.Sprintf(`%s = ANY($%d)`, f.HospitalColumn, idx))
		args = append(args, sc.HospitalIDs)
		idx++
	}
	if f.RegistrationExists != "" && len(sc.HospitalIDs) > 0 {
		disjuncts = append(disjuncts, fmt.Sprintf(f.RegistrationExists, fmt.Sprintf("$%d", idx)))
		args = append(args, sc.HospitalIDs)
		idx++
	}

	if len(disjuncts) == 0 {
		// The scope grants tenants but none this entity can be matched
		// against; fail closed.
		return query + ` AND false`, args, idx
	}

	query += ` AND (` + disjuncts[0]
	for _, d := range disjuncts[1:] {
		query += ` OR ` + d
	}
	query += `)`

	return query, args, idx
}
