package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/postqms/branch-queue/internal/model"
)

// DepartmentRepo reads branches from the `departments` table and the
// operation groups they offer from `department_operation_groups`.
type DepartmentRepo struct {
	db *sql.DB
}

// NewDepartmentRepo returns a DepartmentRepo bound to the given database.
func NewDepartmentRepo(db *sql.DB) *DepartmentRepo { return &DepartmentRepo{db: db} }

// List returns every department with its offered operation groups (without
// the groups' operations; use OperationGroups for the expanded view).
func (r *DepartmentRepo) List(ctx context.Context) ([]model.Department, error) {
	const q = `SELECT id, address FROM departments ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departments := make([]model.Department, 0)
	index := make(map[string]int)
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.Address); err != nil {
			return nil, err
		}
		d.Groups = []model.OperationGroup{}
		index[d.ID] = len(departments)
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(departments) == 0 {
		return departments, nil
	}

	const gq = `SELECT dog.department_id, g.id, g.name, g.description
				FROM department_operation_groups dog
				JOIN operation_groups g ON g.id = dog.operation_group_id
				ORDER BY dog.department_id, g.id`
	grows, err := r.db.QueryContext(ctx, gq)
	if err != nil {
		return nil, err
	}
	defer grows.Close()
	for grows.Next() {
		var departmentID string
		var g model.OperationGroup
		var desc sql.NullString
		if err := grows.Scan(&departmentID, &g.ID, &g.Name, &desc); err != nil {
			return nil, err
		}
		g.Description = desc.String
		if i, ok := index[departmentID]; ok {
			departments[i].Groups = append(departments[i].Groups, g)
		}
	}
	if err := grows.Err(); err != nil {
		return nil, err
	}
	return departments, nil
}

// OperationGroups returns the groups a department offers, each expanded to
// its operations.  ErrNotFound is returned when the department is unknown.
func (r *DepartmentRepo) OperationGroups(ctx context.Context, departmentID string) ([]model.OperationGroup, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM departments WHERE id = ?`, departmentID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	const q = `SELECT g.id, g.name, g.description
			   FROM department_operation_groups dog
			   JOIN operation_groups g ON g.id = dog.operation_group_id
			   WHERE dog.department_id = ? ORDER BY g.id`
	rows, err := r.db.QueryContext(ctx, q, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]model.OperationGroup, 0)
	gindex := make(map[string]int)
	for rows.Next() {
		var g model.OperationGroup
		var desc sql.NullString
		if err := rows.Scan(&g.ID, &g.Name, &desc); err != nil {
			return nil, err
		}
		g.Description = desc.String
		g.Operations = []model.Operation{}
		gindex[g.ID] = len(groups)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return groups, nil
	}

	const oq = `SELECT o.id, o.name, o.description, o.operation_group_id
				FROM operations o
				JOIN department_operation_groups dog ON dog.operation_group_id = o.operation_group_id
				WHERE dog.department_id = ? ORDER BY o.id`
	orows, err := r.db.QueryContext(ctx, oq, departmentID)
	if err != nil {
		return nil, err
	}
	defer orows.Close()
	for orows.Next() {
		var op model.Operation
		var desc sql.NullString
		if err := orows.Scan(&op.ID, &op.Name, &desc, &op.OperationGroupID); err != nil {
			return nil, err
		}
		op.Description = desc.String
		if i, ok := gindex[op.OperationGroupID]; ok {
			groups[i].Operations = append(groups[i].Operations, op)
		}
	}
	if err := orows.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

// FirstForGroup returns the id of the first department offering the given
// operation group, mirroring how tickets are routed to a branch.
// ErrNotFound means no department offers the group.
func (r *DepartmentRepo) FirstForGroup(ctx context.Context, groupID string) (string, error) {
	const q = `SELECT department_id FROM department_operation_groups
			   WHERE operation_group_id = ? ORDER BY department_id LIMIT 1`
	var id string
	err := r.db.QueryRowContext(ctx, q, groupID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// First returns the id of any department, used as a fallback destination
// for operations that belong to no group.  ErrNotFound means the branch
// table is empty.
func (r *DepartmentRepo) First(ctx context.Context) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM departments ORDER BY id LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return id, nil
}
