package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/postqms/branch-queue/internal/model"
)

// EmployeeRepo manages staff records in the `employees` table and their
// permitted operation groups in `employee_operation_groups`.  Query methods
// expand each employee's allowed groups to their operations, which is the
// shape the assignment core consumes.
type EmployeeRepo struct {
	db *sql.DB
}

// NewEmployeeRepo returns an EmployeeRepo bound to the given database.
func NewEmployeeRepo(db *sql.DB) *EmployeeRepo { return &EmployeeRepo{db: db} }

// CreateEmployeeInput carries the fields needed to register an employee.
// AllowedGroupIDs must reference existing operation groups; the transaction
// is rolled back when any of them is unknown.
type CreateEmployeeInput struct {
	TelegramID      string
	Name            string
	OnDuty          bool
	Admin           bool
	DepartmentID    string
	PasswordHash    string
	AllowedGroupIDs []string
}

// Create registers a new employee together with their allowed operation
// groups.  It returns ErrDuplicate when the Telegram id is taken and
// ErrNotFound when the department or one of the groups does not exist.
func (r *EmployeeRepo) Create(ctx context.Context, input CreateEmployeeInput) (model.Employee, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Employee{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var deptID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM departments WHERE id = ?`, input.DepartmentID).Scan(&deptID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Employee{}, ErrNotFound
	}
	if err != nil {
		return model.Employee{}, err
	}

	if len(input.AllowedGroupIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(input.AllowedGroupIDs)), ",")
		args := make([]interface{}, 0, len(input.AllowedGroupIDs))
		for _, id := range input.AllowedGroupIDs {
			args = append(args, id)
		}
		var known int
		q := `SELECT COUNT(*) FROM operation_groups WHERE id IN (` + placeholders + `)`
		if err := tx.QueryRowContext(ctx, q, args...).Scan(&known); err != nil {
			return model.Employee{}, err
		}
		if known != len(input.AllowedGroupIDs) {
			return model.Employee{}, ErrNotFound
		}
	}

	emp := model.Employee{
		ID:           uuid.NewString(),
		TelegramID:   input.TelegramID,
		Name:         input.Name,
		OnDuty:       input.OnDuty,
		Admin:        input.Admin,
		DepartmentID: input.DepartmentID,
		PasswordHash: input.PasswordHash,
	}
	const ins = `INSERT IGNORE INTO employees (id, telegram_id, name, on_duty, admin, department_id, password_hash)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins, emp.ID, emp.TelegramID, emp.Name, emp.OnDuty, emp.Admin, emp.DepartmentID, emp.PasswordHash)
	if err != nil {
		return model.Employee{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Employee{}, err
	}
	if affected == 0 {
		return model.Employee{}, ErrDuplicate
	}

	for _, groupID := range input.AllowedGroupIDs {
		const link = `INSERT INTO employee_operation_groups (employee_id, operation_group_id) VALUES (?, ?)`
		if _, err := tx.ExecContext(ctx, link, emp.ID, groupID); err != nil {
			return model.Employee{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Employee{}, err
	}
	committed = true
	return emp, nil
}

// GetByTelegramID fetches an employee with their allowed groups expanded to
// operations, returning ErrNotFound when the Telegram id is unknown.
func (r *EmployeeRepo) GetByTelegramID(ctx context.Context, telegramID string) (model.Employee, error) {
	const q = `SELECT id, telegram_id, name, on_duty, admin, department_id, password_hash
			   FROM employees WHERE telegram_id = ?`
	emp, err := r.scanEmployee(r.db.QueryRowContext(ctx, q, telegramID))
	if err != nil {
		return model.Employee{}, err
	}
	groups, err := r.allowedGroups(ctx, []string{emp.ID})
	if err != nil {
		return model.Employee{}, err
	}
	emp.AllowedGroups = groups[emp.ID]
	return emp, nil
}

// GetByID fetches an employee by primary key, without expanding allowed
// groups. Used by the auth endpoints, which only need identity and role.
func (r *EmployeeRepo) GetByID(ctx context.Context, id string) (model.Employee, error) {
	const q = `SELECT id, telegram_id, name, on_duty, admin, department_id, password_hash
			   FROM employees WHERE id = ?`
	return r.scanEmployee(r.db.QueryRowContext(ctx, q, id))
}

// ToggleDuty flips the employee's on-duty flag and returns the updated row.
func (r *EmployeeRepo) ToggleDuty(ctx context.Context, telegramID string) (model.Employee, error) {
	const upd = `UPDATE employees SET on_duty = NOT on_duty WHERE telegram_id = ?`
	if _, err := r.db.ExecContext(ctx, upd, telegramID); err != nil {
		return model.Employee{}, err
	}
	// Existence is checked by the read-back: an unknown id yields ErrNotFound.
	return r.GetByTelegramID(ctx, telegramID)
}

// OnDutyEmployees returns the department's on-duty roster with allowed
// groups expanded to operations, ordered by employee creation so that
// "first eligible" assignment is deterministic.  It satisfies the
// assignment core's StaffSource.
func (r *EmployeeRepo) OnDutyEmployees(ctx context.Context, departmentID string) ([]model.Employee, error) {
	const q = `SELECT id, telegram_id, name, on_duty, admin, department_id, password_hash
			   FROM employees WHERE department_id = ? AND on_duty = TRUE ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roster []model.Employee
	var ids []string
	for rows.Next() {
		emp, err := r.scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		roster = append(roster, emp)
		ids = append(ids, emp.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return roster, nil
	}
	groups, err := r.allowedGroups(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range roster {
		roster[i].AllowedGroups = groups[roster[i].ID]
	}
	return roster, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *EmployeeRepo) scanEmployee(row rowScanner) (model.Employee, error) {
	var emp model.Employee
	var passwordHash sql.NullString
	err := row.Scan(&emp.ID, &emp.TelegramID, &emp.Name, &emp.OnDuty, &emp.Admin, &emp.DepartmentID, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Employee{}, ErrNotFound
	}
	if err != nil {
		return model.Employee{}, err
	}
	if passwordHash.Valid {
		emp.PasswordHash = passwordHash.String
	}
	return emp, nil
}

// allowedGroups loads, for each employee id, the permitted operation groups
// with their operations.  One query for the group links and one for the
// member operations keeps this to two round trips regardless of roster
// size.
func (r *EmployeeRepo) allowedGroups(ctx context.Context, employeeIDs []string) (map[string][]model.OperationGroup, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(employeeIDs)), ",")
	args := make([]interface{}, 0, len(employeeIDs))
	for _, id := range employeeIDs {
		args = append(args, id)
	}

	q := `SELECT eog.employee_id, g.id, g.name, g.description
		  FROM employee_operation_groups eog
		  JOIN operation_groups g ON g.id = eog.operation_group_id
		  WHERE eog.employee_id IN (` + placeholders + `)
		  ORDER BY eog.employee_id, g.id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byEmployee := make(map[string][]model.OperationGroup, len(employeeIDs))
	groupIDs := make(map[string]struct{})
	for rows.Next() {
		var employeeID string
		var g model.OperationGroup
		var desc sql.NullString
		if err := rows.Scan(&employeeID, &g.ID, &g.Name, &desc); err != nil {
			return nil, err
		}
		g.Description = desc.String
		byEmployee[employeeID] = append(byEmployee[employeeID], g)
		groupIDs[g.ID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(groupIDs) == 0 {
		return byEmployee, nil
	}

	gids := make([]interface{}, 0, len(groupIDs))
	gph := make([]string, 0, len(groupIDs))
	for id := range groupIDs {
		gids = append(gids, id)
		gph = append(gph, "?")
	}
	opQ := `SELECT id, name, description, operation_group_id FROM operations
			WHERE operation_group_id IN (` + strings.Join(gph, ",") + `) ORDER BY id`
	opRows, err := r.db.QueryContext(ctx, opQ, gids...)
	if err != nil {
		return nil, err
	}
	defer opRows.Close()

	opsByGroup := make(map[string][]model.Operation)
	for opRows.Next() {
		var op model.Operation
		var desc sql.NullString
		if err := opRows.Scan(&op.ID, &op.Name, &desc, &op.OperationGroupID); err != nil {
			return nil, err
		}
		op.Description = desc.String
		opsByGroup[op.OperationGroupID] = append(opsByGroup[op.OperationGroupID], op)
	}
	if err := opRows.Err(); err != nil {
		return nil, err
	}

	for employeeID, groups := range byEmployee {
		for i := range groups {
			groups[i].Operations = opsByGroup[groups[i].ID]
		}
		byEmployee[employeeID] = groups
	}
	return byEmployee, nil
}
