package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/postqms/branch-queue/internal/model"
)

// AssignmentRepo manages ticket↔employee bindings in the
// `ticket_assignments` table.  The table carries a unique key on ticket_id,
// which is the single concurrency safeguard for the whole queue: two
// snapshots racing to bind the same ticket resolve to one row.
type AssignmentRepo struct {
	db *sql.DB
}

// NewAssignmentRepo returns an AssignmentRepo bound to the given database.
func NewAssignmentRepo(db *sql.DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

// CreateOrGet binds a ticket to an employee with the given status, or
// returns the existing record when one is already present for the ticket.
// The insert-then-read sequence makes the call idempotent per ticket: a
// concurrent creation is absorbed by the unique key and surfaces as the
// winner's record.
func (r *AssignmentRepo) CreateOrGet(ctx context.Context, ticketID, employeeID, status string) (model.TicketAssignment, error) {
	now := time.Now().UTC()
	const ins = `INSERT IGNORE INTO ticket_assignments (id, ticket_id, employee_id, status, notes, created_at, updated_at)
				 VALUES (?, ?, ?, ?, '', ?, ?)`
	if _, err := r.db.ExecContext(ctx, ins, uuid.NewString(), ticketID, employeeID, status, now, now); err != nil {
		return model.TicketAssignment{}, err
	}
	const sel = `SELECT id, ticket_id, employee_id, status, notes, created_at, updated_at
				 FROM ticket_assignments WHERE ticket_id = ?`
	var rec model.TicketAssignment
	var notes sql.NullString
	err := r.db.QueryRowContext(ctx, sel, ticketID).Scan(
		&rec.ID, &rec.TicketID, &rec.EmployeeID, &rec.Status, &notes, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return model.TicketAssignment{}, err
	}
	rec.Notes = notes.String
	return rec, nil
}

// ActiveAssignments returns the CALLING records held by the given
// employees.  An empty id list yields an empty result.
func (r *AssignmentRepo) ActiveAssignments(ctx context.Context, employeeIDs []string) ([]model.TicketAssignment, error) {
	if len(employeeIDs) == 0 {
		return []model.TicketAssignment{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(employeeIDs)), ",")
	args := make([]interface{}, 0, len(employeeIDs)+1)
	for _, id := range employeeIDs {
		args = append(args, id)
	}
	args = append(args, model.AssignmentCalling)
	q := `SELECT id, ticket_id, employee_id, status, notes, created_at, updated_at
		  FROM ticket_assignments
		  WHERE employee_id IN (` + placeholders + `) AND status = ?
		  ORDER BY created_at, id`
	return r.query(ctx, q, args...)
}

// AssignmentsForTickets returns every assignment record (any status) for
// the given tickets.  An empty id list yields an empty result.
func (r *AssignmentRepo) AssignmentsForTickets(ctx context.Context, ticketIDs []string) ([]model.TicketAssignment, error) {
	if len(ticketIDs) == 0 {
		return []model.TicketAssignment{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ticketIDs)), ",")
	args := make([]interface{}, 0, len(ticketIDs))
	for _, id := range ticketIDs {
		args = append(args, id)
	}
	q := `SELECT id, ticket_id, employee_id, status, notes, created_at, updated_at
		  FROM ticket_assignments
		  WHERE ticket_id IN (` + placeholders + `)
		  ORDER BY created_at, id`
	return r.query(ctx, q, args...)
}

func (r *AssignmentRepo) query(ctx context.Context, q string, args ...interface{}) ([]model.TicketAssignment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]model.TicketAssignment, 0)
	for rows.Next() {
		var rec model.TicketAssignment
		var notes sql.NullString
		if err := rows.Scan(&rec.ID, &rec.TicketID, &rec.EmployeeID, &rec.Status, &notes, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		rec.Notes = notes.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
