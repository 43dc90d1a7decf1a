package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/postqms/branch-queue/internal/assign"
	"github.com/postqms/branch-queue/internal/model"
)

// TicketRepo persists tickets and serves the day-window reads the
// assignment core runs on.  All timestamps are stored in UTC.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// CreateTicketInput carries the fields needed to issue a ticket.
type CreateTicketInput struct {
	Code          string
	UserID        *string
	OperationID   string
	DepartmentID  string
	AppointedTime *time.Time
}

// Create inserts a new ticket and returns the stored row.
func (r *TicketRepo) Create(ctx context.Context, input CreateTicketInput) (model.Ticket, error) {
	t := model.Ticket{
		ID:            uuid.NewString(),
		Code:          input.Code,
		UserID:        input.UserID,
		OperationID:   input.OperationID,
		DepartmentID:  input.DepartmentID,
		AppointedTime: input.AppointedTime,
		CreatedAt:     time.Now().UTC(),
	}
	const q = `INSERT INTO tickets (id, code, user_id, operation_id, department_id, appointed_time, created_at)
			   VALUES (?, ?, ?, ?, ?, ?, ?)`
	var userID interface{}
	if t.UserID != nil {
		userID = *t.UserID
	}
	var appointed interface{}
	if t.AppointedTime != nil {
		appointed = t.AppointedTime.UTC()
	}
	if _, err := r.db.ExecContext(ctx, q, t.ID, t.Code, userID, t.OperationID, t.DepartmentID, appointed, t.CreatedAt); err != nil {
		return model.Ticket{}, err
	}
	return t, nil
}

// GetByID fetches one ticket, returning ErrNotFound when it is unknown.
func (r *TicketRepo) GetByID(ctx context.Context, id string) (model.Ticket, error) {
	const q = `SELECT id, code, user_id, operation_id, department_id, appointed_time, created_at
			   FROM tickets WHERE id = ?`
	var t model.Ticket
	var userID sql.NullString
	var appointed sql.NullTime
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Code, &userID, &t.OperationID, &t.DepartmentID, &appointed, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Ticket{}, ErrNotFound
	}
	if err != nil {
		return model.Ticket{}, err
	}
	if userID.Valid {
		uid := userID.String
		t.UserID = &uid
	}
	if appointed.Valid {
		at := appointed.Time
		t.AppointedTime = &at
	}
	return t, nil
}

// TicketsForDay returns the department's tickets relevant to the given day
// window: walk-ins (no appointed time), tickets appointed inside the
// window, and tickets created inside the window, ordered by creation time
// ascending.  It satisfies the assignment core's TicketSource.
func (r *TicketRepo) TicketsForDay(ctx context.Context, departmentID string, window assign.DayWindow) ([]model.Ticket, error) {
	const q = `SELECT id, code, user_id, operation_id, department_id, appointed_time, created_at
			   FROM tickets
			   WHERE department_id = ?
				 AND (appointed_time IS NULL
					  OR (appointed_time >= ? AND appointed_time < ?)
					  OR (created_at >= ? AND created_at < ?))
			   ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, departmentID,
		window.Start.UTC(), window.End.UTC(), window.Start.UTC(), window.End.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		var t model.Ticket
		var userID sql.NullString
		var appointed sql.NullTime
		if err := rows.Scan(&t.ID, &t.Code, &userID, &t.OperationID, &t.DepartmentID, &appointed, &t.CreatedAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			uid := userID.String
			t.UserID = &uid
		}
		if appointed.Valid {
			at := appointed.Time
			t.AppointedTime = &at
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}
