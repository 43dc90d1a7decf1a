package model

import "time"

// Assignment statuses as stored in the ticket_assignments.status column.
// CALLING marks a ticket that is currently being served; COMPLETE and
// CANCELLED are terminal and remove the ticket from every queue view.
const (
	AssignmentCalling   = "CALLING"
	AssignmentComplete  = "COMPLETE"
	AssignmentCancelled = "CANCELLED"
)

// Ticket represents a visitor's queued service request as stored in the
// `tickets` table.  A ticket references exactly one operation and one
// department.  Tickets are immutable after creation; only their assignment
// record changes over time.
//
// Fields:
//  ID            – primary key identifier.
//  Code          – short code printed on the ticket stub.
//  UserID        – visitor who requested the ticket (nullable for anonymous
//                  terminal tickets).
//  OperationID   – operation the visitor came for.
//  DepartmentID  – department that will serve the ticket.
//  AppointedTime – booked appointment slot; nil means a walk-in served in
//                  creation order.
//  CreatedAt     – creation timestamp (UTC).
type Ticket struct {
	ID            string     `json:"id"`
	Code          string     `json:"code"`
	UserID        *string    `json:"user_id,omitempty"`
	OperationID   string     `json:"operation_id"`
	DepartmentID  string     `json:"department_id"`
	AppointedTime *time.Time `json:"appointed_time,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Walkin reports whether the ticket has no booked appointment slot.
func (t Ticket) Walkin() bool { return t.AppointedTime == nil }

// TicketAssignment binds a ticket to the employee serving it.  The
// ticket_assignments table carries a unique key on ticket_id, so a ticket
// holds at most one record; creating a second one resolves to the existing
// row instead of inserting a duplicate.
//
// Fields:
//  ID         – primary key identifier.
//  TicketID   – ticket being served (unique).
//  EmployeeID – employee the ticket is bound to.
//  Status     – CALLING, COMPLETE or CANCELLED.
//  Notes      – free-text note left by staff, may be empty.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last status change.
type TicketAssignment struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticket_id"`
	EmployeeID string    `json:"employee_id"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Terminal reports whether the assignment no longer occupies the employee.
func (a TicketAssignment) Terminal() bool {
	return a.Status == AssignmentComplete || a.Status == AssignmentCancelled
}
