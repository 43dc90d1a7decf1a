// Package assign implements the queue-assignment core: deciding which
// on-duty employee serves which ticket next, how appointment priority
// interacts with walk-in order, and the per-employee view shown on the
// branch monitor.  The package holds no state between calls and performs no
// I/O of its own; all data arrives through the source interfaces below,
// which the repository layer satisfies.
package assign

import (
	"context"

	"github.com/postqms/branch-queue/internal/model"
)

// TicketSource supplies the day's relevant tickets for a department:
// walk-ins, tickets appointed inside the window, and tickets created inside
// the window, ordered by creation time ascending.
type TicketSource interface {
	TicketsForDay(ctx context.Context, departmentID string, window DayWindow) ([]model.Ticket, error)
}

// StaffSource supplies the on-duty roster of a department with each
// employee's allowed operation groups expanded to their operations.
type StaffSource interface {
	OnDutyEmployees(ctx context.Context, departmentID string) ([]model.Employee, error)
}

// AssignmentSource reads and creates ticket↔employee assignment records.
// CreateOrGet must be idempotent per ticket: when a record for the ticket
// already exists (including one created concurrently by another caller) the
// existing record is returned instead of a duplicate.
type AssignmentSource interface {
	ActiveAssignments(ctx context.Context, employeeIDs []string) ([]model.TicketAssignment, error)
	AssignmentsForTickets(ctx context.Context, ticketIDs []string) ([]model.TicketAssignment, error)
	CreateOrGet(ctx context.Context, ticketID, employeeID, status string) (model.TicketAssignment, error)
}
