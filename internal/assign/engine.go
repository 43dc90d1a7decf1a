package assign

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/postqms/branch-queue/internal/model"
)

// Engine computes queue assignments over a snapshot of tickets, roster and
// assignment records fetched at call start.  It is safe for concurrent use:
// each invocation works on its own snapshot, and the unique key on
// ticket_assignments.ticket_id is the sole safeguard against two snapshots
// racing to bind the same ticket.
type Engine struct {
	tickets     TicketSource
	staff       StaffSource
	assignments AssignmentSource
}

// New returns an Engine reading from the given sources.
func New(tickets TicketSource, staff StaffSource, assignments AssignmentSource) *Engine {
	return &Engine{tickets: tickets, staff: staff, assignments: assignments}
}

// PickEmployee is the one-shot assignment used when a fresh ticket needs an
// initial server: the first employee in roster order permitted to handle the
// ticket's operation, with no busy check.  The boolean is false when nobody
// on the roster is eligible.
func PickEmployee(ticket model.Ticket, roster []model.Employee) (string, bool) {
	idx := BuildEligibility(roster)
	for _, emp := range roster {
		if idx.CanServe(emp.ID, ticket.OperationID) {
			return emp.ID, true
		}
	}
	return "", false
}

// AssignTicket runs PickEmployee over the roster and records a CALLING
// assignment for the chosen employee.  When no rostered employee is
// eligible it returns ok=false with no error: the ticket simply stays in
// the waiting queue, which operators notice on the monitor.  Creation is
// idempotent per ticket, so losing a race against a concurrent caller
// yields that caller's record rather than a failure.
func (e *Engine) AssignTicket(ctx context.Context, ticket model.Ticket, roster []model.Employee) (model.TicketAssignment, bool, error) {
	employeeID, ok := PickEmployee(ticket, roster)
	if !ok {
		log.Printf("assign: no eligible on-duty employee for ticket %s (operation %s, department %s)",
			ticket.ID, ticket.OperationID, ticket.DepartmentID)
		return model.TicketAssignment{}, false, nil
	}
	rec, err := e.assignments.CreateOrGet(ctx, ticket.ID, employeeID, model.AssignmentCalling)
	if err != nil {
		return model.TicketAssignment{}, false, fmt.Errorf("create assignment for ticket %s: %w", ticket.ID, err)
	}
	return rec, true, nil
}

// ActiveTickets is the batch backlog pass behind GET /queue/active-tickets.
// It returns, for every on-duty employee of the department, the ticket ids
// considered active for them: tickets they are already CALLING plus at most
// one newly matched ticket from today's queue.  One new ticket per employee
// per pass is deliberate — the result models who would pick up next, not a
// full per-employee backlog (the monitor view shows that instead).
//
// Tickets whose operation nobody on duty may handle, and tickets left over
// once every eligible employee is busy, are simply absent from the result.
func (e *Engine) ActiveTickets(ctx context.Context, departmentID string, now time.Time) (map[string][]string, error) {
	tickets, err := e.tickets.TicketsForDay(ctx, departmentID, Today(now))
	if err != nil {
		return nil, fmt.Errorf("fetch tickets for department %s: %w", departmentID, err)
	}
	if len(tickets) == 0 {
		return map[string][]string{}, nil
	}

	roster, err := e.staff.OnDutyEmployees(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("fetch on-duty employees for department %s: %w", departmentID, err)
	}
	if len(roster) == 0 {
		log.Printf("assign: department %s has no on-duty employees, %d tickets remain queued", departmentID, len(tickets))
		return map[string][]string{}, nil
	}

	idx := BuildEligibility(roster)
	SortByCreation(tickets)
	PromoteDueAppointment(tickets, now)

	// Seed each employee's active list from existing CALLING records.  An
	// employee with at least one CALLING ticket is busy for this pass.
	result := make(map[string][]string, len(roster))
	busy := make(map[string]bool, len(roster))
	taken := make(map[string]bool)
	employeeIDs := make([]string, 0, len(roster))
	for _, emp := range roster {
		result[emp.ID] = []string{}
		employeeIDs = append(employeeIDs, emp.ID)
	}
	calling, err := e.assignments.ActiveAssignments(ctx, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch active assignments: %w", err)
	}
	for _, rec := range calling {
		result[rec.EmployeeID] = append(result[rec.EmployeeID], rec.TicketID)
		busy[rec.EmployeeID] = true
		taken[rec.TicketID] = true
	}

	for _, ticket := range tickets {
		if taken[ticket.ID] || !idx.Serviceable(ticket.OperationID) {
			continue
		}
		for _, emp := range roster {
			if busy[emp.ID] || !idx.CanServe(emp.ID, ticket.OperationID) {
				continue
			}
			result[emp.ID] = append(result[emp.ID], ticket.ID)
			busy[emp.ID] = true
			taken[ticket.ID] = true
			break
		}
	}
	return result, nil
}
