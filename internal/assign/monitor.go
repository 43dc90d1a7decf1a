package assign

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/postqms/branch-queue/internal/model"
)

// MonitorEntry is one employee's row on the branch monitor: who they are,
// the ticket currently at their desk, and the full ordered backlog waiting
// for them (excluding the current ticket).
type MonitorEntry struct {
	Name          string   `json:"name"`
	CurrentTicket *string  `json:"current_ticket,omitempty"`
	Queue         []string `json:"queue"`
}

// SortForMonitor orders tickets for display: appointed time ascending with
// walk-ins after all timed tickets, creation time ascending as tiebreak.
// The sort is stable.
func SortForMonitor(tickets []model.Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		a, b := tickets[i], tickets[j]
		switch {
		case a.AppointedTime == nil && b.AppointedTime == nil:
			return a.CreatedAt.Before(b.CreatedAt)
		case a.AppointedTime == nil:
			return false
		case b.AppointedTime == nil:
			return true
		case a.AppointedTime.Equal(*b.AppointedTime):
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return a.AppointedTime.Before(*b.AppointedTime)
		}
	})
}

// MonitorQueue builds the per-employee "currently serving / queued next"
// view for a department.  Unlike ActiveTickets it accumulates every
// eligible waiting ticket into the first eligible employee's backlog, so an
// employee may show a long queue here while the batch pass would hand them
// a single ticket.  That asymmetry is intentional: this is the full visible
// queue, the batch pass is the immediate next pickup.
func (e *Engine) MonitorQueue(ctx context.Context, departmentID string, now time.Time) (map[string]MonitorEntry, error) {
	roster, err := e.staff.OnDutyEmployees(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("fetch on-duty employees for department %s: %w", departmentID, err)
	}
	if len(roster) == 0 {
		return map[string]MonitorEntry{}, nil
	}

	tickets, err := e.tickets.TicketsForDay(ctx, departmentID, Today(now))
	if err != nil {
		return nil, fmt.Errorf("fetch tickets for department %s: %w", departmentID, err)
	}
	SortForMonitor(tickets)

	ticketIDs := make([]string, 0, len(tickets))
	for _, t := range tickets {
		ticketIDs = append(ticketIDs, t.ID)
	}
	records, err := e.assignments.AssignmentsForTickets(ctx, ticketIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch assignments: %w", err)
	}
	terminal := make(map[string]bool)
	calling := make(map[string]string) // ticket id -> employee id
	for _, rec := range records {
		if rec.Terminal() {
			terminal[rec.TicketID] = true
			continue
		}
		if rec.Status == model.AssignmentCalling {
			if _, ok := calling[rec.TicketID]; !ok {
				calling[rec.TicketID] = rec.EmployeeID
			}
		}
	}

	idx := BuildEligibility(roster)
	view := make(map[string]MonitorEntry, len(roster))
	for _, emp := range roster {
		view[emp.ID] = MonitorEntry{Name: emp.Name, Queue: []string{}}
	}

	for _, ticket := range tickets {
		if terminal[ticket.ID] {
			continue
		}
		if employeeID, ok := calling[ticket.ID]; ok {
			entry, rostered := view[employeeID]
			if !rostered || entry.CurrentTicket != nil {
				// Assignment to someone off today's roster, or a second
				// CALLING ticket for the same desk; neither should occur
				// under the uniqueness invariant.
				continue
			}
			id := ticket.ID
			entry.CurrentTicket = &id
			view[employeeID] = entry
			continue
		}
		for _, emp := range roster {
			if !idx.CanServe(emp.ID, ticket.OperationID) {
				continue
			}
			entry := view[emp.ID]
			entry.Queue = append(entry.Queue, ticket.ID)
			view[emp.ID] = entry
			break
		}
	}
	return view, nil
}
