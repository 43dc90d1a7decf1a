package assign

import (
	"context"
	"time"

	"github.com/postqms/branch-queue/internal/model"
)

// Test fixtures shared by the engine tests.  fakeTickets, fakeStaff and
// fakeAssignments satisfy the source interfaces with overridable func
// fields; the zero value of each behaves like an empty database.

type fakeTickets struct {
	ticketsFn func(ctx context.Context, departmentID string, window DayWindow) ([]model.Ticket, error)
}

func (f fakeTickets) TicketsForDay(ctx context.Context, departmentID string, window DayWindow) ([]model.Ticket, error) {
	if f.ticketsFn == nil {
		return nil, nil
	}
	return f.ticketsFn(ctx, departmentID, window)
}

type fakeStaff struct {
	rosterFn func(ctx context.Context, departmentID string) ([]model.Employee, error)
}

func (f fakeStaff) OnDutyEmployees(ctx context.Context, departmentID string) ([]model.Employee, error) {
	if f.rosterFn == nil {
		return nil, nil
	}
	return f.rosterFn(ctx, departmentID)
}

// memAssignments is an in-memory AssignmentSource with the same
// idempotency contract as the repository: one record per ticket, first
// writer wins.
type memAssignments struct {
	records []model.TicketAssignment
}

func (m *memAssignments) ActiveAssignments(ctx context.Context, employeeIDs []string) ([]model.TicketAssignment, error) {
	want := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		want[id] = true
	}
	var out []model.TicketAssignment
	for _, rec := range m.records {
		if want[rec.EmployeeID] && rec.Status == model.AssignmentCalling {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memAssignments) AssignmentsForTickets(ctx context.Context, ticketIDs []string) ([]model.TicketAssignment, error) {
	want := make(map[string]bool, len(ticketIDs))
	for _, id := range ticketIDs {
		want[id] = true
	}
	var out []model.TicketAssignment
	for _, rec := range m.records {
		if want[rec.TicketID] {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memAssignments) CreateOrGet(ctx context.Context, ticketID, employeeID, status string) (model.TicketAssignment, error) {
	for _, rec := range m.records {
		if rec.TicketID == ticketID {
			return rec, nil
		}
	}
	rec := model.TicketAssignment{
		ID:         "a-" + ticketID,
		TicketID:   ticketID,
		EmployeeID: employeeID,
		Status:     status,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	m.records = append(m.records, rec)
	return rec, nil
}

// employee builds a roster member allowed to serve the given operations,
// all placed in a single operation group.
func employee(id string, operationIDs ...string) model.Employee {
	ops := make([]model.Operation, 0, len(operationIDs))
	for _, opID := range operationIDs {
		ops = append(ops, model.Operation{ID: opID, OperationGroupID: "g-" + id})
	}
	return model.Employee{
		ID:     id,
		Name:   "Employee " + id,
		OnDuty: true,
		AllowedGroups: []model.OperationGroup{
			{ID: "g-" + id, Operations: ops},
		},
	}
}

func walkin(id, operationID string, createdAt time.Time) model.Ticket {
	return model.Ticket{ID: id, Code: "T-" + id, OperationID: operationID, DepartmentID: "d1", CreatedAt: createdAt}
}

func appointed(id, operationID string, createdAt, at time.Time) model.Ticket {
	t := walkin(id, operationID, createdAt)
	t.AppointedTime = &at
	return t
}

func ids(tickets []model.Ticket) []string {
	out := make([]string, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, t.ID)
	}
	return out
}
