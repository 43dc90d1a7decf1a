package assign

import "github.com/postqms/branch-queue/internal/model"

// Eligibility is a precomputed bipartite mapping between a department's
// on-duty roster and the operations its members may perform.  Permissions
// are transitive: employee → allowed operation group → operation.  The index
// preserves roster order so that "first eligible employee" is deterministic.
type Eligibility struct {
	roster     []model.Employee
	byEmployee map[string]map[string]struct{}
}

// BuildEligibility derives the index from a roster whose allowed groups
// have been expanded to operations.  Employees with no allowed groups get an
// empty operation set and are never eligible for anything.
func BuildEligibility(roster []model.Employee) Eligibility {
	idx := Eligibility{
		roster:     roster,
		byEmployee: make(map[string]map[string]struct{}, len(roster)),
	}
	for _, emp := range roster {
		ops := make(map[string]struct{})
		for _, group := range emp.AllowedGroups {
			for _, op := range group.Operations {
				ops[op.ID] = struct{}{}
			}
		}
		idx.byEmployee[emp.ID] = ops
	}
	return idx
}

// CanServe reports whether the employee may handle the operation.
func (e Eligibility) CanServe(employeeID, operationID string) bool {
	_, ok := e.byEmployee[employeeID][operationID]
	return ok
}

// Serviceable reports whether any rostered employee may handle the
// operation.  Operations belonging to no allowed group of anyone on the
// roster are unserviceable and stay out of the assignment pass.
func (e Eligibility) Serviceable(operationID string) bool {
	for _, emp := range e.roster {
		if e.CanServe(emp.ID, operationID) {
			return true
		}
	}
	return false
}

// StaffFor returns, in roster order, the ids of employees allowed to handle
// the operation.
func (e Eligibility) StaffFor(operationID string) []string {
	var ids []string
	for _, emp := range e.roster {
		if e.CanServe(emp.ID, operationID) {
			ids = append(ids, emp.ID)
		}
	}
	return ids
}

// Operations returns the set of operation ids the employee may perform.
func (e Eligibility) Operations(employeeID string) map[string]struct{} {
	return e.byEmployee[employeeID]
}

// Roster returns the employees the index was built from, in roster order.
func (e Eligibility) Roster() []model.Employee { return e.roster }
