package model

// Operation is a single service a visitor can queue for (e.g. "send a
// parcel").  Every operation belongs to at most one operation group; an
// operation with an empty OperationGroupID is offered nowhere and is never
// assignable.
type Operation struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	OperationGroupID string `json:"operation_group_id,omitempty"`
}

// OperationGroup bundles related operations.  Staff permissions and
// department offerings are both expressed at group granularity: an employee
// allowed a group may serve every operation in it, and a department offering
// a group accepts tickets for all of them.
type OperationGroup struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Operations  []Operation `json:"operations,omitempty"`
}

// Department is a physical branch.  Groups lists the operation groups the
// branch offers; it is populated only by queries that ask for it.
type Department struct {
	ID      string           `json:"id"`
	Address string           `json:"address"`
	Groups  []OperationGroup `json:"operation_groups,omitempty"`
}
