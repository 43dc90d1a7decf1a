// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketCreatedEvent is published when a new ticket enters the queue. It
// carries enough context for downstream consumers to log or notify without
// querying the primary database.
type TicketCreatedEvent struct {
	TicketID      string `json:"ticket_id"`
	Code          string `json:"code"`
	UserID        string `json:"user_id,omitempty"`
	OperationID   string `json:"operation_id"`
	OperationName string `json:"operation_name"`
	DepartmentID  string `json:"department_id"`
	AppointedTime string `json:"appointed_time,omitempty"`
	AssignedTo    string `json:"assigned_to,omitempty"`
	CreatedAt     string `json:"created_at"`
}
