package model

import "time"

// Employee is a staff member of a department as stored in the `employees`
// table.  Employees identify themselves to the Telegram operator bot by
// TelegramID and to the admin console by TelegramID plus password.  Only
// on-duty employees of a ticket's department participate in queue
// assignment.
//
// Fields:
//  ID            – primary key identifier.
//  TelegramID    – unique external identity used by the operator bot.
//  Name          – display name shown on the monitor.
//  OnDuty        – whether the employee currently receives assignments.
//  Admin         – whether the employee may manage other employees.
//  DepartmentID  – department the employee works in.
//  PasswordHash  – bcrypt hash for console login (empty when unset).
//  AllowedGroups – operation groups the employee is permitted to handle,
//                  expanded to their operations by the repository.
type Employee struct {
	ID            string           `json:"id"`
	TelegramID    string           `json:"telegram_id"`
	Name          string           `json:"name"`
	OnDuty        bool             `json:"on_duty"`
	Admin         bool             `json:"admin"`
	DepartmentID  string           `json:"department_id"`
	PasswordHash  string           `json:"-"`
	AllowedGroups []OperationGroup `json:"allowed_operation_groups,omitempty"`
}

// User is a visitor identified by a Telegram account.  Visitors are
// optional: terminal-issued tickets carry no user reference.
type User struct {
	ID         string    `json:"id"`
	TelegramID string    `json:"telegram_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// ServiceClient is an API consumer (terminal frontend, monitor frontend,
// Telegram bots).  Clients authenticate with a static secret token; only
// its SHA-256 hash is stored.
type ServiceClient struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TokenHash string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
