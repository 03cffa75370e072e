package domain

import "time"

// StatusChange describes a successful employee status toggle.
type StatusChange struct {
	EmployeeID   int64
	EmployeeName string
	BranchID     int64
	RoleID       int64
	OldStatus    EmployeeStatus
	NewStatus    EmployeeStatus
	Actor        ActorContext
	ChangedAt    time.Time
}

// StatusHistoryEntry is an immutable audit row for a StatusChange.
type StatusHistoryEntry struct {
	ID           string
	EventID      string
	EmployeeID   int64
	EmployeeName string
	BranchID     int64
	OldStatus    EmployeeStatus
	NewStatus    EmployeeStatus
	ActorUserID  string
	ActorRole    Role
	CreatedAt    time.Time
}
