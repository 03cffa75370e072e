package events

import (
	"time"

	"github.com/spec-kit/fleet-admin/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEmployeeStatusChanged EventType = "employee_status_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role   domain.Role `json:"role"`
	UserID string      `json:"user_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	EmployeeID int64       `json:"employee_id"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// EmployeeStatusChangedPayload payload.
type EmployeeStatusChangedPayload struct {
	EmployeeName string                `json:"employee_name"`
	BranchID     int64                 `json:"branch_id"`
	RoleID       int64                 `json:"role_id"`
	OldStatus    domain.EmployeeStatus `json:"old_status"`
	NewStatus    domain.EmployeeStatus `json:"new_status"`
}

// ActorFrom converts a request actor into event metadata.
func ActorFrom(a domain.ActorContext) Actor {
	return Actor{Role: a.Role, UserID: a.UserID}
}
