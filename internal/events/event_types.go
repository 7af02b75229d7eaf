package events

import (
	"time"

	"github.com/spec-kit/triage-dashboard/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	// EventAny subscribes to all events; it is never published directly.
	EventAny EventType = "*"

	EventTicketCreated           EventType = "ticket_created"
	EventTicketStatusChanged     EventType = "ticket_status_changed"
	EventTicketAssigned          EventType = "ticket_assigned"
	EventTicketDepartmentChanged EventType = "ticket_department_changed"
	EventTicketNotesChanged      EventType = "ticket_notes_changed"
)

// Event represents a ticket change emitted by services. Consumers treat any
// event as a "re-fetch the collection" signal; the payload is advisory.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Admin     string      `json:"admin,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Source   domain.TicketSource   `json:"source"`
	Status   domain.TicketStatus   `json:"status"`
	Priority domain.TicketPriority `json:"priority"`
	IsSpam   bool                  `json:"is_spam"`
	Summary  string                `json:"summary"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus  domain.TicketStatus `json:"old_status"`
	NewStatus  domain.TicketStatus `json:"new_status"`
	ResolvedAt *time.Time          `json:"resolved_at,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	OldAssignee *string `json:"old_assignee,omitempty"`
	NewAssignee string  `json:"new_assignee"`
}

// TicketDepartmentChangedPayload payload.
type TicketDepartmentChangedPayload struct {
	OldDepartment *domain.Department `json:"old_department,omitempty"`
	NewDepartment domain.Department  `json:"new_department"`
}
