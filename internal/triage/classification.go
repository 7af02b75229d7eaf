package triage

import (
	"github.com/spec-kit/triage-dashboard/internal/domain"
	apperrors "github.com/spec-kit/triage-dashboard/pkg/util"
)

// IsActive reports whether a ticket still counts as live work: not spam and
// not in a closed state.
func IsActive(t *domain.Ticket) bool {
	return !t.IsSpam && t.Status != domain.TicketStatusResolved && t.Status != domain.TicketStatusCancelled
}

// IncidentGroup resolves a Follower ticket to its Primary incident within
// the snapshot. Primary tickets resolve to nil with no error. A Follower
// with a missing or unresolvable parent link is a data-integrity failure
// and is reported as such, never silently dropped.
func IncidentGroup(t *domain.Ticket, tickets []domain.Ticket) (*domain.Ticket, error) {
	if t.TicketRole != domain.RoleFollower {
		return nil, nil
	}
	if t.ParentIncidentID == nil || *t.ParentIncidentID == "" {
		return nil, apperrors.NewIntegrityViolation("follower ticket has no parent incident", map[string]any{
			"ticket_id": t.TicketID,
		})
	}
	for i := range tickets {
		if tickets[i].TicketID != *t.ParentIncidentID {
			continue
		}
		if tickets[i].TicketRole != domain.RolePrimary {
			return nil, apperrors.NewIntegrityViolation("parent incident is not a primary ticket", map[string]any{
				"ticket_id":          t.TicketID,
				"parent_incident_id": *t.ParentIncidentID,
			})
		}
		return tickets[i].Clone(), nil
	}
	return nil, apperrors.NewIntegrityViolation("parent incident not found", map[string]any{
		"ticket_id":          t.TicketID,
		"parent_incident_id": *t.ParentIncidentID,
	})
}

// ActiveIncidents returns the Primary tickets still in a pre-resolution
// status, for the incident board.
func ActiveIncidents(tickets []domain.Ticket) []domain.Ticket {
	out := make([]domain.Ticket, 0)
	for i := range tickets {
		t := &tickets[i]
		if t.TicketRole != domain.RolePrimary {
			continue
		}
		switch t.Status {
		case domain.TicketStatusReceived, domain.TicketStatusProcessing, domain.TicketStatusUnderReview:
			out = append(out, *t.Clone())
		}
	}
	return out
}
