// Package triage implements the ticket lifecycle and derived-metrics model:
// the status state machine, classification-derived views, per-admin workspace
// queries and the store-wide aggregates every dashboard view consumes. All
// functions are pure computations over an in-memory snapshot; fetching and
// persisting tickets belongs to the repository layer.
package triage

import (
	"time"

	"github.com/spec-kit/triage-dashboard/internal/domain"
	apperrors "github.com/spec-kit/triage-dashboard/pkg/util"
)

// Transition validates and applies a status change, returning the updated
// ticket. The input ticket is never mutated. The machine is permissive:
// beyond rejecting unknown statuses and transitions out of terminal states
// (Resolved, Cancelled, Spam), any move is allowed. The admin is always
// right about misclassifications, so Cancelled and Spam are reachable from
// every non-terminal state.
//
// Moving into Resolved stamps ResolvedAt with now. A ticket resolved without
// ever being claimed gets AssignedAt auto-stamped to the same instant rather
// than rejected, so operator overrides cannot strand a ticket.
//
// The second return value reports whether anything changed; a same-status
// transition is a no-op, not an error.
func Transition(ticket *domain.Ticket, target domain.TicketStatus, now time.Time) (*domain.Ticket, bool, error) {
	if !target.IsValid() {
		return nil, false, apperrors.NewValidationError("unknown ticket status", map[string]any{
			"status": string(target),
		})
	}
	if target == ticket.Status {
		return ticket.Clone(), false, nil
	}
	if ticket.Status.IsTerminal() {
		return nil, false, apperrors.NewValidationError("ticket is in a terminal status", map[string]any{
			"ticket_id": ticket.TicketID,
			"status":    string(ticket.Status),
		})
	}

	updated := ticket.Clone()
	updated.Status = target
	if target == domain.TicketStatusResolved {
		resolvedAt := now
		updated.ResolvedAt = &resolvedAt
		if updated.AssignedAt == nil {
			assignedAt := now
			updated.AssignedAt = &assignedAt
		}
	}
	return updated, true, nil
}
