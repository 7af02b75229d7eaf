package triage

import (
	"math"
	"sort"
	"time"

	"github.com/spec-kit/triage-dashboard/internal/domain"
)

// CurrentlySolving returns the admin's open work: claimed tickets that are
// neither resolved, cancelled nor spam, oldest claim first so stale work
// surfaces at the top.
func CurrentlySolving(admin string, tickets []domain.Ticket) []domain.Ticket {
	out := make([]domain.Ticket, 0)
	for i := range tickets {
		t := &tickets[i]
		if !t.AssignedToAdmin(admin) {
			continue
		}
		switch t.Status {
		case domain.TicketStatusResolved, domain.TicketStatusCancelled, domain.TicketStatusSpam:
			continue
		}
		out = append(out, *t.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].AssignedAt, out[j].AssignedAt
		switch {
		case a == nil && b == nil:
			return out[i].TicketID < out[j].TicketID
		case a == nil:
			return false
		case b == nil:
			return true
		case a.Equal(*b):
			return out[i].TicketID < out[j].TicketID
		default:
			return a.Before(*b)
		}
	})
	return out
}

// SolvedHistory returns the admin's resolved tickets, most recently closed
// first.
func SolvedHistory(admin string, tickets []domain.Ticket) []domain.Ticket {
	out := make([]domain.Ticket, 0)
	for i := range tickets {
		t := &tickets[i]
		if t.AssignedToAdmin(admin) && t.Status == domain.TicketStatusResolved {
			out = append(out, *t.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].ResolvedAt, out[j].ResolvedAt
		switch {
		case a == nil && b == nil:
			return out[i].TicketID < out[j].TicketID
		case a == nil:
			return false
		case b == nil:
			return true
		case a.Equal(*b):
			return out[i].TicketID < out[j].TicketID
		default:
			return a.After(*b)
		}
	})
	return out
}

// Elapsed returns the time the ticket has been claimed. The second return is
// false when the ticket was never assigned and no duration is defined.
func Elapsed(t *domain.Ticket, now time.Time) (time.Duration, bool) {
	if t.AssignedAt == nil {
		return 0, false
	}
	return now.Sub(*t.AssignedAt), true
}

// ResolutionDuration returns the claim-to-resolution gap in whole hours,
// rounded to the nearest integer. The second return is false when either
// timestamp is missing.
func ResolutionDuration(t *domain.Ticket) (int, bool) {
	if t.AssignedAt == nil || t.ResolvedAt == nil {
		return 0, false
	}
	hours := t.ResolvedAt.Sub(*t.AssignedAt).Hours()
	return int(math.Round(hours)), true
}
