package dto

import (
	"time"

	"github.com/spec-kit/triage-dashboard/internal/domain"
	"github.com/spec-kit/triage-dashboard/internal/triage"
)

// WorkspaceTicket is a ticket row in a workspace tab, carrying the derived
// durations the tabs display. ElapsedMinutes is null for an unclaimed
// ticket; ResolutionHours is null until both timestamps exist.
type WorkspaceTicket struct {
	TicketID        string     `json:"ticket_id"`
	Summary         string     `json:"summary"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	Sender          string     `json:"sender"`
	AssignedAt      *time.Time `json:"assigned_at"`
	ResolvedAt      *time.Time `json:"resolved_at"`
	ElapsedMinutes  *int64     `json:"elapsed_minutes"`
	ResolutionHours *int       `json:"resolution_hours"`
	Version         int64      `json:"version"`
}

// WorkspaceSnapshotResponse bundles the three tabs.
type WorkspaceSnapshotResponse struct {
	CurrentlySolving []WorkspaceTicket  `json:"currently_solving"`
	SolvedHistory    []WorkspaceTicket  `json:"solved_history"`
	Performance      triage.Performance `json:"performance"`
}

// FromWorkspaceTickets maps tickets into workspace rows at the given time.
func FromWorkspaceTickets(tickets []domain.Ticket, now time.Time) []WorkspaceTicket {
	out := make([]WorkspaceTicket, 0, len(tickets))
	for i := range tickets {
		t := &tickets[i]
		row := WorkspaceTicket{
			TicketID:   t.TicketID,
			Summary:    t.Summary,
			Priority:   string(t.Priority),
			Status:     string(t.Status),
			Sender:     t.Sender,
			AssignedAt: t.AssignedAt,
			ResolvedAt: t.ResolvedAt,
			Version:    t.Version,
		}
		if elapsed, ok := triage.Elapsed(t, now); ok {
			minutes := int64(elapsed.Minutes())
			row.ElapsedMinutes = &minutes
		}
		if hours, ok := triage.ResolutionDuration(t); ok {
			row.ResolutionHours = &hours
		}
		out = append(out, row)
	}
	return out
}
