package triage

import (
	"errors"
	"testing"

	"github.com/spec-kit/triage-dashboard/internal/domain"
	apperrors "github.com/spec-kit/triage-dashboard/pkg/util"
)

func strPtr(s string) *string { return &s }

func TestIsActive(t *testing.T) {
	tests := []struct {
		name   string
		status domain.TicketStatus
		isSpam bool
		want   bool
	}{
		{"received", domain.TicketStatusReceived, false, true},
		{"processing", domain.TicketStatusProcessing, false, true},
		{"under review", domain.TicketStatusUnderReview, false, true},
		{"waiting", domain.TicketStatusWaiting, false, true},
		{"resolved", domain.TicketStatusResolved, false, false},
		{"cancelled", domain.TicketStatusCancelled, false, false},
		{"spam flag wins", domain.TicketStatusReceived, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := baseTicket(tt.status)
			ticket.IsSpam = tt.isSpam
			if got := IsActive(ticket); got != tt.want {
				t.Fatalf("IsActive = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIncidentGroupPrimaryResolvesToNil(t *testing.T) {
	primary := baseTicket(domain.TicketStatusReceived)
	parent, err := IncidentGroup(primary, []domain.Ticket{*primary})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parent != nil {
		t.Fatalf("primary ticket must have no parent, got %v", parent.TicketID)
	}
}

func TestIncidentGroupResolvesParent(t *testing.T) {
	primary := baseTicket(domain.TicketStatusProcessing)
	primary.TicketID = "TICK-PRIMARY1"

	follower := baseTicket(domain.TicketStatusReceived)
	follower.TicketID = "TICK-FOLLOW01"
	follower.TicketRole = domain.RoleFollower
	follower.IsDuplicate = true
	follower.ParentIncidentID = strPtr("TICK-PRIMARY1")

	parent, err := IncidentGroup(follower, []domain.Ticket{*primary, *follower})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parent == nil || parent.TicketID != "TICK-PRIMARY1" {
		t.Fatalf("got parent %+v, want TICK-PRIMARY1", parent)
	}
}

func TestIncidentGroupIntegrityFailures(t *testing.T) {
	primary := baseTicket(domain.TicketStatusProcessing)
	primary.TicketID = "TICK-PRIMARY1"

	otherFollower := baseTicket(domain.TicketStatusReceived)
	otherFollower.TicketID = "TICK-FOLLOW99"
	otherFollower.TicketRole = domain.RoleFollower
	otherFollower.ParentIncidentID = strPtr("TICK-PRIMARY1")

	tests := []struct {
		name     string
		parentID *string
	}{
		{"nil parent id", nil},
		{"empty parent id", strPtr("")},
		{"parent not in collection", strPtr("TICK-MISSING1")},
		{"parent is a follower", strPtr("TICK-FOLLOW99")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			follower := baseTicket(domain.TicketStatusReceived)
			follower.TicketID = "TICK-FOLLOW01"
			follower.TicketRole = domain.RoleFollower
			follower.ParentIncidentID = tt.parentID

			_, err := IncidentGroup(follower, []domain.Ticket{*primary, *otherFollower, *follower})
			if err == nil {
				t.Fatal("expected integrity violation")
			}
			var derr *apperrors.DomainError
			if !errors.As(err, &derr) || derr.Code != "INTEGRITY_VIOLATION" {
				t.Fatalf("got %v, want INTEGRITY_VIOLATION", err)
			}
		})
	}
}

func TestActiveIncidents(t *testing.T) {
	mk := func(id string, role domain.TicketRole, status domain.TicketStatus) domain.Ticket {
		ticket := baseTicket(status)
		ticket.TicketID = id
		ticket.TicketRole = role
		return *ticket
	}
	tickets := []domain.Ticket{
		mk("TICK-00000001", domain.RolePrimary, domain.TicketStatusReceived),
		mk("TICK-00000002", domain.RolePrimary, domain.TicketStatusProcessing),
		mk("TICK-00000003", domain.RolePrimary, domain.TicketStatusUnderReview),
		mk("TICK-00000004", domain.RolePrimary, domain.TicketStatusWaiting),
		mk("TICK-00000005", domain.RolePrimary, domain.TicketStatusResolved),
		mk("TICK-00000006", domain.RoleFollower, domain.TicketStatusReceived),
	}

	got := ActiveIncidents(tickets)
	want := map[string]bool{"TICK-00000001": true, "TICK-00000002": true, "TICK-00000003": true}
	if len(got) != len(want) {
		t.Fatalf("got %d incidents, want %d", len(got), len(want))
	}
	for _, incident := range got {
		if !want[incident.TicketID] {
			t.Fatalf("unexpected incident %s", incident.TicketID)
		}
	}
}
