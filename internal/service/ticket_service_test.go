package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-dashboard/internal/domain"
	"github.com/spec-kit/triage-dashboard/internal/repository"
)

func TestListDecoratesTickets(t *testing.T) {
	primary := seedTicket(domain.TicketStatusProcessing)
	primary.TicketID = "TICK-PRIMARY1"

	follower := seedTicket(domain.TicketStatusReceived)
	follower.TicketID = "TICK-FOLLOW01"
	follower.TicketRole = domain.RoleFollower
	follower.IsDuplicate = true
	parentID := "TICK-PRIMARY1"
	follower.ParentIncidentID = &parentID

	repo := newFakeTicketRepo(primary, follower)
	svc := NewTicketService(repo, zap.NewNop())

	views, err := svc.List(context.Background(), repository.TicketFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d views, want 2", len(views))
	}

	byID := make(map[string]TicketView, len(views))
	for _, view := range views {
		byID[view.Ticket.TicketID] = view
	}

	pv := byID["TICK-PRIMARY1"]
	if pv.Parent != nil || pv.LinkError != "" || !pv.IsActive {
		t.Fatalf("primary view = %+v", pv)
	}

	fv := byID["TICK-FOLLOW01"]
	if fv.Parent == nil || fv.Parent.TicketID != "TICK-PRIMARY1" {
		t.Fatalf("follower parent = %+v", fv.Parent)
	}
	if !containsFlag(fv.Flags, domain.FlagLinked) {
		t.Fatalf("follower flags = %v, want Linked", fv.Flags)
	}
}

func TestListSurfacesBrokenIncidentLink(t *testing.T) {
	follower := seedTicket(domain.TicketStatusReceived)
	follower.TicketID = "TICK-FOLLOW01"
	follower.TicketRole = domain.RoleFollower
	missing := "TICK-MISSING1"
	follower.ParentIncidentID = &missing

	repo := newFakeTicketRepo(follower)
	svc := NewTicketService(repo, zap.NewNop())

	views, err := svc.List(context.Background(), repository.TicketFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("broken link must not drop the ticket, got %d views", len(views))
	}
	if views[0].LinkError == "" {
		t.Fatal("LinkError must be set for an unresolvable parent")
	}
	if views[0].Parent != nil {
		t.Fatalf("Parent = %+v, want nil", views[0].Parent)
	}
}

func TestGetUnknownTicket(t *testing.T) {
	svc := NewTicketService(newFakeTicketRepo(), zap.NewNop())
	if _, err := svc.Get(context.Background(), "TICK-MISSING1"); err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestWorkspaceSnapshotIsConsistent(t *testing.T) {
	open := seedTicket(domain.TicketStatusProcessing)
	open.TicketID = "TICK-OPEN0001"
	admin := "Tanay"
	open.AssignedTo = &admin
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	open.AssignedAt = &at

	done := seedTicket(domain.TicketStatusResolved)
	done.TicketID = "TICK-DONE0001"
	done.AssignedTo = &admin
	done.AssignedAt = &at
	resolvedAt := at.Add(6 * time.Hour)
	done.ResolvedAt = &resolvedAt

	repo := newFakeTicketRepo(open, done)
	svc := NewWorkspaceService(repo)

	snap, err := svc.Snapshot(context.Background(), admin)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap.CurrentlySolving) != 1 || snap.CurrentlySolving[0].TicketID != "TICK-OPEN0001" {
		t.Fatalf("CurrentlySolving = %+v", snap.CurrentlySolving)
	}
	if len(snap.SolvedHistory) != 1 || snap.SolvedHistory[0].TicketID != "TICK-DONE0001" {
		t.Fatalf("SolvedHistory = %+v", snap.SolvedHistory)
	}
	if snap.Performance.TotalSolved != 1 || snap.Performance.CurrentlySolving != 1 {
		t.Fatalf("Performance = %+v", snap.Performance)
	}
	if snap.Performance.AvgResolutionHours != 6.0 {
		t.Fatalf("AvgResolutionHours = %v, want 6.0", snap.Performance.AvgResolutionHours)
	}
}

func containsFlag(flags []domain.TicketFlag, flag domain.TicketFlag) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}
