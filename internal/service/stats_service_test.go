package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-dashboard/internal/domain"
)

func TestStatsServiceComputesDistributions(t *testing.T) {
	spam := seedTicket(domain.TicketStatusCancelled)
	spam.TicketID = "TICK-SPAM0001"
	spam.IsSpam = true
	spam.Priority = ""

	open := seedTicket(domain.TicketStatusReceived)
	open.TicketID = "TICK-OPEN0001"

	repo := newFakeTicketRepo(spam, open)
	svc := NewStatsService(repo, nil, 0, zap.NewNop())

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalTickets != 2 {
		t.Fatalf("TotalTickets = %d, want 2", stats.TotalTickets)
	}
	if stats.ByStatus["Spam"] != 1 || stats.ByStatus["Received"] != 1 {
		t.Fatalf("ByStatus = %v", stats.ByStatus)
	}
	if stats.ByPriority["None"] != 1 {
		t.Fatalf("ByPriority = %v", stats.ByPriority)
	}
}

func TestStatsServiceRefreshSeesNewTickets(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewStatsService(repo, nil, 0, zap.NewNop())

	stats, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if stats.TotalTickets != 0 {
		t.Fatalf("TotalTickets = %d, want 0", stats.TotalTickets)
	}

	if err := repo.Create(context.Background(), seedTicket(domain.TicketStatusReceived)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	stats, err = svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if stats.TotalTickets != 1 {
		t.Fatalf("TotalTickets = %d, want 1 after refresh", stats.TotalTickets)
	}
}
