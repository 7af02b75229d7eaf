package triage

import (
	"testing"
	"time"

	"github.com/spec-kit/triage-dashboard/internal/domain"
)

func resolvedTicket(id, admin string, priority domain.TicketPriority, hours int) domain.Ticket {
	assignedAt := testNow.Add(-time.Duration(hours) * time.Hour)
	ticket := assignedTicket(id, admin, domain.TicketStatusResolved, &assignedAt)
	ticket.Priority = priority
	ticket.ResolvedAt = timePtr(testNow)
	return ticket
}

func TestComputePerformance(t *testing.T) {
	tickets := []domain.Ticket{
		resolvedTicket("TICK-FAST0001", "Tanay", domain.TicketPriorityHigh, 10),
		resolvedTicket("TICK-SLOW0001", "Tanay", domain.TicketPriorityLow, 30),
		assignedTicket("TICK-OPEN0001", "Tanay", domain.TicketStatusProcessing, timePtr(testNow)),
		resolvedTicket("TICK-OTHER001", "Priya", domain.TicketPriorityCritical, 2),
	}

	perf := ComputePerformance("Tanay", tickets)
	if perf.Admin != "Tanay" {
		t.Fatalf("Admin = %q", perf.Admin)
	}
	if perf.TotalSolved != 2 {
		t.Fatalf("TotalSolved = %d, want 2", perf.TotalSolved)
	}
	if perf.CurrentlySolving != 1 {
		t.Fatalf("CurrentlySolving = %d, want 1", perf.CurrentlySolving)
	}
	if perf.AvgResolutionHours != 20.0 {
		t.Fatalf("AvgResolutionHours = %v, want 20.0", perf.AvgResolutionHours)
	}
	if perf.HighPriorityHandled != 1 {
		t.Fatalf("HighPriorityHandled = %d, want 1", perf.HighPriorityHandled)
	}
	// The 10h ticket beats the 24h target, the 30h ticket misses it.
	if perf.SLASuccessRate != 50.0 {
		t.Fatalf("SLASuccessRate = %v, want 50.0", perf.SLASuccessRate)
	}
}

func TestComputePerformanceExactThresholdCounts(t *testing.T) {
	tickets := []domain.Ticket{
		resolvedTicket("TICK-EDGE0001", "Tanay", domain.TicketPriorityMedium, 24),
	}
	perf := ComputePerformance("Tanay", tickets)
	if perf.SLASuccessRate != 100.0 {
		t.Fatalf("SLASuccessRate = %v, want 100.0 at the 24h boundary", perf.SLASuccessRate)
	}
}

func TestComputePerformanceCountsCriticalAsHighPriority(t *testing.T) {
	tickets := []domain.Ticket{
		resolvedTicket("TICK-CRIT0001", "Tanay", domain.TicketPriorityCritical, 5),
		resolvedTicket("TICK-HIGH0001", "Tanay", domain.TicketPriorityHigh, 5),
		resolvedTicket("TICK-MED00001", "Tanay", domain.TicketPriorityMedium, 5),
	}
	perf := ComputePerformance("Tanay", tickets)
	if perf.HighPriorityHandled != 2 {
		t.Fatalf("HighPriorityHandled = %d, want 2", perf.HighPriorityHandled)
	}
}

func TestComputePerformanceZeroGuards(t *testing.T) {
	perf := ComputePerformance("Nobody", []domain.Ticket{
		resolvedTicket("TICK-OTHER001", "Tanay", domain.TicketPriorityHigh, 3),
	})
	if perf.TotalSolved != 0 || perf.CurrentlySolving != 0 {
		t.Fatalf("expected empty KPIs, got %+v", perf)
	}
	if perf.AvgResolutionHours != 0 || perf.SLASuccessRate != 0 {
		t.Fatalf("averages must be 0 with no resolved tickets, got %+v", perf)
	}
}

func TestComputePerformanceUnmeasuredResolvedDilutesSLA(t *testing.T) {
	measured := resolvedTicket("TICK-GOOD0001", "Tanay", domain.TicketPriorityMedium, 4)
	unmeasured := assignedTicket("TICK-BARE0001", "Tanay", domain.TicketStatusResolved, nil)

	perf := ComputePerformance("Tanay", []domain.Ticket{measured, unmeasured})
	if perf.TotalSolved != 2 {
		t.Fatalf("TotalSolved = %d, want 2", perf.TotalSolved)
	}
	if perf.AvgResolutionHours != 4.0 {
		t.Fatalf("AvgResolutionHours = %v, want average over measured tickets only", perf.AvgResolutionHours)
	}
	if perf.SLASuccessRate != 50.0 {
		t.Fatalf("SLASuccessRate = %v, want 50.0 over all resolved tickets", perf.SLASuccessRate)
	}
}
