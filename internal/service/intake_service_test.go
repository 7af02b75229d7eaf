package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/spec-kit/triage-dashboard/internal/domain"
	"github.com/spec-kit/triage-dashboard/internal/events"
)

func intakeInput(cls Classification) IntakeInput {
	return IntakeInput{
		Source:         domain.SourceEmail,
		Sender:         "user@example.com",
		Message:        "Subject: VPN down\n\nCannot connect since this morning.",
		Classification: cls,
	}
}

func TestCreateTicketNormalizesClassification(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewIntakeService(repo, nil)

	ticket, err := svc.CreateTicket(context.Background(), intakeInput(Classification{
		Summary:     "VPN outage",
		Category:    "Connectivity",
		Priority:    "High",
		Department:  "Network",
		Sentiment:   "Frustrated",
		Status:      "Processing",
		IsSpam:      "false",
		IsDuplicate: "False",
		IsComplete:  "TRUE",
		IsFlagged:   "true",
	}))
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if ticket.Status != domain.TicketStatusProcessing {
		t.Fatalf("Status = %s", ticket.Status)
	}
	if ticket.Department == nil || *ticket.Department != domain.DepartmentNetwork {
		t.Fatalf("Department = %v", ticket.Department)
	}
	if ticket.IsSpam || ticket.IsDuplicate || !ticket.IsComplete || !ticket.IsFlagged {
		t.Fatalf("flags = spam:%v dup:%v complete:%v flagged:%v",
			ticket.IsSpam, ticket.IsDuplicate, ticket.IsComplete, ticket.IsFlagged)
	}
	if ticket.Version != 1 {
		t.Fatalf("Version = %d, want 1", ticket.Version)
	}
}

func TestCreateTicketIDFormat(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewIntakeService(repo, nil)

	pattern := regexp.MustCompile(`^TICK-[0-9A-F]{8}$`)
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		ticket, err := svc.CreateTicket(context.Background(), intakeInput(Classification{}))
		if err != nil {
			t.Fatalf("CreateTicket: %v", err)
		}
		if !pattern.MatchString(ticket.TicketID) {
			t.Fatalf("TicketID %q does not match TICK-<8 hex>", ticket.TicketID)
		}
		if seen[ticket.TicketID] {
			t.Fatalf("duplicate TicketID %s", ticket.TicketID)
		}
		seen[ticket.TicketID] = true
	}
}

func TestCreateTicketDefaults(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewIntakeService(repo, nil)

	ticket, err := svc.CreateTicket(context.Background(), intakeInput(Classification{
		Department: "Billing", // unknown target
	}))
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if ticket.Summary != "No summary generated" || ticket.Category != "Uncategorized" {
		t.Fatalf("defaults not applied: %q / %q", ticket.Summary, ticket.Category)
	}
	if ticket.Priority != domain.TicketPriorityMedium {
		t.Fatalf("Priority = %s, want Medium default", ticket.Priority)
	}
	if ticket.Status != domain.TicketStatusReceived {
		t.Fatalf("Status = %s, want Received default", ticket.Status)
	}
	if ticket.Department != nil {
		t.Fatalf("unknown department must be dropped, got %v", *ticket.Department)
	}
	if !ticket.IsComplete {
		t.Fatal("IsComplete must default to true when the feed omits it")
	}
	if ticket.TicketRole != domain.RolePrimary {
		t.Fatalf("TicketRole = %s, want Primary default", ticket.TicketRole)
	}
}

func TestCreateTicketSpamOverrides(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewIntakeService(repo, nil)

	ticket, err := svc.CreateTicket(context.Background(), intakeInput(Classification{
		Priority:   "High",
		Department: "Network",
		Sentiment:  "Angry",
		Status:     "Processing",
		IsSpam:     "true",
		SpamReason: "promotional content",
	}))
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if ticket.Status != domain.TicketStatusCancelled {
		t.Fatalf("spam ticket Status = %s, want Cancelled", ticket.Status)
	}
	if ticket.Priority != "" || ticket.Department != nil || ticket.Sentiment != nil {
		t.Fatalf("spam overrides not applied: %+v", ticket)
	}
	if ticket.SpamReason == nil || *ticket.SpamReason != "promotional content" {
		t.Fatalf("SpamReason = %v", ticket.SpamReason)
	}
}

func TestCreateTicketResolvedOnArrivalStampsTimestamps(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewIntakeService(repo, nil)

	ticket, err := svc.CreateTicket(context.Background(), intakeInput(Classification{
		Status:     "Resolved",
		IsComplete: "true",
	}))
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if ticket.Status != domain.TicketStatusResolved {
		t.Fatalf("Status = %s", ticket.Status)
	}
	if ticket.ResolvedAt == nil {
		t.Fatal("Resolved ticket must carry resolved_at")
	}
	if ticket.AssignedAt == nil || !ticket.AssignedAt.Equal(*ticket.ResolvedAt) {
		t.Fatalf("AssignedAt = %v, want auto-stamp equal to ResolvedAt %v",
			ticket.AssignedAt, ticket.ResolvedAt)
	}
}

func TestCreateTicketOpenStatusLeavesTimestampsNil(t *testing.T) {
	svc := NewIntakeService(newFakeTicketRepo(), nil)

	ticket, err := svc.CreateTicket(context.Background(), intakeInput(Classification{
		Status: "Processing",
	}))
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if ticket.ResolvedAt != nil || ticket.AssignedAt != nil {
		t.Fatalf("open ticket must arrive unstamped, got assigned %v resolved %v",
			ticket.AssignedAt, ticket.ResolvedAt)
	}
}

func TestCreateTicketSimilarityScoreClamped(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewIntakeService(repo, nil)

	for raw, want := range map[int]int{-5: 0, 42: 42, 250: 100} {
		ticket, err := svc.CreateTicket(context.Background(), intakeInput(Classification{
			SimilarityScore: raw,
		}))
		if err != nil {
			t.Fatalf("CreateTicket: %v", err)
		}
		if ticket.SimilarityScore != want {
			t.Fatalf("SimilarityScore(%d) = %d, want %d", raw, ticket.SimilarityScore, want)
		}
	}
}

func TestCreateTicketRejectsBlankInput(t *testing.T) {
	svc := NewIntakeService(newFakeTicketRepo(), nil)
	for _, input := range []IntakeInput{
		{Source: domain.SourceEmail, Sender: "", Message: "hello"},
		{Source: domain.SourceEmail, Sender: "user@example.com", Message: "   "},
	} {
		if _, err := svc.CreateTicket(context.Background(), input); err == nil {
			t.Fatalf("expected validation error for %+v", input)
		}
	}
}

func TestCreateTicketPublishesEvent(t *testing.T) {
	dispatcher, rec := recordingDispatcher()
	svc := NewIntakeService(newFakeTicketRepo(), dispatcher)

	ticket, err := svc.CreateTicket(context.Background(), intakeInput(Classification{}))
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	types := rec.types()
	if len(types) != 1 || types[0] != events.EventTicketCreated {
		t.Fatalf("published events = %v", types)
	}
	if rec.events[0].TicketID != ticket.TicketID {
		t.Fatalf("event TicketID = %s, want %s", rec.events[0].TicketID, ticket.TicketID)
	}
}
