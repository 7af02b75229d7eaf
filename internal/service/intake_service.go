package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/triage-dashboard/internal/domain"
	"github.com/spec-kit/triage-dashboard/internal/events"
	"github.com/spec-kit/triage-dashboard/internal/repository"
	apperrors "github.com/spec-kit/triage-dashboard/pkg/util"
)

// Classification carries the upstream engine's output for one message. The
// engine is an opaque oracle: these fields are stored as-is, never
// re-derived. Boolean flags arrive as tri-state strings ("true", "false",
// absent) in the raw feed and are normalized to real booleans here, at the
// store boundary, so string comparisons never leak into the core.
type Classification struct {
	Summary               string
	Category              string
	Priority              string
	Department            string
	Sentiment             string
	Status                string
	IsSpam                string
	SpamReason            string
	IsDuplicate           string
	IsComplete            string
	IsFlagged             string
	ReassignedBy          string
	TicketRole            string
	ParentIncidentID      string
	SimilarityScore       int
	ClarificationQuestion string
	HandoffSummary        string
	AIAttempts            int
	NextBestAction        string
}

// IntakeInput describes one classified message arriving from a channel webhook.
type IntakeInput struct {
	Source         domain.TicketSource
	Sender         string
	Message        string
	Classification Classification
}

// IntakeService turns classified webhook payloads into stored tickets.
type IntakeService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// NewIntakeService constructs the service.
func NewIntakeService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *IntakeService {
	return &IntakeService{tickets: tickets, dispatcher: dispatcher, now: time.Now}
}

// CreateTicket stores a newly classified ticket. Spam verdicts override the
// rest of the classification: the ticket is cancelled on arrival, its
// department and sentiment are cleared and the classifier's reason is kept.
func (s *IntakeService) CreateTicket(ctx context.Context, input IntakeInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Sender) == "" || strings.TrimSpace(input.Message) == "" {
		return nil, apperrors.NewValidationError("sender and message required", nil)
	}

	cls := input.Classification
	isSpam := parseTriState(cls.IsSpam, false)

	ticket := &domain.Ticket{
		TicketID:        generateTicketID(),
		Source:          input.Source,
		Sender:          strings.TrimSpace(input.Sender),
		OriginalMessage: input.Message,
		Summary:         defaultString(cls.Summary, "No summary generated"),
		Category:        defaultString(cls.Category, "Uncategorized"),
		Department:      parseDepartment(cls.Department),
		Priority:        domain.TicketPriority(defaultString(cls.Priority, string(domain.TicketPriorityMedium))),
		Sentiment:       optionalString(cls.Sentiment),
		Status:          parseStatus(cls.Status),

		IsSpam:      isSpam,
		IsDuplicate: parseTriState(cls.IsDuplicate, false),
		IsComplete:  parseTriState(cls.IsComplete, true),
		IsFlagged:   parseTriState(cls.IsFlagged, false),
		SpamReason:  optionalString(cls.SpamReason),

		TicketRole:       parseRole(cls.TicketRole),
		ParentIncidentID: optionalString(cls.ParentIncidentID),
		SimilarityScore:  clampScore(cls.SimilarityScore),

		ClarificationQuestion: optionalString(cls.ClarificationQuestion),
		HandoffSummary:        optionalString(cls.HandoffSummary),
		AIAttempts:            cls.AIAttempts,
		NextBestAction:        optionalString(cls.NextBestAction),
		ReassignedBy:          parseReassigner(cls.ReassignedBy),
	}

	if isSpam {
		ticket.Status = domain.TicketStatusCancelled
		ticket.Priority = ""
		ticket.Department = nil
		ticket.Sentiment = nil
		if ticket.SpamReason == nil {
			ticket.SpamReason = optionalString(cls.SpamReason)
		}
	}

	// The classifier can close a ticket on arrival. Resolved always carries
	// its timestamps, same policy as the status transition.
	if ticket.Status == domain.TicketStatusResolved {
		now := s.now()
		ticket.ResolvedAt = &now
		if ticket.AssignedAt == nil {
			ticket.AssignedAt = &now
		}
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.TicketID,
		Payload: events.TicketCreatedPayload{
			Source:   ticket.Source,
			Status:   ticket.Status,
			Priority: ticket.Priority,
			IsSpam:   ticket.IsSpam,
			Summary:  ticket.Summary,
		},
	})
	return ticket, nil
}

func (s *IntakeService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func generateTicketID() string {
	return "TICK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// parseTriState normalizes the raw feed's string booleans. Anything other
// than the literal "true"/"false" (any case) falls back to the default.
func parseTriState(raw string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true
	case "false":
		return false
	default:
		return fallback
	}
}

func parseStatus(raw string) domain.TicketStatus {
	status := domain.TicketStatus(strings.TrimSpace(raw))
	if status.IsValid() {
		return status
	}
	return domain.TicketStatusReceived
}

func parseDepartment(raw string) *domain.Department {
	dept := domain.Department(strings.TrimSpace(raw))
	if dept.IsValid() {
		return &dept
	}
	return nil
}

func parseRole(raw string) domain.TicketRole {
	if domain.TicketRole(strings.TrimSpace(raw)) == domain.RoleFollower {
		return domain.RoleFollower
	}
	return domain.RolePrimary
}

func parseReassigner(raw string) *domain.Reassigner {
	switch domain.Reassigner(strings.TrimSpace(raw)) {
	case domain.ReassignedByAI:
		by := domain.ReassignedByAI
		return &by
	case domain.ReassignedByHuman:
		by := domain.ReassignedByHuman
		return &by
	}
	return nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func optionalString(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
