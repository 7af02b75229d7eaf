package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-dashboard/internal/domain"
	"github.com/spec-kit/triage-dashboard/internal/repository"
	"github.com/spec-kit/triage-dashboard/internal/triage"
	apperrors "github.com/spec-kit/triage-dashboard/pkg/util"
)

// TicketView decorates a ticket with its derived display state: badge
// flags, active status and the resolved incident link. LinkError carries an
// integrity failure message when the ticket is a Follower whose primary
// incident cannot be resolved; the ticket still renders, with the broken
// link made visible instead of crashing the listing.
type TicketView struct {
	Ticket    domain.Ticket
	Flags     []domain.TicketFlag
	IsActive  bool
	Parent    *domain.Ticket
	LinkError string
}

// TicketService serves read paths: listings, detail views and the incident
// board.
type TicketService struct {
	tickets repository.TicketRepository
	logger  *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, logger *zap.Logger) *TicketService {
	return &TicketService{tickets: tickets, logger: logger}
}

// List returns decorated tickets matching the filter. Incident links are
// resolved against the full snapshot, not the filtered page, so a Follower
// still finds its primary when the primary is filtered out.
func (s *TicketService) List(ctx context.Context, filter repository.TicketFilter) ([]TicketView, error) {
	page, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	snapshot, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	views := make([]TicketView, 0, len(page))
	for i := range page {
		views = append(views, s.decorate(&page[i], snapshot))
	}
	return views, nil
}

// Get returns one decorated ticket by its public id.
func (s *TicketService) Get(ctx context.Context, ticketID string) (*TicketView, error) {
	ticket, err := s.tickets.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil, mapStoreError(err, ticketID)
	}
	snapshot, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	view := s.decorate(ticket, snapshot)
	return &view, nil
}

// ActiveIncidents returns the open Primary tickets for the incident board.
func (s *TicketService) ActiveIncidents(ctx context.Context) ([]domain.Ticket, error) {
	snapshot, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return triage.ActiveIncidents(snapshot), nil
}

func (s *TicketService) decorate(t *domain.Ticket, snapshot []domain.Ticket) TicketView {
	view := TicketView{
		Ticket:   *t.Clone(),
		Flags:    t.Flags(),
		IsActive: triage.IsActive(t),
	}
	parent, err := triage.IncidentGroup(t, snapshot)
	if err != nil {
		view.LinkError = apperrors.ToDomainError(err).Message
		s.logger.Warn("unresolvable incident link",
			zap.String("ticket_id", t.TicketID),
			zap.Error(err),
		)
		return view
	}
	view.Parent = parent
	return view
}
