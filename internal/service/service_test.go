package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/triage-dashboard/internal/domain"
	"github.com/spec-kit/triage-dashboard/internal/events"
	"github.com/spec-kit/triage-dashboard/internal/repository"
	apperrors "github.com/spec-kit/triage-dashboard/pkg/util"
)

// fakeTicketRepo is an in-memory TicketRepository mirroring the store's
// version semantics: Update rejects writers holding a stale version.
type fakeTicketRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Ticket
	updates int
}

func newFakeTicketRepo(seed ...*domain.Ticket) *fakeTicketRepo {
	repo := &fakeTicketRepo{byID: make(map[string]*domain.Ticket)}
	for _, ticket := range seed {
		repo.byID[ticket.TicketID] = ticket.Clone()
	}
	return repo
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	ticket.ID = ticket.TicketID
	ticket.Version = 1
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	r.byID[ticket.TicketID] = ticket.Clone()
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.byID[ticket.TicketID]
	if !ok {
		return pgx.ErrNoRows
	}
	if current.Version != ticket.Version {
		return apperrors.NewConflict("ticket was modified concurrently", map[string]any{
			"ticket_id":        ticket.TicketID,
			"observed_version": ticket.Version,
			"current_version":  current.Version,
		})
	}
	r.updates++
	stored := ticket.Clone()
	stored.Version++
	stored.UpdatedAt = time.Now()
	r.byID[ticket.TicketID] = stored
	ticket.Version = stored.Version
	ticket.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *fakeTicketRepo) GetByTicketID(_ context.Context, ticketID string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.byID[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return ticket.Clone(), nil
}

func (r *fakeTicketRepo) ListAll(_ context.Context) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Ticket, 0, len(r.byID))
	for _, ticket := range r.byID {
		out = append(out, *ticket.Clone())
	}
	return out, nil
}

func (r *fakeTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Ticket, 0, len(all))
	for _, ticket := range all {
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		if filter.AssignedTo != nil && !ticket.AssignedToAdmin(*filter.AssignedTo) {
			continue
		}
		out = append(out, ticket)
	}
	return out, nil
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// eventRecorder captures everything published through a dispatcher.
type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func recordingDispatcher() (events.Dispatcher, *eventRecorder) {
	rec := &eventRecorder{}
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventAny, func(_ context.Context, event events.Event) error {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.events = append(rec.events, event)
		return nil
	})
	return dispatcher, rec
}

func (r *eventRecorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, event := range r.events {
		out = append(out, event.Type)
	}
	return out
}
