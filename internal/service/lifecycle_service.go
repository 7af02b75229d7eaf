package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/triage-dashboard/internal/domain"
	"github.com/spec-kit/triage-dashboard/internal/events"
	"github.com/spec-kit/triage-dashboard/internal/repository"
	"github.com/spec-kit/triage-dashboard/internal/triage"
	apperrors "github.com/spec-kit/triage-dashboard/pkg/util"
)

// LifecycleService applies admin mutations: status transitions, claims,
// department reclassification and internal notes. Every acknowledged
// mutation emits a change event so dashboards re-fetch.
//
// Callers may pass the version they observed; the write is rejected with a
// conflict when another admin got there first. A nil version opts out and
// takes the freshly read row's version (read-modify-write race only).
type LifecycleService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// NewLifecycleService constructs the service.
func NewLifecycleService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *LifecycleService {
	return &LifecycleService{tickets: tickets, dispatcher: dispatcher, now: time.Now}
}

// UpdateStatus validates and applies a status transition.
func (s *LifecycleService) UpdateStatus(ctx context.Context, ticketID string, target domain.TicketStatus, observedVersion *int64) (*domain.Ticket, error) {
	ticket, err := s.get(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	updated, changed, err := triage.Transition(ticket, target, s.now())
	if err != nil {
		return nil, err
	}
	if !changed {
		return updated, nil
	}

	if observedVersion != nil {
		updated.Version = *observedVersion
	}
	if err := s.tickets.Update(ctx, updated); err != nil {
		return nil, mapStoreError(err, ticketID)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: updated.TicketID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus:  ticket.Status,
			NewStatus:  updated.Status,
			ResolvedAt: updated.ResolvedAt,
		},
	})
	return updated, nil
}

// Assign claims the ticket for an admin. Claiming is monotonic: a ticket is
// never silently unassigned, only explicitly reassigned, and reassignment
// restarts the claim clock.
func (s *LifecycleService) Assign(ctx context.Context, ticketID, adminName string, observedVersion *int64) (*domain.Ticket, error) {
	adminName = strings.TrimSpace(adminName)
	if adminName == "" {
		return nil, apperrors.NewValidationError("admin_name required", nil)
	}

	ticket, err := s.get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status.IsTerminal() {
		return nil, apperrors.NewValidationError("cannot assign a closed ticket", map[string]any{
			"ticket_id": ticketID,
			"status":    string(ticket.Status),
		})
	}
	if ticket.AssignedToAdmin(adminName) {
		return ticket, nil
	}

	oldAssignee := ticket.AssignedTo
	updated := ticket.Clone()
	updated.AssignedTo = &adminName
	assignedAt := s.now()
	updated.AssignedAt = &assignedAt
	if observedVersion != nil {
		updated.Version = *observedVersion
	}
	if err := s.tickets.Update(ctx, updated); err != nil {
		return nil, mapStoreError(err, ticketID)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: updated.TicketID,
		Admin:    adminName,
		Payload: events.TicketAssignedPayload{
			OldAssignee: oldAssignee,
			NewAssignee: adminName,
		},
	})
	return updated, nil
}

// UpdateDepartment reclassifies the ticket's routing target.
func (s *LifecycleService) UpdateDepartment(ctx context.Context, ticketID string, dept domain.Department, observedVersion *int64) (*domain.Ticket, error) {
	if !dept.IsValid() {
		return nil, apperrors.NewValidationError("unknown department", map[string]any{
			"department": string(dept),
		})
	}

	ticket, err := s.get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	oldDept := ticket.Department
	updated := ticket.Clone()
	updated.Department = &dept
	if observedVersion != nil {
		updated.Version = *observedVersion
	}
	if err := s.tickets.Update(ctx, updated); err != nil {
		return nil, mapStoreError(err, ticketID)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketDepartmentChanged,
		TicketID: updated.TicketID,
		Payload: events.TicketDepartmentChangedPayload{
			OldDepartment: oldDept,
			NewDepartment: dept,
		},
	})
	return updated, nil
}

// UpdateNotes replaces the admin-only internal notes.
func (s *LifecycleService) UpdateNotes(ctx context.Context, ticketID, notes string, observedVersion *int64) (*domain.Ticket, error) {
	ticket, err := s.get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	updated := ticket.Clone()
	updated.InternalNotes = notes
	if observedVersion != nil {
		updated.Version = *observedVersion
	}
	if err := s.tickets.Update(ctx, updated); err != nil {
		return nil, mapStoreError(err, ticketID)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketNotesChanged,
		TicketID: updated.TicketID,
	})
	return updated, nil
}

func (s *LifecycleService) get(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil, mapStoreError(err, ticketID)
	}
	return ticket, nil
}

func (s *LifecycleService) publish(ctx context.Context, event events.Event) {
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

func mapStoreError(err error, ticketID string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return apperrors.MapError(err)
}
