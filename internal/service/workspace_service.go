package service

import (
	"context"

	"github.com/spec-kit/triage-dashboard/internal/domain"
	"github.com/spec-kit/triage-dashboard/internal/repository"
	"github.com/spec-kit/triage-dashboard/internal/triage"
	apperrors "github.com/spec-kit/triage-dashboard/pkg/util"
)

// WorkspaceSnapshot bundles one admin's scoped views, all derived from the
// same store snapshot so the tabs never disagree with each other.
type WorkspaceSnapshot struct {
	CurrentlySolving []domain.Ticket    `json:"currently_solving"`
	SolvedHistory    []domain.Ticket    `json:"solved_history"`
	Performance      triage.Performance `json:"performance"`
}

// WorkspaceService scopes the collection to one admin's work.
type WorkspaceService struct {
	tickets repository.TicketRepository
}

// NewWorkspaceService constructs the service.
func NewWorkspaceService(tickets repository.TicketRepository) *WorkspaceService {
	return &WorkspaceService{tickets: tickets}
}

// CurrentlySolving returns the admin's open work, oldest claim first.
func (s *WorkspaceService) CurrentlySolving(ctx context.Context, admin string) ([]domain.Ticket, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return triage.CurrentlySolving(admin, snapshot), nil
}

// SolvedHistory returns the admin's resolved tickets, newest first.
func (s *WorkspaceService) SolvedHistory(ctx context.Context, admin string) ([]domain.Ticket, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return triage.SolvedHistory(admin, snapshot), nil
}

// Performance returns the admin's KPI summary.
func (s *WorkspaceService) Performance(ctx context.Context, admin string) (triage.Performance, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return triage.Performance{}, err
	}
	return triage.ComputePerformance(admin, snapshot), nil
}

// Snapshot returns all three workspace views from a single fetch.
func (s *WorkspaceService) Snapshot(ctx context.Context, admin string) (*WorkspaceSnapshot, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &WorkspaceSnapshot{
		CurrentlySolving: triage.CurrentlySolving(admin, snapshot),
		SolvedHistory:    triage.SolvedHistory(admin, snapshot),
		Performance:      triage.ComputePerformance(admin, snapshot),
	}, nil
}

func (s *WorkspaceService) snapshot(ctx context.Context) ([]domain.Ticket, error) {
	snapshot, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return snapshot, nil
}
