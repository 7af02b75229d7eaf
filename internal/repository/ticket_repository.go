package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/triage-dashboard/internal/domain"
	apperrors "github.com/spec-kit/triage-dashboard/pkg/util"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	Sources    []domain.TicketSource
	AssignedTo *string
	TicketRole *domain.TicketRole
	SearchTerm *string
	Limit      int
	Offset     int
}

// TicketRepository is the ticket store boundary. ListAll returns the full
// snapshot the derivation functions operate over; Update applies a mutation
// with an optimistic version check and rejects stale writers.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByTicketID(ctx context.Context, ticketID string) (*domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, ticket_id, source, sender, original_message, summary,
               category, department, priority, sentiment, status,
               is_spam, is_duplicate, is_complete, is_flagged, spam_reason,
               ticket_role, parent_incident_id, similarity_score,
               clarification_question, handoff_summary, ai_attempts, next_best_action, reassigned_by,
               assigned_to, assigned_at, resolved_at, internal_notes, version, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_id, source, sender, original_message, summary,
            category, department, priority, sentiment, status,
            is_spam, is_duplicate, is_complete, is_flagged, spam_reason,
            ticket_role, parent_incident_id, similarity_score,
            clarification_question, handoff_summary, ai_attempts, next_best_action, reassigned_by,
            assigned_to, assigned_at, resolved_at, internal_notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)
        RETURNING id, version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketID,
		ticket.Source,
		ticket.Sender,
		ticket.OriginalMessage,
		ticket.Summary,
		ticket.Category,
		ticket.Department,
		ticket.Priority,
		ticket.Sentiment,
		ticket.Status,
		ticket.IsSpam,
		ticket.IsDuplicate,
		ticket.IsComplete,
		ticket.IsFlagged,
		ticket.SpamReason,
		ticket.TicketRole,
		ticket.ParentIncidentID,
		ticket.SimilarityScore,
		ticket.ClarificationQuestion,
		ticket.HandoffSummary,
		ticket.AIAttempts,
		ticket.NextBestAction,
		ticket.ReassignedBy,
		ticket.AssignedTo,
		ticket.AssignedAt,
		ticket.ResolvedAt,
		ticket.InternalNotes,
	).Scan(&ticket.ID, &ticket.Version, &ticket.CreatedAt, &ticket.UpdatedAt)
}

// Update persists the admin-mutable fields. The ticket's Version must be the
// one the caller observed; a stale version leaves the row untouched and
// returns a conflict. On success the incremented version is written back.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, department=$2, assigned_to=$3, assigned_at=$4,
            resolved_at=$5, internal_notes=$6, version=version+1, updated_at=NOW()
        WHERE ticket_id=$7 AND version=$8
        RETURNING version, updated_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.Status,
		ticket.Department,
		ticket.AssignedTo,
		ticket.AssignedAt,
		ticket.ResolvedAt,
		ticket.InternalNotes,
		ticket.TicketID,
		ticket.Version,
	).Scan(&ticket.Version, &ticket.UpdatedAt)
	if err == nil {
		return nil
	}
	if err != pgx.ErrNoRows {
		return err
	}

	var current int64
	probe := r.pool.QueryRow(ctx, `SELECT version FROM tickets WHERE ticket_id=$1`, ticket.TicketID)
	if probeErr := probe.Scan(&current); probeErr != nil {
		if probeErr == pgx.ErrNoRows {
			return pgx.ErrNoRows
		}
		return probeErr
	}
	return apperrors.NewConflict("ticket was modified concurrently", map[string]any{
		"ticket_id":        ticket.TicketID,
		"observed_version": ticket.Version,
		"current_version":  current,
	})
}

func (r *ticketRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE ticket_id=$1`, ticketColumns)
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(scanTargets(&ticket)...); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets ORDER BY created_at DESC`, ticketColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Sources) > 0 {
		placeholders := make([]string, len(filter.Sources))
		for i, src := range filter.Sources {
			args = append(args, src)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("source IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if filter.TicketRole != nil {
		args = append(args, *filter.TicketRole)
		clauses = append(clauses, fmt.Sprintf("ticket_role=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(summary) LIKE %s OR LOWER(original_message) LIKE %s OR LOWER(sender) LIKE %s)", placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTargets(ticket *domain.Ticket) []any {
	return []any{
		&ticket.ID,
		&ticket.TicketID,
		&ticket.Source,
		&ticket.Sender,
		&ticket.OriginalMessage,
		&ticket.Summary,
		&ticket.Category,
		&ticket.Department,
		&ticket.Priority,
		&ticket.Sentiment,
		&ticket.Status,
		&ticket.IsSpam,
		&ticket.IsDuplicate,
		&ticket.IsComplete,
		&ticket.IsFlagged,
		&ticket.SpamReason,
		&ticket.TicketRole,
		&ticket.ParentIncidentID,
		&ticket.SimilarityScore,
		&ticket.ClarificationQuestion,
		&ticket.HandoffSummary,
		&ticket.AIAttempts,
		&ticket.NextBestAction,
		&ticket.ReassignedBy,
		&ticket.AssignedTo,
		&ticket.AssignedAt,
		&ticket.ResolvedAt,
		&ticket.InternalNotes,
		&ticket.Version,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	}
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(scanTargets(&ticket)...); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
