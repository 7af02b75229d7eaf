package dto

import (
	"time"

	"github.com/spec-kit/triage-dashboard/internal/domain"
	"github.com/spec-kit/triage-dashboard/internal/service"
	"github.com/spec-kit/triage-dashboard/internal/triage"
)

// ClassificationPayload mirrors the upstream engine's raw output. Boolean
// flags are tri-state strings exactly as the feed delivers them; the intake
// service normalizes them.
type ClassificationPayload struct {
	Summary               string `json:"summary"`
	Category              string `json:"category"`
	Priority              string `json:"priority"`
	Department            string `json:"department"`
	Sentiment             string `json:"sentiment"`
	Status                string `json:"final_status"`
	IsSpam                string `json:"is_spam"`
	SpamReason            string `json:"spam_reason"`
	IsDuplicate           string `json:"is_duplicate"`
	IsComplete            string `json:"is_complete"`
	IsFlagged             string `json:"is_flagged"`
	ReassignedBy          string `json:"reassigned_by"`
	TicketRole            string `json:"ticket_role"`
	ParentIncidentID      string `json:"parent_incident_id"`
	SimilarityScore       int    `json:"similarity_score"`
	ClarificationQuestion string `json:"clarification_question"`
	HandoffSummary        string `json:"handoff_summary"`
	AIAttempts            int    `json:"ai_attempts"`
	NextBestAction        string `json:"next_best_action"`
}

// IntakeRequest is a channel webhook payload.
type IntakeRequest struct {
	Sender         string                `json:"sender"`
	From           string                `json:"from"`
	Message        string                `json:"message"`
	Body           string                `json:"body"`
	Classification ClassificationPayload `json:"classification"`
}

// SenderOrFrom tolerates both field spellings the channels use.
func (r IntakeRequest) SenderOrFrom() string {
	if r.Sender != "" {
		return r.Sender
	}
	return r.From
}

// MessageOrBody tolerates both field spellings the channels use.
func (r IntakeRequest) MessageOrBody() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Body
}

// PatchStatusRequest payload. Version, when present, is the caller's
// observed concurrency token.
type PatchStatusRequest struct {
	Status  string `json:"status"`
	Version *int64 `json:"version"`
}

// PatchDepartmentRequest payload.
type PatchDepartmentRequest struct {
	Department string `json:"department"`
	Version    *int64 `json:"version"`
}

// PatchNotesRequest payload.
type PatchNotesRequest struct {
	Notes   string `json:"notes"`
	Version *int64 `json:"version"`
}

// AssignRequest payload.
type AssignRequest struct {
	AdminName string `json:"admin_name"`
	Version   *int64 `json:"version"`
}

// TicketResponse is the full ticket representation with derived state.
type TicketResponse struct {
	TicketID        string   `json:"ticket_id"`
	Source          string   `json:"source"`
	Sender          string   `json:"sender"`
	OriginalMessage string   `json:"original_message"`
	Summary         string   `json:"summary"`
	Category        string   `json:"category"`
	Department      *string  `json:"department"`
	Priority        string   `json:"priority"`
	Sentiment       *string  `json:"sentiment"`
	Status          string   `json:"status"`
	Flags           []string `json:"flags"`
	IsActive        bool     `json:"is_active"`

	TicketRole       string  `json:"ticket_role"`
	ParentIncidentID *string `json:"parent_incident_id,omitempty"`
	ParentSummary    *string `json:"parent_summary,omitempty"`
	SimilarityScore  int     `json:"similarity_score"`
	LinkError        string  `json:"link_error,omitempty"`

	ClarificationQuestion *string `json:"clarification_question,omitempty"`
	HandoffSummary        *string `json:"handoff_summary,omitempty"`
	AIAttempts            int     `json:"ai_attempts"`
	NextBestAction        *string `json:"next_best_action,omitempty"`
	SpamReason            *string `json:"spam_reason,omitempty"`

	AssignedTo    *string    `json:"assigned_to"`
	AssignedAt    *time.Time `json:"assigned_at"`
	ResolvedAt    *time.Time `json:"resolved_at"`
	InternalNotes string     `json:"internal_notes"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromTicket maps a bare ticket without incident-link context.
func FromTicket(t *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		TicketID:              t.TicketID,
		Source:                string(t.Source),
		Sender:                t.Sender,
		OriginalMessage:       t.OriginalMessage,
		Summary:               t.Summary,
		Priority:              string(t.Priority),
		Sentiment:             t.Sentiment,
		Category:              t.Category,
		Status:                string(t.Status),
		Flags:                 flagStrings(t.Flags()),
		IsActive:              triage.IsActive(t),
		TicketRole:            string(t.TicketRole),
		ParentIncidentID:      t.ParentIncidentID,
		SimilarityScore:       t.SimilarityScore,
		ClarificationQuestion: t.ClarificationQuestion,
		HandoffSummary:        t.HandoffSummary,
		AIAttempts:            t.AIAttempts,
		NextBestAction:        t.NextBestAction,
		SpamReason:            t.SpamReason,
		AssignedTo:            t.AssignedTo,
		AssignedAt:            t.AssignedAt,
		ResolvedAt:            t.ResolvedAt,
		InternalNotes:         t.InternalNotes,
		Version:               t.Version,
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
	}
	if t.Department != nil {
		dept := string(*t.Department)
		resp.Department = &dept
	}
	return resp
}

// FromTicketView maps a decorated ticket, including the incident link or
// its unresolvable-link indicator.
func FromTicketView(view *service.TicketView) TicketResponse {
	resp := FromTicket(&view.Ticket)
	resp.LinkError = view.LinkError
	if view.Parent != nil {
		summary := view.Parent.Summary
		resp.ParentSummary = &summary
	}
	return resp
}

func flagStrings(flags []domain.TicketFlag) []string {
	out := make([]string, len(flags))
	for i, f := range flags {
		out[i] = string(f)
	}
	return out
}
