package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusReceived    TicketStatus = "Received"
	TicketStatusProcessing  TicketStatus = "Processing"
	TicketStatusUnderReview TicketStatus = "Under Review"
	TicketStatusWaiting     TicketStatus = "Waiting"
	TicketStatusSpam        TicketStatus = "Spam"
	TicketStatusResolved    TicketStatus = "Resolved"
	TicketStatusCancelled   TicketStatus = "Cancelled"
)

// KnownStatuses lists every valid status value.
var KnownStatuses = []TicketStatus{
	TicketStatusReceived,
	TicketStatusProcessing,
	TicketStatusUnderReview,
	TicketStatusWaiting,
	TicketStatusSpam,
	TicketStatusResolved,
	TicketStatusCancelled,
}

// IsValid reports whether the status is one of the enumerated values.
func (s TicketStatus) IsValid() bool {
	for _, known := range KnownStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
// Spam is absorbing: a ticket marked spam stays spam.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusResolved || s == TicketStatusCancelled || s == TicketStatusSpam
}

// TicketPriority enumerates SLA urgency as produced by the upstream classifier.
type TicketPriority string

const (
	TicketPriorityCritical TicketPriority = "Critical"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityLow      TicketPriority = "Low"
)

// TicketSource enumerates intake channels.
type TicketSource string

const (
	SourceWhatsApp TicketSource = "WhatsApp"
	SourceEmail    TicketSource = "Email"
	SourceWebsite  TicketSource = "Website"
)

// Department enumerates the routing targets an admin may reclassify to.
type Department string

const (
	DepartmentNetwork  Department = "Network"
	DepartmentHardware Department = "Hardware"
	DepartmentSoftware Department = "Software"
	DepartmentAccess   Department = "Access"
)

// IsValid reports whether the department is a known routing target.
func (d Department) IsValid() bool {
	switch d {
	case DepartmentNetwork, DepartmentHardware, DepartmentSoftware, DepartmentAccess:
		return true
	}
	return false
}

// TicketRole marks whether a ticket is the canonical incident or a
// duplicate report linked to one.
type TicketRole string

const (
	RolePrimary  TicketRole = "Primary"
	RoleFollower TicketRole = "Follower"
)

// Reassigner identifies who rerouted a flagged ticket.
type Reassigner string

const (
	ReassignedByAI    Reassigner = "AI"
	ReassignedByHuman Reassigner = "Human"
)

// SLAThreshold is the fixed resolution target. A resolved ticket counts
// toward an admin's SLA success when the gap between claim and resolution
// does not exceed it. Policy constant, not configurable per ticket.
const SLAThreshold = 24 * time.Hour

// Ticket is the aggregate for triaged support requests. Classification
// fields (category, priority, sentiment, spam/duplicate/complete flags,
// incident linkage, narrative fields) are produced upstream and read-only
// here; admins mutate status, department, assignment and notes.
type Ticket struct {
	ID              string
	TicketID        string
	Source          TicketSource
	Sender          string
	OriginalMessage string
	Summary         string

	Category   string
	Department *Department
	Priority   TicketPriority
	Sentiment  *string

	Status TicketStatus

	IsSpam      bool
	IsDuplicate bool
	IsComplete  bool
	IsFlagged   bool
	SpamReason  *string

	TicketRole       TicketRole
	ParentIncidentID *string
	SimilarityScore  int

	ClarificationQuestion *string
	HandoffSummary        *string
	AIAttempts            int
	NextBestAction        *string
	ReassignedBy          *Reassigner

	AssignedTo *string
	AssignedAt *time.Time
	ResolvedAt *time.Time

	InternalNotes string

	// Version is the optimistic-concurrency token; every acknowledged
	// mutation increments it and stale writers are rejected.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Assigned reports whether the ticket has ever been claimed.
func (t *Ticket) Assigned() bool {
	return t.AssignedTo != nil && *t.AssignedTo != ""
}

// AssignedToAdmin reports whether the ticket is claimed by the given admin.
func (t *Ticket) AssignedToAdmin(admin string) bool {
	return t.AssignedTo != nil && *t.AssignedTo == admin
}

// Clone returns a deep copy so derivations never alias caller state.
func (t *Ticket) Clone() *Ticket {
	out := *t
	out.Department = clonePtr(t.Department)
	out.Sentiment = clonePtr(t.Sentiment)
	out.SpamReason = clonePtr(t.SpamReason)
	out.ParentIncidentID = clonePtr(t.ParentIncidentID)
	out.ClarificationQuestion = clonePtr(t.ClarificationQuestion)
	out.HandoffSummary = clonePtr(t.HandoffSummary)
	out.NextBestAction = clonePtr(t.NextBestAction)
	out.ReassignedBy = clonePtr(t.ReassignedBy)
	out.AssignedTo = clonePtr(t.AssignedTo)
	out.AssignedAt = clonePtr(t.AssignedAt)
	out.ResolvedAt = clonePtr(t.ResolvedAt)
	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
