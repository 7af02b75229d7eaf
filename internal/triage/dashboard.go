package triage

import (
	"github.com/spec-kit/triage-dashboard/internal/domain"
	apperrors "github.com/spec-kit/triage-dashboard/pkg/util"
)

// Stats holds the store-wide distributions behind the summary cards and
// charts. Keys with zero count are omitted; consumers default missing keys
// to 0.
type Stats struct {
	ByPriority   map[string]int `json:"by_priority"`
	BySource     map[string]int `json:"by_source"`
	ByStatus     map[string]int `json:"by_status"`
	TotalTickets int            `json:"total_tickets"`
}

// Raw-feed fallback keys, matching the upstream classifier's defaults for
// tickets it could not fully classify.
const (
	priorityNone  = "None"
	sourceDefault = string(domain.SourceWebsite)
	statusDefault = string(domain.TicketStatusReceived)
)

// ComputeStats groups the full collection by priority, source and status.
// A spam ticket counts under the Spam status bucket regardless of its stored
// status, so the spam card and the lifecycle buckets stay disjoint. The
// returned error is an integrity violation when the status buckets do not
// sum to the collection size; the distributions are still returned so
// unrelated views keep rendering.
func ComputeStats(tickets []domain.Ticket) (Stats, error) {
	stats := Stats{
		ByPriority:   make(map[string]int),
		BySource:     make(map[string]int),
		ByStatus:     make(map[string]int),
		TotalTickets: len(tickets),
	}

	for i := range tickets {
		t := &tickets[i]

		priority := string(t.Priority)
		if priority == "" {
			priority = priorityNone
		}
		stats.ByPriority[priority]++

		source := string(t.Source)
		if source == "" {
			source = sourceDefault
		}
		stats.BySource[source]++

		switch {
		case t.IsSpam:
			stats.ByStatus[string(domain.TicketStatusSpam)]++
		case t.Status == "":
			stats.ByStatus[statusDefault]++
		default:
			stats.ByStatus[string(t.Status)]++
		}
	}

	sum := 0
	for _, n := range stats.ByStatus {
		sum += n
	}
	if sum != len(tickets) {
		return stats, apperrors.NewIntegrityViolation("status buckets do not cover the collection", map[string]any{
			"bucket_sum":   sum,
			"ticket_count": len(tickets),
		})
	}
	return stats, nil
}

// ChannelShare returns a source's percentage of total volume, 0 when the
// collection is empty.
func (s Stats) ChannelShare(source domain.TicketSource) float64 {
	if s.TotalTickets == 0 {
		return 0
	}
	return float64(s.BySource[string(source)]) / float64(s.TotalTickets) * 100
}
