package triage

import (
	"math"
	"time"

	"github.com/spec-kit/triage-dashboard/internal/domain"
)

// Performance is one admin's KPI summary.
type Performance struct {
	Admin               string  `json:"admin_name"`
	TotalSolved         int     `json:"total_solved"`
	CurrentlySolving    int     `json:"currently_solving"`
	AvgResolutionHours  float64 `json:"avg_resolution_hours"`
	HighPriorityHandled int     `json:"high_priority_handled"`
	SLASuccessRate      float64 `json:"sla_success_rate"`
}

const slaThresholdHours = int(domain.SLAThreshold / time.Hour)

// ComputePerformance derives the admin's KPI summary from the full snapshot.
// AvgResolutionHours and SLASuccessRate are 0 (never NaN) for an admin with
// no resolved tickets; SLASuccessRate is a 0-100 percentage rounded to one
// decimal.
func ComputePerformance(admin string, tickets []domain.Ticket) Performance {
	perf := Performance{
		Admin:            admin,
		CurrentlySolving: len(CurrentlySolving(admin, tickets)),
	}

	var hoursSum, measured, withinSLA int
	for i := range tickets {
		t := &tickets[i]
		if !t.AssignedToAdmin(admin) || t.Status != domain.TicketStatusResolved {
			continue
		}
		perf.TotalSolved++
		if t.Priority == domain.TicketPriorityCritical || t.Priority == domain.TicketPriorityHigh {
			perf.HighPriorityHandled++
		}
		if hours, ok := ResolutionDuration(t); ok {
			hoursSum += hours
			measured++
			if hours <= slaThresholdHours {
				withinSLA++
			}
		}
	}

	if measured > 0 {
		perf.AvgResolutionHours = round1(float64(hoursSum) / float64(measured))
	}
	if perf.TotalSolved > 0 {
		perf.SLASuccessRate = round1(float64(withinSLA) / float64(perf.TotalSolved) * 100)
	}
	return perf
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
