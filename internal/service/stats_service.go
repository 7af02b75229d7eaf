package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-dashboard/internal/persistence"
	"github.com/spec-kit/triage-dashboard/internal/repository"
	"github.com/spec-kit/triage-dashboard/internal/triage"
	apperrors "github.com/spec-kit/triage-dashboard/pkg/util"
)

const statsCacheKey = "triage:stats"

// StatsService computes the store-wide distributions, with a short-lived
// redis cache in front so every dashboard poll does not rescan the table.
// The refresh worker repopulates the cache on a fixed interval.
type StatsService struct {
	tickets repository.TicketRepository
	redis   *persistence.Redis
	ttl     time.Duration
	logger  *zap.Logger
}

// NewStatsService constructs the service. A zero ttl disables caching.
func NewStatsService(tickets repository.TicketRepository, redis *persistence.Redis, ttl time.Duration, logger *zap.Logger) *StatsService {
	return &StatsService{tickets: tickets, redis: redis, ttl: ttl, logger: logger}
}

// Stats returns the dashboard distributions, from cache when fresh.
func (s *StatsService) Stats(ctx context.Context) (triage.Stats, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}
	return s.Refresh(ctx)
}

// Refresh recomputes the distributions from the store and repopulates the
// cache. An integrity failure in the aggregation is propagated, never
// papered over with a cached or partial value.
func (s *StatsService) Refresh(ctx context.Context) (triage.Stats, error) {
	snapshot, err := s.tickets.ListAll(ctx)
	if err != nil {
		return triage.Stats{}, apperrors.MapError(err)
	}
	stats, err := triage.ComputeStats(snapshot)
	if err != nil {
		return stats, err
	}
	s.toCache(ctx, stats)
	return stats, nil
}

func (s *StatsService) fromCache(ctx context.Context) (triage.Stats, bool) {
	if s.redis == nil || s.redis.Client == nil || s.ttl <= 0 {
		return triage.Stats{}, false
	}
	raw, err := s.redis.Client.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return triage.Stats{}, false
	}
	var stats triage.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		s.logger.Warn("discarding corrupt stats cache entry", zap.Error(err))
		return triage.Stats{}, false
	}
	return stats, true
}

func (s *StatsService) toCache(ctx context.Context, stats triage.Stats) {
	if s.redis == nil || s.redis.Client == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.redis.Client.Set(ctx, statsCacheKey, raw, s.ttl).Err(); err != nil {
		s.logger.Warn("unable to cache stats", zap.Error(err))
	}
}
