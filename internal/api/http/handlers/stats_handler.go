package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-dashboard/internal/service"
)

// StatsHandler serves the dashboard distributions.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Stats GET /tickets/stats.
func (h *StatsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.stats.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}
