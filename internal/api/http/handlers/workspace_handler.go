package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-dashboard/internal/api/dto"
	"github.com/spec-kit/triage-dashboard/internal/auth"
	"github.com/spec-kit/triage-dashboard/internal/service"
	apperrors "github.com/spec-kit/triage-dashboard/pkg/util"
)

// WorkspaceHandler serves an admin's scoped views. Routes default to the
// authenticated admin; an explicit admin_name query lets admins inspect a
// colleague's workspace.
type WorkspaceHandler struct {
	workspace *service.WorkspaceService
}

// NewWorkspaceHandler constructs handler.
func NewWorkspaceHandler(workspace *service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspace: workspace}
}

// CurrentlySolving GET /tickets/workspace/currently-solving.
func (h *WorkspaceHandler) CurrentlySolving(c *fiber.Ctx) error {
	admin, err := resolveAdmin(c)
	if err != nil {
		return err
	}
	tickets, err := h.workspace.CurrentlySolving(c.Context(), admin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromWorkspaceTickets(tickets, time.Now())})
}

// SolvedHistory GET /tickets/workspace/solved-history.
func (h *WorkspaceHandler) SolvedHistory(c *fiber.Ctx) error {
	admin, err := resolveAdmin(c)
	if err != nil {
		return err
	}
	tickets, err := h.workspace.SolvedHistory(c.Context(), admin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromWorkspaceTickets(tickets, time.Now())})
}

// Performance GET /tickets/workspace/performance.
func (h *WorkspaceHandler) Performance(c *fiber.Ctx) error {
	admin, err := resolveAdmin(c)
	if err != nil {
		return err
	}
	perf, err := h.workspace.Performance(c.Context(), admin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": perf})
}

// Snapshot GET /tickets/workspace.
func (h *WorkspaceHandler) Snapshot(c *fiber.Ctx) error {
	admin, err := resolveAdmin(c)
	if err != nil {
		return err
	}
	snapshot, err := h.workspace.Snapshot(c.Context(), admin)
	if err != nil {
		return err
	}
	now := time.Now()
	return c.JSON(fiber.Map{"data": dto.WorkspaceSnapshotResponse{
		CurrentlySolving: dto.FromWorkspaceTickets(snapshot.CurrentlySolving, now),
		SolvedHistory:    dto.FromWorkspaceTickets(snapshot.SolvedHistory, now),
		Performance:      snapshot.Performance,
	}})
}

func resolveAdmin(c *fiber.Ctx) (string, error) {
	if name := c.Query("admin_name"); name != "" {
		return name, nil
	}
	admin, ok := auth.AdminFromContext(c)
	if !ok {
		return "", apperrors.NewUnauthorized("admin required")
	}
	return admin.Name, nil
}
