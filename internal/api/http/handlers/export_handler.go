package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-dashboard/internal/service"
)

// ExportHandler streams the full collection as an Excel workbook.
type ExportHandler struct {
	export *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(export *service.ExportService) *ExportHandler {
	return &ExportHandler{export: export}
}

// Export GET /analytics/export.
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	workbook, filename, err := h.export.BuildWorkbook(c.Context())
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(workbook)
}
