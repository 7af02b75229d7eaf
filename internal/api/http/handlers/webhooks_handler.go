package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/triage-dashboard/internal/api/dto"
	"github.com/spec-kit/triage-dashboard/internal/domain"
	"github.com/spec-kit/triage-dashboard/internal/service"
	apperrors "github.com/spec-kit/triage-dashboard/pkg/util"
)

// WebhooksHandler accepts classified intake payloads per channel. The
// upstream classification engine posts here after processing a message;
// its output is stored verbatim, never re-derived.
type WebhooksHandler struct {
	intake *service.IntakeService
}

// NewWebhooksHandler constructs handler.
func NewWebhooksHandler(intake *service.IntakeService) *WebhooksHandler {
	return &WebhooksHandler{intake: intake}
}

// WhatsApp POST /webhooks/whatsapp.
func (h *WebhooksHandler) WhatsApp(c *fiber.Ctx) error {
	return h.handle(c, domain.SourceWhatsApp, false)
}

// Email POST /webhooks/email. Email payloads carry a subject that is folded
// into the stored message.
func (h *WebhooksHandler) Email(c *fiber.Ctx) error {
	return h.handle(c, domain.SourceEmail, true)
}

// Website POST /webhooks/website.
func (h *WebhooksHandler) Website(c *fiber.Ctx) error {
	return h.handle(c, domain.SourceWebsite, false)
}

func (h *WebhooksHandler) handle(c *fiber.Ctx, source domain.TicketSource, withSubject bool) error {
	var req struct {
		dto.IntakeRequest
		Subject string `json:"subject"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	sender := req.SenderOrFrom()
	message := req.MessageOrBody()
	if sender == "" || message == "" {
		return apperrors.NewValidationError("sender and message required", nil)
	}
	if withSubject && strings.TrimSpace(req.Subject) != "" {
		message = fmt.Sprintf("Subject: %s\n\n%s", strings.TrimSpace(req.Subject), message)
	}

	ticket, err := h.intake.CreateTicket(c.Context(), service.IntakeInput{
		Source:         source,
		Sender:         sender,
		Message:        message,
		Classification: toClassification(req.Classification),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

func toClassification(p dto.ClassificationPayload) service.Classification {
	return service.Classification{
		Summary:               p.Summary,
		Category:              p.Category,
		Priority:              p.Priority,
		Department:            p.Department,
		Sentiment:             p.Sentiment,
		Status:                p.Status,
		IsSpam:                p.IsSpam,
		SpamReason:            p.SpamReason,
		IsDuplicate:           p.IsDuplicate,
		IsComplete:            p.IsComplete,
		IsFlagged:             p.IsFlagged,
		ReassignedBy:          p.ReassignedBy,
		TicketRole:            p.TicketRole,
		ParentIncidentID:      p.ParentIncidentID,
		SimilarityScore:       p.SimilarityScore,
		ClarificationQuestion: p.ClarificationQuestion,
		HandoffSummary:        p.HandoffSummary,
		AIAttempts:            p.AIAttempts,
		NextBestAction:        p.NextBestAction,
	}
}
