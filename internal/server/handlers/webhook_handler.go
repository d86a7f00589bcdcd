package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmledger/internal/domain/models"
	service "github.com/mamadbah2/farmledger/internal/service/whatsapp"
)

// WebhookHandler exposes the WhatsApp finance channel: Meta's subscription
// handshake, inbound command delivery and manager notifications.
type WebhookHandler struct {
	svc    service.MessagingService
	logger *zap.Logger
}

// NewWebhookHandler constructs the HTTP handler adapter.
func NewWebhookHandler(svc service.MessagingService, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{svc: svc, logger: logger}
}

type subscriptionQuery struct {
	Mode      string `form:"hub.mode"`
	Token     string `form:"hub.verify_token"`
	Challenge string `form:"hub.challenge"`
}

// Verify handles GET /webhook and echoes hub.challenge when the token matches.
func (h *WebhookHandler) Verify(c *gin.Context) {
	var q subscriptionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.String(http.StatusBadRequest, "invalid subscription query")
		return
	}

	challenge, err := h.svc.VerifyWebhookToken(q.Mode, q.Token, q.Challenge)
	switch {
	case errors.Is(err, service.ErrVerification):
		h.logger.Warn("webhook subscription rejected", zap.String("mode", q.Mode))
		c.String(http.StatusForbidden, "verification failed")
	case err != nil:
		h.logger.Error("webhook verification errored", zap.Error(err))
		c.String(http.StatusInternalServerError, "verification failed")
	default:
		h.logger.Info("webhook subscription confirmed")
		c.String(http.StatusOK, challenge)
	}
}

// Receive handles POST /webhook. Payloads that decode are always answered
// with 200; command failures are logged and answered on WhatsApp instead.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("undecodable webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := h.svc.HandleWebhook(c.Request.Context(), payload); err != nil {
		h.logger.Error("webhook processing failed",
			zap.String("object", payload.Object),
			zap.Int("messages", countMessages(payload)),
			zap.Error(err))
	}

	c.Status(http.StatusOK)
}

// SendMessage handles POST /send-message, used to notify the farm manager.
func (h *WebhookHandler) SendMessage(c *gin.Context) {
	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, badRequest("recipient and message are required"))
		return
	}

	if err := h.svc.SendOutbound(c.Request.Context(), req); err != nil {
		h.logger.Error("manager notification failed", zap.String("to", req.To), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send message"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "sent"})
}

func countMessages(payload models.WebhookPayload) int {
	n := 0
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			n += len(change.Value.Messages)
		}
	}
	return n
}
