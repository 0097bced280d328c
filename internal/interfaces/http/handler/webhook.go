package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appbilling "github.com/smmpanel/backend/internal/application/billing"
)

// WebhookHandler handles payment gateway notification endpoints.
// These endpoints are called server-to-server by FastLipa and do not
// require authentication.
type WebhookHandler struct {
	BaseHandler
	webhookService *appbilling.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhookService *appbilling.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// WebhookAck is the acknowledgement body returned to the gateway
type WebhookAck struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Notification processed"`
	TranID  string `json:"tranID,omitempty" example:"TX-100234"`
}

// FastLipa godoc
//
//	@ID				handleFastLipaNotification
//	@Summary		Handle FastLipa payment notification
//	@Description	Receive and process a mobile-money payment notification from FastLipa
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			notification	body		appbilling.WebhookNotification	true	"Gateway notification"
//	@Success		200				{object}	WebhookAck
//	@Failure		400				{object}	WebhookAck
//	@Router			/webhooks/fastlipa [post]
func (h *WebhookHandler) FastLipa(c *gin.Context) {
	var req appbilling.WebhookNotification
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, WebhookAck{Success: false, Message: "Invalid notification payload"})
		return
	}

	if err := h.webhookService.HandleNotification(c.Request.Context(), req); err != nil {
		// A non-2xx tells the gateway to retry the notification later
		c.JSON(http.StatusBadRequest, WebhookAck{Success: false, Message: err.Error(), TranID: req.TranID})
		return
	}

	c.JSON(http.StatusOK, WebhookAck{Success: true, Message: "Notification processed", TranID: req.TranID})
}
