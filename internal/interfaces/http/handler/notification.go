package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	notificationapp "github.com/purchase-invoice/backend/internal/application/notification"
)

// NotificationService reads and records notifications
type NotificationService interface {
	List(ctx context.Context, source string) ([]notificationapp.NotificationResponse, error)
	ReceiveWebhook(ctx context.Context, payload notificationapp.WebhookPayload) (*notificationapp.NotificationResponse, error)
}

var _ NotificationService = (*notificationapp.Service)(nil)

// MessageReceived acknowledges a webhook delivery
const MessageReceived = "Received"

// NotificationHandler serves the notification trail and the mock webhook
// receiver
type NotificationHandler struct {
	BaseHandler
	notificationService NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// NotificationQuery filters the trail
type NotificationQuery struct {
	Source string `form:"source" binding:"omitempty,oneof=DISPATCHER WEBHOOK"`
}

// ListAll godoc
// @ID           listNotifications
// @Summary      List notification events
// @Description  Every recorded rejection and cancellation notice, newest first
// @Tags         notifications
// @Produce      json
// @Param        source query string false "DISPATCHER or WEBHOOK"
// @Success      200 {object} APIResponse[[]notificationapp.NotificationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/all [get]
func (h *NotificationHandler) ListAll(c *gin.Context) {
	var q NotificationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	events, err := h.notificationService.List(c.Request.Context(), q.Source)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, events)
}

// ReceiveWebhook godoc
// @ID           receiveMockWebhook
// @Summary      Mock webhook receiver
// @Description  Stores a delivered notification payload
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        request body notificationapp.WebhookPayload true "Notification payload"
// @Success      200 {object} APIResponse[notificationapp.NotificationResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /mock-webhook [post]
func (h *NotificationHandler) ReceiveWebhook(c *gin.Context) {
	var payload notificationapp.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.BindError(c, err)
		return
	}

	event, err := h.notificationService.ReceiveWebhook(c.Request.Context(), payload)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, event, MessageReceived)
}
