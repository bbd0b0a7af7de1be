package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskboard/internal/adapter/http/dto"
	"taskboard/internal/adapter/http/mapper"
	"taskboard/internal/adapter/http/validation"
	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
	"taskboard/pkg/apierrors"
)

type NotificationHandler struct {
	notificationService ports.NotificationService
	vapidPublicKey      string
}

// NewNotificationHandler serves the feed and push endpoints. An empty
// vapidPublicKey means web push is not configured.
func NewNotificationHandler(notificationService ports.NotificationService, vapidPublicKey string) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, vapidPublicKey: vapidPublicKey}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	notifications, err := h.notificationService.Recent(c.Request.Context(), actor.UserID, domain.DefaultNotificationLimit)
	if err != nil {
		writeServiceError(c, err, apierrors.MsgFailListNotifications, zap.String("user_id", actor.UserID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToNotificationItems(notifications))
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), actor.UserID); err != nil {
		writeServiceError(c, err, apierrors.MsgFailMarkRead, zap.String("user_id", actor.UserID))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

func (h *NotificationHandler) SaveSubscription(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.SavePushSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidSubscription)
		return
	}

	subscription, err := validation.BuildPushSubscription(actor.UserID, req)
	if err != nil {
		writeError(c, http.StatusBadRequest, apierrors.MsgInvalidSubscription)
		return
	}

	if err := h.notificationService.SaveSubscription(c.Request.Context(), subscription); err != nil {
		status, msg := classify(err)
		if status == http.StatusBadRequest {
			writeError(c, status, apierrors.MsgInvalidSubscription)
			return
		}
		if msg == "" {
			msg = apierrors.MsgFailSaveSubscription
			zap.L().Error("failed to save push subscription", zap.String("user_id", actor.UserID), zap.Error(err))
		}
		writeError(c, status, msg)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{Success: true})
}

func (h *NotificationHandler) VapidPublicKey(c *gin.Context) {
	if h.vapidPublicKey == "" {
		writeError(c, http.StatusServiceUnavailable, apierrors.MsgPushNotConfigured)
		return
	}

	c.JSON(http.StatusOK, dto.VapidPublicKeyResponse{PublicKey: h.vapidPublicKey})
}
