package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/services"
	"github.com/yukikurage/hr-operations-api/internal/utils"
)

type NotificationHandler struct {
	service *services.NotificationService
	log     logrus.FieldLogger
}

func NewNotificationHandler(service *services.NotificationService, log logrus.FieldLogger) *NotificationHandler {
	return &NotificationHandler{service: service, log: log}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	notifications, total, err := h.service.List(c.Request.Context(), actor, c.Query("unread") == "true", params)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "Invalid notification ID")
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), actor, id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	updated, err := h.service.MarkAllRead(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok", "updated": updated})
}

func (h *NotificationHandler) GetPreferences(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	pref, err := h.service.GetPreference(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, pref)
}

func (h *NotificationHandler) UpdatePreferences(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	type UpdatePreferencesRequest struct {
		InAppEnabled    *bool `json:"in_app_enabled"`
		TaskMessages    *bool `json:"task_messages"`
		LeaveUpdates    *bool `json:"leave_updates"`
		PaymentUpdates  *bool `json:"payment_updates"`
		DocumentUpdates *bool `json:"document_updates"`
	}

	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	pref, err := h.service.UpdatePreference(c.Request.Context(), actor, services.UpdatePreferenceInput{
		InAppEnabled:    req.InAppEnabled,
		TaskMessages:    req.TaskMessages,
		LeaveUpdates:    req.LeaveUpdates,
		PaymentUpdates:  req.PaymentUpdates,
		DocumentUpdates: req.DocumentUpdates,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, pref)
}
