package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/hr-operations-api/internal/dto"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/services"
)

type TaskMessageHandler struct {
	messageService *services.TaskMessageService
	log            logrus.FieldLogger
}

func NewTaskMessageHandler(messageService *services.TaskMessageService, log logrus.FieldLogger) *TaskMessageHandler {
	return &TaskMessageHandler{
		messageService: messageService,
		log:            log,
	}
}

// ListMessages returns the task's conversation in ascending ID order.
// afterId returns only newer messages for polling clients, capped at limit
// when given; limit alone returns the most recent page; with neither the
// whole thread is returned. Empty values count as absent.
func (h *TaskMessageHandler) ListMessages(c *gin.Context) {
	task, ok := currentTask(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var (
		messages []models.TaskMessageWithSender
		err      error
	)
	afterRaw := c.Query("afterId")
	limitRaw := c.Query("limit")

	limit := 0
	if limitRaw != "" {
		limit, err = strconv.Atoi(limitRaw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid limit")
			return
		}
	}

	switch {
	case afterRaw != "":
		afterID, parseErr := strconv.ParseUint(afterRaw, 10, 64)
		if parseErr != nil {
			apierrors.BadRequest(c, "Invalid afterId")
			return
		}
		if limitRaw != "" {
			messages, err = h.messageService.GetMessagesForTaskSincePage(ctx, task.ID, afterID, limit)
		} else {
			messages, err = h.messageService.GetMessagesForTaskSince(ctx, task.ID, afterID)
		}
	case limitRaw != "":
		messages, err = h.messageService.GetRecentMessagesForTask(ctx, task.ID, limit)
	default:
		messages, err = h.messageService.GetMessagesForTask(ctx, task.ID)
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskMessageListResponse(messages))
}

// CreateMessage posts a message as the current employee
func (h *TaskMessageHandler) CreateMessage(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id", "Invalid task ID")
	if !ok {
		return
	}

	type CreateMessageRequest struct {
		Content string `json:"content"`
	}

	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.messageService.CreateTaskMessage(c.Request.Context(), services.CreateTaskMessageInput{
		TaskID:   taskID,
		SenderID: actor.UserID,
		Content:  req.Content,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateTaskMessageResponse{
		Message:     "ok",
		TaskMessage: dto.ToCreatedTaskMessageDTO(result.Message),
	})
}

// SummarizeThread returns an AI generated summary of the task's conversation
func (h *TaskMessageHandler) SummarizeThread(c *gin.Context) {
	task, ok := currentTask(c)
	if !ok {
		return
	}

	summary, err := h.messageService.SummarizeThread(c.Request.Context(), task)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
