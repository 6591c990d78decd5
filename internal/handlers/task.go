package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/hr-operations-api/internal/dto"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/services"
	"github.com/yukikurage/hr-operations-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
	log         logrus.FieldLogger
}

func NewTaskHandler(taskService *services.TaskService, log logrus.FieldLogger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		log:         log,
	}
}

// ListTasks returns the tasks the current employee participates in.
// HR and admins may pass scope=all to list every task.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		All:           c.Query("scope") == "all",
		SortByDueDate: c.Query("sort") == "due_date",
		Page:          params.Page,
		PageSize:      params.Limit,
	}
	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		input.Status = &status
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), actor, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// GetTask returns a specific task by ID
// Task is already loaded by RequireTaskAccess middleware
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := currentTask(c)
	if !ok {
		return
	}

	assigneeIDs, err := h.taskService.ListAssigneeIDs(c.Request.Context(), task.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := dto.ToTaskDTO(task)
	resp.AssigneeIDs = assigneeIDs
	c.JSON(http.StatusOK, resp)
}

// CreateTask creates a new task managed by the current employee
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title       string              `json:"title" binding:"required"`
		Description string              `json:"description"`
		Priority    models.TaskPriority `json:"priority"`
		DueDate     *time.Time          `json:"due_date"`
		AssignedTo  uint64              `json:"assigned_to" binding:"required"`
		AssigneeIDs []uint64            `json:"assignee_ids"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), actor, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
		AssigneeIDs: req.AssigneeIDs,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTaskStatus changes the status of a task
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	task, ok := currentTask(c)
	if !ok {
		return
	}

	type UpdateStatusRequest struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.taskService.UpdateStatus(c.Request.Context(), actor, task, req.Status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// AddAssignees adds additional participants to a task
func (h *TaskHandler) AddAssignees(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	task, ok := currentTask(c)
	if !ok {
		return
	}

	type AssignRequest struct {
		EmployeeIDs []uint64 `json:"employee_ids" binding:"required"`
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	assigneeIDs, err := h.taskService.AddAssignees(c.Request.Context(), actor, task, req.EmployeeIDs)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignee_ids": assigneeIDs})
}

// RemoveAssignee removes an additional participant from a task
func (h *TaskHandler) RemoveAssignee(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	task, ok := currentTask(c)
	if !ok {
		return
	}
	employeeID, ok := parseIDParam(c, "employee_id", "Invalid employee ID")
	if !ok {
		return
	}

	if err := h.taskService.RemoveAssignee(c.Request.Context(), actor, task, employeeID); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}
