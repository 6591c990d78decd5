package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/services"
)

type MilestoneHandler struct {
	service *services.MilestoneService
	log     logrus.FieldLogger
}

func NewMilestoneHandler(service *services.MilestoneService, log logrus.FieldLogger) *MilestoneHandler {
	return &MilestoneHandler{service: service, log: log}
}

func (h *MilestoneHandler) ListMilestones(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	employeeID, ok := parseOptionalIDQuery(c, "employee_id", "Invalid employee_id")
	if !ok {
		return
	}

	var id uint64
	if employeeID != nil {
		id = *employeeID
	}
	milestones, err := h.service.List(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"milestones": milestones})
}

func (h *MilestoneHandler) CreateMilestone(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	type CreateMilestoneRequest struct {
		EmployeeID  uint64     `json:"employee_id" binding:"required"`
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		DueDate     *time.Time `json:"due_date"`
	}

	var req CreateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	milestone, err := h.service.Create(c.Request.Context(), actor, services.CreateMilestoneInput{
		EmployeeID:  req.EmployeeID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, milestone)
}

func (h *MilestoneHandler) UpdateMilestone(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "Invalid milestone ID")
	if !ok {
		return
	}

	type UpdateMilestoneRequest struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		DueDate     *time.Time `json:"due_date"`
		Achieved    *bool      `json:"achieved"`
	}

	var req UpdateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	milestone, err := h.service.Update(c.Request.Context(), actor, id, services.UpdateMilestoneInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Achieved:    req.Achieved,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, milestone)
}

func (h *MilestoneHandler) DeleteMilestone(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "Invalid milestone ID")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}
