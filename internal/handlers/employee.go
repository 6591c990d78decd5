package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/hr-operations-api/internal/constants"
	"github.com/yukikurage/hr-operations-api/internal/dto"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/services"
)

type EmployeeHandler struct {
	service *services.EmployeeService
	log     logrus.FieldLogger
}

func NewEmployeeHandler(service *services.EmployeeService, log logrus.FieldLogger) *EmployeeHandler {
	return &EmployeeHandler{service: service, log: log}
}

// ListEmployees returns one keyset page of employees, newest first
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	limit := constants.DefaultPageSize
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid limit")
			return
		}
		limit = n
	}

	page, err := h.service.List(c.Request.Context(), actor, c.Query("cursor"), limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeListResponse(page.Employees, page.NextCursor, page.HasNext))
}

func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	type CreateEmployeeRequest struct {
		Name       string      `json:"name" binding:"required"`
		Email      string      `json:"email" binding:"required"`
		Password   string      `json:"password" binding:"required"`
		Role       models.Role `json:"role"`
		Department string      `json:"department"`
		Position   string      `json:"position"`
		HiredAt    *time.Time  `json:"hired_at"`
	}

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	employee, err := h.service.Create(c.Request.Context(), actor, services.CreateEmployeeInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Department: req.Department,
		Position:   req.Position,
		HiredAt:    req.HiredAt,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEmployeeDTO(*employee))
}

func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "Invalid employee ID")
	if !ok {
		return
	}

	employee, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTO(*employee))
}

func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "Invalid employee ID")
	if !ok {
		return
	}

	type UpdateEmployeeRequest struct {
		Name       *string      `json:"name"`
		Role       *models.Role `json:"role"`
		Department *string      `json:"department"`
		Position   *string      `json:"position"`
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	employee, err := h.service.Update(c.Request.Context(), actor, id, services.UpdateEmployeeInput{
		Name:       req.Name,
		Role:       req.Role,
		Department: req.Department,
		Position:   req.Position,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTO(*employee))
}

func (h *EmployeeHandler) GetHistory(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "Invalid employee ID")
	if !ok {
		return
	}

	history, err := h.service.History(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}
