package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/services"
)

type LeaveHandler struct {
	service *services.LeaveService
	log     logrus.FieldLogger
}

func NewLeaveHandler(service *services.LeaveService, log logrus.FieldLogger) *LeaveHandler {
	return &LeaveHandler{service: service, log: log}
}

func (h *LeaveHandler) ListBalances(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	employeeID, ok := parseOptionalIDQuery(c, "employee_id", "Invalid employee_id")
	if !ok {
		return
	}

	var year *int
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid year")
			return
		}
		year = &y
	}

	var id uint64
	if employeeID != nil {
		id = *employeeID
	}
	balances, err := h.service.ListBalances(c.Request.Context(), actor, id, year)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balances": balances})
}

func (h *LeaveHandler) UpsertBalance(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	type UpsertBalanceRequest struct {
		EmployeeID uint64           `json:"employee_id" binding:"required"`
		LeaveType  models.LeaveType `json:"leave_type" binding:"required"`
		Year       int              `json:"year" binding:"required"`
		TotalDays  float64          `json:"total_days"`
	}

	var req UpsertBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	balance, err := h.service.UpsertBalance(c.Request.Context(), actor, services.UpsertBalanceInput{
		EmployeeID: req.EmployeeID,
		LeaveType:  req.LeaveType,
		Year:       req.Year,
		TotalDays:  req.TotalDays,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

func (h *LeaveHandler) ListRequests(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	employeeID, ok := parseOptionalIDQuery(c, "employee_id", "Invalid employee_id")
	if !ok {
		return
	}

	var status *models.LeaveStatus
	if raw := c.Query("status"); raw != "" {
		s := models.LeaveStatus(raw)
		status = &s
	}

	requests, err := h.service.ListRequests(c.Request.Context(), actor, employeeID, status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leave_requests": requests})
}

func (h *LeaveHandler) CreateRequest(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	type CreateLeaveRequest struct {
		LeaveType models.LeaveType `json:"leave_type" binding:"required"`
		StartDate string           `json:"start_date" binding:"required"`
		EndDate   string           `json:"end_date" binding:"required"`
		Reason    string           `json:"reason"`
	}

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		apierrors.BadRequest(c, "start_date must be formatted as YYYY-MM-DD")
		return
	}
	end, err := time.Parse(time.DateOnly, req.EndDate)
	if err != nil {
		apierrors.BadRequest(c, "end_date must be formatted as YYYY-MM-DD")
		return
	}

	request, err := h.service.CreateRequest(c.Request.Context(), actor, services.CreateLeaveRequestInput{
		LeaveType: req.LeaveType,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *LeaveHandler) Approve(c *gin.Context) {
	h.review(c, h.service.Approve)
}

func (h *LeaveHandler) Reject(c *gin.Context) {
	h.review(c, h.service.Reject)
}

func (h *LeaveHandler) Cancel(c *gin.Context) {
	h.review(c, h.service.Cancel)
}

type leaveTransition func(ctx context.Context, actor models.Actor, id uint64) (*models.LeaveRequest, error)

func (h *LeaveHandler) review(c *gin.Context, transition leaveTransition) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "Invalid leave request ID")
	if !ok {
		return
	}

	request, err := transition(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, request)
}
