package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/services"
	"github.com/yukikurage/hr-operations-api/internal/utils"
)

type PaymentHandler struct {
	service *services.PaymentService
	log     logrus.FieldLogger
}

func NewPaymentHandler(service *services.PaymentService, log logrus.FieldLogger) *PaymentHandler {
	return &PaymentHandler{service: service, log: log}
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	employeeID, ok := parseOptionalIDQuery(c, "employee_id", "Invalid employee_id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	payments, total, err := h.service.List(c.Request.Context(), actor, employeeID, params)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	type CreatePaymentRequest struct {
		EmployeeID uint64 `json:"employee_id" binding:"required"`
		Amount     int64  `json:"amount" binding:"required"`
		Currency   string `json:"currency" binding:"required"`
		Reference  string `json:"reference"`
		Period     string `json:"period"`
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := h.service.Create(c.Request.Context(), actor, services.CreatePaymentInput{
		EmployeeID: req.EmployeeID,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Reference:  req.Reference,
		Period:     req.Period,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHandler) UpdatePaymentStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "Invalid payment ID")
	if !ok {
		return
	}

	type UpdatePaymentStatusRequest struct {
		Status models.PaymentStatus `json:"status" binding:"required"`
	}

	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := h.service.UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}
