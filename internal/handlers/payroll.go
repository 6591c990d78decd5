package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/services"
)

type PayrollHandler struct {
	service *services.PayrollService
	log     logrus.FieldLogger
}

func NewPayrollHandler(service *services.PayrollService, log logrus.FieldLogger) *PayrollHandler {
	return &PayrollHandler{service: service, log: log}
}

type payrollResponse struct {
	models.PayrollStructure
	NetPay int64 `json:"net_pay"`
}

func (h *PayrollHandler) GetStructure(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	employeeID, ok := parseIDParam(c, "employee_id", "Invalid employee ID")
	if !ok {
		return
	}

	structure, err := h.service.Get(c.Request.Context(), actor, employeeID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, payrollResponse{PayrollStructure: *structure, NetPay: structure.NetPay()})
}

func (h *PayrollHandler) UpsertStructure(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	employeeID, ok := parseIDParam(c, "employee_id", "Invalid employee ID")
	if !ok {
		return
	}

	type UpsertPayrollRequest struct {
		Currency      string     `json:"currency" binding:"required"`
		BaseSalary    int64      `json:"base_salary"`
		Allowances    int64      `json:"allowances"`
		Deductions    int64      `json:"deductions"`
		EffectiveFrom *time.Time `json:"effective_from"`
	}

	var req UpsertPayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	structure, err := h.service.Upsert(c.Request.Context(), actor, employeeID, services.UpsertPayrollInput{
		Currency:      req.Currency,
		BaseSalary:    req.BaseSalary,
		Allowances:    req.Allowances,
		Deductions:    req.Deductions,
		EffectiveFrom: req.EffectiveFrom,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, payrollResponse{PayrollStructure: *structure, NetPay: structure.NetPay()})
}
