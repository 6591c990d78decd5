package services

import (
	"context"
	"strings"
	"time"

	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/repository"
)

var (
	ErrPayrollNotFound     = apierrors.NotFoundf("Payroll structure not found")
	ErrPayrollAccessDenied = apierrors.ForbiddenReason("You can only view your own payroll")
	ErrInvalidCurrency     = apierrors.Validation("currency must be a three letter ISO code")
	ErrInvalidAmount       = apierrors.Validation("Amounts must not be negative")
	ErrNegativeNetPay      = apierrors.Validation("Deductions exceed gross pay")
)

// PayrollService manages per-employee payroll structures
type PayrollService struct {
	repo         repository.PayrollRepository
	employeeRepo repository.EmployeeRepository
	now          func() time.Time
}

// NewPayrollService creates a new PayrollService
func NewPayrollService(repo repository.PayrollRepository, employeeRepo repository.EmployeeRepository) *PayrollService {
	return &PayrollService{repo: repo, employeeRepo: employeeRepo, now: time.Now}
}

type UpsertPayrollInput struct {
	Currency      string
	BaseSalary    int64
	Allowances    int64
	Deductions    int64
	EffectiveFrom *time.Time
}

func (s *PayrollService) Get(ctx context.Context, actor models.Actor, employeeID uint64) (*models.PayrollStructure, error) {
	if employeeID != actor.UserID && !actor.IsHROrAdmin() {
		return nil, ErrPayrollAccessDenied
	}
	structure, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, notFoundOr(ErrPayrollNotFound, "failed to find payroll structure", err)
	}
	return structure, nil
}

// Upsert replaces the payroll structure of an employee
func (s *PayrollService) Upsert(ctx context.Context, actor models.Actor, employeeID uint64, input UpsertPayrollInput) (*models.PayrollStructure, error) {
	if !actor.IsHROrAdmin() {
		return nil, ErrHROnly
	}
	currency, err := normalizeCurrency(input.Currency)
	if err != nil {
		return nil, err
	}
	if input.BaseSalary < 0 || input.Allowances < 0 || input.Deductions < 0 {
		return nil, ErrInvalidAmount
	}
	if _, err := s.employeeRepo.FindByID(ctx, employeeID); err != nil {
		return nil, notFoundOr(ErrEmployeeNotFound, "failed to find employee", err)
	}

	structure := &models.PayrollStructure{
		EmployeeID:    employeeID,
		Currency:      currency,
		BaseSalary:    input.BaseSalary,
		Allowances:    input.Allowances,
		Deductions:    input.Deductions,
		EffectiveFrom: s.now(),
		UpdatedBy:     actor.UserID,
	}
	if input.EffectiveFrom != nil {
		structure.EffectiveFrom = *input.EffectiveFrom
	}
	if structure.NetPay() < 0 {
		return nil, ErrNegativeNetPay
	}

	if err := s.repo.Upsert(ctx, structure); err != nil {
		return nil, storeFault("failed to save payroll structure", err)
	}
	return s.Get(ctx, actor, employeeID)
}

func normalizeCurrency(currency string) (string, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !validVar(currency, "required,iso4217") {
		return "", ErrInvalidCurrency
	}
	return currency, nil
}
