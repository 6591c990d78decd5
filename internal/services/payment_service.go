package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/repository"
	"github.com/yukikurage/hr-operations-api/internal/utils"
)

var (
	ErrPaymentNotFound      = apierrors.NotFoundf("Payment not found")
	ErrPaymentAccessDenied  = apierrors.ForbiddenReason("You can only view your own payments")
	ErrInvalidPaymentAmount = apierrors.Validation("amount must be positive")
	ErrInvalidPaymentStatus = apierrors.Validation("Invalid payment status")
	ErrInvalidPeriod        = apierrors.Validation("period must be formatted as YYYY-MM")
)

// PaymentService records payments made to employees
type PaymentService struct {
	repo         repository.PaymentRepository
	employeeRepo repository.EmployeeRepository
	notifier     *NotificationService
	log          logrus.FieldLogger
	now          func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(repo repository.PaymentRepository, employeeRepo repository.EmployeeRepository, notifier *NotificationService, log logrus.FieldLogger) *PaymentService {
	return &PaymentService{
		repo:         repo,
		employeeRepo: employeeRepo,
		notifier:     notifier,
		log:          log,
		now:          time.Now,
	}
}

type CreatePaymentInput struct {
	EmployeeID uint64
	Amount     int64
	Currency   string
	Reference  string
	Period     string
}

// List returns payments, restricted to the actor's own unless HR/admin
func (s *PaymentService) List(ctx context.Context, actor models.Actor, employeeID *uint64, params utils.PaginationParams) ([]models.Payment, int64, error) {
	if !actor.IsHROrAdmin() {
		if employeeID != nil && *employeeID != actor.UserID {
			return nil, 0, ErrPaymentAccessDenied
		}
		employeeID = &actor.UserID
	}

	payments, total, err := s.repo.List(ctx, employeeID, params)
	if err != nil {
		return nil, 0, storeFault("failed to list payments", err)
	}
	return payments, total, nil
}

func (s *PaymentService) Create(ctx context.Context, actor models.Actor, input CreatePaymentInput) (*models.Payment, error) {
	if !actor.IsHROrAdmin() {
		return nil, ErrHROnly
	}
	if input.Amount <= 0 {
		return nil, ErrInvalidPaymentAmount
	}
	currency, err := normalizeCurrency(input.Currency)
	if err != nil {
		return nil, err
	}
	if input.Period != "" && !validVar(input.Period, "datetime=2006-01") {
		return nil, ErrInvalidPeriod
	}
	if _, err := s.employeeRepo.FindByID(ctx, input.EmployeeID); err != nil {
		return nil, notFoundOr(ErrEmployeeNotFound, "failed to find employee", err)
	}

	payment := &models.Payment{
		EmployeeID: input.EmployeeID,
		Amount:     input.Amount,
		Currency:   currency,
		Status:     models.PaymentStatusPending,
		Reference:  strings.TrimSpace(input.Reference),
		Period:     input.Period,
		CreatedBy:  actor.UserID,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, storeFault("failed to create payment", err)
	}
	return payment, nil
}

// UpdateStatus moves a payment to status. Marking it paid stamps PaidAt.
func (s *PaymentService) UpdateStatus(ctx context.Context, actor models.Actor, id uint64, status models.PaymentStatus) (*models.Payment, error) {
	if !actor.IsHROrAdmin() {
		return nil, ErrHROnly
	}
	if !status.Valid() {
		return nil, ErrInvalidPaymentStatus
	}
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(ErrPaymentNotFound, "failed to find payment", err)
	}
	if payment.Status == status {
		return payment, nil
	}

	payment.Status = status
	if status == models.PaymentStatusPaid {
		now := s.now()
		payment.PaidAt = &now
	} else {
		payment.PaidAt = nil
	}
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, storeFault("failed to update payment", err)
	}

	if s.notifier != nil {
		err := s.notifier.Notify(ctx, []uint64{payment.EmployeeID}, models.Notification{
			Type:  models.NotificationPayment,
			Title: fmt.Sprintf("Payment %s is now %s", paymentLabel(*payment), payment.Status),
			Link:  fmt.Sprintf("/payments/%d", payment.ID),
		})
		if err != nil {
			s.log.WithError(err).WithField("payment_id", payment.ID).Warn("failed to notify employee")
		}
	}
	return payment, nil
}

func paymentLabel(p models.Payment) string {
	if p.Reference != "" {
		return p.Reference
	}
	return fmt.Sprintf("#%d", p.ID)
}
