package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrLeaveRequestNotFound     = apierrors.NotFoundf("Leave request not found")
	ErrLeaveAccessDenied        = apierrors.ForbiddenReason("You can only view your own leave")
	ErrInvalidLeaveType         = apierrors.Validation("Invalid leave type")
	ErrInvalidLeaveStatus       = apierrors.Validation("Invalid leave status")
	ErrInvalidLeaveDates        = apierrors.Validation("end_date must not be before start_date")
	ErrInvalidLeaveDays         = apierrors.Validation("total_days must not be negative")
	ErrInvalidLeaveYear         = apierrors.Validation("Invalid year")
	ErrInsufficientLeaveBalance = apierrors.Validation("Insufficient leave balance")
	ErrLeaveTotalBelowUsed      = apierrors.Validation("total_days must not be below the days already used")
	ErrLeaveRequestNotPending   = apierrors.New(apierrors.KindConflict, "Leave request is not pending")
)

// LeaveService manages leave balances and the request review flow
type LeaveService struct {
	repo     repository.LeaveRepository
	notifier *NotificationService
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewLeaveService creates a new LeaveService
func NewLeaveService(repo repository.LeaveRepository, notifier *NotificationService, log logrus.FieldLogger) *LeaveService {
	return &LeaveService{
		repo:     repo,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

type UpsertBalanceInput struct {
	EmployeeID uint64
	LeaveType  models.LeaveType
	Year       int
	TotalDays  float64
}

type CreateLeaveRequestInput struct {
	LeaveType models.LeaveType
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

// ListBalances lists the leave balances of employeeID, defaulting to the actor
func (s *LeaveService) ListBalances(ctx context.Context, actor models.Actor, employeeID uint64, year *int) ([]models.LeaveBalance, error) {
	if employeeID == 0 {
		employeeID = actor.UserID
	}
	if employeeID != actor.UserID && !actor.IsHROrAdmin() {
		return nil, ErrLeaveAccessDenied
	}

	balances, err := s.repo.ListBalances(ctx, employeeID, year)
	if err != nil {
		return nil, storeFault("failed to list leave balances", err)
	}
	return balances, nil
}

// UpsertBalance sets the yearly allowance of one leave type
func (s *LeaveService) UpsertBalance(ctx context.Context, actor models.Actor, input UpsertBalanceInput) (*models.LeaveBalance, error) {
	if !actor.IsHROrAdmin() {
		return nil, ErrHROnly
	}
	if input.EmployeeID == 0 {
		return nil, ErrEmployeeNotFound
	}
	if !input.LeaveType.Valid() {
		return nil, ErrInvalidLeaveType
	}
	if input.Year < 1900 || input.Year > 9999 {
		return nil, ErrInvalidLeaveYear
	}
	if input.TotalDays < 0 {
		return nil, ErrInvalidLeaveDays
	}

	var saved *models.LeaveBalance
	err := s.repo.Transaction(ctx, func(tx repository.LeaveRepository) error {
		existing, err := tx.FindBalanceForUpdate(ctx, input.EmployeeID, input.LeaveType, input.Year)
		switch {
		case err == nil:
			if input.TotalDays < existing.UsedDays {
				return ErrLeaveTotalBelowUsed
			}
			existing.TotalDays = input.TotalDays
			existing.UpdatedAt = s.now()
			if err := tx.SaveBalance(ctx, existing); err != nil {
				return storeFault("failed to save leave balance", err)
			}
			saved = existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			balance := &models.LeaveBalance{
				EmployeeID: input.EmployeeID,
				LeaveType:  input.LeaveType,
				Year:       input.Year,
				TotalDays:  input.TotalDays,
				UpdatedAt:  s.now(),
			}
			if err := tx.UpsertBalance(ctx, balance); err != nil {
				return storeFault("failed to save leave balance", err)
			}
			saved = balance
			return nil
		default:
			return storeFault("failed to load leave balance", err)
		}
	})
	if err != nil {
		return nil, txError("failed to save leave balance", err)
	}
	return saved, nil
}

// ListRequests lists leave requests. Non-HR callers only see their own.
func (s *LeaveService) ListRequests(ctx context.Context, actor models.Actor, employeeID *uint64, status *models.LeaveStatus) ([]models.LeaveRequest, error) {
	if status != nil && !status.Valid() {
		return nil, ErrInvalidLeaveStatus
	}
	if !actor.IsHROrAdmin() {
		if employeeID != nil && *employeeID != actor.UserID {
			return nil, ErrLeaveAccessDenied
		}
		employeeID = &actor.UserID
	}

	requests, err := s.repo.ListRequests(ctx, repository.LeaveRequestFilter{
		EmployeeID: employeeID,
		Status:     status,
	})
	if err != nil {
		return nil, storeFault("failed to list leave requests", err)
	}
	return requests, nil
}

// CreateRequest files a pending leave request for the actor
func (s *LeaveService) CreateRequest(ctx context.Context, actor models.Actor, input CreateLeaveRequestInput) (*models.LeaveRequest, error) {
	if !input.LeaveType.Valid() {
		return nil, ErrInvalidLeaveType
	}
	start := truncateToDay(input.StartDate)
	end := truncateToDay(input.EndDate)
	if end.Before(start) {
		return nil, ErrInvalidLeaveDates
	}

	request := &models.LeaveRequest{
		EmployeeID: actor.UserID,
		LeaveType:  input.LeaveType,
		StartDate:  start,
		EndDate:    end,
		Days:       LeaveDays(start, end),
		Reason:     strings.TrimSpace(input.Reason),
		Status:     models.LeaveStatusPending,
	}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, storeFault("failed to create leave request", err)
	}
	return request, nil
}

// Approve approves a pending request and deducts its days from the balance
// of the request's leave type and start year. Unpaid leave has no balance.
func (s *LeaveService) Approve(ctx context.Context, actor models.Actor, id uint64) (*models.LeaveRequest, error) {
	if !actor.IsHROrAdmin() {
		return nil, ErrHROnly
	}

	var request *models.LeaveRequest
	err := s.repo.Transaction(ctx, func(tx repository.LeaveRepository) error {
		var err error
		request, err = s.lockPending(ctx, tx, id)
		if err != nil {
			return err
		}

		if request.LeaveType != models.LeaveUnpaid {
			balance, err := tx.FindBalanceForUpdate(ctx, request.EmployeeID, request.LeaveType, request.StartDate.Year())
			if err != nil {
				return notFoundOr(ErrInsufficientLeaveBalance, "failed to load leave balance", err)
			}
			if balance.RemainingDays() < request.Days {
				return ErrInsufficientLeaveBalance
			}
			balance.UsedDays += request.Days
			balance.UpdatedAt = s.now()
			if err := tx.SaveBalance(ctx, balance); err != nil {
				return storeFault("failed to update leave balance", err)
			}
		}

		return s.review(ctx, tx, request, actor, models.LeaveStatusApproved)
	})
	if err != nil {
		return nil, txError("failed to approve leave request", err)
	}

	s.notifyEmployee(ctx, *request)
	return request, nil
}

// Reject rejects a pending request
func (s *LeaveService) Reject(ctx context.Context, actor models.Actor, id uint64) (*models.LeaveRequest, error) {
	if !actor.IsHROrAdmin() {
		return nil, ErrHROnly
	}

	var request *models.LeaveRequest
	err := s.repo.Transaction(ctx, func(tx repository.LeaveRepository) error {
		var err error
		request, err = s.lockPending(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.review(ctx, tx, request, actor, models.LeaveStatusRejected)
	})
	if err != nil {
		return nil, txError("failed to reject leave request", err)
	}

	s.notifyEmployee(ctx, *request)
	return request, nil
}

// Cancel withdraws one of the actor's own pending requests
func (s *LeaveService) Cancel(ctx context.Context, actor models.Actor, id uint64) (*models.LeaveRequest, error) {
	var request *models.LeaveRequest
	err := s.repo.Transaction(ctx, func(tx repository.LeaveRepository) error {
		var err error
		request, err = tx.FindRequestForUpdate(ctx, id)
		if err != nil {
			return notFoundOr(ErrLeaveRequestNotFound, "failed to load leave request", err)
		}
		// Other employees' requests are reported as missing
		if request.EmployeeID != actor.UserID {
			return ErrLeaveRequestNotFound
		}
		if request.Status != models.LeaveStatusPending {
			return ErrLeaveRequestNotPending
		}

		request.Status = models.LeaveStatusCancelled
		if err := tx.SaveRequest(ctx, request); err != nil {
			return storeFault("failed to cancel leave request", err)
		}
		return nil
	})
	if err != nil {
		return nil, txError("failed to cancel leave request", err)
	}
	return request, nil
}

func (s *LeaveService) lockPending(ctx context.Context, tx repository.LeaveRepository, id uint64) (*models.LeaveRequest, error) {
	request, err := tx.FindRequestForUpdate(ctx, id)
	if err != nil {
		return nil, notFoundOr(ErrLeaveRequestNotFound, "failed to load leave request", err)
	}
	if request.Status != models.LeaveStatusPending {
		return nil, ErrLeaveRequestNotPending
	}
	return request, nil
}

func (s *LeaveService) review(ctx context.Context, tx repository.LeaveRepository, request *models.LeaveRequest, actor models.Actor, status models.LeaveStatus) error {
	now := s.now()
	reviewer := actor.UserID
	request.Status = status
	request.ReviewerID = &reviewer
	request.ReviewedAt = &now
	if err := tx.SaveRequest(ctx, request); err != nil {
		return storeFault("failed to update leave request", err)
	}
	return nil
}

func (s *LeaveService) notifyEmployee(ctx context.Context, request models.LeaveRequest) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Notify(ctx, []uint64{request.EmployeeID}, models.Notification{
		Type:  models.NotificationLeave,
		Title: fmt.Sprintf("Your %s leave request was %s", request.LeaveType, request.Status),
		Body: fmt.Sprintf("%s to %s (%g days)",
			request.StartDate.Format(time.DateOnly), request.EndDate.Format(time.DateOnly), request.Days),
		Link: fmt.Sprintf("/leave-requests/%d", request.ID),
	})
	if err != nil {
		s.log.WithError(err).WithField("leave_request_id", request.ID).Warn("failed to notify employee")
	}
}

// LeaveDays counts calendar days between start and end, both inclusive
func LeaveDays(start, end time.Time) float64 {
	start, end = truncateToDay(start), truncateToDay(end)
	return float64(end.Sub(start)/(24*time.Hour)) + 1
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
