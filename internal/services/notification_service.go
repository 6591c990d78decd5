package services

import (
	"context"
	"time"

	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/repository"
	"github.com/yukikurage/hr-operations-api/internal/utils"
)

var (
	ErrInvalidNotificationID = apierrors.Validation("Invalid notification ID")
	ErrNotificationNotFound  = apierrors.NotFoundf("Notification not found")
)

// NotificationService handles in-app notifications and delivery preferences
type NotificationService struct {
	repo repository.NotificationRepository
	now  func() time.Time
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{
		repo: repo,
		now:  time.Now,
	}
}

// Notify delivers a copy of template to each recipient whose preferences allow it
func (s *NotificationService) Notify(ctx context.Context, recipients []uint64, template models.Notification) error {
	recipients = uniqueUint64(recipients)
	if len(recipients) == 0 {
		return nil
	}

	stored, err := s.repo.FindPreferences(ctx, recipients)
	if err != nil {
		return storeFault("failed to load notification preferences", err)
	}
	prefs := make(map[uint64]models.NotificationPreference, len(stored))
	for _, p := range stored {
		prefs[p.EmployeeID] = p
	}

	batch := make([]models.Notification, 0, len(recipients))
	for _, id := range recipients {
		pref, ok := prefs[id]
		if !ok {
			pref = models.DefaultNotificationPreference(id)
		}
		if !pref.Allows(template.Type) {
			continue
		}
		n := template
		n.ID = 0
		n.RecipientID = id
		batch = append(batch, n)
	}

	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		return storeFault("failed to create notifications", err)
	}
	return nil
}

// List returns the actor's notifications, newest first
func (s *NotificationService) List(ctx context.Context, actor models.Actor, unreadOnly bool, params utils.PaginationParams) ([]models.Notification, int64, error) {
	notifications, total, err := s.repo.List(ctx, actor.UserID, unreadOnly, params)
	if err != nil {
		return nil, 0, storeFault("failed to list notifications", err)
	}
	return notifications, total, nil
}

// UnreadCount returns how many of the actor's notifications are unread
func (s *NotificationService) UnreadCount(ctx context.Context, actor models.Actor) (int64, error) {
	count, err := s.repo.CountUnread(ctx, actor.UserID)
	if err != nil {
		return 0, storeFault("failed to count unread notifications", err)
	}
	return count, nil
}

// MarkRead marks one of the actor's notifications read. Marking an already
// read notification is a no-op; someone else's notification is not found.
func (s *NotificationService) MarkRead(ctx context.Context, actor models.Actor, id uint64) error {
	if id == 0 {
		return ErrInvalidNotificationID
	}
	n, err := s.repo.MarkRead(ctx, actor.UserID, id, s.now())
	if err != nil {
		return storeFault("failed to mark notification read", err)
	}
	if n > 0 {
		return nil
	}

	owned, err := s.repo.Owns(ctx, actor.UserID, id)
	if err != nil {
		return storeFault("failed to find notification", err)
	}
	if !owned {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the actor read
func (s *NotificationService) MarkAllRead(ctx context.Context, actor models.Actor) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, actor.UserID, s.now())
	if err != nil {
		return 0, storeFault("failed to mark notifications read", err)
	}
	return n, nil
}

// GetPreference returns the actor's stored preference or the defaults
func (s *NotificationService) GetPreference(ctx context.Context, actor models.Actor) (*models.NotificationPreference, error) {
	prefs, err := s.repo.FindPreferences(ctx, []uint64{actor.UserID})
	if err != nil {
		return nil, storeFault("failed to load notification preferences", err)
	}
	if len(prefs) == 0 {
		pref := models.DefaultNotificationPreference(actor.UserID)
		return &pref, nil
	}
	return &prefs[0], nil
}

// UpdatePreferenceInput holds optional preference changes
type UpdatePreferenceInput struct {
	InAppEnabled    *bool
	TaskMessages    *bool
	LeaveUpdates    *bool
	PaymentUpdates  *bool
	DocumentUpdates *bool
}

// UpdatePreference applies the provided fields on top of the current preference
func (s *NotificationService) UpdatePreference(ctx context.Context, actor models.Actor, input UpdatePreferenceInput) (*models.NotificationPreference, error) {
	pref, err := s.GetPreference(ctx, actor)
	if err != nil {
		return nil, err
	}

	if input.InAppEnabled != nil {
		pref.InAppEnabled = *input.InAppEnabled
	}
	if input.TaskMessages != nil {
		pref.TaskMessages = *input.TaskMessages
	}
	if input.LeaveUpdates != nil {
		pref.LeaveUpdates = *input.LeaveUpdates
	}
	if input.PaymentUpdates != nil {
		pref.PaymentUpdates = *input.PaymentUpdates
	}
	if input.DocumentUpdates != nil {
		pref.DocumentUpdates = *input.DocumentUpdates
	}
	pref.UpdatedAt = s.now()

	if err := s.repo.UpsertPreference(ctx, pref); err != nil {
		return nil, storeFault("failed to save notification preferences", err)
	}
	return pref, nil
}
