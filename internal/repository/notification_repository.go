package repository

import (
	"context"
	"time"

	"github.com/yukikurage/hr-operations-api/internal/database"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *GormNotificationRepository) List(ctx context.Context, recipientID uint64, unreadOnly bool, params utils.PaginationParams) ([]models.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Notification{}).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Order("id DESC").
		Scopes(database.Paginate(params)).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *GormNotificationRepository) CountUnread(ctx context.Context, recipientID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Count(&count).Error
	return count, err
}

// MarkRead marks one notification read; the recipient filter keeps users to their own rows
func (r *GormNotificationRepository) MarkRead(ctx context.Context, recipientID, id uint64, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Where("read_at IS NULL").
		Update("read_at", at)
	return result.RowsAffected, result.Error
}

func (r *GormNotificationRepository) Owns(ctx context.Context, recipientID, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, recipientID uint64, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Update("read_at", at)
	return result.RowsAffected, result.Error
}

func (r *GormNotificationRepository) FindPreferences(ctx context.Context, employeeIDs []uint64) ([]models.NotificationPreference, error) {
	var prefs []models.NotificationPreference
	if len(employeeIDs) == 0 {
		return prefs, nil
	}
	err := r.db.WithContext(ctx).Where("employee_id IN ?", employeeIDs).Find(&prefs).Error
	return prefs, err
}

func (r *GormNotificationRepository) UpsertPreference(ctx context.Context, pref *models.NotificationPreference) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employee_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"in_app_enabled", "task_messages", "leave_updates", "payment_updates", "document_updates", "updated_at",
			}),
		}).
		Create(pref).Error
}
