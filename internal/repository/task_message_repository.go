package repository

import (
	"context"

	"github.com/yukikurage/hr-operations-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskMessageRepository is a GORM implementation of TaskMessageRepository
type GormTaskMessageRepository struct {
	db *gorm.DB
}

// NewTaskMessageRepository creates a new TaskMessageRepository
func NewTaskMessageRepository(db *gorm.DB) TaskMessageRepository {
	return &GormTaskMessageRepository{db: db}
}

// Transaction runs fn with a repository bound to a single transaction
func (r *GormTaskMessageRepository) Transaction(ctx context.Context, fn func(repo TaskMessageRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormTaskMessageRepository{db: tx})
	})
}

// LockTask loads a task, locking its row where the database supports it
func (r *GormTaskMessageRepository) LockTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	var task models.Task
	if err := forUpdate(r.db.WithContext(ctx)).First(&task, taskID).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListAssigneeIDs lists additional participant IDs of a task
func (r *GormTaskMessageRepository) ListAssigneeIDs(ctx context.Context, taskID uint64) ([]uint64, error) {
	return listAssigneeIDs(r.db.WithContext(ctx), taskID)
}

// Create inserts a message
func (r *GormTaskMessageRepository) Create(ctx context.Context, message *models.TaskMessage) error {
	return r.db.WithContext(ctx).Omit("Task").Create(message).Error
}

// ListByTask returns all messages of a task in ascending ID order
func (r *GormTaskMessageRepository) ListByTask(ctx context.Context, taskID uint64) ([]models.TaskMessageWithSender, error) {
	var messages []models.TaskMessageWithSender
	err := r.withSender(ctx).
		Where("task_messages.task_id = ?", taskID).
		Order("task_messages.id ASC").
		Scan(&messages).Error
	return messages, err
}

// ListRecent returns the last limit messages of a task in ascending ID order
func (r *GormTaskMessageRepository) ListRecent(ctx context.Context, taskID uint64, limit int) ([]models.TaskMessageWithSender, error) {
	var messages []models.TaskMessageWithSender
	err := r.withSender(ctx).
		Where("task_messages.task_id = ?", taskID).
		Order("task_messages.id DESC").
		Limit(limit).
		Scan(&messages).Error
	if err != nil {
		return nil, err
	}

	// Newest first from the store, oldest first for display
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// ListSince returns messages with ID greater than afterID in ascending order.
// A positive limit keeps only the oldest limit of them.
func (r *GormTaskMessageRepository) ListSince(ctx context.Context, taskID, afterID uint64, limit int) ([]models.TaskMessageWithSender, error) {
	var messages []models.TaskMessageWithSender
	query := r.withSender(ctx).
		Where("task_messages.task_id = ? AND task_messages.id > ?", taskID, afterID).
		Order("task_messages.id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Scan(&messages).Error
	return messages, err
}

// withSender left-joins the sender so messages from removed employees still appear
func (r *GormTaskMessageRepository) withSender(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.TaskMessage{}).
		Select("task_messages.id, task_messages.task_id, task_messages.sender_id, task_messages.content, task_messages.created_at, " +
			"employees.name AS sender_name, employees.email AS sender_email").
		Joins("LEFT JOIN employees ON employees.id = task_messages.sender_id")
}
