package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/hr-operations-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.WithContext(ctx).Model(&models.Task{})

	if filter.ParticipantID != nil {
		assigneeSubQuery := r.db.Model(&models.TaskAssignee{}).
			Select("1").
			Where("task_assignees.task_id = tasks.id").
			Where("task_assignees.employee_id = ?", *filter.ParticipantID)
		query = query.Where(
			r.db.Where("tasks.assigned_by = ?", *filter.ParticipantID).
				Or("tasks.assigned_to = ?", *filter.ParticipantID).
				Or("EXISTS (?)", assigneeSubQuery),
		)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query
	if filter.SortByDueDate {
		listQuery = listQuery.Order("CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC")
	} else {
		listQuery = listQuery.Order("tasks.created_at DESC").Order("tasks.id DESC")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	if err := listQuery.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// UpdateStatus changes the status of a task
func (r *GormTaskRepository) UpdateStatus(ctx context.Context, id uint64, status models.TaskStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddAssignees adds additional participants; existing rows are left untouched
func (r *GormTaskRepository) AddAssignees(ctx context.Context, taskID uint64, employeeIDs []uint64) error {
	assignees := make([]models.TaskAssignee, len(employeeIDs))
	for i, employeeID := range employeeIDs {
		assignees[i] = models.TaskAssignee{
			TaskID:     taskID,
			EmployeeID: employeeID,
		}
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&assignees).Error
}

// RemoveAssignee deletes the join row under the task row lock so it cannot
// interleave with a message authorization check on the same task
func (r *GormTaskRepository) RemoveAssignee(ctx context.Context, taskID, employeeID uint64) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := forUpdate(tx).Select("id").First(&task, taskID).Error; err != nil {
			return err
		}

		result := tx.Where("task_id = ? AND employee_id = ?", taskID, employeeID).Delete(&models.TaskAssignee{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected > 0
		return nil
	})
	return removed, err
}

// IsAssignee reports whether employeeID is an additional participant
func (r *GormTaskRepository) IsAssignee(ctx context.Context, taskID, employeeID uint64) (bool, error) {
	var assignee models.TaskAssignee
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND employee_id = ?", taskID, employeeID).
		First(&assignee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

// ListAssigneeIDs lists additional participant IDs of a task
func (r *GormTaskRepository) ListAssigneeIDs(ctx context.Context, taskID uint64) ([]uint64, error) {
	return listAssigneeIDs(r.db.WithContext(ctx), taskID)
}

func listAssigneeIDs(db *gorm.DB, taskID uint64) ([]uint64, error) {
	var ids []uint64
	err := db.Model(&models.TaskAssignee{}).
		Where("task_id = ?", taskID).
		Order("employee_id").
		Pluck("employee_id", &ids).Error
	return ids, err
}
