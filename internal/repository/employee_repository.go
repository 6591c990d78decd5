package repository

import (
	"context"
	"time"

	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/utils"
	"gorm.io/gorm"
)

// GormEmployeeRepository is a GORM implementation of EmployeeRepository
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// CreateWithHistory creates an employee and their first history row atomically
func (r *GormEmployeeRepository) CreateWithHistory(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(employee).Error; err != nil {
			return err
		}

		started := employee.CreatedAt
		if employee.HiredAt != nil {
			started = *employee.HiredAt
		}
		return tx.Create(&models.EmploymentHistory{
			EmployeeID: employee.ID,
			Department: employee.Department,
			Position:   employee.Position,
			StartedAt:  started,
		}).Error
	})
}

// FindByID finds an employee by ID
func (r *GormEmployeeRepository) FindByID(ctx context.Context, id uint64) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindByEmail finds an employee by email
func (r *GormEmployeeRepository) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// ListPage returns employees ordered by (created_at, id) descending, strictly after the cursor
func (r *GormEmployeeRepository) ListPage(ctx context.Context, after *utils.Cursor, limit int) ([]models.Employee, error) {
	query := r.db.WithContext(ctx).Model(&models.Employee{})
	if after != nil {
		query = query.Where("created_at < ? OR (created_at = ? AND id < ?)", after.CreatedAt, after.CreatedAt, after.ID)
	}

	var employees []models.Employee
	if err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// UpdateWithHistory saves the employee and rotates the open history row when needed
func (r *GormEmployeeRepository) UpdateWithHistory(ctx context.Context, employee *models.Employee, positionChanged bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(employee).Error; err != nil {
			return err
		}
		if !positionChanged {
			return nil
		}

		now := time.Now()
		if err := tx.Model(&models.EmploymentHistory{}).
			Where("employee_id = ? AND ended_at IS NULL", employee.ID).
			Update("ended_at", now).Error; err != nil {
			return err
		}

		return tx.Create(&models.EmploymentHistory{
			EmployeeID: employee.ID,
			Department: employee.Department,
			Position:   employee.Position,
			StartedAt:  now,
		}).Error
	})
}

// ListHistory lists employment history, most recent first
func (r *GormEmployeeRepository) ListHistory(ctx context.Context, employeeID uint64) ([]models.EmploymentHistory, error) {
	var history []models.EmploymentHistory
	if err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("started_at DESC").Order("id DESC").
		Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

// CountByIDs counts how many of the given employee IDs exist
func (r *GormEmployeeRepository) CountByIDs(ctx context.Context, ids []uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Employee{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}
