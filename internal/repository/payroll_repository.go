package repository

import (
	"context"

	"github.com/yukikurage/hr-operations-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPayrollRepository is a GORM implementation of PayrollRepository
type GormPayrollRepository struct {
	db *gorm.DB
}

// NewPayrollRepository creates a new PayrollRepository
func NewPayrollRepository(db *gorm.DB) PayrollRepository {
	return &GormPayrollRepository{db: db}
}

func (r *GormPayrollRepository) FindByEmployee(ctx context.Context, employeeID uint64) (*models.PayrollStructure, error) {
	var structure models.PayrollStructure
	if err := r.db.WithContext(ctx).Where("employee_id = ?", employeeID).First(&structure).Error; err != nil {
		return nil, err
	}
	return &structure, nil
}

// Upsert replaces the employee's payroll structure
func (r *GormPayrollRepository) Upsert(ctx context.Context, structure *models.PayrollStructure) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employee_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"currency", "base_salary", "allowances", "deductions", "effective_from", "updated_by", "updated_at",
			}),
		}).
		Create(structure).Error
}
