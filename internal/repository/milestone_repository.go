package repository

import (
	"context"

	"github.com/yukikurage/hr-operations-api/internal/models"
	"gorm.io/gorm"
)

// GormMilestoneRepository is a GORM implementation of MilestoneRepository
type GormMilestoneRepository struct {
	db *gorm.DB
}

// NewMilestoneRepository creates a new MilestoneRepository
func NewMilestoneRepository(db *gorm.DB) MilestoneRepository {
	return &GormMilestoneRepository{db: db}
}

func (r *GormMilestoneRepository) Create(ctx context.Context, milestone *models.Milestone) error {
	return r.db.WithContext(ctx).Create(milestone).Error
}

func (r *GormMilestoneRepository) FindByID(ctx context.Context, id uint64) (*models.Milestone, error) {
	var milestone models.Milestone
	if err := r.db.WithContext(ctx).First(&milestone, id).Error; err != nil {
		return nil, err
	}
	return &milestone, nil
}

func (r *GormMilestoneRepository) ListByEmployee(ctx context.Context, employeeID uint64) ([]models.Milestone, error) {
	var milestones []models.Milestone
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("CASE WHEN due_date IS NULL THEN 1 ELSE 0 END, due_date ASC").
		Order("id ASC").
		Find(&milestones).Error
	return milestones, err
}

func (r *GormMilestoneRepository) Update(ctx context.Context, milestone *models.Milestone) error {
	return r.db.WithContext(ctx).Save(milestone).Error
}

func (r *GormMilestoneRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.Milestone{}, id).Error
}
