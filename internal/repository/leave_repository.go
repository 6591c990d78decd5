package repository

import (
	"context"

	"github.com/yukikurage/hr-operations-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLeaveRepository is a GORM implementation of LeaveRepository
type GormLeaveRepository struct {
	db *gorm.DB
}

// NewLeaveRepository creates a new LeaveRepository
func NewLeaveRepository(db *gorm.DB) LeaveRepository {
	return &GormLeaveRepository{db: db}
}

func (r *GormLeaveRepository) Transaction(ctx context.Context, fn func(repo LeaveRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormLeaveRepository{db: tx})
	})
}

func (r *GormLeaveRepository) ListBalances(ctx context.Context, employeeID uint64, year *int) ([]models.LeaveBalance, error) {
	query := r.db.WithContext(ctx).Where("employee_id = ?", employeeID)
	if year != nil {
		query = query.Where("year = ?", *year)
	}

	var balances []models.LeaveBalance
	err := query.Order("year DESC").Order("leave_type ASC").Find(&balances).Error
	return balances, err
}

// UpsertBalance sets the total days of a balance; used days are preserved
func (r *GormLeaveRepository) UpsertBalance(ctx context.Context, balance *models.LeaveBalance) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "leave_type"}, {Name: "year"}},
			DoUpdates: clause.AssignmentColumns([]string{"total_days", "updated_at"}),
		}).
		Create(balance).Error
}

func (r *GormLeaveRepository) FindBalanceForUpdate(ctx context.Context, employeeID uint64, leaveType models.LeaveType, year int) (*models.LeaveBalance, error) {
	var balance models.LeaveBalance
	err := forUpdate(r.db.WithContext(ctx)).
		Where("employee_id = ? AND leave_type = ? AND year = ?", employeeID, leaveType, year).
		First(&balance).Error
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r *GormLeaveRepository) SaveBalance(ctx context.Context, balance *models.LeaveBalance) error {
	return r.db.WithContext(ctx).Save(balance).Error
}

func (r *GormLeaveRepository) CreateRequest(ctx context.Context, request *models.LeaveRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *GormLeaveRepository) FindRequestForUpdate(ctx context.Context, id uint64) (*models.LeaveRequest, error) {
	var request models.LeaveRequest
	if err := forUpdate(r.db.WithContext(ctx)).First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *GormLeaveRepository) SaveRequest(ctx context.Context, request *models.LeaveRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *GormLeaveRepository) ListRequests(ctx context.Context, filter LeaveRequestFilter) ([]models.LeaveRequest, error) {
	query := r.db.WithContext(ctx).Model(&models.LeaveRequest{})
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var requests []models.LeaveRequest
	err := query.Order("start_date DESC").Order("id DESC").Find(&requests).Error
	return requests, err
}
