package models

import (
	"time"

	"gorm.io/gorm"
)

type Milestone struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	EmployeeID  uint64         `gorm:"not null;index" json:"employee_id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	DueDate     *time.Time     `json:"due_date"`
	AchievedAt  *time.Time     `json:"achieved_at"`
	CreatedBy   uint64         `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

type LeaveType string

const (
	LeaveAnnual   LeaveType = "annual"
	LeaveSick     LeaveType = "sick"
	LeaveUnpaid   LeaveType = "unpaid"
	LeaveParental LeaveType = "parental"
)

func (t LeaveType) Valid() bool {
	switch t {
	case LeaveAnnual, LeaveSick, LeaveUnpaid, LeaveParental:
		return true
	}
	return false
}

type LeaveBalance struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	EmployeeID uint64    `gorm:"not null;uniqueIndex:idx_leave_balance_key" json:"employee_id"`
	LeaveType  LeaveType `gorm:"type:varchar(20);not null;uniqueIndex:idx_leave_balance_key" json:"leave_type"`
	Year       int       `gorm:"not null;uniqueIndex:idx_leave_balance_key" json:"year"`
	TotalDays  float64   `gorm:"not null" json:"total_days"`
	UsedDays   float64   `gorm:"not null;default:0" json:"used_days"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (b LeaveBalance) RemainingDays() float64 {
	return b.TotalDays - b.UsedDays
}

type LeaveStatus string

const (
	LeaveStatusPending   LeaveStatus = "pending"
	LeaveStatusApproved  LeaveStatus = "approved"
	LeaveStatusRejected  LeaveStatus = "rejected"
	LeaveStatusCancelled LeaveStatus = "cancelled"
)

func (s LeaveStatus) Valid() bool {
	switch s {
	case LeaveStatusPending, LeaveStatusApproved, LeaveStatusRejected, LeaveStatusCancelled:
		return true
	}
	return false
}

type LeaveRequest struct {
	ID         uint64      `gorm:"primarykey" json:"id"`
	EmployeeID uint64      `gorm:"not null;index" json:"employee_id"`
	LeaveType  LeaveType   `gorm:"type:varchar(20);not null" json:"leave_type"`
	StartDate  time.Time   `gorm:"not null" json:"start_date"`
	EndDate    time.Time   `gorm:"not null" json:"end_date"`
	Days       float64     `gorm:"not null" json:"days"`
	Reason     string      `gorm:"type:text" json:"reason"`
	Status     LeaveStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewerID *uint64     `json:"reviewer_id"`
	ReviewedAt *time.Time  `json:"reviewed_at"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// PayrollStructure amounts are stored in minor currency units
type PayrollStructure struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	EmployeeID    uint64    `gorm:"not null;uniqueIndex" json:"employee_id"`
	Currency      string    `gorm:"type:char(3);not null" json:"currency"`
	BaseSalary    int64     `gorm:"not null" json:"base_salary"`
	Allowances    int64     `gorm:"not null;default:0" json:"allowances"`
	Deductions    int64     `gorm:"not null;default:0" json:"deductions"`
	EffectiveFrom time.Time `gorm:"not null" json:"effective_from"`
	UpdatedBy     uint64    `json:"updated_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p PayrollStructure) NetPay() int64 {
	return p.BaseSalary + p.Allowances - p.Deductions
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

type Payment struct {
	ID         uint64        `gorm:"primarykey" json:"id"`
	EmployeeID uint64        `gorm:"not null;index" json:"employee_id"`
	Amount     int64         `gorm:"not null" json:"amount"`
	Currency   string        `gorm:"type:char(3);not null" json:"currency"`
	Status     PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Reference  string        `gorm:"type:varchar(100)" json:"reference"`
	Period     string        `gorm:"type:varchar(7)" json:"period"`
	PaidAt     *time.Time    `json:"paid_at"`
	CreatedBy  uint64        `gorm:"not null" json:"created_by"`
	CreatedAt  time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
