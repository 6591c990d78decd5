package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleManager, RoleEmployee:
		return true
	}
	return false
}

type Employee struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role           `gorm:"type:varchar(20);not null;default:'employee'" json:"role"`
	Department   string         `gorm:"type:varchar(100)" json:"department"`
	Position     string         `gorm:"type:varchar(100)" json:"position"`
	HiredAt      *time.Time     `json:"hired_at"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

type EmploymentHistory struct {
	ID         uint64     `gorm:"primarykey" json:"id"`
	EmployeeID uint64     `gorm:"not null;index" json:"employee_id"`
	Department string     `gorm:"type:varchar(100)" json:"department"`
	Position   string     `gorm:"type:varchar(100)" json:"position"`
	StartedAt  time.Time  `gorm:"not null" json:"started_at"`
	EndedAt    *time.Time `json:"ended_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (EmploymentHistory) TableName() string {
	return "employment_history"
}

// Actor is the authenticated caller resolved from the session
type Actor struct {
	UserID uint64
	Role   Role
}

// IsHROrAdmin reports whether the actor may manage other employees' records
func (a Actor) IsHROrAdmin() bool {
	return a.Role == RoleHR || a.Role == RoleAdmin
}

// CanManageTasks reports whether the actor may create tasks for others
func (a Actor) CanManageTasks() bool {
	return a.IsHROrAdmin() || a.Role == RoleManager
}
