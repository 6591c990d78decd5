package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      TaskStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority    TaskPriority   `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate     *time.Time     `json:"due_date"`
	AssignedBy  uint64         `gorm:"not null;index" json:"assigned_by"`
	AssignedTo  uint64         `gorm:"not null;index" json:"assigned_to"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Manager   Employee       `gorm:"foreignKey:AssignedBy" json:"-"`
	Assignee  Employee       `gorm:"foreignKey:AssignedTo" json:"-"`
	Assignees []TaskAssignee `gorm:"foreignKey:TaskID" json:"-"`
}

// IsPrimaryParticipant reports whether employeeID is the manager or primary assignee
func (t Task) IsPrimaryParticipant(employeeID uint64) bool {
	return t.AssignedBy == employeeID || t.AssignedTo == employeeID
}

// TaskAssignee is an additional, non-primary participant on a task
type TaskAssignee struct {
	TaskID     uint64    `gorm:"primarykey" json:"task_id"`
	EmployeeID uint64    `gorm:"primarykey;index" json:"employee_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Employee Employee `gorm:"foreignKey:EmployeeID" json:"-"`
}
