package models

import "time"

type NotificationType string

const (
	NotificationTaskMessage  NotificationType = "task_message"
	NotificationTaskAssigned NotificationType = "task_assigned"
	NotificationLeave        NotificationType = "leave"
	NotificationPayment      NotificationType = "payment"
	NotificationDocument     NotificationType = "document"
)

type Notification struct {
	ID          uint64           `gorm:"primarykey" json:"id"`
	RecipientID uint64           `gorm:"not null;index" json:"recipient_id"`
	Type        NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	Title       string           `gorm:"type:varchar(255);not null" json:"title"`
	Body        string           `gorm:"type:text" json:"body"`
	Link        string           `gorm:"type:varchar(255)" json:"link"`
	ReadAt      *time.Time       `json:"read_at"`
	CreatedAt   time.Time        `json:"created_at"`
}

type NotificationPreference struct {
	EmployeeID      uint64    `gorm:"primarykey;autoIncrement:false" json:"employee_id"`
	InAppEnabled    bool      `gorm:"not null" json:"in_app_enabled"`
	TaskMessages    bool      `gorm:"not null" json:"task_messages"`
	LeaveUpdates    bool      `gorm:"not null" json:"leave_updates"`
	PaymentUpdates  bool      `gorm:"not null" json:"payment_updates"`
	DocumentUpdates bool      `gorm:"not null" json:"document_updates"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DefaultNotificationPreference is used for employees without a stored row
func DefaultNotificationPreference(employeeID uint64) NotificationPreference {
	return NotificationPreference{
		EmployeeID:      employeeID,
		InAppEnabled:    true,
		TaskMessages:    true,
		LeaveUpdates:    true,
		PaymentUpdates:  true,
		DocumentUpdates: true,
	}
}

// Allows reports whether a notification of type t should be delivered
func (p NotificationPreference) Allows(t NotificationType) bool {
	if !p.InAppEnabled {
		return false
	}
	switch t {
	case NotificationTaskMessage, NotificationTaskAssigned:
		return p.TaskMessages
	case NotificationLeave:
		return p.LeaveUpdates
	case NotificationPayment:
		return p.PaymentUpdates
	case NotificationDocument:
		return p.DocumentUpdates
	}
	return true
}
