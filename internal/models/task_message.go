package models

import "time"

// TaskMessage is immutable once created. ID doubles as the polling cursor.
type TaskMessage struct {
	ID        uint64    `gorm:"primarykey;autoIncrement" json:"id"`
	TaskID    uint64    `gorm:"not null;index" json:"task_id"`
	SenderID  uint64    `gorm:"not null" json:"sender_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	Task Task `gorm:"foreignKey:TaskID;constraint:OnDelete:RESTRICT" json:"-"`
}

// TaskMessageWithSender is a message joined with the sender's display fields.
// Sender fields are nil when the sender row no longer exists.
type TaskMessageWithSender struct {
	ID          uint64
	TaskID      uint64
	SenderID    uint64
	Content     string
	CreatedAt   time.Time
	SenderName  *string
	SenderEmail *string
}
