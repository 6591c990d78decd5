package dto

import (
	"time"

	"github.com/yukikurage/hr-operations-api/internal/models"
)

// TaskMessageDTO is a message with the sender's display fields. Sender fields
// are null when the sender record no longer exists.
type TaskMessageDTO struct {
	ID          uint64    `json:"id"`
	TaskID      uint64    `json:"task_id"`
	SenderID    uint64    `json:"sender_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	SenderName  *string   `json:"sender_name"`
	SenderEmail *string   `json:"sender_email"`
}

// CreatedTaskMessageDTO is the stored row returned after a post
type CreatedTaskMessageDTO struct {
	ID        uint64    `json:"id"`
	TaskID    uint64    `json:"task_id"`
	SenderID  uint64    `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskMessageListResponse wraps a message list
type TaskMessageListResponse struct {
	Messages []TaskMessageDTO `json:"messages"`
}

// CreateTaskMessageResponse is returned after a message has been stored
type CreateTaskMessageResponse struct {
	Message     string                `json:"message"`
	TaskMessage CreatedTaskMessageDTO `json:"task_message"`
}

func ToTaskMessageDTO(m models.TaskMessageWithSender) TaskMessageDTO {
	return TaskMessageDTO{
		ID:          m.ID,
		TaskID:      m.TaskID,
		SenderID:    m.SenderID,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt,
		SenderName:  m.SenderName,
		SenderEmail: m.SenderEmail,
	}
}

// ToTaskMessageListResponse always renders an array, never null
func ToTaskMessageListResponse(messages []models.TaskMessageWithSender) TaskMessageListResponse {
	items := make([]TaskMessageDTO, len(messages))
	for i, m := range messages {
		items[i] = ToTaskMessageDTO(m)
	}
	return TaskMessageListResponse{Messages: items}
}

func ToCreatedTaskMessageDTO(m models.TaskMessage) CreatedTaskMessageDTO {
	return CreatedTaskMessageDTO{
		ID:        m.ID,
		TaskID:    m.TaskID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
