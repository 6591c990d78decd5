package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/hr-operations-api/internal/constants"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/events"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/repository"
)

const MessageSentConfirmation = "Message sent successfully"

var (
	ErrTaskNotFound           = apierrors.NotFoundf("Task not found")
	ErrNotTaskParticipant     = apierrors.ForbiddenReason("Only assigned employees or the manager can post messages")
	ErrInvalidSender          = apierrors.Validation("A valid sender is required")
	ErrMessageContentRequired = apierrors.Validation("Message content is required")
	ErrMessageTooLong         = apierrors.Validation(fmt.Sprintf("Message content must be at most %d characters", constants.MaxMessageLength))
	ErrAIServiceNotConfigured = apierrors.New(apierrors.KindUnavailable, "AI service is not configured")
	ErrNoMessagesToSummarize  = apierrors.Validation("There are no messages to summarize")
)

// TaskMessageService authorizes, stores and serves task conversation messages
type TaskMessageService struct {
	repo        repository.TaskMessageRepository
	invalidator events.MessageViewInvalidator
	notifier    *NotificationService
	summarizer  Summarizer
	log         logrus.FieldLogger
}

// NewTaskMessageService creates a new TaskMessageService. notifier and
// summarizer may be nil.
func NewTaskMessageService(
	repo repository.TaskMessageRepository,
	invalidator events.MessageViewInvalidator,
	notifier *NotificationService,
	summarizer Summarizer,
	log logrus.FieldLogger,
) *TaskMessageService {
	if invalidator == nil {
		invalidator = events.NoopInvalidator{}
	}
	return &TaskMessageService{
		repo:        repo,
		invalidator: invalidator,
		notifier:    notifier,
		summarizer:  summarizer,
		log:         log,
	}
}

// CreateTaskMessageInput represents a message posted to a task thread
type CreateTaskMessageInput struct {
	TaskID   uint64
	SenderID uint64
	Content  string
}

// CreateTaskMessageResult carries the confirmation and the stored message
type CreateTaskMessageResult struct {
	Confirmation string
	Message      models.TaskMessage
}

// CreateTaskMessage stores a message when the sender belongs to the task's
// authorized-poster set: the manager, the primary assignee or an additional
// assignee. The lookup and the insert share one transaction with the task row
// locked, so an assignee removal cannot slip between them.
func (s *TaskMessageService) CreateTaskMessage(ctx context.Context, input CreateTaskMessageInput) (*CreateTaskMessageResult, error) {
	if input.SenderID == 0 {
		return nil, ErrInvalidSender
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrMessageContentRequired
	}
	if utf8.RuneCountInString(content) > constants.MaxMessageLength {
		return nil, ErrMessageTooLong
	}

	message := models.TaskMessage{
		TaskID:   input.TaskID,
		SenderID: input.SenderID,
		Content:  content,
	}

	var (
		task        *models.Task
		assigneeIDs []uint64
	)
	err := s.repo.Transaction(ctx, func(tx repository.TaskMessageRepository) error {
		var err error
		task, err = tx.LockTask(ctx, input.TaskID)
		if err != nil {
			return notFoundOr(ErrTaskNotFound, "failed to load task", err)
		}

		// Manager and primary assignee need no second query
		if !task.IsPrimaryParticipant(input.SenderID) {
			assigneeIDs, err = tx.ListAssigneeIDs(ctx, task.ID)
			if err != nil {
				return storeFault("failed to load task assignees", err)
			}
			if !containsUint64(assigneeIDs, input.SenderID) {
				return ErrNotTaskParticipant
			}
		}

		if err := tx.Create(ctx, &message); err != nil {
			return storeFault("failed to create task message", err)
		}
		return nil
	})
	if err != nil {
		return nil, txError("failed to commit task message", err)
	}

	s.afterCreate(ctx, *task, assigneeIDs, message)

	return &CreateTaskMessageResult{
		Confirmation: MessageSentConfirmation,
		Message:      message,
	}, nil
}

// afterCreate runs the side effects of a committed message. Failures are
// logged; the message is already stored.
func (s *TaskMessageService) afterCreate(ctx context.Context, task models.Task, assigneeIDs []uint64, message models.TaskMessage) {
	entry := s.log.WithFields(logrus.Fields{
		"task_id":    task.ID,
		"message_id": message.ID,
	})

	if err := s.invalidator.TaskMessagesChanged(ctx, task.ID, message.ID); err != nil {
		entry.WithError(err).Warn("task message view invalidation failed")
	}

	if s.notifier == nil {
		return
	}
	if assigneeIDs == nil {
		var err error
		assigneeIDs, err = s.repo.ListAssigneeIDs(ctx, task.ID)
		if err != nil {
			entry.WithError(err).Warn("failed to load assignees for notification")
			return
		}
	}

	recipients := make([]uint64, 0, len(assigneeIDs)+2)
	for _, id := range append([]uint64{task.AssignedBy, task.AssignedTo}, assigneeIDs...) {
		if id != message.SenderID {
			recipients = append(recipients, id)
		}
	}

	err := s.notifier.Notify(ctx, recipients, models.Notification{
		Type:  models.NotificationTaskMessage,
		Title: fmt.Sprintf("New message on %q", task.Title),
		Body:  truncate(message.Content, 200),
		Link:  fmt.Sprintf("/tasks/%d", task.ID),
	})
	if err != nil {
		entry.WithError(err).Warn("failed to notify task participants")
	}
}

// GetMessagesForTask returns every message of the task in creation order
func (s *TaskMessageService) GetMessagesForTask(ctx context.Context, taskID uint64) ([]models.TaskMessageWithSender, error) {
	messages, err := s.repo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, storeFault("failed to list task messages", err)
	}
	return messages, nil
}

// GetRecentMessagesForTask returns at most limit of the newest messages, oldest first
func (s *TaskMessageService) GetRecentMessagesForTask(ctx context.Context, taskID uint64, limit int) ([]models.TaskMessageWithSender, error) {
	messages, err := s.repo.ListRecent(ctx, taskID, NormalizeMessageLimit(limit))
	if err != nil {
		return nil, storeFault("failed to list recent task messages", err)
	}
	return messages, nil
}

// GetMessagesForTaskSince returns messages with an ID strictly greater than afterID
func (s *TaskMessageService) GetMessagesForTaskSince(ctx context.Context, taskID, afterID uint64) ([]models.TaskMessageWithSender, error) {
	messages, err := s.repo.ListSince(ctx, taskID, afterID, 0)
	if err != nil {
		return nil, storeFault("failed to list task messages", err)
	}
	return messages, nil
}

// GetMessagesForTaskSincePage returns the oldest messages after afterID, at
// most limit of them. Clients page forward by passing the last ID back.
func (s *TaskMessageService) GetMessagesForTaskSincePage(ctx context.Context, taskID, afterID uint64, limit int) ([]models.TaskMessageWithSender, error) {
	messages, err := s.repo.ListSince(ctx, taskID, afterID, NormalizeMessageLimit(limit))
	if err != nil {
		return nil, storeFault("failed to list task messages", err)
	}
	return messages, nil
}

// SummarizeThread returns an AI summary of the task's conversation
func (s *TaskMessageService) SummarizeThread(ctx context.Context, task models.Task) (string, error) {
	if s.summarizer == nil {
		return "", ErrAIServiceNotConfigured
	}

	messages, err := s.repo.ListRecent(ctx, task.ID, constants.MaxRecentMessages)
	if err != nil {
		return "", storeFault("failed to list task messages", err)
	}
	if len(messages) == 0 {
		return "", ErrNoMessagesToSummarize
	}

	summary, err := s.summarizer.SummarizeThread(ctx, task, messages)
	if err != nil {
		return "", apierrors.Unexpected(fmt.Errorf("failed to summarize thread: %w", err))
	}
	return summary, nil
}

// NormalizeMessageLimit clamps a requested page size for recent messages
func NormalizeMessageLimit(limit int) int {
	if limit <= 0 {
		return constants.DefaultRecentMessages
	}
	if limit > constants.MaxRecentMessages {
		return constants.MaxRecentMessages
	}
	return limit
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "…"
}
