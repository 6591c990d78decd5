package events

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// MessageViewInvalidator tells readers that a task's message thread changed
type MessageViewInvalidator interface {
	TaskMessagesChanged(ctx context.Context, taskID, messageID uint64) error
}

// NoopInvalidator is used when no redis is configured
type NoopInvalidator struct{}

func (NoopInvalidator) TaskMessagesChanged(context.Context, uint64, uint64) error { return nil }

// RedisInvalidator bumps a per-task version key and publishes the new
// message id on the task's channel
type RedisInvalidator struct {
	rc *redis.Client
}

func NewRedisInvalidator(rc *redis.Client) *RedisInvalidator {
	return &RedisInvalidator{rc: rc}
}

// TaskMessagesChannel is the pub/sub channel for a task's thread
func TaskMessagesChannel(taskID uint64) string {
	return fmt.Sprintf("task_messages:%d", taskID)
}

// TaskMessagesVersionKey holds a counter bumped on every new message
func TaskMessagesVersionKey(taskID uint64) string {
	return fmt.Sprintf("task_messages:%d:version", taskID)
}

func (i *RedisInvalidator) TaskMessagesChanged(ctx context.Context, taskID, messageID uint64) error {
	pipe := i.rc.TxPipeline()
	pipe.Incr(ctx, TaskMessagesVersionKey(taskID))
	pipe.Publish(ctx, TaskMessagesChannel(taskID), strconv.FormatUint(messageID, 10))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish task message invalidation: %w", err)
	}
	return nil
}
