package middleware

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/hr-operations-api/internal/constants"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/models"
)

// TaskLoader resolves a task the actor is allowed to see
type TaskLoader interface {
	GetAccessibleTask(ctx context.Context, actor models.Actor, taskID uint64) (*models.Task, error)
}

// TaskLoaderFunc adapts a function to TaskLoader
type TaskLoaderFunc func(ctx context.Context, actor models.Actor, taskID uint64) (*models.Task, error)

func (f TaskLoaderFunc) GetAccessibleTask(ctx context.Context, actor models.Actor, taskID uint64) (*models.Task, error) {
	return f(ctx, actor, taskID)
}

// RequireTaskAccess checks if the user has access to a task.
// Participants and HR/admin can read a task; everyone else gets a 404.
func RequireTaskAccess(loader TaskLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || taskID == 0 {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		actor, ok := GetActor(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		task, err := loader.GetAccessibleTask(c.Request.Context(), actor, taskID)
		if err != nil {
			apierrors.Respond(c, err)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, *task)
		c.Next()
	}
}

// GetTask retrieves the task loaded by RequireTaskAccess
func GetTask(c *gin.Context) (models.Task, bool) {
	v, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return models.Task{}, false
	}
	task, ok := v.(models.Task)
	return task, ok
}
