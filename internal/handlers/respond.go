package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/middleware"
	"github.com/yukikurage/hr-operations-api/internal/models"
)

// respondError writes err to the client. Unexpected failures are logged with
// their cause, which never reaches the response body.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	if apierrors.KindOf(err) == apierrors.KindUnexpected {
		log.WithError(err).WithFields(logrus.Fields{
			"request_id": middleware.RequestID(c),
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	apierrors.Respond(c, err)
}

// currentActor returns the authenticated caller or writes a 401
func currentActor(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return models.Actor{}, false
	}
	return actor, true
}

// currentTask returns the task loaded by RequireTaskAccess or writes a 500
func currentTask(c *gin.Context) (models.Task, bool) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return models.Task{}, false
	}
	return task, true
}

// parseIDParam parses a positive numeric path parameter or writes a 400
func parseIDParam(c *gin.Context, name, message string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, message)
		return 0, false
	}
	return id, true
}

// parseOptionalIDQuery parses an optional positive numeric query value.
// An absent value yields nil.
func parseOptionalIDQuery(c *gin.Context, name, message string) (*uint64, bool) {
	raw, present := c.GetQuery(name)
	if !present || raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, message)
		return nil, false
	}
	return &id, true
}
