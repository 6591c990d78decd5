package middleware

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/hr-operations-api/internal/constants"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/models"
)

// EmployeeLoader resolves the employee behind a session
type EmployeeLoader interface {
	GetEmployee(ctx context.Context, id uint64) (*models.Employee, error)
}

// EmployeeLoaderFunc adapts a function to EmployeeLoader
type EmployeeLoaderFunc func(ctx context.Context, id uint64) (*models.Employee, error)

func (f EmployeeLoaderFunc) GetEmployee(ctx context.Context, id uint64) (*models.Employee, error) {
	return f(ctx, id)
}

// RequireAuth checks if the user is authenticated via session. The session
// only carries the user ID; the employee is reloaded on every request so a
// role change or deletion takes effect immediately.
func RequireAuth(loader EmployeeLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := sessionUserID(session.Get(constants.ContextKeyUserID))
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		employee, err := loader.GetEmployee(c.Request.Context(), userID)
		if err != nil {
			if apierrors.KindOf(err) == apierrors.KindNotFound {
				apierrors.Unauthorized(c, "")
			} else {
				apierrors.Respond(c, err)
			}
			c.Abort()
			return
		}
		if !employee.Role.Valid() {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store identity in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, employee.ID)
		c.Set(constants.ContextKeyRole, employee.Role)
		c.Next()
	}
}

// RequireHROrAdmin rejects sessions whose role cannot manage HR records.
// Must run after RequireAuth.
func RequireHROrAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleHR, models.RoleAdmin)
}

// RequireRole rejects sessions whose role is not one of roles
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		apierrors.Forbidden(c, "Insufficient permissions")
		c.Abort()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return sessionUserID(userID)
}

// sessionUserID normalizes the numeric types a session codec may hand back
func sessionUserID(v interface{}) (uint64, bool) {
	switch v := v.(type) {
	case uint64:
		return v, v > 0
	case uint:
		return uint64(v), v > 0
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetActor returns the authenticated caller set by RequireAuth
func GetActor(c *gin.Context) (models.Actor, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		return models.Actor{}, false
	}
	role, _ := c.Get(constants.ContextKeyRole)
	r, ok := role.(models.Role)
	if !ok || !r.Valid() {
		return models.Actor{}, false
	}
	return models.Actor{UserID: userID, Role: r}, true
}
