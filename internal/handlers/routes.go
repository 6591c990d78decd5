package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/hr-operations-api/internal/middleware"
	"github.com/yukikurage/hr-operations-api/internal/models"
)

// Routes groups every handler served under /api
type Routes struct {
	Auth          *AuthHandler
	Employees     *EmployeeHandler
	Tasks         *TaskHandler
	Messages      *TaskMessageHandler
	Notifications *NotificationHandler
	Milestones    *MilestoneHandler
	Leave         *LeaveHandler
	Payroll       *PayrollHandler
	Payments      *PaymentHandler
	Documents     *DocumentHandler

	// Identity backs RequireAuth
	Identity middleware.EmployeeLoader
	// TaskLoader backs RequireTaskAccess
	TaskLoader middleware.TaskLoader
}

// Register mounts the health check and the API on r. Session middleware must
// already be installed.
func (rt Routes) Register(r gin.IRouter) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "HR Operations API is running",
		})
	})

	requireAuth := middleware.RequireAuth(rt.Identity)
	requireHR := middleware.RequireHROrAdmin()
	taskAccess := middleware.RequireTaskAccess(rt.TaskLoader)

	api := r.Group("/api")
	{
		// Auth routes (public except /me)
		auth := api.Group("/auth")
		{
			auth.POST("/login", rt.Auth.Login)
			auth.POST("/logout", rt.Auth.Logout)
			auth.GET("/me", requireAuth, rt.Auth.GetCurrentUser)
		}

		protected := api.Group("")
		protected.Use(requireAuth)

		employees := protected.Group("/employees")
		{
			employees.GET("", requireHR, rt.Employees.ListEmployees)
			employees.POST("", requireHR, rt.Employees.CreateEmployee)
			employees.GET("/:id", rt.Employees.GetEmployee)
			employees.PATCH("/:id", requireHR, rt.Employees.UpdateEmployee)
			employees.GET("/:id/history", rt.Employees.GetHistory)
		}

		tasks := protected.Group("/tasks")
		{
			tasks.GET("", rt.Tasks.ListTasks)
			tasks.POST("", middleware.RequireRole(models.RoleManager, models.RoleHR, models.RoleAdmin), rt.Tasks.CreateTask)
			tasks.GET("/:id", taskAccess, rt.Tasks.GetTask)
			tasks.PATCH("/:id/status", taskAccess, rt.Tasks.UpdateTaskStatus)
			tasks.POST("/:id/assignees", taskAccess, rt.Tasks.AddAssignees)
			tasks.DELETE("/:id/assignees/:employee_id", taskAccess, rt.Tasks.RemoveAssignee)

			// Posting authorizes against the task's poster set itself
			tasks.POST("/:id/messages", rt.Messages.CreateMessage)
			tasks.GET("/:id/messages", taskAccess, rt.Messages.ListMessages)
			tasks.GET("/:id/messages/summary", taskAccess, rt.Messages.SummarizeThread)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", rt.Notifications.ListNotifications)
			notifications.POST("/read-all", rt.Notifications.MarkAllRead)
			notifications.POST("/:id/read", rt.Notifications.MarkRead)
		}
		protected.GET("/notification/unread-count", rt.Notifications.UnreadCount)
		protected.GET("/notification-preferences", rt.Notifications.GetPreferences)
		protected.POST("/notification-preferences", rt.Notifications.UpdatePreferences)

		milestones := protected.Group("/milestones")
		{
			milestones.GET("", rt.Milestones.ListMilestones)
			milestones.POST("", requireHR, rt.Milestones.CreateMilestone)
			milestones.PATCH("/:id", requireHR, rt.Milestones.UpdateMilestone)
			milestones.DELETE("/:id", requireHR, rt.Milestones.DeleteMilestone)
		}

		protected.GET("/leave-balances", rt.Leave.ListBalances)
		protected.PUT("/leave-balances", requireHR, rt.Leave.UpsertBalance)

		leave := protected.Group("/leave-requests")
		{
			leave.GET("", rt.Leave.ListRequests)
			leave.POST("", rt.Leave.CreateRequest)
			leave.POST("/:id/approve", requireHR, rt.Leave.Approve)
			leave.POST("/:id/reject", requireHR, rt.Leave.Reject)
			leave.POST("/:id/cancel", rt.Leave.Cancel)
		}

		payroll := protected.Group("/payroll-structures")
		{
			payroll.GET("/:employee_id", rt.Payroll.GetStructure)
			payroll.PUT("/:employee_id", requireHR, rt.Payroll.UpsertStructure)
		}

		payments := protected.Group("/payments")
		{
			payments.GET("", rt.Payments.ListPayments)
			payments.POST("", requireHR, rt.Payments.CreatePayment)
			payments.PATCH("/:id/status", requireHR, rt.Payments.UpdatePaymentStatus)
		}

		folders := protected.Group("/folders")
		{
			folders.GET("", rt.Documents.ListFolders)
			folders.POST("", rt.Documents.CreateFolder)
			folders.GET("/:id/documents", rt.Documents.ListDocuments)
			folders.POST("/:id/documents", rt.Documents.UploadDocument)
		}

		documents := protected.Group("/documents")
		{
			documents.GET("/:id/download", rt.Documents.DownloadDocument)
			documents.DELETE("/:id", rt.Documents.DeleteDocument)
		}
	}
}
