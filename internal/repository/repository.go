package repository

import (
	"context"
	"time"

	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/utils"
)

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	// CreateWithHistory creates an employee and opens their first employment history row
	CreateWithHistory(ctx context.Context, employee *models.Employee) error

	// FindByID finds an employee by ID
	FindByID(ctx context.Context, id uint64) (*models.Employee, error)

	// FindByEmail finds an employee by email
	FindByEmail(ctx context.Context, email string) (*models.Employee, error)

	// ListPage returns up to limit employees after the cursor, newest first
	ListPage(ctx context.Context, after *utils.Cursor, limit int) ([]models.Employee, error)

	// UpdateWithHistory saves an employee; when positionChanged is set the open
	// history row is closed and a new one opened
	UpdateWithHistory(ctx context.Context, employee *models.Employee, positionChanged bool) error

	// ListHistory lists employment history, most recent first
	ListHistory(ctx context.Context, employeeID uint64) ([]models.EmploymentHistory, error)

	// CountByIDs counts how many of the given employee IDs exist
	CountByIDs(ctx context.Context, ids []uint64) (int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// UpdateStatus changes the status of a task
	UpdateStatus(ctx context.Context, id uint64, status models.TaskStatus) error

	// AddAssignees adds additional participants to a task
	AddAssignees(ctx context.Context, taskID uint64, employeeIDs []uint64) error

	// RemoveAssignee removes an additional participant while holding the task row lock
	RemoveAssignee(ctx context.Context, taskID, employeeID uint64) (bool, error)

	// IsAssignee reports whether employeeID is an additional participant
	IsAssignee(ctx context.Context, taskID, employeeID uint64) (bool, error)

	// ListAssigneeIDs lists additional participant IDs of a task
	ListAssigneeIDs(ctx context.Context, taskID uint64) ([]uint64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ParticipantID *uint64
	Status        *models.TaskStatus
	SortByDueDate bool
	Page          int
	PageSize      int
}

// TaskMessageRepository defines the interface for task message data access
type TaskMessageRepository interface {
	// Transaction runs fn with a repository bound to a single transaction
	Transaction(ctx context.Context, fn func(repo TaskMessageRepository) error) error

	// LockTask loads a task, locking its row where the database supports it
	LockTask(ctx context.Context, taskID uint64) (*models.Task, error)

	// ListAssigneeIDs lists additional participant IDs of a task
	ListAssigneeIDs(ctx context.Context, taskID uint64) ([]uint64, error)

	// Create inserts a message; the store assigns the ID
	Create(ctx context.Context, message *models.TaskMessage) error

	// ListByTask returns all messages of a task in ascending ID order
	ListByTask(ctx context.Context, taskID uint64) ([]models.TaskMessageWithSender, error)

	// ListRecent returns the last limit messages of a task in ascending ID order
	ListRecent(ctx context.Context, taskID uint64, limit int) ([]models.TaskMessageWithSender, error)

	// ListSince returns messages with ID greater than afterID in ascending
	// order, at most limit of them when limit is positive
	ListSince(ctx context.Context, taskID, afterID uint64, limit int) ([]models.TaskMessageWithSender, error)
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []models.Notification) error
	List(ctx context.Context, recipientID uint64, unreadOnly bool, params utils.PaginationParams) ([]models.Notification, int64, error)
	CountUnread(ctx context.Context, recipientID uint64) (int64, error)
	MarkRead(ctx context.Context, recipientID, id uint64, at time.Time) (int64, error)
	// Owns reports whether notification id belongs to recipientID
	Owns(ctx context.Context, recipientID, id uint64) (bool, error)
	MarkAllRead(ctx context.Context, recipientID uint64, at time.Time) (int64, error)

	// FindPreferences returns stored preferences; employees without a row are omitted
	FindPreferences(ctx context.Context, employeeIDs []uint64) ([]models.NotificationPreference, error)
	UpsertPreference(ctx context.Context, pref *models.NotificationPreference) error
}

// MilestoneRepository defines the interface for milestone data access
type MilestoneRepository interface {
	Create(ctx context.Context, milestone *models.Milestone) error
	FindByID(ctx context.Context, id uint64) (*models.Milestone, error)
	ListByEmployee(ctx context.Context, employeeID uint64) ([]models.Milestone, error)
	Update(ctx context.Context, milestone *models.Milestone) error
	Delete(ctx context.Context, id uint64) error
}

// LeaveRepository defines the interface for leave balance and request data access
type LeaveRepository interface {
	// Transaction runs fn with a repository bound to a single transaction
	Transaction(ctx context.Context, fn func(repo LeaveRepository) error) error

	ListBalances(ctx context.Context, employeeID uint64, year *int) ([]models.LeaveBalance, error)
	UpsertBalance(ctx context.Context, balance *models.LeaveBalance) error

	// FindBalanceForUpdate loads and locks a balance row
	FindBalanceForUpdate(ctx context.Context, employeeID uint64, leaveType models.LeaveType, year int) (*models.LeaveBalance, error)
	SaveBalance(ctx context.Context, balance *models.LeaveBalance) error

	CreateRequest(ctx context.Context, request *models.LeaveRequest) error
	FindRequestForUpdate(ctx context.Context, id uint64) (*models.LeaveRequest, error)
	SaveRequest(ctx context.Context, request *models.LeaveRequest) error
	ListRequests(ctx context.Context, filter LeaveRequestFilter) ([]models.LeaveRequest, error)
}

// LeaveRequestFilter holds filtering options for listing leave requests
type LeaveRequestFilter struct {
	EmployeeID *uint64
	Status     *models.LeaveStatus
}

// PayrollRepository defines the interface for payroll structure data access
type PayrollRepository interface {
	FindByEmployee(ctx context.Context, employeeID uint64) (*models.PayrollStructure, error)
	Upsert(ctx context.Context, structure *models.PayrollStructure) error
}

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id uint64) (*models.Payment, error)
	List(ctx context.Context, employeeID *uint64, params utils.PaginationParams) ([]models.Payment, int64, error)
	Update(ctx context.Context, payment *models.Payment) error
}

// DocumentRepository defines the interface for folder and document data access
type DocumentRepository interface {
	CreateFolder(ctx context.Context, folder *models.Folder) error
	FindFolder(ctx context.Context, id uint64) (*models.Folder, error)

	// ListFolders lists all folders when visibleTo is nil, otherwise the
	// folders owned by or filed for that employee
	ListFolders(ctx context.Context, visibleTo *uint64) ([]models.Folder, error)

	CreateDocument(ctx context.Context, document *models.Document) error
	FindDocument(ctx context.Context, id uint64) (*models.Document, error)
	ListDocuments(ctx context.Context, folderID uint64) ([]models.Document, error)
	DeleteDocument(ctx context.Context, id uint64) error
}
