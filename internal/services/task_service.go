package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/repository"
)

var (
	ErrTaskCreationForbidden = apierrors.ForbiddenReason("Only managers, HR or admins can create tasks")
	ErrTaskManageForbidden   = apierrors.ForbiddenReason("Only the task manager, HR or admins can change assignees")
	ErrTaskStatusForbidden   = apierrors.ForbiddenReason("Only task participants can change the status")
	ErrTitleRequired         = apierrors.Validation("title is required")
	ErrInvalidTaskStatus     = apierrors.Validation("Invalid task status")
	ErrInvalidTaskPriority   = apierrors.Validation("Invalid task priority")
	ErrAssigneeRequired      = apierrors.Validation("assigned_to is required")
	ErrNoEmployeeIDsProvided = apierrors.Validation("At least one employee ID is required")
	ErrUnknownEmployees      = apierrors.Validation("One or more employees do not exist")
	ErrAssigneeNotOnTask     = apierrors.NotFoundf("Employee is not an assignee of this task")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo     repository.TaskRepository
	employeeRepo repository.EmployeeRepository
	notifier     *NotificationService
	log          logrus.FieldLogger
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, employeeRepo repository.EmployeeRepository, notifier *NotificationService, log logrus.FieldLogger) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		employeeRepo: employeeRepo,
		notifier:     notifier,
		log:          log,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	// All lists every task; honoured for HR and admins only
	All           bool
	Status        *models.TaskStatus
	SortByDueDate bool
	Page          int
	PageSize      int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	DueDate     *time.Time
	AssignedTo  uint64
	AssigneeIDs []uint64
}

// GetAccessibleTask returns the task when the actor participates in it or is
// HR/admin. Other callers get ErrTaskNotFound so task existence does not leak.
func (s *TaskService) GetAccessibleTask(ctx context.Context, actor models.Actor, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, notFoundOr(ErrTaskNotFound, "failed to find task", err)
	}

	if actor.IsHROrAdmin() || task.IsPrimaryParticipant(actor.UserID) {
		return task, nil
	}

	ok, err := s.taskRepo.IsAssignee(ctx, task.ID, actor.UserID)
	if err != nil {
		return nil, storeFault("failed to check task assignee", err)
	}
	if !ok {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// ListTasks returns tasks the actor participates in, or all tasks for HR/admin
func (s *TaskService) ListTasks(ctx context.Context, actor models.Actor, input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		Status:        input.Status,
		SortByDueDate: input.SortByDueDate,
		Page:          input.Page,
		PageSize:      input.PageSize,
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, ErrInvalidTaskStatus
	}
	if !(input.All && actor.IsHROrAdmin()) {
		filter.ParticipantID = &actor.UserID
	}

	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, storeFault("failed to list tasks", err)
	}
	return tasks, total, nil
}

// CreateTask creates a task managed by the actor
func (s *TaskService) CreateTask(ctx context.Context, actor models.Actor, input CreateTaskInput) (*models.Task, error) {
	if !actor.CanManageTasks() {
		return nil, ErrTaskCreationForbidden
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.AssignedTo == 0 {
		return nil, ErrAssigneeRequired
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidTaskPriority
	}

	extra := s.additionalAssignees(actor.UserID, input.AssignedTo, input.AssigneeIDs)
	if err := s.ensureEmployeesExist(ctx, append([]uint64{input.AssignedTo}, extra...)); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Status:      models.TaskStatusPending,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		AssignedBy:  actor.UserID,
		AssignedTo:  input.AssignedTo,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, storeFault("failed to create task", err)
	}

	if len(extra) > 0 {
		if err := s.taskRepo.AddAssignees(ctx, task.ID, extra); err != nil {
			return nil, storeFault("failed to assign employees to task", err)
		}
	}

	s.notifyAssigned(ctx, *task, append([]uint64{input.AssignedTo}, extra...), actor.UserID)
	return task, nil
}

// UpdateStatus changes the status of a task the actor participates in
func (s *TaskService) UpdateStatus(ctx context.Context, actor models.Actor, task models.Task, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, ErrInvalidTaskStatus
	}
	if !actor.IsHROrAdmin() && !task.IsPrimaryParticipant(actor.UserID) {
		ok, err := s.taskRepo.IsAssignee(ctx, task.ID, actor.UserID)
		if err != nil {
			return nil, storeFault("failed to check task assignee", err)
		}
		if !ok {
			return nil, ErrTaskStatusForbidden
		}
	}

	if err := s.taskRepo.UpdateStatus(ctx, task.ID, status); err != nil {
		return nil, notFoundOr(ErrTaskNotFound, "failed to update task status", err)
	}
	task.Status = status
	return &task, nil
}

// AddAssignees adds additional participants to a task
func (s *TaskService) AddAssignees(ctx context.Context, actor models.Actor, task models.Task, employeeIDs []uint64) ([]uint64, error) {
	if !s.canManage(actor, task) {
		return nil, ErrTaskManageForbidden
	}
	if len(employeeIDs) == 0 {
		return nil, ErrNoEmployeeIDsProvided
	}

	ids := s.additionalAssignees(task.AssignedBy, task.AssignedTo, employeeIDs)
	if len(ids) > 0 {
		if err := s.ensureEmployeesExist(ctx, ids); err != nil {
			return nil, err
		}
		if err := s.taskRepo.AddAssignees(ctx, task.ID, ids); err != nil {
			return nil, storeFault("failed to assign employees to task", err)
		}
		s.notifyAssigned(ctx, task, ids, actor.UserID)
	}

	assignees, err := s.taskRepo.ListAssigneeIDs(ctx, task.ID)
	if err != nil {
		return nil, storeFault("failed to load task assignees", err)
	}
	return assignees, nil
}

// RemoveAssignee removes an additional participant. From then on the employee
// can no longer post to the task; earlier messages stay.
func (s *TaskService) RemoveAssignee(ctx context.Context, actor models.Actor, task models.Task, employeeID uint64) error {
	if !s.canManage(actor, task) {
		return ErrTaskManageForbidden
	}

	removed, err := s.taskRepo.RemoveAssignee(ctx, task.ID, employeeID)
	if err != nil {
		return notFoundOr(ErrTaskNotFound, "failed to remove task assignee", err)
	}
	if !removed {
		return ErrAssigneeNotOnTask
	}
	return nil
}

// ListAssigneeIDs lists the additional participants of a task
func (s *TaskService) ListAssigneeIDs(ctx context.Context, taskID uint64) ([]uint64, error) {
	ids, err := s.taskRepo.ListAssigneeIDs(ctx, taskID)
	if err != nil {
		return nil, storeFault("failed to load task assignees", err)
	}
	return ids, nil
}

func (s *TaskService) canManage(actor models.Actor, task models.Task) bool {
	return actor.IsHROrAdmin() || task.AssignedBy == actor.UserID
}

// additionalAssignees drops duplicates and the primary participants
func (s *TaskService) additionalAssignees(assignedBy, assignedTo uint64, ids []uint64) []uint64 {
	result := make([]uint64, 0, len(ids))
	for _, id := range uniqueUint64(ids) {
		if id == 0 || id == assignedBy || id == assignedTo {
			continue
		}
		result = append(result, id)
	}
	return result
}

func (s *TaskService) ensureEmployeesExist(ctx context.Context, ids []uint64) error {
	ids = uniqueUint64(ids)
	count, err := s.employeeRepo.CountByIDs(ctx, ids)
	if err != nil {
		return storeFault("failed to verify employees", err)
	}
	if int(count) != len(ids) {
		return ErrUnknownEmployees
	}
	return nil
}

func (s *TaskService) notifyAssigned(ctx context.Context, task models.Task, recipients []uint64, actorID uint64) {
	if s.notifier == nil {
		return
	}
	filtered := make([]uint64, 0, len(recipients))
	for _, id := range recipients {
		if id != actorID {
			filtered = append(filtered, id)
		}
	}

	err := s.notifier.Notify(ctx, filtered, models.Notification{
		Type:  models.NotificationTaskAssigned,
		Title: fmt.Sprintf("You were added to %q", task.Title),
		Link:  fmt.Sprintf("/tasks/%d", task.ID),
	})
	if err != nil {
		s.log.WithError(err).WithField("task_id", task.ID).Warn("failed to notify task assignees")
	}
}
