package dto

import (
	"time"

	"github.com/yukikurage/hr-operations-api/internal/models"
)

// EmployeeSummaryDTO is the minimal employee shape embedded in other responses
type EmployeeSummaryDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
	AssignedBy  uint64              `json:"assigned_by"`
	AssignedTo  uint64              `json:"assigned_to"`
	AssigneeIDs []uint64            `json:"assignee_ids,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Manager     *EmployeeSummaryDTO `json:"manager,omitempty"`
	Assignee    *EmployeeSummaryDTO `json:"assignee,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// Conversion functions

// ToEmployeeSummaryDTO converts an Employee model to EmployeeSummaryDTO
func ToEmployeeSummaryDTO(employee models.Employee) EmployeeSummaryDTO {
	return EmployeeSummaryDTO{
		ID:    employee.ID,
		Name:  employee.Name,
		Email: employee.Email,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		AssignedBy:  task.AssignedBy,
		AssignedTo:  task.AssignedTo,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include participants if preloaded
	if task.Manager.ID != 0 {
		manager := ToEmployeeSummaryDTO(task.Manager)
		dto.Manager = &manager
	}
	if task.Assignee.ID != 0 {
		assignee := ToEmployeeSummaryDTO(task.Assignee)
		dto.Assignee = &assignee
	}
	if len(task.Assignees) > 0 {
		dto.AssigneeIDs = make([]uint64, len(task.Assignees))
		for i, a := range task.Assignees {
			dto.AssigneeIDs[i] = a.EmployeeID
		}
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = int(totalCount) / pageSize
		if int(totalCount)%pageSize > 0 {
			totalPages++
		}
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
