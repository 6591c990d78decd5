package dto

import (
	"time"

	"github.com/yukikurage/hr-operations-api/internal/models"
)

// EmployeeDTO represents an employee in API responses
type EmployeeDTO struct {
	ID         uint64      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       models.Role `json:"role"`
	Department string      `json:"department"`
	Position   string      `json:"position"`
	HiredAt    *time.Time  `json:"hired_at"`
	CreatedAt  time.Time   `json:"created_at"`
}

// EmployeeListResponse is one keyset page of employees
type EmployeeListResponse struct {
	Employees  []EmployeeDTO `json:"employees"`
	NextCursor *string       `json:"next_cursor"`
	HasNext    bool          `json:"has_next"`
}

func ToEmployeeDTO(e models.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Role:       e.Role,
		Department: e.Department,
		Position:   e.Position,
		HiredAt:    e.HiredAt,
		CreatedAt:  e.CreatedAt,
	}
}

func ToEmployeeListResponse(employees []models.Employee, nextCursor string, hasNext bool) EmployeeListResponse {
	items := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		items[i] = ToEmployeeDTO(e)
	}
	resp := EmployeeListResponse{Employees: items, HasNext: hasNext}
	if nextCursor != "" {
		resp.NextCursor = &nextCursor
	}
	return resp
}
