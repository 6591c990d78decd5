package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/hr-operations-api/internal/constants"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/repository"
	"github.com/yukikurage/hr-operations-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = apierrors.New(apierrors.KindConflict, "Email already exists")
	ErrInvalidEmail         = apierrors.Validation("A valid email is required")
	ErrNameRequired         = apierrors.Validation("name is required")
	ErrInvalidRole          = apierrors.Validation("Invalid role")
	ErrPasswordTooShort     = apierrors.Validation(fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	ErrInvalidCursor        = apierrors.Validation("Invalid cursor")
	ErrEmployeeAccessDenied = apierrors.ForbiddenReason("You can only view your own employee record")
	ErrHROnly               = apierrors.ForbiddenReason("HR or admin role required")
)

// EmployeeService handles employee records and employment history
type EmployeeService struct {
	repo repository.EmployeeRepository
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(repo repository.EmployeeRepository) *EmployeeService {
	return &EmployeeService{repo: repo}
}

// EmployeePage is one keyset page of employees, newest first
type EmployeePage struct {
	Employees  []models.Employee
	NextCursor string
	HasNext    bool
}

// CreateEmployeeInput represents input for hiring an employee
type CreateEmployeeInput struct {
	Name       string
	Email      string
	Password   string
	Role       models.Role
	Department string
	Position   string
	HiredAt    *time.Time
}

// UpdateEmployeeInput holds optional employee changes
type UpdateEmployeeInput struct {
	Name       *string
	Role       *models.Role
	Department *string
	Position   *string
}

// List returns up to limit employees after the opaque cursor token
func (s *EmployeeService) List(ctx context.Context, actor models.Actor, cursorToken string, limit int) (*EmployeePage, error) {
	if !actor.IsHROrAdmin() {
		return nil, ErrHROnly
	}
	cursor, err := utils.DecodeCursor(cursorToken)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	limit = utils.NewPaginationParams(1, limit).Limit

	employees, err := s.repo.ListPage(ctx, cursor, limit+1)
	if err != nil {
		return nil, storeFault("failed to list employees", err)
	}

	page := &EmployeePage{Employees: employees}
	if len(employees) > limit {
		page.Employees = employees[:limit]
		page.HasNext = true
		last := page.Employees[limit-1]
		page.NextCursor = utils.EncodeCursor(utils.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nil
}

// Create hires an employee and opens their first history row
func (s *EmployeeService) Create(ctx context.Context, actor models.Actor, input CreateEmployeeInput) (*models.Employee, error) {
	if !actor.IsHROrAdmin() {
		return nil, ErrHROnly
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !validVar(email, "required,email,max=255") {
		return nil, ErrInvalidEmail
	}
	if input.Role == "" {
		input.Role = models.RoleEmployee
	}
	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}
	// Only admins may create admins
	if input.Role == models.RoleAdmin && actor.Role != models.RoleAdmin {
		return nil, ErrHROnly
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeFault("failed to check email", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierrors.Unexpected(fmt.Errorf("failed to hash password: %w", err))
	}

	employee := &models.Employee{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
		Department:   strings.TrimSpace(input.Department),
		Position:     strings.TrimSpace(input.Position),
		HiredAt:      input.HiredAt,
	}
	if err := s.repo.CreateWithHistory(ctx, employee); err != nil {
		return nil, storeFault("failed to create employee", err)
	}
	return employee, nil
}

// Get returns an employee record visible to the actor
func (s *EmployeeService) Get(ctx context.Context, actor models.Actor, id uint64) (*models.Employee, error) {
	if !actor.IsHROrAdmin() && actor.UserID != id {
		return nil, ErrEmployeeAccessDenied
	}
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(ErrEmployeeNotFound, "failed to find employee", err)
	}
	return employee, nil
}

// Update applies the provided changes. A department or position change
// closes the open history row and opens a new one.
func (s *EmployeeService) Update(ctx context.Context, actor models.Actor, id uint64, input UpdateEmployeeInput) (*models.Employee, error) {
	if !actor.IsHROrAdmin() {
		return nil, ErrHROnly
	}
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(ErrEmployeeNotFound, "failed to find employee", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		employee.Name = name
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, ErrInvalidRole
		}
		if (*input.Role == models.RoleAdmin || employee.Role == models.RoleAdmin) && actor.Role != models.RoleAdmin {
			return nil, ErrHROnly
		}
		employee.Role = *input.Role
	}

	positionChanged := false
	if input.Department != nil {
		department := strings.TrimSpace(*input.Department)
		positionChanged = positionChanged || department != employee.Department
		employee.Department = department
	}
	if input.Position != nil {
		position := strings.TrimSpace(*input.Position)
		positionChanged = positionChanged || position != employee.Position
		employee.Position = position
	}

	if err := s.repo.UpdateWithHistory(ctx, employee, positionChanged); err != nil {
		return nil, storeFault("failed to update employee", err)
	}
	return employee, nil
}

// History lists the employment history of an employee visible to the actor
func (s *EmployeeService) History(ctx context.Context, actor models.Actor, id uint64) ([]models.EmploymentHistory, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	history, err := s.repo.ListHistory(ctx, id)
	if err != nil {
		return nil, storeFault("failed to list employment history", err)
	}
	return history, nil
}
