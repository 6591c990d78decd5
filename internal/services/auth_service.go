package services

import (
	"context"
	"errors"
	"strings"

	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = apierrors.New(apierrors.KindUnauthorized, "Invalid email or password")
	ErrEmployeeNotFound   = apierrors.NotFoundf("Employee not found")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	employeeRepo repository.EmployeeRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(employeeRepo repository.EmployeeRepository) *AuthService {
	return &AuthService{
		employeeRepo: employeeRepo,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated employee.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.Employee, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	employee, err := s.employeeRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeFault("failed to find employee", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return employee, nil
}

// GetEmployee retrieves an employee by ID.
func (s *AuthService) GetEmployee(ctx context.Context, id uint64) (*models.Employee, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(ErrEmployeeNotFound, "failed to find employee", err)
	}
	return employee, nil
}
