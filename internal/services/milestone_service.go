package services

import (
	"context"
	"strings"
	"time"

	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/repository"
)

var (
	ErrMilestoneNotFound     = apierrors.NotFoundf("Milestone not found")
	ErrMilestoneAccessDenied = apierrors.ForbiddenReason("You can only view your own milestones")
)

// MilestoneService manages employee milestones
type MilestoneService struct {
	repo         repository.MilestoneRepository
	employeeRepo repository.EmployeeRepository
}

// NewMilestoneService creates a new MilestoneService
func NewMilestoneService(repo repository.MilestoneRepository, employeeRepo repository.EmployeeRepository) *MilestoneService {
	return &MilestoneService{repo: repo, employeeRepo: employeeRepo}
}

type CreateMilestoneInput struct {
	EmployeeID  uint64
	Title       string
	Description string
	DueDate     *time.Time
}

type UpdateMilestoneInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Achieved    *bool
}

// List returns the milestones of employeeID, defaulting to the actor
func (s *MilestoneService) List(ctx context.Context, actor models.Actor, employeeID uint64) ([]models.Milestone, error) {
	if employeeID == 0 {
		employeeID = actor.UserID
	}
	if employeeID != actor.UserID && !actor.IsHROrAdmin() {
		return nil, ErrMilestoneAccessDenied
	}

	milestones, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, storeFault("failed to list milestones", err)
	}
	return milestones, nil
}

func (s *MilestoneService) Create(ctx context.Context, actor models.Actor, input CreateMilestoneInput) (*models.Milestone, error) {
	if !actor.IsHROrAdmin() {
		return nil, ErrHROnly
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if _, err := s.employeeRepo.FindByID(ctx, input.EmployeeID); err != nil {
		return nil, notFoundOr(ErrEmployeeNotFound, "failed to find employee", err)
	}

	milestone := &models.Milestone{
		EmployeeID:  input.EmployeeID,
		Title:       title,
		Description: input.Description,
		DueDate:     input.DueDate,
		CreatedBy:   actor.UserID,
	}
	if err := s.repo.Create(ctx, milestone); err != nil {
		return nil, storeFault("failed to create milestone", err)
	}
	return milestone, nil
}

func (s *MilestoneService) Update(ctx context.Context, actor models.Actor, id uint64, input UpdateMilestoneInput) (*models.Milestone, error) {
	if !actor.IsHROrAdmin() {
		return nil, ErrHROnly
	}
	milestone, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(ErrMilestoneNotFound, "failed to find milestone", err)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		milestone.Title = title
	}
	if input.Description != nil {
		milestone.Description = *input.Description
	}
	if input.DueDate != nil {
		milestone.DueDate = input.DueDate
	}
	if input.Achieved != nil {
		switch {
		case *input.Achieved && milestone.AchievedAt == nil:
			now := time.Now()
			milestone.AchievedAt = &now
		case !*input.Achieved:
			milestone.AchievedAt = nil
		}
	}

	if err := s.repo.Update(ctx, milestone); err != nil {
		return nil, storeFault("failed to update milestone", err)
	}
	return milestone, nil
}

func (s *MilestoneService) Delete(ctx context.Context, actor models.Actor, id uint64) error {
	if !actor.IsHROrAdmin() {
		return ErrHROnly
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOr(ErrMilestoneNotFound, "failed to find milestone", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeFault("failed to delete milestone", err)
	}
	return nil
}
