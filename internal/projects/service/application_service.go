package service

import (
	"context"
	"fmt"

	"github.com/worklane/worklane-backend/internal/projects/domain"
	"github.com/worklane/worklane-backend/internal/projects/repository"
)

// ApplicationService handles the freelancer-application workflow.
type ApplicationService struct {
	apps       *repository.ApplicationRepository
	lifecycles *repository.LifecycleRepository
}

func NewApplicationService(apps *repository.ApplicationRepository, lifecycles *repository.LifecycleRepository) *ApplicationService {
	return &ApplicationService{
		apps:       apps,
		lifecycles: lifecycles,
	}
}

// Create files a new pending application. Applications are only open while
// the lifecycle is accepting them; anything else is a conflict.
func (s *ApplicationService) Create(ctx context.Context, projectID, freelancerUserID string) (*domain.FreelancerApplication, error) {
	lc, err := s.lifecycles.GetByProjectID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if lc.Status != domain.StatusAcceptingApplications {
		return nil, fmt.Errorf("%w: project is not accepting applications", domain.ErrInvalidState)
	}

	app := &domain.FreelancerApplication{
		ProjectID:        projectID,
		FreelancerUserID: freelancerUserID,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Accept picks the winning application. The repository performs the whole
// cascade (target accepted, pending siblings rejected, winner recorded on
// the project) in one transaction; under concurrent accepts for the same
// project exactly one caller wins and the rest get a conflict.
func (s *ApplicationService) Accept(ctx context.Context, projectID, applicationID string) error {
	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.ProjectID != projectID {
		return domain.ErrApplicationNotFound
	}
	if app.Status != domain.ApplicationPending {
		return fmt.Errorf("%w: application is %s", domain.ErrInvalidState, app.Status)
	}

	return s.apps.Accept(ctx, projectID, applicationID, app.FreelancerUserID)
}

// Reject turns one pending application down. No cascade.
func (s *ApplicationService) Reject(ctx context.Context, projectID, applicationID string) error {
	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.ProjectID != projectID {
		return domain.ErrApplicationNotFound
	}

	return s.apps.Reject(ctx, projectID, applicationID)
}

// Withdraw hard-deletes the caller's own pending application.
func (s *ApplicationService) Withdraw(ctx context.Context, applicationID, freelancerUserID string) error {
	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.FreelancerUserID != freelancerUserID {
		return domain.ErrNotOwner
	}
	if app.Status != domain.ApplicationPending {
		return fmt.Errorf("%w: application is %s", domain.ErrInvalidState, app.Status)
	}

	return s.apps.Delete(ctx, applicationID)
}

// ListByProject returns the project's applications.
func (s *ApplicationService) ListByProject(ctx context.Context, projectID string) ([]domain.FreelancerApplication, error) {
	return s.apps.ListByProject(ctx, projectID)
}
