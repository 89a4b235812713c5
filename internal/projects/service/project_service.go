package service

import (
	"context"
	"fmt"
	"log"

	"github.com/worklane/worklane-backend/internal/messaging"
	"github.com/worklane/worklane-backend/internal/projects/domain"
	"github.com/worklane/worklane-backend/internal/projects/repository"
)

// ProjectService handles project commands, including the lifecycle commands
// that the employer and freelancer issue directly (the time-driven
// transitions belong to the sweeper).
type ProjectService struct {
	projects   *repository.ProjectRepository
	lifecycles *repository.LifecycleRepository
	payments   *messaging.PaymentProducer
}

func NewProjectService(
	projects *repository.ProjectRepository,
	lifecycles *repository.LifecycleRepository,
	payments *messaging.PaymentProducer,
) *ProjectService {
	return &ProjectService{
		projects:   projects,
		lifecycles: lifecycles,
		payments:   payments,
	}
}

// Create publishes a new project with its lifecycle schedule.
func (s *ProjectService) Create(ctx context.Context, p *domain.Project, lc *domain.Lifecycle) error {
	return s.projects.Create(ctx, p, lc)
}

// Get returns one project.
func (s *ProjectService) Get(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, projectID)
}

// GetLifecycle returns the project's lifecycle.
func (s *ProjectService) GetLifecycle(ctx context.Context, projectID string) (*domain.Lifecycle, error) {
	return s.lifecycles.GetByProjectID(ctx, projectID)
}

// ListByEmployer returns the employer's projects.
func (s *ProjectService) ListByEmployer(ctx context.Context, employerUserID string) ([]domain.Project, error) {
	return s.projects.ListByEmployer(ctx, employerUserID)
}

// RequestAcceptance records the freelancer's request to have the work
// accepted. Only the flag is set here; the sweep moves the lifecycle to
// review.
func (s *ProjectService) RequestAcceptance(ctx context.Context, projectID string) error {
	lc, err := s.lifecycles.GetByProjectID(ctx, projectID)
	if err != nil {
		return err
	}
	if lc.Status != domain.StatusInProgress {
		return fmt.Errorf("%w: acceptance can only be requested while work is in progress", domain.ErrInvalidState)
	}

	lc.AcceptanceRequested = true
	return s.lifecycles.Update(ctx, lc)
}

// SetAcceptanceStatus is the employer's verdict on a completion request:
// confirmed completes the lifecycle, rejected sends it back to in progress
// and clears the open request.
func (s *ProjectService) SetAcceptanceStatus(ctx context.Context, projectID string, confirmed bool) error {
	lc, err := s.lifecycles.GetByProjectID(ctx, projectID)
	if err != nil {
		return err
	}

	var next domain.Lifecycle
	if confirmed {
		next, err = domain.ConfirmCompletion(*lc)
	} else {
		next, err = domain.RejectCompletion(*lc)
	}
	if err != nil {
		return err
	}

	return s.lifecycles.Update(ctx, &next)
}

// Cancel cancels the project. When a payment intent is attached, the
// cancellation fact goes out first and a publish failure fails the whole
// command: the lifecycle must never be Cancelled while the payments service
// was left unaware.
func (s *ProjectService) Cancel(ctx context.Context, projectID string) error {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	lc, err := s.lifecycles.GetByProjectID(ctx, projectID)
	if err != nil {
		return err
	}
	if lc.Status.IsTerminal() {
		return fmt.Errorf("%w: lifecycle is already %s", domain.ErrInvalidState, lc.Status)
	}

	if p.PaymentIntentID != nil && *p.PaymentIntentID != "" {
		if err := s.payments.PublishCancellation(ctx, *p.PaymentIntentID); err != nil {
			return fmt.Errorf("request payment cancellation: %w", err)
		}
		log.Printf("project %s: requested cancellation of payment intent %s", projectID, *p.PaymentIntentID)
	}

	lc.Status = domain.StatusCancelled
	return s.lifecycles.Update(ctx, lc)
}
