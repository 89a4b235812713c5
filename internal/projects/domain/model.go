package domain

import (
	"errors"
	"time"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrLifecycleNotFound   = errors.New("lifecycle not found")
	ErrApplicationNotFound = errors.New("application not found")

	// ErrInvalidState is returned when a command asks for a transition the
	// current lifecycle or application status does not permit.
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrNotOwner is returned when a freelancer acts on an application they
	// did not create.
	ErrNotOwner = errors.New("application belongs to another freelancer")

	// ErrAlreadyApplied is returned on a duplicate application from the same
	// freelancer to the same project.
	ErrAlreadyApplied = errors.New("freelancer already applied to this project")
)

// LifecycleStatus is the ordered status of a project lifecycle. Values only
// move forward along the declared order, except for the employer's explicit
// completion rejection (PendingForReview back to InProgress).
type LifecycleStatus string

const (
	StatusPublished             LifecycleStatus = "published"
	StatusAcceptingApplications LifecycleStatus = "accepting_applications"
	StatusWaitingForWorkStart   LifecycleStatus = "waiting_for_work_start"
	StatusInProgress            LifecycleStatus = "in_progress"
	StatusPendingForReview      LifecycleStatus = "pending_for_review"
	StatusCompleted             LifecycleStatus = "completed"
	StatusExpired               LifecycleStatus = "expired"
	StatusCancelled             LifecycleStatus = "cancelled"
)

// IsTerminal reports whether the status is absorbing: the sweeper never
// loads terminal rows and no command may transition out of them.
func (s LifecycleStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Project is the root of the marketplace aggregate. It owns its Lifecycle
// and FreelancerApplications; structural changes to the aggregate share one
// transaction.
type Project struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Budget           float64   `json:"budget"`
	CategoryID       *string   `json:"category_id,omitempty"`
	EmployerUserID   string    `json:"employer_user_id"`
	FreelancerUserID *string   `json:"freelancer_user_id,omitempty"`
	PaymentIntentID  *string   `json:"payment_intent_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Lifecycle is the scheduling/status record attached 1:1 to a project. It
// references the project by id only, never by pointer, so the aggregate
// stays acyclic.
type Lifecycle struct {
	ID                    string          `json:"id"`
	ProjectID             string          `json:"project_id"`
	ApplicationsStartDate time.Time       `json:"applications_start_date"`
	ApplicationsDeadline  time.Time       `json:"applications_deadline"`
	WorkStartDate         time.Time       `json:"work_start_date"`
	WorkDeadline          time.Time       `json:"work_deadline"`
	Status                LifecycleStatus `json:"status"`
	AcceptanceRequested   bool            `json:"acceptance_requested"`
	AcceptanceConfirmed   bool            `json:"acceptance_confirmed"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// ValidateDates enforces the strict ordering of the four lifecycle dates.
// The state machine itself assumes the ordering holds.
func (l *Lifecycle) ValidateDates() error {
	if !l.ApplicationsStartDate.Before(l.ApplicationsDeadline) {
		return errors.New("applications_start_date must be before applications_deadline")
	}
	if !l.ApplicationsDeadline.Before(l.WorkStartDate) {
		return errors.New("applications_deadline must be before work_start_date")
	}
	if !l.WorkStartDate.Before(l.WorkDeadline) {
		return errors.New("work_start_date must be before work_deadline")
	}
	return nil
}

type FreelancerApplication struct {
	ID               string            `json:"id"`
	ProjectID        string            `json:"project_id"`
	FreelancerUserID string            `json:"freelancer_user_id"`
	Status           ApplicationStatus `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
}
