package payments

import (
	"errors"
	"time"
)

var (
	ErrIntentNotFound = errors.New("payment intent not found")

	// ErrIntentFinalized means the provider already settled the intent
	// (captured or cancelled). Cancellation treats it as a terminal
	// non-error outcome.
	ErrIntentFinalized = errors.New("payment intent already finalized")
)

type AccountRole string

const (
	RoleEmployer   AccountRole = "employer"
	RoleFreelancer AccountRole = "freelancer"
)

const (
	IntentStatusCreated   = "created"
	IntentStatusCancelled = "cancelled"
	IntentStatusCaptured  = "captured"
)

// PaymentIntent is the payments service's record of an escrow intent held
// at the provider for a project.
type PaymentIntent struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
