package payments

import "context"

// Provider is the payment provider port. Implementations map the provider's
// "already settled" responses to ErrIntentFinalized so callers can treat
// cancellation of a finished intent as done.
type Provider interface {
	// CreateAccount provisions a provider account for the user in the given
	// role and returns the provider's account id.
	CreateAccount(ctx context.Context, userID string, role AccountRole) (string, error)

	// CreateIntent places an escrow hold for the project and returns the
	// provider's intent id.
	CreateIntent(ctx context.Context, projectID string, amount float64) (string, error)

	// CancelIntent voids an un-captured intent.
	CancelIntent(ctx context.Context, intentID string) error
}
