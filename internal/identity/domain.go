package identity

import (
	"errors"
	"time"
)

var ErrProfileNotFound = errors.New("profile not found")

// Profile is the identity service's user record. The provider account ids
// are local copies of facts owned by the payments service, kept eventually
// consistent through the account-linked streams.
type Profile struct {
	UserID              string    `json:"user_id"`
	Email               string    `json:"email"`
	DisplayName         string    `json:"display_name"`
	EmployerAccountID   *string   `json:"employer_account_id,omitempty"`
	FreelancerAccountID *string   `json:"freelancer_account_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
