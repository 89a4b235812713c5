package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ProfileRepository provides persistence operations for profiles.
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a new profile.
func (r *ProfileRepository) Create(ctx context.Context, p *Profile) error {
	if p.UserID == "" {
		p.UserID = uuid.New().String()
	}

	const q = `
INSERT INTO profiles (user_id, email, display_name)
VALUES ($1, $2, $3)
RETURNING created_at, updated_at;
`
	err := r.db.QueryRowContext(ctx, q, p.UserID, p.Email, p.DisplayName).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetByUserID returns one profile.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	const q = `
SELECT user_id, email, display_name, employer_account_id, freelancer_account_id,
       created_at, updated_at
FROM profiles
WHERE user_id = $1;
`
	var p Profile
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&p.UserID, &p.Email, &p.DisplayName, &p.EmployerAccountID,
		&p.FreelancerAccountID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// SetEmployerAccountID stores the provider's employer account id. The write
// is an overwrite, so re-applying the same fact converges on the same row.
func (r *ProfileRepository) SetEmployerAccountID(ctx context.Context, userID, accountID string) error {
	return r.setAccountID(ctx, "employer_account_id", userID, accountID)
}

// SetFreelancerAccountID stores the provider's freelancer account id.
func (r *ProfileRepository) SetFreelancerAccountID(ctx context.Context, userID, accountID string) error {
	return r.setAccountID(ctx, "freelancer_account_id", userID, accountID)
}

func (r *ProfileRepository) setAccountID(ctx context.Context, column, userID, accountID string) error {
	q := fmt.Sprintf(`UPDATE profiles SET %s = $2, updated_at = now() WHERE user_id = $1;`, column)

	result, err := r.db.ExecContext(ctx, q, userID, accountID)
	if err != nil {
		return fmt.Errorf("set %s: %w", column, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
