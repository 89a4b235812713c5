package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/worklane/worklane-backend/internal/projects/domain"
)

// ApplicationRepository provides persistence operations for freelancer
// applications.
type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts a new pending application. A duplicate application from
// the same freelancer surfaces as ErrAlreadyApplied via the unique
// constraint on (project_id, freelancer_user_id).
func (r *ApplicationRepository) Create(ctx context.Context, app *domain.FreelancerApplication) error {
	if app.ID == "" {
		app.ID = uuid.New().String()
	}
	app.Status = domain.ApplicationPending

	const q = `
INSERT INTO freelancer_applications (id, project_id, freelancer_user_id, status)
VALUES ($1, $2, $3, $4)
RETURNING created_at;
`
	err := r.db.QueryRowContext(ctx, q,
		app.ID, app.ProjectID, app.FreelancerUserID, app.Status).
		Scan(&app.CreatedAt)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyApplied
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

// GetByID returns one application.
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*domain.FreelancerApplication, error) {
	const q = `
SELECT id, project_id, freelancer_user_id, status, created_at
FROM freelancer_applications
WHERE id = $1;
`
	var app domain.FreelancerApplication
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&app.ID, &app.ProjectID, &app.FreelancerUserID, &app.Status, &app.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

// ListByProject returns the project's applications, oldest first.
func (r *ApplicationRepository) ListByProject(ctx context.Context, projectID string) ([]domain.FreelancerApplication, error) {
	const q = `
SELECT id, project_id, freelancer_user_id, status, created_at
FROM freelancer_applications
WHERE project_id = $1
ORDER BY created_at;
`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.FreelancerApplication, 0, 16)
	for rows.Next() {
		var app domain.FreelancerApplication
		if err := rows.Scan(
			&app.ID, &app.ProjectID, &app.FreelancerUserID, &app.Status, &app.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// HasAccepted reports whether the project already has an accepted
// application.
func (r *ApplicationRepository) HasAccepted(ctx context.Context, projectID string) (bool, error) {
	const q = `
SELECT EXISTS (
  SELECT 1 FROM freelancer_applications
  WHERE project_id = $1 AND status = $2
);
`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, projectID, domain.ApplicationAccepted).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Accept marks the target application accepted, rejects every sibling that
// is still pending and records the winning freelancer on the project, all
// in one transaction. The status = 'pending' guard on the target makes
// concurrent accepts race safely: exactly one caller updates a row, every
// other caller sees zero rows affected and gets ErrInvalidState.
func (r *ApplicationRepository) Accept(ctx context.Context, projectID, applicationID, freelancerUserID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin accept: %w", err)
	}
	defer tx.Rollback()

	const acceptQ = `
UPDATE freelancer_applications
SET status = $3
WHERE id = $1 AND project_id = $2 AND status = $4;
`
	result, err := tx.ExecContext(ctx, acceptQ,
		applicationID, projectID, domain.ApplicationAccepted, domain.ApplicationPending)
	if err != nil {
		return fmt.Errorf("accept application: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrInvalidState
	}

	const rejectSiblingsQ = `
UPDATE freelancer_applications
SET status = $3
WHERE project_id = $1 AND id <> $2 AND status = $4;
`
	if _, err := tx.ExecContext(ctx, rejectSiblingsQ,
		projectID, applicationID, domain.ApplicationRejected, domain.ApplicationPending); err != nil {
		return fmt.Errorf("reject siblings: %w", err)
	}

	const setFreelancerQ = `
UPDATE projects
SET freelancer_user_id = $2, updated_at = now()
WHERE id = $1;
`
	if _, err := tx.ExecContext(ctx, setFreelancerQ, projectID, freelancerUserID); err != nil {
		return fmt.Errorf("set project freelancer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit accept: %w", err)
	}
	return nil
}

// Reject is the single-row pending -> rejected transition, no cascade.
func (r *ApplicationRepository) Reject(ctx context.Context, projectID, applicationID string) error {
	const q = `
UPDATE freelancer_applications
SET status = $3
WHERE id = $1 AND project_id = $2 AND status = $4;
`
	result, err := r.db.ExecContext(ctx, q,
		applicationID, projectID, domain.ApplicationRejected, domain.ApplicationPending)
	if err != nil {
		return fmt.Errorf("reject application: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

// Delete hard-deletes a pending application (freelancer withdrawal).
func (r *ApplicationRepository) Delete(ctx context.Context, applicationID string) error {
	const q = `
DELETE FROM freelancer_applications
WHERE id = $1 AND status = $2;
`
	result, err := r.db.ExecContext(ctx, q, applicationID, domain.ApplicationPending)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrInvalidState
	}
	return nil
}
