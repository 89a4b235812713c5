package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/worklane/worklane-backend/internal/projects/domain"
)

// ProjectRepository provides persistence operations for the project
// aggregate root.
type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a project together with its lifecycle in one transaction:
// the aggregate is never persisted half-built.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project, lc *domain.Lifecycle) error {
	if p.Title == "" {
		return fmt.Errorf("title required")
	}
	if p.EmployerUserID == "" {
		return fmt.Errorf("employer user id required")
	}
	if err := lc.ValidateDates(); err != nil {
		return err
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	lc.ID = uuid.New().String()
	lc.ProjectID = p.ID
	lc.Status = domain.StatusPublished

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create project: %w", err)
	}
	defer tx.Rollback()

	const projectQ = `
INSERT INTO projects (id, title, description, budget, category_id, employer_user_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at, updated_at;
`
	err = tx.QueryRowContext(ctx, projectQ,
		p.ID, p.Title, p.Description, p.Budget, p.CategoryID, p.EmployerUserID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}

	const lifecycleQ = `
INSERT INTO lifecycles (id, project_id, applications_start_date, applications_deadline,
                        work_start_date, work_deadline, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at, updated_at;
`
	err = tx.QueryRowContext(ctx, lifecycleQ,
		lc.ID, lc.ProjectID, lc.ApplicationsStartDate, lc.ApplicationsDeadline,
		lc.WorkStartDate, lc.WorkDeadline, lc.Status).
		Scan(&lc.CreatedAt, &lc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert lifecycle: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create project: %w", err)
	}
	return nil
}

// GetByID returns one project.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	const q = `
SELECT id, title, description, budget, category_id, employer_user_id,
       freelancer_user_id, payment_intent_id, created_at, updated_at
FROM projects
WHERE id = $1;
`
	var p domain.Project
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.Title, &p.Description, &p.Budget, &p.CategoryID,
		&p.EmployerUserID, &p.FreelancerUserID, &p.PaymentIntentID,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByEmployer returns the employer's projects, newest first.
func (r *ProjectRepository) ListByEmployer(ctx context.Context, employerUserID string) ([]domain.Project, error) {
	const q = `
SELECT id, title, description, budget, category_id, employer_user_id,
       freelancer_user_id, payment_intent_id, created_at, updated_at
FROM projects
WHERE employer_user_id = $1
ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q, employerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.Budget, &p.CategoryID,
			&p.EmployerUserID, &p.FreelancerUserID, &p.PaymentIntentID,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetPaymentIntent stores the payments service's intent id on the local
// project copy. Overwriting with the same value is a no-op, so duplicate
// deliveries of the same fact are harmless.
func (r *ProjectRepository) SetPaymentIntent(ctx context.Context, projectID, paymentIntentID string) error {
	const q = `
UPDATE projects
SET payment_intent_id = $2, updated_at = now()
WHERE id = $1;
`
	result, err := r.db.ExecContext(ctx, q, projectID, paymentIntentID)
	if err != nil {
		return fmt.Errorf("set payment intent: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}
