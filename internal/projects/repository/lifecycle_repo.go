package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/worklane/worklane-backend/internal/projects/domain"
)

// LifecycleRepository provides persistence operations for lifecycles.
type LifecycleRepository struct {
	db *sql.DB
}

func NewLifecycleRepository(db *sql.DB) *LifecycleRepository {
	return &LifecycleRepository{db: db}
}

const lifecycleColumns = `
id, project_id, applications_start_date, applications_deadline,
work_start_date, work_deadline, status, acceptance_requested,
acceptance_confirmed, created_at, updated_at`

func scanLifecycle(row interface{ Scan(...any) error }) (*domain.Lifecycle, error) {
	var lc domain.Lifecycle
	err := row.Scan(
		&lc.ID, &lc.ProjectID, &lc.ApplicationsStartDate, &lc.ApplicationsDeadline,
		&lc.WorkStartDate, &lc.WorkDeadline, &lc.Status, &lc.AcceptanceRequested,
		&lc.AcceptanceConfirmed, &lc.CreatedAt, &lc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &lc, nil
}

// GetByProjectID returns the project's lifecycle.
func (r *LifecycleRepository) GetByProjectID(ctx context.Context, projectID string) (*domain.Lifecycle, error) {
	q := `SELECT ` + lifecycleColumns + ` FROM lifecycles WHERE project_id = $1;`

	lc, err := scanLifecycle(r.db.QueryRowContext(ctx, q, projectID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLifecycleNotFound
		}
		return nil, err
	}
	return lc, nil
}

// ListActive returns every non-terminal lifecycle. The sweeper evaluates
// exactly this set each tick.
func (r *LifecycleRepository) ListActive(ctx context.Context) ([]domain.Lifecycle, error) {
	q := `SELECT ` + lifecycleColumns + `
FROM lifecycles
WHERE status NOT IN ($1, $2, $3)
ORDER BY created_at;`

	rows, err := r.db.QueryContext(ctx, q,
		domain.StatusCompleted, domain.StatusExpired, domain.StatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Lifecycle, 0, 64)
	for rows.Next() {
		lc, err := scanLifecycle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *lc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists the lifecycle's status and acceptance flags. Re-applying
// the same values is a harmless no-op, which is what makes an occasional
// overlapping sweep safe.
func (r *LifecycleRepository) Update(ctx context.Context, lc *domain.Lifecycle) error {
	const q = `
UPDATE lifecycles
SET status = $2, acceptance_requested = $3, acceptance_confirmed = $4, updated_at = now()
WHERE id = $1;
`
	result, err := r.db.ExecContext(ctx, q,
		lc.ID, lc.Status, lc.AcceptanceRequested, lc.AcceptanceConfirmed)
	if err != nil {
		return fmt.Errorf("update lifecycle %s: %w", lc.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrLifecycleNotFound
	}
	return nil
}
