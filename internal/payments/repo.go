package payments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// IntentRepository provides persistence operations for the payments
// service's intent records.
type IntentRepository struct {
	db *sql.DB
}

func NewIntentRepository(db *sql.DB) *IntentRepository {
	return &IntentRepository{db: db}
}

// Create inserts a new intent record. The id is the provider's intent id.
func (r *IntentRepository) Create(ctx context.Context, intent *PaymentIntent) error {
	intent.Status = IntentStatusCreated

	const q = `
INSERT INTO payment_intents (id, project_id, amount, status)
VALUES ($1, $2, $3, $4)
RETURNING created_at, updated_at;
`
	err := r.db.QueryRowContext(ctx, q,
		intent.ID, intent.ProjectID, intent.Amount, intent.Status).
		Scan(&intent.CreatedAt, &intent.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert payment intent: %w", err)
	}
	return nil
}

// GetByID returns one intent record.
func (r *IntentRepository) GetByID(ctx context.Context, id string) (*PaymentIntent, error) {
	const q = `
SELECT id, project_id, amount, status, created_at, updated_at
FROM payment_intents
WHERE id = $1;
`
	var intent PaymentIntent
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&intent.ID, &intent.ProjectID, &intent.Amount, &intent.Status,
		&intent.CreatedAt, &intent.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIntentNotFound
		}
		return nil, err
	}
	return &intent, nil
}

// MarkCancelled records a cancelled intent. Already-cancelled rows are left
// as they are, which keeps the cancellation handler idempotent.
func (r *IntentRepository) MarkCancelled(ctx context.Context, id string) error {
	const q = `
UPDATE payment_intents
SET status = $2, updated_at = now()
WHERE id = $1;
`
	result, err := r.db.ExecContext(ctx, q, id, IntentStatusCancelled)
	if err != nil {
		return fmt.Errorf("mark intent cancelled: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrIntentNotFound
	}
	return nil
}
