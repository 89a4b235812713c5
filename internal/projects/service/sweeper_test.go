package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklane/worklane-backend/internal/projects/domain"
	"github.com/worklane/worklane-backend/internal/projects/repository"
)

var lifecycleColumns = []string{
	"id", "project_id", "applications_start_date", "applications_deadline",
	"work_start_date", "work_deadline", "status", "acceptance_requested",
	"acceptance_confirmed", "created_at", "updated_at",
}

var sweepBase = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

func sweepLifecycle(id, projectID string, status domain.LifecycleStatus) domain.Lifecycle {
	return domain.Lifecycle{
		ID:                    id,
		ProjectID:             projectID,
		ApplicationsStartDate: sweepBase,
		ApplicationsDeadline:  sweepBase.Add(7 * 24 * time.Hour),
		WorkStartDate:         sweepBase.Add(14 * 24 * time.Hour),
		WorkDeadline:          sweepBase.Add(44 * 24 * time.Hour),
		Status:                status,
		CreatedAt:             sweepBase,
		UpdatedAt:             sweepBase,
	}
}

func lifecycleRow(rows *sqlmock.Rows, lc domain.Lifecycle) *sqlmock.Rows {
	return rows.AddRow(
		lc.ID, lc.ProjectID, lc.ApplicationsStartDate, lc.ApplicationsDeadline,
		lc.WorkStartDate, lc.WorkDeadline, lc.Status, lc.AcceptanceRequested,
		lc.AcceptanceConfirmed, lc.CreatedAt, lc.UpdatedAt)
}

func setupSweeper(t *testing.T, now time.Time) (*Sweeper, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sweeper := NewSweeper(
		repository.NewLifecycleRepository(db),
		repository.NewApplicationRepository(db),
	).WithClock(func() time.Time { return now })
	return sweeper, mock
}

func expectListActive(mock sqlmock.Sqlmock, lcs ...domain.Lifecycle) {
	rows := sqlmock.NewRows(lifecycleColumns)
	for _, lc := range lcs {
		lifecycleRow(rows, lc)
	}
	mock.ExpectQuery(`SELECT`).
		WithArgs("completed", "expired", "cancelled").
		WillReturnRows(rows)
}

func expectHasAccepted(mock sqlmock.Sqlmock, projectID string, accepted bool) {
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(projectID, "accepted").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(accepted))
}

func TestSweeper_DeadlinePassedWithWinner(t *testing.T) {
	lc := sweepLifecycle("lc-1", "proj-1", domain.StatusAcceptingApplications)
	now := lc.ApplicationsDeadline.Add(time.Hour)

	t.Run("first sweep flips to waiting exactly once", func(t *testing.T) {
		sweeper, mock := setupSweeper(t, now)

		expectListActive(mock, lc)
		expectHasAccepted(mock, "proj-1", true)
		mock.ExpectExec(`UPDATE lifecycles`).
			WithArgs("lc-1", "waiting_for_work_start", false, false).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.Equal(t, 1, sweeper.Tick(context.Background()))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second sweep is a no-op", func(t *testing.T) {
		sweeper, mock := setupSweeper(t, now)

		moved := lc
		moved.Status = domain.StatusWaitingForWorkStart
		expectListActive(mock, moved)
		expectHasAccepted(mock, "proj-1", true)
		// No update expected: nothing is due before the work start date.

		assert.Equal(t, 0, sweeper.Tick(context.Background()))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSweeper_DeadlinePassedWithoutWinner(t *testing.T) {
	lc := sweepLifecycle("lc-1", "proj-1", domain.StatusAcceptingApplications)
	sweeper, mock := setupSweeper(t, lc.ApplicationsDeadline.Add(time.Hour))

	expectListActive(mock, lc)
	expectHasAccepted(mock, "proj-1", false)
	mock.ExpectExec(`UPDATE lifecycles`).
		WithArgs("lc-1", "expired", false, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.Equal(t, 1, sweeper.Tick(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSweeper_OneRowFailureDoesNotAbortTheBatch(t *testing.T) {
	first := sweepLifecycle("lc-1", "proj-1", domain.StatusAcceptingApplications)
	second := sweepLifecycle("lc-2", "proj-2", domain.StatusAcceptingApplications)
	sweeper, mock := setupSweeper(t, first.ApplicationsDeadline.Add(time.Hour))

	expectListActive(mock, first, second)
	expectHasAccepted(mock, "proj-1", true)
	mock.ExpectExec(`UPDATE lifecycles`).
		WithArgs("lc-1", "waiting_for_work_start", false, false).
		WillReturnError(errors.New("connection reset"))
	expectHasAccepted(mock, "proj-2", false)
	mock.ExpectExec(`UPDATE lifecycles`).
		WithArgs("lc-2", "expired", false, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.Equal(t, 1, sweeper.Tick(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSweeper_CarriesALateLifecycleAcrossSeveralThresholds(t *testing.T) {
	// Published project whose whole applications window already elapsed:
	// one tick walks it through accepting and waiting into in progress,
	// persisting only the final state.
	lc := sweepLifecycle("lc-1", "proj-1", domain.StatusPublished)
	sweeper, mock := setupSweeper(t, lc.WorkStartDate.Add(time.Hour))

	expectListActive(mock, lc)
	expectHasAccepted(mock, "proj-1", true)
	mock.ExpectExec(`UPDATE lifecycles`).
		WithArgs("lc-1", "in_progress", false, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.Equal(t, 1, sweeper.Tick(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSweeper_AcceptanceRequestMovesWorkToReview(t *testing.T) {
	lc := sweepLifecycle("lc-1", "proj-1", domain.StatusInProgress)
	lc.AcceptanceRequested = true
	sweeper, mock := setupSweeper(t, lc.WorkStartDate.Add(24*time.Hour))

	expectListActive(mock, lc)
	expectHasAccepted(mock, "proj-1", true)
	mock.ExpectExec(`UPDATE lifecycles`).
		WithArgs("lc-1", "pending_for_review", true, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.Equal(t, 1, sweeper.Tick(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
