package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklane/worklane-backend/internal/projects/domain"
)

func setupApplicationRepo(t *testing.T) (*ApplicationRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewApplicationRepository(db), mock
}

func TestApplicationRepository_Create(t *testing.T) {
	repo, mock := setupApplicationRepo(t)

	t.Run("creates pending application", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO freelancer_applications`).
			WithArgs(sqlmock.AnyArg(), "proj-1", "freelancer-1", "pending").
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

		app := &domain.FreelancerApplication{ProjectID: "proj-1", FreelancerUserID: "freelancer-1"}
		err := repo.Create(context.Background(), app)
		require.NoError(t, err)
		assert.NotEmpty(t, app.ID)
		assert.Equal(t, domain.ApplicationPending, app.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate application maps to ErrAlreadyApplied", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO freelancer_applications`).
			WillReturnError(&pq.Error{Code: "23505"})

		app := &domain.FreelancerApplication{ProjectID: "proj-1", FreelancerUserID: "freelancer-1"}
		err := repo.Create(context.Background(), app)
		assert.ErrorIs(t, err, domain.ErrAlreadyApplied)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestApplicationRepository_Accept(t *testing.T) {
	repo, mock := setupApplicationRepo(t)

	t.Run("cascade runs in one transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE freelancer_applications`).
			WithArgs("app-1", "proj-1", "accepted", "pending").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE freelancer_applications`).
			WithArgs("proj-1", "app-1", "rejected", "pending").
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(`UPDATE projects`).
			WithArgs("proj-1", "freelancer-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Accept(context.Background(), "proj-1", "app-1", "freelancer-1")
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("losing a concurrent accept rolls back with a conflict", func(t *testing.T) {
		// Another transaction already flipped the application away from
		// pending, so the guarded update touches zero rows.
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE freelancer_applications`).
			WithArgs("app-1", "proj-1", "accepted", "pending").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Accept(context.Background(), "proj-1", "app-1", "freelancer-1")
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sibling reject failure aborts the whole cascade", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE freelancer_applications`).
			WithArgs("app-1", "proj-1", "accepted", "pending").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE freelancer_applications`).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		err := repo.Accept(context.Background(), "proj-1", "app-1", "freelancer-1")
		assert.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestApplicationRepository_Reject(t *testing.T) {
	repo, mock := setupApplicationRepo(t)

	t.Run("rejects a pending application", func(t *testing.T) {
		mock.ExpectExec(`UPDATE freelancer_applications`).
			WithArgs("app-1", "proj-1", "rejected", "pending").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Reject(context.Background(), "proj-1", "app-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-pending application is a conflict", func(t *testing.T) {
		mock.ExpectExec(`UPDATE freelancer_applications`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Reject(context.Background(), "proj-1", "app-1")
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestApplicationRepository_Delete(t *testing.T) {
	repo, mock := setupApplicationRepo(t)

	t.Run("deletes a pending application", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM freelancer_applications`).
			WithArgs("app-1", "pending").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(context.Background(), "app-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("accepted application cannot be withdrawn", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM freelancer_applications`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), "app-1")
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestApplicationRepository_GetByID(t *testing.T) {
	repo, mock := setupApplicationRepo(t)

	t.Run("returns the application", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, project_id, freelancer_user_id`).
			WithArgs("app-1").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "project_id", "freelancer_user_id", "status", "created_at",
			}).AddRow("app-1", "proj-1", "freelancer-1", "pending", time.Now()))

		app, err := repo.GetByID(context.Background(), "app-1")
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationPending, app.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row maps to ErrApplicationNotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, project_id, freelancer_user_id`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrApplicationNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestApplicationRepository_HasAccepted(t *testing.T) {
	repo, mock := setupApplicationRepo(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("proj-1", "accepted").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	got, err := repo.HasAccepted(context.Background(), "proj-1")
	require.NoError(t, err)
	assert.True(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
