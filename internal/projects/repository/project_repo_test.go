package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklane/worklane-backend/internal/projects/domain"
)

func setupProjectRepo(t *testing.T) (*ProjectRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewProjectRepository(db), mock
}

func validLifecycle() *domain.Lifecycle {
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Lifecycle{
		ApplicationsStartDate: start,
		ApplicationsDeadline:  start.Add(7 * 24 * time.Hour),
		WorkStartDate:         start.Add(14 * 24 * time.Hour),
		WorkDeadline:          start.Add(44 * 24 * time.Hour),
	}
}

func TestProjectRepository_Create(t *testing.T) {
	repo, mock := setupProjectRepo(t)

	t.Run("inserts project and lifecycle in one transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO projects`).
			WithArgs(sqlmock.AnyArg(), "Logo design", "A logo", 500.0, nil, "employer-1").
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(time.Now(), time.Now()))
		mock.ExpectQuery(`INSERT INTO lifecycles`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(time.Now(), time.Now()))
		mock.ExpectCommit()

		p := &domain.Project{
			Title:          "Logo design",
			Description:    "A logo",
			Budget:         500.0,
			EmployerUserID: "employer-1",
		}
		lc := validLifecycle()

		err := repo.Create(context.Background(), p, lc)
		require.NoError(t, err)
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, p.ID, lc.ProjectID)
		assert.Equal(t, domain.StatusPublished, lc.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects an invalid date ordering before touching the store", func(t *testing.T) {
		p := &domain.Project{Title: "Logo design", EmployerUserID: "employer-1"}
		lc := validLifecycle()
		lc.WorkDeadline = lc.WorkStartDate

		err := repo.Create(context.Background(), p, lc)
		assert.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepository_SetPaymentIntent(t *testing.T) {
	repo, mock := setupProjectRepo(t)

	t.Run("stores the intent id", func(t *testing.T) {
		mock.ExpectExec(`UPDATE projects`).
			WithArgs("proj-1", "pi_123").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SetPaymentIntent(context.Background(), "proj-1", "pi_123"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("re-applying the same fact is the same write", func(t *testing.T) {
		mock.ExpectExec(`UPDATE projects`).
			WithArgs("proj-1", "pi_123").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SetPaymentIntent(context.Background(), "proj-1", "pi_123"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown project maps to ErrProjectNotFound", func(t *testing.T) {
		mock.ExpectExec(`UPDATE projects`).
			WithArgs("ghost", "pi_123").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetPaymentIntent(context.Background(), "ghost", "pi_123")
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepository_GetByID(t *testing.T) {
	repo, mock := setupProjectRepo(t)

	t.Run("missing row maps to ErrProjectNotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, title, description`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
