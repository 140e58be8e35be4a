// internal/assessment/repository_test.go
package assessment

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"eb2niw-assessor/internal/common/database"
	"eb2niw-assessor/internal/eligibility"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(database.NewPostgresFromDB(db)), mock
}

// insertArgs pads the leading insert values with wildcards for the JSON columns.
func insertArgs(leading ...driver.Value) []driver.Value {
	args := append(make([]driver.Value, 0, 17), leading...)
	for len(args) < 17 {
		args = append(args, sqlmock.AnyArg())
	}
	return args
}

func TestPostgresRepository_SaveLatest(t *testing.T) {
	repo, mock := newMockRepository(t)
	rec := newTestRecord(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockUserSQL)).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(clearLatestSQL)).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO quick_assessments`).
		WithArgs(insertArgs(
			rec.ID,
			"user-1",
			rec.Result.OverallScore,
			string(rec.Result.ViabilityLevel),
			string(rec.Result.Routes.RecommendedRoute),
		)...).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SaveLatest(context.Background(), rec)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_SaveLatest_RollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)
	rec := newTestRecord(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockUserSQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(clearLatestSQL)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO quick_assessments`).WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err := repo.SaveLatest(context.Background(), rec)

	assert.ErrorContains(t, err, "insert assessment")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_SaveLatest_LockFailureRollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)
	rec := newTestRecord(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockUserSQL)).
		WithArgs("user-1").
		WillReturnError(errors.New("canceling statement due to lock timeout"))
	mock.ExpectRollback()

	err := repo.SaveLatest(context.Background(), rec)

	assert.ErrorContains(t, err, "lock user assessments")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_SaveLatest_RequiresUser(t *testing.T) {
	repo, mock := newMockRepository(t)
	rec := newTestRecord(t)
	rec.UserID = ""

	assert.Error(t, repo.SaveLatest(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_History(t *testing.T) {
	repo, mock := newMockRepository(t)
	newer := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-48 * time.Hour)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "overall_score", "viability_level", "recommended_route", "is_latest", "created_at",
	}).
		AddRow("a2", "user-1", 78.25, "STRONG", "NIW", true, newer).
		AddRow("a1", "user-1", 61.4, "PROMISING", "ADVANCED_DEGREE", false, older)

	mock.ExpectQuery(`SELECT id, user_id, overall_score`).
		WithArgs("user-1", 10).
		WillReturnRows(rows)

	entries, err := repo.History(context.Background(), "user-1", 10)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a2", entries[0].ID)
	assert.True(t, entries[0].IsLatest)
	assert.Equal(t, eligibility.ViabilityStrong, entries[0].ViabilityLevel)
	assert.Equal(t, eligibility.RouteNIW, entries[0].RecommendedRoute)
	assert.Equal(t, 61.4, entries[1].OverallScore)
	assert.False(t, entries[1].IsLatest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_History_Empty(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT id, user_id, overall_score`).
		WithArgs("nobody", 5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	entries, err := repo.History(context.Background(), "nobody", 5)

	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestPostgresRepository_EnsureSchema(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS quick_assessments`).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
