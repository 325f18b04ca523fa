package aiusage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/fooddiary/internal/common"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

var ts = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

func TestLog(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	u := &models.AiUsage{ID: "a1", UserID: "u1", Operation: models.AiFoodRecognition, Model: "gpt-4o-mini",
		InputTokens: 900, OutputTokens: 100, TotalTokens: 1000}

	mock.ExpectQuery(`INSERT\s+INTO\s+ai_usage`).
		WithArgs("a1", "u1", "food_recognition", "gpt-4o-mini", 900, 100, 1000).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(ts))

	require.NoError(t, repo.Log(context.Background(), u))
	assert.Equal(t, ts, u.CreatedAt)
}

func TestLog_UnknownUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`INSERT\s+INTO\s+ai_usage`).WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Log(context.Background(), &models.AiUsage{ID: "a1", UserID: "gone"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestTokensSince(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`COALESCE\(SUM\(total_tokens\),\s*0\)`).
		WithArgs("u1", ts).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(4200))

	got, err := repo.TokensSince(context.Background(), "u1", ts)
	require.NoError(t, err)
	assert.Equal(t, 4200, got)
}

func TestSummary(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM\s+ai_usage\s+a\s+JOIN\s+users\s+u`).
		WithArgs(ts, ts.AddDate(0, 1, 0)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "count", "in", "out", "total"}).
			AddRow("u1", "a@example.com", 3, 3000, 300, 3300).
			AddRow("u2", "b@example.com", 1, 500, 50, 550))

	got, err := repo.Summary(context.Background(), ts, ts.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, []models.AiUsageSummary{
		{UserID: "u1", Email: "a@example.com", Requests: 3, InputTokens: 3000, OutputTokens: 300, TotalTokens: 3300},
		{UserID: "u2", Email: "b@example.com", Requests: 1, InputTokens: 500, OutputTokens: 50, TotalTokens: 550},
	}, got)
}

func TestGetQuota_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM\s+ai_quotas`).WithArgs("u1").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetQuota(context.Background(), "u1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSetQuota(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`INSERT\s+INTO\s+ai_quotas.*ON\s+CONFLICT\s+\(user_id\)`).
		WithArgs("u1", 50000).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(ts))

	q := &models.AiQuota{UserID: "u1", MonthlyTokenLimit: 50000}
	require.NoError(t, repo.SetQuota(context.Background(), q))
	assert.Equal(t, ts, q.UpdatedAt)
}
