package hydration

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/fooddiary/internal/common"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
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

var day = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

func TestAdd(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	e := &models.HydrationEntry{ID: "h1", OwnerID: "u1", Timestamp: day.Add(9 * time.Hour), AmountML: 250}

	mock.ExpectQuery(`INSERT\s+INTO\s+hydration_entries`).
		WithArgs("h1", "u1", day.Add(9*time.Hour), 250).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(day))

	require.NoError(t, repo.Add(context.Background(), e))
	assert.Equal(t, day, e.CreatedAt)
}

func TestListRange_HalfOpen(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`WHERE\s+owner_id\s*=\s*\$1\s+AND\s+ts\s*>=\s*\$2\s+AND\s+ts\s*<\s*\$3`).
		WithArgs("u1", day, day.AddDate(0, 0, 1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "ts", "amount_ml", "created_at"}).
			AddRow("h1", "u1", day.Add(8*time.Hour), 300, day).
			AddRow("h2", "u1", day.Add(12*time.Hour), 500, day))

	got, err := repo.ListRange(context.Background(), "u1", day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 500, got[1].AmountML)
}

func TestDailyTotals(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`SUM\(amount_ml\).*GROUP\s+BY\s+day`).
		WithArgs("u1", day, day.AddDate(0, 0, 2)).
		WillReturnRows(sqlmock.NewRows([]string{"day", "sum"}).
			AddRow(day, 1500).
			AddRow(day.AddDate(0, 0, 1), 800))

	got, err := repo.DailyTotals(context.Background(), "u1", day, day.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, map[time.Time]int{day: 1500, day.AddDate(0, 0, 1): 800}, got)
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(`DELETE\s+FROM\s+hydration_entries`).
		WithArgs("h1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "u1", "h1"), common.ErrorNotFound)
}
