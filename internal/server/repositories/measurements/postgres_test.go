package measurements

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

func newRepoWithMock(t *testing.T, kind models.MeasurementKind) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo, err := NewPostgresRepository(db, kind)
	require.NoError(t, err)
	return repo, mock
}

func TestNewPostgresRepository_UnknownKind(t *testing.T) {
	_, err := NewPostgresRepository(nil, "height")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestUpsert_UsesKindTable(t *testing.T) {
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for kind, table := range map[models.MeasurementKind]string{
		models.MeasurementWeight: "weight_entries",
		models.MeasurementWaist:  "waist_entries",
	} {
		t.Run(string(kind), func(t *testing.T) {
			repo, mock := newRepoWithMock(t, kind)
			m := &models.Measurement{ID: "new", OwnerID: "u1", Date: time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC), Value: 72.5}

			mock.ExpectQuery(`INSERT\s+INTO\s+`+table+`.*ON\s+CONFLICT\s+\(owner_id,\s*date\)\s+DO\s+UPDATE`).
				WithArgs("new", "u1", ts, 72.5).
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("existing", ts, ts))

			require.NoError(t, repo.Upsert(context.Background(), m))
			assert.Equal(t, "existing", m.ID)
			assert.Equal(t, ts, m.Date)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestList(t *testing.T) {
	repo, mock := newRepoWithMock(t, models.MeasurementWeight)
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM\s+weight_entries\s+WHERE\s+owner_id\s*=\s*\$1\s+AND\s+date\s*>=\s*\$2\s+AND\s+date\s*<=\s*\$3`).
		WithArgs("u1", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "date", "value", "created_at", "updated_at"}).
			AddRow("m1", "u1", from, 73.0, from, from).
			AddRow("m2", "u1", to, 71.2, to, to))

	got, err := repo.List(context.Background(), "u1", from, to)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 71.2, got[1].Value)
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t, models.MeasurementWaist)
	mock.ExpectExec(`DELETE\s+FROM\s+waist_entries`).
		WithArgs("m1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "u1", "m1"), common.ErrorNotFound)
}
