package hydration

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/dbx"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, e *models.HydrationEntry) error {
	query :=
		`INSERT INTO hydration_entries (id, owner_id, ts, amount_ml)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, e.ID, e.OwnerID, e.Timestamp, e.AmountML).Scan(&e.CreatedAt)
	return dbx.Classify(err)
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM hydration_entries WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return dbx.Classify(err)
	}
	return dbx.ExpectOneRow(res)
}

func (r *PostgresRepository) ListRange(ctx context.Context, ownerID string, from, to time.Time) ([]*models.HydrationEntry, error) {
	query :=
		`SELECT id, owner_id, ts, amount_ml, created_at FROM hydration_entries
		 WHERE owner_id = $1 AND ts >= $2 AND ts < $3
		 ORDER BY ts`

	rows, err := r.db.QueryContext(ctx, query, ownerID, from, to)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	out := []*models.HydrationEntry{}
	for rows.Next() {
		e := &models.HydrationEntry{}
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Timestamp, &e.AmountML, &e.CreatedAt); err != nil {
			return nil, dbx.Classify(err)
		}
		out = append(out, e)
	}
	return out, dbx.Classify(rows.Err())
}

func (r *PostgresRepository) DailyTotals(ctx context.Context, ownerID string, from, to time.Time) (map[time.Time]int, error) {
	query :=
		`SELECT (ts AT TIME ZONE 'UTC')::date AS day, SUM(amount_ml) FROM hydration_entries
		 WHERE owner_id = $1 AND ts >= $2 AND ts < $3
		 GROUP BY day`

	rows, err := r.db.QueryContext(ctx, query, ownerID, from, to)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	out := make(map[time.Time]int)
	for rows.Next() {
		var day time.Time
		var total int
		if err := rows.Scan(&day, &total); err != nil {
			return nil, dbx.Classify(err)
		}
		out[models.NormalizeDate(day)] = total
	}
	return out, dbx.Classify(rows.Err())
}
