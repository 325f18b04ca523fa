package measurements

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/common"
	"github.com/dmitrijs2005/fooddiary/internal/dbx"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

var tables = map[models.MeasurementKind]string{
	models.MeasurementWeight: "weight_entries",
	models.MeasurementWaist:  "waist_entries",
}

type PostgresRepository struct {
	db    dbx.DBTX
	table string
}

// NewPostgresRepository returns a repository for the given series.
func NewPostgresRepository(db dbx.DBTX, kind models.MeasurementKind) (*PostgresRepository, error) {
	table, ok := tables[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown measurement kind %q", common.ErrorValidation, kind)
	}
	return &PostgresRepository{db: db, table: table}, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, m *models.Measurement) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (id, owner_id, date, value)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (owner_id, date) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		 RETURNING id, created_at, updated_at`, r.table)

	m.Date = models.NormalizeDate(m.Date)
	err := r.db.QueryRowContext(ctx, query, m.ID, m.OwnerID, m.Date, m.Value).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	return dbx.Classify(err)
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string, from, to time.Time) ([]*models.Measurement, error) {
	query := fmt.Sprintf(
		`SELECT id, owner_id, date, value, created_at, updated_at FROM %s
		 WHERE owner_id = $1 AND date >= $2 AND date <= $3
		 ORDER BY date`, r.table)

	rows, err := r.db.QueryContext(ctx, query, ownerID, models.NormalizeDate(from), models.NormalizeDate(to))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	out := []*models.Measurement{}
	for rows.Next() {
		m := &models.Measurement{}
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.Date, &m.Value, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, dbx.Classify(err)
		}
		m.Date = models.NormalizeDate(m.Date)
		out = append(out, m)
	}
	return out, dbx.Classify(rows.Err())
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND owner_id = $2`, r.table), id, ownerID)
	if err != nil {
		return dbx.Classify(err)
	}
	return dbx.ExpectOneRow(res)
}
