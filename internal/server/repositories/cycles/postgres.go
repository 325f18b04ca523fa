package cycles

import (
	"context"
	"encoding/json"
	"fmt"
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

const cycleColumns = `id, owner_id, start_date, notes, created_at`

func scanCycle(s dbx.Scanner) (*models.Cycle, error) {
	c := &models.Cycle{Days: []models.CycleDay{}}
	if err := s.Scan(&c.ID, &c.OwnerID, &c.StartDate, &c.Notes, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.StartDate = models.NormalizeDate(c.StartDate)
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Cycle) error {
	query :=
		`INSERT INTO cycles (id, owner_id, start_date, notes)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, c.ID, c.OwnerID, models.NormalizeDate(c.StartDate), c.Notes).Scan(&c.CreatedAt)
	if err != nil {
		return dbx.Classify(err)
	}
	for _, d := range c.Days {
		if err := r.UpsertDay(ctx, c.ID, d); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id string) (*models.Cycle, error) {
	c, err := scanCycle(r.db.QueryRowContext(ctx,
		`SELECT `+cycleColumns+` FROM cycles WHERE id = $1 AND owner_id = $2`, id, ownerID))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	if err := r.loadDays(ctx, []*models.Cycle{c}); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]*models.Cycle, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+cycleColumns+` FROM cycles WHERE owner_id = $1 ORDER BY start_date DESC`, ownerID)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	out := []*models.Cycle{}
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, dbx.Classify(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(err)
	}
	if err := r.loadDays(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) loadDays(ctx context.Context, cycles []*models.Cycle) error {
	if len(cycles) == 0 {
		return nil
	}
	byID := make(map[string]*models.Cycle, len(cycles))
	ids := make([]string, 0, len(cycles))
	for _, c := range cycles {
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}
	ph, args := dbx.InList(1, ids)

	rows, err := r.db.QueryContext(ctx,
		`SELECT cycle_id, date, is_period, flow, symptoms, notes FROM cycle_days
		 WHERE cycle_id IN (`+ph+`)
		 ORDER BY cycle_id, date`, args...)
	if err != nil {
		return dbx.Classify(err)
	}
	defer rows.Close()

	for rows.Next() {
		var cycleID, symptoms string
		var d models.CycleDay
		if err := rows.Scan(&cycleID, &d.Date, &d.IsPeriod, &d.Flow, &symptoms, &d.Notes); err != nil {
			return dbx.Classify(err)
		}
		if err := json.Unmarshal([]byte(symptoms), &d.Symptoms); err != nil {
			return fmt.Errorf("decode symptoms of cycle %s: %w", cycleID, err)
		}
		if d.Symptoms == nil {
			d.Symptoms = []string{}
		}
		d.Date = models.NormalizeDate(d.Date)
		if c, ok := byID[cycleID]; ok {
			c.Days = append(c.Days, d)
		}
	}
	return dbx.Classify(rows.Err())
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.Cycle) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cycles SET start_date = $3, notes = $4 WHERE id = $1 AND owner_id = $2`,
		c.ID, c.OwnerID, models.NormalizeDate(c.StartDate), c.Notes)
	if err != nil {
		return dbx.Classify(err)
	}
	return dbx.ExpectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cycles WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return dbx.Classify(err)
	}
	return dbx.ExpectOneRow(res)
}

func (r *PostgresRepository) UpsertDay(ctx context.Context, cycleID string, d models.CycleDay) error {
	symptoms := d.Symptoms
	if symptoms == nil {
		symptoms = []string{}
	}
	raw, err := json.Marshal(symptoms)
	if err != nil {
		return err
	}

	query :=
		`INSERT INTO cycle_days (cycle_id, date, is_period, flow, symptoms, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (cycle_id, date) DO UPDATE
		 SET is_period = EXCLUDED.is_period, flow = EXCLUDED.flow, symptoms = EXCLUDED.symptoms, notes = EXCLUDED.notes`

	_, err = r.db.ExecContext(ctx, query, cycleID, models.NormalizeDate(d.Date), d.IsPeriod, d.Flow, string(raw), d.Notes)
	return dbx.Classify(err)
}

func (r *PostgresRepository) DeleteDay(ctx context.Context, cycleID string, date time.Time) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cycle_days WHERE cycle_id = $1 AND date = $2`, cycleID, models.NormalizeDate(date))
	if err != nil {
		return dbx.Classify(err)
	}
	return dbx.ExpectOneRow(res)
}
