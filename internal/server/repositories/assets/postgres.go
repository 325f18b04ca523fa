package assets

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

const assetColumns = `id, owner_id, object_key, content_type, size, status, created_at`

func scanAsset(s dbx.Scanner) (*models.Asset, error) {
	a := &models.Asset{}
	if err := s.Scan(&a.ID, &a.OwnerID, &a.ObjectKey, &a.ContentType, &a.Size, &a.Status, &a.CreatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Asset) error {
	query :=
		`INSERT INTO assets (id, owner_id, object_key, content_type, size, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, a.ID, a.OwnerID, a.ObjectKey, a.ContentType, a.Size, a.Status).
		Scan(&a.CreatedAt)
	return dbx.Classify(err)
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id string) (*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1 AND owner_id = $2`

	a, err := scanAsset(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return a, nil
}

func (r *PostgresRepository) MarkUploaded(ctx context.Context, ownerID, id string) error {
	query := `UPDATE assets SET status = $3 WHERE id = $1 AND owner_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID, models.AssetUploaded)
	if err != nil {
		return dbx.Classify(err)
	}
	return dbx.ExpectOneRow(res)
}

func (r *PostgresRepository) IsReferenced(ctx context.Context, id string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM products WHERE image_asset_id = $1)
		     OR EXISTS (SELECT 1 FROM recipes WHERE image_asset_id = $1)
		     OR EXISTS (SELECT 1 FROM meals WHERE image_asset_id = $1)`

	var used bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&used); err != nil {
		return false, dbx.Classify(err)
	}
	return used, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return dbx.Classify(err)
	}
	return dbx.ExpectOneRow(res)
}

// ListStalePending returns unreferenced pending assets created before the
// given time, oldest first.
func (r *PostgresRepository) ListStalePending(ctx context.Context, before time.Time, limit int) ([]*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets
		 WHERE status = $1 AND created_at < $2
		   AND NOT EXISTS (SELECT 1 FROM products p WHERE p.image_asset_id = assets.id)
		   AND NOT EXISTS (SELECT 1 FROM recipes r WHERE r.image_asset_id = assets.id)
		   AND NOT EXISTS (SELECT 1 FROM meals m WHERE m.image_asset_id = assets.id)
		 ORDER BY created_at
		 LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, models.AssetPending, before, limit)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	var out []*models.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, dbx.Classify(err)
		}
		out = append(out, a)
	}
	return out, dbx.Classify(rows.Err())
}
