package products

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fooddiary/internal/dbx"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const productColumns = `id, owner_id, name, brand, barcode, base_unit, base_amount,
		calories, proteins, fats, carbs, fiber, image_asset_id, created_at, updated_at`

func scanProduct(s dbx.Scanner) (*models.Product, error) {
	p := &models.Product{}
	var image sql.NullString
	n := &p.Nutrition
	err := s.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Brand, &p.Barcode, &p.BaseUnit, &p.BaseAmount,
		&n.Calories, &n.Proteins, &n.Fats, &n.Carbs, &n.Fiber, &image, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.ImageAssetID = dbx.StringPtr(image)
	return p, nil
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	var out []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, dbx.Classify(err)
		}
		out = append(out, p)
	}
	return out, dbx.Classify(rows.Err())
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Product) error {
	query :=
		`INSERT INTO products (id, owner_id, name, brand, barcode, base_unit, base_amount,
		    calories, proteins, fats, carbs, fiber, image_asset_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING created_at, updated_at`

	n := p.Nutrition
	err := r.db.QueryRowContext(ctx, query, p.ID, p.OwnerID, p.Name, p.Brand, p.Barcode, p.BaseUnit, p.BaseAmount,
		n.Calories, n.Proteins, n.Fats, n.Carbs, n.Fiber, dbx.NullStringPtr(p.ImageAssetID)).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	return dbx.Classify(err)
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND owner_id = $2`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return p, nil
}

func (r *PostgresRepository) GetMany(ctx context.Context, ownerID string, ids []string) ([]*models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ph, args := dbx.InList(2, ids)
	query := `SELECT ` + productColumns + ` FROM products WHERE owner_id = $1 AND id IN (` + ph + `)`

	return r.query(ctx, query, append([]any{ownerID}, args...)...)
}

// List searches name, brand and barcode, alphabetically.
func (r *PostgresRepository) List(ctx context.Context, ownerID, search string, page models.Page) ([]*models.Product, error) {
	page = page.Normalize()
	query := `SELECT ` + productColumns + ` FROM products
		 WHERE owner_id = $1 AND (name ILIKE $2 OR brand ILIKE $2 OR barcode ILIKE $2)
		 ORDER BY name, id
		 LIMIT $3 OFFSET $4`

	return r.query(ctx, query, ownerID, dbx.LikePattern(search), page.Limit, page.Offset)
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Product) error {
	query :=
		`UPDATE products SET name = $3, brand = $4, barcode = $5, base_unit = $6, base_amount = $7,
		    calories = $8, proteins = $9, fats = $10, carbs = $11, fiber = $12, image_asset_id = $13,
		    updated_at = now()
		 WHERE id = $1 AND owner_id = $2
		 RETURNING created_at, updated_at`

	n := p.Nutrition
	err := r.db.QueryRowContext(ctx, query, p.ID, p.OwnerID, p.Name, p.Brand, p.Barcode, p.BaseUnit, p.BaseAmount,
		n.Calories, n.Proteins, n.Fats, n.Carbs, n.Fiber, dbx.NullStringPtr(p.ImageAssetID)).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	return dbx.Classify(err)
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return dbx.Classify(err)
	}
	return dbx.ExpectOneRow(res)
}
