package meals

import (
	"context"
	"database/sql"
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

const mealColumns = `id, owner_id, date, time_of_day, meal_type, comment, satiety_before, satiety_after,
		image_asset_id, manual_nutrition, manual_calories, manual_proteins, manual_fats, manual_carbs,
		manual_fiber, created_at, updated_at`

func scanMeal(s dbx.Scanner) (*models.Meal, error) {
	m := &models.Meal{}
	var image sql.NullString
	n := &m.Manual
	err := s.Scan(&m.ID, &m.OwnerID, &m.Date, &m.TimeOfDay, &m.Type, &m.Comment, &m.SatietyBefore, &m.SatietyAfter,
		&image, &m.ManualNutrition, &n.Calories, &n.Proteins, &n.Fats, &n.Carbs,
		&n.Fiber, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.Date = models.NormalizeDate(m.Date)
	m.ImageAssetID = dbx.StringPtr(image)
	m.Items = []models.MealItem{}
	return m, nil
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.Meal) error {
	query :=
		`INSERT INTO meals (id, owner_id, date, time_of_day, meal_type, comment, satiety_before, satiety_after,
		    image_asset_id, manual_nutrition, manual_calories, manual_proteins, manual_fats, manual_carbs, manual_fiber)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING created_at, updated_at`

	n := m.Manual
	err := r.db.QueryRowContext(ctx, query, m.ID, m.OwnerID, m.Date, m.TimeOfDay, m.Type, m.Comment,
		m.SatietyBefore, m.SatietyAfter, dbx.NullStringPtr(m.ImageAssetID), m.ManualNutrition,
		n.Calories, n.Proteins, n.Fats, n.Carbs, n.Fiber).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return dbx.Classify(err)
	}
	return r.writeItems(ctx, m)
}

func (r *PostgresRepository) writeItems(ctx context.Context, m *models.Meal) error {
	query := `INSERT INTO meal_items (meal_id, position, product_id, recipe_id, amount) VALUES ($1, $2, $3, $4, $5)`

	for i, it := range m.Items {
		_, err := r.db.ExecContext(ctx, query, m.ID, i, dbx.NullStringPtr(it.ProductID), dbx.NullStringPtr(it.RecipeID), it.Amount)
		if err != nil {
			return dbx.Classify(err)
		}
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id string) (*models.Meal, error) {
	query := `SELECT ` + mealColumns + ` FROM meals WHERE id = $1 AND owner_id = $2`

	m, err := scanMeal(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	if err := r.loadItems(ctx, []*models.Meal{m}); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *PostgresRepository) ListByRange(ctx context.Context, ownerID string, from, to time.Time) ([]*models.Meal, error) {
	query := `SELECT ` + mealColumns + ` FROM meals
		 WHERE owner_id = $1 AND date >= $2 AND date <= $3
		 ORDER BY date, time_of_day, created_at`

	rows, err := r.db.QueryContext(ctx, query, ownerID, models.NormalizeDate(from), models.NormalizeDate(to))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	var out []*models.Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, dbx.Classify(err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(err)
	}
	if err := r.loadItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, meals []*models.Meal) error {
	if len(meals) == 0 {
		return nil
	}
	byID := make(map[string]*models.Meal, len(meals))
	ids := make([]string, 0, len(meals))
	for _, m := range meals {
		byID[m.ID] = m
		ids = append(ids, m.ID)
	}
	ph, args := dbx.InList(1, ids)

	rows, err := r.db.QueryContext(ctx,
		`SELECT meal_id, product_id, recipe_id, amount FROM meal_items
		 WHERE meal_id IN (`+ph+`)
		 ORDER BY meal_id, position`, args...)
	if err != nil {
		return dbx.Classify(err)
	}
	defer rows.Close()

	for rows.Next() {
		var mealID string
		var product, recipe sql.NullString
		var it models.MealItem
		if err := rows.Scan(&mealID, &product, &recipe, &it.Amount); err != nil {
			return dbx.Classify(err)
		}
		it.ProductID = dbx.StringPtr(product)
		it.RecipeID = dbx.StringPtr(recipe)
		if m, ok := byID[mealID]; ok {
			m.Items = append(m.Items, it)
		}
	}
	return dbx.Classify(rows.Err())
}

// Update rewrites the meal row and replaces its items.
func (r *PostgresRepository) Update(ctx context.Context, m *models.Meal) error {
	query :=
		`UPDATE meals SET date = $3, time_of_day = $4, meal_type = $5, comment = $6,
		    satiety_before = $7, satiety_after = $8, image_asset_id = $9, manual_nutrition = $10,
		    manual_calories = $11, manual_proteins = $12, manual_fats = $13, manual_carbs = $14,
		    manual_fiber = $15, updated_at = now()
		 WHERE id = $1 AND owner_id = $2
		 RETURNING created_at, updated_at`

	n := m.Manual
	err := r.db.QueryRowContext(ctx, query, m.ID, m.OwnerID, m.Date, m.TimeOfDay, m.Type, m.Comment,
		m.SatietyBefore, m.SatietyAfter, dbx.NullStringPtr(m.ImageAssetID), m.ManualNutrition,
		n.Calories, n.Proteins, n.Fats, n.Carbs, n.Fiber).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return dbx.Classify(err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM meal_items WHERE meal_id = $1`, m.ID); err != nil {
		return dbx.Classify(err)
	}
	return r.writeItems(ctx, m)
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM meals WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return dbx.Classify(err)
	}
	return dbx.ExpectOneRow(res)
}
