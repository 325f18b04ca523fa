package recipes

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

const recipeColumns = `id, owner_id, name, description, servings, total_weight, manual_nutrition,
		manual_calories, manual_proteins, manual_fats, manual_carbs, manual_fiber,
		image_asset_id, created_at, updated_at`

func scanRecipe(s dbx.Scanner) (*models.Recipe, error) {
	r := &models.Recipe{}
	var image sql.NullString
	m := &r.Manual
	err := s.Scan(&r.ID, &r.OwnerID, &r.Name, &r.Description, &r.Servings, &r.TotalWeight, &r.ManualNutrition,
		&m.Calories, &m.Proteins, &m.Fats, &m.Carbs, &m.Fiber,
		&image, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.ImageAssetID = dbx.StringPtr(image)
	r.Steps = []models.RecipeStep{}
	return r, nil
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.Recipe) error {
	query :=
		`INSERT INTO recipes (id, owner_id, name, description, servings, total_weight, manual_nutrition,
		    manual_calories, manual_proteins, manual_fats, manual_carbs, manual_fiber, image_asset_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING created_at, updated_at`

	m := rec.Manual
	err := r.db.QueryRowContext(ctx, query, rec.ID, rec.OwnerID, rec.Name, rec.Description, rec.Servings,
		rec.TotalWeight, rec.ManualNutrition, m.Calories, m.Proteins, m.Fats, m.Carbs, m.Fiber,
		dbx.NullStringPtr(rec.ImageAssetID)).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return dbx.Classify(err)
	}
	return r.writeSteps(ctx, rec)
}

func (r *PostgresRepository) writeSteps(ctx context.Context, rec *models.Recipe) error {
	stepQuery := `INSERT INTO recipe_steps (recipe_id, position, description) VALUES ($1, $2, $3)`
	ingQuery := `INSERT INTO recipe_ingredients (recipe_id, step_position, position, product_id, amount)
		 VALUES ($1, $2, $3, $4, $5)`

	for i, step := range rec.Steps {
		if _, err := r.db.ExecContext(ctx, stepQuery, rec.ID, i, step.Description); err != nil {
			return dbx.Classify(err)
		}
		for j, ing := range step.Ingredients {
			if _, err := r.db.ExecContext(ctx, ingQuery, rec.ID, i, j, ing.ProductID, ing.Amount); err != nil {
				return dbx.Classify(err)
			}
		}
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id string) (*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = $1 AND owner_id = $2`

	rec, err := scanRecipe(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	if err := r.loadSteps(ctx, []*models.Recipe{rec}); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *PostgresRepository) GetMany(ctx context.Context, ownerID string, ids []string) ([]*models.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ph, args := dbx.InList(2, ids)
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE owner_id = $1 AND id IN (` + ph + `)`

	return r.queryWithSteps(ctx, query, append([]any{ownerID}, args...)...)
}

func (r *PostgresRepository) List(ctx context.Context, ownerID, search string, page models.Page) ([]*models.Recipe, error) {
	page = page.Normalize()
	query := `SELECT ` + recipeColumns + ` FROM recipes
		 WHERE owner_id = $1 AND name ILIKE $2
		 ORDER BY name, id
		 LIMIT $3 OFFSET $4`

	return r.queryWithSteps(ctx, query, ownerID, dbx.LikePattern(search), page.Limit, page.Offset)
}

func (r *PostgresRepository) queryWithSteps(ctx context.Context, query string, args ...any) ([]*models.Recipe, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	var out []*models.Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, dbx.Classify(err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(err)
	}
	if err := r.loadSteps(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// loadSteps fills Steps of every recipe with two queries: steps, then ingredients.
func (r *PostgresRepository) loadSteps(ctx context.Context, recs []*models.Recipe) error {
	if len(recs) == 0 {
		return nil
	}
	byID := make(map[string]*models.Recipe, len(recs))
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		byID[rec.ID] = rec
		ids = append(ids, rec.ID)
	}
	ph, args := dbx.InList(1, ids)

	rows, err := r.db.QueryContext(ctx,
		`SELECT recipe_id, description FROM recipe_steps
		 WHERE recipe_id IN (`+ph+`)
		 ORDER BY recipe_id, position`, args...)
	if err != nil {
		return dbx.Classify(err)
	}
	for rows.Next() {
		var recipeID string
		step := models.RecipeStep{Ingredients: []models.RecipeIngredient{}}
		if err := rows.Scan(&recipeID, &step.Description); err != nil {
			rows.Close()
			return dbx.Classify(err)
		}
		if rec, ok := byID[recipeID]; ok {
			rec.Steps = append(rec.Steps, step)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return dbx.Classify(err)
	}

	rows, err = r.db.QueryContext(ctx,
		`SELECT recipe_id, step_position, product_id, amount FROM recipe_ingredients
		 WHERE recipe_id IN (`+ph+`)
		 ORDER BY recipe_id, step_position, position`, args...)
	if err != nil {
		return dbx.Classify(err)
	}
	defer rows.Close()
	for rows.Next() {
		var recipeID string
		var stepPos int
		var ing models.RecipeIngredient
		if err := rows.Scan(&recipeID, &stepPos, &ing.ProductID, &ing.Amount); err != nil {
			return dbx.Classify(err)
		}
		rec, ok := byID[recipeID]
		if !ok || stepPos < 0 || stepPos >= len(rec.Steps) {
			continue
		}
		rec.Steps[stepPos].Ingredients = append(rec.Steps[stepPos].Ingredients, ing)
	}
	return dbx.Classify(rows.Err())
}

// Update rewrites the recipe row and replaces all steps.
func (r *PostgresRepository) Update(ctx context.Context, rec *models.Recipe) error {
	query :=
		`UPDATE recipes SET name = $3, description = $4, servings = $5, total_weight = $6,
		    manual_nutrition = $7, manual_calories = $8, manual_proteins = $9, manual_fats = $10,
		    manual_carbs = $11, manual_fiber = $12, image_asset_id = $13, updated_at = now()
		 WHERE id = $1 AND owner_id = $2
		 RETURNING created_at, updated_at`

	m := rec.Manual
	err := r.db.QueryRowContext(ctx, query, rec.ID, rec.OwnerID, rec.Name, rec.Description, rec.Servings,
		rec.TotalWeight, rec.ManualNutrition, m.Calories, m.Proteins, m.Fats, m.Carbs, m.Fiber,
		dbx.NullStringPtr(rec.ImageAssetID)).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return dbx.Classify(err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM recipe_steps WHERE recipe_id = $1`, rec.ID); err != nil {
		return dbx.Classify(err)
	}
	return r.writeSteps(ctx, rec)
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return dbx.Classify(err)
	}
	return dbx.ExpectOneRow(res)
}
