// Package recipes persists recipes with their ordered steps and ingredients.
package recipes

import (
	"context"

	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

// Repository writes a recipe and its steps in several statements; callers
// run Create and Update inside dbx.WithTx.
type Repository interface {
	Create(ctx context.Context, r *models.Recipe) error
	Get(ctx context.Context, ownerID, id string) (*models.Recipe, error)
	GetMany(ctx context.Context, ownerID string, ids []string) ([]*models.Recipe, error)
	List(ctx context.Context, ownerID, search string, page models.Page) ([]*models.Recipe, error)
	Update(ctx context.Context, r *models.Recipe) error
	Delete(ctx context.Context, ownerID, id string) error
}
