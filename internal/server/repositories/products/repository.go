// Package products persists the user's food catalog.
package products

import (
	"context"

	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Product) error
	Get(ctx context.Context, ownerID, id string) (*models.Product, error)
	// GetMany returns the owner's products among ids; unknown ids are skipped.
	GetMany(ctx context.Context, ownerID string, ids []string) ([]*models.Product, error)
	List(ctx context.Context, ownerID, search string, page models.Page) ([]*models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	// Delete returns common.ErrAssetInUse while a meal or recipe refers to the product.
	Delete(ctx context.Context, ownerID, id string) error
}
