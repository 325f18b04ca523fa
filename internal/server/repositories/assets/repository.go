// Package assets stores metadata of images uploaded to object storage.
package assets

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Asset) error
	Get(ctx context.Context, ownerID, id string) (*models.Asset, error)
	MarkUploaded(ctx context.Context, ownerID, id string) error
	// IsReferenced reports whether a product, recipe or meal uses the asset.
	IsReferenced(ctx context.Context, id string) (bool, error)
	// Delete returns common.ErrAssetInUse if the row is still referenced.
	Delete(ctx context.Context, id string) error
	// ListStalePending skips assets a product, recipe or meal still uses.
	ListStalePending(ctx context.Context, before time.Time, limit int) ([]*models.Asset, error)
}
