// Package meals persists meals (consumptions) and their items.
package meals

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

// Repository stores a meal and its items; Create and Update belong in a transaction.
type Repository interface {
	Create(ctx context.Context, m *models.Meal) error
	Get(ctx context.Context, ownerID, id string) (*models.Meal, error)
	// ListByRange returns meals dated within [from, to], both inclusive.
	ListByRange(ctx context.Context, ownerID string, from, to time.Time) ([]*models.Meal, error)
	Update(ctx context.Context, m *models.Meal) error
	Delete(ctx context.Context, ownerID, id string) error
}
