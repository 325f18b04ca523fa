// Package shoppinglists persists shopping lists and their items.
package shoppinglists

import (
	"context"

	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, l *models.ShoppingList) error
	Get(ctx context.Context, ownerID, id string) (*models.ShoppingList, error)
	List(ctx context.Context, ownerID string) ([]*models.ShoppingList, error)
	// GetCurrent returns common.ErrorNotFound when no list is marked current.
	GetCurrent(ctx context.Context, ownerID string) (*models.ShoppingList, error)
	// Update renames the list and replaces its items. It fills l.IsCurrent
	// from the stored row.
	Update(ctx context.Context, l *models.ShoppingList) error
	Delete(ctx context.Context, ownerID, id string) error
	// SetCurrent marks id as the owner's only current list.
	SetCurrent(ctx context.Context, ownerID, id string) error
	SetItemChecked(ctx context.Context, ownerID, listID, itemID string, checked bool) error
}
