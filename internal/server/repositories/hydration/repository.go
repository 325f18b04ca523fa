// Package hydration stores water intake entries.
package hydration

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

type Repository interface {
	Add(ctx context.Context, e *models.HydrationEntry) error
	Delete(ctx context.Context, ownerID, id string) error
	// ListRange returns entries with from <= ts < to, oldest first.
	ListRange(ctx context.Context, ownerID string, from, to time.Time) ([]*models.HydrationEntry, error)
	// DailyTotals sums the entries per UTC day for from <= ts < to.
	DailyTotals(ctx context.Context, ownerID string, from, to time.Time) (map[time.Time]int, error)
}
