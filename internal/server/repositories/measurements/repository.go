// Package measurements stores weight and waist readings. Both series share one
// table layout and differ only by table name.
package measurements

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

type Repository interface {
	// Upsert stores m, replacing the reading the owner already has for m.Date.
	Upsert(ctx context.Context, m *models.Measurement) error
	// List returns readings with from <= date <= to, oldest first.
	List(ctx context.Context, ownerID string, from, to time.Time) ([]*models.Measurement, error)
	Delete(ctx context.Context, ownerID, id string) error
}
