// Package cycles stores menstrual cycles and their daily records.
package cycles

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Cycle) error
	Get(ctx context.Context, ownerID, id string) (*models.Cycle, error)
	// List returns the owner's cycles with their days, newest start first.
	List(ctx context.Context, ownerID string) ([]*models.Cycle, error)
	Update(ctx context.Context, c *models.Cycle) error
	Delete(ctx context.Context, ownerID, id string) error
	UpsertDay(ctx context.Context, cycleID string, d models.CycleDay) error
	DeleteDay(ctx context.Context, cycleID string, date time.Time) error
}
