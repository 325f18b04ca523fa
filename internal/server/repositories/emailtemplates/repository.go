// Package emailtemplates stores the editable email templates.
package emailtemplates

import (
	"context"

	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.EmailTemplate, error)
	Get(ctx context.Context, key string) (*models.EmailTemplate, error)
	Upsert(ctx context.Context, t *models.EmailTemplate) error
	// CreateIfMissing inserts t unless a template with the same key exists.
	// It reports whether a row was inserted.
	CreateIfMissing(ctx context.Context, t *models.EmailTemplate) (bool, error)
}
