// Package users persists user accounts.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByConfirmationToken(ctx context.Context, token string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, search string, page models.Page) ([]*models.User, int, error)
	// Delete and DeleteUnconfirmedBefore return the object keys of the
	// assets removed along with the users.
	Delete(ctx context.Context, id string) ([]string, error)
	DeleteUnconfirmedBefore(ctx context.Context, cutoff time.Time) (int64, []string, error)
}
