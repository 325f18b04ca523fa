// Package aiusage logs AI provider calls and stores per-user token quotas.
package aiusage

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

type Repository interface {
	Log(ctx context.Context, u *models.AiUsage) error
	// TokensSince sums total_tokens the user spent at or after since.
	TokensSince(ctx context.Context, userID string, since time.Time) (int, error)
	// Summary aggregates usage per user for from <= created_at < to.
	Summary(ctx context.Context, from, to time.Time) ([]models.AiUsageSummary, error)
	// GetQuota returns common.ErrorNotFound when the user has no override.
	GetQuota(ctx context.Context, userID string) (*models.AiQuota, error)
	SetQuota(ctx context.Context, q *models.AiQuota) error
	DeleteQuota(ctx context.Context, userID string) error
}
