package aiusage

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/dbx"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Log(ctx context.Context, u *models.AiUsage) error {
	query :=
		`INSERT INTO ai_usage (id, user_id, operation, model, input_tokens, output_tokens, total_tokens)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, u.ID, u.UserID, u.Operation, u.Model,
		u.InputTokens, u.OutputTokens, u.TotalTokens).Scan(&u.CreatedAt)
	return dbx.Classify(err)
}

func (r *PostgresRepository) TokensSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_tokens), 0) FROM ai_usage WHERE user_id = $1 AND created_at >= $2`,
		userID, since).Scan(&total)
	if err != nil {
		return 0, dbx.Classify(err)
	}
	return total, nil
}

func (r *PostgresRepository) Summary(ctx context.Context, from, to time.Time) ([]models.AiUsageSummary, error) {
	query :=
		`SELECT a.user_id, u.email, COUNT(*), SUM(a.input_tokens), SUM(a.output_tokens), SUM(a.total_tokens)
		 FROM ai_usage a JOIN users u ON u.id = a.user_id
		 WHERE a.created_at >= $1 AND a.created_at < $2
		 GROUP BY a.user_id, u.email
		 ORDER BY SUM(a.total_tokens) DESC`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	out := []models.AiUsageSummary{}
	for rows.Next() {
		var s models.AiUsageSummary
		if err := rows.Scan(&s.UserID, &s.Email, &s.Requests, &s.InputTokens, &s.OutputTokens, &s.TotalTokens); err != nil {
			return nil, dbx.Classify(err)
		}
		out = append(out, s)
	}
	return out, dbx.Classify(rows.Err())
}

func (r *PostgresRepository) GetQuota(ctx context.Context, userID string) (*models.AiQuota, error) {
	q := &models.AiQuota{}
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, monthly_token_limit, updated_at FROM ai_quotas WHERE user_id = $1`, userID).
		Scan(&q.UserID, &q.MonthlyTokenLimit, &q.UpdatedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return q, nil
}

func (r *PostgresRepository) SetQuota(ctx context.Context, q *models.AiQuota) error {
	query :=
		`INSERT INTO ai_quotas (user_id, monthly_token_limit)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET monthly_token_limit = EXCLUDED.monthly_token_limit, updated_at = now()
		 RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, q.UserID, q.MonthlyTokenLimit).Scan(&q.UpdatedAt)
	return dbx.Classify(err)
}

func (r *PostgresRepository) DeleteQuota(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ai_quotas WHERE user_id = $1`, userID)
	if err != nil {
		return dbx.Classify(err)
	}
	return dbx.ExpectOneRow(res)
}
