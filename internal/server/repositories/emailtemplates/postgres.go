package emailtemplates

import (
	"context"

	"github.com/dmitrijs2005/fooddiary/internal/dbx"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const columns = `key, subject, html_body, text_body, updated_at`

func scanTemplate(s dbx.Scanner) (*models.EmailTemplate, error) {
	t := &models.EmailTemplate{}
	if err := s.Scan(&t.Key, &t.Subject, &t.HTMLBody, &t.TextBody, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.EmailTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM email_templates ORDER BY key`)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	out := []*models.EmailTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, dbx.Classify(err)
		}
		out = append(out, t)
	}
	return out, dbx.Classify(rows.Err())
}

func (r *PostgresRepository) Get(ctx context.Context, key string) (*models.EmailTemplate, error) {
	t, err := scanTemplate(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM email_templates WHERE key = $1`, key))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return t, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, t *models.EmailTemplate) error {
	query :=
		`INSERT INTO email_templates (key, subject, html_body, text_body)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (key) DO UPDATE
		 SET subject = EXCLUDED.subject, html_body = EXCLUDED.html_body, text_body = EXCLUDED.text_body, updated_at = now()
		 RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, t.Key, t.Subject, t.HTMLBody, t.TextBody).Scan(&t.UpdatedAt)
	return dbx.Classify(err)
}

func (r *PostgresRepository) CreateIfMissing(ctx context.Context, t *models.EmailTemplate) (bool, error) {
	query :=
		`INSERT INTO email_templates (key, subject, html_body, text_body)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (key) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, t.Key, t.Subject, t.HTMLBody, t.TextBody)
	if err != nil {
		return false, dbx.Classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
