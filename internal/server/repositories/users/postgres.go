package users

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/common"
	"github.com/dmitrijs2005/fooddiary/internal/dbx"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, password_hash, display_name, roles, email_confirmed,
		confirmation_token, reset_token, reset_token_expires, blocked,
		daily_calorie_goal, daily_water_goal_ml, created_at, last_login_at`

func scanUser(s dbx.Scanner) (*models.User, error) {
	u := &models.User{}
	var roles string
	var confirmation, reset sql.NullString
	var resetExpires, lastLogin sql.NullTime

	err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &roles, &u.EmailConfirmed,
		&confirmation, &reset, &resetExpires, &u.Blocked,
		&u.DailyCalorieGoal, &u.DailyWaterGoalML, &u.CreatedAt, &lastLogin)
	if err != nil {
		return nil, err
	}

	u.Roles = models.SplitRoles(roles)
	u.ConfirmationToken = confirmation.String
	u.ResetToken = reset.String
	if resetExpires.Valid {
		u.ResetTokenExpires = &resetExpires.Time
	}
	if lastLogin.Valid {
		u.LastLoginAt = &lastLogin.Time
	}
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (id, email, password_hash, display_name, roles, email_confirmed,
		    confirmation_token, daily_calorie_goal, daily_water_goal_ml)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.DisplayName, models.JoinRoles(user.Roles),
		user.EmailConfirmed, dbx.NullString(user.ConfirmationToken),
		user.DailyCalorieGoal, user.DailyWaterGoalML).Scan(&user.CreatedAt)

	return dbx.Classify(err)
}

func (r *PostgresRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where

	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `email = $1`, email)
}

func (r *PostgresRepository) GetByConfirmationToken(ctx context.Context, token string) (*models.User, error) {
	return r.getOne(ctx, `confirmation_token = $1`, token)
}

func (r *PostgresRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	return r.getOne(ctx, `reset_token = $1`, token)
}

// Update writes every mutable column of user.
func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users SET
		    password_hash = $2, display_name = $3, roles = $4, email_confirmed = $5,
		    confirmation_token = $6, reset_token = $7, reset_token_expires = $8, blocked = $9,
		    daily_calorie_goal = $10, daily_water_goal_ml = $11
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, user.ID,
		user.PasswordHash, user.DisplayName, models.JoinRoles(user.Roles), user.EmailConfirmed,
		dbx.NullString(user.ConfirmationToken), dbx.NullString(user.ResetToken), dbx.NullTime(user.ResetTokenExpires),
		user.Blocked, user.DailyCalorieGoal, user.DailyWaterGoalML)
	if err != nil {
		return dbx.Classify(err)
	}
	return dbx.ExpectOneRow(res)
}

func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE users SET last_login_at = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, at); err != nil {
		return dbx.Classify(err)
	}
	return nil
}

// List returns a page of users whose email or display name contains search,
// newest first, together with the total number of matches.
func (r *PostgresRepository) List(ctx context.Context, search string, page models.Page) ([]*models.User, int, error) {
	page = page.Normalize()
	pattern := dbx.LikePattern(search)

	var total int
	countQuery := `SELECT count(*) FROM users WHERE email ILIKE $1 OR display_name ILIKE $1`
	if err := r.db.QueryRowContext(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, dbx.Classify(err)
	}

	query := `SELECT ` + userColumns + ` FROM users
		 WHERE email ILIKE $1 OR display_name ILIKE $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, pattern, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, dbx.Classify(err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, dbx.Classify(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dbx.Classify(err)
	}
	return users, total, nil
}

// deletedWithKeys turns a DELETE ... RETURNING id CTE into one row per
// deleted user and asset. Assets are read from the statement snapshot, so
// rows removed by the cascade are still visible.
const deletedWithKeys = `
	SELECT gone.id, a.object_key FROM gone
	LEFT JOIN assets a ON a.owner_id = gone.id`

func scanDeleted(rows *sql.Rows) (int64, []string, error) {
	defer rows.Close()

	seen := make(map[string]struct{})
	var keys []string
	for rows.Next() {
		var id string
		var key sql.NullString
		if err := rows.Scan(&id, &key); err != nil {
			return 0, nil, dbx.Classify(err)
		}
		seen[id] = struct{}{}
		if key.Valid {
			keys = append(keys, key.String)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, nil, dbx.Classify(err)
	}
	return int64(len(seen)), keys, nil
}

// Delete removes a user and returns the object keys of the user's assets,
// whose rows go with the user.
func (r *PostgresRepository) Delete(ctx context.Context, id string) ([]string, error) {
	query := `WITH gone AS (DELETE FROM users WHERE id = $1 RETURNING id)` + deletedWithKeys

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	n, keys, err := scanDeleted(rows)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, common.ErrorNotFound
	}
	return keys, nil
}

// DeleteUnconfirmedBefore removes accounts that never confirmed their email
// and were created before cutoff. It returns the number of removed accounts
// and the object keys of their assets.
func (r *PostgresRepository) DeleteUnconfirmedBefore(ctx context.Context, cutoff time.Time) (int64, []string, error) {
	query := `WITH gone AS (
		DELETE FROM users WHERE email_confirmed = FALSE AND created_at < $1 RETURNING id
	)` + deletedWithKeys

	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return 0, nil, dbx.Classify(err)
	}
	return scanDeleted(rows)
}
