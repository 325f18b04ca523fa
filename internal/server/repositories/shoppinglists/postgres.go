package shoppinglists

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fooddiary/internal/dbx"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const listColumns = `id, owner_id, name, is_current, created_at, updated_at`

func scanList(s dbx.Scanner) (*models.ShoppingList, error) {
	l := &models.ShoppingList{Items: []models.ShoppingListItem{}}
	if err := s.Scan(&l.ID, &l.OwnerID, &l.Name, &l.IsCurrent, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *PostgresRepository) Create(ctx context.Context, l *models.ShoppingList) error {
	query :=
		`INSERT INTO shopping_lists (id, owner_id, name, is_current)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`

	if err := r.db.QueryRowContext(ctx, query, l.ID, l.OwnerID, l.Name, l.IsCurrent).Scan(&l.CreatedAt, &l.UpdatedAt); err != nil {
		return dbx.Classify(err)
	}
	return r.writeItems(ctx, l)
}

func (r *PostgresRepository) writeItems(ctx context.Context, l *models.ShoppingList) error {
	query :=
		`INSERT INTO shopping_list_items (id, list_id, name, amount, unit, checked, product_id, position)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for i, it := range l.Items {
		_, err := r.db.ExecContext(ctx, query, it.ID, l.ID, it.Name, it.Amount, it.Unit, it.Checked, dbx.NullStringPtr(it.ProductID), i)
		if err != nil {
			return dbx.Classify(err)
		}
	}
	return nil
}

func (r *PostgresRepository) getOne(ctx context.Context, where string, args ...any) (*models.ShoppingList, error) {
	l, err := scanList(r.db.QueryRowContext(ctx, `SELECT `+listColumns+` FROM shopping_lists WHERE `+where, args...))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	if err := r.loadItems(ctx, []*models.ShoppingList{l}); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id string) (*models.ShoppingList, error) {
	return r.getOne(ctx, `id = $1 AND owner_id = $2`, id, ownerID)
}

func (r *PostgresRepository) GetCurrent(ctx context.Context, ownerID string) (*models.ShoppingList, error) {
	return r.getOne(ctx, `owner_id = $1 AND is_current`, ownerID)
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]*models.ShoppingList, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+listColumns+` FROM shopping_lists
		 WHERE owner_id = $1
		 ORDER BY is_current DESC, updated_at DESC`, ownerID)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	var out []*models.ShoppingList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, dbx.Classify(err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(err)
	}
	if err := r.loadItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, lists []*models.ShoppingList) error {
	if len(lists) == 0 {
		return nil
	}
	byID := make(map[string]*models.ShoppingList, len(lists))
	ids := make([]string, 0, len(lists))
	for _, l := range lists {
		byID[l.ID] = l
		ids = append(ids, l.ID)
	}
	ph, args := dbx.InList(1, ids)

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, list_id, name, amount, unit, checked, product_id, position FROM shopping_list_items
		 WHERE list_id IN (`+ph+`)
		 ORDER BY list_id, position`, args...)
	if err != nil {
		return dbx.Classify(err)
	}
	defer rows.Close()

	for rows.Next() {
		var listID string
		var product sql.NullString
		var it models.ShoppingListItem
		if err := rows.Scan(&it.ID, &listID, &it.Name, &it.Amount, &it.Unit, &it.Checked, &product, &it.Order); err != nil {
			return dbx.Classify(err)
		}
		it.ProductID = dbx.StringPtr(product)
		if l, ok := byID[listID]; ok {
			l.Items = append(l.Items, it)
		}
	}
	return dbx.Classify(rows.Err())
}

func (r *PostgresRepository) Update(ctx context.Context, l *models.ShoppingList) error {
	query :=
		`UPDATE shopping_lists SET name = $3, updated_at = now()
		 WHERE id = $1 AND owner_id = $2
		 RETURNING is_current, created_at, updated_at`

	// is_current only changes through SetCurrent; the stored flag wins.
	if err := r.db.QueryRowContext(ctx, query, l.ID, l.OwnerID, l.Name).Scan(&l.IsCurrent, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return dbx.Classify(err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shopping_list_items WHERE list_id = $1`, l.ID); err != nil {
		return dbx.Classify(err)
	}
	return r.writeItems(ctx, l)
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shopping_lists WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return dbx.Classify(err)
	}
	return dbx.ExpectOneRow(res)
}

// SetCurrent clears the flag on the owner's other lists first, so the partial
// unique index on is_current holds. Run it inside a transaction.
func (r *PostgresRepository) SetCurrent(ctx context.Context, ownerID, id string) error {
	clear := `UPDATE shopping_lists SET is_current = FALSE WHERE owner_id = $1 AND is_current AND id <> $2`
	if _, err := r.db.ExecContext(ctx, clear, ownerID, id); err != nil {
		return dbx.Classify(err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE shopping_lists SET is_current = TRUE, updated_at = now() WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return dbx.Classify(err)
	}
	return dbx.ExpectOneRow(res)
}

func (r *PostgresRepository) SetItemChecked(ctx context.Context, ownerID, listID, itemID string, checked bool) error {
	query :=
		`UPDATE shopping_list_items i SET checked = $4
		 FROM shopping_lists l
		 WHERE i.id = $3 AND i.list_id = l.id AND l.id = $2 AND l.owner_id = $1`

	res, err := r.db.ExecContext(ctx, query, ownerID, listID, itemID, checked)
	if err != nil {
		return dbx.Classify(err)
	}
	return dbx.ExpectOneRow(res)
}
