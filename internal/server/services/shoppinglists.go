package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/fooddiary/internal/common"
	"github.com/dmitrijs2005/fooddiary/internal/dbx"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/repomanager"
)

// ShoppingListService manages shopping lists. At most one list per user is
// current.
type ShoppingListService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewShoppingListService(db *sql.DB, m repomanager.RepositoryManager) *ShoppingListService {
	return &ShoppingListService{db: db, repomanager: m}
}

func assignItemIDs(l *models.ShoppingList) {
	for i := range l.Items {
		if l.Items[i].ID == "" {
			l.Items[i].ID = newID()
		}
	}
	l.Renumber()
}

// Create stores a new list. The first list of a user becomes current.
func (s *ShoppingListService) Create(ctx context.Context, ownerID string, l *models.ShoppingList) (*models.ShoppingList, error) {
	l.ID = newID()
	l.OwnerID = ownerID
	if l.Items == nil {
		l.Items = []models.ShoppingListItem{}
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	assignItemIDs(l)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.ShoppingLists(tx)
		_, err := repo.GetCurrent(ctx, ownerID)
		switch {
		case err == nil:
			l.IsCurrent = false
		case errorsIsNotFound(err):
			l.IsCurrent = true
		default:
			return err
		}
		return repo.Create(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *ShoppingListService) Get(ctx context.Context, ownerID, id string) (*models.ShoppingList, error) {
	return s.repomanager.ShoppingLists(s.db).Get(ctx, ownerID, id)
}

func (s *ShoppingListService) List(ctx context.Context, ownerID string) ([]*models.ShoppingList, error) {
	return s.repomanager.ShoppingLists(s.db).List(ctx, ownerID)
}

func (s *ShoppingListService) GetCurrent(ctx context.Context, ownerID string) (*models.ShoppingList, error) {
	return s.repomanager.ShoppingLists(s.db).GetCurrent(ctx, ownerID)
}

// Update renames the list and replaces its items. The current flag is left
// as stored; SetCurrent changes it.
func (s *ShoppingListService) Update(ctx context.Context, ownerID string, l *models.ShoppingList) (*models.ShoppingList, error) {
	l.OwnerID = ownerID
	if l.Items == nil {
		l.Items = []models.ShoppingListItem{}
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	assignItemIDs(l)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.ShoppingLists(tx).Update(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *ShoppingListService) Delete(ctx context.Context, ownerID, id string) error {
	return s.repomanager.ShoppingLists(s.db).Delete(ctx, ownerID, id)
}

func (s *ShoppingListService) SetCurrent(ctx context.Context, ownerID, id string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.ShoppingLists(tx).SetCurrent(ctx, ownerID, id)
	})
}

func (s *ShoppingListService) SetItemChecked(ctx context.Context, ownerID, listID, itemID string, checked bool) error {
	return s.repomanager.ShoppingLists(s.db).SetItemChecked(ctx, ownerID, listID, itemID, checked)
}

// AddFromRecipe appends the recipe's ingredients, scaled from the recipe's
// servings to servings, to the list. Ingredients merge into unchecked items
// of the same product and unit.
func (s *ShoppingListService) AddFromRecipe(ctx context.Context, ownerID, listID, recipeID string, servings float64) (*models.ShoppingList, error) {
	if servings <= 0 {
		return nil, fmt.Errorf("%w: servings must be positive", common.ErrorValidation)
	}

	var out *models.ShoppingList
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.ShoppingLists(tx)
		list, err := repo.Get(ctx, ownerID, listID)
		if err != nil {
			return err
		}
		recipe, err := s.repomanager.Recipes(tx).Get(ctx, ownerID, recipeID)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(ctx, s.repomanager, tx, ownerID, recipe.ProductIDs(), nil)
		if err != nil {
			return err
		}

		factor := servings / float64(recipe.Servings)
		for _, ing := range recipe.Ingredients() {
			p := cat.Products[ing.ProductID]
			list.Merge(models.ShoppingListItem{
				Name:      p.Name,
				Amount:    ing.Amount * factor,
				Unit:      string(p.BaseUnit),
				ProductID: &p.ID,
			}, newID)
		}
		if err := repo.Update(ctx, list); err != nil {
			return err
		}
		out = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
