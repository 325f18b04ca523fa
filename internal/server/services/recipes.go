package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fooddiary/internal/dbx"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/repomanager"
)

// RecipeView is a recipe with its computed nutrition.
type RecipeView struct {
	*models.Recipe
	Nutrition  models.Nutrition `json:"nutrition"`
	PerServing models.Nutrition `json:"per_serving"`
}

func newRecipeView(cat *models.Catalog, r *models.Recipe) (*RecipeView, error) {
	total, err := cat.RecipeTotal(r)
	if err != nil {
		return nil, err
	}
	return &RecipeView{
		Recipe:     r,
		Nutrition:  total.Rounded(),
		PerServing: r.PerServing(total).Rounded(),
	}, nil
}

// RecipeService manages recipes and computes their nutrition.
type RecipeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewRecipeService(db *sql.DB, m repomanager.RepositoryManager) *RecipeService {
	return &RecipeService{db: db, repomanager: m}
}

func (s *RecipeService) Create(ctx context.Context, ownerID string, r *models.Recipe) (*RecipeView, error) {
	r.ID = newID()
	r.OwnerID = ownerID
	if err := r.Validate(); err != nil {
		return nil, err
	}

	var view *RecipeView
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		cat, err := s.prepare(ctx, tx, ownerID, r)
		if err != nil {
			return err
		}
		if err := s.repomanager.Recipes(tx).Create(ctx, r); err != nil {
			return err
		}
		view, err = newRecipeView(cat, r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// prepare checks the recipe's image and ingredients and returns the catalog
// of its products.
func (s *RecipeService) prepare(ctx context.Context, db dbx.DBTX, ownerID string, r *models.Recipe) (*models.Catalog, error) {
	if err := checkAsset(ctx, s.repomanager.Assets(db), ownerID, r.ImageAssetID); err != nil {
		return nil, err
	}
	return loadCatalog(ctx, s.repomanager, db, ownerID, r.ProductIDs(), nil)
}

func (s *RecipeService) Get(ctx context.Context, ownerID, id string) (*RecipeView, error) {
	r, err := s.repomanager.Recipes(s.db).Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalog(ctx, s.repomanager, s.db, ownerID, r.ProductIDs(), nil)
	if err != nil {
		return nil, err
	}
	return newRecipeView(cat, r)
}

func (s *RecipeService) List(ctx context.Context, ownerID, search string, page models.Page) ([]*RecipeView, error) {
	list, err := s.repomanager.Recipes(s.db).List(ctx, ownerID, search, page.Normalize())
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, r := range list {
		ids = append(ids, r.ProductIDs()...)
	}
	cat, err := loadCatalog(ctx, s.repomanager, s.db, ownerID, dedupe(ids), nil)
	if err != nil {
		return nil, err
	}

	views := make([]*RecipeView, 0, len(list))
	for _, r := range list {
		v, err := newRecipeView(cat, r)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// Update replaces the recipe including all of its steps.
func (s *RecipeService) Update(ctx context.Context, ownerID string, r *models.Recipe) (*RecipeView, error) {
	r.OwnerID = ownerID
	if err := r.Validate(); err != nil {
		return nil, err
	}

	var view *RecipeView
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Recipes(tx)
		existing, err := repo.Get(ctx, ownerID, r.ID)
		if err != nil {
			return err
		}
		r.CreatedAt = existing.CreatedAt

		cat, err := s.prepare(ctx, tx, ownerID, r)
		if err != nil {
			return err
		}
		if err := repo.Update(ctx, r); err != nil {
			return err
		}
		view, err = newRecipeView(cat, r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *RecipeService) Delete(ctx context.Context, ownerID, id string) error {
	return s.repomanager.Recipes(s.db).Delete(ctx, ownerID, id)
}
