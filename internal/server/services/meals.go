package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/dbx"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/repomanager"
)

// MealView is a meal with its nutrition totals.
type MealView struct {
	*models.Meal
	Nutrition models.Nutrition `json:"nutrition"`
}

// MealService records what the user ate.
type MealService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewMealService(db *sql.DB, m repomanager.RepositoryManager) *MealService {
	return &MealService{db: db, repomanager: m}
}

func mealsCatalog(ctx context.Context, rm repomanager.RepositoryManager, db dbx.DBTX, ownerID string, meals ...*models.Meal) (*models.Catalog, error) {
	var products, recipes []string
	for _, m := range meals {
		products = append(products, m.ProductIDs()...)
		recipes = append(recipes, m.RecipeIDs()...)
	}
	return loadCatalog(ctx, rm, db, ownerID, dedupe(products), dedupe(recipes))
}

func newMealView(cat *models.Catalog, m *models.Meal) (*MealView, error) {
	total, err := cat.MealTotal(m)
	if err != nil {
		return nil, err
	}
	return &MealView{Meal: m, Nutrition: total.Rounded()}, nil
}

func (s *MealService) Create(ctx context.Context, ownerID string, m *models.Meal) (*MealView, error) {
	m.ID = newID()
	m.OwnerID = ownerID
	m.Normalize()
	if err := m.Validate(); err != nil {
		return nil, err
	}

	var view *MealView
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := checkAsset(ctx, s.repomanager.Assets(tx), ownerID, m.ImageAssetID); err != nil {
			return err
		}
		cat, err := mealsCatalog(ctx, s.repomanager, tx, ownerID, m)
		if err != nil {
			return err
		}
		if err := s.repomanager.Meals(tx).Create(ctx, m); err != nil {
			return err
		}
		view, err = newMealView(cat, m)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *MealService) Get(ctx context.Context, ownerID, id string) (*MealView, error) {
	m, err := s.repomanager.Meals(s.db).Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	cat, err := mealsCatalog(ctx, s.repomanager, s.db, ownerID, m)
	if err != nil {
		return nil, err
	}
	return newMealView(cat, m)
}

// ListByRange returns the meals dated from..to, both days included.
func (s *MealService) ListByRange(ctx context.Context, ownerID string, from, to time.Time) ([]*MealView, error) {
	r, err := models.NewDateRange(from, to)
	if err != nil {
		return nil, err
	}
	list, err := s.repomanager.Meals(s.db).ListByRange(ctx, ownerID, r.From, r.To)
	if err != nil {
		return nil, err
	}
	cat, err := mealsCatalog(ctx, s.repomanager, s.db, ownerID, list...)
	if err != nil {
		return nil, err
	}

	views := make([]*MealView, 0, len(list))
	for _, m := range list {
		v, err := newMealView(cat, m)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// Update replaces the meal and all of its items.
func (s *MealService) Update(ctx context.Context, ownerID string, m *models.Meal) (*MealView, error) {
	m.OwnerID = ownerID
	m.Normalize()
	if err := m.Validate(); err != nil {
		return nil, err
	}

	var view *MealView
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Meals(tx)
		existing, err := repo.Get(ctx, ownerID, m.ID)
		if err != nil {
			return err
		}
		m.CreatedAt = existing.CreatedAt

		if err := checkAsset(ctx, s.repomanager.Assets(tx), ownerID, m.ImageAssetID); err != nil {
			return err
		}
		cat, err := mealsCatalog(ctx, s.repomanager, tx, ownerID, m)
		if err != nil {
			return err
		}
		if err := repo.Update(ctx, m); err != nil {
			return err
		}
		view, err = newMealView(cat, m)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *MealService) Delete(ctx context.Context, ownerID, id string) error {
	return s.repomanager.Meals(s.db).Delete(ctx, ownerID, id)
}
