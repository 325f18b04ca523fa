package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fooddiary/internal/server/models"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/repomanager"
)

// ProductService manages the user's product catalog.
type ProductService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewProductService(db *sql.DB, m repomanager.RepositoryManager) *ProductService {
	return &ProductService{db: db, repomanager: m}
}

func (s *ProductService) Create(ctx context.Context, ownerID string, p *models.Product) (*models.Product, error) {
	p.ID = newID()
	p.OwnerID = ownerID
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := checkAsset(ctx, s.repomanager.Assets(s.db), ownerID, p.ImageAssetID); err != nil {
		return nil, err
	}
	if err := s.repomanager.Products(s.db).Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, ownerID, id string) (*models.Product, error) {
	return s.repomanager.Products(s.db).Get(ctx, ownerID, id)
}

// List returns the owner's products whose name contains search, ordered by name.
func (s *ProductService) List(ctx context.Context, ownerID, search string, page models.Page) ([]*models.Product, error) {
	return s.repomanager.Products(s.db).List(ctx, ownerID, search, page.Normalize())
}

func (s *ProductService) Update(ctx context.Context, ownerID string, p *models.Product) (*models.Product, error) {
	repo := s.repomanager.Products(s.db)
	existing, err := repo.Get(ctx, ownerID, p.ID)
	if err != nil {
		return nil, err
	}
	p.OwnerID = ownerID
	p.CreatedAt = existing.CreatedAt
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := checkAsset(ctx, s.repomanager.Assets(s.db), ownerID, p.ImageAssetID); err != nil {
		return nil, err
	}
	if err := repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete fails with common.ErrAssetInUse while a meal or recipe uses the product.
func (s *ProductService) Delete(ctx context.Context, ownerID, id string) error {
	return s.repomanager.Products(s.db).Delete(ctx, ownerID, id)
}
