// Package services contains the server-side business logic. Each service
// holds the connection pool and a repository manager, binds repositories to
// the pool or to a transaction, and enforces ownership of user data.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/fooddiary/internal/common"
	"github.com/dmitrijs2005/fooddiary/internal/dbx"
	"github.com/dmitrijs2005/fooddiary/internal/server/mail"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/assets"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/repomanager"
)

// Seams for tests.
var (
	newID = uuid.NewString
	now   = time.Now
)

// Mailer sends a stored email template to one recipient.
type Mailer interface {
	Send(ctx context.Context, key, to string, data mail.TemplateData) error
}

// ObjectStorage presigns object URLs and deletes objects.
type ObjectStorage interface {
	PresignPut(ctx context.Context, key, contentType string, size int64) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// checkAsset verifies that an optional image reference points to a confirmed
// upload of the owner.
func checkAsset(ctx context.Context, repo assets.Repository, ownerID string, assetID *string) error {
	if assetID == nil {
		return nil
	}
	a, err := repo.Get(ctx, ownerID, *assetID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: unknown image %s", common.ErrorValidation, *assetID)
		}
		return err
	}
	if a.Status != models.AssetUploaded {
		return fmt.Errorf("%w: upload of image %s is not confirmed", common.ErrorValidation, *assetID)
	}
	return nil
}

// missing returns the ids absent from found.
func missing[T any](ids []string, found map[string]T) []string {
	var out []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// loadCatalog fetches the owner's products and recipes referenced by
// productIDs and recipeIDs, plus every product the recipes use. Unknown ids
// are reported as a validation error.
func loadCatalog(ctx context.Context, rm repomanager.RepositoryManager, db dbx.DBTX, ownerID string, productIDs, recipeIDs []string) (*models.Catalog, error) {
	var recipeList []*models.Recipe
	if len(recipeIDs) > 0 {
		var err error
		recipeList, err = rm.Recipes(db).GetMany(ctx, ownerID, recipeIDs)
		if err != nil {
			return nil, err
		}
	}
	byRecipe := make(map[string]*models.Recipe, len(recipeList))
	for _, r := range recipeList {
		byRecipe[r.ID] = r
	}
	if m := missing(recipeIDs, byRecipe); len(m) > 0 {
		return nil, fmt.Errorf("%w: unknown recipes %v", common.ErrorValidation, m)
	}

	ids := slices.Clone(productIDs)
	for _, r := range recipeList {
		for _, id := range r.ProductIDs() {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	var productList []*models.Product
	if len(ids) > 0 {
		var err error
		productList, err = rm.Products(db).GetMany(ctx, ownerID, ids)
		if err != nil {
			return nil, err
		}
	}
	cat := models.NewCatalog(productList, recipeList)
	if m := missing(ids, cat.Products); len(m) > 0 {
		return nil, fmt.Errorf("%w: unknown products %v", common.ErrorValidation, m)
	}
	return cat, nil
}

func dedupe(ids []string) []string {
	var out []string
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, common.ErrorNotFound)
}
