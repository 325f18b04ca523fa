package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fooddiary/internal/common"
	"github.com/dmitrijs2005/fooddiary/internal/logging"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fooddiary/internal/server/storage"
)

// Upload is a pending asset and the URL the client PUTs the image to.
type Upload struct {
	Asset     *models.Asset `json:"asset"`
	UploadURL string        `json:"upload_url"`
}

// AssetService manages uploaded images. The bytes never pass through the
// server: clients upload and download with presigned URLs.
type AssetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	storage     ObjectStorage
	logger      logging.Logger
}

func NewAssetService(db *sql.DB, m repomanager.RepositoryManager, st ObjectStorage, logger logging.Logger) *AssetService {
	return &AssetService{db: db, repomanager: m, storage: st, logger: logger.With("module", "assets")}
}

// CreateUpload registers a pending asset and presigns its upload.
func (s *AssetService) CreateUpload(ctx context.Context, ownerID, contentType string, size int64) (*Upload, error) {
	if err := models.ValidateUpload(contentType, size); err != nil {
		return nil, err
	}
	a := &models.Asset{
		ID:          newID(),
		OwnerID:     ownerID,
		ObjectKey:   storage.ObjectKey(ownerID, models.ImageExtension(contentType)),
		ContentType: contentType,
		Size:        size,
		Status:      models.AssetPending,
	}
	url, err := s.storage.PresignPut(ctx, a.ObjectKey, contentType, size)
	if err != nil {
		return nil, err
	}
	if err := s.repomanager.Assets(s.db).Create(ctx, a); err != nil {
		return nil, err
	}
	return &Upload{Asset: a, UploadURL: url}, nil
}

// ConfirmUpload marks the asset as uploaded once the client finished the PUT.
func (s *AssetService) ConfirmUpload(ctx context.Context, ownerID, id string) (*models.Asset, error) {
	repo := s.repomanager.Assets(s.db)
	if err := repo.MarkUploaded(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return repo.Get(ctx, ownerID, id)
}

// GetURL presigns a download of the asset.
func (s *AssetService) GetURL(ctx context.Context, ownerID, id string) (string, error) {
	a, err := s.repomanager.Assets(s.db).Get(ctx, ownerID, id)
	if err != nil {
		return "", err
	}
	return s.storage.PresignGet(ctx, a.ObjectKey)
}

// Delete removes an unreferenced asset and its object. Assets used by a
// product, recipe or meal fail with common.ErrAssetInUse.
func (s *AssetService) Delete(ctx context.Context, ownerID, id string) error {
	repo := s.repomanager.Assets(s.db)
	a, err := repo.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	used, err := repo.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return common.ErrAssetInUse
	}
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, a.ObjectKey); err != nil {
		// The row is gone already; the object is left for manual removal.
		s.logger.Warn(ctx, "failed to delete object", "key", a.ObjectKey, "error", err)
	}
	return nil
}
