package models

import (
	"slices"
	"time"
)

type AssetStatus string

const (
	AssetPending  AssetStatus = "pending"
	AssetUploaded AssetStatus = "uploaded"
)

// MaxAssetSize is the largest accepted image upload.
const MaxAssetSize = 10 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Asset is an uploaded image stored in object storage under ObjectKey.
type Asset struct {
	ID          string      `json:"id"`
	OwnerID     string      `json:"-"`
	ObjectKey   string      `json:"object_key"`
	ContentType string      `json:"content_type"`
	Size        int64       `json:"size"`
	Status      AssetStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ValidateUpload checks an upload request before a URL is presigned.
func ValidateUpload(contentType string, size int64) error {
	if _, ok := imageExtensions[contentType]; !ok {
		allowed := make([]string, 0, len(imageExtensions))
		for k := range imageExtensions {
			allowed = append(allowed, k)
		}
		slices.Sort(allowed)
		return invalid("content type must be one of %v", allowed)
	}
	if size <= 0 || size > MaxAssetSize {
		return invalid("size must be between 1 and %d bytes", MaxAssetSize)
	}
	return nil
}

// ImageExtension returns the file extension for an accepted image type.
func ImageExtension(contentType string) string {
	return imageExtensions[contentType]
}
