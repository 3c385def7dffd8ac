// Package blob stores file content outside of the database. Records keep only
// the object key and derived metadata; the bytes live in one of the drivers,
// AWS S3 in production or the local filesystem for development and tests.
package blob

import (
	"context"
	"path"
	"time"

	"github.com/google/uuid"
)

// UploadResult carries everything needed to reference an uploaded object.
type UploadResult struct {
	Key          string `json:"key"`
	Location     string `json:"location"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimeType"`
}

// Store is the driver interface for object storage.
//
// Delete is idempotent: deleting a key that does not exist succeeds. Exists
// distinguishes "not found" (false, nil) from every other failure.
type Store interface {
	Upload(ctx context.Context, folder, originalName, contentType string, content []byte) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]string, error)
	SignedURL(ctx context.Context, key string, expireIn time.Duration) (string, error)
}

// NewKey generates a unique object key namespaced by folder and upload date:
// <folder>/<YYYY-MM-DD>/<uuid><ext>. Keys are never reused.
func NewKey(folder, originalName string) string {
	ext := path.Ext(originalName)
	date := time.Now().UTC().Format("2006-01-02")
	return folder + "/" + date + "/" + uuid.NewString() + ext
}
