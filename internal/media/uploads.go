package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/najdeno/internal/imaging"
	"github.com/erazemk/najdeno/internal/model"
)

// Folder is the top-level key prefix an upload is stored under.
type Folder string

// Upload folders.
const (
	FolderProofs Folder = "proofs"
	FolderItems  Folder = "items"
)

// ObjectStore is the media host collaborator.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// Uploader turns uploaded photos into public image URLs for item reports
// and claim proofs.
type Uploader struct {
	log   *slog.Logger
	store ObjectStore
	now   func() time.Time
}

// NewUploader returns an uploader writing to store.
func NewUploader(log *slog.Logger, store ObjectStore) *Uploader {
	return &Uploader{
		log:   log.With("service", "media"),
		store: store,
		now:   time.Now,
	}
}

// Upload validates and re-encodes r, stores the result under folder and
// returns its URL. Bad images wrap model.ErrInvalidInput; host failures wrap
// model.ErrDependency.
func (u *Uploader) Upload(ctx context.Context, folder Folder, r io.Reader) (string, error) {
	img, err := imaging.Process(r, imaging.PhotoOptions)
	if err != nil {
		return "", err
	}

	key := NewKey(folder, u.now())
	url, err := u.store.Put(ctx, key, img.MIME, img.Data)
	if err != nil {
		return "", model.Dependency("media.put", err)
	}

	u.log.InfoContext(ctx, "image uploaded",
		slog.String("folder", string(folder)),
		slog.String("key", key),
		slog.Int("bytes", len(img.Data)),
		slog.Int("width", img.Width),
		slog.Int("height", img.Height),
	)
	return url, nil
}

// NewKey returns a date-partitioned object key under folder.
func NewKey(folder Folder, now time.Time) string {
	now = now.UTC()
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s.jpg", folder, now.Year(), now.Month(), now.Day(), uuid.New())
}
