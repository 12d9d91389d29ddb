package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/sneakerbox/internal/store"
)

// MediaPrefix is where DBBucket objects are served.
const MediaPrefix = "/media/"

// DBBucket keeps objects in the SQLite objects table.
type DBBucket struct {
	DB *sql.DB
}

// Upload stores data under name and returns its media URL.
func (b *DBBucket) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := store.PutObject(ctx, b.DB, name, contentType, data); err != nil {
		return "", err
	}
	return b.URL(name), nil
}

// URL returns the path the media handler serves name from.
func (b *DBBucket) URL(name string) string {
	return MediaPrefix + name
}

// Open returns a stored object, or nil if it does not exist.
func (b *DBBucket) Open(ctx context.Context, name string) (*store.Object, error) {
	if !ValidName(name) {
		return nil, nil
	}
	return store.GetObject(ctx, b.DB, name)
}
