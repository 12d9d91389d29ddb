// Package storage uploads shoe photos to an object store and resolves their
// public URLs.
package storage

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidName is returned for object names that could escape the bucket.
var ErrInvalidName = errors.New("invalid object name")

// Bucket stores objects and reports where they can be fetched.
type Bucket interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
	URL(name string) string
}

// NewName returns a fresh object name with the given extension.
func NewName(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return "shoes/" + uuid.NewString() + ext
}

// ValidName reports whether name is a relative, clean object path.
func ValidName(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return false
	}
	return path.Clean(name) == name && !strings.HasPrefix(name, "..")
}
