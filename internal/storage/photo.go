package storage

import (
	"context"
	"io"

	"github.com/erazemk/sneakerbox/internal/imaging"
)

// SavePhoto normalizes an uploaded photo and stores it under a fresh name,
// returning the photo's URL.
func SavePhoto(ctx context.Context, b Bucket, r io.Reader) (string, error) {
	photo, err := imaging.Process(r)
	if err != nil {
		return "", err
	}
	return b.Upload(ctx, NewName(photo.Ext), photo.MIME, photo.Data)
}
