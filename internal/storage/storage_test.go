package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/sneakerbox/internal/db"
	"github.com/erazemk/sneakerbox/internal/imaging"
)

func TestNewName(t *testing.T) {
	a := NewName(".jpg")
	b := NewName("jpg")
	assert.True(t, strings.HasPrefix(a, "shoes/"))
	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.True(t, strings.HasSuffix(b, ".jpg"))
	assert.NotEqual(t, a, b)
	assert.True(t, ValidName(a))
}

func TestValidName(t *testing.T) {
	for _, name := range []string{"", "/abs", "../up", "a/../../b", "a\\b", "a//b"} {
		assert.False(t, ValidName(name), name)
	}
	assert.True(t, ValidName("shoes/x.jpg"))
}

func TestDBBucket(t *testing.T) {
	b := &DBBucket{DB: db.NewTestDB(t)}
	ctx := context.Background()

	url, err := b.Upload(ctx, "shoes/a.jpg", "image/jpeg", []byte("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "/media/shoes/a.jpg", url)

	o, err := b.Open(ctx, "shoes/a.jpg")
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, []byte("jpeg"), o.Data)

	missing, err := b.Open(ctx, "../etc/passwd")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = b.Upload(ctx, "../x", "image/jpeg", nil)
	assert.ErrorIs(t, err, ErrInvalidName)
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3BucketUpload(t *testing.T) {
	fake := &fakeS3{}
	b := &S3Bucket{Client: fake, Config: S3Config{Bucket: "kicks", Region: "eu-central-1"}}

	url, err := b.Upload(context.Background(), "shoes/a.jpg", "image/jpeg", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "https://kicks.s3.eu-central-1.amazonaws.com/shoes/a.jpg", url)
	assert.Equal(t, "kicks", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "shoes/a.jpg", aws.ToString(fake.input.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(fake.input.ContentType))
	assert.Equal(t, []byte("data"), fake.body)
}

func TestS3BucketUploadError(t *testing.T) {
	fake := &fakeS3{err: errors.New("access denied")}
	b := &S3Bucket{Client: fake, Config: S3Config{Bucket: "kicks"}}

	_, err := b.Upload(context.Background(), "shoes/a.jpg", "image/jpeg", []byte("data"))
	assert.ErrorContains(t, err, "access denied")
}

func TestS3BucketURL(t *testing.T) {
	tests := []struct {
		cfg  S3Config
		want string
	}{
		{S3Config{Bucket: "kicks", PublicBaseURL: "https://cdn.example.com/"}, "https://cdn.example.com/shoes/a.jpg"},
		{S3Config{Bucket: "kicks", Endpoint: "http://localhost:4566"}, "http://localhost:4566/kicks/shoes/a.jpg"},
		{S3Config{Bucket: "kicks"}, "https://kicks.s3.us-east-1.amazonaws.com/shoes/a.jpg"},
	}
	for _, tt := range tests {
		b := &S3Bucket{Config: tt.cfg}
		assert.Equal(t, tt.want, b.URL("shoes/a.jpg"))
	}
}

func TestSavePhotoRejectsNonImage(t *testing.T) {
	b := &DBBucket{DB: db.NewTestDB(t)}

	_, err := SavePhoto(context.Background(), b, strings.NewReader("plain text"))
	assert.ErrorIs(t, err, imaging.ErrUnsupported)
}

func TestSavePhotoStoresJPEG(t *testing.T) {
	b := &DBBucket{DB: db.NewTestDB(t)}
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))

	url, err := SavePhoto(ctx, b, &buf)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, MediaPrefix+"shoes/"))

	o, err := b.Open(ctx, strings.TrimPrefix(url, MediaPrefix))
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, "image/jpeg", o.ContentType)
}
