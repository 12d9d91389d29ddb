package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the part of the S3 client S3Bucket uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures an S3 bucket.
type S3Config struct {
	Bucket string
	Region string
	// Endpoint overrides the S3 endpoint, e.g. http://localhost:4566 for
	// LocalStack. Path-style addressing is used when set.
	Endpoint string
	// PublicBaseURL is prepended to object names in returned URLs. When
	// empty the virtual-hosted S3 URL is used.
	PublicBaseURL string
}

// S3Bucket uploads objects with PutObject.
type S3Bucket struct {
	Client PutObjectAPI
	Config S3Config
}

// NewS3Bucket loads the default AWS credential chain and builds a client.
func NewS3Bucket(ctx context.Context, cfg S3Config) (*S3Bucket, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket name required")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Bucket{Client: client, Config: cfg}, nil
}

// Upload puts data into the bucket and returns its public URL.
func (b *S3Bucket) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	_, err := b.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.Config.Bucket),
		Key:           aws.String(name),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s to s3: %w", name, err)
	}
	return b.URL(name), nil
}

// URL returns the public address of name.
func (b *S3Bucket) URL(name string) string {
	if b.Config.PublicBaseURL != "" {
		return strings.TrimRight(b.Config.PublicBaseURL, "/") + "/" + name
	}
	if b.Config.Endpoint != "" {
		return strings.TrimRight(b.Config.Endpoint, "/") + "/" + b.Config.Bucket + "/" + name
	}
	region := b.Config.Region
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", b.Config.Bucket, region, name)
}
