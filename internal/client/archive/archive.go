// Package archive keeps a copy of every captured photo in object storage so
// analyses can be revisited later. Archiving is best effort: callers log
// failures and carry on.
package archive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archive stores captured images.
type Archive interface {
	Put(ctx context.Context, userID, captureID string, image []byte) (key string, err error)
}

// Key returns the object key of a capture.
func Key(userID, captureID string) string {
	return fmt.Sprintf("captures/%s/%s.jpg", userID, captureID)
}

// Nop discards images.
type Nop struct{}

func (Nop) Put(_ context.Context, userID, captureID string, _ []byte) (string, error) {
	return Key(userID, captureID), nil
}

// Options configure the S3 archive. Endpoint targets S3-compatible stores
// such as MinIO; empty credentials fall back to the default AWS chain.
type Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive stores images in an S3 bucket.
type S3Archive struct {
	bucket string
	client putter
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// NewS3 builds an S3 client from opts.
func NewS3(ctx context.Context, opts Options) (*S3Archive, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("archive: bucket is required")
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")))
	}
	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("archive: load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Archive{bucket: opts.Bucket, client: client}, nil
}

// Put uploads image under Key(userID, captureID).
func (a *S3Archive) Put(ctx context.Context, userID, captureID string, image []byte) (string, error) {
	key := Key(userID, captureID)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(image),
		ContentLength: aws.Int64(int64(len(image))),
		ContentType:   aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("archive: put %s: %w", key, err)
	}
	return key, nil
}
