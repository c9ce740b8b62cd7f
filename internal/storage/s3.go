package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// ObjectAPI is the part of the S3 client the storage uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage puts uploads into a bucket and links to them by public URL.
type S3Storage struct {
	client    ObjectAPI
	bucket    string
	prefix    string
	publicURL string
	logger    zerolog.Logger
}

// NewS3Storage loads the default AWS configuration for region.
func NewS3Storage(ctx context.Context, bucket, region, prefix, publicURL string, logger zerolog.Logger) (*S3Storage, error) {
	logger = logger.With().Str("component", "s3-storage").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 storage initialised")

	return NewS3StorageWithClient(s3.NewFromConfig(cfg), bucket, prefix, publicURL, logger), nil
}

func NewS3StorageWithClient(client ObjectAPI, bucket, prefix, publicURL string, logger zerolog.Logger) *S3Storage {
	return &S3Storage{
		client:    client,
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

func (s *S3Storage) Save(ctx context.Context, folder, filename string, r io.Reader, contentType string) (string, error) {
	folder, err := cleanFolder(folder)
	if err != nil {
		return "", err
	}

	key := path.Join(s.prefix, folder, objectName(filename))
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.logger.Error().Err(err).Str("bucket", s.bucket).Str("key", key).Msg("failed to put object")
		return "", fmt.Errorf("failed to put object (bucket=%s, key=%s): %w", s.bucket, key, err)
	}

	return s.publicURL + "/" + key, nil
}

func (s *S3Storage) Delete(ctx context.Context, rawURL string) error {
	key, ok := strings.CutPrefix(strings.TrimSpace(rawURL), s.publicURL+"/")
	if !ok || key == "" {
		return fmt.Errorf("refusing to delete object outside bucket: %s", rawURL)
	}
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}
