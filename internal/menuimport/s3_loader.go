package menuimport

import (
	"context"
	"fmt"

	"restaurant-pos/internal/model"
	"restaurant-pos/internal/objectstore"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Loader implements Loader for CSV objects in an S3 bucket.
type s3Loader struct {
	client objectstore.Getter
	bucket string
	logger zerolog.Logger
}

// NewS3Loader creates an S3-based menu loader.
func NewS3Loader(client objectstore.Getter, bucket string, logger zerolog.Logger) Loader {
	logger = logger.With().Str("component", "s3-menu-loader").Logger()
	logger.Info().Str("bucket", bucket).Msg("S3 loader initialised")

	return &s3Loader{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// Load reads a CSV object. key is the full object key.
func (l *s3Loader) Load(ctx context.Context, key string) ([]model.MenuItemRequest, error) {
	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Msg("loading menu file from S3")

	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", l.bucket, key, err)
	}
	defer result.Body.Close()

	items, err := Parse(ctx, result.Body, key)
	if err != nil {
		l.logger.Error().Err(err).Str("key", key).Msg("failed to parse menu file from S3")
		return nil, err
	}

	l.logger.Info().
		Str("key", key).
		Int("items", len(items)).
		Msg("menu file loaded from S3")

	return items, nil
}

// fallbackLoader tries S3 first, then the local file system.
type fallbackLoader struct {
	s3Loader   Loader
	fileLoader Loader
	s3Prefix   string
	s3Enabled  bool
	logger     zerolog.Logger
}

// NewFallbackLoader creates a loader that tries S3 first, then falls back to
// local disk. The S3 key is s3Prefix + source; the local path is source.
func NewFallbackLoader(s3Loader, fileLoader Loader, s3Prefix string, s3Enabled bool, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		s3Loader:   s3Loader,
		fileLoader: fileLoader,
		s3Prefix:   s3Prefix,
		s3Enabled:  s3Enabled,
		logger:     logger.With().Str("component", "fallback-menu-loader").Logger(),
	}
}

// Load attempts S3, then local disk.
func (l *fallbackLoader) Load(ctx context.Context, source string) ([]model.MenuItemRequest, error) {
	if l.s3Enabled && l.s3Loader != nil {
		key := l.s3Prefix + source

		items, err := l.s3Loader.Load(ctx, key)
		if err == nil {
			return items, nil
		}

		l.logger.Warn().
			Err(err).
			Str("s3_key", key).
			Msg("failed to load from S3, falling back to local file system")
	}

	return l.fileLoader.Load(ctx, source)
}
