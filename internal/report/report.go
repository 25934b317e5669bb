// Package report writes the sales dashboard to a JSON file on local disk or
// in an S3 bucket.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"restaurant-pos/internal/metrics"
	"restaurant-pos/internal/objectstore"
	"restaurant-pos/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// ErrS3Disabled is returned when an S3 export is requested without a bucket.
var ErrS3Disabled = errors.New("S3 export is not configured")

// Report is the exported document.
type Report struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Dashboard   *metrics.Dashboard `json:"dashboard"`
}

// Exporter renders and stores sales reports.
type Exporter struct {
	dashboards service.DashboardService
	dir        string
	putter     objectstore.Putter
	bucket     string
	prefix     string
	logger     zerolog.Logger
	now        func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithS3 enables exports to bucket under prefix.
func WithS3(putter objectstore.Putter, bucket, prefix string) Option {
	return func(e *Exporter) {
		e.putter = putter
		e.bucket = bucket
		e.prefix = prefix
	}
}

// NewExporter creates an exporter writing local reports to dir.
func NewExporter(dashboards service.DashboardService, dir string, logger zerolog.Logger, opts ...Option) *Exporter {
	e := &Exporter{
		dashboards: dashboards,
		dir:        dir,
		logger:     logger.With().Str("component", "report").Logger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FileName returns the report name for the export time t.
func FileName(t time.Time) string {
	return fmt.Sprintf("sales-%s.json", t.UTC().Format("2006-01-02T150405Z"))
}

// Render computes the dashboard for filter and encodes it.
func (e *Exporter) Render(ctx context.Context, filter metrics.Filter) ([]byte, time.Time, error) {
	dash, err := e.dashboards.Dashboard(ctx, filter)
	if err != nil {
		return nil, time.Time{}, err
	}

	generated := e.now().UTC()
	data, err := json.MarshalIndent(Report{GeneratedAt: generated, Dashboard: dash}, "", "  ")
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to encode report: %w", err)
	}
	return data, generated, nil
}

// ExportFile writes the report into the local directory and returns its path.
func (e *Exporter) ExportFile(ctx context.Context, filter metrics.Filter) (string, error) {
	data, generated, err := e.Render(ctx, filter)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory %s: %w", e.dir, err)
	}

	path := filepath.Join(e.dir, FileName(generated))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		e.logger.Error().Err(err).Str("path", path).Msg("failed to write report")
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}

	e.logger.Info().Str("path", path).Int("bytes", len(data)).Msg("report written")
	return path, nil
}

// ExportS3 uploads the report and returns its s3:// URI.
func (e *Exporter) ExportS3(ctx context.Context, filter metrics.Filter) (string, error) {
	if e.putter == nil || e.bucket == "" {
		return "", ErrS3Disabled
	}

	data, generated, err := e.Render(ctx, filter)
	if err != nil {
		return "", err
	}

	key := e.prefix + "reports/" + FileName(generated)
	_, err = e.putter.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		e.logger.Error().Err(err).Str("bucket", e.bucket).Str("key", key).Msg("failed to upload report")
		return "", fmt.Errorf("unable to upload report to S3: %w", err)
	}

	uri := fmt.Sprintf("s3://%s/%s", e.bucket, key)
	e.logger.Info().Str("uri", uri).Msg("report uploaded")
	return uri, nil
}
