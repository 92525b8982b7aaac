package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/docflow/docflow/internal/config"
	ierr "github.com/docflow/docflow/internal/errors"
	"github.com/docflow/docflow/internal/types"
)

// Storage persists document scans. Storage is outside the transactional
// boundary of a status transition: a failed store must leave the document in
// its prior state, which callers guarantee by storing the scan first.
type Storage interface {
	// Store uploads the scan and returns its file key.
	Store(ctx context.Context, scan *ScanFile) (string, error)

	// Remove deletes a previously stored scan.
	Remove(ctx context.Context, fileKey string) error
}

type s3Storage struct {
	client *s3.Client
	config *config.ScanStorageConfig
}

// NewStorage creates the scan storage backed by S3. When scan storage is
// disabled in config a storage that rejects every store is returned, so the
// direct insertion path fails loudly instead of losing files.
func NewStorage(cfg *config.Configuration) (Storage, error) {
	if !cfg.Scans.Enabled {
		return &disabledStorage{}, nil
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(),
		awsConfig.WithRegion(cfg.Scans.Region),
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to load aws config").
			Mark(ierr.ErrSystem)
	}

	return &s3Storage{
		config: &cfg.Scans,
		client: s3.NewFromConfig(awsCfg),
	}, nil
}

func (s *s3Storage) objectKey(fileKey string) string {
	if s.config.KeyPrefix != "" {
		return path.Join(s.config.KeyPrefix, fileKey)
	}
	return fileKey
}

func (s *s3Storage) Store(ctx context.Context, scan *ScanFile) (string, error) {
	if scan == nil || len(scan.Data) == 0 {
		return "", ierr.NewError("scan file is empty").
			WithHint("An uploaded scan must not be empty").
			Mark(ierr.ErrValidation)
	}

	fileKey := fmt.Sprintf("%s_%s", types.GenerateShortID(), scan.FileName)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.Bucket),
		Key:         aws.String(s.objectKey(fileKey)),
		Body:        bytes.NewReader(scan.Data),
		ContentType: aws.String(scan.ContentType),
	})
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("failed to store scan").
			WithReportableDetails(map[string]any{"file_name": scan.FileName}).
			Mark(ierr.ErrSystem)
	}
	return fileKey, nil
}

func (s *s3Storage) Remove(ctx context.Context, fileKey string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(s.objectKey(fileKey)),
	})
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to remove scan").
			WithReportableDetails(map[string]any{"file_key": fileKey}).
			Mark(ierr.ErrSystem)
	}
	return nil
}

type disabledStorage struct{}

func (d *disabledStorage) Store(ctx context.Context, scan *ScanFile) (string, error) {
	return "", ierr.NewError("scan storage is disabled").
		WithHint("Enable scan storage in configuration to upload scans").
		Mark(ierr.ErrInvalidOperation)
}

func (d *disabledStorage) Remove(ctx context.Context, fileKey string) error {
	return nil
}
