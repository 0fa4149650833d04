package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/foxxcyber/stock-sync/internal/models"
)

const (
	archivePrefix    = "stock-runs"
	dumpObjectName   = "wholesaler.txt"
	reportObjectName = "report.json"
)

// StorageService archives stock runs in S3-compatible storage
type StorageService struct {
	client     *minio.Client
	bucketName string
	region     string
}

// UploadResult contains information about an uploaded object
type UploadResult struct {
	Bucket      string
	Key         string
	Size        int64
	ContentType string
	ETag        string
}

// NewStorageService creates a new S3 storage service
func NewStorageService(endpoint, accessKey, secretKey, bucketName, region string, useSSL bool) (*StorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return &StorageService{
		client:     client,
		bucketName: bucketName,
		region:     region,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *StorageService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{
			Region: s.region,
		})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// RunArchivePrefix returns the folder holding the objects of one run
func RunArchivePrefix(runID string, analyzedAt time.Time) string {
	at := analyzedAt.UTC()
	return path.Join(archivePrefix, at.Format("2006"), at.Format("01"), runID)
}

// ArchiveRun stores the raw wholesaler dump and the rendered report of a run.
// Returns the run's object prefix.
func (s *StorageService) ArchiveRun(ctx context.Context, runID string, analyzedAt time.Time, dump string, report *models.StockReport) (string, error) {
	prefix := RunArchivePrefix(runID, analyzedAt)

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	dumpKey := path.Join(prefix, dumpObjectName)
	if _, err := s.Upload(ctx, dumpKey, bytes.NewReader([]byte(dump)), int64(len(dump)), "text/plain; charset=utf-8"); err != nil {
		return "", err
	}

	reportKey := path.Join(prefix, reportObjectName)
	if _, err := s.Upload(ctx, reportKey, bytes.NewReader(reportJSON), int64(len(reportJSON)), "application/json"); err != nil {
		// Don't leave half an archive behind
		if delErr := s.Delete(ctx, dumpKey); delErr != nil {
			log.Printf("Warning: failed to remove partial archive %s: %v", dumpKey, delErr)
		}
		return "", err
	}

	return prefix, nil
}

// Upload uploads an object to S3
func (s *StorageService) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*UploadResult, error) {
	info, err := s.client.PutObject(ctx, s.bucketName, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return &UploadResult{
		Bucket:      info.Bucket,
		Key:         info.Key,
		Size:        info.Size,
		ContentType: contentType,
		ETag:        info.ETag,
	}, nil
}

// GetPresignedURL generates a presigned URL for downloading an archived object
func (s *StorageService) GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucketName, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}

// ReportURL returns a presigned URL for the report of an archived run
func (s *StorageService) ReportURL(ctx context.Context, archivePrefix string, expiry time.Duration) (string, error) {
	return s.GetPresignedURL(ctx, path.Join(archivePrefix, reportObjectName), expiry)
}

// Delete deletes an object from S3
func (s *StorageService) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucketName, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}
