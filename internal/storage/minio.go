package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/config"
)

// AttachmentStore keeps task attachments in a MinIO bucket.
type AttachmentStore struct {
	client *minio.Client
	bucket string
}

func NewAttachmentStore(cfg config.StorageConfig) (*AttachmentStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &AttachmentStore{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

func (s *AttachmentStore) Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *AttachmentStore) ObjectPath(key string) string {
	return s.bucket + "/" + key
}

// UniqueKey builds an object key that cannot collide across uploads of the
// same file name: unix nanos plus a short random suffix plus the sanitized
// original name.
func UniqueKey(originalName string) string {
	base := filepath.Base(originalName)
	base = strings.ReplaceAll(base, " ", "_")
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("%d_%s_%s", time.Now().UnixNano(), suffix, base)
}
