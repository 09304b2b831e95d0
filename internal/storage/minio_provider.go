package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig describes the MinIO endpoint and target bucket.
type MinioConfig struct {
	Endpoint  string
	Port      int
	UseSSL    bool
	AccessKey string
	SecretKey string
	Bucket    string
}

// MinioProvider implements the storage.Provider interface for MinIO.
type MinioProvider struct {
	client *minio.Client
	bucket string
}

// NewMinioProvider initializes a MinIO client for the configured endpoint.
func NewMinioProvider(cfg MinioConfig) (*MinioProvider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio.endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio.bucket is required")
	}
	endpoint := cfg.Endpoint
	if cfg.Port > 0 {
		endpoint = fmt.Sprintf("%s:%d", cfg.Endpoint, cfg.Port)
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinioProvider{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (p *MinioProvider) EnsureBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", p.bucket, err)
	}
	if exists {
		return nil
	}
	if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", p.bucket, err)
	}
	return nil
}

// PutFile uploads the file at filePath under objectName.
func (p *MinioProvider) PutFile(ctx context.Context, objectName, filePath string) error {
	if _, err := p.client.FPutObject(ctx, p.bucket, objectName, filePath, minio.PutObjectOptions{}); err != nil {
		return fmt.Errorf("put object %s: %w", objectName, err)
	}
	return nil
}
