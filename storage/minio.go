package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/Abhi-2104/Auralis/config"
	"github.com/Abhi-2104/Auralis/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/notification"
)

// Store wraps the MinIO client for the catalog bucket.
type Store struct {
	client *minio.Client
	bucket string
}

// NewStore creates the MinIO client and makes sure the catalog bucket exists.
func NewStore(cfg *config.Config) (*Store, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.Info("Created bucket", logger.String("bucket", cfg.MinioBucket))
	}

	return &Store{client: client, bucket: cfg.MinioBucket}, nil
}

// Bucket returns the catalog bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

// Put uploads an object into the catalog bucket.
func (s *Store) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", key, err)
	}
	return nil
}

// Get opens an object for reading. The returned object errors on first read
// if the key does not exist.
func (s *Store) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s/%s: %w", bucket, key, err)
	}
	return obj, nil
}

// Stat returns object attributes without fetching the body.
func (s *Store) Stat(ctx context.Context, bucket, key string) (minio.ObjectInfo, error) {
	info, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return minio.ObjectInfo{}, fmt.Errorf("failed to stat object %s/%s: %w", bucket, key, err)
	}
	return info, nil
}

// PresignedGetURL issues a time-limited bearer URL for one object. Anyone
// holding the URL can fetch the object until it expires; there is no
// revocation.
func (s *Store) PresignedGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, bucket, key, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign object %s/%s: %w", bucket, key, err)
	}
	return u.String(), nil
}

// ListenCreated subscribes to object-created notifications under the given
// prefix. The channel closes when ctx is cancelled.
func (s *Store) ListenCreated(ctx context.Context, prefix string) <-chan notification.Info {
	return s.client.ListenBucketNotification(ctx, s.bucket, prefix, "", []string{
		"s3:ObjectCreated:*",
	})
}
