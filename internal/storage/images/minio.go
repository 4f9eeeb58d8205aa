package images

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const originalNameKey = "original-name"

// MinioConfig holds connection settings for the object store
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioStore keeps images as objects in one bucket
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects and creates the bucket when missing
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *MinioStore) Put(ctx context.Context, data []byte, mimeType, fileName string) (Handle, error) {
	handle := newHandle(mimeType, fileName, int64(len(data)))

	_, err := s.client.PutObject(ctx, s.bucket, handle.ID, bytes.NewReader(data), handle.Size, minio.PutObjectOptions{
		ContentType:  mimeType,
		UserMetadata: map[string]string{originalNameKey: fileName},
	})
	if err != nil {
		return Handle{}, fmt.Errorf("failed to upload image: %w", err)
	}
	return handle, nil
}

func (s *MinioStore) Open(ctx context.Context, id string) (io.ReadCloser, Handle, error) {
	info, err := s.client.StatObject(ctx, s.bucket, id, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, Handle{}, ErrNotFound
		}
		return nil, Handle{}, fmt.Errorf("failed to stat image: %w", err)
	}

	object, err := s.client.GetObject(ctx, s.bucket, id, minio.GetObjectOptions{})
	if err != nil {
		return nil, Handle{}, fmt.Errorf("failed to download image: %w", err)
	}

	handle := Handle{
		ID:       id,
		URL:      URLPrefix + id,
		MIMEType: info.ContentType,
		FileName: info.UserMetadata["Original-Name"],
		Size:     info.Size,
	}
	return object, handle, nil
}

func (s *MinioStore) Release(ctx context.Context, id string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, id, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}
