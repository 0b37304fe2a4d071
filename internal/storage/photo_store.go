package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/lord-einar/megasys/internal/config"
)

// PhotoStore keeps profile photos in object storage and hands out presigned
// read URLs for the auth payloads.
type PhotoStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewPhotoStore(cfg config.StorageConfig) (*PhotoStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &PhotoStore{
		client: client,
		cfg:    cfg,
	}, nil
}

func (s *PhotoStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.BucketPhotos)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.cfg.BucketPhotos, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.BucketPhotos, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.cfg.BucketPhotos, err)
		}
	}
	return nil
}

// Put stores a photo under the given object key.
func (s *PhotoStore) Put(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.cfg.BucketPhotos, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put photo %s: %w", objectKey, err)
	}
	return nil
}

// ResolveURL turns a stored reference into something a browser can fetch.
// Absolute URLs (photos hosted by the identity provider) pass through
// untouched; bare object keys get a presigned GET.
func (s *PhotoStore) ResolveURL(ctx context.Context, stored string) (string, error) {
	if strings.HasPrefix(stored, "http://") || strings.HasPrefix(stored, "https://") {
		return stored, nil
	}

	presigned, err := s.client.PresignedGetObject(ctx, s.cfg.BucketPhotos, stored, s.cfg.PresignExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign photo %s: %w", stored, err)
	}
	return presigned.String(), nil
}
