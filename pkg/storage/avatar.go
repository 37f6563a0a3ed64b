package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"backend-template/pkg/utils"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const (
	MaxAvatarSize    = 5 * 1024 * 1024
	presignedURLTTL  = 15 * time.Minute
	avatarPathPrefix = "avatars"
)

var (
	ErrFileTooBig      = errors.New("file size exceeds 5MB limit")
	ErrInvalidFileType = errors.New("only JPEG and PNG images are allowed")
	ErrUploadFailed    = errors.New("failed to upload file")

	allowedContentTypes = map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
	}
)

// AvatarStorage stores user avatars and hands out temporary links to them.
type AvatarStorage interface {
	UploadAvatar(ctx context.Context, userID uuid.UUID, file io.Reader, size int64, contentType string) (string, error)
	AvatarURL(ctx context.Context, objectKey string) (string, error)
	DeleteAvatar(ctx context.Context, objectKey string) error
}

type minioStorage struct {
	client *minio.Client
	bucket string
	log    *zap.Logger

	mu           sync.Mutex
	bucketExists bool
}

// NewMinIOStorage builds the client only. The bucket is checked on first upload.
func NewMinIOStorage(cfg utils.MinIOConfig, log *zap.Logger) (AvatarStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &minioStorage{
		client: client,
		bucket: cfg.Bucket,
		log:    log.With(zap.String("bucket", cfg.Bucket)),
	}, nil
}

func (s *minioStorage) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bucketExists {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
		s.log.Info("Created avatar bucket")
	}

	s.bucketExists = true
	return nil
}

func (s *minioStorage) UploadAvatar(ctx context.Context, userID uuid.UUID, file io.Reader, size int64, contentType string) (string, error) {
	objectKey, contentType, err := avatarKey(userID, size, contentType)
	if err != nil {
		return "", err
	}

	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, objectKey, file, size, minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"User-ID":     userID.String(),
			"Uploaded-At": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		s.log.Error("Failed to upload avatar", zap.String("user_id", userID.String()), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	s.log.Info("Avatar uploaded", zap.String("user_id", userID.String()), zap.String("key", objectKey))
	return objectKey, nil
}

func (s *minioStorage) AvatarURL(ctx context.Context, objectKey string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, presignedURLTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", objectKey, err)
	}
	return u.String(), nil
}

func (s *minioStorage) DeleteAvatar(ctx context.Context, objectKey string) error {
	if strings.TrimSpace(objectKey) == "" {
		return nil
	}

	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", objectKey, err)
	}
	return nil
}

// avatarKey validates the upload and returns its object key and the
// normalized content type.
func avatarKey(userID uuid.UUID, size int64, contentType string) (string, string, error) {
	if size > MaxAvatarSize {
		return "", "", ErrFileTooBig
	}

	normalized := strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := allowedContentTypes[normalized]
	if !ok {
		return "", "", ErrInvalidFileType
	}

	return fmt.Sprintf("%s/%s/%s%s", avatarPathPrefix, userID, uuid.NewString(), ext), normalized, nil
}
