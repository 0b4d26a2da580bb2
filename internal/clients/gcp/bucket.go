package gcp

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
)

type BucketCategory string

const (
	// BucketCategoryMedia holds lesson videos and notes.
	BucketCategoryMedia BucketCategory = "media"
	// BucketCategoryAvatar holds teacher photos and generated initials avatars.
	BucketCategoryAvatar BucketCategory = "avatar"
)

type BucketConfig struct {
	Credentials     string
	MediaBucket     string
	MediaCDNDomain  string
	AvatarBucket    string
	AvatarCDNDomain string
}

type bucketConfig struct {
	name      string
	cdnDomain string
}

type BucketService interface {
	UploadFile(dbc dbctx.Context, category BucketCategory, key string, file io.Reader) error
	DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error
	GetPublicURL(category BucketCategory, key string) string
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	media         bucketConfig
	avatar        bucketConfig
}

func NewBucketService(log *logger.Logger, cfg BucketConfig) (BucketService, error) {
	serviceLog := log.With("service", "BucketService")

	if strings.TrimSpace(cfg.MediaBucket) == "" {
		return nil, fmt.Errorf("missing MEDIA_GCS_BUCKET_NAME")
	}
	if strings.TrimSpace(cfg.AvatarBucket) == "" {
		return nil, fmt.Errorf("missing AVATAR_GCS_BUCKET_NAME")
	}

	opts := ClientOptions(cfg.Credentials)
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	stClient, err := storage.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &bucketService{
		log:           serviceLog,
		storageClient: stClient,
		media:         bucketConfig{name: cfg.MediaBucket, cdnDomain: cfg.MediaCDNDomain},
		avatar:        bucketConfig{name: cfg.AvatarBucket, cdnDomain: cfg.AvatarCDNDomain},
	}, nil
}

func (bs *bucketService) getBucketConfig(category BucketCategory) (bucketConfig, error) {
	switch category {
	case BucketCategoryMedia:
		return bs.media, nil
	case BucketCategoryAvatar:
		return bs.avatar, nil
	default:
		return bucketConfig{}, fmt.Errorf("unknown bucket category: %s", category)
	}
}

func (bs *bucketService) UploadFile(dbc dbctx.Context, category BucketCategory, key string, file io.Reader) error {
	cfg, err := bs.getBucketConfig(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(dbc.Context(), 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(cfg.name).Object(key).NewWriter(ctx)
	if ct := ContentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	bs.log.Debug("uploaded object", "bucket", cfg.name, "key", key)
	return nil
}

func (bs *bucketService) DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error {
	cfg, err := bs.getBucketConfig(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(dbc.Context(), 30*time.Second)
	defer cancel()
	if err := bs.storageClient.Bucket(cfg.name).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, cfg.name, err)
	}
	return nil
}

func (bs *bucketService) GetPublicURL(category BucketCategory, key string) string {
	cfg, err := bs.getBucketConfig(category)
	if err != nil {
		return key
	}
	return PublicURL(cfg.name, cfg.cdnDomain, key)
}

// PublicURL prefers the CDN domain and falls back to the storage.googleapis.com path.
func PublicURL(bucket, cdnDomain, key string) string {
	key = strings.TrimLeft(key, "/")
	if cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", strings.TrimRight(cdnDomain, "/"), key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key)
}

func ContentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	switch path.Ext(s) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".mp4", ".m4v":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	case ".pdf":
		return "application/pdf"
	default:
		return ""
	}
}
