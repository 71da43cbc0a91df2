package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ObjectStore persists recipe image bytes and returns a public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// S3Store stores objects in an S3 bucket.
type S3Store struct {
	client *s3.Client
	bucket string
}

func NewS3Store(client *s3.Client, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to S3: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}

// LocalStore writes objects under a directory. Used in development and tests
// where no bucket is configured.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *LocalStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	path := filepath.Join(s.dir, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return s.baseURL + "/" + key, nil
}

// ImageService decodes base64-encoded recipe images and hands them to the
// configured object store.
type ImageService struct {
	store ObjectStore
}

func NewImageService(store ObjectStore) *ImageService {
	return &ImageService{store: store}
}

// media type suffix -> file extension for stored objects
var imageExtensions = map[string]string{
	"png":  ".png",
	"jpeg": ".jpg",
	"gif":  ".gif",
	"webp": ".webp",
}

// StoreBase64 accepts a "data:image/<type>;base64,<payload>" URI, decodes it
// and uploads the bytes under a fresh UUID key. A plain URL is passed through
// untouched so updates can resubmit the stored image field.
func (s *ImageService) StoreBase64(ctx context.Context, image string) (string, error) {
	if !strings.HasPrefix(image, "data:") {
		return image, nil
	}

	mediaType, payload, found := strings.Cut(image, ";base64,")
	if !found {
		return "", NewValidationError("image", "image must be base64-encoded")
	}
	mediaType = strings.TrimPrefix(mediaType, "data:")
	subtype := strings.TrimPrefix(mediaType, "image/")
	ext, ok := imageExtensions[subtype]
	if !ok {
		return "", NewValidationError("image", fmt.Sprintf("unsupported image type %q", mediaType))
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", NewValidationError("image", "invalid base64 image data")
	}

	key := "recipes/" + uuid.New().String() + ext
	url, err := s.store.Put(ctx, key, data, mediaType)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return url, nil
}
