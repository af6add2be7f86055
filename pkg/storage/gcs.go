package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
)

// GCSStore uploads files to a Cloud Storage bucket. Objects are expected to be
// publicly readable through bucket-level IAM.
type GCSStore struct {
	client        *storage.Client
	bucket        string
	prefix        string
	publicBaseURL string
}

func NewGCSStore(client *storage.Client, bucket, prefix string) *GCSStore {
	return &GCSStore{
		client:        client,
		bucket:        strings.TrimSpace(bucket),
		prefix:        strings.Trim(prefix, "/"),
		publicBaseURL: "https://storage.googleapis.com",
	}
}

func (s *GCSStore) objectPath(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

func (s *GCSStore) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	if s.client == nil || s.bucket == "" {
		return "", errors.New("gcs store is not configured")
	}

	obj := s.objectPath(name)
	w := s.client.Bucket(s.bucket).Object(obj).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs upload %s: %w", obj, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs upload %s: %w", obj, err)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, obj), nil
}
