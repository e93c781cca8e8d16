package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// ObjectStore abstracts the object-storage operations the asset coordinator
// needs: upload a publicly-readable blob and delete one by its store path.
type ObjectStore interface {
	// Upload writes the reader's content to objectPath, makes the object
	// publicly readable, and returns its public URL.
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
	// Delete removes the object at objectPath from the store.
	Delete(ctx context.Context, objectPath string) error
}

const publicURLHost = "https://storage.googleapis.com"

// ObjectName builds a store path of the form
// folder/<unixMillis>-<random>-<originalName>. The timestamp+random prefix
// keeps concurrent uploads of identically named files from colliding.
func ObjectName(folder, originalName string) string {
	return fmt.Sprintf("%s/%d-%s-%s", folder, time.Now().UnixMilli(), uuid.NewString()[:12], originalName)
}

// PublicURL returns the public URL for an object in a bucket.
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s/%s/%s", publicURLHost, bucket, objectPath)
}

// PathFromURL derives the store-relative object path (folder/filename) from a
// public URL by taking its last two path segments. Returns "" when the URL has
// fewer than two segments.
func PathFromURL(fileURL string) string {
	parts := strings.Split(fileURL, "/")
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[len(parts)-2:], "/")
}

// gcsObjectStore implements ObjectStore over a Google Cloud Storage bucket.
type gcsObjectStore struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

// NewGCSObjectStore creates an ObjectStore backed by the given bucket handle.
func NewGCSObjectStore(bucket *gcs.BucketHandle, bucketName string) ObjectStore {
	return &gcsObjectStore{bucket: bucket, bucketName: bucketName}
}

// Upload streams the content to the bucket, marks the object publicly
// readable, and returns the public URL. If the write fails nothing is
// referenced yet, so the caller must not have persisted anything.
func (s *gcsObjectStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	obj := s.bucket.Object(objectPath)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.ChunkSize = 0 // single-shot upload; these are small image files

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object '%s': %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object '%s': %w", objectPath, err)
	}

	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return "", fmt.Errorf("failed to make object '%s' public: %w", objectPath, err)
	}

	return PublicURL(s.bucketName, objectPath), nil
}

// Delete removes the object from the bucket.
func (s *gcsObjectStore) Delete(ctx context.Context, objectPath string) error {
	if err := s.bucket.Object(objectPath).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object '%s': %w", objectPath, err)
	}
	return nil
}
