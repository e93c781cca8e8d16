package core

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pettrack-backend-go/internal/storage"
)

// Asset validation errors. All of them fail before any network call is made.
var (
	ErrFileTooLarge        = errors.New("file exceeds the maximum allowed size")
	ErrUnsupportedFileType = errors.New("only image files are allowed")
	ErrTooManyFiles        = errors.New("too many files in one request")
	ErrNoFilesProvided     = errors.New("no files provided")
)

// imageExtensions is the extension allow-list accepted alongside image/* MIME
// types. Matches the upload filter of the mobile clients.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// assetService implements the AssetService interface. It owns the ordering
// rules that keep image URLs in records consistent with the object store:
// upload before reference, reference before best-effort cleanup.
type assetService struct {
	store       storage.ObjectStore
	maxFileSize int64
	maxBatch    int
	logger      *zap.Logger
}

// NewAssetService creates a new AssetService instance.
func NewAssetService(store storage.ObjectStore, maxFileSize int64, maxBatch int, logger *zap.Logger) (AssetService, error) {
	if store == nil {
		return nil, errors.New("ObjectStore is required for AssetService")
	}
	if logger == nil {
		return nil, errors.New("logger is required for AssetService")
	}
	if maxFileSize <= 0 || maxBatch <= 0 {
		return nil, errors.New("maxFileSize and maxBatch must be positive")
	}
	return &assetService{store: store, maxFileSize: maxFileSize, maxBatch: maxBatch, logger: logger}, nil
}

// UploadImage validates the file and uploads it under folder. The caller is
// responsible for persisting the returned URL; on error no object was
// referenced anywhere.
func (s *assetService) UploadImage(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	if err := s.validateFile(file); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file '%s': %w", file.Filename, err)
	}
	defer src.Close()

	objectPath := storage.ObjectName(folder, file.Filename)
	url, err := s.store.Upload(ctx, objectPath, contentTypeOf(file), src)
	if err != nil {
		return "", fmt.Errorf("failed to upload image '%s': %w", file.Filename, err)
	}
	return url, nil
}

// ReplaceImage uploads the new image first; only after the upload succeeds is
// save invoked to point the record at the new URL, and only after that is the
// old image deleted. A failed delete leaves a transient orphaned blob, never a
// dangling record reference, so it is logged and swallowed.
func (s *assetService) ReplaceImage(ctx context.Context, file *multipart.FileHeader, folder, oldURL string, save func(newURL string) error) (string, error) {
	newURL, err := s.UploadImage(ctx, file, folder)
	if err != nil {
		return "", err
	}

	if err := save(newURL); err != nil {
		// The record still points at the old image; the new blob is orphaned.
		s.logger.Warn("Record update failed after image upload; new image is orphaned",
			zap.String("url", newURL), zap.Error(err))
		return "", err
	}

	s.DeleteImage(ctx, oldURL)
	return newURL, nil
}

// AppendImages validates the whole batch up front, uploads all files
// concurrently, and invokes save exactly once with every URL in input order.
// If any upload fails, save is never called: the record sees all photos or
// none, and already-uploaded siblings are left as orphans for cleanup.
func (s *assetService) AppendImages(ctx context.Context, files []*multipart.FileHeader, folder string, save func(urls []string) error) ([]string, error) {
	if len(files) == 0 {
		return nil, ErrNoFilesProvided
	}
	if len(files) > s.maxBatch {
		return nil, fmt.Errorf("%w: got %d, maximum is %d", ErrTooManyFiles, len(files), s.maxBatch)
	}
	for _, f := range files {
		if err := s.validateFile(f); err != nil {
			return nil, err
		}
	}

	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			url, err := s.UploadImage(gctx, f, folder)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("Batch image upload failed; completed siblings are orphaned", zap.Error(err))
		return nil, err
	}

	if err := save(urls); err != nil {
		s.logger.Warn("Record update failed after batch upload; batch is orphaned",
			zap.Int("count", len(urls)), zap.Error(err))
		return nil, err
	}
	return urls, nil
}

// RemoveAllImages issues best-effort deletes for every URL concurrently.
// Individual failures are logged inside DeleteImage and never block the rest.
func (s *assetService) RemoveAllImages(ctx context.Context, urls []string) {
	g, gctx := errgroup.WithContext(ctx)
	for _, u := range urls {
		g.Go(func() error {
			s.DeleteImage(gctx, u)
			return nil
		})
	}
	g.Wait()
}

// DeleteImage best-effort deletes the object behind url. An empty URL is a
// no-op; a failed delete is logged and swallowed, leaving an orphaned blob as
// an acceptable cleanup concern.
func (s *assetService) DeleteImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	objectPath := storage.PathFromURL(url)
	if objectPath == "" {
		s.logger.Warn("Could not derive object path from image URL", zap.String("url", url))
		return
	}
	if err := s.store.Delete(ctx, objectPath); err != nil {
		s.logger.Warn("Best-effort image delete failed", zap.String("path", objectPath), zap.Error(err))
	}
}

// validateFile enforces the image allow-list and the configured size cap
// before any network call.
func (s *assetService) validateFile(file *multipart.FileHeader) error {
	if file == nil {
		return ErrNoFilesProvided
	}
	if file.Size > s.maxFileSize {
		return fmt.Errorf("%w: '%s' is %d bytes, maximum is %d", ErrFileTooLarge, file.Filename, file.Size, s.maxFileSize)
	}
	isImageMime := strings.HasPrefix(contentTypeOf(file), "image/")
	hasImageExt := imageExtensions[strings.ToLower(filepath.Ext(file.Filename))]
	if !isImageMime && !hasImageExt {
		return fmt.Errorf("%w: '%s'", ErrUnsupportedFileType, file.Filename)
	}
	return nil
}

func contentTypeOf(file *multipart.FileHeader) string {
	ct := file.Header.Get("Content-Type")
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}
