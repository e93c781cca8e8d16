package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pettrack-backend-go/internal/storage"
)

const testBucket = "test-bucket"

// recordingStore records uploads and deletes in order and can be told to fail
// selectively by object-path substring.
type recordingStore struct {
	mu         sync.Mutex
	events     []string
	uploads    []string
	deletes    []string
	failUpload string // substring of object path whose upload fails
	failDelete bool
}

func (f *recordingStore) Upload(_ context.Context, objectPath, _ string, _ io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpload != "" && strings.Contains(objectPath, f.failUpload) {
		return "", errors.New("store rejected upload")
	}
	f.events = append(f.events, "upload:"+objectPath)
	f.uploads = append(f.uploads, objectPath)
	return storage.PublicURL(testBucket, objectPath), nil
}

func (f *recordingStore) Delete(_ context.Context, objectPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, "delete:"+objectPath)
	if f.failDelete {
		return errors.New("store rejected delete")
	}
	f.deletes = append(f.deletes, objectPath)
	return nil
}

func (f *recordingStore) uploadedPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uploads...)
}

func (f *recordingStore) deletedPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deletes...)
}

func (f *recordingStore) eventLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

func newFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func newTestAssetService(t *testing.T, store storage.ObjectStore, maxFileSize int64, maxBatch int) AssetService {
	t.Helper()
	svc, err := NewAssetService(store, maxFileSize, maxBatch, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestUploadImageRejectsOversizedFile(t *testing.T) {
	store := &recordingStore{}
	svc := newTestAssetService(t, store, 10, 5)

	file := newFileHeader(t, "big.jpg", "image/jpeg", bytes.Repeat([]byte("x"), 11))
	_, err := svc.UploadImage(context.Background(), file, "pets")

	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Empty(t, store.uploadedPaths())
}

func TestUploadImageRejectsNonImageFile(t *testing.T) {
	store := &recordingStore{}
	svc := newTestAssetService(t, store, 1024, 5)

	file := newFileHeader(t, "notes.txt", "text/plain", []byte("hello"))
	_, err := svc.UploadImage(context.Background(), file, "pets")

	assert.ErrorIs(t, err, ErrUnsupportedFileType)
	assert.Empty(t, store.uploadedPaths())
}

func TestUploadImageAcceptsImageByExtension(t *testing.T) {
	store := &recordingStore{}
	svc := newTestAssetService(t, store, 1024, 5)

	// No usable MIME type, but a known image extension.
	file := newFileHeader(t, "photo.PNG", "application/octet-stream", []byte("data"))
	url, err := svc.UploadImage(context.Background(), file, "pets")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://storage.googleapis.com/"+testBucket+"/pets/"))
	assert.True(t, strings.HasSuffix(url, "-photo.PNG"))
}

func TestReplaceImageUploadsThenSavesThenDeletes(t *testing.T) {
	store := &recordingStore{}
	svc := newTestAssetService(t, store, 1024, 5)

	oldURL := storage.PublicURL(testBucket, "users/old-image.jpg")
	var events []string
	file := newFileHeader(t, "new.jpg", "image/jpeg", []byte("data"))

	newURL, err := svc.ReplaceImage(context.Background(), file, "users", oldURL, func(url string) error {
		events = append(events, "save:"+url)
		return nil
	})

	require.NoError(t, err)
	require.Len(t, store.uploadedPaths(), 1)
	require.Len(t, store.deletedPaths(), 1)
	assert.Equal(t, "users/old-image.jpg", store.deletedPaths()[0])
	assert.Equal(t, []string{"save:" + newURL}, events)

	// The delete must come after the save: the record never dangles.
	log := store.eventLog()
	require.Len(t, log, 2)
	assert.True(t, strings.HasPrefix(log[0], "upload:"))
	assert.True(t, strings.HasPrefix(log[1], "delete:"))
}

func TestReplaceImageKeepsOldImageWhenSaveFails(t *testing.T) {
	store := &recordingStore{}
	svc := newTestAssetService(t, store, 1024, 5)

	file := newFileHeader(t, "new.jpg", "image/jpeg", []byte("data"))
	_, err := svc.ReplaceImage(context.Background(), file, "users", "https://storage.googleapis.com/b/users/old.jpg", func(string) error {
		return errors.New("record write failed")
	})

	require.Error(t, err)
	assert.Empty(t, store.deletedPaths(), "old image must survive a failed record write")
}

func TestReplaceImageSwallowsDeleteFailure(t *testing.T) {
	store := &recordingStore{failDelete: true}
	svc := newTestAssetService(t, store, 1024, 5)

	file := newFileHeader(t, "new.jpg", "image/jpeg", []byte("data"))
	saved := false
	newURL, err := svc.ReplaceImage(context.Background(), file, "users", "https://storage.googleapis.com/b/users/old.jpg", func(string) error {
		saved = true
		return nil
	})

	require.NoError(t, err, "a failed best-effort delete must not fail the replace")
	assert.True(t, saved)
	assert.NotEmpty(t, newURL)
}

func TestAppendImagesRejectsOverCapBatch(t *testing.T) {
	store := &recordingStore{}
	svc := newTestAssetService(t, store, 1024, 2)

	files := []*multipart.FileHeader{
		newFileHeader(t, "a.jpg", "image/jpeg", []byte("a")),
		newFileHeader(t, "b.jpg", "image/jpeg", []byte("b")),
		newFileHeader(t, "c.jpg", "image/jpeg", []byte("c")),
	}
	_, err := svc.AppendImages(context.Background(), files, "pets", func([]string) error {
		t.Fatal("save must not be called for an over-cap batch")
		return nil
	})

	assert.ErrorIs(t, err, ErrTooManyFiles)
	assert.Empty(t, store.uploadedPaths())
}

func TestAppendImagesRejectsEmptyBatch(t *testing.T) {
	svc := newTestAssetService(t, &recordingStore{}, 1024, 5)

	_, err := svc.AppendImages(context.Background(), nil, "pets", func([]string) error { return nil })
	assert.ErrorIs(t, err, ErrNoFilesProvided)
}

func TestAppendImagesValidatesWholeBatchBeforeUploading(t *testing.T) {
	store := &recordingStore{}
	svc := newTestAssetService(t, store, 1024, 5)

	files := []*multipart.FileHeader{
		newFileHeader(t, "ok.jpg", "image/jpeg", []byte("a")),
		newFileHeader(t, "bad.txt", "text/plain", []byte("b")),
	}
	_, err := svc.AppendImages(context.Background(), files, "pets", func([]string) error {
		t.Fatal("save must not be called for an invalid batch")
		return nil
	})

	assert.ErrorIs(t, err, ErrUnsupportedFileType)
	assert.Empty(t, store.uploadedPaths(), "no upload may start before the whole batch validates")
}

func TestAppendImagesNeverSavesOnUploadFailure(t *testing.T) {
	store := &recordingStore{failUpload: "broken"}
	svc := newTestAssetService(t, store, 1024, 5)

	files := []*multipart.FileHeader{
		newFileHeader(t, "fine.jpg", "image/jpeg", []byte("a")),
		newFileHeader(t, "broken.jpg", "image/jpeg", []byte("b")),
	}
	_, err := svc.AppendImages(context.Background(), files, "pets", func([]string) error {
		t.Fatal("save must not be called when any upload fails")
		return nil
	})

	require.Error(t, err)
}

func TestAppendImagesPreservesInputOrder(t *testing.T) {
	store := &recordingStore{}
	svc := newTestAssetService(t, store, 1024, 5)

	files := []*multipart.FileHeader{
		newFileHeader(t, "first.jpg", "image/jpeg", []byte("1")),
		newFileHeader(t, "second.jpg", "image/jpeg", []byte("2")),
		newFileHeader(t, "third.jpg", "image/jpeg", []byte("3")),
	}
	var saved []string
	urls, err := svc.AppendImages(context.Background(), files, "pets", func(urls []string) error {
		saved = urls
		return nil
	})

	require.NoError(t, err)
	require.Len(t, urls, 3)
	assert.Equal(t, urls, saved)
	assert.True(t, strings.HasSuffix(urls[0], "-first.jpg"))
	assert.True(t, strings.HasSuffix(urls[1], "-second.jpg"))
	assert.True(t, strings.HasSuffix(urls[2], "-third.jpg"))
}

func TestRemoveAllImagesDeletesEveryURL(t *testing.T) {
	store := &recordingStore{}
	svc := newTestAssetService(t, store, 1024, 5)

	svc.RemoveAllImages(context.Background(), []string{
		storage.PublicURL(testBucket, "pets/one.jpg"),
		storage.PublicURL(testBucket, "pets/two.jpg"),
		"",
	})

	assert.ElementsMatch(t, []string{"pets/one.jpg", "pets/two.jpg"}, store.deletedPaths())
}

func TestDeleteImageEmptyURLIsNoOp(t *testing.T) {
	store := &recordingStore{}
	svc := newTestAssetService(t, store, 1024, 5)

	svc.DeleteImage(context.Background(), "")
	assert.Empty(t, store.deletedPaths())
}
