package storage

import (
	"io"
	"strings"
	"testing"

	"filedrive/internal/platform/config"
)

func newTestStore(t *testing.T, maxSize int64) *DiskStore {
	t.Helper()

	store, err := NewDiskStore(config.StorageConfig{
		RootDir:        t.TempDir(),
		PublicBaseURL:  "http://localhost:8080/",
		MaxUploadBytes: maxSize,
	})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func TestDiskStore_SaveOpenDeleteRoundTrip(t *testing.T) {
	store := newTestStore(t, 0)

	handle, uploadURL := store.GenerateUploadReference()
	if !strings.HasPrefix(uploadURL, "http://localhost:8080/uploads/") {
		t.Errorf("Unexpected upload url: %s", uploadURL)
	}

	if store.Exists(handle) {
		t.Error("Blob must not exist before save")
	}

	content := "quarterly report contents"
	n, err := store.Save(handle, strings.NewReader(content))
	if err != nil {
		t.Fatalf("Failed to save blob: %v", err)
	}
	if n != int64(len(content)) {
		t.Errorf("Expected %d bytes written, got %d", len(content), n)
	}
	if !store.Exists(handle) {
		t.Error("Blob should exist after save")
	}

	f, err := store.Open(handle)
	if err != nil {
		t.Fatalf("Failed to open blob: %v", err)
	}
	got, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		t.Fatalf("Failed to read blob: %v", err)
	}
	if string(got) != content {
		t.Errorf("Expected %q, got %q", content, got)
	}

	if err := store.Delete(handle); err != nil {
		t.Fatalf("Failed to delete blob: %v", err)
	}
	if store.Exists(handle) {
		t.Error("Blob should not exist after delete")
	}

	if _, err := store.Open(handle); err != ErrBlobNotFound {
		t.Errorf("Expected ErrBlobNotFound, got %v", err)
	}
}

func TestDiskStore_DeleteAbsentIsNoop(t *testing.T) {
	store := newTestStore(t, 0)

	handle, _ := store.GenerateUploadReference()
	if err := store.Delete(handle); err != nil {
		t.Errorf("Deleting an absent blob should not fail, got %v", err)
	}
}

func TestDiskStore_SizeLimit(t *testing.T) {
	store := newTestStore(t, 8)

	handle, _ := store.GenerateUploadReference()
	if _, err := store.Save(handle, strings.NewReader("this payload is over the limit")); err == nil {
		t.Error("Expected error for oversized blob")
	}
	if store.Exists(handle) {
		t.Error("Oversized upload must not leave a blob behind")
	}

	handle2, _ := store.GenerateUploadReference()
	if _, err := store.Save(handle2, strings.NewReader("12345678")); err != nil {
		t.Errorf("Upload exactly at the limit should succeed, got %v", err)
	}
}

func TestDiskStore_RejectsInvalidHandle(t *testing.T) {
	store := newTestStore(t, 0)

	if _, err := store.Save("../../etc/passwd", strings.NewReader("x")); err == nil {
		t.Error("Expected error for non-uuid handle on save")
	}
	if _, err := store.Open("not-a-uuid"); err == nil {
		t.Error("Expected error for non-uuid handle on open")
	}
	if store.Exists("not-a-uuid") {
		t.Error("Exists must be false for non-uuid handle")
	}
}

func TestDiskStore_ResolveURL(t *testing.T) {
	store := newTestStore(t, 0)

	handle, _ := store.GenerateUploadReference()
	want := "http://localhost:8080/blobs/" + handle
	if got := store.ResolveURL(handle); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}
