package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"filedrive/internal/platform/config"
)

var ErrBlobNotFound = errors.New("blob not found")

// DiskStore keeps blobs on the local filesystem, sharded by handle
// prefix to keep directories small.
type DiskStore struct {
	root    string
	baseURL string
	maxSize int64
}

func NewDiskStore(cfg config.StorageConfig) (*DiskStore, error) {
	if err := os.MkdirAll(cfg.RootDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob root: %w", err)
	}

	return &DiskStore{
		root:    cfg.RootDir,
		baseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		maxSize: cfg.MaxUploadBytes,
	}, nil
}

func (s *DiskStore) GenerateUploadReference() (string, string) {
	handle := uuid.New().String()
	return handle, fmt.Sprintf("%s/uploads/%s", s.baseURL, handle)
}

func (s *DiskStore) path(handle string) string {
	// Handles are uuids, so the first two characters shard evenly.
	return filepath.Join(s.root, handle[:2], handle)
}

func (s *DiskStore) Save(handle string, r io.Reader) (int64, error) {
	if err := validateHandle(handle); err != nil {
		return 0, err
	}

	path := s.path(handle)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, err
	}

	// Write to a temp file first so a failed upload never leaves a
	// partially written blob behind the final handle.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	var src io.Reader = r
	if s.maxSize > 0 {
		src = io.LimitReader(r, s.maxSize+1)
	}

	n, err := io.Copy(tmp, src)
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if s.maxSize > 0 && n > s.maxSize {
		tmp.Close()
		return 0, fmt.Errorf("blob exceeds maximum size of %d bytes", s.maxSize)
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}

	return n, os.Rename(tmp.Name(), path)
}

func (s *DiskStore) Open(handle string) (io.ReadSeekCloser, error) {
	if err := validateHandle(handle); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path(handle))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *DiskStore) ResolveURL(handle string) string {
	return fmt.Sprintf("%s/blobs/%s", s.baseURL, handle)
}

func (s *DiskStore) Delete(handle string) error {
	if err := validateHandle(handle); err != nil {
		return err
	}

	err := os.Remove(s.path(handle))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *DiskStore) Exists(handle string) bool {
	if validateHandle(handle) != nil {
		return false
	}
	_, err := os.Stat(s.path(handle))
	return err == nil
}

func validateHandle(handle string) error {
	if _, err := uuid.Parse(handle); err != nil {
		return fmt.Errorf("invalid blob handle %q", handle)
	}
	return nil
}
