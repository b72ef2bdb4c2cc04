package storage

import (
	"io"
)

// BlobStore is the external binary store the registry writes handles
// against. Handles are opaque: possession of a handle is sufficient to
// fetch bytes, mirroring the upstream trust boundary.
type BlobStore interface {
	// GenerateUploadReference returns a fresh handle and the URL the
	// caller uploads bytes to out-of-band.
	GenerateUploadReference() (handle string, uploadURL string)
	// Save stores the bytes for a previously generated handle.
	Save(handle string, r io.Reader) (int64, error)
	// Open returns a reader over the stored bytes.
	Open(handle string) (io.ReadSeekCloser, error)
	// ResolveURL maps a handle to its externally retrievable URL.
	ResolveURL(handle string) string
	// Delete removes the blob. Deleting an absent handle is not an
	// error, so an interrupted sweep can be retried.
	Delete(handle string) error
	// Exists reports whether bytes are present for the handle.
	Exists(handle string) bool
}
