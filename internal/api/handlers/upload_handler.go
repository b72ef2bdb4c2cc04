package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"filedrive/internal/pkg/errors"
	"filedrive/internal/platform/storage"
)

type UploadHandler struct {
	blobs storage.BlobStore
}

func NewUploadHandler(blobs storage.BlobStore) *UploadHandler {
	return &UploadHandler{blobs: blobs}
}

// GenerateUploadReference hands the caller a fresh blob handle and the
// URL to PUT the bytes to. The caller registers file metadata with the
// handle only after the upload succeeds.
func (h *UploadHandler) GenerateUploadReference(w http.ResponseWriter, r *http.Request) {
	handle, uploadURL := h.blobs.GenerateUploadReference()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Handle    string `json:"handle"`
		UploadURL string `json:"upload_url"`
	}{Handle: handle, UploadURL: uploadURL})
}

// Receive accepts the uploaded bytes for a previously generated handle.
// Possession of the handle is the only credential, matching the blob
// store's trust boundary.
func (h *UploadHandler) Receive(w http.ResponseWriter, r *http.Request) {
	handle := pathParam(r, "handle")

	size, err := h.blobs.Save(handle, r.Body)
	if err != nil {
		log.Error().Err(err).Str("handle", handle).Msg("blob upload failed")
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Upload failed", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(struct {
		Handle string `json:"handle"`
		Size   int64  `json:"size"`
	}{Handle: handle, Size: size})
}

// Serve streams a blob back by handle.
func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	handle := pathParam(r, "handle")

	blob, err := h.blobs.Open(handle)
	if err != nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Blob not found", nil)
		return
	}
	defer blob.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, blob); err != nil {
		log.Error().Err(err).Str("handle", handle).Msg("blob serve interrupted")
	}
}
