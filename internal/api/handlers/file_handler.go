package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "filedrive/internal/api/context"
	"filedrive/internal/api/middleware"
	"filedrive/internal/engine/files"
	"filedrive/internal/pkg/errors"
)

type FileHandler struct {
	files *files.Service
}

func NewFileHandler(filesSvc *files.Service) *FileHandler {
	return &FileHandler{files: filesSvc}
}

func (h *FileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		Type       string `json:"type"`
		BlobHandle string `json:"blob_handle"`
		OrgID      string `json:"org_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	file, err := h.files.Create(middleware.Principal(r), req.Name, req.Type, req.BlobHandle, req.OrgID)
	if err != nil {
		errors.WriteDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(file)
}

func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	orgID := query.Get("org_id")
	if orgID == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "org_id is required", nil)
		return
	}

	filter := files.ListFilter{
		Query:         query.Get("q"),
		FavoritesOnly: query.Get("favorites") == "true",
		TrashedOnly:   query.Get("trashed") == "true",
	}

	list, err := h.files.List(middleware.Principal(r), orgID, filter)
	if err != nil {
		errors.WriteDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *FileHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	fileID := pathParam(r, "file_id")

	if err := h.files.SoftDelete(middleware.Principal(r), fileID); err != nil {
		errors.WriteDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *FileHandler) Restore(w http.ResponseWriter, r *http.Request) {
	fileID := pathParam(r, "file_id")

	if err := h.files.Restore(middleware.Principal(r), fileID); err != nil {
		errors.WriteDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Download resolves the file's blob to a URL and redirects. No
// authorization beyond knowing the file id: handle possession is the
// blob store's trust boundary.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	fileID := pathParam(r, "file_id")

	url, err := h.files.DownloadURL(fileID)
	if err != nil {
		errors.WriteDomainError(w, err)
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}

func (h *FileHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	fileID := pathParam(r, "file_id")

	if err := h.files.ToggleFavorite(middleware.Principal(r), fileID); err != nil {
		errors.WriteDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *FileHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("org_id")
	if orgID == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "org_id is required", nil)
		return
	}

	favs, err := h.files.ListFavorites(middleware.Principal(r), orgID)
	if err != nil {
		errors.WriteDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(favs)
}

func pathParam(r *http.Request, name string) string {
	params, ok := r.Context().Value(apiContext.Params).(httprouter.Params)
	if !ok {
		return ""
	}
	return params.ByName(name)
}
