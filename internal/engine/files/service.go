package files

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"filedrive/internal/engine/access"
	"filedrive/internal/engine/favorites"
	"filedrive/internal/pkg/errors"
	"filedrive/internal/platform/audit"
	"filedrive/internal/platform/models"
	"filedrive/internal/platform/storage"
)

// Service is the file registry: the authoritative catalog of uploaded
// file metadata and its soft-delete lifecycle. Every operation takes the
// principal's token identifier explicitly.
type Service struct {
	repo       *Repository
	favorites  *favorites.Repository
	authorizer *access.Authorizer
	blobs      storage.BlobStore
	auditor    *audit.Recorder
}

func NewService(repo *Repository, favs *favorites.Repository, authorizer *access.Authorizer, blobs storage.BlobStore, auditor *audit.Recorder) *Service {
	return &Service{
		repo:       repo,
		favorites:  favs,
		authorizer: authorizer,
		blobs:      blobs,
		auditor:    auditor,
	}
}

// Create registers metadata for an already uploaded blob. The metadata
// row is only written after the bytes exist upstream, so a failed upload
// never leaves a dangling catalog entry.
func (s *Service) Create(principal, name, fileType, blobHandle, orgID string) (*File, error) {
	user, err := s.authorizer.AuthorizeOrg(principal, orgID)
	if err != nil {
		return nil, err
	}

	if err := ValidateNew(name, fileType, blobHandle, orgID); err != nil {
		return nil, err
	}

	if !s.blobs.Exists(blobHandle) {
		return nil, errors.ErrUpstream
	}

	now := time.Now().Unix()
	file := &File{
		ID:         uuid.New().String(),
		Name:       name,
		Type:       fileType,
		OrgID:      orgID,
		UserID:     user.ID,
		BlobHandle: blobHandle,
		State:      StateActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(file); err != nil {
		return nil, err
	}

	return file, nil
}

// List returns the organization's files narrowed by the filter. Listing
// is fail-soft: a caller without access to the org gets an empty slice,
// not an error, which is indistinguishable from "no files" and leaks
// nothing.
func (s *Service) List(principal, orgID string, filter ListFilter) ([]*File, error) {
	user, err := s.authorizer.AuthorizeOrg(principal, orgID)
	if err != nil {
		if errors.Is(err, errors.ErrUnauthorized) || errors.Is(err, errors.ErrUnauthenticated) {
			return []*File{}, nil
		}
		return nil, err
	}

	all, err := s.repo.ListByOrg(orgID)
	if err != nil {
		return nil, err
	}

	if filter.Query != "" {
		q := strings.ToLower(filter.Query)
		filtered := all[:0]
		for _, f := range all {
			if strings.Contains(strings.ToLower(f.Name), q) {
				filtered = append(filtered, f)
			}
		}
		all = filtered
	}

	if filter.FavoritesOnly {
		favs, err := s.favorites.ListByUserOrg(user.ID, orgID)
		if err != nil {
			return nil, err
		}
		favored := make(map[string]bool, len(favs))
		for _, fav := range favs {
			favored[fav.FileID] = true
		}
		filtered := all[:0]
		for _, f := range all {
			if favored[f.ID] {
				filtered = append(filtered, f)
			}
		}
		all = filtered
	}

	result := make([]*File, 0, len(all))
	for _, f := range all {
		if f.Trashed() == filter.TrashedOnly {
			result = append(result, f)
		}
	}

	return result, nil
}

// SoftDelete moves a file into the recoverable trash. Admin only.
func (s *Service) SoftDelete(principal, fileID string) error {
	user, file, err := s.authorizeFile(principal, fileID)
	if err != nil {
		return err
	}
	if err := s.authorizer.RequireAdmin(user, file.OrgID); err != nil {
		return err
	}

	if err := s.repo.MarkTrashed(fileID, time.Now()); err != nil {
		return err
	}

	s.auditor.Record(file.OrgID, user.ID, "file.soft_delete", "file", fileID, map[string]interface{}{
		"name": file.Name,
	})
	return nil
}

// Restore pulls a file back out of the trash. Admin only.
func (s *Service) Restore(principal, fileID string) error {
	user, file, err := s.authorizeFile(principal, fileID)
	if err != nil {
		return err
	}
	if err := s.authorizer.RequireAdmin(user, file.OrgID); err != nil {
		return err
	}

	if err := s.repo.Restore(fileID); err != nil {
		return err
	}

	s.auditor.Record(file.OrgID, user.ID, "file.restore", "file", fileID, map[string]interface{}{
		"name": file.Name,
	})
	return nil
}

// ToggleFavorite flips the principal's bookmark on a file. Member-level
// access suffices. This is a genuine toggle, not an idempotent set: two
// sequential calls return the favorites set to its original state.
func (s *Service) ToggleFavorite(principal, fileID string) error {
	user, file, err := s.authorizeFile(principal, fileID)
	if err != nil {
		return err
	}

	exists, err := s.favorites.Exists(user.ID, file.OrgID, file.ID)
	if err != nil {
		return err
	}

	if exists {
		return s.favorites.Remove(user.ID, file.OrgID, file.ID)
	}
	return s.favorites.Add(user.ID, file.OrgID, file.ID)
}

// ListFavorites returns the principal's favorites in an organization,
// fail-soft like List.
func (s *Service) ListFavorites(principal, orgID string) ([]*favorites.Favorite, error) {
	user, err := s.authorizer.AuthorizeOrg(principal, orgID)
	if err != nil {
		if errors.Is(err, errors.ErrUnauthorized) || errors.Is(err, errors.ErrUnauthenticated) {
			return []*favorites.Favorite{}, nil
		}
		return nil, err
	}

	favs, err := s.favorites.ListByUserOrg(user.ID, orgID)
	if err != nil {
		return nil, err
	}
	if favs == nil {
		favs = []*favorites.Favorite{}
	}
	return favs, nil
}

// DownloadURL resolves a file's blob handle to a retrievable URL. It
// deliberately performs no authorization: once a handle is known,
// possession is sufficient to fetch bytes. That trust boundary belongs
// to the blob store, not the registry.
func (s *Service) DownloadURL(fileID string) (string, error) {
	file, err := s.repo.GetByID(fileID)
	if err != nil {
		return "", err
	}
	if file == nil {
		return "", errors.ErrNotFound
	}

	if !s.blobs.Exists(file.BlobHandle) {
		log.Warn().Str("file_id", fileID).Str("handle", file.BlobHandle).
			Msg("metadata row references missing blob")
		return "", errors.ErrUpstream
	}

	return s.blobs.ResolveURL(file.BlobHandle), nil
}

// authorizeFile loads the file and delegates to the organization check.
// A missing file fails closed with ErrNotFound before any access
// decision is made.
func (s *Service) authorizeFile(principal, fileID string) (*models.User, *File, error) {
	file, err := s.repo.GetByID(fileID)
	if err != nil {
		return nil, nil, err
	}
	if file == nil {
		return nil, nil, errors.ErrNotFound
	}

	user, err := s.authorizer.AuthorizeOrg(principal, file.OrgID)
	if err != nil {
		return nil, nil, err
	}

	return user, file, nil
}
