package retention

import (
	"time"

	"github.com/rs/zerolog/log"

	"filedrive/internal/engine/favorites"
	"filedrive/internal/engine/files"
	"filedrive/internal/platform/storage"
)

// Sweeper permanently purges files that have sat in the trash longer
// than the retention period. Retention policy: a rolling window measured
// from the moment the file was trashed (not a calendar schedule); the
// sweep itself runs on a short fixed interval, so a file is purged by
// the first run after its window elapses.
type Sweeper struct {
	files     *files.Repository
	favorites *favorites.Repository
	blobs     storage.BlobStore
	retention time.Duration

	// now is swappable so tests can advance the clock.
	now func() time.Time
}

func NewSweeper(filesRepo *files.Repository, favs *favorites.Repository, blobs storage.BlobStore, retention time.Duration) *Sweeper {
	return &Sweeper{
		files:     filesRepo,
		favorites: favs,
		blobs:     blobs,
		retention: retention,
		now:       time.Now,
	}
}

// Sweep runs one pass over the trash. Each file is handled
// independently: a failure on one is logged and skipped, never aborting
// the batch. Returns how many files were purged.
func (s *Sweeper) Sweep() (int, error) {
	trashed, err := s.files.ListTrashed()
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, file := range trashed {
		if !s.expired(file) {
			continue
		}
		if s.purge(file) {
			purged++
		}
	}

	if purged > 0 || len(trashed) > 0 {
		log.Info().Int("trashed", len(trashed)).Int("purged", purged).Msg("retention sweep complete")
	}
	return purged, nil
}

func (s *Sweeper) expired(file *files.File) bool {
	if file.TrashedAt == nil {
		// Should be unrepresentable; treat as not yet expired rather
		// than destroying data on a corrupt row.
		log.Error().Str("file_id", file.ID).Msg("trashed file has no trashed_at timestamp")
		return false
	}
	age := s.now().Sub(time.UnixMilli(*file.TrashedAt))
	return age >= s.retention
}

// purge hard-deletes one file. Favorite cleanup and blob deletion both
// happen before the metadata row is removed, so a crash mid-purge leaves
// either "not yet started" or "fully cleaned" as the only observable end
// states; a dangling row over a deleted blob is retried next sweep.
func (s *Sweeper) purge(file *files.File) bool {
	if err := s.favorites.RemoveByFile(file.ID); err != nil {
		log.Error().Err(err).Str("file_id", file.ID).Msg("failed to remove favorites, skipping file")
		return false
	}

	// Re-check the lifecycle state as close to the destructive steps as
	// the store allows: an admin may have restored the file since the
	// scan collected it.
	current, err := s.files.GetByID(file.ID)
	if err != nil {
		log.Error().Err(err).Str("file_id", file.ID).Msg("failed to re-check file state, skipping file")
		return false
	}
	if current == nil || !current.Trashed() {
		return false
	}

	if err := s.blobs.Delete(file.BlobHandle); err != nil {
		// Blob store unavailable: keep the metadata row so the next
		// sweep retries the whole purge.
		log.Error().Err(err).Str("file_id", file.ID).Str("handle", file.BlobHandle).
			Msg("failed to delete blob, skipping file")
		return false
	}

	// The delete re-checks the trashed state atomically: an admin may
	// have restored the file since the scan.
	deleted, err := s.files.DeleteIfTrashed(file.ID)
	if err != nil {
		log.Error().Err(err).Str("file_id", file.ID).Msg("failed to delete file record")
		return false
	}
	if !deleted {
		log.Info().Str("file_id", file.ID).Msg("file restored during sweep, left intact")
		return false
	}

	log.Info().Str("file_id", file.ID).Str("org_id", file.OrgID).Str("name", file.Name).
		Msg("purged expired file")
	return true
}
