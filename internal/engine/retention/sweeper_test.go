package retention

import (
	"database/sql"
	"errors"
	"io"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"filedrive/internal/engine/favorites"
	"filedrive/internal/engine/files"
	"filedrive/internal/platform/database"
)

type stubBlobStore struct {
	deleted  []string
	failFor  map[string]error
	onDelete func(handle string)
}

func (s *stubBlobStore) GenerateUploadReference() (string, string)      { return "", "" }
func (s *stubBlobStore) Save(string, io.Reader) (int64, error)          { return 0, nil }
func (s *stubBlobStore) Open(string) (io.ReadSeekCloser, error)         { return nil, nil }
func (s *stubBlobStore) ResolveURL(handle string) string                { return handle }
func (s *stubBlobStore) Exists(string) bool                             { return true }
func (s *stubBlobStore) Delete(handle string) error {
	if s.onDelete != nil {
		s.onDelete(handle)
	}
	if err, ok := s.failFor[handle]; ok {
		return err
	}
	s.deleted = append(s.deleted, handle)
	return nil
}

type fixture struct {
	db        *sql.DB
	files     *files.Repository
	favorites *favorites.Repository
	blobs     *stubBlobStore
	sweeper   *Sweeper
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(database.Schema); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}

	f := &fixture{
		db:        db,
		files:     files.NewRepository(db),
		favorites: favorites.NewRepository(db),
		blobs:     &stubBlobStore{failFor: map[string]error{}},
	}
	f.sweeper = NewSweeper(f.files, f.favorites, f.blobs, 30*24*time.Hour)
	return f
}

// addTrashed inserts a file trashed the given number of days ago.
func (f *fixture) addTrashed(t *testing.T, id string, daysAgo int) {
	t.Helper()
	now := time.Now()

	file := &files.File{
		ID: id, Name: id + ".pdf", Type: files.TypePDF,
		OrgID: "org1", UserID: "user1", BlobHandle: "blob-" + id,
		State:     files.StateActive,
		CreatedAt: now.Unix(), UpdatedAt: now.Unix(),
	}
	if err := f.files.Create(file); err != nil {
		t.Fatalf("Failed to create file %s: %v", id, err)
	}
	if err := f.files.MarkTrashed(id, now.Add(-time.Duration(daysAgo)*24*time.Hour)); err != nil {
		t.Fatalf("Failed to trash file %s: %v", id, err)
	}
}

func TestSweeper_PurgesExpiredOnly(t *testing.T) {
	f := setup(t)

	f.addTrashed(t, "old", 31)
	f.addTrashed(t, "fresh", 29)

	purged, err := f.sweeper.Sweep()
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if purged != 1 {
		t.Errorf("Expected 1 purge, got %d", purged)
	}

	if file, _ := f.files.GetByID("old"); file != nil {
		t.Error("Expected 31-day-old file purged")
	}
	if file, _ := f.files.GetByID("fresh"); file == nil {
		t.Error("Expected 29-day-old file left in trash")
	}

	if len(f.blobs.deleted) != 1 || f.blobs.deleted[0] != "blob-old" {
		t.Errorf("Expected only blob-old deleted, got %v", f.blobs.deleted)
	}
}

func TestSweeper_ExactBoundary(t *testing.T) {
	f := setup(t)
	f.addTrashed(t, "boundary", 30)

	purged, err := f.sweeper.Sweep()
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if purged != 1 {
		t.Errorf("Expected file at exactly 30 days to be purged, got %d purges", purged)
	}
}

func TestSweeper_ActiveFilesNeverTouched(t *testing.T) {
	f := setup(t)

	now := time.Now()
	f.files.Create(&files.File{
		ID: "active", Name: "keep.pdf", Type: files.TypePDF,
		OrgID: "org1", UserID: "user1", BlobHandle: "blob-active",
		State:     files.StateActive,
		CreatedAt: now.Add(-60 * 24 * time.Hour).Unix(),
		UpdatedAt: now.Unix(),
	})

	purged, err := f.sweeper.Sweep()
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if purged != 0 {
		t.Errorf("Expected no purges, got %d", purged)
	}
	if file, _ := f.files.GetByID("active"); file == nil {
		t.Error("Active file must never be purged regardless of age")
	}
}

func TestSweeper_CascadesFavorites(t *testing.T) {
	f := setup(t)

	f.addTrashed(t, "old", 31)
	f.favorites.Add("user1", "org1", "old")
	f.favorites.Add("user2", "org1", "old")

	if _, err := f.sweeper.Sweep(); err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	for _, user := range []string{"user1", "user2"} {
		if exists, _ := f.favorites.Exists(user, "org1", "old"); exists {
			t.Errorf("Expected favorite for %s removed by purge cascade", user)
		}
	}
}

func TestSweeper_BlobFailureSkipsFileNotBatch(t *testing.T) {
	f := setup(t)

	f.addTrashed(t, "broken", 40)
	f.addTrashed(t, "old", 31)
	f.blobs.failFor["blob-broken"] = errors.New("blob store unavailable")

	purged, err := f.sweeper.Sweep()
	if err != nil {
		t.Fatalf("Sweep must not fail the batch: %v", err)
	}
	if purged != 1 {
		t.Errorf("Expected the healthy file purged despite the broken one, got %d", purged)
	}

	// The broken file keeps its metadata row so the next run retries.
	if file, _ := f.files.GetByID("broken"); file == nil {
		t.Error("Expected broken file retained for retry")
	}
	if file, _ := f.files.GetByID("old"); file != nil {
		t.Error("Expected healthy file purged")
	}
}

func TestSweeper_RestoreDuringSweepSurvives(t *testing.T) {
	f := setup(t)

	f.addTrashed(t, "saved", 31)

	// Simulate an admin restore landing between the blob deletion and
	// the metadata delete: the conditional delete must back off.
	f.blobs.onDelete = func(handle string) {
		if handle == "blob-saved" {
			if err := f.files.Restore("saved"); err != nil {
				t.Fatalf("Restore failed: %v", err)
			}
		}
	}

	purged, err := f.sweeper.Sweep()
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if purged != 0 {
		t.Errorf("Expected no purges, got %d", purged)
	}

	file, _ := f.files.GetByID("saved")
	if file == nil {
		t.Fatal("Expected restored file to survive the sweep")
	}
	if file.State != files.StateActive {
		t.Errorf("Expected file active after restore, got %s", file.State)
	}
}

func TestSweeper_ClockInjection(t *testing.T) {
	f := setup(t)

	f.addTrashed(t, "recent", 0)

	// Immediately after trashing, nothing is old enough.
	purged, _ := f.sweeper.Sweep()
	if purged != 0 {
		t.Fatalf("Expected no purges at age zero, got %d", purged)
	}

	// Advance the sweeper's clock 31 days.
	f.sweeper.now = func() time.Time { return time.Now().Add(31 * 24 * time.Hour) }

	purged, _ = f.sweeper.Sweep()
	if purged != 1 {
		t.Errorf("Expected purge with clock advanced 31 days, got %d", purged)
	}
	if file, _ := f.files.GetByID("recent"); file != nil {
		t.Error("Expected file purged after clock advance")
	}
}
