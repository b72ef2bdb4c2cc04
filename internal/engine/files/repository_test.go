package files

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"filedrive/internal/platform/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(database.Schema); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}
	return db
}

func newTestFile(id, name, orgID string) *File {
	now := time.Now().Unix()
	return &File{
		ID:         id,
		Name:       name,
		Type:       TypePDF,
		OrgID:      orgID,
		UserID:     "user1",
		BlobHandle: "handle-" + id,
		State:      StateActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	if err := repo.Create(newTestFile("file1", "report.pdf", "org1")); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	fetched, err := repo.GetByID("file1")
	if err != nil {
		t.Fatalf("Failed to get file: %v", err)
	}
	if fetched == nil {
		t.Fatal("Expected file, got nil")
	}
	if fetched.Name != "report.pdf" {
		t.Errorf("Expected name report.pdf, got %s", fetched.Name)
	}
	if fetched.State != StateActive {
		t.Errorf("Expected state active, got %s", fetched.State)
	}
	if fetched.TrashedAt != nil {
		t.Errorf("Expected no trashed_at on active file, got %d", *fetched.TrashedAt)
	}
}

func TestRepository_GetByID_Missing(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	fetched, err := repo.GetByID("nope")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if fetched != nil {
		t.Errorf("Expected nil for missing file, got %+v", fetched)
	}
}

func TestRepository_ListByOrg(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	for _, f := range []*File{
		newTestFile("file1", "a.pdf", "org1"),
		newTestFile("file2", "b.pdf", "org1"),
		newTestFile("file3", "c.pdf", "org2"),
	} {
		if err := repo.Create(f); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}

	list, err := repo.ListByOrg("org1")
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("Expected 2 files for org1, got %d", len(list))
	}
}

func TestRepository_TrashLifecycle(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	if err := repo.Create(newTestFile("file1", "a.pdf", "org1")); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	markedAt := time.Now()
	if err := repo.MarkTrashed("file1", markedAt); err != nil {
		t.Fatalf("Failed to mark trashed: %v", err)
	}

	trashed, _ := repo.GetByID("file1")
	if trashed.State != StateTrashed {
		t.Errorf("Expected state trashed, got %s", trashed.State)
	}
	if trashed.TrashedAt == nil {
		t.Fatal("Expected trashed_at to be set")
	}
	if *trashed.TrashedAt != markedAt.UnixMilli() {
		t.Errorf("Expected trashed_at %d, got %d", markedAt.UnixMilli(), *trashed.TrashedAt)
	}

	if err := repo.Restore("file1"); err != nil {
		t.Fatalf("Failed to restore: %v", err)
	}

	restored, _ := repo.GetByID("file1")
	if restored.State != StateActive {
		t.Errorf("Expected state active after restore, got %s", restored.State)
	}
	if restored.TrashedAt != nil {
		t.Error("Expected trashed_at cleared after restore")
	}

	// Identity-bearing fields survive the round trip.
	if restored.Name != "a.pdf" || restored.Type != TypePDF || restored.OrgID != "org1" || restored.UserID != "user1" {
		t.Errorf("Lifecycle round trip mutated identity fields: %+v", restored)
	}
}

func TestRepository_ListTrashed(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	repo.Create(newTestFile("file1", "a.pdf", "org1"))
	repo.Create(newTestFile("file2", "b.pdf", "org2"))
	repo.MarkTrashed("file2", time.Now())

	trashed, err := repo.ListTrashed()
	if err != nil {
		t.Fatalf("Failed to list trashed: %v", err)
	}
	if len(trashed) != 1 || trashed[0].ID != "file2" {
		t.Errorf("Expected only file2 trashed, got %+v", trashed)
	}
}

func TestRepository_DeleteIfTrashed(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	repo.Create(newTestFile("file1", "a.pdf", "org1"))

	// Active file must not be deletable.
	deleted, err := repo.DeleteIfTrashed("file1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if deleted {
		t.Error("Expected active file to survive conditional delete")
	}

	repo.MarkTrashed("file1", time.Now())

	deleted, err = repo.DeleteIfTrashed("file1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !deleted {
		t.Error("Expected trashed file to be deleted")
	}

	if f, _ := repo.GetByID("file1"); f != nil {
		t.Error("Expected file gone after delete")
	}
}
