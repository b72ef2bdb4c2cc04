package files

import (
	"database/sql"
	"time"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const fileColumns = `id, name, type, org_id, user_id, blob_handle, state, trashed_at, created_at, updated_at`

func (r *Repository) Create(file *File) error {
	_, err := r.db.Exec(`
		INSERT INTO files (id, name, type, org_id, user_id, blob_handle, state, trashed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		file.ID,
		file.Name,
		file.Type,
		file.OrgID,
		file.UserID,
		file.BlobHandle,
		file.State,
		file.TrashedAt,
		file.CreatedAt,
		file.UpdatedAt,
	)
	return err
}

func (r *Repository) GetByID(id string) (*File, error) {
	row := r.db.QueryRow(`SELECT `+fileColumns+` FROM files WHERE id = ?`, id)
	file, err := scanFile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return file, nil
}

func (r *Repository) ListByOrg(orgID string) ([]*File, error) {
	rows, err := r.db.Query(`
		SELECT `+fileColumns+` FROM files WHERE org_id = ? ORDER BY created_at DESC
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectFiles(rows)
}

// ListTrashed returns every trashed file across all organizations, for
// the retention sweeper.
func (r *Repository) ListTrashed() ([]*File, error) {
	rows, err := r.db.Query(`
		SELECT ` + fileColumns + ` FROM files WHERE state = 'trashed'
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectFiles(rows)
}

// MarkTrashed flips the file into the trash. State and timestamp move in
// one statement so the pair can never disagree. Re-marking an already
// trashed file resets its retention clock.
func (r *Repository) MarkTrashed(id string, at time.Time) error {
	_, err := r.db.Exec(`
		UPDATE files SET state = 'trashed', trashed_at = ?, updated_at = ? WHERE id = ?
	`, at.UnixMilli(), at.Unix(), id)
	return err
}

// Restore returns a trashed file to the active state, clearing the
// timestamp in the same statement.
func (r *Repository) Restore(id string) error {
	now := time.Now()
	_, err := r.db.Exec(`
		UPDATE files SET state = 'active', trashed_at = NULL, updated_at = ? WHERE id = ?
	`, now.Unix(), id)
	return err
}

// DeleteIfTrashed removes the metadata row only if the file is still in
// the trash, in a single atomic statement. This is the sweeper's guard
// against purging a file an admin restored mid-sweep. Returns whether a
// row was actually deleted.
func (r *Repository) DeleteIfTrashed(id string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM files WHERE id = ? AND state = 'trashed'`, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func scanFile(s interface {
	Scan(dest ...interface{}) error
}) (*File, error) {
	var file File
	var trashedAt sql.NullInt64

	err := s.Scan(
		&file.ID,
		&file.Name,
		&file.Type,
		&file.OrgID,
		&file.UserID,
		&file.BlobHandle,
		&file.State,
		&trashedAt,
		&file.CreatedAt,
		&file.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if trashedAt.Valid {
		val := trashedAt.Int64
		file.TrashedAt = &val
	}

	return &file, nil
}

func collectFiles(rows *sql.Rows) ([]*File, error) {
	var files []*File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, rows.Err()
}
