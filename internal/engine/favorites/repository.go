package favorites

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

func (r *Repository) Exists(userID, orgID, fileID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = ? AND org_id = ? AND file_id = ?)
	`, userID, orgID, fileID).Scan(&exists)
	return exists, err
}

// Add inserts a favorite. INSERT OR IGNORE makes concurrent double
// toggles collapse into a single row instead of erroring.
func (r *Repository) Add(userID, orgID, fileID string) error {
	_, err := r.db.Exec(`
		INSERT OR IGNORE INTO favorites (user_id, org_id, file_id, created_at)
		VALUES (?, ?, ?, ?)
	`, userID, orgID, fileID, time.Now().Unix())
	return err
}

// Remove deletes a favorite. Removing an absent row is a no-op.
func (r *Repository) Remove(userID, orgID, fileID string) error {
	_, err := r.db.Exec(`
		DELETE FROM favorites WHERE user_id = ? AND org_id = ? AND file_id = ?
	`, userID, orgID, fileID)
	return err
}

// ListByUserOrg is the (user, org) prefix scan over the composite key.
func (r *Repository) ListByUserOrg(userID, orgID string) ([]*Favorite, error) {
	rows, err := r.db.Query(`
		SELECT user_id, org_id, file_id, created_at
		FROM favorites WHERE user_id = ? AND org_id = ? ORDER BY created_at DESC
	`, userID, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favs []*Favorite
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.UserID, &f.OrgID, &f.FileID, &f.CreatedAt); err != nil {
			return nil, err
		}
		favs = append(favs, &f)
	}
	return favs, rows.Err()
}

// RemoveByFile drops every favorite referencing the file, across all
// users. Used by the retention sweeper's purge cascade.
func (r *Repository) RemoveByFile(fileID string) error {
	_, err := r.db.Exec(`DELETE FROM favorites WHERE file_id = ?`, fileID)
	return err
}
