package audit

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Entry struct {
	ID           string                 `json:"id"`
	OrgID        string                 `json:"org_id"`
	UserID       string                 `json:"user_id"`
	Action       string                 `json:"action"`
	ResourceType string                 `json:"resource_type"`
	ResourceID   string                 `json:"resource_id"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt    int64                  `json:"created_at"`
}

// Recorder persists lifecycle audit entries. The acting principal is
// passed explicitly by the caller, never pulled from ambient state.
type Recorder struct {
	db *sql.DB
}

func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db}
}

// Record writes an audit row. Failures are logged and swallowed: auditing
// must never fail the operation being audited.
func (r *Recorder) Record(orgID, userID, action, resourceType, resourceID string, metadata map[string]interface{}) {
	var metaJSON []byte
	if metadata != nil {
		metaJSON, _ = json.Marshal(metadata)
	}

	_, err := r.db.Exec(`
		INSERT INTO audit_logs (id, org_id, user_id, action, resource_type, resource_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), orgID, userID, action, resourceType, resourceID, string(metaJSON), time.Now().Unix())

	if err != nil {
		log.Error().Err(err).
			Str("action", action).
			Str("resource_id", resourceID).
			Msg("failed to write audit log")
	}
}

// ListByOrg returns the most recent entries for an organization.
func (r *Recorder) ListByOrg(orgID string, limit int) ([]*Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := r.db.Query(`
		SELECT id, org_id, user_id, action, resource_type, resource_id, metadata, created_at
		FROM audit_logs WHERE org_id = ? ORDER BY created_at DESC LIMIT ?
	`, orgID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		var metaRaw sql.NullString
		if err := rows.Scan(&e.ID, &e.OrgID, &e.UserID, &e.Action, &e.ResourceType, &e.ResourceID, &metaRaw, &e.CreatedAt); err != nil {
			return nil, err
		}
		if metaRaw.Valid && metaRaw.String != "" {
			json.Unmarshal([]byte(metaRaw.String), &e.Metadata)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
