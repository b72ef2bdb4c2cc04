package database

import "database/sql"

// Schema is the full metadata store schema. cmd/migrate applies it; tests
// apply it against in-memory databases.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	token_identifier TEXT UNIQUE NOT NULL,
	personal_org_id TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	avatar_url TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS org_memberships (
	user_id TEXT NOT NULL REFERENCES users(id),
	org_id TEXT NOT NULL,
	role TEXT NOT NULL CHECK (role IN ('admin', 'member')),
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (user_id, org_id)
);

CREATE TABLE IF NOT EXISTS files (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL CHECK (type IN ('image', 'pdf', 'csv', 'video')),
	org_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	blob_handle TEXT NOT NULL,
	state TEXT NOT NULL DEFAULT 'active' CHECK (state IN ('active', 'trashed')),
	trashed_at INTEGER,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_files_org_id ON files(org_id);
CREATE INDEX IF NOT EXISTS idx_files_state ON files(state);

CREATE TABLE IF NOT EXISTS favorites (
	user_id TEXT NOT NULL,
	org_id TEXT NOT NULL,
	file_id TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (user_id, org_id, file_id)
);

CREATE INDEX IF NOT EXISTS idx_favorites_file_id ON favorites(file_id);

CREATE TABLE IF NOT EXISTS audit_logs (
	id TEXT PRIMARY KEY,
	org_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	action TEXT NOT NULL,
	resource_type TEXT NOT NULL,
	resource_id TEXT NOT NULL,
	metadata TEXT,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_logs_org_id ON audit_logs(org_id, created_at);
`

// SchemaDown drops everything Schema creates, newest first.
const SchemaDown = `
DROP TABLE IF EXISTS audit_logs;
DROP TABLE IF EXISTS favorites;
DROP TABLE IF EXISTS files;
DROP TABLE IF EXISTS org_memberships;
DROP TABLE IF EXISTS users;
`

func Migrate(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}

func MigrateDown(db *sql.DB) error {
	_, err := db.Exec(SchemaDown)
	return err
}
