package database

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"filedrive/internal/platform/config"
)

// Open connects to the metadata store. SQLite in WAL mode keeps readers
// (listing requests) from blocking on the single writer (upload and
// lifecycle mutations, sweeper deletes).
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := cfg.Path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}
