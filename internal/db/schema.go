package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS shoes (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL,
    brand          TEXT NOT NULL DEFAULT 'Jordan',
    model          TEXT NOT NULL DEFAULT '',
    colors         TEXT NOT NULL DEFAULT '[]',
    nickname       TEXT,
    category       TEXT NOT NULL DEFAULT 'Other'
                   CHECK (category IN ('Basketball', 'Casual', 'Dress', 'Golf', 'Slides', 'Other')),
    size           REAL,
    purchase_date  TEXT,
    purchase_price TEXT,
    image_url      TEXT,
    last_worn      DATETIME,
    last_cleaned   DATETIME,
    wear_count     INTEGER NOT NULL DEFAULT 0 CHECK (wear_count >= 0),
    created_at     DATETIME NOT NULL,
    updated_at     DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_shoes_created_at ON shoes(created_at);

CREATE TABLE IF NOT EXISTS shoe_history (
    id         TEXT PRIMARY KEY,
    shoe_id    TEXT NOT NULL REFERENCES shoes(id) ON DELETE CASCADE,
    type       TEXT NOT NULL CHECK (type IN ('worn', 'cleaned')),
    timestamp  DATETIME NOT NULL,
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_shoe_history_shoe ON shoe_history(shoe_id, timestamp);

CREATE TABLE IF NOT EXISTS objects (
    name         TEXT PRIMARY KEY,
    content_type TEXT NOT NULL,
    data         BLOB NOT NULL,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// migrations are applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: latest wear/clean per shoe when an entry is edited or deleted.
	`CREATE INDEX IF NOT EXISTS idx_shoe_history_shoe_type ON shoe_history(shoe_id, type, timestamp)`,
}

// EnsureSchema creates all tables and indexes if they don't already exist,
// then applies the migrations.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}
	return nil
}
