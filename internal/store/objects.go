package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Object is a stored binary blob, used for uploaded photos when no external
// bucket is configured.
type Object struct {
	Name        string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

// PutObject stores or replaces an object.
func PutObject(ctx context.Context, db *sql.DB, name, contentType string, data []byte) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO objects (name, content_type, data, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET content_type = excluded.content_type, data = excluded.data`,
		name, contentType, data, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storing object: %w", err)
	}
	return nil
}

// GetObject returns an object, or nil if it does not exist.
func GetObject(ctx context.Context, db *sql.DB, name string) (*Object, error) {
	o := &Object{}
	err := db.QueryRowContext(ctx,
		`SELECT name, content_type, data, created_at FROM objects WHERE name = ?`, name,
	).Scan(&o.Name, &o.ContentType, &o.Data, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting object: %w", err)
	}
	return o, nil
}

// DeleteObject removes an object if present.
func DeleteObject(ctx context.Context, db *sql.DB, name string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM objects WHERE name = ?`, name); err != nil {
		return fmt.Errorf("deleting object: %w", err)
	}
	return nil
}
