package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/sneakerbox/internal/model"
)

// AddHistory appends a wear or cleaning entry for a shoe.
func AddHistory(ctx context.Context, db *sql.DB, shoeID, typ string, at time.Time) (*model.HistoryEntry, error) {
	e := &model.HistoryEntry{
		ID:        uuid.NewString(),
		ShoeID:    shoeID,
		Type:      typ,
		Timestamp: at.UTC(),
		CreatedAt: time.Now().UTC(),
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO shoe_history (id, shoe_id, type, timestamp, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.ShoeID, e.Type, e.Timestamp, e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("adding history entry: %w", err)
	}
	return e, nil
}

// ListHistory returns a shoe's history, newest first.
func ListHistory(ctx context.Context, db *sql.DB, shoeID string) ([]model.HistoryEntry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, shoe_id, type, timestamp, created_at
		 FROM shoe_history WHERE shoe_id = ?
		 ORDER BY timestamp DESC, created_at DESC`, shoeID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.ID, &e.ShoeID, &e.Type, &e.Timestamp, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetHistoryEntry returns one entry, or nil if it does not exist.
func GetHistoryEntry(ctx context.Context, db *sql.DB, id string) (*model.HistoryEntry, error) {
	e := &model.HistoryEntry{}
	err := db.QueryRowContext(ctx,
		`SELECT id, shoe_id, type, timestamp, created_at FROM shoe_history WHERE id = ?`, id,
	).Scan(&e.ID, &e.ShoeID, &e.Type, &e.Timestamp, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting history entry: %w", err)
	}
	return e, nil
}

// UpdateHistoryTimestamp moves an entry to a new time. Only the timestamp
// of an entry is editable.
func UpdateHistoryTimestamp(ctx context.Context, tx *sql.Tx, id string, at time.Time) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE shoe_history SET timestamp = ? WHERE id = ?`, at.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating history entry: %w", err)
	}
	return expectRow(result)
}

// DeleteHistoryEntry removes an entry.
func DeleteHistoryEntry(ctx context.Context, tx *sql.Tx, id string) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM shoe_history WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting history entry: %w", err)
	}
	return expectRow(result)
}

type usageQuerier interface {
	execer
	queryer
}

// SyncShoeUsage recomputes a shoe's wear count, last worn and last cleaned
// fields from its history entries.
func SyncShoeUsage(ctx context.Context, db usageQuerier, shoeID string) error {
	var wears int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM shoe_history WHERE shoe_id = ? AND type = ?`,
		shoeID, model.HistoryWorn,
	).Scan(&wears)
	if err != nil {
		return fmt.Errorf("counting wears: %w", err)
	}

	lastWorn, err := latestHistory(ctx, db, shoeID, model.HistoryWorn)
	if err != nil {
		return err
	}
	lastCleaned, err := latestHistory(ctx, db, shoeID, model.HistoryCleaned)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx,
		`UPDATE shoes SET wear_count = ?, last_worn = ?, last_cleaned = ?, updated_at = ? WHERE id = ?`,
		wears, lastWorn, lastCleaned, time.Now().UTC(), shoeID,
	)
	if err != nil {
		return fmt.Errorf("syncing shoe usage: %w", err)
	}
	return expectRow(result)
}

func latestHistory(ctx context.Context, db queryer, shoeID, typ string) (*time.Time, error) {
	var ts time.Time
	err := db.QueryRowContext(ctx,
		`SELECT timestamp FROM shoe_history WHERE shoe_id = ? AND type = ?
		 ORDER BY timestamp DESC LIMIT 1`,
		shoeID, typ,
	).Scan(&ts)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting latest %s entry: %w", typ, err)
	}
	return &ts, nil
}
