// Package tracking records wears and cleanings against shoes and keeps the
// derived usage fields consistent with the history log.
package tracking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/sneakerbox/internal/metrics"
	"github.com/erazemk/sneakerbox/internal/model"
	"github.com/erazemk/sneakerbox/internal/store"
)

// Tracker records usage events. Now defaults to time.Now.
type Tracker struct {
	DB      *sql.DB
	Now     func() time.Time
	Metrics *metrics.Metrics
}

func (t *Tracker) now() time.Time {
	if t.Now != nil {
		return t.Now().UTC()
	}
	return time.Now().UTC()
}

// MarkWorn records a wear at the current time.
func (t *Tracker) MarkWorn(ctx context.Context, shoeID string) (*model.HistoryEntry, error) {
	return t.MarkWornAt(ctx, shoeID, t.now())
}

// MarkWornAt increments the wear count, moves last worn forward and appends
// a worn entry stamped at. The counter update and the history append are
// separate statements; a failed append leaves the counter incremented.
func (t *Tracker) MarkWornAt(ctx context.Context, shoeID string, at time.Time) (*model.HistoryEntry, error) {
	if err := store.MarkShoeWorn(ctx, t.DB, shoeID, at); err != nil {
		return nil, err
	}
	e, err := store.AddHistory(ctx, t.DB, shoeID, model.HistoryWorn, at)
	if err != nil {
		return nil, err
	}
	t.Metrics.Wear()
	return e, nil
}

// MarkCleaned records a cleaning at the current time.
func (t *Tracker) MarkCleaned(ctx context.Context, shoeID string) (*model.HistoryEntry, error) {
	return t.MarkCleanedAt(ctx, shoeID, t.now())
}

// MarkCleanedAt moves last cleaned forward and appends a cleaned entry. The
// wear count is untouched.
func (t *Tracker) MarkCleanedAt(ctx context.Context, shoeID string, at time.Time) (*model.HistoryEntry, error) {
	if err := store.MarkShoeCleaned(ctx, t.DB, shoeID, at); err != nil {
		return nil, err
	}
	e, err := store.AddHistory(ctx, t.DB, shoeID, model.HistoryCleaned, at)
	if err != nil {
		return nil, err
	}
	t.Metrics.Cleaning()
	return e, nil
}

// EditEntry moves a history entry to a new time and resyncs its shoe.
func (t *Tracker) EditEntry(ctx context.Context, entryID string, at time.Time) (*model.HistoryEntry, error) {
	e, err := store.GetHistoryEntry(ctx, t.DB, entryID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, store.ErrNotFound
	}

	err = t.withTx(ctx, func(tx *sql.Tx) error {
		if err := store.UpdateHistoryTimestamp(ctx, tx, entryID, at); err != nil {
			return err
		}
		return store.SyncShoeUsage(ctx, tx, e.ShoeID)
	})
	if err != nil {
		return nil, err
	}
	e.Timestamp = at.UTC()
	return e, nil
}

// DeleteEntry removes a history entry and resyncs its shoe. It returns the
// parent shoe ID.
func (t *Tracker) DeleteEntry(ctx context.Context, entryID string) (string, error) {
	e, err := store.GetHistoryEntry(ctx, t.DB, entryID)
	if err != nil {
		return "", err
	}
	if e == nil {
		return "", store.ErrNotFound
	}

	err = t.withTx(ctx, func(tx *sql.Tx) error {
		if err := store.DeleteHistoryEntry(ctx, tx, entryID); err != nil {
			return err
		}
		return store.SyncShoeUsage(ctx, tx, e.ShoeID)
	})
	if err != nil {
		return "", err
	}
	return e.ShoeID, nil
}

func (t *Tracker) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := t.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
