package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/sneakerbox/internal/db"
	"github.com/erazemk/sneakerbox/internal/model"
)

func TestHistoryNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	shoe, err := CreateShoe(ctx, database, model.ShoeDraft{Name: "Log"})
	require.NoError(t, err)

	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	_, err = AddHistory(ctx, database, shoe.ID, model.HistoryWorn, base)
	require.NoError(t, err)
	_, err = AddHistory(ctx, database, shoe.ID, model.HistoryCleaned, base.Add(48*time.Hour))
	require.NoError(t, err)
	_, err = AddHistory(ctx, database, shoe.ID, model.HistoryWorn, base.Add(24*time.Hour))
	require.NoError(t, err)

	entries, err := ListHistory(ctx, database, shoe.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, model.HistoryCleaned, entries[0].Type)
	assert.True(t, entries[1].Timestamp.Equal(base.Add(24*time.Hour)))
	assert.True(t, entries[2].Timestamp.Equal(base))
}

func TestAddHistoryUnknownShoe(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := AddHistory(context.Background(), database, "missing", model.HistoryWorn, time.Now())
	assert.Error(t, err)
}

func TestGetHistoryEntry(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	shoe, err := CreateShoe(ctx, database, model.ShoeDraft{Name: "One"})
	require.NoError(t, err)
	e, err := AddHistory(ctx, database, shoe.ID, model.HistoryWorn, time.Now())
	require.NoError(t, err)

	got, err := GetHistoryEntry(ctx, database, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, shoe.ID, got.ShoeID)

	missing, err := GetHistoryEntry(ctx, database, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSyncShoeUsageAfterEdits(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	shoe, err := CreateShoe(ctx, database, model.ShoeDraft{Name: "Sync"})
	require.NoError(t, err)

	first := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)
	w1, err := AddHistory(ctx, database, shoe.ID, model.HistoryWorn, first)
	require.NoError(t, err)
	w2, err := AddHistory(ctx, database, shoe.ID, model.HistoryWorn, second)
	require.NoError(t, err)
	c1, err := AddHistory(ctx, database, shoe.ID, model.HistoryCleaned, second)
	require.NoError(t, err)

	tx, err := database.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, DeleteHistoryEntry(ctx, tx, w2.ID))
	require.NoError(t, UpdateHistoryTimestamp(ctx, tx, w1.ID, first.Add(time.Hour)))
	require.NoError(t, SyncShoeUsage(ctx, tx, shoe.ID))
	require.NoError(t, tx.Commit())

	got, err := GetShoe(ctx, database, shoe.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.WearCount)
	require.NotNil(t, got.LastWorn)
	assert.True(t, got.LastWorn.Equal(first.Add(time.Hour)))
	require.NotNil(t, got.LastCleaned)
	assert.True(t, got.LastCleaned.Equal(second))

	tx, err = database.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, DeleteHistoryEntry(ctx, tx, c1.ID))
	require.NoError(t, DeleteHistoryEntry(ctx, tx, w1.ID))
	require.NoError(t, SyncShoeUsage(ctx, tx, shoe.ID))
	require.NoError(t, tx.Commit())

	got, err = GetShoe(ctx, database, shoe.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.WearCount)
	assert.Nil(t, got.LastWorn)
	assert.Nil(t, got.LastCleaned)
}

func TestHistoryMutationsReportMissing(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	tx, err := database.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	assert.ErrorIs(t, DeleteHistoryEntry(ctx, tx, "nope"), ErrNotFound)
	assert.ErrorIs(t, UpdateHistoryTimestamp(ctx, tx, "nope", time.Now()), ErrNotFound)
}
