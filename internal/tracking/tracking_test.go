package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/sneakerbox/internal/db"
	"github.com/erazemk/sneakerbox/internal/metrics"
	"github.com/erazemk/sneakerbox/internal/model"
	"github.com/erazemk/sneakerbox/internal/store"
)

func newTracker(t *testing.T, now time.Time) (*Tracker, *model.Shoe) {
	t.Helper()
	database := db.NewTestDB(t)
	shoe, err := store.CreateShoe(context.Background(), database, model.ShoeDraft{Name: "Bred 11"})
	require.NoError(t, err)
	return &Tracker{
		DB:      database,
		Now:     func() time.Time { return now },
		Metrics: metrics.New(prometheus.NewRegistry()),
	}, shoe
}

func TestMarkWornTwice(t *testing.T) {
	now := time.Date(2025, 5, 1, 18, 30, 0, 0, time.UTC)
	tr, shoe := newTracker(t, now)
	ctx := context.Background()

	first, err := tr.MarkWorn(ctx, shoe.ID)
	require.NoError(t, err)
	second, err := tr.MarkWorn(ctx, shoe.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := store.GetShoe(ctx, tr.DB, shoe.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.WearCount)
	require.NotNil(t, got.LastWorn)
	assert.True(t, got.LastWorn.Equal(now))
	assert.Nil(t, got.LastCleaned)

	entries, err := store.ListHistory(ctx, tr.DB, shoe.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, model.HistoryWorn, e.Type)
		assert.True(t, e.Timestamp.Equal(now))
	}
}

func TestMarkWornTwiceRecordsDistinctTimes(t *testing.T) {
	start := time.Date(2025, 5, 1, 18, 30, 0, 0, time.UTC)
	tr, shoe := newTracker(t, start)
	clock := start
	tr.Now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	ctx := context.Background()

	first, err := tr.MarkWorn(ctx, shoe.ID)
	require.NoError(t, err)
	second, err := tr.MarkWorn(ctx, shoe.ID)
	require.NoError(t, err)
	assert.True(t, second.Timestamp.After(first.Timestamp))

	got, err := store.GetShoe(ctx, tr.DB, shoe.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.WearCount)
	require.NotNil(t, got.LastWorn)
	assert.True(t, got.LastWorn.Equal(second.Timestamp))

	entries, err := store.ListHistory(ctx, tr.DB, shoe.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.HistoryWorn, entries[0].Type)
	assert.Equal(t, model.HistoryWorn, entries[1].Type)
	assert.False(t, entries[0].Timestamp.Equal(entries[1].Timestamp))
}

func TestMarkCleanedLeavesWearCount(t *testing.T) {
	now := time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)
	tr, shoe := newTracker(t, now)
	ctx := context.Background()

	_, err := tr.MarkWorn(ctx, shoe.ID)
	require.NoError(t, err)
	e, err := tr.MarkCleaned(ctx, shoe.ID)
	require.NoError(t, err)
	assert.Equal(t, model.HistoryCleaned, e.Type)

	got, err := store.GetShoe(ctx, tr.DB, shoe.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.WearCount)
	require.NotNil(t, got.LastCleaned)
	assert.True(t, got.LastCleaned.Equal(now))
}

func TestMarkAtChosenTime(t *testing.T) {
	now := time.Date(2025, 5, 3, 12, 0, 0, 0, time.UTC)
	tr, shoe := newTracker(t, now)
	ctx := context.Background()

	past := now.Add(-72 * time.Hour)
	_, err := tr.MarkWornAt(ctx, shoe.ID, past)
	require.NoError(t, err)
	_, err = tr.MarkCleanedAt(ctx, shoe.ID, past)
	require.NoError(t, err)

	got, err := store.GetShoe(ctx, tr.DB, shoe.ID)
	require.NoError(t, err)
	assert.True(t, got.LastWorn.Equal(past))
	assert.True(t, got.LastCleaned.Equal(past))

	entries, err := store.ListHistory(ctx, tr.DB, shoe.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestMarkMissingShoe(t *testing.T) {
	tr, _ := newTracker(t, time.Now())
	ctx := context.Background()

	_, err := tr.MarkWorn(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = tr.MarkCleaned(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEditAndDeleteEntryResync(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	tr, shoe := newTracker(t, now)
	ctx := context.Background()

	older, err := tr.MarkWornAt(ctx, shoe.ID, now.Add(-48*time.Hour))
	require.NoError(t, err)
	newer, err := tr.MarkWorn(ctx, shoe.ID)
	require.NoError(t, err)

	moved := now.Add(-24 * time.Hour)
	edited, err := tr.EditEntry(ctx, newer.ID, moved)
	require.NoError(t, err)
	assert.True(t, edited.Timestamp.Equal(moved))

	got, err := store.GetShoe(ctx, tr.DB, shoe.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.WearCount)
	assert.True(t, got.LastWorn.Equal(moved))

	shoeID, err := tr.DeleteEntry(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, shoe.ID, shoeID)

	got, err = store.GetShoe(ctx, tr.DB, shoe.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.WearCount)
	assert.True(t, got.LastWorn.Equal(older.Timestamp))

	_, err = tr.DeleteEntry(ctx, newer.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = tr.EditEntry(ctx, "missing", now)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
