package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/sneakerbox/internal/db"
	"github.com/erazemk/sneakerbox/internal/model"
)

func sizePtr(v float64) *float64 { return &v }

func TestCreateAndGetShoe(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	shoe, err := CreateShoe(ctx, database, model.ShoeDraft{
		Name:          "Air Jordan 1 Chicago",
		Model:         "1",
		Colors:        []string{"Red", "", "White"},
		Size:          sizePtr(10.5),
		PurchaseDate:  "2024-03-01",
		PurchasePrice: decimal.NewNullDecimal(decimal.RequireFromString("180")),
	})
	require.NoError(t, err)
	require.NotNil(t, shoe)

	assert.NotEmpty(t, shoe.ID)
	assert.Equal(t, model.DefaultBrand, shoe.Brand)
	assert.Equal(t, model.CategoryOther, shoe.Category)
	assert.Equal(t, []string{"Red", "White"}, shoe.Colors)
	require.NotNil(t, shoe.Size)
	assert.InDelta(t, 10.5, *shoe.Size, 0.0001)
	assert.True(t, shoe.PurchasePrice.Valid)
	assert.True(t, shoe.PurchasePrice.Decimal.Equal(decimal.NewFromInt(180)))
	assert.Equal(t, 0, shoe.WearCount)
	assert.Nil(t, shoe.LastWorn)
	assert.Nil(t, shoe.LastCleaned)

	missing, err := GetShoe(ctx, database, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreateShoeWithoutOptionalFields(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	shoe, err := CreateShoe(ctx, database, model.ShoeDraft{Name: "Slide", Category: model.CategorySlides})
	require.NoError(t, err)

	assert.Nil(t, shoe.Size)
	assert.Nil(t, shoe.Colors)
	assert.False(t, shoe.PurchasePrice.Valid)
	assert.Empty(t, shoe.Nickname)
	assert.Empty(t, shoe.ImageURL)
}

func TestCreateShoeRejectsUnknownCategory(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := CreateShoe(context.Background(), database, model.ShoeDraft{Name: "X", Category: "Boots"})
	assert.Error(t, err)
}

func TestListShoesNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	imported, err := CreateShoes(ctx, database, []model.ShoeDraft{
		{Name: "First"}, {Name: "Second"}, {Name: "Third"},
	})
	require.NoError(t, err)
	require.Len(t, imported, 3)

	shoes, err := ListShoes(ctx, database)
	require.NoError(t, err)
	require.Len(t, shoes, 3)
	assert.Equal(t, "Third", shoes[0].Name)
	assert.Equal(t, "First", shoes[2].Name)
}

func TestCreateShoesIsAllOrNothing(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := CreateShoes(ctx, database, []model.ShoeDraft{
		{Name: "Good"}, {Name: "Bad", Category: "Boots"},
	})
	require.Error(t, err)

	shoes, err := ListShoes(ctx, database)
	require.NoError(t, err)
	assert.Empty(t, shoes)
}

func TestUpdateShoeKeepsUsageAndImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	shoe, err := CreateShoe(ctx, database, model.ShoeDraft{Name: "Old", ImageURL: "/media/a.jpg"})
	require.NoError(t, err)
	require.NoError(t, MarkShoeWorn(ctx, database, shoe.ID, time.Now()))

	err = UpdateShoe(ctx, database, shoe.ID, model.ShoeDraft{
		Name:     "New",
		Brand:    "Nike",
		Category: model.CategoryCasual,
		Nickname: "Daily",
	})
	require.NoError(t, err)

	got, err := GetShoe(ctx, database, shoe.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, "Nike", got.Brand)
	assert.Equal(t, "Daily", got.Nickname)
	assert.Equal(t, "/media/a.jpg", got.ImageURL)
	assert.Equal(t, 1, got.WearCount)

	assert.ErrorIs(t, UpdateShoe(ctx, database, "nope", model.ShoeDraft{Name: "X"}), ErrNotFound)
}

func TestSetShoeImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	shoe, err := CreateShoe(ctx, database, model.ShoeDraft{Name: "Pic"})
	require.NoError(t, err)
	require.NoError(t, SetShoeImage(ctx, database, shoe.ID, "/media/b.jpg"))

	got, err := GetShoe(ctx, database, shoe.ID)
	require.NoError(t, err)
	assert.Equal(t, "/media/b.jpg", got.ImageURL)

	assert.ErrorIs(t, SetShoeImage(ctx, database, "nope", "x"), ErrNotFound)
}

func TestDeleteShoeCascadesHistory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	shoe, err := CreateShoe(ctx, database, model.ShoeDraft{Name: "Gone"})
	require.NoError(t, err)
	_, err = AddHistory(ctx, database, shoe.ID, model.HistoryWorn, time.Now())
	require.NoError(t, err)

	require.NoError(t, DeleteShoe(ctx, database, shoe.ID))

	entries, err := ListHistory(ctx, database, shoe.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.ErrorIs(t, DeleteShoe(ctx, database, shoe.ID), ErrNotFound)
}

func TestMarkShoeWornMovesForwardOnly(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	shoe, err := CreateShoe(ctx, database, model.ShoeDraft{Name: "Worn"})
	require.NoError(t, err)

	later := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	earlier := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, MarkShoeWorn(ctx, database, shoe.ID, later))
	require.NoError(t, MarkShoeWorn(ctx, database, shoe.ID, earlier))

	got, err := GetShoe(ctx, database, shoe.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.WearCount)
	require.NotNil(t, got.LastWorn)
	assert.True(t, got.LastWorn.Equal(later), "last worn %v", got.LastWorn)

	require.NoError(t, MarkShoeCleaned(ctx, database, shoe.ID, earlier))
	got, err = GetShoe(ctx, database, shoe.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastCleaned)
	assert.True(t, got.LastCleaned.Equal(earlier))
	assert.Equal(t, 2, got.WearCount)

	assert.ErrorIs(t, MarkShoeWorn(ctx, database, "nope", later), ErrNotFound)
}
