package csvio

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/sneakerbox/internal/model"
)

func TestTemplate(t *testing.T) {
	tmpl := Template()
	assert.Equal(t, tmpl, Template())
	assert.True(t, strings.HasSuffix(tmpl, "\n"))

	lines := strings.Split(strings.TrimSuffix(tmpl, "\n"), "\n")
	require.Len(t, lines, 1)
	cols := strings.Split(lines[0], ",")
	require.Len(t, cols, 8)
	assert.Equal(t, "Name", cols[0])
	assert.Equal(t, "Purchase Price (optional)", cols[7])
}

func TestParseSingleRow(t *testing.T) {
	drafts, err := Parse(Template() + "Air Force 1,AF1,White/Black,Casual,10,,,\n")
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	d := drafts[0]
	assert.Equal(t, "Air Force 1", d.Name)
	assert.Equal(t, "AF1", d.Model)
	assert.Equal(t, []string{"White", "Black"}, d.Colors)
	assert.Equal(t, model.CategoryCasual, d.Category)
	require.NotNil(t, d.Size)
	assert.Equal(t, 10.0, *d.Size)
	assert.Empty(t, d.Nickname)
	assert.Empty(t, d.PurchaseDate)
	assert.False(t, d.PurchasePrice.Valid)
	assert.Equal(t, model.DefaultBrand, d.Brand)
}

func TestParseFullRow(t *testing.T) {
	input := "Name,Model,Colors,Category,Size,Nickname,Date,Price\r\n" +
		"Air Jordan 1, Chicago , Red / White / Black ,Basketball,10.5,Bulls,2016-05-21,$160.00\r\n"

	drafts, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	d := drafts[0]
	assert.Equal(t, "Chicago", d.Model)
	assert.Equal(t, []string{"Red", "White", "Black"}, d.Colors)
	assert.Equal(t, 10.5, *d.Size)
	assert.Equal(t, "Bulls", d.Nickname)
	assert.Equal(t, "2016-05-21", d.PurchaseDate)
	require.True(t, d.PurchasePrice.Valid)
	assert.True(t, d.PurchasePrice.Decimal.Equal(decimal.NewFromInt(160)))
}

func TestParseSkipsBlankLines(t *testing.T) {
	input := "\n" + Template() + "\n\nA,,Blue,,,,,\n   \nB,,Green,,,,,\n"

	drafts, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "A", drafts[0].Name)
	assert.Equal(t, model.CategoryOther, drafts[0].Category)
	assert.Equal(t, "B", drafts[1].Name)
}

func TestParseHeaderOnly(t *testing.T) {
	drafts, err := Parse(Template())
	require.NoError(t, err)
	assert.Empty(t, drafts)

	drafts, err = Parse("")
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestParseRejectsMalformedRows(t *testing.T) {
	input := Template() +
		"Good,M,White,Casual,9,,,\n" +
		"Too,Few,Columns\n" +
		"Embedded,comma,in,name,Casual,9,,,\n" +
		"Bad Category,M,White,Running,9,,,\n" +
		"Bad Size,M,White,Casual,nine,,,\n" +
		"Bad Price,M,White,Casual,9,,,free\n" +
		",M,White,Casual,9,,,\n"

	drafts, err := Parse(input)
	require.Error(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Good", drafts[0].Name)

	rows := Errors(err)
	require.Len(t, rows, 6)
	lines := make([]int, len(rows))
	for i, r := range rows {
		lines[i] = r.Line
	}
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8}, lines)
	assert.Contains(t, rows[0].Error(), "line 3")
	assert.Contains(t, rows[0].Reason, "expected 8 columns")
}

func TestParseRejectsOutOfRangeSizes(t *testing.T) {
	input := Template() +
		"Infinite,M,White,Casual,Inf,,,\n" +
		"Not A Number,M,White,Casual,NaN,,,\n" +
		"Negative,M,White,Casual,-3,,,\n" +
		"Huge,M,White,Casual,31,,,\n" +
		"Fine,M,White,Casual,10.5,,,\n"

	drafts, err := Parse(input)
	require.Error(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Fine", drafts[0].Name)

	rows := Errors(err)
	require.Len(t, rows, 4)
	assert.Contains(t, rows[0].Reason, "invalid size")
	assert.Contains(t, rows[1].Reason, "invalid size")
	assert.Equal(t, 4, rows[2].Line)
	assert.Contains(t, rows[2].Reason, "size")
	assert.Equal(t, 5, rows[3].Line)
	assert.Contains(t, rows[3].Reason, "size")
}

func TestSplitColors(t *testing.T) {
	assert.Nil(t, SplitColors(""))
	assert.Nil(t, SplitColors("  "))
	assert.Equal(t, []string{"Bred"}, SplitColors("Bred"))
	assert.Equal(t, []string{"Black", "Red"}, SplitColors("Black / / Red"))
}

func TestSpreadsheet(t *testing.T) {
	size := 10.5
	worn := time.Date(2024, time.March, 4, 12, 0, 0, 0, time.UTC)
	shoes := []model.Shoe{
		{
			Name:          "Air Jordan 1",
			Brand:         "Jordan",
			Model:         "1 Retro High",
			Colors:        []string{"Red", "White"},
			Size:          &size,
			Category:      model.CategoryBasketball,
			Nickname:      "Chicago",
			PurchaseDate:  "2016-05-21",
			PurchasePrice: decimal.NewNullDecimal(decimal.NewFromInt(160)),
			LastWorn:      &worn,
			WearCount:     3,
		},
		{Name: "Slide", Brand: "Jordan", Category: model.CategorySlides},
	}

	out := Spreadsheet(shoes)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, strings.Join(SpreadsheetHeaders, "\t"), lines[0])
	assert.Len(t, strings.Split(lines[0], "\t"), 12)

	first := strings.Split(lines[1], "\t")
	require.Len(t, first, 12)
	assert.Equal(t, "Red / White", first[3])
	assert.Equal(t, "10.5", first[4])
	assert.Equal(t, "May 21, 2016", first[7])
	assert.Equal(t, "$160.00", first[8])
	assert.Equal(t, "Mar 4, 2024", first[9])
	assert.Equal(t, "", first[10])
	assert.Equal(t, "3", first[11])

	second := strings.Split(lines[2], "\t")
	require.Len(t, second, 12)
	assert.Equal(t, "", second[4])
	assert.Equal(t, "0", second[11])
}
