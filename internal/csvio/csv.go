// Package csvio reads the bulk import format and writes the spreadsheet export.
//
// The import format is plain comma-separated text with eight fixed columns.
// Quoted fields and embedded commas are not supported.
package csvio

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/erazemk/sneakerbox/internal/format"
	"github.com/erazemk/sneakerbox/internal/model"
)

// Headers are the template columns, in import order.
var Headers = []string{
	"Name",
	"Model",
	"Colors (separated by /)",
	"Category",
	"Size",
	"Nickname (optional)",
	"Purchase Date (YYYY-MM-DD)",
	"Purchase Price (optional)",
}

// Column positions within an import row.
const (
	colName = iota
	colModel
	colColors
	colCategory
	colSize
	colNickname
	colPurchaseDate
	colPurchasePrice
	columnCount
)

// RowError describes a rejected import row. Line is 1-based and counts the header.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Template returns the header-only import template.
func Template() string {
	return strings.Join(Headers, ",") + "\n"
}

// Parse converts an uploaded import file into drafts.
//
// The first non-blank line is the header and is skipped without validation.
// Rows with the wrong number of columns, an unknown category, or an
// unparseable size or price are rejected; the remaining rows are returned
// together with the combined row errors.
func Parse(contents string) ([]model.ShoeDraft, error) {
	var drafts []model.ShoeDraft
	var errs error

	headerSeen := false
	for i, raw := range strings.Split(contents, "\n") {
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}

		draft, err := parseRow(line)
		if err != nil {
			errs = multierr.Append(errs, &RowError{Line: i + 1, Reason: err.Error()})
			continue
		}
		drafts = append(drafts, draft)
	}

	return drafts, errs
}

func parseRow(line string) (model.ShoeDraft, error) {
	values := strings.Split(line, ",")
	if len(values) != columnCount {
		return model.ShoeDraft{}, fmt.Errorf("expected %d columns, got %d", columnCount, len(values))
	}
	for i := range values {
		values[i] = strings.TrimSpace(values[i])
	}

	draft := model.ShoeDraft{
		Name:     values[colName],
		Model:    values[colModel],
		Colors:   SplitColors(values[colColors]),
		Category: values[colCategory],
		Nickname: values[colNickname],
	}

	if draft.Name == "" {
		return model.ShoeDraft{}, errors.New("name is required")
	}
	if draft.Category != "" && !model.ValidCategory(draft.Category) {
		return model.ShoeDraft{}, fmt.Errorf("unknown category %q", draft.Category)
	}

	if v := values[colSize]; v != "" {
		size, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(size) || math.IsInf(size, 0) {
			return model.ShoeDraft{}, fmt.Errorf("invalid size %q", v)
		}
		draft.Size = &size
	}

	if v := values[colPurchaseDate]; v != "" {
		date, ok := format.ParseDate(v)
		if !ok {
			return model.ShoeDraft{}, fmt.Errorf("invalid purchase date %q", v)
		}
		draft.PurchaseDate = date
	}

	if v := values[colPurchasePrice]; v != "" {
		price := format.ParseNullCurrency(v)
		if !price.Valid || price.Decimal.IsNegative() {
			return model.ShoeDraft{}, fmt.Errorf("invalid purchase price %q", v)
		}
		draft.PurchasePrice = price
	}

	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return model.ShoeDraft{}, err
	}
	return draft, nil
}

// SplitColors splits a "White/Black" colorway into trimmed colors.
// A blank colorway yields nil.
func SplitColors(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var colors []string
	for _, c := range strings.Split(s, "/") {
		if c = strings.TrimSpace(c); c != "" {
			colors = append(colors, c)
		}
	}
	return colors
}

// Errors unpacks the row errors combined by Parse.
func Errors(err error) []*RowError {
	var rows []*RowError
	for _, e := range multierr.Errors(err) {
		var re *RowError
		if errors.As(e, &re) {
			rows = append(rows, re)
		}
	}
	return rows
}
