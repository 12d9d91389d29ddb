package csvio

import (
	"strconv"
	"strings"

	"github.com/erazemk/sneakerbox/internal/format"
	"github.com/erazemk/sneakerbox/internal/model"
)

// SpreadsheetHeaders are the columns of the clipboard export.
var SpreadsheetHeaders = []string{
	"Name",
	"Brand",
	"Model",
	"Colors",
	"Size",
	"Category",
	"Nickname",
	"Purchase Date",
	"Purchase Price",
	"Last Worn",
	"Last Cleaned",
	"Wear Count",
}

// Spreadsheet renders the collection as tab-separated text for pasting into
// a spreadsheet: one header row, then one row per shoe.
func Spreadsheet(shoes []model.Shoe) string {
	lines := make([]string, 0, len(shoes)+1)
	lines = append(lines, strings.Join(SpreadsheetHeaders, "\t"))

	for _, s := range shoes {
		size := ""
		if s.Size != nil {
			size = strconv.FormatFloat(*s.Size, 'f', -1, 64)
		}
		lines = append(lines, strings.Join([]string{
			s.Name,
			s.Brand,
			s.Model,
			strings.Join(s.Colors, " / "),
			size,
			s.Category,
			s.Nickname,
			format.FormatDate(s.PurchaseDate),
			format.FormatNullCurrency(s.PurchasePrice),
			format.FormatTime(s.LastWorn),
			format.FormatTime(s.LastCleaned),
			strconv.Itoa(s.WearCount),
		}, "\t"))
	}

	return strings.Join(lines, "\n")
}
