package model

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestShoeDraftValidate(t *testing.T) {
	size := 10.5
	zero := 0.0
	tests := []struct {
		name    string
		draft   ShoeDraft
		wantErr string
	}{
		{"minimal", ShoeDraft{Name: "AJ1"}, ""},
		{"full", ShoeDraft{
			Name: "AJ1", Category: CategoryBasketball, Colors: []string{"Red"}, Size: &size,
			PurchaseDate: "2024-01-31", PurchasePrice: decimal.NewNullDecimal(decimal.NewFromInt(180)),
		}, ""},
		{"missing name", ShoeDraft{}, "name is required"},
		{"bad category", ShoeDraft{Name: "x", Category: "Boots"}, "category must be one of"},
		{"empty color", ShoeDraft{Name: "x", Colors: []string{"Red", ""}}, "colors[1] is required"},
		{"zero size", ShoeDraft{Name: "x", Size: &zero}, "size must be greater than 0"},
		{"bad date", ShoeDraft{Name: "x", PurchaseDate: "01/02/2024"}, "purchase_date must be a YYYY-MM-DD date"},
		{"negative price", ShoeDraft{Name: "x", PurchasePrice: decimal.NewNullDecimal(decimal.NewFromInt(-5))}, "purchase_price must be at least 0"},
	}

	for _, tt := range tests {
		err := tt.draft.Validate()
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("%s: unexpected error: %v", tt.name, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s: expected error containing %q, got %v", tt.name, tt.wantErr, err)
		}
	}
}
