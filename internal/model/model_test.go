package model

import "testing"

func TestValidCategory(t *testing.T) {
	tests := []struct {
		category string
		expected bool
	}{
		{CategoryBasketball, true},
		{CategoryCasual, true},
		{CategoryDress, true},
		{CategoryGolf, true},
		{CategorySlides, true},
		{CategoryOther, true},
		{"basketball", false},
		{"Running", false},
		{"", false},
	}

	for _, tt := range tests {
		got := ValidCategory(tt.category)
		if got != tt.expected {
			t.Errorf("ValidCategory(%q) = %v, want %v", tt.category, got, tt.expected)
		}
	}
}

func TestValidHistoryType(t *testing.T) {
	if !ValidHistoryType(HistoryWorn) || !ValidHistoryType(HistoryCleaned) {
		t.Error("expected worn and cleaned to be valid")
	}
	if ValidHistoryType("maintained") {
		t.Error("expected unknown type to be invalid")
	}
}

func TestDraftNormalize(t *testing.T) {
	d := ShoeDraft{Name: "Air Jordan 4", Colors: []string{"White", "", "Cement"}}.Normalize()

	if d.Brand != DefaultBrand {
		t.Errorf("expected brand %q, got %q", DefaultBrand, d.Brand)
	}
	if d.Category != CategoryOther {
		t.Errorf("expected category %q, got %q", CategoryOther, d.Category)
	}
	if len(d.Colors) != 2 || d.Colors[0] != "White" || d.Colors[1] != "Cement" {
		t.Errorf("unexpected colors: %v", d.Colors)
	}

	empty := ShoeDraft{Colors: []string{""}}.Normalize()
	if empty.Colors != nil {
		t.Errorf("expected blank colors to be absent, got %v", empty.Colors)
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"", true},
		{"short", true},
		{"1234567", true},
		{"12345678", false},
		{"a-valid-password", false},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
	}
}
