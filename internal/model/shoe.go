package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shoe is one catalogued pair in the collection.
type Shoe struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Brand         string              `json:"brand"`
	Model         string              `json:"model"`
	Colors        []string            `json:"colors"`
	Nickname      string              `json:"nickname,omitempty"`
	Category      string              `json:"category"`
	Size          *float64            `json:"size,omitempty"`
	PurchaseDate  string              `json:"purchase_date,omitempty"`
	PurchasePrice decimal.NullDecimal `json:"purchase_price"`
	ImageURL      string              `json:"image_url,omitempty"`
	LastWorn      *time.Time          `json:"last_worn,omitempty"`
	LastCleaned   *time.Time          `json:"last_cleaned,omitempty"`
	WearCount     int                 `json:"wear_count"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ShoeDraft holds the user-editable fields of a shoe before it is stored.
// CSV rows, parsed receipts and admin forms all produce drafts.
type ShoeDraft struct {
	Name          string              `json:"name" validate:"required,max=200"`
	Brand         string              `json:"brand,omitempty" validate:"max=100"`
	Model         string              `json:"model" validate:"max=100"`
	Colors        []string            `json:"colors,omitempty" validate:"max=20,dive,required,max=50"`
	Nickname      string              `json:"nickname,omitempty" validate:"max=100"`
	Category      string              `json:"category" validate:"omitempty,oneof=Basketball Casual Dress Golf Slides Other"`
	Size          *float64            `json:"size,omitempty" validate:"omitempty,gt=0,lte=30"`
	PurchaseDate  string              `json:"purchase_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PurchasePrice decimal.NullDecimal `json:"purchase_price" validate:"omitempty,gte=0"`
	ImageURL      string              `json:"image_url,omitempty" validate:"max=2048"`
}

// DefaultBrand is stored when a draft carries no brand.
const DefaultBrand = "Jordan"

// Shoe categories.
const (
	CategoryBasketball = "Basketball"
	CategoryCasual     = "Casual"
	CategoryDress      = "Dress"
	CategoryGolf       = "Golf"
	CategorySlides     = "Slides"
	CategoryOther      = "Other"
)

// Categories lists every category in display order.
var Categories = []string{
	CategoryBasketball,
	CategoryCasual,
	CategoryDress,
	CategoryGolf,
	CategorySlides,
	CategoryOther,
}

// ValidCategory reports whether c is one of the fixed categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Normalize fills defaults and drops empty colors.
func (d ShoeDraft) Normalize() ShoeDraft {
	if d.Brand == "" {
		d.Brand = DefaultBrand
	}
	if d.Category == "" {
		d.Category = CategoryOther
	}
	var colors []string
	for _, c := range d.Colors {
		if c != "" {
			colors = append(colors, c)
		}
	}
	d.Colors = colors
	return d
}
