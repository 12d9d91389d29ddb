// Package receipt extracts shoe details from pasted order-confirmation emails.
package receipt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/erazemk/sneakerbox/internal/format"
	"github.com/erazemk/sneakerbox/internal/model"
)

var (
	nameRe        = regexp.MustCompile(`(?s)product\s*(.*?)(?:Men's|Women's|Size:|$)`)
	sizeRe        = regexp.MustCompile(`Size:\s*M\s*(\d+\.?\d*)`)
	priceRe       = regexp.MustCompile(`\$(\d+\.\d{2})`)
	orderNumberRe = regexp.MustCompile(`Order Number\s*([A-Z0-9]+)`)
	orderDateRe   = regexp.MustCompile(`Order Date\s*(\d{1,2}/\d{1,2}/\d{4})`)
)

// Parsed holds the fields recovered from a receipt. Everything except Name
// and OrderNumber may be absent.
type Parsed struct {
	Name        string              `json:"name"`
	Size        *float64            `json:"size"`
	Price       decimal.NullDecimal `json:"price"`
	OrderNumber string              `json:"order_number"`
	OrderDate   string              `json:"order_date,omitempty"`
}

// Parse scans receipt text. It reports false when the product name or the
// order number cannot be found.
func Parse(text string) (*Parsed, bool) {
	p := &Parsed{}

	if m := nameRe.FindStringSubmatch(text); m != nil {
		p.Name = strings.TrimSpace(m[1])
	}
	if m := orderNumberRe.FindStringSubmatch(text); m != nil {
		p.OrderNumber = m[1]
	}
	if p.Name == "" || p.OrderNumber == "" {
		return nil, false
	}

	if m := sizeRe.FindStringSubmatch(text); m != nil {
		if size, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.Size = &size
		}
	}
	if m := priceRe.FindStringSubmatch(text); m != nil {
		if price, err := decimal.NewFromString(m[1]); err == nil {
			p.Price = decimal.NewNullDecimal(price)
		}
	}
	if m := orderDateRe.FindStringSubmatch(text); m != nil {
		if date, ok := format.ParseDate(m[1]); ok {
			p.OrderDate = date
		}
	}

	return p, true
}

// Draft converts a parsed receipt into a form pre-fill.
func (p *Parsed) Draft() model.ShoeDraft {
	shoeModel := p.Name
	if _, after, ok := strings.Cut(p.Name, "Jordan"); ok && strings.TrimSpace(after) != "" {
		shoeModel = strings.TrimSpace(after)
	}

	return model.ShoeDraft{
		Name:          p.Name,
		Brand:         model.DefaultBrand,
		Model:         shoeModel,
		Category:      model.CategoryBasketball,
		Size:          p.Size,
		PurchaseDate:  p.OrderDate,
		PurchasePrice: p.Price,
	}
}
