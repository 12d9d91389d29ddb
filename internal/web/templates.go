package web

import (
	"database/sql"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erazemk/sneakerbox/internal/auth"
	"github.com/erazemk/sneakerbox/internal/format"
	"github.com/erazemk/sneakerbox/internal/metrics"
	"github.com/erazemk/sneakerbox/internal/model"
	"github.com/erazemk/sneakerbox/internal/picker"
	"github.com/erazemk/sneakerbox/internal/quotes"
	"github.com/erazemk/sneakerbox/internal/rotation"
	"github.com/erazemk/sneakerbox/internal/storage"
	"github.com/erazemk/sneakerbox/internal/tracking"
	webembed "github.com/erazemk/sneakerbox/web"
)

// inputTimeLayout matches the value of a datetime-local input.
const inputTimeLayout = "2006-01-02T15:04"

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"currency": format.FormatNullCurrency,
		"date":     format.FormatDate,
		"when":     format.FormatTime,
		"colors": func(colors []string) string {
			return strings.Join(colors, " / ")
		},
		"size": func(size *float64) string {
			if size == nil {
				return ""
			}
			return strconv.FormatFloat(*size, 'f', -1, 64)
		},
		"price": func(d decimal.NullDecimal) string {
			if !d.Valid {
				return ""
			}
			return d.Decimal.StringFixed(2)
		},
		"inputTime": func(t time.Time) string {
			return t.UTC().Format(inputTimeLayout)
		},
		"shoeForm": newShoeForm,
		"historyLabel": func(typ string) string {
			if typ == model.HistoryCleaned {
				return "Cleaned"
			}
			return "Worn"
		},
	}
}

// shoeForm feeds the shared shoe_fields template.
type shoeForm struct {
	Draft      model.ShoeDraft
	Categories []string
}

// newShoeForm accepts a draft or a stored shoe.
func newShoeForm(v any, categories []string) shoeForm {
	f := shoeForm{Categories: categories}
	switch v := v.(type) {
	case model.ShoeDraft:
		f.Draft = v
	case *model.Shoe:
		if v != nil {
			f.Draft = model.ShoeDraft{
				Name:          v.Name,
				Brand:         v.Brand,
				Model:         v.Model,
				Colors:        v.Colors,
				Nickname:      v.Nickname,
				Category:      v.Category,
				Size:          v.Size,
				PurchaseDate:  v.PurchaseDate,
				PurchasePrice: v.PurchasePrice,
			}
		}
	}
	return f
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"public.html",
		"login.html",
		"admin.html",
		"shoe_detail.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title string
	User  *auth.Claims
	Flash *Flash
	// Refresh reloads the page after this many seconds when positive.
	Refresh int
}

// Server holds all dependencies for page handlers.
type Server struct {
	DB             *sql.DB
	Templates      *Templates
	JWTSecret      string
	Tracker        *tracking.Tracker
	Bucket         storage.Bucket
	Media          *storage.DBBucket
	Picker         *picker.Picker
	Preview        *rotation.Rotator[[]model.Shoe]
	Quote          *rotation.Rotator[quotes.Quote]
	Metrics        *metrics.Metrics
	MaxUploadBytes int64
}

func (s *Server) page(w http.ResponseWriter, r *http.Request, title string) PageData {
	return PageData{Title: title, User: GetWebClaims(r.Context()), Flash: takeFlash(w, r)}
}
