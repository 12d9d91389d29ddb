package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/sneakerbox/internal/model"
	"github.com/erazemk/sneakerbox/internal/quotes"
)

// PublicPage handles GET /. It shows the current preview subset and quote
// and reloads itself on the rotation interval.
func (s *Server) PublicPage(w http.ResponseWriter, r *http.Request) {
	var shoes []model.Shoe
	refresh := 0
	if s.Preview != nil {
		shoes = s.Preview.Current()
		refresh = int(s.Preview.Interval().Seconds())
	}
	var quote quotes.Quote
	if s.Quote != nil {
		quote = s.Quote.Current()
	}

	data := s.page(w, r, "Sneakerbox")
	data.Refresh = refresh
	s.Templates.Render(w, "public.html", &struct {
		PageData
		Shoes []model.Shoe
		Quote quotes.Quote
	}{
		PageData: data,
		Shoes:    shoes,
		Quote:    quote,
	})
}

// MediaGet handles GET /media/{name...}.
func (s *Server) MediaGet(w http.ResponseWriter, r *http.Request) {
	if s.Media == nil {
		http.NotFound(w, r)
		return
	}

	obj, err := s.Media.Open(r.Context(), r.PathValue("name"))
	if err != nil {
		slog.Error("failed to get media object", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if obj == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(obj.Data); err != nil {
		slog.Error("failed to write media response", "error", err)
	}
}
