package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/sneakerbox/internal/metrics"
	"github.com/erazemk/sneakerbox/internal/model"
	"github.com/erazemk/sneakerbox/internal/picker"
	"github.com/erazemk/sneakerbox/internal/quotes"
	"github.com/erazemk/sneakerbox/internal/ratelimit"
	"github.com/erazemk/sneakerbox/internal/rotation"
	"github.com/erazemk/sneakerbox/internal/storage"
	"github.com/erazemk/sneakerbox/internal/tracking"
)

// defaultMaxUpload caps photo and CSV uploads when no limit is configured.
const defaultMaxUpload = 10 << 20

// Deps are the collaborators the API handlers use.
type Deps struct {
	DB             *sql.DB
	JWTSecret      string
	Tracker        *tracking.Tracker
	Bucket         storage.Bucket
	Picker         *picker.Picker
	Preview        *rotation.Rotator[[]model.Shoe]
	Quote          *rotation.Rotator[quotes.Quote]
	Limiter        *ratelimit.Limiter
	Metrics        *metrics.Metrics
	MaxUploadBytes int64
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(d Deps) http.Handler {
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = defaultMaxUpload
	}
	if d.Picker == nil {
		d.Picker = picker.Default()
	}

	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: d.DB, JWTSecret: d.JWTSecret}
	shoesHandler := &ShoesHandler{DB: d.DB, Bucket: d.Bucket, Metrics: d.Metrics, MaxUploadBytes: d.MaxUploadBytes}
	historyHandler := &HistoryHandler{DB: d.DB, Tracker: d.Tracker}
	collectionHandler := &CollectionHandler{
		DB:             d.DB,
		Picker:         d.Picker,
		Preview:        d.Preview,
		Quote:          d.Quote,
		Metrics:        d.Metrics,
		MaxUploadBytes: d.MaxUploadBytes,
	}

	authMW := AuthMiddleware(d.JWTSecret, d.DB)
	admin := func(h http.HandlerFunc) http.Handler { return authMW(h) }

	// Public.
	mux.Handle("POST /api/auth/login", d.Limiter.Middleware(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("GET /api/preview", collectionHandler.PreviewGet)
	mux.HandleFunc("GET /api/quote", collectionHandler.QuoteGet)
	mux.HandleFunc("GET /api/shoes", shoesHandler.List)
	mux.HandleFunc("GET /api/shoes/{id}", shoesHandler.Get)
	mux.HandleFunc("GET /api/csv/template", collectionHandler.Template)

	// Session.
	mux.Handle("POST /api/auth/logout", admin(authHandler.Logout))
	mux.Handle("PUT /api/auth/password", admin(authHandler.ChangePassword))

	// Shoes.
	mux.Handle("POST /api/shoes", admin(shoesHandler.Create))
	mux.Handle("PUT /api/shoes/{id}", admin(shoesHandler.Update))
	mux.Handle("DELETE /api/shoes/{id}", admin(shoesHandler.Delete))
	mux.Handle("PUT /api/shoes/{id}/image", admin(shoesHandler.UploadImage))

	// Usage tracking.
	mux.Handle("POST /api/shoes/{id}/worn", admin(historyHandler.MarkWorn))
	mux.Handle("POST /api/shoes/{id}/cleaned", admin(historyHandler.MarkCleaned))
	mux.Handle("GET /api/shoes/{id}/history", admin(historyHandler.List))
	mux.Handle("PUT /api/history/{id}", admin(historyHandler.Update))
	mux.Handle("DELETE /api/history/{id}", admin(historyHandler.Delete))

	// Bulk and helpers.
	mux.Handle("POST /api/import", admin(collectionHandler.Import))
	mux.Handle("POST /api/receipt/parse", admin(collectionHandler.ParseReceipt))
	mux.Handle("GET /api/export", admin(collectionHandler.Export))
	mux.Handle("GET /api/pick/random", admin(collectionHandler.PickRandom))
	mux.Handle("GET /api/pick/least-worn", admin(collectionHandler.PickLeastWorn))

	return mux
}
