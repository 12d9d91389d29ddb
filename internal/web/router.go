package web

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
	webembed "github.com/erazemk/sneakerbox/web"
)

const defaultMaxUpload = 10 << 20

// Deps are the collaborators the page handlers use. Media serves /media/
// and may be nil when photos live in an external bucket.
type Deps struct {
	DB             *sql.DB
	JWTSecret      string
	Tracker        *tracking.Tracker
	Bucket         storage.Bucket
	Media          *storage.DBBucket
	Picker         *picker.Picker
	Preview        *rotation.Rotator[[]model.Shoe]
	Quote          *rotation.Rotator[quotes.Quote]
	Limiter        *ratelimit.Limiter
	Metrics        *metrics.Metrics
	MaxUploadBytes int64
}

// NewRouter creates the web page router with all page routes registered.
func NewRouter(d Deps) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = defaultMaxUpload
	}
	if d.Picker == nil {
		d.Picker = picker.Default()
	}

	s := &Server{
		DB:             d.DB,
		Templates:      templates,
		JWTSecret:      d.JWTSecret,
		Tracker:        d.Tracker,
		Bucket:         d.Bucket,
		Media:          d.Media,
		Picker:         d.Picker,
		Preview:        d.Preview,
		Quote:          d.Quote,
		Metrics:        d.Metrics,
		MaxUploadBytes: d.MaxUploadBytes,
	}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(d.JWTSecret, d.DB)
	admin := func(h http.HandlerFunc) http.Handler { return cookieAuth(h) }

	// Static assets and media.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))
	mux.HandleFunc("GET /media/{name...}", s.MediaGet)

	// Public routes.
	mux.HandleFunc("GET /{$}", s.PublicPage)
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.Handle("POST /login", d.Limiter.Middleware(http.HandlerFunc(s.LoginSubmit)))
	mux.HandleFunc("POST /logout", s.Logout)

	// Collection.
	mux.Handle("GET /admin", admin(s.AdminPage))
	mux.Handle("POST /admin/view", admin(s.ViewSubmit))
	mux.Handle("POST /admin/shoes", admin(s.ShoeCreateSubmit))
	mux.Handle("POST /admin/import", admin(s.ImportSubmit))
	mux.Handle("POST /admin/receipt", admin(s.ReceiptSubmit))
	mux.Handle("GET /admin/template.csv", admin(s.TemplateDownload))
	mux.Handle("GET /admin/export", admin(s.Export))
	mux.Handle("POST /admin/pick", admin(s.PickSubmit))

	// Single shoe.
	mux.Handle("GET /admin/shoes/{id}", admin(s.ShoeDetailPage))
	mux.Handle("POST /admin/shoes/{id}", admin(s.ShoeUpdateSubmit))
	mux.Handle("POST /admin/shoes/{id}/delete", admin(s.ShoeDeleteSubmit))
	mux.Handle("POST /admin/shoes/{id}/photo", admin(s.ShoePhotoSubmit))
	mux.Handle("POST /admin/shoes/{id}/worn", admin(s.ShoeWornSubmit))
	mux.Handle("POST /admin/shoes/{id}/cleaned", admin(s.ShoeCleanedSubmit))
	mux.Handle("POST /admin/history/{id}", admin(s.HistoryUpdateSubmit))
	mux.Handle("POST /admin/history/{id}/delete", admin(s.HistoryDeleteSubmit))

	return mux, nil
}
