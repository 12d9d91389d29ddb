package api

import (
	"database/sql"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/erazemk/sneakerbox/internal/csvio"
	"github.com/erazemk/sneakerbox/internal/metrics"
	"github.com/erazemk/sneakerbox/internal/model"
	"github.com/erazemk/sneakerbox/internal/picker"
	"github.com/erazemk/sneakerbox/internal/quotes"
	"github.com/erazemk/sneakerbox/internal/receipt"
	"github.com/erazemk/sneakerbox/internal/rotation"
	"github.com/erazemk/sneakerbox/internal/store"
)

// CollectionHandler handles bulk import and export, receipt parsing, picks
// and the public rotations.
type CollectionHandler struct {
	DB             *sql.DB
	Picker         *picker.Picker
	Preview        *rotation.Rotator[[]model.Shoe]
	Quote          *rotation.Rotator[quotes.Quote]
	Metrics        *metrics.Metrics
	MaxUploadBytes int64
}

type importResponse struct {
	Imported int               `json:"imported"`
	Shoes    []model.Shoe      `json:"shoes"`
	Rejected []*csvio.RowError `json:"rejected"`
}

type receiptRequest struct {
	Text string `json:"text"`
}

type receiptResponse struct {
	Receipt *receipt.Parsed `json:"receipt"`
	Draft   model.ShoeDraft `json:"draft"`
}

type previewResponse struct {
	Shoes           []model.Shoe `json:"shoes"`
	IntervalSeconds int          `json:"interval_seconds"`
}

// Template handles GET /api/csv/template.
func (h *CollectionHandler) Template(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="shoe_template.csv"`)
	io.WriteString(w, csvio.Template())
}

// Import handles POST /api/import. The CSV is either the raw body or the
// "file" field of a multipart form.
func (h *CollectionHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)

	contents, err := readCSV(r, h.MaxUploadBytes)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	drafts, parseErr := csvio.Parse(contents)
	rejected := csvio.Errors(parseErr)
	h.Metrics.RowsRejected(len(rejected))
	if rejected == nil {
		rejected = []*csvio.RowError{}
	}
	if len(drafts) == 0 {
		jsonResponse(w, http.StatusBadRequest, map[string]any{
			"error":    "no valid rows to import",
			"rejected": rejected,
		})
		return
	}

	shoes, err := store.CreateShoes(r.Context(), h.DB, drafts)
	if err != nil {
		slog.Error("importing shoes", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to import shoes")
		return
	}

	h.Metrics.ShoesCreated(metrics.SourceImport, len(shoes))
	slog.Info("shoes imported", "user", actor(r), "count", len(shoes), "rejected", len(rejected))
	jsonResponse(w, http.StatusCreated, importResponse{
		Imported: len(shoes),
		Shoes:    shoes,
		Rejected: rejected,
	})
}

func readCSV(r *http.Request, maxBytes int64) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			return "", errBadRequest("file too large or invalid multipart form")
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return "", errBadRequest("csv file required")
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return "", errBadRequest("failed to read csv file")
		}
		return string(data), nil
	}

	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", errBadRequest("failed to read request body")
	}
	return string(data), nil
}

type errBadRequest string

func (e errBadRequest) Error() string { return string(e) }

// Export handles GET /api/export.
func (h *CollectionHandler) Export(w http.ResponseWriter, r *http.Request) {
	shoes, err := store.ListShoes(r.Context(), h.DB)
	if err != nil {
		slog.Error("listing shoes for export", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to export shoes")
		return
	}
	w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
	io.WriteString(w, csvio.Spreadsheet(shoes))
}

// ParseReceipt handles POST /api/receipt/parse.
func (h *CollectionHandler) ParseReceipt(w http.ResponseWriter, r *http.Request) {
	var req receiptRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	parsed, ok := receipt.Parse(req.Text)
	h.Metrics.ReceiptParsed(ok)
	if !ok {
		jsonError(w, http.StatusUnprocessableEntity, "could not find a product name and order number in the receipt")
		return
	}
	jsonResponse(w, http.StatusOK, receiptResponse{Receipt: parsed, Draft: parsed.Draft()})
}

// PickRandom handles GET /api/pick/random.
func (h *CollectionHandler) PickRandom(w http.ResponseWriter, r *http.Request) {
	h.pick(w, r, h.Picker.Random)
}

// PickLeastWorn handles GET /api/pick/least-worn.
func (h *CollectionHandler) PickLeastWorn(w http.ResponseWriter, r *http.Request) {
	h.pick(w, r, h.Picker.LeastRecentlyWorn)
}

func (h *CollectionHandler) pick(w http.ResponseWriter, r *http.Request, choose func([]model.Shoe) (model.Shoe, bool)) {
	shoes, err := store.ListShoes(r.Context(), h.DB)
	if err != nil {
		slog.Error("listing shoes for pick", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list shoes")
		return
	}
	shoe, ok := choose(shoes)
	if !ok {
		jsonError(w, http.StatusNotFound, "the collection is empty")
		return
	}
	jsonResponse(w, http.StatusOK, shoe)
}

// PreviewGet handles GET /api/preview.
func (h *CollectionHandler) PreviewGet(w http.ResponseWriter, r *http.Request) {
	shoes := h.Preview.Current()
	if shoes == nil {
		shoes = []model.Shoe{}
	}
	jsonResponse(w, http.StatusOK, previewResponse{
		Shoes:           shoes,
		IntervalSeconds: int(h.Preview.Interval().Seconds()),
	})
}

// QuoteGet handles GET /api/quote.
func (h *CollectionHandler) QuoteGet(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.Quote.Current())
}
