package web

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/sneakerbox/internal/csvio"
	"github.com/erazemk/sneakerbox/internal/format"
	"github.com/erazemk/sneakerbox/internal/metrics"
	"github.com/erazemk/sneakerbox/internal/model"
	"github.com/erazemk/sneakerbox/internal/receipt"
	"github.com/erazemk/sneakerbox/internal/store"
	"github.com/erazemk/sneakerbox/internal/view"
)

type adminData struct {
	PageData
	State   view.State
	Shoes   []model.Shoe
	Total   int
	Picked  *model.Shoe
	Editing *model.Shoe
	Draft   model.ShoeDraft
	// Source is sent back with the add form to label where the shoe came from.
	Source     string
	Categories []string
}

// AdminPage handles GET /admin.
func (s *Server) AdminPage(w http.ResponseWriter, r *http.Request) {
	s.renderAdmin(w, r, &adminData{State: viewState(r)})
}

// renderAdmin fills in the collection and renders the page. A flash already
// set on data replaces the pending one.
func (s *Server) renderAdmin(w http.ResponseWriter, r *http.Request, data *adminData) {
	flash := data.Flash
	data.PageData = s.page(w, r, "Collection")
	if flash != nil {
		data.Flash = flash
	}
	data.Categories = model.Categories

	shoes, err := store.ListShoes(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list shoes", "error", err)
		data.Flash = &Flash{Kind: flashError, Message: "Loading the collection failed."}
	}
	data.Shoes = view.Filter(shoes, data.State.Search)
	data.Total = len(shoes)

	if data.State.Pick != nil {
		data.Picked = findShoe(shoes, data.State.Pick.ShoeID)
	}
	if data.State.Modal == view.ModalEdit {
		data.Editing = findShoe(shoes, data.State.EditID)
		if data.Editing == nil {
			data.State = data.State.Close()
		}
	}
	s.Templates.Render(w, "admin.html", data)
}

func findShoe(shoes []model.Shoe, id string) *model.Shoe {
	for i := range shoes {
		if shoes[i].ID == id {
			return &shoes[i]
		}
	}
	return nil
}

// ViewSubmit handles POST /admin/view. It applies one view action and
// stores the result in the view cookie.
func (s *Server) ViewSubmit(w http.ResponseWriter, r *http.Request) {
	state := viewState(r)
	switch r.FormValue("action") {
	case "search":
		state = state.WithSearch(r.FormValue("q"))
	case "toggle":
		state = state.ToggleMode()
	case "open":
		state = state.Open(r.FormValue("modal"), r.FormValue("id"))
	case "close":
		state = state.Close()
	case "clear_pick":
		state = state.WithPick(nil)
	}
	saveViewState(w, state)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// draftFromForm reads the shoe form fields. Unparseable prices and dates
// are passed through so validation reports them.
func draftFromForm(r *http.Request) (model.ShoeDraft, error) {
	d := model.ShoeDraft{
		Name:     r.FormValue("name"),
		Brand:    r.FormValue("brand"),
		Model:    r.FormValue("model"),
		Colors:   csvio.SplitColors(r.FormValue("colors")),
		Nickname: r.FormValue("nickname"),
		Category: r.FormValue("category"),
	}

	if v := strings.TrimSpace(r.FormValue("size")); v != "" {
		size, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return d, fmt.Errorf("size must be a number")
		}
		d.Size = &size
	}
	if v := strings.TrimSpace(r.FormValue("purchase_date")); v != "" {
		date, ok := format.ParseDate(v)
		if !ok {
			return d, fmt.Errorf("purchase date must be a date")
		}
		d.PurchaseDate = date
	}
	if v := strings.TrimSpace(r.FormValue("purchase_price")); v != "" {
		price := format.ParseNullCurrency(v)
		if !price.Valid {
			return d, fmt.Errorf("purchase price must be an amount")
		}
		d.PurchasePrice = price
	}
	if err := d.Validate(); err != nil {
		return d, err
	}
	return d, nil
}

// ShoeCreateSubmit handles POST /admin/shoes.
func (s *Server) ShoeCreateSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.MaxUploadBytes); err != nil && err != http.ErrNotMultipart {
		redirectWith(w, r, "/admin", flashError, "The form was too large.")
		return
	}

	draft, err := draftFromForm(r)
	if err != nil {
		s.renderAdmin(w, r, &adminData{
			PageData: PageData{Flash: &Flash{Kind: flashError, Message: "Invalid shoe: " + err.Error()}},
			State:    viewState(r).Open(view.ModalAdd, ""),
			Draft:    draft,
			Source:   r.FormValue("source"),
		})
		return
	}

	imageURL, photoErr := s.savePhoto(r)
	draft.ImageURL = imageURL

	shoe, err := store.CreateShoe(r.Context(), s.DB, draft)
	if err != nil {
		slog.Error("failed to create shoe", "error", err)
		redirectWith(w, r, "/admin", flashError, "Saving the shoe failed.")
		return
	}

	source := metrics.SourceForm
	if r.FormValue("source") == metrics.SourceReceipt {
		source = metrics.SourceReceipt
	}
	s.Metrics.ShoesCreated(source, 1)
	slog.Info("shoe created", "user", actor(r), "shoe", shoe.ID, "source", source)
	saveViewState(w, viewState(r).Close())
	if photoErr != nil {
		redirectWith(w, r, "/admin", flashError, "Added "+shoe.Name+", but "+photoErr.Error()+".")
		return
	}
	redirectWith(w, r, "/admin", flashSuccess, "Added "+shoe.Name+".")
}

// ImportSubmit handles POST /admin/import. The CSV comes from the "file"
// upload or the "csv" text field.
func (s *Server) ImportSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.MaxUploadBytes); err != nil && err != http.ErrNotMultipart {
		redirectWith(w, r, "/admin", flashError, "The file was too large.")
		return
	}

	contents := r.FormValue("csv")
	if file, _, err := r.FormFile("file"); err == nil {
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			redirectWith(w, r, "/admin", flashError, "Reading the file failed.")
			return
		}
		contents = string(data)
	}

	drafts, parseErr := csvio.Parse(contents)
	rejected := csvio.Errors(parseErr)
	s.Metrics.RowsRejected(len(rejected))
	if len(drafts) == 0 {
		msg := "No valid rows to import."
		if len(rejected) > 0 {
			msg += " " + rejectedSummary(rejected)
		}
		redirectWith(w, r, "/admin", flashError, msg)
		return
	}

	shoes, err := store.CreateShoes(r.Context(), s.DB, drafts)
	if err != nil {
		slog.Error("failed to import shoes", "error", err)
		redirectWith(w, r, "/admin", flashError, "Importing failed.")
		return
	}

	s.Metrics.ShoesCreated(metrics.SourceImport, len(shoes))
	slog.Info("shoes imported", "user", actor(r), "count", len(shoes), "rejected", len(rejected))
	saveViewState(w, viewState(r).Close())

	msg := fmt.Sprintf("Imported %d shoes.", len(shoes))
	if len(rejected) > 0 {
		msg += " " + rejectedSummary(rejected)
	}
	redirectWith(w, r, "/admin", flashSuccess, msg)
}

func rejectedSummary(rows []*csvio.RowError) string {
	parts := make([]string, 0, len(rows))
	for _, row := range rows {
		parts = append(parts, fmt.Sprintf("line %d: %s", row.Line, row.Reason))
	}
	noun := "rows"
	if len(rows) == 1 {
		noun = "row"
	}
	return fmt.Sprintf("Skipped %d %s (%s).", len(rows), noun, strings.Join(parts, "; "))
}

// ReceiptSubmit handles POST /admin/receipt. A recognised receipt opens the
// add form pre-filled with its fields.
func (s *Server) ReceiptSubmit(w http.ResponseWriter, r *http.Request) {
	parsed, ok := receipt.Parse(r.FormValue("text"))
	s.Metrics.ReceiptParsed(ok)
	if !ok {
		redirectWith(w, r, "/admin", flashError, "Could not find a product name and order number in the receipt.")
		return
	}

	state := viewState(r).Open(view.ModalAdd, "")
	saveViewState(w, state)
	s.renderAdmin(w, r, &adminData{
		PageData: PageData{Flash: &Flash{Kind: flashSuccess, Message: "Receipt read. Check the details and save."}},
		State:    state,
		Draft:    parsed.Draft(),
		Source:   metrics.SourceReceipt,
	})
}

// TemplateDownload handles GET /admin/template.csv.
func (s *Server) TemplateDownload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="shoe_template.csv"`)
	io.WriteString(w, csvio.Template())
}

// Export handles GET /admin/export.
func (s *Server) Export(w http.ResponseWriter, r *http.Request) {
	shoes, err := store.ListShoes(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list shoes for export", "error", err)
		redirectWith(w, r, "/admin", flashError, "Exporting failed.")
		return
	}
	w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sneakers.tsv"`)
	io.WriteString(w, csvio.Spreadsheet(shoes))
}

// PickSubmit handles POST /admin/pick.
func (s *Server) PickSubmit(w http.ResponseWriter, r *http.Request) {
	shoes, err := store.ListShoes(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list shoes for pick", "error", err)
		redirectWith(w, r, "/admin", flashError, "Picking failed.")
		return
	}

	kind := r.FormValue("kind")
	var (
		shoe model.Shoe
		ok   bool
	)
	switch kind {
	case view.PickLeastWorn:
		shoe, ok = s.Picker.LeastRecentlyWorn(shoes)
	default:
		kind = view.PickRandom
		shoe, ok = s.Picker.Random(shoes)
	}
	if !ok {
		redirectWith(w, r, "/admin", flashError, "Your collection is empty.")
		return
	}

	saveViewState(w, viewState(r).WithPick(&view.Pick{Kind: kind, ShoeID: shoe.ID}))
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
