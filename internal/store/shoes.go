package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/sneakerbox/internal/model"
)

const shoeColumns = `id, name, brand, model, colors, nickname, category, size,
	purchase_date, purchase_price, image_url, last_worn, last_cleaned,
	wear_count, created_at, updated_at`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanShoe(row scanner) (*model.Shoe, error) {
	s := &model.Shoe{}
	var colors string
	var nickname, purchaseDate, imageURL sql.NullString
	var size sql.NullFloat64
	err := row.Scan(&s.ID, &s.Name, &s.Brand, &s.Model, &colors, &nickname, &s.Category, &size,
		&purchaseDate, &s.PurchasePrice, &imageURL, &s.LastWorn, &s.LastCleaned,
		&s.WearCount, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(colors), &s.Colors); err != nil {
		return nil, fmt.Errorf("decoding colors: %w", err)
	}
	if len(s.Colors) == 0 {
		s.Colors = nil
	}
	s.Nickname = nickname.String
	s.PurchaseDate = purchaseDate.String
	s.ImageURL = imageURL.String
	if size.Valid {
		v := size.Float64
		s.Size = &v
	}
	return s, nil
}

// newShoe builds a shoe record for a normalized draft.
func newShoe(d model.ShoeDraft, now time.Time) model.Shoe {
	d = d.Normalize()
	return model.Shoe{
		ID:            uuid.NewString(),
		Name:          d.Name,
		Brand:         d.Brand,
		Model:         d.Model,
		Colors:        d.Colors,
		Nickname:      d.Nickname,
		Category:      d.Category,
		Size:          d.Size,
		PurchaseDate:  d.PurchaseDate,
		PurchasePrice: d.PurchasePrice,
		ImageURL:      d.ImageURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func encodeColors(colors []string) (string, error) {
	if colors == nil {
		colors = []string{}
	}
	b, err := json.Marshal(colors)
	if err != nil {
		return "", fmt.Errorf("encoding colors: %w", err)
	}
	return string(b), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func insertShoe(ctx context.Context, db execer, s model.Shoe) error {
	colors, err := encodeColors(s.Colors)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO shoes (id, name, brand, model, colors, nickname, category, size,
		     purchase_date, purchase_price, image_url, wear_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		s.ID, s.Name, s.Brand, s.Model, colors, nullString(s.Nickname), s.Category, s.Size,
		nullString(s.PurchaseDate), s.PurchasePrice, nullString(s.ImageURL), s.CreatedAt, s.UpdatedAt,
	)
	return err
}

// CreateShoe stores a new shoe built from a draft.
func CreateShoe(ctx context.Context, db *sql.DB, d model.ShoeDraft) (*model.Shoe, error) {
	s := newShoe(d, time.Now().UTC())
	if err := insertShoe(ctx, db, s); err != nil {
		return nil, fmt.Errorf("creating shoe: %w", err)
	}
	return GetShoe(ctx, db, s.ID)
}

// CreateShoes stores several drafts in one transaction. Either every shoe is
// stored or none is.
func CreateShoes(ctx context.Context, db *sql.DB, drafts []model.ShoeDraft) ([]model.Shoe, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	shoes := make([]model.Shoe, 0, len(drafts))
	for i, d := range drafts {
		// Distinct timestamps keep the import order stable under created_at sorting.
		s := newShoe(d, now.Add(time.Duration(i)*time.Microsecond))
		if err := insertShoe(ctx, tx, s); err != nil {
			return nil, fmt.Errorf("importing shoe %q: %w", s.Name, err)
		}
		shoes = append(shoes, s)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing import: %w", err)
	}
	return shoes, nil
}

// GetShoe returns a shoe by ID, or nil if it does not exist.
func GetShoe(ctx context.Context, db *sql.DB, id string) (*model.Shoe, error) {
	s, err := scanShoe(db.QueryRowContext(ctx,
		`SELECT `+shoeColumns+` FROM shoes WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting shoe: %w", err)
	}
	return s, nil
}

// ListShoes returns the whole collection, most recently added first.
func ListShoes(ctx context.Context, db *sql.DB) ([]model.Shoe, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+shoeColumns+` FROM shoes ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing shoes: %w", err)
	}
	defer rows.Close()

	var shoes []model.Shoe
	for rows.Next() {
		s, err := scanShoe(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning shoe: %w", err)
		}
		shoes = append(shoes, *s)
	}
	return shoes, rows.Err()
}

// UpdateShoe replaces a shoe's descriptive and acquisition fields. Usage
// fields are left alone. An empty ImageURL keeps the current image.
func UpdateShoe(ctx context.Context, db *sql.DB, id string, d model.ShoeDraft) error {
	d = d.Normalize()
	colors, err := encodeColors(d.Colors)
	if err != nil {
		return err
	}
	result, err := db.ExecContext(ctx,
		`UPDATE shoes SET name = ?, brand = ?, model = ?, colors = ?, nickname = ?, category = ?,
		     size = ?, purchase_date = ?, purchase_price = ?,
		     image_url = COALESCE(?, image_url), updated_at = ?
		 WHERE id = ?`,
		d.Name, d.Brand, d.Model, colors, nullString(d.Nickname), d.Category,
		d.Size, nullString(d.PurchaseDate), d.PurchasePrice,
		nullString(d.ImageURL), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating shoe: %w", err)
	}
	return expectRow(result)
}

// SetShoeImage points a shoe at an uploaded photo.
func SetShoeImage(ctx context.Context, db *sql.DB, id, url string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE shoes SET image_url = ?, updated_at = ? WHERE id = ?`,
		url, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting shoe image: %w", err)
	}
	return expectRow(result)
}

// DeleteShoe removes a shoe; its history is removed by the foreign key cascade.
func DeleteShoe(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM shoes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting shoe: %w", err)
	}
	return expectRow(result)
}

// MarkShoeWorn increments the wear count and moves last_worn forward to at.
// The increment happens in SQL, so concurrent wears are never lost.
func MarkShoeWorn(ctx context.Context, db *sql.DB, id string, at time.Time) error {
	at = at.UTC()
	result, err := db.ExecContext(ctx,
		`UPDATE shoes SET wear_count = wear_count + 1,
		     last_worn = CASE WHEN last_worn IS NULL OR last_worn < ? THEN ? ELSE last_worn END,
		     updated_at = ?
		 WHERE id = ?`,
		at, at, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("marking shoe worn: %w", err)
	}
	return expectRow(result)
}

// MarkShoeCleaned moves last_cleaned forward to at.
func MarkShoeCleaned(ctx context.Context, db *sql.DB, id string, at time.Time) error {
	at = at.UTC()
	result, err := db.ExecContext(ctx,
		`UPDATE shoes SET
		     last_cleaned = CASE WHEN last_cleaned IS NULL OR last_cleaned < ? THEN ? ELSE last_cleaned END,
		     updated_at = ?
		 WHERE id = ?`,
		at, at, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("marking shoe cleaned: %w", err)
	}
	return expectRow(result)
}
