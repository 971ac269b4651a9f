// Package catalog is the read-mostly food reference store bundled with the
// service: a sqlite database of catalog foods with per-100g macros and
// declared serving sizes. It feeds snapshot capture at logging time and the
// portion-inference inputs.
package catalog

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Food is one reference catalog row. Macros are per 100g.
type Food struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Brand            string   `json:"brand,omitempty"`
	Barcode          string   `json:"barcode,omitempty"`
	Calories         float64  `json:"calories"`
	Protein          float64  `json:"protein"`
	Carbs            float64  `json:"carbs"`
	Fat              float64  `json:"fat"`
	Fiber            float64  `json:"fiber"`
	ServingSizeGrams *float64 `json:"serving_size_grams,omitempty"`
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}

	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS foods (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        brand TEXT NOT NULL DEFAULT '',
        barcode TEXT NOT NULL DEFAULT '',
        calories REAL NOT NULL DEFAULT 0,
        protein REAL NOT NULL DEFAULT 0,
        carbs REAL NOT NULL DEFAULT 0,
        fat REAL NOT NULL DEFAULT 0,
        fiber REAL NOT NULL DEFAULT 0,
        serving_size_grams REAL
    );

    CREATE INDEX IF NOT EXISTS idx_foods_name ON foods(name);
    CREATE UNIQUE INDEX IF NOT EXISTS idx_foods_barcode ON foods(barcode) WHERE barcode != '';
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const foodColumns = "id, name, brand, barcode, calories, protein, carbs, fat, fiber, serving_size_grams"

func scanFood(row interface{ Scan(...any) error }) (*Food, error) {
	var f Food
	var serving sql.NullFloat64
	err := row.Scan(&f.ID, &f.Name, &f.Brand, &f.Barcode,
		&f.Calories, &f.Protein, &f.Carbs, &f.Fat, &f.Fiber, &serving)
	if err != nil {
		return nil, err
	}
	if serving.Valid {
		f.ServingSizeGrams = &serving.Float64
	}
	return &f, nil
}

// SearchByName returns foods whose name or brand contains the query,
// case-insensitively, up to limit rows.
func (s *Store) SearchByName(query string, limit int) ([]*Food, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	pattern := "%" + query + "%"
	rows, err := s.db.Query(
		"SELECT "+foodColumns+" FROM foods WHERE name LIKE ? OR brand LIKE ? ORDER BY name LIMIT ?",
		pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query foods: %w", err)
	}
	defer rows.Close()

	var foods []*Food
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan food: %w", err)
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}

// GetByID returns a single food or sql.ErrNoRows.
func (s *Store) GetByID(id int64) (*Food, error) {
	row := s.db.QueryRow("SELECT "+foodColumns+" FROM foods WHERE id = ?", id)
	return scanFood(row)
}

// GetByBarcode returns the food carrying the barcode or sql.ErrNoRows.
func (s *Store) GetByBarcode(barcode string) (*Food, error) {
	row := s.db.QueryRow("SELECT "+foodColumns+" FROM foods WHERE barcode = ?", barcode)
	return scanFood(row)
}

// Upsert inserts a food, or replaces the existing row when the barcode is
// already present. Used by the sync endpoint. Returns the row id.
func (s *Store) Upsert(f *Food) (int64, error) {
	if f.Barcode != "" {
		existing, err := s.GetByBarcode(f.Barcode)
		if err == nil {
			_, err = s.db.Exec(`UPDATE foods SET name = ?, brand = ?, calories = ?, protein = ?,
                carbs = ?, fat = ?, fiber = ?, serving_size_grams = ? WHERE id = ?`,
				f.Name, f.Brand, f.Calories, f.Protein, f.Carbs, f.Fat, f.Fiber,
				nullableFloat(f.ServingSizeGrams), existing.ID)
			if err != nil {
				return 0, fmt.Errorf("failed to update food: %w", err)
			}
			return existing.ID, nil
		}
		if err != sql.ErrNoRows {
			return 0, fmt.Errorf("failed to look up barcode: %w", err)
		}
	}

	res, err := s.db.Exec(`INSERT INTO foods (name, brand, barcode, calories, protein, carbs, fat, fiber, serving_size_grams)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Name, f.Brand, f.Barcode, f.Calories, f.Protein, f.Carbs, f.Fat, f.Fiber,
		nullableFloat(f.ServingSizeGrams))
	if err != nil {
		return 0, fmt.Errorf("failed to insert food: %w", err)
	}
	return res.LastInsertId()
}

func nullableFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
