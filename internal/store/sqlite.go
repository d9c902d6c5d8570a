// Package store persists plan documents in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/Faultbox/floorplan/internal/editor"
)

// ErrNotFound is returned when no plan has the requested ID.
var ErrNotFound = errors.New("plan not found")

const schema = `
CREATE TABLE IF NOT EXISTS plans (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	document   TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS plans_updated_at ON plans (updated_at);
`

// timeLayout sorts lexicographically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Plan is a stored plan document.
type Plan struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Document  *editor.Document `json:"document,omitempty"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Store is a SQLite-backed plan repository.
type Store struct {
	db *sql.DB
}

// New wraps an open database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens the database at path, creating it and its schema if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	s := New(db)
	if err := s.Init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenSQLite opens a SQLite database file, creating its directory.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// Init applies the schema.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts or replaces a plan. A zero ID is assigned a new one and the
// update time is set to now.
func (s *Store) Save(ctx context.Context, p *Plan) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Document == nil {
		p.Document = &editor.Document{}
	}
	data, err := json.Marshal(p.Document)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	p.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
        INSERT INTO plans (id, name, document, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (id) DO UPDATE SET
            name = excluded.name,
            document = excluded.document,
            updated_at = excluded.updated_at
    `, p.ID.String(), p.Name, string(data), p.UpdatedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save plan %s: %w", p.ID, err)
	}
	return nil
}

// Get loads a plan with its document.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*Plan, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, name, document, updated_at
        FROM plans
        WHERE id = ?
    `, id.String())

	var (
		rawID, doc, updated string
		p                   Plan
	)
	if err := row.Scan(&rawID, &p.Name, &doc, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if err := scanMeta(&p, rawID, updated); err != nil {
		return nil, err
	}
	p.Document = &editor.Document{}
	if err := json.Unmarshal([]byte(doc), p.Document); err != nil {
		return nil, fmt.Errorf("decode document of plan %s: %w", id, err)
	}
	return &p, nil
}

// List returns every plan without its document, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Plan, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, updated_at
        FROM plans
        ORDER BY updated_at DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []Plan{}
	for rows.Next() {
		var (
			rawID, updated string
			p              Plan
		)
		if err := rows.Scan(&rawID, &p.Name, &updated); err != nil {
			return nil, err
		}
		if err := scanMeta(&p, rawID, updated); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// Delete removes a plan.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete plan %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanMeta(p *Plan, rawID, updated string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("plan id %q: %w", rawID, err)
	}
	p.ID = id
	t, err := time.Parse(timeLayout, updated)
	if err != nil {
		return fmt.Errorf("plan %s updated_at: %w", id, err)
	}
	p.UpdatedAt = t
	return nil
}
