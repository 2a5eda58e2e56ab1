// Package sqlite provides a SQLite-backed lead store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-leadform/internal/storage"
	"github.com/goliatone/go-leadform/internal/storage/sqlite/migrations"
)

// Store persists leads in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ storage.Store = (*Store)(nil)

// Open opens the database at path and applies the embedded migrations.
// ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := ":memory:"
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// each pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save inserts lead, assigning an ID and creation time when missing.
func (s *Store) Save(ctx context.Context, lead storage.Lead) (storage.Lead, error) {
	if s == nil || s.db == nil {
		return storage.Lead{}, fmt.Errorf("storage is not configured")
	}
	lead.FormName = strings.TrimSpace(lead.FormName)
	lead.Email = strings.TrimSpace(lead.Email)
	if lead.FormName == "" {
		return storage.Lead{}, fmt.Errorf("form name is required")
	}
	if lead.Email == "" {
		return storage.Lead{}, fmt.Errorf("email is required")
	}
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = s.now()
	}
	lead.CreatedAt = lead.CreatedAt.UTC().Truncate(time.Millisecond)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leads (
		   id, form_name, square_footage, solar_value, email,
		   estimate_low, estimate_high, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.ID,
		lead.FormName,
		lead.SquareFootage,
		lead.SolarValue,
		lead.Email,
		lead.EstimateLow,
		lead.EstimateHigh,
		lead.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return storage.Lead{}, fmt.Errorf("insert lead: %w", err)
	}
	return lead, nil
}

// Get loads one lead by ID.
func (s *Store) Get(ctx context.Context, id string) (storage.Lead, error) {
	if s == nil || s.db == nil {
		return storage.Lead{}, fmt.Errorf("storage is not configured")
	}
	row := s.db.QueryRowContext(ctx, selectLeads+` WHERE id = ?`, strings.TrimSpace(id))
	lead, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Lead{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

// List returns leads newest first.
func (s *Store) List(ctx context.Context, filter storage.ListFilter) ([]storage.Lead, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	query := selectLeads
	var args []any
	if name := strings.TrimSpace(filter.FormName); name != "" {
		query += ` WHERE form_name = ?`
		args = append(args, name)
	}
	query += ` ORDER BY created_at DESC, id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := []storage.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return leads, nil
}

const selectLeads = `SELECT id, form_name, square_footage, solar_value, email, estimate_low, estimate_high, created_at FROM leads`

type scanner interface {
	Scan(dest ...any) error
}

func scanLead(row scanner) (storage.Lead, error) {
	var (
		lead    storage.Lead
		created int64
	)
	if err := row.Scan(
		&lead.ID,
		&lead.FormName,
		&lead.SquareFootage,
		&lead.SolarValue,
		&lead.Email,
		&lead.EstimateLow,
		&lead.EstimateHigh,
		&created,
	); err != nil {
		return storage.Lead{}, err
	}
	lead.CreatedAt = time.UnixMilli(created).UTC()
	return lead, nil
}
