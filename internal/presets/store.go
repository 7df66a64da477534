// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/presets/store.go
// Summary: Named glitch option patches persisted in a sqlite file.
// Usage: s, err := presets.Open(config.PresetDBPath()); s.Save(ctx, "loud", p)
// Notes: Patches are stored as their JSON form, so omitted fields stay omitted
// when the preset is layered over other sources.

package presets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/framegrace/texelglitch/glitch"
)

var (
	ErrNotFound    = errors.New("presets: not found")
	ErrInvalidName = errors.New("presets: invalid name")
)

const schema = `
CREATE TABLE IF NOT EXISTS presets (
	name       TEXT PRIMARY KEY,
	options    TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Preset is one stored patch.
type Preset struct {
	Name      string
	Options   glitch.Partial
	UpdatedAt time.Time
}

// Store is a sqlite-backed preset table.
type Store struct {
	db *sql.DB
}

// Open creates the database file and its parent directory when missing.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("presets: create dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("presets: open %s: %w", path, err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("presets: %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("presets: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func normalize(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}

// Save inserts or replaces the preset called name.
func (s *Store) Save(ctx context.Context, name string, p glitch.Partial) error {
	name, err := normalize(name)
	if err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("presets: encode %q: %w", name, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO presets (name, options, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET options = excluded.options, updated_at = excluded.updated_at`,
		name, string(data), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("presets: save %q: %w", name, err)
	}
	return nil
}

// Load returns the patch stored under name.
func (s *Store) Load(ctx context.Context, name string) (glitch.Partial, error) {
	name, err := normalize(name)
	if err != nil {
		return glitch.Partial{}, err
	}
	var raw string
	err = s.db.QueryRowContext(ctx, `SELECT options FROM presets WHERE name = ?`, name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return glitch.Partial{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return glitch.Partial{}, fmt.Errorf("presets: load %q: %w", name, err)
	}
	p, err := glitch.ParsePartial([]byte(raw))
	if err != nil {
		return glitch.Partial{}, fmt.Errorf("presets: decode %q: %w", name, err)
	}
	return p, nil
}

// List returns every preset ordered by name.
func (s *Store) List(ctx context.Context) ([]Preset, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, options, updated_at FROM presets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("presets: list: %w", err)
	}
	defer rows.Close()

	var out []Preset
	for rows.Next() {
		var (
			name, raw string
			updated   int64
		)
		if err := rows.Scan(&name, &raw, &updated); err != nil {
			return nil, fmt.Errorf("presets: scan: %w", err)
		}
		p, err := glitch.ParsePartial([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("presets: decode %q: %w", name, err)
		}
		out = append(out, Preset{Name: name, Options: p, UpdatedAt: time.UnixMilli(updated)})
	}
	return out, rows.Err()
}

// Delete removes name. Deleting a missing preset returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	name, err := normalize(name)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM presets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("presets: delete %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}
