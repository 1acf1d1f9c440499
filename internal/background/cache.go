package background

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Cache is the on-disk index of previously downloaded backgrounds. Entries
// are keyed by the exact search term and media kind so repeated runs with the
// same script reuse the same asset instead of burning provider quota.
type Cache struct {
	db  *sql.DB
	dir string
}

// CacheEntry describes one cached background asset.
type CacheEntry struct {
	Term      string
	Kind      Kind
	Path      string
	Source    string
	Width     int
	Height    int
	CreatedAt time.Time
}

// OpenCache initializes or connects to the background cache under dir.
// Assets live next to the index so a cache clear can remove both together.
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	dbPath := filepath.Join(dir, "backgrounds.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	cache := &Cache{db: db, dir: dir}
	if err := cache.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

func (c *Cache) initSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS backgrounds (
	term TEXT NOT NULL,
	kind TEXT NOT NULL,
	path TEXT NOT NULL,
	source TEXT NOT NULL DEFAULT '',
	width INTEGER NOT NULL DEFAULT 0,
	height INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	PRIMARY KEY (term, kind)
)`
	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init cache schema: %w", err)
	}
	return nil
}

// Dir returns the directory cached assets are stored under.
func (c *Cache) Dir() string { return c.dir }

// Lookup returns the cached entry for term and kind. Entries whose asset
// file has since disappeared are dropped from the index and reported as a
// miss so the resolver re-downloads.
func (c *Cache) Lookup(ctx context.Context, term string, kind Kind) (CacheEntry, bool, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT term, kind, path, source, width, height, created_at FROM backgrounds WHERE term = ? AND kind = ?`,
		term, string(kind))
	entry, err := scanCacheEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return CacheEntry{}, false, nil
	}
	if err != nil {
		return CacheEntry{}, false, fmt.Errorf("cache lookup: %w", err)
	}
	if _, statErr := os.Stat(entry.Path); statErr != nil {
		_, _ = c.db.ExecContext(ctx, `DELETE FROM backgrounds WHERE term = ? AND kind = ?`, term, string(kind))
		return CacheEntry{}, false, nil
	}
	return entry, true, nil
}

// Record adds or replaces the cached entry for term and kind. Last write
// wins; the previous asset file is left in place only if the new entry
// points somewhere else.
func (c *Cache) Record(ctx context.Context, entry CacheEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO backgrounds (term, kind, path, source, width, height, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(term, kind) DO UPDATE SET
			path = excluded.path,
			source = excluded.source,
			width = excluded.width,
			height = excluded.height,
			created_at = excluded.created_at`,
		entry.Term, string(entry.Kind), entry.Path, entry.Source,
		entry.Width, entry.Height, entry.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("cache record: %w", err)
	}
	return nil
}

// List returns every cached entry ordered by term then kind.
func (c *Cache) List(ctx context.Context) ([]CacheEntry, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT term, kind, path, source, width, height, created_at FROM backgrounds ORDER BY term, kind`)
	if err != nil {
		return nil, fmt.Errorf("cache list: %w", err)
	}
	defer rows.Close()

	var entries []CacheEntry
	for rows.Next() {
		entry, scanErr := scanCacheEntry(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("cache list: %w", scanErr)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cache list: %w", err)
	}
	return entries, nil
}

// Clear removes every index row and deletes the asset files the rows point
// at. Files that are already gone are skipped silently.
func (c *Cache) Clear(ctx context.Context) (int, error) {
	entries, err := c.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		if removeErr := os.Remove(entry.Path); removeErr != nil && !os.IsNotExist(removeErr) {
			return 0, fmt.Errorf("cache clear: remove %s: %w", entry.Path, removeErr)
		}
	}
	if _, err := c.db.ExecContext(ctx, `DELETE FROM backgrounds`); err != nil {
		return 0, fmt.Errorf("cache clear: %w", err)
	}
	return len(entries), nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCacheEntry(row rowScanner) (CacheEntry, error) {
	var (
		entry   CacheEntry
		kind    string
		created string
	)
	if err := row.Scan(&entry.Term, &kind, &entry.Path, &entry.Source, &entry.Width, &entry.Height, &created); err != nil {
		return CacheEntry{}, err
	}
	entry.Kind = Kind(kind)
	if ts, err := time.Parse(time.RFC3339, created); err == nil {
		entry.CreatedAt = ts
	}
	return entry, nil
}
