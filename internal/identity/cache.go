// Package identity resolves roster members to canonical OpenAlex author
// identifiers, backed by a persistent cache so that lookups happen at
// most once per name across runs.
package identity

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Entry is one cached resolution outcome. A negative outcome (no
// candidate found) is stored with an empty AuthorID and a note, and is
// just as authoritative as a positive one: it is never retried unless
// the cache file is removed. That staleness is accepted to keep runs
// idempotent and cheap.
type Entry struct {
	NameNorm    string
	AuthorID    string
	DisplayName string
	Institution string
	WorksCount  int
	Note        string
}

// Resolved reports whether the entry carries a chosen identifier.
func (e Entry) Resolved() bool {
	return e.AuthorID != ""
}

// Cache is the persistent name -> resolution cache. All entries are
// loaded at open; mutations stay in memory until Save. Entries are only
// ever added, never evicted or refreshed.
type Cache struct {
	db      *sql.DB
	entries map[string]Entry
}

// OpenCache opens (or creates) the cache database at the given path and
// loads all entries.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening author cache: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating author cache schema: %w", err)
	}

	c := &Cache{db: db, entries: make(map[string]Entry)}
	if err := c.loadAll(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS author_cache (
			name_norm    TEXT PRIMARY KEY,
			author_id    TEXT NOT NULL DEFAULT '',
			display_name TEXT NOT NULL DEFAULT '',
			institution  TEXT NOT NULL DEFAULT '',
			works_count  INTEGER NOT NULL DEFAULT 0,
			note         TEXT NOT NULL DEFAULT ''
		);
	`
	_, err := db.Exec(schema)
	return err
}

func (c *Cache) loadAll() error {
	rows, err := c.db.Query(`SELECT name_norm, author_id, display_name, institution, works_count, note FROM author_cache`)
	if err != nil {
		return fmt.Errorf("loading author cache: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.NameNorm, &e.AuthorID, &e.DisplayName, &e.Institution, &e.WorksCount, &e.Note); err != nil {
			return fmt.Errorf("scanning author cache row: %w", err)
		}
		c.entries[e.NameNorm] = e
	}
	return rows.Err()
}

// Lookup returns the cached outcome for a normalized name, if any.
func (c *Cache) Lookup(nameNorm string) (Entry, bool) {
	e, ok := c.entries[nameNorm]
	return e, ok
}

// Put records an outcome in memory. An existing entry for the same name
// is replaced.
func (c *Cache) Put(e Entry) {
	c.entries[e.NameNorm] = e
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Save persists every entry, replacing any stored version. Called once
// at the end of a run.
func (c *Cache) Save() error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("saving author cache: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO author_cache (name_norm, author_id, display_name, institution, works_count, note)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name_norm) DO UPDATE SET
			author_id = excluded.author_id,
			display_name = excluded.display_name,
			institution = excluded.institution,
			works_count = excluded.works_count,
			note = excluded.note
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("saving author cache: %w", err)
	}
	defer stmt.Close()

	for _, e := range c.entries {
		if _, err := stmt.Exec(e.NameNorm, e.AuthorID, e.DisplayName, e.Institution, e.WorksCount, e.Note); err != nil {
			tx.Rollback()
			return fmt.Errorf("saving author cache entry %q: %w", e.NameNorm, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing author cache: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
