// Package store persists a citation registry snapshot in SQLite so the
// registry survives between CLI invocations.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mlandis/reftrack/internal/record"
	"github.com/mlandis/reftrack/internal/registry"
)

// schemaDDL creates the reference table. Record lines are stored
// newline-joined; handles stay dense because the whole table is
// rewritten from the registry on save.
const schemaDDL = `CREATE TABLE IF NOT EXISTS refs (
  handle INTEGER PRIMARY KEY,
  citekey TEXT NOT NULL,
  doi TEXT NOT NULL DEFAULT '',
  cited INTEGER NOT NULL DEFAULT 0,
  record TEXT NOT NULL
)`

// Store is a SQLite-backed registry snapshot.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored snapshot with the registry's current
// contents.
func (s *Store) Save(reg *registry.Registry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM refs"); err != nil {
		return fmt.Errorf("clearing snapshot: %w", err)
	}

	for handle := 1; handle <= reg.Count(); handle++ {
		ref, err := reg.Reference(handle)
		if err != nil {
			return err
		}
		cited := 0
		if ref.Cited() {
			cited = 1
		}
		_, err = tx.Exec(
			"INSERT INTO refs (handle, citekey, doi, cited, record) VALUES (?, ?, ?, ?, ?)",
			handle, ref.Key(), ref.DOI(), cited, strings.Join(ref.Record().Lines(), "\n"),
		)
		if err != nil {
			return fmt.Errorf("saving reference %d: %w", handle, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// Load rebuilds a registry from the stored snapshot. References are
// re-added in handle order, so citation keys derive identically to the
// original run; a derived key that disagrees with the stored one means
// the snapshot was edited out-of-band and is reported as corruption.
func (s *Store) Load(capacity int) (*registry.Registry, error) {
	rows, err := s.db.Query("SELECT handle, citekey, doi, cited, record FROM refs ORDER BY handle")
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	defer rows.Close()

	reg := registry.NewWithCapacity(capacity)
	for rows.Next() {
		var handle, cited int
		var key, doi, lines string
		if err := rows.Scan(&handle, &key, &doi, &cited, &lines); err != nil {
			return nil, fmt.Errorf("scanning reference: %w", err)
		}

		rec := record.New(strings.Split(lines, "\n"))
		got, err := reg.Add(rec, doi)
		if err != nil {
			return nil, fmt.Errorf("restoring reference %d: %w", handle, err)
		}
		if got != handle {
			return nil, fmt.Errorf("snapshot corrupt: handle %d restored as %d", handle, got)
		}
		if derived, _ := reg.CitationKey(got); derived != key {
			return nil, fmt.Errorf("snapshot corrupt: reference %d key %q derived as %q", handle, key, derived)
		}
		if cited != 0 {
			if err := reg.Cite(got); err != nil {
				return nil, err
			}
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return reg, nil
}
