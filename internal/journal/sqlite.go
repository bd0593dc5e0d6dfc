// Package journal persists the settlement audit chain to a local SQLite
// file. The store is a write-only sink for a run: entries are never read back
// into engine state, so runs stay independent of each other.
package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/settler/pkg/audit"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_entries (
	id            TEXT PRIMARY KEY,
	seq           INTEGER NOT NULL,
	timestamp     TEXT NOT NULL,
	previous_hash TEXT NOT NULL,
	tx_id         INTEGER NOT NULL,
	client_id     INTEGER NOT NULL,
	kind          TEXT NOT NULL,
	outcome       TEXT NOT NULL,
	reason        TEXT NOT NULL,
	hash          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_entries_seq ON audit_entries (seq);
`

// Store is a SQLite-backed sink for audit chain entries.
type Store struct {
	db  *sql.DB
	seq int64
}

// Open opens (creating if necessary) the audit database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create audit schema: %w", err)
	}

	var seq sql.NullInt64
	if err := db.QueryRow("SELECT MAX(seq) FROM audit_entries").Scan(&seq); err != nil {
		db.Close()
		return nil, fmt.Errorf("read audit sequence: %w", err)
	}

	return &Store{db: db, seq: seq.Int64}, nil
}

// Append persists one audit entry.
func (s *Store) Append(entry *audit.Entry) error {
	s.seq++
	_, err := s.db.Exec(
		`INSERT INTO audit_entries (id, seq, timestamp, previous_hash, tx_id, client_id, kind, outcome, reason, hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, s.seq, entry.Timestamp, entry.PreviousHash,
		entry.TxID, entry.ClientID, entry.Kind, entry.Outcome, entry.Reason, entry.Hash,
	)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// Entries returns all persisted entries in append order, for verification.
func (s *Store) Entries() ([]*audit.Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, timestamp, previous_hash, tx_id, client_id, kind, outcome, reason, hash
		 FROM audit_entries ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*audit.Entry
	for rows.Next() {
		entry := &audit.Entry{}
		if err := rows.Scan(
			&entry.ID, &entry.Timestamp, &entry.PreviousHash,
			&entry.TxID, &entry.ClientID, &entry.Kind, &entry.Outcome, &entry.Reason, &entry.Hash,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
