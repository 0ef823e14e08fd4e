package locker

import (
	"database/sql"
	"encoding/json"
	"errors"

	_ "modernc.org/sqlite"
)

// SQLiteBackend persists the document as a single row in an embedded SQLite
// database. Each save is one atomic statement, which closes the
// corruption-on-crash window of whole-file overwrite.
type SQLiteBackend struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS document (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		payload TEXT NOT NULL
	);`); err != nil {
		return nil, err
	}
	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) Load() (*Document, error) {
	var payload string
	err := b.db.QueryRow(`SELECT payload FROM document WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return NewDocument(), nil
	}
	if err != nil {
		return nil, err
	}
	var d Document
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (b *SQLiteBackend) Save(d *Document) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return err
	}
	_, err = b.db.Exec(
		`INSERT OR REPLACE INTO document (id, payload) VALUES (1, ?)`,
		string(payload),
	)
	return err
}

func (b *SQLiteBackend) Close() error { return b.db.Close() }
