package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ppiankov/hirewatch/internal/model"
)

// SQLiteStore persists authors in a single-file SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, wrapErr("open author db", err)
	}

	// sqlite typically wants a single writer
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, wrapErr("ping author db", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	tx, err := s.db.Begin()
	if err != nil {
		return wrapErr("begin migration", err)
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return wrapErr("read schema version", err)
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS authors (
  identity_key TEXT PRIMARY KEY,
  data TEXT NOT NULL,
  updated_at TEXT NOT NULL
);`); err != nil {
		return wrapErr("create authors table", err)
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return wrapErr("set schema version", err)
	}
	if err := tx.Commit(); err != nil {
		return wrapErr("commit migration", err)
	}
	return nil
}

// Get loads an author row.
func (s *SQLiteStore) Get(key string) (model.Author, bool, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM authors WHERE identity_key = ?;`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return model.Author{}, false, nil
	}
	if err != nil {
		return model.Author{}, false, wrapErr("query author", err)
	}

	var author model.Author
	if err := json.Unmarshal([]byte(data), &author); err != nil {
		return model.Author{}, false, wrapErr("decode author row", err)
	}
	return author, true, nil
}

// Put upserts an author row.
func (s *SQLiteStore) Put(key string, author model.Author) error {
	data, err := json.Marshal(author)
	if err != nil {
		return wrapErr("encode author", err)
	}

	_, err = s.db.Exec(`
INSERT INTO authors (identity_key, data, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(identity_key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at;`,
		key, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return wrapErr("upsert author", err)
	}
	return nil
}

// Delete removes an author row.
func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM authors WHERE identity_key = ?;`, key); err != nil {
		return wrapErr("delete author", err)
	}
	return nil
}

// Keys lists all stored identity keys.
func (s *SQLiteStore) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT identity_key FROM authors ORDER BY identity_key;`)
	if err != nil {
		return nil, wrapErr("list authors", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, wrapErr("scan author key", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list authors", err)
	}
	return keys, nil
}

// Clear removes all author rows.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM authors;`); err != nil {
		return wrapErr("clear authors", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
