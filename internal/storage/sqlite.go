package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteKV stores values in an ItemTable(key, value) table, the same layout
// editors use for their global state databases.
type SQLiteKV struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	// WAL + busy timeout avoid lock errors; immediate transactions take the
	// write lock up front.
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS ItemTable (key TEXT PRIMARY KEY, value BLOB)"); err != nil {
		db.Close()
		return nil, fmt.Errorf("create ItemTable: %w", err)
	}
	return &SQLiteKV{db: db, path: path}, nil
}

func (k *SQLiteKV) Path() string { return k.path }

func (k *SQLiteKV) Get(key string) ([]byte, error) {
	var raw []byte
	err := k.db.QueryRow("SELECT value FROM ItemTable WHERE key = ?", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (k *SQLiteKV) Put(key string, value []byte) error {
	tx, err := k.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec("INSERT INTO ItemTable(key, value) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value", key, value); err != nil {
		return err
	}
	return tx.Commit()
}

// Checkpoint folds the WAL back into the main file so a plain file copy
// captures every committed write.
func (k *SQLiteKV) Checkpoint() error {
	_, err := k.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}

func (k *SQLiteKV) Close() error {
	_ = k.Checkpoint()
	return k.db.Close()
}
