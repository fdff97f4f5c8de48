package repository

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the sqlite handle shared by the repositories.
type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS receipts (
  id TEXT PRIMARY KEY,
  amount REAL,
  payee TEXT,
  payee_kind TEXT,
  receipt_date TEXT,
  receipt_time TEXT,
  confidence REAL NOT NULL,
  is_valid INTEGER NOT NULL DEFAULT 0,
  matched_rule TEXT,
  score REAL NOT NULL DEFAULT 0,
  message TEXT,
  raw_text TEXT,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_receipts_created_at ON receipts(created_at);
CREATE INDEX IF NOT EXISTS idx_receipts_is_valid ON receipts(is_valid);

CREATE TABLE IF NOT EXISTS acceptance_rules (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  position INTEGER NOT NULL,
  name TEXT NOT NULL,
  expected_amount REAL,
  tolerance REAL NOT NULL DEFAULT 0.01,
  expected_recipient TEXT,
  valid_phones TEXT,
  valid_amounts TEXT,
  valid_accounts TEXT,
  valid_cards TEXT,
  min_confidence REAL NOT NULL DEFAULT 0,
  issuance_file TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_rules_position ON acceptance_rules(position);
`
	if _, err := d.conn.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}
