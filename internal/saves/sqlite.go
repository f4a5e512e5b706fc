package saves

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

const sqliteTable = "save_slot"

// SQLite keeps each snapshot as its JSON wire form in a key/value table.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	s, err := NewSQLite(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLite creates the table if needed. The store takes ownership of db.
func NewSQLite(db *sql.DB) (*SQLite, error) {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS ` + sqliteTable + ` (
	key		TEXT PRIMARY KEY,
	value	BLOB
);`)
	if err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Save(ctx context.Context, slot string, snap mines.Snapshot) error {
	if err := checkName(slot); err != nil {
		return err
	}
	data, err := snap.Bytes()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
INSERT INTO `+sqliteTable+` (key, value)
VALUES(?, ?)
ON CONFLICT(key)
DO UPDATE SET value=excluded.value;`,
		slot, data)
	return err
}

func (s *SQLite) Load(ctx context.Context, slot string) (mines.Snapshot, error) {
	if err := checkName(slot); err != nil {
		return mines.Snapshot{}, err
	}
	var v []byte
	err := s.db.QueryRowContext(
		ctx, `SELECT value FROM `+sqliteTable+` WHERE key = ?;`, slot,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return mines.Snapshot{}, ErrNotFound
	} else if err != nil {
		return mines.Snapshot{}, err
	}
	return mines.DecodeSnapshot(v)
}

func (s *SQLite) Delete(ctx context.Context, slot string) error {
	if err := checkName(slot); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM `+sqliteTable+` WHERE key = ?;`, slot)
	return err
}

func (s *SQLite) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM `+sqliteTable+` ORDER BY key;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
