package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MikeSquared-Agency/coach/internal/training"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS coach_state (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	document    TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS coach_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	month       TEXT NOT NULL,
	archived_at TEXT NOT NULL,
	entry       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_coach_history_month ON coach_history (month, id);

CREATE TABLE IF NOT EXISTS coach_samples (
	id          TEXT PRIMARY KEY,
	modality    TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	sample      TEXT NOT NULL
);
`

// SQLiteStore keeps the documents in a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and runs migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*training.State, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM coach_state WHERE id = 1`).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return training.NewState(timeNow()), nil
		}
		return nil, &training.StorageError{Op: "read state", Err: err}
	}
	return decodeState([]byte(doc))
}

func (s *SQLiteStore) Save(ctx context.Context, st *training.State) error {
	data, err := stampState(st)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO coach_state (id, document, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		string(data), st.LastUpdated.Format(time.RFC3339Nano),
	)
	if err != nil {
		return &training.StorageError{Op: "write state", Err: err}
	}
	return nil
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM coach_state`); err != nil {
		return &training.StorageError{Op: "remove state", Err: err}
	}
	return nil
}

func (s *SQLiteStore) AppendHistory(ctx context.Context, entry training.HistoryEntry) error {
	if err := validMonth(entry.Month); err != nil {
		return err
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return &training.StorageError{Op: "marshal history", Err: err}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO coach_history (month, archived_at, entry) VALUES (?, ?, ?)`,
		entry.Month, entry.ArchivedAt.Format(time.RFC3339Nano), string(data),
	)
	if err != nil {
		return &training.StorageError{Op: "write history", Err: err}
	}
	return nil
}

func (s *SQLiteStore) History(ctx context.Context, month string) ([]training.HistoryEntry, error) {
	if err := validMonth(month); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT entry FROM coach_history WHERE month = ? ORDER BY id`, month,
	)
	if err != nil {
		return nil, &training.StorageError{Op: "read history", Err: err}
	}
	defer rows.Close()

	history := []training.HistoryEntry{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, &training.StorageError{Op: "scan history", Err: err}
		}
		var entry training.HistoryEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, &training.StorageError{Op: "parse history", Err: err}
		}
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, &training.StorageError{Op: "read history", Err: err}
	}
	return history, nil
}

func (s *SQLiteStore) WriteSample(ctx context.Context, sample training.Sample) error {
	data, err := json.Marshal(sample)
	if err != nil {
		return &training.StorageError{Op: "marshal sample", Err: err}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO coach_samples (id, modality, created_at, sample) VALUES (?, ?, ?, ?)`,
		sample.ID, sample.Modality, sample.Timestamp.Format(time.RFC3339Nano), string(data),
	)
	if err != nil {
		return &training.StorageError{Op: "write sample", Err: err}
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
