package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MikeSquared-Agency/coach/internal/training"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS coach_state (
	id          INT PRIMARY KEY CHECK (id = 1),
	document    JSONB NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS coach_history (
	id          BIGSERIAL PRIMARY KEY,
	month       TEXT NOT NULL,
	archived_at TIMESTAMPTZ NOT NULL,
	entry       JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_coach_history_month ON coach_history (month, id);

CREATE TABLE IF NOT EXISTS coach_samples (
	id          UUID PRIMARY KEY,
	modality    TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	sample      JSONB NOT NULL
);
`

// PostgresStore keeps the documents as JSONB rows.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Load(ctx context.Context) (*training.State, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT document FROM coach_state WHERE id = 1`).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return training.NewState(timeNow()), nil
		}
		return nil, &training.StorageError{Op: "read state", Err: err}
	}
	return decodeState(doc)
}

func (s *PostgresStore) Save(ctx context.Context, st *training.State) error {
	data, err := stampState(st)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO coach_state (id, document, updated_at)
		VALUES (1, $1, $2)
		ON CONFLICT (id)
		DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`,
		data, st.LastUpdated,
	)
	if err != nil {
		return &training.StorageError{Op: "write state", Err: err}
	}
	return nil
}

func (s *PostgresStore) Reset(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM coach_state`); err != nil {
		return &training.StorageError{Op: "remove state", Err: err}
	}
	return nil
}

func (s *PostgresStore) AppendHistory(ctx context.Context, entry training.HistoryEntry) error {
	if err := validMonth(entry.Month); err != nil {
		return err
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return &training.StorageError{Op: "marshal history", Err: err}
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO coach_history (month, archived_at, entry)
		VALUES ($1, $2, $3)`,
		entry.Month, entry.ArchivedAt, data,
	)
	if err != nil {
		return &training.StorageError{Op: "write history", Err: err}
	}
	return nil
}

func (s *PostgresStore) History(ctx context.Context, month string) ([]training.HistoryEntry, error) {
	if err := validMonth(month); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `
		SELECT entry FROM coach_history
		WHERE month = $1
		ORDER BY id`, month)
	if err != nil {
		return nil, &training.StorageError{Op: "read history", Err: err}
	}
	defer rows.Close()

	history := []training.HistoryEntry{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, &training.StorageError{Op: "scan history", Err: err}
		}
		var entry training.HistoryEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, &training.StorageError{Op: "parse history", Err: err}
		}
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, &training.StorageError{Op: "read history", Err: err}
	}
	return history, nil
}

func (s *PostgresStore) WriteSample(ctx context.Context, sample training.Sample) error {
	id, err := uuid.Parse(sample.ID)
	if err != nil {
		return training.InvalidArguments("sample id %q is not a uuid", sample.ID)
	}
	data, err := json.Marshal(sample)
	if err != nil {
		return &training.StorageError{Op: "marshal sample", Err: err}
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO coach_samples (id, modality, created_at, sample)
		VALUES ($1, $2, $3, $4)`,
		id, sample.Modality, sample.Timestamp, data,
	)
	if err != nil {
		return &training.StorageError{Op: "write sample", Err: err}
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
