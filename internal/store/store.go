package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/MikeSquared-Agency/coach/internal/training"
)

// Backend persists the training document, the monthly history logs and
// analyzed samples. Implementations do no locking: two processes doing
// Load/Save against the same backend can lose an update.
type Backend interface {
	Load(ctx context.Context) (*training.State, error)
	Save(ctx context.Context, s *training.State) error
	Reset(ctx context.Context) error

	AppendHistory(ctx context.Context, entry training.HistoryEntry) error
	History(ctx context.Context, month string) ([]training.HistoryEntry, error)

	WriteSample(ctx context.Context, sample training.Sample) error

	Close() error
}

const (
	KindFile     = "file"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Kind        string
	Dir         string
	SQLitePath  string
	DatabaseURL string
}

// Open returns the backend named by opts.Kind.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Kind {
	case "", KindFile:
		return NewFileStore(opts.Dir), nil
	case KindSQLite:
		path := opts.SQLitePath
		if path == "" {
			path = filepath.Join(opts.Dir, "coach.db")
		}
		return NewSQLiteStore(path)
	case KindPostgres:
		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres backend requires DATABASE_URL")
		}
		return NewPostgresStore(ctx, opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown backend %q", opts.Kind)
	}
}

// timeNow is swapped out by tests.
var timeNow = func() time.Time { return time.Now().UTC() }

func decodeState(data []byte) (*training.State, error) {
	var s training.State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &training.StorageError{Op: "parse state", Err: err}
	}
	s.Normalize()
	return &s, nil
}

// stampState sets last_updated and encodes the whole document.
func stampState(s *training.State) ([]byte, error) {
	s.LastUpdated = timeNow()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, &training.StorageError{Op: "marshal state", Err: err}
	}
	return data, nil
}

func validMonth(month string) error {
	if _, err := time.Parse("2006-01", month); err != nil {
		return training.InvalidArguments("month %q is not YYYY-MM", month)
	}
	return nil
}
