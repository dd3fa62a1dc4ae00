package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/coach/internal/training"
)

const (
	stateFile  = "state.json"
	historyDir = "history"
	samplesDir = "samples"
)

// FileStore keeps every document as indented JSON under one directory:
// state.json, history/YYYY-MM.json and samples/*.json.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = "."
	}
	return &FileStore{dir: expandHome(dir)}
}

// Dir returns the root directory.
func (f *FileStore) Dir() string {
	return f.dir
}

func (f *FileStore) statePath() string {
	return filepath.Join(f.dir, stateFile)
}

func (f *FileStore) historyPath(month string) string {
	return filepath.Join(f.dir, historyDir, month+".json")
}

// Load reads state.json, or returns a fresh default document if it does not
// exist. A document that exists but cannot be parsed is an error.
func (f *FileStore) Load(_ context.Context) (*training.State, error) {
	data, err := os.ReadFile(f.statePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return training.NewState(timeNow()), nil
		}
		return nil, &training.StorageError{Op: "read state", Err: err}
	}
	return decodeState(data)
}

// Save stamps last_updated and replaces state.json.
func (f *FileStore) Save(_ context.Context, s *training.State) error {
	data, err := stampState(s)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(f.statePath(), data); err != nil {
		return &training.StorageError{Op: "write state", Err: err}
	}
	return nil
}

// Reset deletes state.json. A missing file is not an error.
func (f *FileStore) Reset(_ context.Context) error {
	if err := os.Remove(f.statePath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &training.StorageError{Op: "remove state", Err: err}
	}
	return nil
}

// AppendHistory rewrites the month's log with entry appended.
func (f *FileStore) AppendHistory(ctx context.Context, entry training.HistoryEntry) error {
	if err := validMonth(entry.Month); err != nil {
		return err
	}
	history, err := f.History(ctx, entry.Month)
	if err != nil {
		return err
	}
	history = append(history, entry)

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return &training.StorageError{Op: "marshal history", Err: err}
	}
	if err := writeFileAtomic(f.historyPath(entry.Month), data); err != nil {
		return &training.StorageError{Op: "write history", Err: err}
	}
	return nil
}

// History returns the entries archived in month, oldest first.
func (f *FileStore) History(_ context.Context, month string) ([]training.HistoryEntry, error) {
	if err := validMonth(month); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.historyPath(month))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []training.HistoryEntry{}, nil
		}
		return nil, &training.StorageError{Op: "read history", Err: err}
	}

	var history []training.HistoryEntry
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, &training.StorageError{Op: "parse history", Err: err}
	}
	return history, nil
}

// WriteSample writes one sample file named after its timestamp and id.
func (f *FileStore) WriteSample(_ context.Context, sample training.Sample) error {
	data, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		return &training.StorageError{Op: "marshal sample", Err: err}
	}
	if err := writeFileAtomic(filepath.Join(f.dir, samplesDir, sampleFileName(sample)), data); err != nil {
		return &training.StorageError{Op: "write sample", Err: err}
	}
	return nil
}

func (f *FileStore) Close() error { return nil }

func sampleFileName(sample training.Sample) string {
	ts := strings.ReplaceAll(sample.Timestamp.Format(time.RFC3339Nano), ":", "-")
	id := sample.ID
	if len(id) > 8 {
		id = id[:8]
	}
	if id == "" {
		return ts + ".json"
	}
	return fmt.Sprintf("%s-%s.json", ts, id)
}

// writeFileAtomic writes to a temp file in the target directory and renames
// it over path, so readers never observe a partial document.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	return os.Rename(tmpName, path)
}

func expandHome(path string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
