package archive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/coach/internal/hermes"
	"github.com/MikeSquared-Agency/coach/internal/training"
)

// Backend is the storage the archiver reads from and appends to.
type Backend interface {
	Load(ctx context.Context) (*training.State, error)
	AppendHistory(ctx context.Context, entry training.HistoryEntry) error
	History(ctx context.Context, month string) ([]training.HistoryEntry, error)
}

// Publisher emits archive events. It may be nil.
type Publisher interface {
	Publish(subject string, data any) error
}

// Archiver snapshots the live training state into the monthly history log.
type Archiver struct {
	backend Backend
	events  Publisher
	logger  *slog.Logger
}

func New(backend Backend, events Publisher, logger *slog.Logger) *Archiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{backend: backend, events: events, logger: logger}
}

// timeNow is swapped out by tests.
var timeNow = func() time.Time { return time.Now().UTC() }

// Archive appends a snapshot of the current state to this month's log.
// The live state is left untouched. Archiving twice in a month appends two
// entries.
func (a *Archiver) Archive(ctx context.Context) (training.HistoryEntry, error) {
	state, err := a.backend.Load(ctx)
	if err != nil {
		return training.HistoryEntry{}, fmt.Errorf("load state: %w", err)
	}

	now := timeNow()
	entry := training.HistoryEntry{
		Month:         training.MonthKey(now),
		ArchivedAt:    now,
		StateSnapshot: state.Clone(),
	}
	if err := a.backend.AppendHistory(ctx, entry); err != nil {
		return training.HistoryEntry{}, fmt.Errorf("append history: %w", err)
	}

	a.logger.Info("state archived", "month", entry.Month, "level", state.Level, "points", state.Points)
	if a.events != nil {
		if err := a.events.Publish(hermes.SubjectStateArchived, entry); err != nil {
			a.logger.Warn("failed to publish event", "subject", hermes.SubjectStateArchived, "error", err)
		}
	}
	return entry, nil
}

// Month returns the entries archived in month (YYYY-MM), oldest first. An
// empty month yields an empty slice.
func (a *Archiver) Month(ctx context.Context, month string) ([]training.HistoryEntry, error) {
	if month == "" {
		month = training.MonthKey(timeNow())
	}
	entries, err := a.backend.History(ctx, month)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []training.HistoryEntry{}
	}
	return entries, nil
}
