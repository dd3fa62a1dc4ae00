// Package coach wires the analyzer, progression engine, archiver and sample
// recorder over one storage backend. The CLI and the HTTP API both drive it.
package coach

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MikeSquared-Agency/coach/internal/analyzer"
	"github.com/MikeSquared-Agency/coach/internal/archive"
	"github.com/MikeSquared-Agency/coach/internal/progression"
	"github.com/MikeSquared-Agency/coach/internal/samples"
	"github.com/MikeSquared-Agency/coach/internal/store"
	"github.com/MikeSquared-Agency/coach/internal/training"
)

// Publisher emits domain events. A nil Publisher disables events.
type Publisher interface {
	Publish(subject string, data any) error
}

type Service struct {
	backend  store.Backend
	engine   *progression.Engine
	archiver *archive.Archiver
	recorder *samples.Recorder
	logger   *slog.Logger
}

func NewService(backend store.Backend, events Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		backend:  backend,
		engine:   progression.New(backend, events, logger),
		archiver: archive.New(backend, events, logger),
		recorder: samples.New(backend, logger),
		logger:   logger,
	}
}

// AnalyzeOptions controls what happens after a text is scored.
type AnalyzeOptions struct {
	Modality string `json:"modality"`
	Verbose  bool   `json:"verbose"`
	Record   bool   `json:"record"`
	Track    bool   `json:"track"`
}

// Analysis is one scored text plus whatever recording or tracking it caused.
type Analysis struct {
	analyzer.Result
	Sample   *training.Sample     `json:"sample,omitempty"`
	Progress []progression.Report `json:"progress,omitempty"`
}

// Analyze scores a single text.
func (s *Service) Analyze(ctx context.Context, text string, opts AnalyzeOptions) (Analysis, error) {
	out, err := s.AnalyzeBatch(ctx, []string{text}, opts)
	if err != nil {
		return Analysis{}, err
	}
	return out[0], nil
}

// AnalyzeBatch scores texts concurrently, then records and tracks them one
// at a time in input order.
func (s *Service) AnalyzeBatch(ctx context.Context, texts []string, opts AnalyzeOptions) ([]Analysis, error) {
	modality, err := checkModality(opts.Modality)
	if err != nil {
		return nil, err
	}

	results, err := analyzer.AnalyzeAll(ctx, texts, modality)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	out := make([]Analysis, len(results))
	for i, r := range results {
		a := Analysis{Result: r}
		if opts.Record {
			sample, err := s.recorder.Record(ctx, texts[i], modality, r.Scores.Map())
			if err != nil {
				return nil, err
			}
			a.Sample = &sample
		}
		if opts.Track {
			reports, err := s.engine.Track(ctx, r.Scores, modality)
			if err != nil {
				return nil, err
			}
			a.Progress = reports
		}
		if !opts.Verbose {
			a.Result = a.Result.Brief()
		}
		out[i] = a
	}
	s.logger.Debug("analyzed texts", "count", len(texts), "modality", modality, "record", opts.Record, "track", opts.Track)
	return out, nil
}

func checkModality(m string) (string, error) {
	if m == "" {
		return string(training.DefaultModality), nil
	}
	if !training.IsKnownModality(m) {
		names := make([]string, len(training.Modalities))
		for i, known := range training.Modalities {
			names[i] = string(known)
		}
		return "", training.InvalidArguments("unknown modality %q (want one of %s)", m, strings.Join(names, ", "))
	}
	return m, nil
}

// State returns the live training document.
func (s *Service) State(ctx context.Context) (*training.State, error) {
	return s.backend.Load(ctx)
}

func (s *Service) Update(ctx context.Context, dimension string, score float64, modality string) (progression.Report, error) {
	return s.engine.Update(ctx, dimension, score, modality)
}

func (s *Service) Weakest(ctx context.Context) (progression.Weakest, error) {
	return s.engine.WeakestDimension(ctx)
}

func (s *Service) Archive(ctx context.Context) (training.HistoryEntry, error) {
	return s.archiver.Archive(ctx)
}

// History returns the entries archived in month; empty means this month.
func (s *Service) History(ctx context.Context, month string) ([]training.HistoryEntry, error) {
	return s.archiver.Month(ctx, month)
}

// Reset deletes the live document. The next load starts from defaults.
// Archived history and samples are kept.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.backend.Reset(ctx); err != nil {
		return fmt.Errorf("reset state: %w", err)
	}
	s.logger.Info("state reset")
	return nil
}
