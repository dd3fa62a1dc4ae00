package progression

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/MikeSquared-Agency/coach/internal/hermes"
	"github.com/MikeSquared-Agency/coach/internal/training"
)

// StateStore is the slice of the storage backend the engine needs.
type StateStore interface {
	Load(ctx context.Context) (*training.State, error)
	Save(ctx context.Context, s *training.State) error
}

// Publisher emits progression events. It may be nil.
type Publisher interface {
	Publish(subject string, data any) error
}

// Engine applies new scores to the training state.
type Engine struct {
	store  StateStore
	events Publisher
	logger *slog.Logger
}

func New(store StateStore, events Publisher, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, events: events, logger: logger}
}

// Report describes the effect of one Update call.
type Report struct {
	Dimension           training.Dimension `json:"dimension"`
	Score               float64            `json:"score"`
	Modality            string             `json:"modality"`
	Baseline            *float64           `json:"baseline"`
	BaselineEstablished bool               `json:"baseline_established"`
	Samples             int                `json:"samples"`
	PointsEarned        int                `json:"points_earned"`
	TotalPoints         int                `json:"total_points"`
}

// Update records score for dimension. Once the dimension's sample count
// reaches the modality threshold, the score at that sample becomes the
// baseline. This anchors on a single sample rather than averaging the
// samples collected so far. Every later score above the baseline earns
// floor(2 * improvement) points; scores at or below it earn nothing.
func (e *Engine) Update(ctx context.Context, dimension string, score float64, modality string) (Report, error) {
	dim, err := training.ParseDimension(dimension)
	if err != nil {
		return Report{}, err
	}
	if math.IsNaN(score) || score < 0 || score > 10 {
		return Report{}, training.InvalidArguments("score %v is outside [0, 10]", score)
	}
	if modality == "" {
		modality = string(training.DefaultModality)
	}

	state, err := e.store.Load(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load state: %w", err)
	}

	ds := state.Dimensions[dim]
	ds.Current = score
	ds.Samples++

	established := false
	if !ds.HasBaseline() && ds.Samples >= training.BaselineThreshold(modality) {
		b := score
		ds.Baseline = &b
		established = true
	}

	earned := 0
	if ds.HasBaseline() {
		if improvement := score - *ds.Baseline; improvement > 0 {
			earned = int(math.Floor(improvement * 2))
			state.Points += earned
		}
	}
	state.Dimensions[dim] = ds

	if err := e.store.Save(ctx, state); err != nil {
		return Report{}, fmt.Errorf("save state: %w", err)
	}

	report := Report{
		Dimension:           dim,
		Score:               score,
		Modality:            modality,
		Baseline:            ds.Baseline,
		BaselineEstablished: established,
		Samples:             ds.Samples,
		PointsEarned:        earned,
		TotalPoints:         state.Points,
	}

	e.logger.Debug("dimension updated",
		"dimension", dim,
		"score", score,
		"samples", ds.Samples,
		"points_earned", earned,
	)
	e.publish(hermes.SubjectDimensionUpdated, report)
	if established {
		e.logger.Info("baseline established", "dimension", dim, "baseline", score, "modality", modality)
		e.publish(hermes.SubjectBaselineEstablished, report)
	}

	return report, nil
}

// Track applies Update for every dimension present in scores, in canonical
// order. It stops at the first failure and returns the reports made so far.
func (e *Engine) Track(ctx context.Context, scores map[training.Dimension]float64, modality string) ([]Report, error) {
	var reports []Report
	for _, d := range training.Dimensions {
		score, ok := scores[d]
		if !ok {
			continue
		}
		r, err := e.Update(ctx, string(d), score, modality)
		if err != nil {
			return reports, fmt.Errorf("track %s: %w", d, err)
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Weakest is the dimension with the lowest current score among those with a
// baseline. Both fields are nil when no baseline exists yet.
type Weakest struct {
	Dimension *training.Dimension `json:"weakest_dimension"`
	Score     *float64            `json:"score"`
}

// Found reports whether any dimension qualified.
func (w Weakest) Found() bool {
	return w.Dimension != nil
}

// WeakestDimension scans dimensions in canonical order; the first one seen
// wins ties.
func (e *Engine) WeakestDimension(ctx context.Context) (Weakest, error) {
	state, err := e.store.Load(ctx)
	if err != nil {
		return Weakest{}, fmt.Errorf("load state: %w", err)
	}

	var w Weakest
	for _, d := range training.Dimensions {
		ds, ok := state.Dimensions[d]
		if !ok || !ds.HasBaseline() {
			continue
		}
		if w.Score == nil || ds.Current < *w.Score {
			dim, score := d, ds.Current
			w.Dimension, w.Score = &dim, &score
		}
	}
	return w, nil
}

func (e *Engine) publish(subject string, data any) {
	if e.events == nil {
		return
	}
	if err := e.events.Publish(subject, data); err != nil {
		e.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}
