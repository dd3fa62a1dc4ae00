// Package samples writes an immutable record of each analyzed text.
package samples

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/coach/internal/training"
)

// Writer is the storage the recorder writes to.
type Writer interface {
	WriteSample(ctx context.Context, sample training.Sample) error
}

type Recorder struct {
	w      Writer
	logger *slog.Logger
}

func New(w Writer, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{w: w, logger: logger}
}

// timeNow is swapped out by tests.
var timeNow = func() time.Time { return time.Now().UTC() }

// Record stores text with its scores under a fresh id and returns the
// stored sample. Samples are never rewritten.
func (r *Recorder) Record(ctx context.Context, text, modality string, scores map[string]float64) (training.Sample, error) {
	if modality == "" {
		modality = string(training.DefaultModality)
	}
	copied := make(map[string]float64, len(scores))
	for k, v := range scores {
		copied[k] = v
	}

	sample := training.Sample{
		ID:        uuid.NewString(),
		Timestamp: timeNow(),
		Modality:  modality,
		Text:      text,
		Scores:    copied,
	}
	if err := r.w.WriteSample(ctx, sample); err != nil {
		return training.Sample{}, fmt.Errorf("record sample: %w", err)
	}
	r.logger.Debug("sample recorded", "id", sample.ID, "modality", modality, "text_length", len(text))
	return sample, nil
}
