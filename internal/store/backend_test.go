package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/coach/internal/training"
)

// fixClock pins timeNow for the duration of a test.
func fixClock(t *testing.T, at time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = orig })
}

// runBackendSuite exercises the Backend contract shared by every implementation.
func runBackendSuite(t *testing.T, newBackend func(t *testing.T) Backend) {
	t.Run("load returns defaults when empty", func(t *testing.T) {
		b := newBackend(t)
		st, err := b.Load(context.Background())
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if st.Level != 1 || st.Points != 0 || len(st.Dimensions) != 5 {
			t.Errorf("unexpected default state: %+v", st)
		}
	})

	t.Run("save then load round-trips", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()
		fixClock(t, time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))

		st, _ := b.Load(ctx)
		base := 4.0
		st.Points = 9
		st.Dimensions[training.Persuasion] = training.DimensionState{Current: 6.5, Baseline: &base, Samples: 11}
		st.ActiveChallenges = []json.RawMessage{json.RawMessage(`"cut-fillers"`), json.RawMessage(`{"id":"no-sorry","days":7}`)}
		if err := b.Save(ctx, st); err != nil {
			t.Fatalf("Save: %v", err)
		}

		got, err := b.Load(ctx)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if got.Points != 9 {
			t.Errorf("Points = %d, want 9", got.Points)
		}
		p := got.Dimensions[training.Persuasion]
		if p.Current != 6.5 || p.Samples != 11 || p.Baseline == nil || *p.Baseline != 4 {
			t.Errorf("persuasion = %+v", p)
		}
		if len(got.ActiveChallenges) != 2 {
			t.Fatalf("expected 2 challenges, got %d", len(got.ActiveChallenges))
		}
		if !got.LastUpdated.Equal(timeNow()) {
			t.Errorf("LastUpdated = %v, want %v", got.LastUpdated, timeNow())
		}
	})

	t.Run("save of load changes only last_updated", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		fixClock(t, time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
		st, _ := b.Load(ctx)
		st.Points = 3
		if err := b.Save(ctx, st); err != nil {
			t.Fatalf("Save: %v", err)
		}
		before, _ := b.Load(ctx)

		fixClock(t, time.Date(2026, 5, 2, 8, 30, 0, 0, time.UTC))
		if err := b.Save(ctx, before.Clone()); err != nil {
			t.Fatalf("Save: %v", err)
		}
		after, _ := b.Load(ctx)

		if after.LastUpdated.Equal(before.LastUpdated) {
			t.Error("last_updated should change on save")
		}
		before.LastUpdated, after.LastUpdated = time.Time{}, time.Time{}
		bj, _ := json.Marshal(before)
		aj, _ := json.Marshal(after)
		if string(bj) != string(aj) {
			t.Errorf("documents differ beyond last_updated:\nbefore %s\nafter  %s", bj, aj)
		}
	})

	t.Run("reset deletes the document", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		st, _ := b.Load(ctx)
		st.Points = 12
		if err := b.Save(ctx, st); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if err := b.Reset(ctx); err != nil {
			t.Fatalf("Reset: %v", err)
		}
		got, _ := b.Load(ctx)
		if got.Points != 0 {
			t.Errorf("Points after reset = %d, want 0", got.Points)
		}
		if err := b.Reset(ctx); err != nil {
			t.Errorf("second Reset should be a no-op, got %v", err)
		}
	})

	t.Run("history appends in order per month", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		st := training.NewState(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
		e1 := training.HistoryEntry{Month: "2026-05", ArchivedAt: time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC), StateSnapshot: st}
		e2 := training.HistoryEntry{Month: "2026-05", ArchivedAt: time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), StateSnapshot: st}
		other := training.HistoryEntry{Month: "2026-06", ArchivedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), StateSnapshot: st}

		for _, e := range []training.HistoryEntry{e1, e2, other} {
			if err := b.AppendHistory(ctx, e); err != nil {
				t.Fatalf("AppendHistory: %v", err)
			}
		}

		may, err := b.History(ctx, "2026-05")
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		if len(may) != 2 {
			t.Fatalf("expected 2 May entries, got %d", len(may))
		}
		if !may[0].ArchivedAt.Equal(e1.ArchivedAt) || !may[1].ArchivedAt.Equal(e2.ArchivedAt) {
			t.Errorf("entries out of order: %v, %v", may[0].ArchivedAt, may[1].ArchivedAt)
		}

		empty, err := b.History(ctx, "2025-01")
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		if empty == nil || len(empty) != 0 {
			t.Errorf("expected empty non-nil history, got %v", empty)
		}
	})

	t.Run("history rejects malformed months", func(t *testing.T) {
		b := newBackend(t)
		_, err := b.History(context.Background(), "../state")
		if !errors.Is(err, training.ErrInvalidArguments) {
			t.Errorf("expected ErrInvalidArguments, got %v", err)
		}
	})

	t.Run("write sample", func(t *testing.T) {
		b := newBackend(t)
		sample := training.Sample{
			ID:        "3f1c2a9e-1d2b-4c3d-8e9f-0a1b2c3d4e5f",
			Timestamp: time.Date(2026, 5, 1, 9, 15, 0, 0, time.UTC),
			Modality:  "slack",
			Text:      "No, I can't make it.",
			Scores:    map[string]float64{"boundary_setting": 7},
		}
		if err := b.WriteSample(context.Background(), sample); err != nil {
			t.Fatalf("WriteSample: %v", err)
		}
	})
}
