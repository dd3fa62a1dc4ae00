package training

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestNewState_Defaults(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s := NewState(now)

	if s.Level != 1 {
		t.Errorf("Level = %d, want 1", s.Level)
	}
	if s.Points != 0 {
		t.Errorf("Points = %d, want 0", s.Points)
	}
	if len(s.Dimensions) != 5 {
		t.Fatalf("expected 5 dimensions, got %d", len(s.Dimensions))
	}
	for _, d := range Dimensions {
		ds, ok := s.Dimensions[d]
		if !ok {
			t.Errorf("dimension %s missing", d)
			continue
		}
		if ds.Current != 0 || ds.Samples != 0 || ds.HasBaseline() {
			t.Errorf("dimension %s not zeroed: %+v", d, ds)
		}
	}
	if s.ActiveChallenges == nil || len(s.ActiveChallenges) != 0 {
		t.Errorf("expected empty non-nil challenges, got %v", s.ActiveChallenges)
	}
	if !s.LastUpdated.Equal(now) {
		t.Errorf("LastUpdated = %v, want %v", s.LastUpdated, now)
	}
}

func TestState_JSONShape(t *testing.T) {
	s := NewState(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"level", "points", "dimensions", "active_challenges", "last_updated"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("key %q missing from document", key)
		}
	}
	dims := doc["dimensions"].(map[string]any)
	clarity := dims["clarity"].(map[string]any)
	if clarity["baseline"] != nil {
		t.Errorf("baseline should serialize as null, got %v", clarity["baseline"])
	}
	if _, ok := doc["active_challenges"].([]any); !ok {
		t.Errorf("active_challenges should serialize as a list, got %T", doc["active_challenges"])
	}
}

func TestState_NormalizeFillsMissingDimensions(t *testing.T) {
	raw := `{"level":2,"points":7,"dimensions":{"clarity":{"current":6,"baseline":5,"samples":12},"legacy":{"current":1,"baseline":null,"samples":1}},"last_updated":"2026-01-01T00:00:00Z"}`

	var s State
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	s.Normalize()

	for _, d := range Dimensions {
		if _, ok := s.Dimensions[d]; !ok {
			t.Errorf("dimension %s not filled in", d)
		}
	}
	if got := *s.Dimensions[Clarity].Baseline; got != 5 {
		t.Errorf("clarity baseline = %v, want 5", got)
	}
	if _, ok := s.Dimensions["legacy"]; !ok {
		t.Error("unknown dimension key should be preserved")
	}
	if s.ActiveChallenges == nil {
		t.Error("challenges should be non-nil after normalize")
	}
}

func TestState_CloneIsDeep(t *testing.T) {
	s := NewState(time.Now())
	b := 4.0
	s.Dimensions[Presence] = DimensionState{Current: 4, Baseline: &b, Samples: 5}
	s.ActiveChallenges = []json.RawMessage{json.RawMessage(`"no-filler-week"`)}

	c := s.Clone()
	*s.Dimensions[Presence].Baseline = 9
	s.ActiveChallenges[0][1] = 'X'
	s.Points = 42

	if got := *c.Dimensions[Presence].Baseline; got != 4 {
		t.Errorf("clone baseline changed to %v", got)
	}
	if string(c.ActiveChallenges[0]) != `"no-filler-week"` {
		t.Errorf("clone challenge changed to %s", c.ActiveChallenges[0])
	}
	if c.Points != 0 {
		t.Errorf("clone points = %d, want 0", c.Points)
	}
}

func TestParseDimension(t *testing.T) {
	for _, d := range Dimensions {
		got, err := ParseDimension(string(d))
		if err != nil || got != d {
			t.Errorf("ParseDimension(%q) = %q, %v", d, got, err)
		}
	}

	_, err := ParseDimension("charisma")
	if !errors.Is(err, ErrUnknownDimension) {
		t.Fatalf("expected ErrUnknownDimension, got %v", err)
	}
	var ude *UnknownDimensionError
	if !errors.As(err, &ude) || ude.Name != "charisma" {
		t.Errorf("expected UnknownDimensionError for charisma, got %v", err)
	}
}

func TestBaselineThreshold(t *testing.T) {
	tests := []struct {
		modality string
		want     int
	}{
		{"email-formal", 10},
		{"email-casual", 10},
		{"slack", 15},
		{"sms", 15},
		{"presentation", 5},
		{"conversation", 10},
		{"carrier-pigeon", 10},
		{"", 10},
	}

	for _, tt := range tests {
		t.Run(tt.modality, func(t *testing.T) {
			if got := BaselineThreshold(tt.modality); got != tt.want {
				t.Errorf("BaselineThreshold(%q) = %d, want %d", tt.modality, got, tt.want)
			}
		})
	}
}

func TestStorageError(t *testing.T) {
	inner := errors.New("unexpected end of JSON input")
	err := error(&StorageError{Op: "parse state", Err: inner})

	if !errors.Is(err, ErrStorage) {
		t.Error("expected errors.Is(err, ErrStorage)")
	}
	if !errors.Is(err, inner) {
		t.Error("expected wrapped error to unwrap")
	}
}

func TestMonthKey(t *testing.T) {
	got := MonthKey(time.Date(2026, 2, 28, 23, 59, 0, 0, time.UTC))
	if got != "2026-02" {
		t.Errorf("MonthKey = %q, want 2026-02", got)
	}
}
