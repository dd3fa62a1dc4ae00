package training

import (
	"encoding/json"
	"time"
)

// Dimension is one of the five scored communication axes.
type Dimension string

const (
	Clarity         Dimension = "clarity"
	VocalControl    Dimension = "vocal_control"
	Presence        Dimension = "presence"
	Persuasion      Dimension = "persuasion"
	BoundarySetting Dimension = "boundary_setting"
)

// Dimensions lists every dimension in canonical order. Weakest-dimension
// ties resolve to the earliest entry.
var Dimensions = []Dimension{Clarity, VocalControl, Presence, Persuasion, BoundarySetting}

// ParseDimension validates a dimension name.
func ParseDimension(name string) (Dimension, error) {
	for _, d := range Dimensions {
		if string(d) == name {
			return d, nil
		}
	}
	return "", &UnknownDimensionError{Name: name}
}

// DimensionState tracks one dimension's progress.
type DimensionState struct {
	Current  float64  `json:"current"`
	Baseline *float64 `json:"baseline"` // nil until established, fixed afterwards
	Samples  int      `json:"samples"`
}

// HasBaseline reports whether the baseline has been established.
func (d DimensionState) HasBaseline() bool {
	return d.Baseline != nil
}

// State is the single persisted training document.
type State struct {
	Level            int                          `json:"level"`
	Points           int                          `json:"points"`
	Dimensions       map[Dimension]DimensionState `json:"dimensions"`
	ActiveChallenges []json.RawMessage            `json:"active_challenges"`
	LastUpdated      time.Time                    `json:"last_updated"`
}

// NewState returns the default document used when nothing has been persisted.
func NewState(now time.Time) *State {
	dims := make(map[Dimension]DimensionState, len(Dimensions))
	for _, d := range Dimensions {
		dims[d] = DimensionState{}
	}
	return &State{
		Level:            1,
		Points:           0,
		Dimensions:       dims,
		ActiveChallenges: []json.RawMessage{},
		LastUpdated:      now,
	}
}

// Normalize fills in anything a hand-edited or older document may lack.
// Unknown dimension keys are left untouched.
func (s *State) Normalize() {
	if s.Dimensions == nil {
		s.Dimensions = make(map[Dimension]DimensionState, len(Dimensions))
	}
	for _, d := range Dimensions {
		if _, ok := s.Dimensions[d]; !ok {
			s.Dimensions[d] = DimensionState{}
		}
	}
	if s.ActiveChallenges == nil {
		s.ActiveChallenges = []json.RawMessage{}
	}
}

// Clone returns a deep copy so snapshots cannot alias live state.
func (s *State) Clone() *State {
	c := *s
	c.Dimensions = make(map[Dimension]DimensionState, len(s.Dimensions))
	for k, v := range s.Dimensions {
		if v.Baseline != nil {
			b := *v.Baseline
			v.Baseline = &b
		}
		c.Dimensions[k] = v
	}
	c.ActiveChallenges = make([]json.RawMessage, len(s.ActiveChallenges))
	for i, raw := range s.ActiveChallenges {
		c.ActiveChallenges[i] = append(json.RawMessage(nil), raw...)
	}
	return &c
}

// HistoryEntry is one archived snapshot in a monthly history log.
type HistoryEntry struct {
	Month         string    `json:"month"` // YYYY-MM
	ArchivedAt    time.Time `json:"archived_at"`
	StateSnapshot *State    `json:"state_snapshot"`
}

// MonthKey formats t as the history log key.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// Sample is an immutable record of one analyzed text.
type Sample struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Modality  string             `json:"modality"`
	Text      string             `json:"text"`
	Scores    map[string]float64 `json:"scores"`
}
