package training

import (
	"encoding/json"
	"fmt"
	"time"
)

// Documents written by earlier tooling carry naive local timestamps such as
// "2026-10-16T12:49:00.541567". Fractional seconds are optional when parsing.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp accepts RFC 3339 or a naive ISO 8601 timestamp, which is
// read in the local zone. The result is in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q is neither RFC 3339 nor ISO 8601", s)
}

// lenientTime decodes with ParseTimestamp. null and "" decode to the zero time.
type lenientTime struct {
	time.Time
}

func (t *lenientTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (s *State) UnmarshalJSON(data []byte) error {
	type plain State
	aux := struct {
		*plain
		LastUpdated lenientTime `json:"last_updated"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.LastUpdated = aux.LastUpdated.Time
	return nil
}

func (h *HistoryEntry) UnmarshalJSON(data []byte) error {
	type plain HistoryEntry
	aux := struct {
		*plain
		ArchivedAt lenientTime `json:"archived_at"`
	}{plain: (*plain)(h)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	h.ArchivedAt = aux.ArchivedAt.Time
	return nil
}

func (s *Sample) UnmarshalJSON(data []byte) error {
	type plain Sample
	aux := struct {
		*plain
		Timestamp lenientTime `json:"timestamp"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.Timestamp = aux.Timestamp.Time
	return nil
}
