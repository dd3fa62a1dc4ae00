package hermes

import (
	"encoding/json"
	"fmt"
)

// Subjects published by the coach.
const (
	SubjectDimensionUpdated    = "coach.dimension.updated"
	SubjectBaselineEstablished = "coach.baseline.established"
	SubjectStateArchived       = "coach.state.archived"

	// SubjectAll matches every coach subject.
	SubjectAll = "coach.>"
)

// Event is one message received on a coach subject.
type Event struct {
	Subject string
	Data    []byte
}

// Decode returns the event as {"subject": ..., "payload": ...}.
func (e Event) Decode() (map[string]any, error) {
	var payload any
	if err := json.Unmarshal(e.Data, &payload); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", e.Subject, err)
	}
	return map[string]any{"subject": e.Subject, "payload": payload}, nil
}
