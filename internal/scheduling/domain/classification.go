package domain

import "fmt"

// EventType is the inferred category of an event.
type EventType string

const (
	EventTypeBusiness EventType = "business"
	EventTypeHobby    EventType = "hobby"
	EventTypePersonal EventType = "personal"
)

// IsValid reports whether the event type is one of the known categories.
func (t EventType) IsValid() bool {
	switch t {
	case EventTypeBusiness, EventTypeHobby, EventTypePersonal:
		return true
	}
	return false
}

// ParseEventType converts a string into an EventType.
func ParseEventType(s string) (EventType, error) {
	t := EventType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown event type %q", s)
	}
	return t, nil
}

// EventClassification is the result of classifying an event description.
// Values are immutable: refinement produces a new classification rather
// than mutating an existing one.
type EventClassification struct {
	Type       EventType
	Confidence float64
	Reasoning  string
	Keywords   []string
	Context    string
}

// WithConfidence returns a copy with the confidence replaced, clamped to [0,1].
func (c EventClassification) WithConfidence(confidence float64) EventClassification {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	out := c
	out.Confidence = confidence
	return out
}

// AppendContext returns a copy with extra provenance appended to Context.
func (c EventClassification) AppendContext(note string) EventClassification {
	out := c
	if out.Context == "" {
		out.Context = note
	} else {
		out.Context = out.Context + "; " + note
	}
	return out
}
