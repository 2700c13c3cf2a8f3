package domain

import (
	"time"

	sharedDomain "github.com/flowgenius/scheduler/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "SchedulingRequest"

	RoutingKeySuggestionsComputed = "scheduling.suggestions.computed"
	RoutingKeyEventAdded          = "scheduling.event.added"
)

// SuggestionsComputed is emitted after a pipeline run produced a ranked
// slot list for a request.
type SuggestionsComputed struct {
	sharedDomain.BaseEvent
	Title          string    `json:"title"`
	EventType      string    `json:"event_type"`
	Confidence     float64   `json:"confidence"`
	DurationMin    int       `json:"duration_min"`
	SlotCount      int       `json:"slot_count"`
	BestSlotStart  time.Time `json:"best_slot_start,omitempty"`
	RefinementUsed bool      `json:"refinement_used"`
}

// NewSuggestionsComputed creates a SuggestionsComputed event.
func NewSuggestionsComputed(requestID uuid.UUID, title string, classification EventClassification, durationMin int, slots []TimeSlotCandidate, refined bool) SuggestionsComputed {
	ev := SuggestionsComputed{
		BaseEvent:      sharedDomain.NewBaseEvent(requestID, AggregateType, RoutingKeySuggestionsComputed),
		Title:          title,
		EventType:      string(classification.Type),
		Confidence:     classification.Confidence,
		DurationMin:    durationMin,
		SlotCount:      len(slots),
		RefinementUsed: refined,
	}
	if len(slots) > 0 {
		ev.BestSlotStart = slots[0].Start
	}
	return ev
}

// EventAdded is emitted when a calendar event is committed to the store.
type EventAdded struct {
	sharedDomain.BaseEvent
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// NewEventAdded creates an EventAdded event.
func NewEventAdded(event CalendarEvent) EventAdded {
	return EventAdded{
		BaseEvent: sharedDomain.NewBaseEvent(event.ID, AggregateType, RoutingKeyEventAdded),
		Title:     event.Title,
		StartTime: event.Start,
		EndTime:   event.End,
	}
}
