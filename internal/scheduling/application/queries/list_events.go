// Package queries contains the scheduling read-side use cases.
package queries

import (
	"context"
	"time"

	"github.com/flowgenius/scheduler/internal/scheduling/domain"
)

// ListEventsQuery asks for the calendar events within a window.
type ListEventsQuery struct {
	From time.Time
	To   time.Time
}

// ListEventsHandler reads calendar events from the store.
type ListEventsHandler struct {
	events domain.EventRepository
}

// NewListEventsHandler creates a new ListEventsHandler.
func NewListEventsHandler(events domain.EventRepository) *ListEventsHandler {
	return &ListEventsHandler{events: events}
}

// Handle returns the events overlapping the query window, ordered by
// start time.
func (h *ListEventsHandler) Handle(ctx context.Context, query ListEventsQuery) ([]domain.CalendarEvent, error) {
	return h.events.FindByRange(ctx, query.From, query.To)
}
