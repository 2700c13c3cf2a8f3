// Package domain contains the scheduling pipeline's core value types:
// calendar events, classifications, preferences, and slot candidates.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimeRange represents a time period with start and end.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Overlaps checks if two time ranges overlap.
func (t TimeRange) Overlaps(other TimeRange) bool {
	return t.Start.Before(other.End) && other.Start.Before(t.End)
}

// Duration returns the duration of the time range.
func (t TimeRange) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// Widen returns the range expanded symmetrically by the given margin.
func (t TimeRange) Widen(margin time.Duration) TimeRange {
	return TimeRange{Start: t.Start.Add(-margin), End: t.End.Add(margin)}
}

// CalendarEvent is a committed event from the user's calendar. The pipeline
// treats these as read-only conflict sources.
type CalendarEvent struct {
	ID        uuid.UUID
	Title     string
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
}

// NewCalendarEvent creates a calendar event with a fresh identity.
func NewCalendarEvent(title string, start, end time.Time) CalendarEvent {
	return CalendarEvent{
		ID:        uuid.New(),
		Title:     title,
		Start:     start,
		End:       end,
		CreatedAt: time.Now(),
	}
}

// Range returns the event's time range.
func (e CalendarEvent) Range() TimeRange {
	return TimeRange{Start: e.Start, End: e.End}
}

// SchedulingRequest is the immutable input to one pipeline invocation.
type SchedulingRequest struct {
	Title          string
	Description    string
	PreferredDate  *time.Time
	ExistingEvents []CalendarEvent
	Preferences    SchedulingPreferences
}

// Anchor returns the first day of the scheduling horizon: the preferred
// date when supplied, otherwise today.
func (r SchedulingRequest) Anchor(now time.Time) time.Time {
	if r.PreferredDate != nil {
		d := *r.PreferredDate
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
