package domain

import "time"

// TimeSlotCandidate is a proposed start/end window for the event being
// scheduled. The slot generator creates candidates with a priority and
// zeroed scores; the optimizer fills in ConflictScore and OptimalityScore.
type TimeSlotCandidate struct {
	Start           time.Time
	End             time.Time
	Reasoning       string
	Priority        float64
	ConflictScore   float64
	OptimalityScore float64
}

// Range returns the candidate's time range.
func (c TimeSlotCandidate) Range() TimeRange {
	return TimeRange{Start: c.Start, End: c.End}
}

// ConflictsWith reports whether the candidate, widened by the buffer,
// overlaps any of the given events. A zero buffer reduces this to a plain
// overlap test.
func (c TimeSlotCandidate) ConflictsWith(events []CalendarEvent, buffer time.Duration) bool {
	widened := c.Range().Widen(buffer)
	for _, ev := range events {
		if widened.Overlaps(ev.Range()) {
			return true
		}
	}
	return false
}
