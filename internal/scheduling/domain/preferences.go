package domain

import "time"

// Scheduling preference defaults. Callers may override any field through
// PreferenceOverride; Merge keeps the invariants intact.
const (
	DefaultBusinessStartMinute  = 9 * 60
	DefaultBusinessEndMinute    = 17 * 60
	DefaultBusinessDuration     = 60
	DefaultHobbyDuration        = 90
	DefaultPersonalDuration     = 60
	DefaultBufferMinutes        = 15
	DefaultMaxSuggestionsPerDay = 3
)

// BusinessHours is a daily working window, expressed as minutes from midnight.
type BusinessHours struct {
	StartMinute int
	EndMinute   int
}

// Contains reports whether a clock time (minutes from midnight) lies within
// the window.
func (b BusinessHours) Contains(minute int) bool {
	return minute >= b.StartMinute && minute < b.EndMinute
}

// PreferredDurations holds the default event length per classification.
type PreferredDurations struct {
	Business int
	Hobby    int
}

// SchedulingPreferences are the effective preferences for one request.
type SchedulingPreferences struct {
	BusinessHours        BusinessHours
	WorkDays             map[time.Weekday]bool
	PreferredDuration    PreferredDurations
	BufferMinutes        int
	MaxSuggestionsPerDay int
}

// DefaultPreferences returns the built-in scheduling preferences:
// 09:00-17:00 business hours Monday through Friday, a 15-minute buffer,
// and at most three suggestions per day.
func DefaultPreferences() SchedulingPreferences {
	return SchedulingPreferences{
		BusinessHours: BusinessHours{
			StartMinute: DefaultBusinessStartMinute,
			EndMinute:   DefaultBusinessEndMinute,
		},
		WorkDays: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
		},
		PreferredDuration: PreferredDurations{
			Business: DefaultBusinessDuration,
			Hobby:    DefaultHobbyDuration,
		},
		BufferMinutes:        DefaultBufferMinutes,
		MaxSuggestionsPerDay: DefaultMaxSuggestionsPerDay,
	}
}

// PreferenceOverride is a partial set of preferences supplied by the caller.
// Nil fields keep the defaults.
type PreferenceOverride struct {
	BusinessStartMinute  *int
	BusinessEndMinute    *int
	WorkDays             []time.Weekday
	BusinessDuration     *int
	HobbyDuration        *int
	BufferMinutes        *int
	MaxSuggestionsPerDay *int
}

// Merge overlays the override onto base and returns the effective
// preferences. Overrides that would violate the business-hours invariant
// (start < end) or produce non-positive limits are discarded field by field.
func Merge(base SchedulingPreferences, override *PreferenceOverride) SchedulingPreferences {
	out := base
	// WorkDays is a map; copy so callers never share mutable state.
	out.WorkDays = make(map[time.Weekday]bool, len(base.WorkDays))
	for d, ok := range base.WorkDays {
		out.WorkDays[d] = ok
	}
	if override == nil {
		return out
	}

	hours := out.BusinessHours
	if override.BusinessStartMinute != nil {
		hours.StartMinute = *override.BusinessStartMinute
	}
	if override.BusinessEndMinute != nil {
		hours.EndMinute = *override.BusinessEndMinute
	}
	if hours.StartMinute >= 0 && hours.EndMinute <= 24*60 && hours.StartMinute < hours.EndMinute {
		out.BusinessHours = hours
	}

	if len(override.WorkDays) > 0 {
		out.WorkDays = make(map[time.Weekday]bool, len(override.WorkDays))
		for _, d := range override.WorkDays {
			out.WorkDays[d] = true
		}
	}
	if override.BusinessDuration != nil && *override.BusinessDuration > 0 {
		out.PreferredDuration.Business = *override.BusinessDuration
	}
	if override.HobbyDuration != nil && *override.HobbyDuration > 0 {
		out.PreferredDuration.Hobby = *override.HobbyDuration
	}
	if override.BufferMinutes != nil && *override.BufferMinutes >= 0 {
		out.BufferMinutes = *override.BufferMinutes
	}
	if override.MaxSuggestionsPerDay != nil && *override.MaxSuggestionsPerDay > 0 {
		out.MaxSuggestionsPerDay = *override.MaxSuggestionsPerDay
	}
	return out
}

// DurationFor returns the preferred duration in minutes for a classification.
func (p SchedulingPreferences) DurationFor(t EventType) int {
	switch t {
	case EventTypeBusiness:
		return p.PreferredDuration.Business
	case EventTypeHobby:
		return p.PreferredDuration.Hobby
	default:
		return DefaultPersonalDuration
	}
}
