package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/flowgenius/scheduler/internal/scheduling/domain"
)

// HorizonDays is how many days ahead of the anchor date candidates are
// generated. Callers assembling a conflict snapshot should cover the
// same window.
const HorizonDays = 10

const (
	// generatorTopK caps the pooled candidate list handed to the optimizer.
	generatorTopK = 10

	// granularity between enumerated start times within a band.
	defaultStepMinutes = 30
	weekendStepMinutes = 60
)

// timeBand is a window of the day in which start times are enumerated.
type timeBand struct {
	startMinute int
	endMinute   int
	stepMinutes int
	label       string
}

// Fixed bands for non-business events. Weekday evenings run at 30-minute
// granularity; weekend bands are coarser.
var (
	weekdayEveningBands = []timeBand{
		{startMinute: 18 * 60, endMinute: 20 * 60, stepMinutes: defaultStepMinutes, label: "weekday evening"},
		{startMinute: 20 * 60, endMinute: 22 * 60, stepMinutes: defaultStepMinutes, label: "weekday late evening"},
	}
	weekendBands = []timeBand{
		{startMinute: 9 * 60, endMinute: 12 * 60, stepMinutes: weekendStepMinutes, label: "weekend morning"},
		{startMinute: 13 * 60, endMinute: 17 * 60, stepMinutes: weekendStepMinutes, label: "weekend afternoon"},
		{startMinute: 18 * 60, endMinute: 21 * 60, stepMinutes: weekendStepMinutes, label: "weekend evening"},
	}
)

// Meal windows override the per-classification bands entirely: meal
// scheduling has well-known time bands that beat the generic business or
// off-hours heuristics. The cue check covers title and description.
var mealBands = []struct {
	cue  string
	band timeBand
}{
	{cue: "breakfast", band: timeBand{startMinute: 7*60 + 30, endMinute: 9*60 + 30, stepMinutes: defaultStepMinutes, label: "breakfast window"}},
	{cue: "brunch", band: timeBand{startMinute: 10 * 60, endMinute: 12*60 + 30, stepMinutes: defaultStepMinutes, label: "brunch window"}},
	{cue: "lunch", band: timeBand{startMinute: 11*60 + 30, endMinute: 15 * 60, stepMinutes: defaultStepMinutes, label: "lunch window"}},
	{cue: "dinner", band: timeBand{startMinute: 17*60 + 30, endMinute: 21 * 60, stepMinutes: defaultStepMinutes, label: "dinner window"}},
}

// SlotGenerator enumerates conflict-free candidate windows over the
// scheduling horizon.
type SlotGenerator struct {
	now func() time.Time
}

// NewSlotGenerator creates a slot generator using the wall clock.
func NewSlotGenerator() *SlotGenerator {
	return &SlotGenerator{now: time.Now}
}

// NewSlotGeneratorAt creates a slot generator with an injected clock.
func NewSlotGeneratorAt(now func() time.Time) *SlotGenerator {
	return &SlotGenerator{now: now}
}

// Generate produces candidates over the horizon starting at the request's
// anchor date. Business events enumerate business hours on workdays;
// hobby and personal events use evening and weekend bands; meal cues in
// the text select meal windows on every day. Every accepted candidate is
// conflict-free against the existing events including the buffer
// clearance. The pooled result is sorted by priority and capped.
func (g *SlotGenerator) Generate(request domain.SchedulingRequest, classification domain.EventClassification, durationMinutes int) ([]domain.TimeSlotCandidate, error) {
	if durationMinutes < 1 {
		return nil, fmt.Errorf("invalid duration %d minutes", durationMinutes)
	}
	prefs := request.Preferences
	if prefs.BusinessHours.StartMinute >= prefs.BusinessHours.EndMinute {
		return nil, fmt.Errorf("invalid business hours %d-%d", prefs.BusinessHours.StartMinute, prefs.BusinessHours.EndMinute)
	}

	meal := mealWindows(request.Title, request.Description)
	now := g.now()
	anchor := request.Anchor(now)
	buffer := time.Duration(prefs.BufferMinutes) * time.Minute
	duration := time.Duration(durationMinutes) * time.Minute

	var pooled []domain.TimeSlotCandidate
	for offset := 0; offset < HorizonDays; offset++ {
		day := anchor.AddDate(0, 0, offset)
		bands := meal
		if len(bands) == 0 {
			bands = g.bandsForDay(classification.Type, day.Weekday(), prefs)
		}

		var dayCandidates []domain.TimeSlotCandidate
		for _, band := range bands {
			for startMinute := band.startMinute; startMinute+durationMinutes <= band.endMinute; startMinute += band.stepMinutes {
				start := day.Add(time.Duration(startMinute) * time.Minute)
				// The anchor day starts at midnight, so early
				// starts on it may already have passed.
				if start.Before(now) {
					continue
				}
				candidate := domain.TimeSlotCandidate{
					Start: start,
					End:   start.Add(duration),
				}
				if candidate.ConflictsWith(request.ExistingEvents, buffer) {
					continue
				}
				candidate.Priority = slotPriority(classification.Type, start)
				candidate.Reasoning = fmt.Sprintf("%s at %s (%s)",
					start.Format("Monday, Jan 2"), start.Format("15:04"), band.label)
				dayCandidates = append(dayCandidates, candidate)
			}
		}

		sortByPriority(dayCandidates)
		if len(dayCandidates) > prefs.MaxSuggestionsPerDay {
			dayCandidates = dayCandidates[:prefs.MaxSuggestionsPerDay]
		}
		pooled = append(pooled, dayCandidates...)
	}

	sortByPriority(pooled)
	if len(pooled) > generatorTopK {
		pooled = pooled[:generatorTopK]
	}
	return pooled, nil
}

// bandsForDay returns the enumeration windows for a classification on a
// given weekday. Business events are only placed on configured workdays.
func (g *SlotGenerator) bandsForDay(eventType domain.EventType, day time.Weekday, prefs domain.SchedulingPreferences) []timeBand {
	if eventType == domain.EventTypeBusiness {
		if !prefs.WorkDays[day] {
			return nil
		}
		return []timeBand{{
			startMinute: prefs.BusinessHours.StartMinute,
			endMinute:   prefs.BusinessHours.EndMinute,
			stepMinutes: defaultStepMinutes,
			label:       "business hours",
		}}
	}

	if isWeekend(day) {
		return weekendBands
	}
	return weekdayEveningBands
}

// mealWindows returns the meal bands selected by cues in the text, or nil
// when no meal cue is present.
func mealWindows(title, description string) []timeBand {
	text := normalizeText(title, description)
	var bands []timeBand
	for _, entry := range mealBands {
		if strings.Contains(text, entry.cue) {
			bands = append(bands, entry.band)
		}
	}
	return bands
}

// sortByPriority orders candidates by priority descending, earliest start
// first on ties, keeping generation deterministic.
func sortByPriority(candidates []domain.TimeSlotCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].Start.Before(candidates[j].Start)
	})
}

// DefaultSlot is the last-resort suggestion when generation fails
// entirely: the next day at 10:00 for the requested duration.
func (g *SlotGenerator) DefaultSlot(durationMinutes int) domain.TimeSlotCandidate {
	if durationMinutes < 1 {
		durationMinutes = domain.DefaultPersonalDuration
	}
	now := g.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 10, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return domain.TimeSlotCandidate{
		Start:     start,
		End:       start.Add(time.Duration(durationMinutes) * time.Minute),
		Reasoning: "default suggestion: next day mid-morning",
		Priority:  50,
	}
}
