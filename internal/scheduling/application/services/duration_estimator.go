package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/flowgenius/scheduler/internal/scheduling/domain"
)

// Explicit duration mentions, checked in order. The combined form must come
// first so "1h30m" is not read as one hour.
var (
	combinedPattern = regexp.MustCompile(`(\d+)\s*h(?:ours?|rs?)?\s*(\d+)\s*m(?:in(?:ute)?s?)?\b`)
	hoursPattern    = regexp.MustCompile(`(\d+(?:\.\d+)?)[\s-]*h(?:ours?|rs?)?\b`)
	minutesPattern  = regexp.MustCompile(`(\d+)[\s-]*m(?:in(?:ute)?s?)?\b`)
)

// Semantic cues, applied when no explicit duration is present. Checked in
// declaration order; the longest commitments are listed first so "all day
// workshop" resolves to a full day.
var semanticDurations = []struct {
	cues    []string
	minutes int
}{
	{cues: []string{"all day", "all-day", "conference", "offsite"}, minutes: 480},
	{cues: []string{"workshop", "training", "session", "hackathon"}, minutes: 120},
	{cues: []string{"quick", "brief", "standup", "short", "check-in"}, minutes: 15},
}

// DurationEstimator extracts or infers an event duration in minutes.
type DurationEstimator struct{}

// NewDurationEstimator creates a duration estimator.
func NewDurationEstimator() *DurationEstimator {
	return &DurationEstimator{}
}

// Estimate resolves the duration in priority order: explicit numeric
// mentions in the text, then semantic cues, then the classification default
// from preferences. The result is always at least one minute.
func (e *DurationEstimator) Estimate(title, description string, classification domain.EventClassification, prefs domain.SchedulingPreferences) int {
	text := normalizeText(title, description)

	if minutes, ok := explicitDuration(text); ok {
		return clampMinutes(minutes)
	}

	for _, entry := range semanticDurations {
		for _, cue := range entry.cues {
			if strings.Contains(text, cue) {
				return entry.minutes
			}
		}
	}

	return clampMinutes(prefs.DurationFor(classification.Type))
}

// explicitDuration finds the first numeric duration mention in text.
func explicitDuration(text string) (int, bool) {
	if m := combinedPattern.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		return hours*60 + minutes, true
	}
	if m := hoursPattern.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.ParseFloat(m[1], 64)
		return int(hours * 60), true
	}
	if m := minutesPattern.FindStringSubmatch(text); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		return minutes, true
	}
	return 0, false
}

func clampMinutes(minutes int) int {
	if minutes < 1 {
		return 1
	}
	return minutes
}
