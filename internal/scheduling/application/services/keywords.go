package services

import (
	"strings"

	"github.com/flowgenius/scheduler/internal/scheduling/domain"
)

// Keyword sets used by the local classifier and by the validator's
// contextual-consistency check. Matching is substring-based over the
// lower-cased title+description, so multi-word entries are allowed.
var typeKeywords = map[domain.EventType][]string{
	domain.EventTypeBusiness: {
		"meeting", "standup", "sync", "client", "presentation", "interview",
		"review", "deadline", "sprint", "planning", "budget", "sales",
		"proposal", "demo", "report", "conference", "onboarding", "kickoff",
		"retrospective", "workshop", "1:1", "all-hands", "quarterly",
	},
	domain.EventTypeHobby: {
		"gym", "workout", "yoga", "running", "hiking", "climbing", "tennis",
		"soccer", "basketball", "golf", "swimming", "painting", "guitar",
		"piano", "band practice", "gaming", "photography", "pottery", "chess",
		"book club", "fishing", "cycling", "crafting", "rehearsal",
	},
	domain.EventTypePersonal: {
		"doctor", "dentist", "appointment", "birthday", "family", "dinner",
		"lunch", "breakfast", "brunch", "coffee", "errand", "groceries",
		"shopping", "haircut", "vet", "school pickup", "anniversary", "party",
		"visit", "friends", "date night", "checkup",
	},
}

// matchKeywords returns the entries of the given set found in text.
// text must already be lower-cased.
func matchKeywords(text string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// normalizeText lower-cases and joins title and description for matching.
func normalizeText(title, description string) string {
	return strings.ToLower(strings.TrimSpace(title + " " + description))
}
