package services

import (
	"fmt"
	"strings"

	"github.com/flowgenius/scheduler/internal/scheduling/domain"
)

// refinementBoost is added to confidence when similar historical events
// support the classification.
const refinementBoost = 0.1

// refinementConfidenceCap bounds the confidence a refinement can reach.
const refinementConfidenceCap = 0.95

// Refiner conditionally adjusts a classification using historical events
// as a similarity signal. It only runs when the validator requested it.
type Refiner struct{}

// NewRefiner creates a classification refiner.
func NewRefiner() *Refiner {
	return &Refiner{}
}

// Refine looks for existing events whose titles share a leading word with
// the new title. When found, confidence rises by 0.1 (capped at 0.95) and
// the provenance is recorded. Otherwise the classification is returned
// unchanged. Refine never fails: it has no effect rather than an error.
func (r *Refiner) Refine(classification domain.EventClassification, title string, existing []domain.CalendarEvent) domain.EventClassification {
	lead := leadingWord(title)
	if lead == "" {
		return classification
	}

	similar := 0
	for _, ev := range existing {
		if leadingWord(ev.Title) == lead {
			similar++
		}
	}
	if similar == 0 {
		return classification
	}

	confidence := classification.Confidence + refinementBoost
	if confidence > refinementConfidenceCap {
		confidence = refinementConfidenceCap
	}

	refined := classification.WithConfidence(confidence)
	refined.Reasoning = classification.Reasoning +
		fmt.Sprintf("; refined using %d similar historical event(s)", similar)
	return refined.AppendContext(fmt.Sprintf("historical similarity on leading word %q", lead))
}

// leadingWord returns the lower-cased first word of a title.
func leadingWord(title string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(title)))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
