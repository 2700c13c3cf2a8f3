// Package services implements the stages of the smart scheduling pipeline:
// classification, validation, refinement, duration estimation, slot
// generation, and optimization.
package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/flowgenius/scheduler/internal/scheduling/domain"
)

// Classifier determines the category of an event from its text.
type Classifier interface {
	Classify(ctx context.Context, title, description string) (domain.EventClassification, error)
}

// LocalClassifier is a deterministic keyword-based classifier. It is the
// default classification path and the fallback for the remote adapter,
// so it must never fail.
type LocalClassifier struct{}

// NewLocalClassifier creates a local keyword classifier.
func NewLocalClassifier() *LocalClassifier {
	return &LocalClassifier{}
}

// Classify scores the three keyword sets against the lower-cased
// title+description. The set with the strictly highest match count wins;
// ties and zero matches default to personal.
func (c *LocalClassifier) Classify(_ context.Context, title, description string) (domain.EventClassification, error) {
	text := normalizeText(title, description)

	matches := make(map[domain.EventType][]string, len(typeKeywords))
	total := 0
	for eventType, keywords := range typeKeywords {
		found := matchKeywords(text, keywords)
		matches[eventType] = found
		total += len(found)
	}

	if total == 0 {
		return domain.EventClassification{
			Type:       domain.EventTypePersonal,
			Confidence: 0.5,
			Reasoning:  "no category keywords matched, defaulting to personal",
		}, nil
	}

	business := len(matches[domain.EventTypeBusiness])
	hobby := len(matches[domain.EventTypeHobby])
	personal := len(matches[domain.EventTypePersonal])

	maxScore := personal
	if business > maxScore {
		maxScore = business
	}
	if hobby > maxScore {
		maxScore = hobby
	}

	// The winning type must hold the maximum alone; ties default to personal.
	winner := domain.EventTypePersonal
	switch {
	case business == maxScore && hobby < maxScore && personal < maxScore:
		winner = domain.EventTypeBusiness
	case hobby == maxScore && business < maxScore && personal < maxScore:
		winner = domain.EventTypeHobby
	}

	confidence := 0.6 + float64(maxScore)/float64(total)*0.35
	if confidence > 0.95 {
		confidence = 0.95
	}

	matched := append([]string(nil), matches[winner]...)
	sort.Strings(matched)

	return domain.EventClassification{
		Type:       winner,
		Confidence: confidence,
		Reasoning: fmt.Sprintf("matched %d/%d keywords for %s: %s",
			len(matched), total, winner, strings.Join(matched, ", ")),
		Keywords: matched,
	}, nil
}
