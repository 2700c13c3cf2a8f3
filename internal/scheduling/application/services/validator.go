package services

import (
	"fmt"

	"github.com/flowgenius/scheduler/internal/scheduling/domain"
)

// Validation confidence thresholds.
const (
	confidenceRefineBelow = 0.8
	confidenceFailBelow   = 0.4
)

// ValidationResult is the validator's verdict on a classification.
type ValidationResult struct {
	Passed             bool
	RequiresRefinement bool
	Notes              string
}

// Validator checks classification confidence and contextual consistency.
type Validator struct{}

// NewValidator creates a classification validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate applies the confidence thresholds and the contextual check.
// Confidence below 0.4 fails validation outright; anything below 0.8
// requests refinement. A classification whose text carries keywords of a
// different type with no supporting keyword of its own type is flagged as
// a signal conflict: this guards against one-sided keyword matches.
func (v *Validator) Validate(classification domain.EventClassification, title, description string) ValidationResult {
	result := ValidationResult{Passed: true}

	switch {
	case classification.Confidence < confidenceFailBelow:
		result.Passed = false
		result.RequiresRefinement = true
		result.Notes = fmt.Sprintf("confidence %.2f below %.2f", classification.Confidence, confidenceFailBelow)
	case classification.Confidence < confidenceRefineBelow:
		result.RequiresRefinement = true
		result.Notes = fmt.Sprintf("confidence %.2f below %.2f, refinement requested", classification.Confidence, confidenceRefineBelow)
	}

	text := normalizeText(title, description)
	ownMatches := matchKeywords(text, typeKeywords[classification.Type])
	if len(ownMatches) == 0 {
		for eventType, keywords := range typeKeywords {
			if eventType == classification.Type {
				continue
			}
			if foreign := matchKeywords(text, keywords); len(foreign) > 0 {
				result.Passed = false
				result.RequiresRefinement = true
				result.Notes = fmt.Sprintf("signal conflict: %s keywords present with no %s keywords", eventType, classification.Type)
				break
			}
		}
	}

	return result
}
