// Package pipeline sequences the scheduling stages and accumulates the
// per-step state record that makes each run auditable.
package pipeline

import (
	"time"

	"github.com/flowgenius/scheduler/internal/scheduling/domain"
)

// Step names recorded in StepsExecuted, in pipeline order.
const (
	StepClassify = "classify"
	StepValidate = "validate"
	StepRefine   = "refine"
	StepEstimate = "estimate_duration"
	StepGenerate = "generate_slots"
	StepOptimize = "optimize"
	StepFallback = "fallback"
)

// State is the accumulating record threaded through the pipeline stages.
// It is treated as an immutable value: every stage produces a new State
// via Apply, never editing prior fields in place.
type State struct {
	Request domain.SchedulingRequest

	Classification     *domain.EventClassification
	ValidationPassed   bool
	RequiresRefinement bool
	RefinementApplied  bool

	DurationMinutes int
	Candidates      []domain.TimeSlotCandidate
	RankedSlots     []domain.TimeSlotCandidate

	ReasoningTrail      []string
	Errors              []string
	StepsExecuted       []string
	ConfidenceEvolution []float64
}

// NewState creates the initial pipeline state for a request.
func NewState(request domain.SchedulingRequest) State {
	return State{
		Request:          request,
		ValidationPassed: true,
	}
}

// Update is the partial result a stage contributes to the state. Nil
// fields leave the corresponding state untouched.
type Update struct {
	Classification     *domain.EventClassification
	ValidationPassed   *bool
	RequiresRefinement *bool
	RefinementApplied  *bool
	DurationMinutes    *int
	Candidates         []domain.TimeSlotCandidate
	RankedSlots        []domain.TimeSlotCandidate
	Reasoning          string
	Error              string
}

// Apply merges an update onto the state and returns the result. The step
// name is always recorded; the classification's confidence, when present,
// extends the confidence evolution trail.
func (s State) Apply(step string, update Update) State {
	next := s
	next.StepsExecuted = appendCopy(s.StepsExecuted, step)

	if update.Classification != nil {
		classification := *update.Classification
		next.Classification = &classification
		next.ConfidenceEvolution = appendCopy(s.ConfidenceEvolution, classification.Confidence)
	}
	if update.ValidationPassed != nil {
		next.ValidationPassed = *update.ValidationPassed
	}
	if update.RequiresRefinement != nil {
		next.RequiresRefinement = *update.RequiresRefinement
	}
	if update.RefinementApplied != nil {
		next.RefinementApplied = *update.RefinementApplied
	}
	if update.DurationMinutes != nil {
		next.DurationMinutes = *update.DurationMinutes
	}
	if update.Candidates != nil {
		next.Candidates = update.Candidates
	}
	if update.RankedSlots != nil {
		next.RankedSlots = update.RankedSlots
	}
	if update.Reasoning != "" {
		next.ReasoningTrail = appendCopy(s.ReasoningTrail, step+": "+update.Reasoning)
	}
	if update.Error != "" {
		next.Errors = appendCopy(s.Errors, step+": "+update.Error)
	}
	return next
}

// appendCopy appends to a fresh backing array so prior states never
// observe later writes.
func appendCopy[T any](base []T, values ...T) []T {
	out := make([]T, 0, len(base)+len(values))
	out = append(out, base...)
	return append(out, values...)
}

// Metadata describes how a pipeline run unfolded.
type Metadata struct {
	StepsExecuted       []string
	TotalProcessingTime time.Duration
	ConfidenceEvolution []float64
	RefinementApplied   bool
}

// Result is the terminal output of a pipeline run.
type Result struct {
	Classification  domain.EventClassification
	Slots           []domain.TimeSlotCandidate
	DurationMinutes int
	ReasoningTrail  []string
	Errors          []string
	Metadata        Metadata
}
