package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowgenius/scheduler/internal/scheduling/application/services"
	"github.com/flowgenius/scheduler/internal/scheduling/domain"
)

// Orchestrator runs the scheduling stages in order: classify, validate,
// conditionally refine, estimate duration, generate slots, optimize.
// Every stage has a deterministic fallback, so Run always returns a
// schedulable result.
type Orchestrator struct {
	classifier services.Classifier
	validator  *services.Validator
	refiner    *services.Refiner
	estimator  *services.DurationEstimator
	generator  *services.SlotGenerator
	optimizer  *services.Optimizer
	logger     *slog.Logger
}

// NewOrchestrator wires the pipeline stages together. The classifier may
// be the local keyword classifier or the remote adapter with local
// fallback; everything downstream is purely local.
func NewOrchestrator(classifier services.Classifier, generator *services.SlotGenerator, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		classifier: classifier,
		validator:  services.NewValidator(),
		refiner:    services.NewRefiner(),
		estimator:  services.NewDurationEstimator(),
		generator:  generator,
		optimizer:  services.NewOptimizer(),
		logger:     logger,
	}
}

// Run executes the pipeline for one request. It never returns an error:
// stage failures degrade to the best available partial result, and a
// total failure yields the single default-slot result.
func (o *Orchestrator) Run(ctx context.Context, request domain.SchedulingRequest) (result Result) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("pipeline panicked, returning fallback result", "panic", r, "title", request.Title)
			result = o.fallbackResult(request, start, fmt.Sprintf("pipeline failure: %v", r))
		}
	}()

	state := o.classify(ctx, NewState(request))
	state = o.validate(state)
	if state.RequiresRefinement {
		state = o.refine(state)
	}
	state = o.estimate(state)
	state = o.generate(state)
	state = o.optimize(state)

	classification := domain.EventClassification{Type: domain.EventTypePersonal, Confidence: 0.5}
	if state.Classification != nil {
		classification = *state.Classification
	}

	elapsed := time.Since(start)
	o.logger.Debug("pipeline completed",
		"title", request.Title,
		"type", classification.Type,
		"confidence", classification.Confidence,
		"slots", len(state.RankedSlots),
		"duration_ms", elapsed.Milliseconds(),
	)

	return Result{
		Classification:  classification,
		Slots:           state.RankedSlots,
		DurationMinutes: state.DurationMinutes,
		ReasoningTrail:  state.ReasoningTrail,
		Errors:          state.Errors,
		Metadata: Metadata{
			StepsExecuted:       state.StepsExecuted,
			TotalProcessingTime: elapsed,
			ConfidenceEvolution: state.ConfidenceEvolution,
			RefinementApplied:   state.RefinementApplied,
		},
	}
}

func (o *Orchestrator) classify(ctx context.Context, state State) State {
	classification, err := o.classifier.Classify(ctx, state.Request.Title, state.Request.Description)
	if err != nil {
		// The remote adapter already falls back locally; reaching this
		// branch means even the local path errored, so use the neutral
		// default rather than aborting.
		o.logger.Warn("classification failed, using neutral default", "error", err)
		classification = domain.EventClassification{
			Type:       domain.EventTypePersonal,
			Confidence: 0.5,
			Reasoning:  "classification unavailable",
		}
		return state.Apply(StepClassify, Update{
			Classification: &classification,
			Error:          err.Error(),
			Reasoning:      "classifier error, neutral default applied",
		})
	}
	return state.Apply(StepClassify, Update{
		Classification: &classification,
		Reasoning:      fmt.Sprintf("classified as %s (%.2f)", classification.Type, classification.Confidence),
	})
}

func (o *Orchestrator) validate(state State) State {
	verdict := o.validator.Validate(*state.Classification, state.Request.Title, state.Request.Description)
	reasoning := "classification accepted"
	if verdict.Notes != "" {
		reasoning = verdict.Notes
	}
	return state.Apply(StepValidate, Update{
		ValidationPassed:   &verdict.Passed,
		RequiresRefinement: &verdict.RequiresRefinement,
		Reasoning:          reasoning,
	})
}

func (o *Orchestrator) refine(state State) State {
	before := *state.Classification
	refined := o.refiner.Refine(before, state.Request.Title, state.Request.ExistingEvents)
	applied := refined.Confidence > before.Confidence
	reasoning := "no similar historical events, classification unchanged"
	if applied {
		reasoning = fmt.Sprintf("confidence raised %.2f -> %.2f from historical similarity", before.Confidence, refined.Confidence)
	}
	return state.Apply(StepRefine, Update{
		Classification:    &refined,
		RefinementApplied: &applied,
		Reasoning:         reasoning,
	})
}

func (o *Orchestrator) estimate(state State) State {
	minutes := o.estimator.Estimate(state.Request.Title, state.Request.Description, *state.Classification, state.Request.Preferences)
	return state.Apply(StepEstimate, Update{
		DurationMinutes: &minutes,
		Reasoning:       fmt.Sprintf("estimated duration %d minutes", minutes),
	})
}

func (o *Orchestrator) generate(state State) State {
	candidates, err := o.generator.Generate(state.Request, *state.Classification, state.DurationMinutes)
	if err != nil {
		// Slot generation failed outright: fall back to the single
		// best-effort default slot so the caller still gets something
		// schedulable.
		o.logger.Warn("slot generation failed, using default slot", "error", err)
		fallback := []domain.TimeSlotCandidate{o.generator.DefaultSlot(state.DurationMinutes)}
		return state.Apply(StepGenerate, Update{
			Candidates: fallback,
			Error:      err.Error(),
			Reasoning:  "generation failed, default slot substituted",
		})
	}
	return state.Apply(StepGenerate, Update{
		Candidates: candidates,
		Reasoning:  fmt.Sprintf("generated %d candidate slots", len(candidates)),
	})
}

func (o *Orchestrator) optimize(state State) State {
	ranked, err := o.safeOptimize(state)
	if err != nil {
		// Scoring failure degrades to the unscored candidate list.
		o.logger.Warn("optimization failed, returning unscored candidates", "error", err)
		return state.Apply(StepOptimize, Update{
			RankedSlots: state.Candidates,
			Error:       err.Error(),
			Reasoning:   "scoring failed, candidates returned unranked",
		})
	}
	return state.Apply(StepOptimize, Update{
		RankedSlots: ranked,
		Reasoning:   fmt.Sprintf("ranked %d slots", len(ranked)),
	})
}

// safeOptimize isolates the scorer so an internal failure degrades to the
// unscored candidates instead of aborting the request.
func (o *Orchestrator) safeOptimize(state State) (ranked []domain.TimeSlotCandidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("optimizer panic: %v", r)
		}
	}()
	return o.optimizer.Optimize(state.Candidates, *state.Classification, state.Request.ExistingEvents), nil
}

// fallbackResult is the last-resort response when the pipeline itself
// fails: a single generic default slot, flagged as such in the metadata.
func (o *Orchestrator) fallbackResult(request domain.SchedulingRequest, start time.Time, cause string) Result {
	classification := domain.EventClassification{
		Type:       domain.EventTypePersonal,
		Confidence: 0.5,
		Reasoning:  "fallback classification",
	}
	duration := request.Preferences.DurationFor(classification.Type)
	return Result{
		Classification:  classification,
		Slots:           []domain.TimeSlotCandidate{o.generator.DefaultSlot(duration)},
		DurationMinutes: duration,
		ReasoningTrail:  []string{StepFallback + ": " + cause},
		Errors:          []string{cause},
		Metadata: Metadata{
			StepsExecuted:       []string{StepFallback},
			TotalProcessingTime: time.Since(start),
			ConfidenceEvolution: []float64{classification.Confidence},
		},
	}
}
