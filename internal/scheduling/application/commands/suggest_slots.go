// Package commands contains the scheduling write-side use cases.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flowgenius/scheduler/internal/scheduling/application/pipeline"
	"github.com/flowgenius/scheduler/internal/scheduling/application/services"
	"github.com/flowgenius/scheduler/internal/scheduling/domain"
	"github.com/flowgenius/scheduler/internal/shared/infrastructure/eventbus"
	"github.com/flowgenius/scheduler/pkg/observability"
)

// SuggestSlotsCommand asks the pipeline for ranked time suggestions.
type SuggestSlotsCommand struct {
	Title         string
	Description   string
	PreferredDate *time.Time
	Overrides     *domain.PreferenceOverride
}

// SuggestSlotsHandler loads the conflict snapshot, runs the pipeline, and
// publishes the outcome.
type SuggestSlotsHandler struct {
	events       domain.EventRepository
	orchestrator *pipeline.Orchestrator
	publisher    eventbus.Publisher
	defaults     domain.SchedulingPreferences
	logger       *slog.Logger
	metrics      observability.Metrics
	now          func() time.Time
}

// NewSuggestSlotsHandler creates a new SuggestSlotsHandler.
func NewSuggestSlotsHandler(
	events domain.EventRepository,
	orchestrator *pipeline.Orchestrator,
	publisher eventbus.Publisher,
	defaults domain.SchedulingPreferences,
	logger *slog.Logger,
	metrics observability.Metrics,
) *SuggestSlotsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &SuggestSlotsHandler{
		events:       events,
		orchestrator: orchestrator,
		publisher:    publisher,
		defaults:     defaults,
		logger:       logger,
		metrics:      metrics,
		now:          time.Now,
	}
}

// WithClock overrides the handler's clock; used by tests.
func (h *SuggestSlotsHandler) WithClock(now func() time.Time) *SuggestSlotsHandler {
	h.now = now
	return h
}

// Handle executes the SuggestSlotsCommand. The event-store snapshot covers
// the full scheduling horizon; a store failure degrades to an empty
// snapshot rather than failing the request, since suggestions without
// conflict data are still better than no suggestions.
func (h *SuggestSlotsHandler) Handle(ctx context.Context, cmd SuggestSlotsCommand) (*pipeline.Result, error) {
	if cmd.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	return observability.TimeOperationResult(ctx, h.logger, h.metrics, "suggest_slots", func() (*pipeline.Result, error) {
		prefs := domain.Merge(h.defaults, cmd.Overrides)

		request := domain.SchedulingRequest{
			Title:         cmd.Title,
			Description:   cmd.Description,
			PreferredDate: cmd.PreferredDate,
			Preferences:   prefs,
		}

		anchor := request.Anchor(h.now())
		existing, err := h.events.FindByRange(ctx, anchor, anchor.AddDate(0, 0, services.HorizonDays))
		if err != nil {
			h.logger.Warn("event store query failed, scheduling without conflict data", "error", err)
			existing = nil
		}
		request.ExistingEvents = existing

		result := h.orchestrator.Run(ctx, request)

		h.metrics.Counter(observability.MetricPipelineRuns, 1,
			observability.T("type", string(result.Classification.Type)))
		h.metrics.Timing(observability.MetricPipelineDuration, result.Metadata.TotalProcessingTime)
		h.metrics.Counter(observability.MetricSlotsRanked, int64(len(result.Slots)))
		if len(result.Metadata.StepsExecuted) == 1 && result.Metadata.StepsExecuted[0] == pipeline.StepFallback {
			h.metrics.Counter(observability.MetricPipelineFallbacks, 1)
		}

		event := domain.NewSuggestionsComputed(
			uuid.New(),
			cmd.Title,
			result.Classification,
			result.DurationMinutes,
			result.Slots,
			result.Metadata.RefinementApplied,
		)
		if err := eventbus.PublishEvent(ctx, h.publisher, event); err != nil {
			h.logger.Warn("failed to publish suggestions event", "error", err)
		} else {
			h.metrics.Counter(observability.MetricEventsPublished, 1)
		}

		return &result, nil
	})
}
