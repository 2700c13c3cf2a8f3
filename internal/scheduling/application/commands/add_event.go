package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowgenius/scheduler/internal/scheduling/domain"
	"github.com/flowgenius/scheduler/internal/shared/infrastructure/eventbus"
	"github.com/flowgenius/scheduler/pkg/observability"
)

// AddEventCommand commits a calendar event to the store so later
// scheduling runs treat it as a conflict source.
type AddEventCommand struct {
	Title string
	Start time.Time
	End   time.Time
}

// AddEventHandler persists calendar events.
type AddEventHandler struct {
	events    domain.EventRepository
	publisher eventbus.Publisher
	logger    *slog.Logger
	metrics   observability.Metrics
}

// NewAddEventHandler creates a new AddEventHandler.
func NewAddEventHandler(events domain.EventRepository, publisher eventbus.Publisher, logger *slog.Logger, metrics observability.Metrics) *AddEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &AddEventHandler{events: events, publisher: publisher, logger: logger, metrics: metrics}
}

// Handle validates and stores the event, then publishes EventAdded.
func (h *AddEventHandler) Handle(ctx context.Context, cmd AddEventCommand) (*domain.CalendarEvent, error) {
	if cmd.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if !cmd.End.After(cmd.Start) {
		return nil, fmt.Errorf("end time must be after start time")
	}

	return observability.TimeOperationResult(ctx, h.logger, h.metrics, "add_event", func() (*domain.CalendarEvent, error) {
		event := domain.NewCalendarEvent(cmd.Title, cmd.Start, cmd.End)
		if err := h.events.Save(ctx, event); err != nil {
			return nil, fmt.Errorf("save event: %w", err)
		}

		h.metrics.Counter(observability.MetricEventsAdded, 1)
		if err := eventbus.PublishEvent(ctx, h.publisher, domain.NewEventAdded(event)); err != nil {
			h.logger.Warn("failed to publish event-added event", "error", err)
		} else {
			h.metrics.Counter(observability.MetricEventsPublished, 1)
		}

		h.logger.Info("calendar event added", "event_id", event.ID, "title", event.Title)
		return &event, nil
	})
}
