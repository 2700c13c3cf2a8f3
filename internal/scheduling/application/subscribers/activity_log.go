// Package subscribers contains event consumers for the scheduling context.
package subscribers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/flowgenius/scheduler/internal/scheduling/domain"
	"github.com/flowgenius/scheduler/internal/shared/infrastructure/eventbus"
)

// ActivityLogSubscriber records scheduling activity from the event stream
// as structured log entries.
type ActivityLogSubscriber struct {
	logger  *slog.Logger
	enabled bool
}

// NewActivityLogSubscriber creates a new ActivityLogSubscriber.
func NewActivityLogSubscriber(logger *slog.Logger) *ActivityLogSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityLogSubscriber{logger: logger, enabled: true}
}

// SetEnabled enables or disables the subscriber.
func (s *ActivityLogSubscriber) SetEnabled(enabled bool) {
	s.enabled = enabled
}

// EventTypes returns the event types this subscriber handles.
func (s *ActivityLogSubscriber) EventTypes() []string {
	return []string{
		domain.RoutingKeySuggestionsComputed,
		domain.RoutingKeyEventAdded,
	}
}

// Handle processes an event.
func (s *ActivityLogSubscriber) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	if !s.enabled {
		return nil
	}

	switch event.RoutingKey {
	case domain.RoutingKeySuggestionsComputed:
		return s.handleSuggestionsComputed(event)
	case domain.RoutingKeyEventAdded:
		return s.handleEventAdded(event)
	default:
		s.logger.Warn("unknown event type", "routing_key", event.RoutingKey)
		return nil
	}
}

func (s *ActivityLogSubscriber) handleSuggestionsComputed(event *eventbus.ConsumedEvent) error {
	var payload domain.SuggestionsComputed
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		s.logger.Debug("failed to unmarshal suggestions payload",
			"event_id", event.EventID,
			"error", err,
		)
		return nil
	}

	s.logger.Info("suggestions computed",
		"title", payload.Title,
		"type", payload.EventType,
		"confidence", payload.Confidence,
		"duration_min", payload.DurationMin,
		"slots", payload.SlotCount,
		"refined", payload.RefinementUsed,
	)
	return nil
}

func (s *ActivityLogSubscriber) handleEventAdded(event *eventbus.ConsumedEvent) error {
	var payload domain.EventAdded
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		s.logger.Debug("failed to unmarshal event-added payload",
			"event_id", event.EventID,
			"error", err,
		)
		return nil
	}

	s.logger.Info("calendar event recorded",
		"title", payload.Title,
		"start", payload.StartTime,
		"end", payload.EndTime,
	)
	return nil
}

var _ eventbus.EventConsumer = (*ActivityLogSubscriber)(nil)
