package subscribers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgenius/scheduler/internal/scheduling/application/subscribers"
	"github.com/flowgenius/scheduler/internal/scheduling/domain"
	"github.com/flowgenius/scheduler/internal/shared/infrastructure/eventbus"
)

func suggestionsEnvelope(t *testing.T) *eventbus.ConsumedEvent {
	t.Helper()

	classification := domain.EventClassification{Type: domain.EventTypeBusiness, Confidence: 0.9}
	slots := []domain.TimeSlotCandidate{{
		Start: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
	}}
	event := domain.NewSuggestionsComputed(uuid.New(), "Team meeting", classification, 60, slots, false)

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	return &eventbus.ConsumedEvent{
		EventID:       event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		Payload:       payload,
	}
}

func TestActivityLogSubscriber_EventTypes(t *testing.T) {
	subscriber := subscribers.NewActivityLogSubscriber(nil)

	assert.Equal(t, []string{
		domain.RoutingKeySuggestionsComputed,
		domain.RoutingKeyEventAdded,
	}, subscriber.EventTypes())
}

func TestActivityLogSubscriber_Handle_SuggestionsComputed(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	subscriber := subscribers.NewActivityLogSubscriber(logger)

	err := subscriber.Handle(context.Background(), suggestionsEnvelope(t))
	require.NoError(t, err)

	logged := buf.String()
	assert.Contains(t, logged, "suggestions computed")
	assert.Contains(t, logged, "Team meeting")
	assert.Contains(t, logged, "business")
}

func TestActivityLogSubscriber_Handle_EventAdded(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	subscriber := subscribers.NewActivityLogSubscriber(logger)

	calendarEvent := domain.NewCalendarEvent("Dentist",
		time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC))
	added := domain.NewEventAdded(calendarEvent)

	payload, err := json.Marshal(added)
	require.NoError(t, err)

	err = subscriber.Handle(context.Background(), &eventbus.ConsumedEvent{
		EventID:     added.EventID(),
		AggregateID: added.AggregateID(),
		RoutingKey:  added.RoutingKey(),
		Payload:     payload,
	})
	require.NoError(t, err)

	logged := buf.String()
	assert.Contains(t, logged, "calendar event recorded")
	assert.Contains(t, logged, "Dentist")
}

func TestActivityLogSubscriber_Handle_MalformedPayload(t *testing.T) {
	subscriber := subscribers.NewActivityLogSubscriber(nil)

	err := subscriber.Handle(context.Background(), &eventbus.ConsumedEvent{
		RoutingKey: domain.RoutingKeySuggestionsComputed,
		Payload:    []byte("{not json"),
	})

	// Malformed activity payloads are logged and dropped, never retried.
	assert.NoError(t, err)
}

func TestActivityLogSubscriber_Handle_Disabled(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	subscriber := subscribers.NewActivityLogSubscriber(logger)
	subscriber.SetEnabled(false)

	err := subscriber.Handle(context.Background(), suggestionsEnvelope(t))
	require.NoError(t, err)

	assert.Empty(t, buf.String())
}

func TestActivityLogSubscriber_Handle_UnknownRoutingKey(t *testing.T) {
	subscriber := subscribers.NewActivityLogSubscriber(nil)

	err := subscriber.Handle(context.Background(), &eventbus.ConsumedEvent{
		RoutingKey: "scheduling.unknown",
	})

	assert.NoError(t, err)
}
