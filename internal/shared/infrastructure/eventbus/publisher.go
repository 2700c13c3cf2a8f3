// Package eventbus carries domain events to interested consumers, either
// in process or through RabbitMQ when a broker is configured.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	sharedDomain "github.com/flowgenius/scheduler/internal/shared/domain"
)

// Publisher sends serialized domain events to the bus.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// PublishEvent wraps a domain event in the bus envelope and publishes it.
// The event itself is marshaled as the envelope payload.
func PublishEvent(ctx context.Context, publisher Publisher, event sharedDomain.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	envelope, err := json.Marshal(ConsumedEvent{
		EventID:       event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		Payload:       payload,
	})
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	return publisher.Publish(ctx, event.RoutingKey(), envelope)
}
