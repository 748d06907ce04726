package rabbitmq

import (
	"context"
	"time"

	"securechat/internal/models"
)

// EventEnvelope is the wire shape for engine events forwarded to the broker.
type EventEnvelope struct {
	EventType  string       `json:"event_type"`
	OccurredAt string       `json:"occurred_at"`
	Event      models.Event `json:"event"`
}

// EventForwarder adapts a Publisher into an engine observer so downstream
// consumers see the same events websocket clients do.
type EventForwarder struct {
	publisher  Publisher
	keyPrefix  string
	maxPublish time.Duration
}

// NewEventForwarder builds a forwarder that publishes with routing keys of
// the form "<keyPrefix>.<event type>".
func NewEventForwarder(publisher Publisher, keyPrefix string) *EventForwarder {
	return &EventForwarder{
		publisher:  publisher,
		keyPrefix:  keyPrefix,
		maxPublish: 5 * time.Second,
	}
}

// Notify implements the engine observer contract. Publish failures are
// counted and logged by the publisher; the engine never sees them.
func (f *EventForwarder) Notify(ev models.Event) {
	if f == nil || f.publisher == nil {
		return
	}

	envelope := EventEnvelope{
		EventType:  ev.Type,
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
		Event:      ev,
	}

	ctx, cancel := context.WithTimeout(context.Background(), f.maxPublish)
	defer cancel()
	_ = f.publisher.Publish(ctx, f.keyPrefix+"."+ev.Type, envelope)
}
