package broker

import (
	"context"
	"fmt"
	"time"

	"pos-bot/internal/models"

	"github.com/google/uuid"
)

// EventPublisher handles publishing domain events. Publishing is
// best-effort from the caller's point of view: the flows log failures and
// carry on.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

// PublishSessionStarted publishes a SessionStarted event
func (ep *EventPublisher) PublishSessionStarted(ctx context.Context, event *models.SessionStartedEvent) error {
	event.BaseEvent = newBaseEvent(models.EventTypeSessionStarted)
	key := fmt.Sprintf("session-%d", event.SessionID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishSessionEnded publishes a SessionEnded event
func (ep *EventPublisher) PublishSessionEnded(ctx context.Context, event *models.SessionEndedEvent) error {
	event.BaseEvent = newBaseEvent(models.EventTypeSessionEnded)
	key := fmt.Sprintf("session-%d", event.SessionID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOrderCreated publishes an OrderCreated event
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	event.BaseEvent = newBaseEvent(models.EventTypeOrderCreated)
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOrderDeleted publishes an OrderDeleted event
func (ep *EventPublisher) PublishOrderDeleted(ctx context.Context, event *models.OrderDeletedEvent) error {
	event.BaseEvent = newBaseEvent(models.EventTypeOrderDeleted)
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}
