package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/naturburst/naturburst.com-sub000/internal/models"
)

// EventPublisher handles publishing storefront domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishCheckoutCompleted publishes a CheckoutCompleted event, keyed by
// session so one session's events stay ordered.
func (ep *EventPublisher) PublishCheckoutCompleted(ctx context.Context, event *models.CheckoutCompletedEvent) error {
	key := fmt.Sprintf("session-%s", event.SessionID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishContactSubmitted publishes a ContactSubmitted event
func (ep *EventPublisher) PublishContactSubmitted(ctx context.Context, event *models.ContactSubmittedEvent) error {
	key := fmt.Sprintf("session-%s", event.SessionID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishCatalogReloaded publishes a CatalogReloaded event
func (ep *EventPublisher) PublishCatalogReloaded(ctx context.Context, event *models.CatalogReloadedEvent) error {
	return ep.producer.PublishEvent(ctx, "catalog", event)
}

// EventHandler routes incoming storefront events
type EventHandler struct {
	onCheckoutCompleted func(context.Context, *models.CheckoutCompletedEvent) error
	onContactSubmitted  func(context.Context, *models.ContactSubmittedEvent) error
	onCatalogReloaded   func(context.Context, *models.CatalogReloadedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnCheckoutCompleted registers a handler for CheckoutCompleted events
func (eh *EventHandler) OnCheckoutCompleted(handler func(context.Context, *models.CheckoutCompletedEvent) error) {
	eh.onCheckoutCompleted = handler
}

// OnContactSubmitted registers a handler for ContactSubmitted events
func (eh *EventHandler) OnContactSubmitted(handler func(context.Context, *models.ContactSubmittedEvent) error) {
	eh.onContactSubmitted = handler
}

// OnCatalogReloaded registers a handler for CatalogReloaded events
func (eh *EventHandler) OnCatalogReloaded(handler func(context.Context, *models.CatalogReloadedEvent) error) {
	eh.onCatalogReloaded = handler
}

// HandleMessage routes messages to the appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	log.Printf("Handling event: type=%s, id=%s", baseEvent.EventType, baseEvent.EventID)

	switch baseEvent.EventType {
	case models.EventTypeCheckoutCompleted:
		if eh.onCheckoutCompleted != nil {
			var event models.CheckoutCompletedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CheckoutCompleted event: %w", err)
			}
			return eh.onCheckoutCompleted(ctx, &event)
		}

	case models.EventTypeContactSubmitted:
		if eh.onContactSubmitted != nil {
			var event models.ContactSubmittedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ContactSubmitted event: %w", err)
			}
			return eh.onContactSubmitted(ctx, &event)
		}

	case models.EventTypeCatalogReloaded:
		if eh.onCatalogReloaded != nil {
			var event models.CatalogReloadedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CatalogReloaded event: %w", err)
			}
			return eh.onCatalogReloaded(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
