package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"
)

type EventHandler func(context.Context, *stripe.Event) error

// EventManager decouples webhook acknowledgment from fulfillment work:
// verified events are published to NATS and consumed by the worker pool.
type EventManager struct {
	natsConn *nats.Conn
	handlers map[stripe.EventType]EventHandler
	logger   *zap.Logger
}

func NewEventManager(natsConn *nats.Conn, logger *zap.Logger) *EventManager {
	return &EventManager{
		natsConn: natsConn,
		handlers: make(map[stripe.EventType]EventHandler),
		logger:   logger,
	}
}

func (em *EventManager) RegisterHandler(eventType stripe.EventType, handler EventHandler) {
	em.handlers[eventType] = handler
}

func (em *EventManager) GetHandler(eventType stripe.EventType) (EventHandler, bool) {
	handler, exists := em.handlers[eventType]
	return handler, exists
}

func (em *EventManager) Publish(event *stripe.Event) error {
	subject := fmt.Sprintf("checkout.event.%s", event.Type)
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return em.natsConn.Publish(subject, data)
}

func (em *EventManager) SubscribeToEvents(d *Dispatcher) error {
	_, err := em.natsConn.Subscribe("checkout.event.>", func(msg *nats.Msg) {
		var event stripe.Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			em.logger.Error("Failed to unmarshal event", zap.Error(err))
			return
		}

		d.Submit(context.Background(), &event)
	})

	return err
}

func (sc *StripeCheckout) registerEventHandlers() {

	eventHandlers := map[stripe.EventType]EventHandler{
		stripe.EventTypeCheckoutSessionCompleted: sc.handleCheckoutSessionEvent,
	}

	for eventType, handler := range eventHandlers {
		sc.eventManager.RegisterHandler(eventType, handler)
	}
}
