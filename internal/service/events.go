package service

import (
	"context"
	"time"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/pkg/logger"
)

// Notifier pushes live updates to connected clients. *ws.Hub implements it.
type Notifier interface {
	Notify(msgType, action string, payload any)
}

// EventPublisher emits domain events to the broker. *rabbitmq.Client implements it.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Routing keys on the inventory.events exchange.
const (
	EventCheckoutCompleted    = "checkout.completed"
	EventCheckoutInconsistent = "checkout.inconsistent"
	EventProductCreated       = "product.created"
	EventProductUpdated       = "product.updated"
	EventProductArchived      = "product.archived"
	EventProductRestored      = "product.restored"
)

const publishTimeout = 3 * time.Second

// ProductEvent is the body of every product.* event and stock_update message.
type ProductEvent struct {
	Product model.Product `json:"product"`
	User    string        `json:"user"`
	At      time.Time     `json:"at"`
}

func notify(n Notifier, action string, payload any) {
	if n == nil {
		return
	}
	n.Notify("stock_update", action, payload)
}

// publish fires the event in the background; broker trouble never fails a request.
func publish(p EventPublisher, routingKey string, payload any) {
	if p == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := p.Publish(ctx, routingKey, payload); err != nil {
			logger.Warn("publish %s failed: %v", routingKey, err)
		}
	}()
}
