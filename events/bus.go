// Package events decouples order status transitions from their notification
// side effects. Subscribers run on their own goroutines; a failing subscriber
// can never block or roll back the transition that triggered it.
package events

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"modehaus/models"
)

// OrderStatusChanged is published after a successful status transition.
type OrderStatusChanged struct {
	OrderID primitive.ObjectID
	UserID  primitive.ObjectID
	From    models.PaymentStatus
	To      models.PaymentStatus
}

// Handler consumes a status-change event.
type Handler func(OrderStatusChanged)

// Bus is a process-local publish/subscribe fan-out.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all future events.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers the event to every subscriber, fire-and-forget.
func (b *Bus) Publish(e OrderStatusChanged) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		go h(e)
	}
}
