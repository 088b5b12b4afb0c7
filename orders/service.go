// Package orders owns the order lifecycle: the payment-status workflow, the
// customer order history and the administrator review queue.
package orders

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"modehaus/events"
	"modehaus/models"
)

var (
	ErrNotFound          = errors.New("orders: order not found")
	ErrIllegalTransition = errors.New("orders: illegal status transition")
	ErrPermissionDenied  = errors.New("orders: permission denied")
	// ErrConflict means the order's status changed between read and write,
	// usually two administrators acting on the same order at once.
	ErrConflict = errors.New("orders: order was modified concurrently")
)

// Actor identifies who is performing an operation.
type Actor struct {
	UserID primitive.ObjectID
	Admin  bool
}

// Repository is the persistence contract for orders.
type Repository interface {
	Insert(ctx context.Context, order models.Order) (primitive.ObjectID, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	PendingReview(ctx context.Context) ([]models.Order, error)
	// AdvanceStatus applies a conditional single-field update: it only matches
	// when the stored status still equals from. Returns whether it matched.
	AdvanceStatus(ctx context.Context, id primitive.ObjectID, from, to models.PaymentStatus, receiptURL string) (bool, error)
	WatchPendingReview(ctx context.Context) (<-chan []models.Order, error)
}

// Publisher emits status-change events to interested subscribers.
type Publisher interface {
	Publish(events.OrderStatusChanged)
}

// Service enforces the status workflow over a repository.
type Service struct {
	repo Repository
	bus  Publisher
}

// NewService wires a workflow service.
func NewService(repo Repository, bus Publisher) *Service {
	return &Service{repo: repo, bus: bus}
}

// AdvanceStatus moves an order to target if the transition is legal and the
// actor is allowed to perform it.
//
// The write is conditional on the status read here, so a concurrent advance
// by another session surfaces as ErrConflict instead of silently winning.
// The pending -> processing edge may attach a receipt URL; all other edges
// leave the receipt untouched.
func (s *Service) AdvanceStatus(ctx context.Context, orderID primitive.ObjectID, target models.PaymentStatus, actor Actor, receiptURL string) error {
	if !target.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrIllegalTransition, target)
	}

	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	from := order.PaymentStatus

	if !from.CanAdvanceTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, target)
	}

	if target == models.StatusProcessing {
		// Customer edge: only the order's owner (or an admin) may confirm
		// that payment was sent.
		if !actor.Admin && actor.UserID != order.UserID {
			return ErrPermissionDenied
		}
	} else if !actor.Admin {
		return ErrPermissionDenied
	}

	matched, err := s.repo.AdvanceStatus(ctx, orderID, from, target, receiptURL)
	if err != nil {
		return err
	}
	if !matched {
		return fmt.Errorf("%w: expected status %s on order %s", ErrConflict, from, orderID.Hex())
	}

	s.bus.Publish(events.OrderStatusChanged{
		OrderID: orderID,
		UserID:  order.UserID,
		From:    from,
		To:      target,
	})
	return nil
}

// Get returns one order, readable by its owner or any admin.
func (s *Service) Get(ctx context.Context, orderID primitive.ObjectID, actor Actor) (models.Order, error) {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if !actor.Admin && actor.UserID != order.UserID {
		return models.Order{}, ErrPermissionDenied
	}
	return order, nil
}

// ByUser returns the actor's own order history, newest first.
func (s *Service) ByUser(ctx context.Context, actor Actor) ([]models.Order, error) {
	return s.repo.ByUser(ctx, actor.UserID)
}

// PendingReview returns the admin work queue: every order whose status is
// pending or processing, newest first.
func (s *Service) PendingReview(ctx context.Context, actor Actor) ([]models.Order, error) {
	if !actor.Admin {
		return nil, ErrPermissionDenied
	}
	return s.repo.PendingReview(ctx)
}

// WatchPendingReview streams the review queue, re-emitting it whenever a
// matching order changes.
func (s *Service) WatchPendingReview(ctx context.Context, actor Actor) (<-chan []models.Order, error) {
	if !actor.Admin {
		return nil, ErrPermissionDenied
	}
	return s.repo.WatchPendingReview(ctx)
}
