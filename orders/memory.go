package orders

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"modehaus/models"
)

// MemoryRepository keeps orders in memory. Used in tests and local
// development; it honors the same conditional-update contract as the Mongo
// repository.
type MemoryRepository struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]models.Order
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[primitive.ObjectID]models.Order)}
}

func (r *MemoryRepository) Insert(_ context.Context, order models.Order) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	r.orders[order.ID] = order
	return order.ID, nil
}

func (r *MemoryRepository) Get(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	return order, nil
}

func (r *MemoryRepository) ByClientRef(_ context.Context, userID primitive.ObjectID, ref string) (models.Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.UserID == userID && o.ClientRef == ref {
			return o, true, nil
		}
	}
	return models.Order{}, false, nil
}

func (r *MemoryRepository) ByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepository) PendingReview(_ context.Context) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		if o.PaymentStatus == models.StatusPending || o.PaymentStatus == models.StatusProcessing {
			out = append(out, o)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepository) AdvanceStatus(_ context.Context, id primitive.ObjectID, from, to models.PaymentStatus, receiptURL string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok || order.PaymentStatus != from {
		return false, nil
	}
	order.PaymentStatus = to
	if receiptURL != "" {
		order.ReceiptImageURL = receiptURL
	}
	r.orders[id] = order
	return true, nil
}

func (r *MemoryRepository) WatchPendingReview(ctx context.Context) (<-chan []models.Order, error) {
	ch := make(chan []models.Order, 1)
	queue, _ := r.PendingReview(ctx)
	ch <- queue
	close(ch)
	return ch, nil
}

func sortNewestFirst(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
}
