package cart

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"modehaus/models"
)

// ErrInvalidQuantity is returned when a cart mutation asks for a quantity
// below one.
var ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")

// Catalog is the read-only product lookup the store prices lines against.
// Cart lines reference live catalog prices until checkout snapshots them.
type Catalog interface {
	Product(ctx context.Context, id primitive.ObjectID) (models.Product, error)
}

// Persister reads and writes the whole cart for one user. Every mutation
// saves the full collection so the cart survives restarts.
type Persister interface {
	Load(ctx context.Context, userID primitive.ObjectID) (models.Cart, error)
	Save(ctx context.Context, cart models.Cart) error
}

// Store maintains the pre-checkout line items for each user.
type Store struct {
	persist Persister
	catalog Catalog
}

// NewStore creates a Store backed by the given persister and catalog.
func NewStore(p Persister, c Catalog) *Store {
	return &Store{persist: p, catalog: c}
}

// Get returns the user's cart, empty if none was ever saved.
func (s *Store) Get(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	return s.persist.Load(ctx, userID)
}

// AddItem adds a line to the cart. If a line with the same (product, size,
// color) already exists its quantity is increased instead of appending a
// duplicate.
func (s *Store) AddItem(ctx context.Context, userID primitive.ObjectID, line models.CartLine) error {
	if line.Quantity < 1 {
		return ErrInvalidQuantity
	}

	cart, err := s.persist.Load(ctx, userID)
	if err != nil {
		return err
	}

	merged := false
	for i, existing := range cart.Lines {
		if existing.SameVariant(line) {
			cart.Lines[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Lines = append(cart.Lines, line)
	}

	return s.persist.Save(ctx, cart)
}

// RemoveItem deletes the matching line. Removing an absent line is a no-op,
// not an error.
func (s *Store) RemoveItem(ctx context.Context, userID primitive.ObjectID, productID primitive.ObjectID, size, color string) error {
	cart, err := s.persist.Load(ctx, userID)
	if err != nil {
		return err
	}

	target := models.CartLine{ProductID: productID, Size: size, Color: color}
	kept := cart.Lines[:0]
	for _, line := range cart.Lines {
		if !line.SameVariant(target) {
			kept = append(kept, line)
		}
	}
	cart.Lines = kept

	return s.persist.Save(ctx, cart)
}

// SetQuantity sets the quantity of the matching line. A quantity of zero or
// less removes the line.
func (s *Store) SetQuantity(ctx context.Context, userID primitive.ObjectID, productID primitive.ObjectID, size, color string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID, size, color)
	}

	cart, err := s.persist.Load(ctx, userID)
	if err != nil {
		return err
	}

	target := models.CartLine{ProductID: productID, Size: size, Color: color}
	found := false
	for i, line := range cart.Lines {
		if line.SameVariant(target) {
			cart.Lines[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		cart.Lines = append(cart.Lines, models.CartLine{
			ProductID: productID,
			Quantity:  quantity,
			Size:      size,
			Color:     color,
		})
	}

	return s.persist.Save(ctx, cart)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context, userID primitive.ObjectID) error {
	cart, err := s.persist.Load(ctx, userID)
	if err != nil {
		return err
	}
	cart.Lines = nil
	return s.persist.Save(ctx, cart)
}

// Subtotal sums unit price times quantity over all lines at current catalog
// prices.
func (s *Store) Subtotal(ctx context.Context, userID primitive.ObjectID) (float64, error) {
	cart, err := s.persist.Load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.SubtotalOf(ctx, cart)
}

// SubtotalOf prices an already-loaded cart.
func (s *Store) SubtotalOf(ctx context.Context, cart models.Cart) (float64, error) {
	total := 0.0
	for _, line := range cart.Lines {
		product, err := s.catalog.Product(ctx, line.ProductID)
		if err != nil {
			return 0, fmt.Errorf("pricing line %s: %w", line.ProductID.Hex(), err)
		}
		total += product.Price * float64(line.Quantity)
	}
	return total, nil
}
