// Package checkout turns the current cart plus shipping details into a
// persisted order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"modehaus/models"
)

// Canonical pricing policy: orders strictly above the threshold ship free,
// everything else pays the flat fee; tax is a flat share of the subtotal.
const (
	FreeShippingThreshold = 100.00
	FlatShippingFee       = 10.00
	TaxRate               = 0.20
)

var (
	ErrUnauthenticated = errors.New("checkout: user is not authenticated")
	ErrEmptyCart       = errors.New("checkout: cart is empty")
)

// SubmissionError wraps a storage rejection together with the order payload
// that was refused, for diagnostic surfacing.
type SubmissionError struct {
	Order models.Order
	Err   error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("checkout: order submission for user %s rejected: %v", e.Order.UserID.Hex(), e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Catalog resolves cart lines to products at submission time.
type Catalog interface {
	Product(ctx context.Context, id primitive.ObjectID) (models.Product, error)
}

// Carts is the slice of the cart store the assembler needs.
type Carts interface {
	Get(ctx context.Context, userID primitive.ObjectID) (models.Cart, error)
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

// Orders persists assembled orders.
type Orders interface {
	Insert(ctx context.Context, order models.Order) (primitive.ObjectID, error)
	ByClientRef(ctx context.Context, userID primitive.ObjectID, ref string) (models.Order, bool, error)
}

// Assembler converts carts into orders, exactly once per checkout attempt.
type Assembler struct {
	carts    Carts
	catalog  Catalog
	orders   Orders
	validate *validator.Validate
	now      func() time.Time
}

// NewAssembler wires an assembler over the given collaborators.
func NewAssembler(carts Carts, catalog Catalog, orders Orders) *Assembler {
	return &Assembler{
		carts:    carts,
		catalog:  catalog,
		orders:   orders,
		validate: validator.New(),
		now:      time.Now,
	}
}

// SubmitOrder snapshots the user's cart into a new pending order.
//
// Item names and unit prices are frozen from the catalog at this moment, so
// later catalog changes never affect the placed order. On success the cart is
// cleared and the new order id returned. When clientRef is non-empty, a
// resubmission with the same reference returns the already-created order
// instead of inserting a duplicate.
func (a *Assembler) SubmitOrder(ctx context.Context, userID primitive.ObjectID, shipping models.ShippingInfo, clientRef string) (primitive.ObjectID, error) {
	if userID.IsZero() {
		return primitive.NilObjectID, ErrUnauthenticated
	}
	if err := a.validate.Struct(shipping); err != nil {
		return primitive.NilObjectID, fmt.Errorf("checkout: invalid shipping info: %w", err)
	}

	if clientRef != "" {
		existing, found, err := a.orders.ByClientRef(ctx, userID, clientRef)
		if err != nil {
			return primitive.NilObjectID, err
		}
		if found {
			return existing.ID, nil
		}
	}

	cart, err := a.carts.Get(ctx, userID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if len(cart.Lines) == 0 {
		return primitive.NilObjectID, ErrEmptyCart
	}

	items := make([]models.OrderItem, 0, len(cart.Lines))
	subtotal := 0.0
	for _, line := range cart.Lines {
		product, err := a.catalog.Product(ctx, line.ProductID)
		if err != nil {
			return primitive.NilObjectID, fmt.Errorf("checkout: resolving product %s: %w", line.ProductID.Hex(), err)
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
			Size:      line.Size,
			Color:     line.Color,
		})
		subtotal += product.Price * float64(line.Quantity)
	}
	subtotal = round2(subtotal)

	shippingFee, taxes, total := Price(subtotal)
	order := models.Order{
		UserID:        userID,
		ClientRef:     clientRef,
		ShippingInfo:  shipping,
		Items:         items,
		Subtotal:      subtotal,
		Shipping:      shippingFee,
		Taxes:         taxes,
		TotalAmount:   total,
		OrderDate:     a.now().UTC(),
		PaymentStatus: models.StatusPending,
	}

	id, err := a.orders.Insert(ctx, order)
	if err != nil {
		// The cart is left untouched so the user can retry.
		return primitive.NilObjectID, &SubmissionError{Order: order, Err: err}
	}

	if err := a.carts.Clear(ctx, userID); err != nil {
		log.Printf("checkout: failed to clear cart for user %s: %v", userID.Hex(), err)
	}
	return id, nil
}

// Price computes shipping fee, taxes and total for a subtotal.
func Price(subtotal float64) (shipping, taxes, total float64) {
	shipping = FlatShippingFee
	if subtotal > FreeShippingThreshold {
		shipping = 0
	}
	taxes = round2(subtotal * TaxRate)
	total = round2(subtotal + shipping + taxes)
	return shipping, taxes, total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
