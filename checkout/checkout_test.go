package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"modehaus/models"
)

type fakeCatalog struct {
	products map[primitive.ObjectID]models.Product
}

func (c *fakeCatalog) Product(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return models.Product{}, errors.New("not found")
	}
	return p, nil
}

type fakeCarts struct {
	carts   map[primitive.ObjectID]models.Cart
	cleared int
}

func (c *fakeCarts) Get(_ context.Context, userID primitive.ObjectID) (models.Cart, error) {
	return c.carts[userID], nil
}

func (c *fakeCarts) Clear(_ context.Context, userID primitive.ObjectID) error {
	cart := c.carts[userID]
	cart.Lines = nil
	c.carts[userID] = cart
	c.cleared++
	return nil
}

type fakeOrders struct {
	inserted []models.Order
	failWith error
	byRef    map[string]models.Order
	nextID   primitive.ObjectID
}

func (o *fakeOrders) Insert(_ context.Context, order models.Order) (primitive.ObjectID, error) {
	if o.failWith != nil {
		return primitive.NilObjectID, o.failWith
	}
	if o.nextID.IsZero() {
		o.nextID = primitive.NewObjectID()
	}
	order.ID = o.nextID
	o.inserted = append(o.inserted, order)
	if order.ClientRef != "" {
		if o.byRef == nil {
			o.byRef = make(map[string]models.Order)
		}
		o.byRef[order.ClientRef] = order
	}
	return order.ID, nil
}

func (o *fakeOrders) ByClientRef(_ context.Context, _ primitive.ObjectID, ref string) (models.Order, bool, error) {
	order, ok := o.byRef[ref]
	return order, ok, nil
}

func validShipping() models.ShippingInfo {
	return models.ShippingInfo{
		Name:    "Anna Muster",
		Email:   "anna@example.ch",
		Address: "Bahnhofstrasse 1",
		City:    "Zürich",
		Zip:     "8001",
		Country: "CH",
	}
}

type fixture struct {
	assembler *Assembler
	carts     *fakeCarts
	orders    *fakeOrders
	userID    primitive.ObjectID
}

// two products at 50.00 and 30.00; cart holds 2x the first, 1x the second
func newFixture() *fixture {
	userID := primitive.NewObjectID()
	shirt := primitive.NewObjectID()
	scarf := primitive.NewObjectID()

	catalog := &fakeCatalog{products: map[primitive.ObjectID]models.Product{
		shirt: {ID: shirt, Name: models.LocalizedText{De: "Hemd", Fr: "Chemise", En: "Shirt"}, Price: 50.00},
		scarf: {ID: scarf, Name: models.LocalizedText{De: "Schal", Fr: "Écharpe", En: "Scarf"}, Price: 30.00},
	}}
	carts := &fakeCarts{carts: map[primitive.ObjectID]models.Cart{
		userID: {UserID: userID, Lines: []models.CartLine{
			{ProductID: shirt, Quantity: 2, Size: "M"},
			{ProductID: scarf, Quantity: 1},
		}},
	}}
	orders := &fakeOrders{}

	return &fixture{
		assembler: NewAssembler(carts, catalog, orders),
		carts:     carts,
		orders:    orders,
		userID:    userID,
	}
}

func TestSubmitOrderEndToEnd(t *testing.T) {
	f := newFixture()

	id, err := f.assembler.SubmitOrder(context.Background(), f.userID, validShipping(), "")
	require.NoError(t, err)
	assert.False(t, id.IsZero())

	require.Len(t, f.orders.inserted, 1)
	order := f.orders.inserted[0]

	assert.InDelta(t, 130.00, order.Subtotal, 0.01)
	assert.InDelta(t, 0.00, order.Shipping, 0.01) // above the free-shipping threshold
	assert.InDelta(t, 26.00, order.Taxes, 0.01)
	assert.InDelta(t, 156.00, order.TotalAmount, 0.01)
	assert.Equal(t, models.StatusPending, order.PaymentStatus)
	assert.Empty(t, order.ReceiptImageURL)
	assert.Equal(t, f.userID, order.UserID)
	assert.False(t, order.OrderDate.IsZero())

	require.Len(t, order.Items, 2)
	assert.Equal(t, "Hemd", order.Items[0].Name.De)
	assert.InDelta(t, 50.00, order.Items[0].UnitPrice, 0.01)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "M", order.Items[0].Size)

	// the cart is cleared on success
	cart, _ := f.carts.Get(context.Background(), f.userID)
	assert.Empty(t, cart.Lines)
}

func TestTotalInvariant(t *testing.T) {
	for _, subtotal := range []float64{0.01, 42.50, 99.99, 100.00, 100.01, 130.00, 999.95} {
		shipping, taxes, total := Price(subtotal)
		assert.InDeltaf(t, subtotal+shipping+taxes, total, 0.01, "subtotal %.2f", subtotal)
	}
}

func TestFreeShippingThresholdIsExclusive(t *testing.T) {
	shipping, _, _ := Price(100.00)
	assert.InDelta(t, FlatShippingFee, shipping, 0.001, "exactly 100.00 still pays shipping")

	shipping, _, _ = Price(100.01)
	assert.InDelta(t, 0.00, shipping, 0.001)
}

func TestEmptyCartSubmissionFails(t *testing.T) {
	f := newFixture()
	f.carts.carts[f.userID] = models.Cart{UserID: f.userID}

	_, err := f.assembler.SubmitOrder(context.Background(), f.userID, validShipping(), "")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.orders.inserted, "no order document may be created")
}

func TestUnauthenticatedSubmissionFails(t *testing.T) {
	f := newFixture()

	_, err := f.assembler.SubmitOrder(context.Background(), primitive.NilObjectID, validShipping(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestInvalidShippingInfoFails(t *testing.T) {
	f := newFixture()
	shipping := validShipping()
	shipping.Email = "not-an-email"

	_, err := f.assembler.SubmitOrder(context.Background(), f.userID, shipping, "")
	assert.Error(t, err)
	assert.Empty(t, f.orders.inserted)
}

func TestRejectedInsertLeavesCartUntouched(t *testing.T) {
	f := newFixture()
	f.orders.failWith = errors.New("permission denied")

	_, err := f.assembler.SubmitOrder(context.Background(), f.userID, validShipping(), "")

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, f.userID, subErr.Order.UserID, "the rejected payload is carried for diagnostics")
	assert.Len(t, subErr.Order.Items, 2)

	cart, _ := f.carts.Get(context.Background(), f.userID)
	assert.Len(t, cart.Lines, 2, "cart must survive a failed submission")
	assert.Zero(t, f.carts.cleared)
}

func TestSnapshotIsolationFromLaterPriceChanges(t *testing.T) {
	f := newFixture()

	_, err := f.assembler.SubmitOrder(context.Background(), f.userID, validShipping(), "")
	require.NoError(t, err)
	order := f.orders.inserted[0]

	// raise every catalog price after submission
	catalog := f.assembler.catalog.(*fakeCatalog)
	for id, p := range catalog.products {
		p.Price *= 2
		catalog.products[id] = p
	}

	assert.InDelta(t, 50.00, order.Items[0].UnitPrice, 0.01)
	assert.InDelta(t, 156.00, order.TotalAmount, 0.01)
}

func TestResubmissionWithClientRefIsIdempotent(t *testing.T) {
	f := newFixture()
	ref := "c2a9e6c1-checkout"

	first, err := f.assembler.SubmitOrder(context.Background(), f.userID, validShipping(), ref)
	require.NoError(t, err)

	// simulate a retry after the cart was already cleared
	second, err := f.assembler.SubmitOrder(context.Background(), f.userID, validShipping(), ref)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, f.orders.inserted, 1, "the retry must not create a second order")
}

func TestDoubleSubmissionWithoutRefCreatesTwoOrders(t *testing.T) {
	f := newFixture()

	_, err := f.assembler.SubmitOrder(context.Background(), f.userID, validShipping(), "")
	require.NoError(t, err)

	// refill the cart and submit again without a reference
	shirt := f.orders.inserted[0].Items[0].ProductID
	f.carts.carts[f.userID] = models.Cart{UserID: f.userID, Lines: []models.CartLine{{ProductID: shirt, Quantity: 1}}}

	_, err = f.assembler.SubmitOrder(context.Background(), f.userID, validShipping(), "")
	require.NoError(t, err)
	assert.Len(t, f.orders.inserted, 2)
}

func TestOrderDateIsServerAssignedUTC(t *testing.T) {
	f := newFixture()
	fixed := time.Date(2026, 3, 14, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	f.assembler.now = func() time.Time { return fixed }

	_, err := f.assembler.SubmitOrder(context.Background(), f.userID, validShipping(), "")
	require.NoError(t, err)

	order := f.orders.inserted[0]
	assert.Equal(t, fixed.UTC(), order.OrderDate)
	assert.Equal(t, time.UTC, order.OrderDate.Location())
}
