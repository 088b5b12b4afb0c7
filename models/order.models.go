package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentStatus tracks manual-payment review progress on an order.
type PaymentStatus string

const (
	StatusPending    PaymentStatus = "pending"
	StatusProcessing PaymentStatus = "processing"
	StatusCompleted  PaymentStatus = "completed"
	StatusRejected   PaymentStatus = "rejected"
)

// Valid reports whether s is one of the four known statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s PaymentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// CanAdvanceTo reports whether the transition s -> t is allowed. Statuses only
// ever move forward: pending -> processing -> completed|rejected, plus the
// admin shortcut pending -> rejected for orders that never received a receipt.
func (s PaymentStatus) CanAdvanceTo(t PaymentStatus) bool {
	switch s {
	case StatusPending:
		return t == StatusProcessing || t == StatusRejected
	case StatusProcessing:
		return t == StatusCompleted || t == StatusRejected
	}
	return false
}

// ShippingInfo is captured once at checkout and immutable afterwards.
type ShippingInfo struct {
	Name    string `bson:"name" json:"name" validate:"required"`
	Email   string `bson:"email" json:"email" validate:"required,email"`
	Address string `bson:"address" json:"address" validate:"required"`
	City    string `bson:"city" json:"city" validate:"required"`
	Zip     string `bson:"zip" json:"zip" validate:"required"`
	Country string `bson:"country" json:"country" validate:"required"`
}

// OrderItem is a cart line frozen at submission time. Name and unit price are
// copied from the catalog so later catalog changes never affect placed orders.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Name      LocalizedText      `bson:"name" json:"name"`
	UnitPrice float64            `bson:"unit_price" json:"unit_price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Size      string             `bson:"size,omitempty" json:"size,omitempty"`
	Color     string             `bson:"color,omitempty" json:"color,omitempty"`
}

// Order represents a user's order
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	ClientRef       string             `bson:"client_ref,omitempty" json:"client_ref,omitempty"`
	ShippingInfo    ShippingInfo       `bson:"shipping_info" json:"shipping_info"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
	Shipping        float64            `bson:"shipping" json:"shipping"`
	Taxes           float64            `bson:"taxes" json:"taxes"`
	TotalAmount     float64            `bson:"total_amount" json:"total_amount"`
	OrderDate       time.Time          `bson:"order_date" json:"order_date"`
	PaymentStatus   PaymentStatus      `bson:"payment_status" json:"payment_status"`
	ReceiptImageURL string             `bson:"receipt_image_url,omitempty" json:"receipt_image_url,omitempty"`
}
