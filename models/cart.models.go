package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine represents one item selection in the cart. Lines are unique per
// (product, size, color); adding the same combination again merges quantities.
type CartLine struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Size      string             `bson:"size,omitempty" json:"size,omitempty"`
	Color     string             `bson:"color,omitempty" json:"color,omitempty"`
}

// SameVariant reports whether two lines refer to the same product variant.
func (l CartLine) SameVariant(o CartLine) bool {
	return l.ProductID == o.ProductID && l.Size == o.Size && l.Color == o.Color
}

// Cart represents a user's shopping cart
type Cart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Lines  []CartLine         `bson:"lines" json:"lines"`
}
