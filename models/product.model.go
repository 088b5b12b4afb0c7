package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocalizedText holds the three storefront translations of a text field.
type LocalizedText struct {
	De string `bson:"de" json:"de"`
	Fr string `bson:"fr" json:"fr"`
	En string `bson:"en" json:"en"`
}

// In returns the translation for the given locale, falling back to German.
func (t LocalizedText) In(locale string) string {
	switch locale {
	case "fr":
		return t.Fr
	case "en":
		return t.En
	default:
		return t.De
	}
}

// Product represents a catalog entry
type Product struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     LocalizedText      `bson:"name" json:"name"`
	Price    float64            `bson:"price" json:"price"`
	Sizes    []string           `bson:"sizes,omitempty" json:"sizes,omitempty"`
	Colors   []string           `bson:"colors,omitempty" json:"colors,omitempty"`
	ImageURL string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
}
