package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user in the system
type User struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name              string               `bson:"name" json:"name"`
	Email             string               `bson:"email" json:"email"`
	Password          string               `bson:"password,omitempty" json:"-"`
	Locale            string               `bson:"locale" json:"locale"` // "de", "fr" or "en"
	IsAdmin           bool                 `bson:"is_admin" json:"is_admin"`
	IsVerified        bool                 `bson:"is_verified" json:"is_verified"`
	VerificationToken string               `bson:"verification_token" json:"-"`
	Favorites         []primitive.ObjectID `bson:"favorites,omitempty" json:"favorites,omitempty"`
}
