package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"modehaus/catalog"
	"modehaus/models"
	"modehaus/utils"
)

// FavoritesController manages the user's saved products
type FavoritesController struct {
	Users   *mongo.Collection
	Catalog *catalog.Mongo
}

// NewFavoritesController creates a new FavoritesController
func NewFavoritesController(users *mongo.Collection, c *catalog.Mongo) *FavoritesController {
	return &FavoritesController{Users: users, Catalog: c}
}

// AddFavorite saves a product to the user's favorites
func (fc *FavoritesController) AddFavorite(w http.ResponseWriter, r *http.Request) {
	fc.update(w, r, "$addToSet")
}

// RemoveFavorite removes a product from the user's favorites
func (fc *FavoritesController) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	fc.update(w, r, "$pull")
}

func (fc *FavoritesController) update(w http.ResponseWriter, r *http.Request, op string) {
	actor, _, ok := currentActor(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	productID, err := primitive.ObjectIDFromHex(mux.Vars(r)["product_id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if op == "$addToSet" {
		// only existing products can be saved
		if _, err := fc.Catalog.Product(ctx, productID); err != nil {
			writeDomainError(w, err)
			return
		}
	}

	_, err = fc.Users.UpdateOne(ctx, bson.M{"_id": actor.UserID}, bson.M{op: bson.M{"favorites": productID}})
	if err != nil {
		http.Error(w, "Error updating favorites", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListFavorites returns the user's saved products, localized
func (fc *FavoritesController) ListFavorites(w http.ResponseWriter, r *http.Request) {
	actor, _, ok := currentActor(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := fc.Users.FindOne(ctx, bson.M{"_id": actor.UserID}).Decode(&user); err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	locale := utils.PickLocale(r)
	views := make([]productView, 0, len(user.Favorites))
	for _, id := range user.Favorites {
		product, err := fc.Catalog.Product(ctx, id)
		if err != nil {
			// favorited products can be deleted from the catalog later
			continue
		}
		views = append(views, toView(product, locale))
	}

	writeJSON(w, http.StatusOK, views)
}
