package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"modehaus/cart"
	"modehaus/models"
)

// CartController handles cart-related requests
type CartController struct {
	Cart *cart.Store
}

// NewCartController creates a new CartController
func NewCartController(store *cart.Store) *CartController {
	return &CartController{Cart: store}
}

type cartView struct {
	Lines    []models.CartLine `json:"lines"`
	Subtotal float64           `json:"subtotal"`
}

// AddToCart adds a product variant to the user's cart
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	actor, _, ok := currentActor(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var line models.CartLine
	err := json.NewDecoder(r.Body).Decode(&line)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if line.Quantity == 0 {
		line.Quantity = 1
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := cc.Cart.AddItem(ctx, actor.UserID, line); err != nil {
		writeDomainError(w, err)
		return
	}

	cc.respondWithCart(w, r, actor.UserID)
}

// GetCart retrieves the user's cart with the current subtotal
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	actor, _, ok := currentActor(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	cc.respondWithCart(w, r, actor.UserID)
}

// UpdateQuantity sets the quantity of a cart line; zero removes it
func (cc *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	actor, _, ok := currentActor(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		ProductID primitive.ObjectID `json:"product_id"`
		Quantity  int                `json:"quantity"`
		Size      string             `json:"size"`
		Color     string             `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := cc.Cart.SetQuantity(ctx, actor.UserID, payload.ProductID, payload.Size, payload.Color, payload.Quantity); err != nil {
		writeDomainError(w, err)
		return
	}

	cc.respondWithCart(w, r, actor.UserID)
}

// RemoveFromCart removes a product variant from the user's cart
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	actor, _, ok := currentActor(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	params := mux.Vars(r)
	productID, err := primitive.ObjectIDFromHex(params["product_id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}
	query := r.URL.Query()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := cc.Cart.RemoveItem(ctx, actor.UserID, productID, query.Get("size"), query.Get("color")); err != nil {
		writeDomainError(w, err)
		return
	}

	cc.respondWithCart(w, r, actor.UserID)
}

// ClearCart empties the user's cart
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	actor, _, ok := currentActor(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := cc.Cart.Clear(ctx, actor.UserID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cartView{Lines: []models.CartLine{}})
}

func (cc *CartController) respondWithCart(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userCart, err := cc.Cart.Get(ctx, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	subtotal, err := cc.Cart.SubtotalOf(ctx, userCart)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	lines := userCart.Lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	writeJSON(w, http.StatusOK, cartView{Lines: lines, Subtotal: subtotal})
}
