// controllers/order.go
package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"modehaus/checkout"
	"modehaus/models"
	"modehaus/orders"
	"modehaus/receipts"
)

// OrderController handles checkout and the customer's own orders
type OrderController struct {
	Assembler *checkout.Assembler
	Orders    *orders.Service
	Receipts  *receipts.Store
}

// NewOrderController creates a new OrderController
func NewOrderController(assembler *checkout.Assembler, service *orders.Service, receiptStore *receipts.Store) *OrderController {
	return &OrderController{
		Assembler: assembler,
		Orders:    service,
		Receipts:  receiptStore,
	}
}

// Checkout creates a new order from the user's cart
func (oc *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	actor, _, ok := currentActor(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		models.ShippingInfo
		ClientRef string `json:"client_ref"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	orderID, err := oc.Assembler.SubmitOrder(ctx, actor.UserID, payload.ShippingInfo, payload.ClientRef)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"order_id": orderID,
		"message":  "Order created. Please transfer the total amount and upload your payment receipt.",
	})
}

// GetOrders retrieves all orders for the authenticated user, newest first
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	actor, _, ok := currentActor(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	userOrders, err := oc.Orders.ByUser(ctx, actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if userOrders == nil {
		userOrders = []models.Order{}
	}

	writeJSON(w, http.StatusOK, userOrders)
}

// GetOrder retrieves a single order, readable by its owner or an admin
func (oc *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	actor, _, ok := currentActor(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	order, err := oc.Orders.Get(ctx, orderID, actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// UploadReceipt stores a payment proof and moves the order to processing
func (oc *OrderController) UploadReceipt(w http.ResponseWriter, r *http.Request) {
	actor, _, ok := currentActor(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(receipts.MaxSize); err != nil {
		http.Error(w, "Failed to parse multipart form", http.StatusBadRequest)
		return
	}
	file, handler, err := r.FormFile("receipt")
	if err != nil {
		http.Error(w, "Failed to retrieve file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := oc.Receipts.Save(actor.UserID.Hex(), file, handler.Size)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	if err := oc.Orders.AdvanceStatus(ctx, orderID, models.StatusProcessing, actor, url); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"receipt_image_url": url,
		"message":           "Receipt received. Your order is now being reviewed.",
	})
}

// ConfirmPaymentSent moves the order to processing without a receipt upload
func (oc *OrderController) ConfirmPaymentSent(w http.ResponseWriter, r *http.Request) {
	actor, _, ok := currentActor(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	if err := oc.Orders.AdvanceStatus(ctx, orderID, models.StatusProcessing, actor, ""); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Payment confirmation received. Your order is now being reviewed."})
}
