package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"modehaus/models"
	"modehaus/orders"
)

// AdminController exposes the order review queue and its two terminal actions
type AdminController struct {
	Orders *orders.Service
}

// NewAdminController creates a new AdminController
func NewAdminController(service *orders.Service) *AdminController {
	return &AdminController{Orders: service}
}

// ReviewQueue lists every order awaiting action, newest first
func (ac *AdminController) ReviewQueue(w http.ResponseWriter, r *http.Request) {
	actor, _, ok := currentActor(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	queue, err := ac.Orders.PendingReview(ctx, actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if queue == nil {
		queue = []models.Order{}
	}

	writeJSON(w, http.StatusOK, queue)
}

// StreamReviewQueue serves the review queue as server-sent events, pushing a
// fresh snapshot whenever any order changes.
func (ac *AdminController) StreamReviewQueue(w http.ResponseWriter, r *http.Request) {
	actor, _, ok := currentActor(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	updates, err := ac.Orders.WatchPendingReview(r.Context(), actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	for queue := range updates {
		payload, err := json.Marshal(queue)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}
}

// CompleteOrder marks a reviewed payment as verified
func (ac *AdminController) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	ac.advance(w, r, models.StatusCompleted)
}

// RejectOrder marks a reviewed payment as rejected
func (ac *AdminController) RejectOrder(w http.ResponseWriter, r *http.Request) {
	ac.advance(w, r, models.StatusRejected)
}

func (ac *AdminController) advance(w http.ResponseWriter, r *http.Request, target models.PaymentStatus) {
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
	if err := ac.Orders.AdvanceStatus(ctx, orderID, target, actor, ""); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"order_id":       orderID.Hex(),
		"payment_status": string(target),
	})
}
