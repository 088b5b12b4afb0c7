package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"modehaus/cart"
	"modehaus/catalog"
	"modehaus/checkout"
	"modehaus/middleware"
	"modehaus/orders"
	"modehaus/receipts"
	"modehaus/utils"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// currentActor extracts the authenticated identity from the request context.
func currentActor(r *http.Request) (orders.Actor, *utils.Claims, bool) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		return orders.Actor{}, nil, false
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return orders.Actor{}, nil, false
	}
	return orders.Actor{UserID: userID, Admin: claims.IsAdmin}, claims, true
}

// writeDomainError maps domain errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	var submissionErr *checkout.SubmissionError

	switch {
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, orders.ErrIllegalTransition),
		errors.Is(err, receipts.ErrBadType),
		errors.As(err, &validationErrs):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, receipts.ErrTooLarge):
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, checkout.ErrUnauthenticated):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, orders.ErrPermissionDenied):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, orders.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, orders.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &submissionErr):
		// keep the rejected payload in the server log for diagnostics
		log.Printf("order submission rejected: user=%s total=%.2f items=%d: %v",
			submissionErr.Order.UserID.Hex(), submissionErr.Order.TotalAmount,
			len(submissionErr.Order.Items), submissionErr.Err)
		http.Error(w, "Failed to create order", http.StatusInternalServerError)
	default:
		log.Printf("internal error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
