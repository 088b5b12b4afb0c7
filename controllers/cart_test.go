package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"modehaus/cart"
	"modehaus/catalog"
	"modehaus/middleware"
	"modehaus/models"
	"modehaus/utils"
)

type staticCatalog map[primitive.ObjectID]models.Product

func (c staticCatalog) Product(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	p, ok := c[id]
	if !ok {
		return models.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func authedRequest(t *testing.T, method, target, body string, userID primitive.ObjectID) *http.Request {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	claims := &utils.Claims{UserID: userID.Hex(), Email: "anna@example.ch"}
	return r.WithContext(context.WithValue(r.Context(), middleware.UserContextKey, claims))
}

func TestAddToCartMergesAndPricesLines(t *testing.T) {
	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	store := cart.NewStore(cart.NewMemoryPersister(), staticCatalog{
		productID: {ID: productID, Price: 49.90},
	})
	cc := NewCartController(store)

	body := `{"product_id":"` + productID.Hex() + `","quantity":1,"size":"M"}`
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		cc.AddToCart(w, authedRequest(t, "POST", "/cart", body, userID))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	cc.GetCart(w, authedRequest(t, "GET", "/cart", "", userID))
	require.Equal(t, http.StatusOK, w.Code)

	var view cartView
	require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.InDelta(t, 99.80, view.Subtotal, 0.01)
}

func TestAddToCartRejectsNegativeQuantity(t *testing.T) {
	userID := primitive.NewObjectID()
	store := cart.NewStore(cart.NewMemoryPersister(), staticCatalog{})
	cc := NewCartController(store)

	body := `{"product_id":"` + primitive.NewObjectID().Hex() + `","quantity":-2}`
	w := httptest.NewRecorder()
	cc.AddToCart(w, authedRequest(t, "POST", "/cart", body, userID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartEndpointsRequireAuth(t *testing.T) {
	store := cart.NewStore(cart.NewMemoryPersister(), staticCatalog{})
	cc := NewCartController(store)

	w := httptest.NewRecorder()
	cc.GetCart(w, httptest.NewRequest("GET", "/cart", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestClearCartEmptiesLines(t *testing.T) {
	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	store := cart.NewStore(cart.NewMemoryPersister(), staticCatalog{
		productID: {ID: productID, Price: 10},
	})
	cc := NewCartController(store)

	body := `{"product_id":"` + productID.Hex() + `","quantity":3}`
	w := httptest.NewRecorder()
	cc.AddToCart(w, authedRequest(t, "POST", "/cart", body, userID))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	cc.ClearCart(w, authedRequest(t, "DELETE", "/cart", "", userID))
	require.Equal(t, http.StatusOK, w.Code)

	var view cartView
	require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
	assert.Empty(t, view.Lines)
}
