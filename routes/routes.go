// routes/routes.go
package routes

import (
	"github.com/gorilla/mux"

	"modehaus/controllers"
	"modehaus/middleware"
)

// Controllers bundles everything RegisterRoutes wires up.
type Controllers struct {
	Users     *controllers.UserController
	Products  *controllers.ProductController
	Favorites *controllers.FavoritesController
	Cart      *controllers.CartController
	Orders    *controllers.OrderController
	Admin     *controllers.AdminController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers) {
	// Public routes
	router.HandleFunc("/register", c.Users.Register).Methods("POST")
	router.HandleFunc("/login", c.Users.Login).Methods("POST")
	router.HandleFunc("/verify", c.Users.VerifyEmail).Methods("GET")

	// Catalog (public, localized via ?lang= or Accept-Language)
	router.HandleFunc("/products", c.Products.GetProducts).Methods("GET")
	router.HandleFunc("/products/{id}", c.Products.GetProductByID).Methods("GET")

	// Authenticated routes
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/profile", c.Users.GetProfile).Methods("GET")
	protected.HandleFunc("/profile/locale", c.Users.UpdateLocale).Methods("PUT")

	protected.HandleFunc("/favorites", c.Favorites.ListFavorites).Methods("GET")
	protected.HandleFunc("/favorites/{product_id}", c.Favorites.AddFavorite).Methods("PUT")
	protected.HandleFunc("/favorites/{product_id}", c.Favorites.RemoveFavorite).Methods("DELETE")

	protected.HandleFunc("/cart", c.Cart.GetCart).Methods("GET")
	protected.HandleFunc("/cart", c.Cart.AddToCart).Methods("POST")
	protected.HandleFunc("/cart", c.Cart.UpdateQuantity).Methods("PUT")
	protected.HandleFunc("/cart", c.Cart.ClearCart).Methods("DELETE")
	protected.HandleFunc("/cart/{product_id}", c.Cart.RemoveFromCart).Methods("DELETE")

	protected.HandleFunc("/checkout", c.Orders.Checkout).Methods("POST")
	protected.HandleFunc("/orders", c.Orders.GetOrders).Methods("GET")
	protected.HandleFunc("/orders/{id}", c.Orders.GetOrder).Methods("GET")
	protected.HandleFunc("/orders/{id}/receipt", c.Orders.UploadReceipt).Methods("POST")
	protected.HandleFunc("/orders/{id}/payment-sent", c.Orders.ConfirmPaymentSent).Methods("POST")

	// Admin product management
	adminProducts := router.PathPrefix("/products").Subrouter()
	adminProducts.Use(middleware.AuthMiddleware)
	adminProducts.Use(middleware.AdminMiddleware)
	adminProducts.HandleFunc("", c.Products.CreateProduct).Methods("POST")
	adminProducts.HandleFunc("/{id}", c.Products.UpdateProduct).Methods("PUT")
	adminProducts.HandleFunc("/{id}", c.Products.DeleteProduct).Methods("DELETE")

	// Admin order review
	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("/orders", c.Admin.ReviewQueue).Methods("GET")
	admin.HandleFunc("/orders/stream", c.Admin.StreamReviewQueue).Methods("GET")
	admin.HandleFunc("/orders/{id}/complete", c.Admin.CompleteOrder).Methods("POST")
	admin.HandleFunc("/orders/{id}/reject", c.Admin.RejectOrder).Methods("POST")
}
