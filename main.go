// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"modehaus/cart"
	"modehaus/catalog"
	"modehaus/checkout"
	"modehaus/controllers"
	"modehaus/events"
	"modehaus/models"
	"modehaus/orders"
	"modehaus/receipts"
	"modehaus/routes"
	"modehaus/utils"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	db := client.Database("modehaus")
	usersColl := db.Collection("users")
	productsColl := db.Collection("products")
	cartsColl := db.Collection("carts")
	ordersColl := db.Collection("orders")

	// Domain wiring
	productCatalog := catalog.NewMongo(productsColl)
	cartStore := cart.NewStore(cart.NewMongoPersister(cartsColl), productCatalog)
	orderRepo := orders.NewMongoRepository(ordersColl)

	bus := events.NewBus()
	userLookup := func(ctx context.Context, id primitive.ObjectID) (models.User, error) {
		var user models.User
		err := usersColl.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
		return user, err
	}
	bus.Subscribe(events.NewNotifier(userLookup, emailService).Handle)

	orderService := orders.NewService(orderRepo, bus)
	assembler := checkout.NewAssembler(cartStore, productCatalog, orderRepo)

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads/receipts"
	}
	receiptStore := receipts.NewStore(uploadDir)

	// Initialize controllers
	c := routes.Controllers{
		Users:     controllers.NewUserController(usersColl, emailService),
		Products:  controllers.NewProductController(productCatalog),
		Favorites: controllers.NewFavoritesController(usersColl, productCatalog),
		Cart:      controllers.NewCartController(cartStore),
		Orders:    controllers.NewOrderController(assembler, orderService, receiptStore),
		Admin:     controllers.NewAdminController(orderService),
	}

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, c)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
