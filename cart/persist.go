package cart

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"modehaus/models"
)

// MongoPersister stores carts in a MongoDB collection, one document per user.
type MongoPersister struct {
	coll *mongo.Collection
}

// NewMongoPersister creates a persister over the given carts collection.
func NewMongoPersister(coll *mongo.Collection) *MongoPersister {
	return &MongoPersister{coll: coll}
}

// Load returns the user's cart, or an empty cart if none exists yet.
func (p *MongoPersister) Load(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	var cart models.Cart
	err := p.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Cart{UserID: userID}, nil
	}
	if err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}

// Save replaces the user's cart document, creating it if necessary.
func (p *MongoPersister) Save(ctx context.Context, cart models.Cart) error {
	filter := bson.M{"user_id": cart.UserID}
	update := bson.M{"$set": bson.M{"user_id": cart.UserID, "lines": cart.Lines}}
	_, err := p.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// MemoryPersister keeps carts in memory. Used in tests and local development.
type MemoryPersister struct {
	mu    sync.Mutex
	carts map[primitive.ObjectID]models.Cart
}

// NewMemoryPersister creates an empty in-memory persister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{carts: make(map[primitive.ObjectID]models.Cart)}
}

func (p *MemoryPersister) Load(_ context.Context, userID primitive.ObjectID) (models.Cart, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cart, ok := p.carts[userID]
	if !ok {
		return models.Cart{UserID: userID}, nil
	}
	cart.Lines = append([]models.CartLine(nil), cart.Lines...)
	return cart, nil
}

func (p *MemoryPersister) Save(_ context.Context, cart models.Cart) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	cart.Lines = append([]models.CartLine(nil), cart.Lines...)
	p.carts[cart.UserID] = cart
	return nil
}
