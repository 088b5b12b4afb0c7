// Package catalog exposes the read-only product list the storefront sells
// from, plus the admin-only mutations behind it.
package catalog

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"modehaus/models"
)

// ErrNotFound is returned when no product exists for the given id.
var ErrNotFound = errors.New("catalog: product not found")

// Mongo reads and writes products in a MongoDB collection.
type Mongo struct {
	coll *mongo.Collection
}

// NewMongo creates a catalog over the given products collection.
func NewMongo(coll *mongo.Collection) *Mongo {
	return &Mongo{coll: coll}
}

// Product returns a single product by id.
func (c *Mongo) Product(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var product models.Product
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// List returns all products.
func (c *Mongo) List(ctx context.Context) ([]models.Product, error) {
	cursor, err := c.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts a new product and returns its id.
func (c *Mongo) Create(ctx context.Context, product models.Product) (primitive.ObjectID, error) {
	result, err := c.coll.InsertOne(ctx, product)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// Update replaces the mutable fields of an existing product.
func (c *Mongo) Update(ctx context.Context, id primitive.ObjectID, product models.Product) error {
	result, err := c.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":      product.Name,
		"price":     product.Price,
		"sizes":     product.Sizes,
		"colors":    product.Colors,
		"image_url": product.ImageURL,
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a product.
func (c *Mongo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
