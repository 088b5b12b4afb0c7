package orders

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"modehaus/models"
)

// MongoRepository persists orders in a MongoDB collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository creates a repository over the given orders collection.
func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

func (r *MongoRepository) Insert(ctx context.Context, order models.Order) (primitive.ObjectID, error) {
	result, err := r.coll.InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *MongoRepository) Get(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	var order models.Order
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// ByClientRef looks up an order by the client-supplied checkout reference.
// Used by the assembler to make resubmission idempotent.
func (r *MongoRepository) ByClientRef(ctx context.Context, userID primitive.ObjectID, ref string) (models.Order, bool, error) {
	var order models.Order
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID, "client_ref": ref}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, false, nil
	}
	if err != nil {
		return models.Order{}, false, err
	}
	return order, true, nil
}

func (r *MongoRepository) ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *MongoRepository) PendingReview(ctx context.Context) ([]models.Order, error) {
	filter := bson.M{"payment_status": bson.M{"$in": bson.A{models.StatusPending, models.StatusProcessing}}}
	return r.find(ctx, filter)
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order_date", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AdvanceStatus updates payment_status only when the stored status still
// equals from, so concurrent advances cannot overwrite each other.
func (r *MongoRepository) AdvanceStatus(ctx context.Context, id primitive.ObjectID, from, to models.PaymentStatus, receiptURL string) (bool, error) {
	set := bson.M{"payment_status": to}
	if receiptURL != "" {
		set["receipt_image_url"] = receiptURL
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id, "payment_status": from}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// WatchPendingReview opens a change stream on the orders collection and
// re-queries the review queue whenever anything changes. The channel closes
// when ctx is cancelled or the stream ends.
func (r *MongoRepository) WatchPendingReview(ctx context.Context) (<-chan []models.Order, error) {
	stream, err := r.coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, err
	}

	ch := make(chan []models.Order, 1)
	go func() {
		defer close(ch)
		defer stream.Close(context.Background())

		emit := func() bool {
			queue, err := r.PendingReview(ctx)
			if err != nil {
				log.Printf("orders: refreshing review queue: %v", err)
				return true
			}
			select {
			case ch <- queue:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for stream.Next(ctx) {
			if !emit() {
				return
			}
		}
	}()
	return ch, nil
}
