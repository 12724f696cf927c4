package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/m2tx/kinchat/internal/model"
)

// MongoExchangeRepository implements ExchangeRepository using MongoDB.
type MongoExchangeRepository struct {
	collection *mongo.Collection
}

// NewMongoExchangeRepository creates a new MongoExchangeRepository.
// collectionName defaults to "exchanges" if empty.
func NewMongoExchangeRepository(db *mongo.Database, collectionName string) *MongoExchangeRepository {
	if collectionName == "" {
		collectionName = "exchanges"
	}
	return &MongoExchangeRepository{
		collection: db.Collection(collectionName),
	}
}

func (r *MongoExchangeRepository) Record(ctx context.Context, exchange model.Exchange) error {
	_, err := r.collection.InsertOne(ctx, exchange)
	if err != nil {
		return fmt.Errorf("repository: insert exchange %q: %w", exchange.ID, err)
	}

	return nil
}

func (r *MongoExchangeRepository) Recent(ctx context.Context, limit int) ([]model.Exchange, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("repository: find exchanges: %w", err)
	}
	defer cursor.Close(ctx)

	exchanges := []model.Exchange{}
	if err := cursor.All(ctx, &exchanges); err != nil {
		return nil, fmt.Errorf("repository: decode exchanges: %w", err)
	}

	return exchanges, nil
}
