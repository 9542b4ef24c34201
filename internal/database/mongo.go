// internal/database/mongo.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/decorahub/ecommerce-backend/internal/config"
)

var mongoClient *mongo.Client

// InitializeMongo connects the analytics document store.
func InitializeMongo(cfg config.MongoConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(10).
		SetMinPoolSize(5).
		SetServerSelectionTimeout(10 * time.Second).
		SetRetryWrites(true)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	mongoClient = client
	log.Println("MongoDB connection established successfully")
	return client.Database(cfg.Database), nil
}

func CloseMongo() {
	if mongoClient == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := mongoClient.Disconnect(ctx); err != nil {
		log.Printf("Error closing mongodb connection: %v", err)
	} else {
		log.Println("MongoDB connection closed successfully")
	}
}

// PingMongo reports whether the document store is reachable.
func PingMongo(ctx context.Context, db *mongo.Database) error {
	return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}
