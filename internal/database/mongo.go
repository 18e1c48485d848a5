package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// Connect dials MongoDB, pings it and returns the named database.
func Connect(ctx context.Context, uri, name string, log *zap.Logger) (*mongo.Database, error) {
	if uri == "" {
		return nil, fmt.Errorf("database: missing MONGODB_URI")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	log.Info("connected to MongoDB", zap.String("database", name))
	return client.Database(name), nil
}

func Disconnect(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	return db.Client().Disconnect(ctx)
}
