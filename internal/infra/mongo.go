package infra

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

func InitMongo(ctx context.Context, uri string, log *zap.Logger) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	log.Info("MongoDB connected")
	return client, nil
}

func CloseMongo(ctx context.Context, client *mongo.Client, log *zap.Logger) {
	if err := client.Disconnect(ctx); err != nil {
		log.Error("Error disconnecting MongoDB", zap.Error(err))
	} else {
		log.Info("MongoDB connection closed successfully")
	}
}
