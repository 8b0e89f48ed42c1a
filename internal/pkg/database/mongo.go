package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/appfolio/showcase-api/internal/pkg/env"
)

type MongoConfig struct {
	URI      string
	Database string
}

func LoadMongoConfig() MongoConfig {
	return MongoConfig{
		URI:      env.GetEnv("MONGODB_URI", "mongodb://localhost:27017"),
		Database: env.GetEnv("MONGODB_DATABASE", "appfolio"),
	}
}

// OpenMongo connects and pings the primary. Embedded documents decode as
// maps so diagram payloads keep their JSON shape.
func OpenMongo(ctx context.Context, cfg MongoConfig) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(10 * time.Second).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, client.Database(cfg.Database), nil
}
