package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/spec-kit/field-insights/internal/config"
)

// Mongo holds the optional annotation store connection.
type Mongo struct {
	client   *mongo.Client
	database *mongo.Database
	cfg      config.MongoConfig
}

// NewMongo connects when a URI is configured and returns nil otherwise.
func NewMongo(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*Mongo, error) {
	if !cfg.Enabled() {
		logger.Info("MONGO_URI not set; annotations served from postgres")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	database := client.Database(cfg.Database)
	_, err = database.Collection(cfg.Collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "recording_id", Value: 1}},
	})
	if err != nil {
		logger.Warn("unable to create annotation index", zap.Error(err))
	}

	logger.Info("connected to mongo", zap.String("database", cfg.Database))
	return &Mongo{client: client, database: database, cfg: cfg}, nil
}

// Annotations returns the annotation collection.
func (m *Mongo) Annotations() *mongo.Collection {
	return m.database.Collection(m.cfg.Collection)
}

// Ping verifies connectivity.
func (m *Mongo) Ping(ctx context.Context) error {
	if m == nil || m.client == nil {
		return errors.New("mongo client not configured")
	}
	return m.client.Ping(ctx, nil)
}

// Close disconnects the client, waiting at most five seconds. It is safe on a
// nil or unconfigured Mongo.
func (m *Mongo) Close() {
	if m == nil || m.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = m.client.Disconnect(ctx)
}
