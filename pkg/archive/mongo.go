package archive

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore persists runs and snapshots in two MongoDB collections.
type MongoStore struct {
	client    *mongo.Client
	runs      *mongo.Collection
	snapshots *mongo.Collection
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string
	// Database is the database name. Defaults to "uldpack".
	Database string
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (Store, error) {
	if cfg.Database == "" {
		cfg.Database = "uldpack"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	db := client.Database(cfg.Database)
	return &MongoStore{
		client:    client,
		runs:      db.Collection("runs"),
		snapshots: db.Collection("snapshots"),
	}, nil
}

// SaveSnapshot inserts one generation snapshot.
func (s *MongoStore) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	_, err := s.snapshots.InsertOne(ctx, snap)
	return err
}

// SaveRun inserts one run record.
func (s *MongoStore) SaveRun(ctx context.Context, r Run) error {
	_, err := s.runs.InsertOne(ctx, r)
	return err
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
