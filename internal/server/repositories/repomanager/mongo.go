package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/propman/internal/server/repositories/properties"
	"github.com/dmitrijs2005/propman/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	defaultMongoDB       = "propman"
	usersCollection      = "users"
	propertiesCollection = "properties"
)

// MongoRepositoryManager vends MongoDB-backed repositories. WithTx does not
// open a session: user registration is a single insert guarded by the
// unique email index.
type MongoRepositoryManager struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoRepositoryManager(client *mongo.Client, dbName string) *MongoRepositoryManager {
	return &MongoRepositoryManager{client: client, db: client.Database(dbName)}
}

// OpenMongo connects using dsn. The database name comes from the URI path
// and falls back to "propman".
func OpenMongo(ctx context.Context, dsn string) (*MongoRepositoryManager, error) {
	cs, err := connstring.ParseAndValidate(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mongo uri: %w", err)
	}
	dbName := cs.Database
	if dbName == "" {
		dbName = defaultMongoDB
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return NewMongoRepositoryManager(client, dbName), nil
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return users.NewMongoRepository(m.db.Collection(usersCollection))
}

func (m *MongoRepositoryManager) Properties() properties.Repository {
	return properties.NewMongoRepository(m.db.Collection(propertiesCollection))
}

func (m *MongoRepositoryManager) WithTx(ctx context.Context, fn TxFunc) error {
	return fn(ctx, m.Users(), m.Properties())
}

// RunMigrations creates the indexes the repositories rely on. It is
// idempotent.
func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	_, err := m.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users index: %w", err)
	}

	_, err = m.db.Collection(propertiesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("properties index: %w", err)
	}
	return nil
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
