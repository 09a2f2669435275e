package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/law-makers/pdp/pkg/models"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultMongoDatabase   = "pdp"
	DefaultMongoCollection = "products"
	mongoConnectTimeout    = 10 * time.Second
)

// Mongo inserts each record as a document
type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// OpenMongo connects to uri and verifies the connection
func OpenMongo(ctx context.Context, uri, database, collection string) (*Mongo, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}

	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Debug().
		Str("database", database).
		Str("collection", collection).
		Msg("Connected to MongoDB")

	return &Mongo{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// Emit inserts p
func (m *Mongo) Emit(ctx context.Context, p *models.Product) error {
	if _, err := m.collection.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert product %s: %w", p.PDPURL, err)
	}
	return nil
}

// Close disconnects the client
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
